package mcp

import (
	"context"
	"net/http"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const credentialKey contextKey = iota

// metaCredentialKey names the _meta field carrying the caller credential on
// transports without headers.
const metaCredentialKey = "credential"

// getCredential extracts the caller credential from context.
func getCredential(ctx context.Context) string {
	v, _ := ctx.Value(credentialKey).(string)
	return v
}

// credentialMiddleware binds the caller credential to the request context.
// Requests that arrived over HTTP are identified only by their Authorization
// bearer header. Requests without HTTP headers (stdio) use _meta.credential,
// then defaultCredential. A missing credential is not rejected here; mutating
// tools report it as an Unauthorized outcome.
func credentialMiddleware(defaultCredential string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if credential := resolveCredential(req, defaultCredential); credential != "" {
				ctx = context.WithValue(ctx, credentialKey, credential)
			}
			return next(ctx, method, req)
		}
	}
}

func resolveCredential(req sdkmcp.Request, defaultCredential string) string {
	if header := requestHeader(req); header != nil {
		return bearerCredential(header)
	}
	if credential := metaCredential(req); credential != "" {
		return credential
	}
	return defaultCredential
}

func requestHeader(req sdkmcp.Request) http.Header {
	if req == nil {
		return nil
	}
	extra := req.GetExtra()
	if extra == nil {
		return nil
	}
	return extra.Header
}

func bearerCredential(header http.Header) string {
	auth := header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

func metaCredential(req sdkmcp.Request) (credential string) {
	if req == nil {
		return ""
	}
	// Some notifications (like "initialized") carry nil params, and GetMeta
	// panics on a nil underlying value.
	defer func() {
		if recover() != nil {
			credential = ""
		}
	}()
	params := req.GetParams()
	if params == nil {
		return ""
	}
	if meta := params.GetMeta(); meta != nil {
		if v, ok := meta[metaCredentialKey].(string); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
