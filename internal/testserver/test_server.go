// Package testserver runs the full service stack over an in-memory SQLite
// database and an in-memory MCP transport.
package testserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/assetledger/internal/app"
	"github.com/rpggio/assetledger/internal/mcp"
	"github.com/rpggio/assetledger/internal/sqlite"
)

type TestServer struct {
	DB      *sqlite.DB
	App     *app.App
	Server  *sdkmcp.Server
	Session *sdkmcp.ClientSession

	ctx context.Context
}

// NewDB opens a migrated in-memory database closed at test cleanup.
func NewDB(t testing.TB) *sqlite.DB {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// New wires every service, forwards activity to subscribed sessions and
// connects an MCP client. defaultCredential is used for in-memory calls that
// carry no _meta credential.
func New(t *testing.T, defaultCredential string) *TestServer {
	t.Helper()

	db := NewDB(t)
	a := app.New(db, app.Options{})

	server := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Identities:  a.Identities,
			Assets:      a.Assets,
			Maintenance: a.Maintenance,
			Query:       a.Query,
			Activity:    a.Activity,
		},
		DefaultCredential: defaultCredential,
		TransportMode:     "stdio",
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		a.Close()
	})
	mcp.ForwardActivity(ctx, server, a.Activity, nil)

	ts := &TestServer{DB: db, App: a, Server: server, ctx: ctx}
	ts.Session = ts.Connect(t, nil)
	return ts
}

// Connect opens another client session over in-memory transports.
func (ts *TestServer) Connect(t *testing.T, opts *sdkmcp.ClientOptions) *sdkmcp.ClientSession {
	t.Helper()

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	_, err := ts.Server.Connect(ts.ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, opts)
	session, err := client.Connect(ts.ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

// ConnectHTTP opens a client session over streamable HTTP. A non-empty
// bearer is sent as the Authorization header on every request.
func (ts *TestServer) ConnectHTTP(t *testing.T, bearer string) *sdkmcp.ClientSession {
	t.Helper()

	handler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server { return ts.Server }, nil)
	httpServer := httptest.NewServer(handler)
	t.Cleanup(httpServer.Close)

	httpClient := &http.Client{Transport: bearerTransport{bearer: bearer, base: http.DefaultTransport}}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-http-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ts.ctx, &sdkmcp.StreamableClientTransport{
		Endpoint:   httpServer.URL,
		HTTPClient: httpClient,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

type bearerTransport struct {
	bearer string
	base   http.RoundTripper
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if b.bearer == "" {
		return b.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.bearer)
	return b.base.RoundTrip(req)
}

// Call invokes a tool as credential; an empty credential sends none.
func (ts *TestServer) Call(t *testing.T, tool, credential string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()

	if args == nil {
		args = map[string]any{}
	}
	params := &sdkmcp.CallToolParams{Name: tool, Arguments: args}
	if credential != "" {
		params.Meta = sdkmcp.Meta{"credential": credential}
	}
	result, err := ts.Session.CallTool(context.Background(), params)
	require.NoError(t, err, "call %s", tool)
	require.NotNil(t, result)
	return result
}

// Decode unmarshals a successful tool result into T.
func Decode[T any](t *testing.T, result *sdkmcp.CallToolResult) T {
	t.Helper()

	require.False(t, result.IsError, "tool returned error: %s", ErrorText(result))
	data, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

// ErrorText returns the text content of a tool error result.
func ErrorText(result *sdkmcp.CallToolResult) string {
	for _, c := range result.Content {
		if text, ok := c.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}
