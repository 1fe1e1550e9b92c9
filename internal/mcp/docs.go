package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `assetledger is a registry of physical assets and their maintenance history.

Core concepts:
- Identity: your credential bound to a unique display name. Writes require one; reads do not.
- Asset: a physical item, indexed from 0 in creation order. Never edited; it can be soft-deleted or replaced.
- Forecast / Actual: planned and incurred maintenance costs, each owned by one asset.
- Outcome: every write returns {success, asset_found, caller_authorized, reason} instead of failing.

Workflow:
1) register_identity once, then whoami to confirm.
2) create_asset; pass replace_target to retire the asset it supersedes.
3) add_forecast_batch / add_actual against asset indices from list_assets.
4) get_asset, get_asset_forecasts, get_asset_actuals to read back with names resolved.

Transport notes:
- HTTP: send Authorization: Bearer <credential>.
- Stdio: send _meta.credential, or start the server with ASSETLEDGER_CREDENTIAL set.

Docs:
- assetledger://docs/index
- assetledger://docs/outcomes
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "assetledger://docs/index",
		Name:        "docs_index",
		Title:       "assetledger docs index",
		Description: "Data model, index rules and the tool catalogue.",
		Content: `# assetledger

## Indices

- Identities are numbered from 1. Index 0 means "nobody" and is never assigned.
- Assets, forecasts and actuals are numbered from 0 in the order they were created.
  Forecast and actual indices are global, not per asset.
- Nothing is ever physically removed, so indices are never reused.

## Assets

Fields are fixed at creation. The only later changes are:

- deleted_by: set by soft_delete_asset, or when the asset is replaced. Deleting twice keeps the last caller.
- replaced_by: set when create_asset names this asset as replace_target.

Any registered identity may delete any asset.

## Maintenance

add_forecast_batch processes entries in order and stops at the first entry whose
asset_index does not exist. Entries before it stay committed; the response gives
failed_at and one outcome per processed entry.

Forecast and actual references on an asset are kept in the order they were added.

## Tools

| Tool | Credential |
|---|---|
| register_identity, create_asset, soft_delete_asset, add_forecast_batch, add_actual, soft_delete_forecast, soft_delete_actual | required |
| whoami | used if present |
| list_identities, list_assets, get_asset, get_asset_forecasts, get_asset_actuals, get_recent_activity | not needed |

Money is exchanged as decimal strings ("1250.00"); dates as YYYY-MM-DD or RFC 3339.
`,
	},
	{
		URI:         "assetledger://docs/outcomes",
		Name:        "docs_outcomes",
		Title:       "Write outcomes",
		Description: "How to read success, asset_found, caller_authorized and reason.",
		Content: `# Write outcomes

| reason | caller_authorized | asset_found | meaning |
|---|---|---|---|
| (empty) | true | true | the write was applied |
| unauthorized | false | false | the credential is not registered; nothing changed |
| not_found | true | false | an index was out of range; nothing changed for that entry |
| duplicate_name | - | - | register_identity: the name is taken |

Invalid arguments (negative amounts, unparseable dates) are returned as tool
errors, not outcomes.

Every write, successful or not, is journaled and listed by get_recent_activity.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
