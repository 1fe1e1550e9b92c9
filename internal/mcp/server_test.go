package mcp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/assetledger/internal/mcp"
	"github.com/rpggio/assetledger/internal/testserver"
)

func register(t *testing.T, ts *testserver.TestServer, credential, name string) uint64 {
	t.Helper()
	out := testserver.Decode[mcp.RegisterIdentityResult](t, ts.Call(t, "register_identity", credential, map[string]any{"name": name}))
	require.True(t, out.Registered)
	return out.Index
}

func createAsset(t *testing.T, ts *testserver.TestServer, credential string, args map[string]any) mcp.CreateAssetResult {
	t.Helper()
	return testserver.Decode[mcp.CreateAssetResult](t, ts.Call(t, "create_asset", credential, args))
}

func TestTools_RegisterAndWhoami(t *testing.T) {
	ts := testserver.New(t, "")

	require.Equal(t, uint64(1), register(t, ts, "key-a", "alice"))
	require.Equal(t, uint64(2), register(t, ts, "key-b", "bob"))

	dup := testserver.Decode[mcp.RegisterIdentityResult](t, ts.Call(t, "register_identity", "key-c", map[string]any{"name": "alice"}))
	require.False(t, dup.Registered)
	require.Equal(t, "duplicate_name", dup.Reason)

	me := testserver.Decode[mcp.IdentityResult](t, ts.Call(t, "whoami", "key-b", nil))
	require.Equal(t, uint64(2), me.Index)
	require.Equal(t, "bob", me.DisplayName)

	nobody := testserver.Decode[mcp.IdentityResult](t, ts.Call(t, "whoami", "key-z", nil))
	require.Zero(t, nobody.Index)

	list := testserver.Decode[mcp.ListIdentitiesResult](t, ts.Call(t, "list_identities", "", nil))
	require.Len(t, list.Identities, 2)
	require.Equal(t, "alice", list.Identities[0].DisplayName)
}

func TestTools_BlankNameIsToolError(t *testing.T) {
	ts := testserver.New(t, "")

	result := ts.Call(t, "register_identity", "key-a", map[string]any{"name": "  "})
	require.True(t, result.IsError)
	require.Contains(t, testserver.ErrorText(result), "INVALID_NAME")
}

func TestTools_AssetLifecycle(t *testing.T) {
	ts := testserver.New(t, "")
	register(t, ts, "key-a", "alice")
	register(t, ts, "key-b", "bob")

	first := createAsset(t, ts, "key-a", map[string]any{
		"asset_number":   "A-1",
		"area":           "Plant room",
		"description":    "Boiler",
		"unit":           "ea",
		"quantity":       1,
		"expected_life":  20,
		"purchase_price": "1500.25",
		"purchase_date":  "2020-03-01",
		"warranty_end":   "2025-03-01",
	})
	require.True(t, first.Outcome.Success)
	require.NotNil(t, first.Index)
	require.Equal(t, uint64(0), *first.Index)

	second := createAsset(t, ts, "key-b", map[string]any{
		"asset_number":   "A-2",
		"replace_target": 0,
	})
	require.True(t, second.Outcome.Success)
	require.Equal(t, uint64(1), *second.Index)
	require.Equal(t, uint64(0), *second.Replaced)

	old := testserver.Decode[mcp.AssetResult](t, ts.Call(t, "get_asset", "", map[string]any{"index": 0}))
	require.Equal(t, "A-1", old.AssetNumber)
	require.Equal(t, "1500.25", old.PurchasePrice)
	require.Equal(t, "2020-03-01", old.PurchaseDate)
	require.Equal(t, "alice", old.CreatedByName)
	require.Equal(t, "bob", old.DeletedByName)
	require.NotNil(t, old.ReplacedBy)
	require.Equal(t, uint64(1), *old.ReplacedBy)

	list := testserver.Decode[mcp.ListAssetsResult](t, ts.Call(t, "list_assets", "", nil))
	require.Len(t, list.Assets, 2)
	require.Equal(t, "", list.Assets[1].DeletedByName)
	require.Zero(t, list.Assets[1].DeletedBy)

	del := testserver.Decode[mcp.OutcomeResult](t, ts.Call(t, "soft_delete_asset", "key-a", map[string]any{"index": 1}))
	require.True(t, del.Success)

	missing := testserver.Decode[mcp.OutcomeResult](t, ts.Call(t, "soft_delete_asset", "key-a", map[string]any{"index": 9}))
	require.False(t, missing.Success)
	require.True(t, missing.CallerAuthorized)
	require.Equal(t, "not_found", missing.Reason)
}

func TestTools_UnauthorizedWritesReportOutcome(t *testing.T) {
	ts := testserver.New(t, "")

	created := createAsset(t, ts, "stranger", map[string]any{"asset_number": "A-1"})
	require.False(t, created.Outcome.Success)
	require.False(t, created.Outcome.CallerAuthorized)
	require.Equal(t, "unauthorized", created.Outcome.Reason)
	require.Nil(t, created.Index)

	noCredential := createAsset(t, ts, "", map[string]any{"asset_number": "A-1"})
	require.Equal(t, "unauthorized", noCredential.Outcome.Reason)

	list := testserver.Decode[mcp.ListAssetsResult](t, ts.Call(t, "list_assets", "", nil))
	require.Empty(t, list.Assets)
}

func TestTools_DefaultCredential(t *testing.T) {
	ts := testserver.New(t, "key-local")
	register(t, ts, "", "local")

	created := createAsset(t, ts, "", map[string]any{"asset_number": "A-1"})
	require.True(t, created.Outcome.Success)

	me := testserver.Decode[mcp.IdentityResult](t, ts.Call(t, "whoami", "", nil))
	require.Equal(t, "local", me.DisplayName)
}

func TestTools_MaintenanceLedgers(t *testing.T) {
	ts := testserver.New(t, "")
	register(t, ts, "key-a", "alice")
	createAsset(t, ts, "key-a", map[string]any{"asset_number": "A-1"})
	createAsset(t, ts, "key-a", map[string]any{"asset_number": "A-2"})

	batch := testserver.Decode[mcp.BatchOutcomeResult](t, ts.Call(t, "add_forecast_batch", "key-a", map[string]any{
		"entries": []map[string]any{
			{"asset_index": 1, "cost": "100.50", "date": "2027-01-01", "description": "service"},
			{"asset_index": 7, "cost": "20"},
			{"asset_index": 0, "cost": "30"},
		},
	}))
	require.False(t, batch.Outcome.Success)
	require.Equal(t, "not_found", batch.Outcome.Reason)
	require.Equal(t, 1, batch.Committed)
	require.NotNil(t, batch.FailedAt)
	require.Equal(t, 1, *batch.FailedAt)
	require.Len(t, batch.Entries, 2)

	forecasts := testserver.Decode[mcp.AssetForecastsResult](t, ts.Call(t, "get_asset_forecasts", "", map[string]any{"index": 1}))
	require.Len(t, forecasts.Forecasts, 1)
	require.Equal(t, "100.5", forecasts.Forecasts[0].Cost)
	require.Equal(t, "2027-01-01", forecasts.Forecasts[0].Date)
	require.Equal(t, "alice", forecasts.Forecasts[0].CreatedByName)

	none := testserver.Decode[mcp.AssetForecastsResult](t, ts.Call(t, "get_asset_forecasts", "", map[string]any{"index": 0}))
	require.Empty(t, none.Forecasts)

	actual := testserver.Decode[mcp.RecordOutcomeResult](t, ts.Call(t, "add_actual", "key-a", map[string]any{
		"asset_index":    0,
		"cost":           "812.40",
		"supplier":       "Acme Heating",
		"invoice_number": "INV-1001",
		"invoice_date":   "2026-01-15",
	}))
	require.True(t, actual.Outcome.Success)
	require.Equal(t, uint64(0), *actual.Index)

	del := testserver.Decode[mcp.OutcomeResult](t, ts.Call(t, "soft_delete_actual", "key-a", map[string]any{"index": 0}))
	require.True(t, del.Success)

	actuals := testserver.Decode[mcp.AssetActualsResult](t, ts.Call(t, "get_asset_actuals", "", map[string]any{"index": 0}))
	require.Len(t, actuals.Actuals, 1)
	require.Equal(t, "812.4", actuals.Actuals[0].Cost)
	require.Equal(t, "Acme Heating", actuals.Actuals[0].Supplier)
	require.Equal(t, "alice", actuals.Actuals[0].DeletedByName)

	missing := testserver.Decode[mcp.OutcomeResult](t, ts.Call(t, "soft_delete_forecast", "key-a", map[string]any{"index": 5}))
	require.Equal(t, "not_found", missing.Reason)
}

func TestTools_ArgumentErrors(t *testing.T) {
	ts := testserver.New(t, "")
	register(t, ts, "key-a", "alice")

	result := ts.Call(t, "create_asset", "key-a", map[string]any{"asset_number": "A-1", "purchase_price": "lots"})
	require.True(t, result.IsError)
	require.Contains(t, testserver.ErrorText(result), "INVALID_ARGUMENT")

	result = ts.Call(t, "create_asset", "key-a", map[string]any{"asset_number": "A-1", "quantity": -2})
	require.True(t, result.IsError)
	require.Contains(t, testserver.ErrorText(result), "INVALID_INPUT")

	result = ts.Call(t, "get_asset", "", map[string]any{"index": 3})
	require.True(t, result.IsError)
	require.Contains(t, testserver.ErrorText(result), "ASSET_NOT_FOUND")
}

func TestTools_RecentActivity(t *testing.T) {
	ts := testserver.New(t, "")
	register(t, ts, "key-a", "alice")
	createAsset(t, ts, "key-a", map[string]any{"asset_number": "A-1"})
	createAsset(t, ts, "stranger", map[string]any{"asset_number": "A-2"})

	recent := testserver.Decode[mcp.RecentActivityResult](t, ts.Call(t, "get_recent_activity", "", nil))
	require.Len(t, recent.Entries, 3)
	require.Equal(t, "asset_created", recent.Entries[0].Kind)
	require.Equal(t, "unauthorized", recent.Entries[0].Reason)
	require.True(t, recent.Entries[1].Success)
	require.Equal(t, "identity_registered", recent.Entries[2].Kind)

	filtered := testserver.Decode[mcp.RecentActivityResult](t, ts.Call(t, "get_recent_activity", "", map[string]any{
		"kind":  "identity_registered",
		"limit": 10,
	}))
	require.Len(t, filtered.Entries, 1)
}
