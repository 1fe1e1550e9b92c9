package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/assetledger/internal/domain/activity"
	"github.com/rpggio/assetledger/internal/domain/asset"
	"github.com/rpggio/assetledger/internal/domain/maintenance"
	"github.com/rpggio/assetledger/internal/domain/outcome"
)

func registerTools(server *sdkmcp.Server, svc Services) {
	// Identities
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "register_identity",
		Description: "Bind the caller credential to a unique display name",
	}, registerIdentityHandler(svc.Identities))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "whoami",
		Description: "Show the identity bound to the caller credential (index 0 when unregistered)",
	}, whoamiHandler(svc.Identities))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_identities",
		Description: "List every registered identity in index order",
	}, listIdentitiesHandler(svc.Identities))

	// Assets
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_asset",
		Description: "Create an asset, optionally retiring an existing asset it replaces",
	}, createAssetHandler(svc.Assets))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "soft_delete_asset",
		Description: "Mark an asset deleted by the caller; the record is kept",
	}, softDeleteAssetHandler(svc.Assets))

	// Maintenance ledgers
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_forecast_batch",
		Description: "Append planned maintenance costs. Stops at the first entry naming a missing asset; earlier entries stay committed",
	}, addForecastBatchHandler(svc.Maintenance))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_actual",
		Description: "Append one incurred maintenance cost with supplier and invoice details",
	}, addActualHandler(svc.Maintenance))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "soft_delete_forecast",
		Description: "Mark a forecast record deleted by the caller",
	}, softDeleteRecordHandler("soft_delete_forecast", svc.Maintenance.SoftDeleteForecast))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "soft_delete_actual",
		Description: "Mark an actual record deleted by the caller",
	}, softDeleteRecordHandler("soft_delete_actual", svc.Maintenance.SoftDeleteActual))

	// Reads
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_assets",
		Description: "List every asset in creation order with creator and deleter names",
	}, listAssetsHandler(svc.Query))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_asset",
		Description: "Get one asset with creator and deleter names",
	}, getAssetHandler(svc.Query))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_asset_forecasts",
		Description: "Get an asset's forecast records in the order they were added",
	}, getAssetForecastsHandler(svc.Query))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_asset_actuals",
		Description: "Get an asset's actual records in the order they were added",
	}, getAssetActualsHandler(svc.Query))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent outcome notifications, newest first",
	}, getRecentActivityHandler(svc.Activity))
}

func registerIdentityHandler(identities IdentityService) sdkmcp.ToolHandlerFor[RegisterIdentityParams, RegisterIdentityResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in RegisterIdentityParams) (*sdkmcp.CallToolResult, RegisterIdentityResult, error) {
		out, err := identities.Register(ctx, getCredential(ctx), in.Name)
		if err != nil {
			return nil, RegisterIdentityResult{}, toolError("register_identity", err)
		}
		return nil, RegisterIdentityResult{
			Registered: out.Registered,
			Index:      uint64(out.Index),
			Reason:     string(out.Reason),
		}, nil
	}
}

func whoamiHandler(identities IdentityService) sdkmcp.ToolHandlerFor[WhoamiParams, IdentityResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ WhoamiParams) (*sdkmcp.CallToolResult, IdentityResult, error) {
		ident, err := identities.Whoami(ctx, getCredential(ctx))
		if err != nil {
			return nil, IdentityResult{}, toolError("whoami", err)
		}
		return nil, toIdentityResult(ident), nil
	}
}

func listIdentitiesHandler(identities IdentityService) sdkmcp.ToolHandlerFor[ListIdentitiesParams, ListIdentitiesResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListIdentitiesParams) (*sdkmcp.CallToolResult, ListIdentitiesResult, error) {
		list, err := identities.List(ctx)
		if err != nil {
			return nil, ListIdentitiesResult{}, toolError("list_identities", err)
		}
		result := ListIdentitiesResult{Identities: make([]IdentityResult, 0, len(list))}
		for _, ident := range list {
			result.Identities = append(result.Identities, toIdentityResult(ident))
		}
		return nil, result, nil
	}
}

func createAssetHandler(assets AssetService) sdkmcp.ToolHandlerFor[CreateAssetParams, CreateAssetResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateAssetParams) (*sdkmcp.CallToolResult, CreateAssetResult, error) {
		fields, err := assetFields(in)
		if err != nil {
			return nil, CreateAssetResult{}, toolError("create_asset", err)
		}
		out, err := assets.Create(ctx, getCredential(ctx), asset.CreateRequest{
			Fields:        fields,
			ReplaceTarget: in.ReplaceTarget,
		})
		if err != nil {
			return nil, CreateAssetResult{}, toolError("create_asset", err)
		}
		result := CreateAssetResult{Outcome: toOutcomeResult(out.Outcome)}
		if out.Success {
			index := out.Index
			result.Index = &index
			result.Replaced = out.Replaced
		}
		return nil, result, nil
	}
}

func assetFields(in CreateAssetParams) (asset.Fields, error) {
	price, err := parseAmount("purchase_price", in.PurchasePrice)
	if err != nil {
		return asset.Fields{}, err
	}
	purchased, err := parseDate("purchase_date", in.PurchaseDate)
	if err != nil {
		return asset.Fields{}, err
	}
	warrantyEnd, err := parseDate("warranty_end", in.WarrantyEnd)
	if err != nil {
		return asset.Fields{}, err
	}
	return asset.Fields{
		AssetNumber:   in.AssetNumber,
		Area:          in.Area,
		Description:   in.Description,
		Unit:          in.Unit,
		Quantity:      in.Quantity,
		ExpectedLife:  in.ExpectedLife,
		PurchasePrice: price,
		PurchaseDate:  purchased,
		WarrantyEnd:   warrantyEnd,
		Barcode:       in.Barcode,
	}, nil
}

func softDeleteAssetHandler(assets AssetService) sdkmcp.ToolHandlerFor[AssetIndexParams, OutcomeResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in AssetIndexParams) (*sdkmcp.CallToolResult, OutcomeResult, error) {
		out, err := assets.SoftDelete(ctx, getCredential(ctx), in.Index)
		if err != nil {
			return nil, OutcomeResult{}, toolError("soft_delete_asset", err)
		}
		return nil, toOutcomeResult(out), nil
	}
}

func addForecastBatchHandler(ledger MaintenanceService) sdkmcp.ToolHandlerFor[AddForecastBatchParams, BatchOutcomeResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddForecastBatchParams) (*sdkmcp.CallToolResult, BatchOutcomeResult, error) {
		entries := make([]maintenance.ForecastEntry, 0, len(in.Entries))
		for _, e := range in.Entries {
			cost, err := parseAmount("cost", e.Cost)
			if err != nil {
				return nil, BatchOutcomeResult{}, toolError("add_forecast_batch", err)
			}
			date, err := parseDate("date", e.Date)
			if err != nil {
				return nil, BatchOutcomeResult{}, toolError("add_forecast_batch", err)
			}
			entries = append(entries, maintenance.ForecastEntry{
				AssetIndex:  e.AssetIndex,
				Cost:        cost,
				Date:        date,
				Description: e.Description,
			})
		}

		out, err := ledger.AddForecastBatch(ctx, getCredential(ctx), entries)
		if err != nil {
			return nil, BatchOutcomeResult{}, toolError("add_forecast_batch", err)
		}
		return nil, toBatchOutcomeResult(out), nil
	}
}

func addActualHandler(ledger MaintenanceService) sdkmcp.ToolHandlerFor[AddActualParams, RecordOutcomeResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddActualParams) (*sdkmcp.CallToolResult, RecordOutcomeResult, error) {
		cost, err := parseAmount("cost", in.Cost)
		if err != nil {
			return nil, RecordOutcomeResult{}, toolError("add_actual", err)
		}
		date, err := parseDate("date", in.Date)
		if err != nil {
			return nil, RecordOutcomeResult{}, toolError("add_actual", err)
		}
		invoiced, err := parseDate("invoice_date", in.InvoiceDate)
		if err != nil {
			return nil, RecordOutcomeResult{}, toolError("add_actual", err)
		}

		out, err := ledger.AddActual(ctx, getCredential(ctx), maintenance.ActualEntry{
			AssetIndex:    in.AssetIndex,
			Cost:          cost,
			Date:          date,
			Description:   in.Description,
			Supplier:      in.Supplier,
			InvoiceNumber: in.InvoiceNumber,
			InvoiceDate:   invoiced,
		})
		if err != nil {
			return nil, RecordOutcomeResult{}, toolError("add_actual", err)
		}
		return nil, toRecordOutcomeResult(out), nil
	}
}

func softDeleteRecordHandler(
	name string,
	del func(ctx context.Context, credential string, index uint64) (outcome.Outcome, error),
) sdkmcp.ToolHandlerFor[RecordIndexParams, OutcomeResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecordIndexParams) (*sdkmcp.CallToolResult, OutcomeResult, error) {
		out, err := del(ctx, getCredential(ctx), in.Index)
		if err != nil {
			return nil, OutcomeResult{}, toolError(name, err)
		}
		return nil, toOutcomeResult(out), nil
	}
}

func listAssetsHandler(q QueryService) sdkmcp.ToolHandlerFor[ListAssetsParams, ListAssetsResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListAssetsParams) (*sdkmcp.CallToolResult, ListAssetsResult, error) {
		views, err := q.ListAssets(ctx)
		if err != nil {
			return nil, ListAssetsResult{}, toolError("list_assets", err)
		}
		result := ListAssetsResult{Assets: make([]AssetResult, 0, len(views))}
		for _, v := range views {
			result.Assets = append(result.Assets, toAssetResult(v))
		}
		return nil, result, nil
	}
}

func getAssetHandler(q QueryService) sdkmcp.ToolHandlerFor[AssetIndexParams, AssetResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in AssetIndexParams) (*sdkmcp.CallToolResult, AssetResult, error) {
		view, err := q.GetAsset(ctx, in.Index)
		if err != nil {
			return nil, AssetResult{}, toolError("get_asset", err)
		}
		return nil, toAssetResult(*view), nil
	}
}

func getAssetForecastsHandler(q QueryService) sdkmcp.ToolHandlerFor[AssetIndexParams, AssetForecastsResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in AssetIndexParams) (*sdkmcp.CallToolResult, AssetForecastsResult, error) {
		views, err := q.GetAssetForecasts(ctx, in.Index)
		if err != nil {
			return nil, AssetForecastsResult{}, toolError("get_asset_forecasts", err)
		}
		result := AssetForecastsResult{AssetIndex: in.Index, Forecasts: make([]ForecastResult, 0, len(views))}
		for _, v := range views {
			result.Forecasts = append(result.Forecasts, toForecastResult(v))
		}
		return nil, result, nil
	}
}

func getAssetActualsHandler(q QueryService) sdkmcp.ToolHandlerFor[AssetIndexParams, AssetActualsResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in AssetIndexParams) (*sdkmcp.CallToolResult, AssetActualsResult, error) {
		views, err := q.GetAssetActuals(ctx, in.Index)
		if err != nil {
			return nil, AssetActualsResult{}, toolError("get_asset_actuals", err)
		}
		result := AssetActualsResult{AssetIndex: in.Index, Actuals: make([]ActualResult, 0, len(views))}
		for _, v := range views {
			result.Actuals = append(result.Actuals, toActualResult(v))
		}
		return nil, result, nil
	}
}

func getRecentActivityHandler(activitySvc ActivityService) sdkmcp.ToolHandlerFor[GetRecentActivityParams, RecentActivityResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetRecentActivityParams) (*sdkmcp.CallToolResult, RecentActivityResult, error) {
		opts := activity.ListActivityOptions{
			AssetIndex: in.AssetIndex,
			Limit:      in.Limit,
			Offset:     in.Offset,
		}
		if opts.Limit <= 0 {
			opts.Limit = defaultActivityLimit
		}
		if in.Kind != "" {
			kind := activity.Kind(in.Kind)
			opts.Kind = &kind
		}

		entries, err := activitySvc.GetRecentActivity(ctx, opts)
		if err != nil {
			return nil, RecentActivityResult{}, toolError("get_recent_activity", err)
		}
		result := RecentActivityResult{Entries: make([]ActivityResult, 0, len(entries))}
		for _, e := range entries {
			result.Entries = append(result.Entries, toActivityResult(e))
		}
		return nil, result, nil
	}
}

const defaultActivityLimit = 50
