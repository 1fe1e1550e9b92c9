package mcp

import (
	"time"

	"github.com/rpggio/assetledger/internal/domain/activity"
	"github.com/rpggio/assetledger/internal/domain/identity"
	"github.com/rpggio/assetledger/internal/domain/maintenance"
	"github.com/rpggio/assetledger/internal/domain/outcome"
	"github.com/rpggio/assetledger/internal/domain/query"
)

type RegisterIdentityParams struct {
	Name string `json:"name" jsonschema:"display name, unique across all identities"`
}

type WhoamiParams struct{}

type ListIdentitiesParams struct{}

type ListAssetsParams struct{}

type CreateAssetParams struct {
	AssetNumber   string  `json:"asset_number" jsonschema:"owner-assigned asset number"`
	Area          string  `json:"area,omitempty" jsonschema:"location or area of the asset"`
	Description   string  `json:"description,omitempty"`
	Unit          string  `json:"unit,omitempty" jsonschema:"unit of measure, e.g. ea or m2"`
	Quantity      int64   `json:"quantity,omitempty"`
	ExpectedLife  int64   `json:"expected_life,omitempty" jsonschema:"expected life in years"`
	PurchasePrice string  `json:"purchase_price,omitempty" jsonschema:"decimal amount, e.g. 1250.00"`
	PurchaseDate  string  `json:"purchase_date,omitempty" jsonschema:"YYYY-MM-DD or RFC 3339"`
	WarrantyEnd   string  `json:"warranty_end,omitempty" jsonschema:"YYYY-MM-DD or RFC 3339"`
	Barcode       string  `json:"barcode,omitempty"`
	ReplaceTarget *uint64 `json:"replace_target,omitempty" jsonschema:"index of an existing asset retired by this one"`
}

type AssetIndexParams struct {
	Index uint64 `json:"index" jsonschema:"asset index (0-based)"`
}

type RecordIndexParams struct {
	Index uint64 `json:"index" jsonschema:"record index in its ledger (0-based, global across assets)"`
}

type ForecastEntryParams struct {
	AssetIndex  uint64 `json:"asset_index" jsonschema:"owning asset index"`
	Cost        string `json:"cost" jsonschema:"decimal amount"`
	Date        string `json:"date,omitempty" jsonschema:"planned date, YYYY-MM-DD or RFC 3339"`
	Description string `json:"description,omitempty"`
}

type AddForecastBatchParams struct {
	Entries []ForecastEntryParams `json:"entries" jsonschema:"forecasts to append, processed in order"`
}

type AddActualParams struct {
	AssetIndex    uint64 `json:"asset_index" jsonschema:"owning asset index"`
	Cost          string `json:"cost" jsonschema:"decimal amount"`
	Date          string `json:"date,omitempty" jsonschema:"date the work was done"`
	Description   string `json:"description,omitempty"`
	Supplier      string `json:"supplier,omitempty"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	InvoiceDate   string `json:"invoice_date,omitempty"`
}

type GetRecentActivityParams struct {
	Kind       string  `json:"kind,omitempty" jsonschema:"filter by kind, e.g. asset_created"`
	AssetIndex *uint64 `json:"asset_index,omitempty" jsonschema:"filter by asset index"`
	Limit      int     `json:"limit,omitempty"`
	Offset     int     `json:"offset,omitempty"`
}

// OutcomeResult mirrors outcome.Outcome on the wire.
type OutcomeResult struct {
	Success          bool   `json:"success"`
	AssetFound       bool   `json:"asset_found"`
	CallerAuthorized bool   `json:"caller_authorized"`
	Reason           string `json:"reason,omitempty"`
}

type RegisterIdentityResult struct {
	Registered bool   `json:"registered"`
	Index      uint64 `json:"index"`
	Reason     string `json:"reason,omitempty"`
}

type IdentityResult struct {
	Index       uint64 `json:"index"`
	Credential  string `json:"credential,omitempty"`
	DisplayName string `json:"display_name"`
}

type ListIdentitiesResult struct {
	Identities []IdentityResult `json:"identities"`
}

type CreateAssetResult struct {
	Outcome  OutcomeResult `json:"outcome"`
	Index    *uint64       `json:"index,omitempty"`
	Replaced *uint64       `json:"replaced,omitempty"`
}

type RecordOutcomeResult struct {
	Position   int           `json:"position"`
	AssetIndex uint64        `json:"asset_index"`
	Index      *uint64       `json:"index,omitempty"`
	Outcome    OutcomeResult `json:"outcome"`
}

type BatchOutcomeResult struct {
	Outcome   OutcomeResult         `json:"outcome"`
	Committed int                   `json:"committed"`
	FailedAt  *int                  `json:"failed_at,omitempty"`
	Entries   []RecordOutcomeResult `json:"entries"`
}

type AssetResult struct {
	Index         uint64   `json:"index"`
	AssetNumber   string   `json:"asset_number"`
	Area          string   `json:"area"`
	Description   string   `json:"description"`
	Unit          string   `json:"unit"`
	Quantity      int64    `json:"quantity"`
	ExpectedLife  int64    `json:"expected_life"`
	PurchasePrice string   `json:"purchase_price"`
	PurchaseDate  string   `json:"purchase_date,omitempty"`
	WarrantyEnd   string   `json:"warranty_end,omitempty"`
	Barcode       string   `json:"barcode"`
	ForecastRefs  []uint64 `json:"forecast_refs"`
	ActualRefs    []uint64 `json:"actual_refs"`
	CreatedBy     uint64   `json:"created_by"`
	CreatedByName string   `json:"created_by_name"`
	DeletedBy     uint64   `json:"deleted_by"`
	DeletedByName string   `json:"deleted_by_name"`
	ReplacedBy    *uint64  `json:"replaced_by,omitempty"`
}

type ListAssetsResult struct {
	Assets []AssetResult `json:"assets"`
}

type ForecastResult struct {
	Index         uint64 `json:"index"`
	AssetIndex    uint64 `json:"asset_index"`
	Cost          string `json:"cost"`
	Date          string `json:"date,omitempty"`
	Description   string `json:"description"`
	CreatedBy     uint64 `json:"created_by"`
	CreatedByName string `json:"created_by_name"`
	DeletedBy     uint64 `json:"deleted_by"`
	DeletedByName string `json:"deleted_by_name"`
}

type ActualResult struct {
	Index         uint64 `json:"index"`
	AssetIndex    uint64 `json:"asset_index"`
	Cost          string `json:"cost"`
	Date          string `json:"date,omitempty"`
	Description   string `json:"description"`
	Supplier      string `json:"supplier"`
	InvoiceNumber string `json:"invoice_number"`
	InvoiceDate   string `json:"invoice_date,omitempty"`
	CreatedBy     uint64 `json:"created_by"`
	CreatedByName string `json:"created_by_name"`
	DeletedBy     uint64 `json:"deleted_by"`
	DeletedByName string `json:"deleted_by_name"`
}

type AssetForecastsResult struct {
	AssetIndex uint64           `json:"asset_index"`
	Forecasts  []ForecastResult `json:"forecasts"`
}

type AssetActualsResult struct {
	AssetIndex uint64         `json:"asset_index"`
	Actuals    []ActualResult `json:"actuals"`
}

type ActivityResult struct {
	ID               int64   `json:"id"`
	EventID          string  `json:"event_id"`
	Kind             string  `json:"kind"`
	Identity         uint64  `json:"identity"`
	AssetIndex       *uint64 `json:"asset_index,omitempty"`
	RecordIndex      *uint64 `json:"record_index,omitempty"`
	Reason           string  `json:"reason,omitempty"`
	Success          bool    `json:"success"`
	AssetFound       bool    `json:"asset_found"`
	CallerAuthorized bool    `json:"caller_authorized"`
	Summary          string  `json:"summary"`
	CreatedAt        string  `json:"created_at"`
}

type RecentActivityResult struct {
	Entries []ActivityResult `json:"entries"`
}

func toOutcomeResult(o outcome.Outcome) OutcomeResult {
	return OutcomeResult{
		Success:          o.Success,
		AssetFound:       o.AssetFound,
		CallerAuthorized: o.CallerAuthorized,
		Reason:           string(o.Reason),
	}
}

func toIdentityResult(ident identity.Identity) IdentityResult {
	return IdentityResult{
		Index:       uint64(ident.Index),
		Credential:  ident.Credential,
		DisplayName: ident.DisplayName,
	}
}

func toRecordOutcomeResult(ro maintenance.RecordOutcome) RecordOutcomeResult {
	return RecordOutcomeResult{
		Position:   ro.Position,
		AssetIndex: ro.AssetIndex,
		Index:      ro.Index,
		Outcome:    toOutcomeResult(ro.Outcome),
	}
}

func toBatchOutcomeResult(b maintenance.BatchOutcome) BatchOutcomeResult {
	entries := make([]RecordOutcomeResult, 0, len(b.Entries))
	for _, ro := range b.Entries {
		entries = append(entries, toRecordOutcomeResult(ro))
	}
	return BatchOutcomeResult{
		Outcome:   toOutcomeResult(b.Outcome),
		Committed: b.Committed,
		FailedAt:  b.FailedAt,
		Entries:   entries,
	}
}

func toAssetResult(v query.AssetView) AssetResult {
	return AssetResult{
		Index:         v.Index,
		AssetNumber:   v.AssetNumber,
		Area:          v.Area,
		Description:   v.Description,
		Unit:          v.Unit,
		Quantity:      v.Quantity,
		ExpectedLife:  v.ExpectedLife,
		PurchasePrice: v.PurchasePrice.String(),
		PurchaseDate:  formatDate(v.PurchaseDate),
		WarrantyEnd:   formatDate(v.WarrantyEnd),
		Barcode:       v.Barcode,
		ForecastRefs:  nonNil(v.ForecastRefs),
		ActualRefs:    nonNil(v.ActualRefs),
		CreatedBy:     uint64(v.CreatedBy),
		CreatedByName: v.CreatedByName,
		DeletedBy:     uint64(v.DeletedBy),
		DeletedByName: v.DeletedByName,
		ReplacedBy:    v.ReplacedBy,
	}
}

func toForecastResult(v query.ForecastView) ForecastResult {
	return ForecastResult{
		Index:         v.Index,
		AssetIndex:    v.AssetIndex,
		Cost:          v.Cost.String(),
		Date:          formatDate(v.Date),
		Description:   v.Description,
		CreatedBy:     uint64(v.CreatedBy),
		CreatedByName: v.CreatedByName,
		DeletedBy:     uint64(v.DeletedBy),
		DeletedByName: v.DeletedByName,
	}
}

func toActualResult(v query.ActualView) ActualResult {
	return ActualResult{
		Index:         v.Index,
		AssetIndex:    v.AssetIndex,
		Cost:          v.Cost.String(),
		Date:          formatDate(v.Date),
		Description:   v.Description,
		Supplier:      v.Supplier,
		InvoiceNumber: v.InvoiceNumber,
		InvoiceDate:   formatDate(v.InvoiceDate),
		CreatedBy:     uint64(v.CreatedBy),
		CreatedByName: v.CreatedByName,
		DeletedBy:     uint64(v.DeletedBy),
		DeletedByName: v.DeletedByName,
	}
}

func toActivityResult(e activity.Entry) ActivityResult {
	return ActivityResult{
		ID:               e.ID,
		EventID:          e.EventID,
		Kind:             string(e.Kind),
		Identity:         e.Identity,
		AssetIndex:       e.AssetIndex,
		RecordIndex:      e.RecordIndex,
		Reason:           string(e.Reason),
		Success:          e.Success,
		AssetFound:       e.AssetFound,
		CallerAuthorized: e.CallerAuthorized,
		Summary:          e.Summary,
		CreatedAt:        e.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func nonNil(refs []uint64) []uint64 {
	if refs == nil {
		return []uint64{}
	}
	return refs
}
