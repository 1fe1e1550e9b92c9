package asset

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpggio/assetledger/internal/domain/identity"
	"github.com/rpggio/assetledger/internal/domain/outcome"
)

// Fields are the descriptive attributes supplied at creation and never edited.
type Fields struct {
	AssetNumber   string          `json:"asset_number"`
	Area          string          `json:"area"`
	Description   string          `json:"description"`
	Unit          string          `json:"unit"`
	Quantity      int64           `json:"quantity"`
	ExpectedLife  int64           `json:"expected_life"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	PurchaseDate  time.Time       `json:"purchase_date"`
	WarrantyEnd   time.Time       `json:"warranty_end"`
	Barcode       string          `json:"barcode"`
}

// Asset is a physical item record. Index is dense and 0-based; asset 0 is a
// real asset, so ReplacedBy is nil rather than 0 when the asset is current.
type Asset struct {
	Index uint64 `json:"index"`
	Fields
	ForecastRefs []uint64    `json:"forecast_refs"`
	ActualRefs   []uint64    `json:"actual_refs"`
	CreatedBy    identity.ID `json:"created_by"`
	DeletedBy    identity.ID `json:"deleted_by"`
	ReplacedBy   *uint64     `json:"replaced_by,omitempty"`
}

// Deleted reports whether the asset has been soft-deleted.
func (a Asset) Deleted() bool {
	return a.DeletedBy.Valid()
}

// Replaced reports whether a newer asset superseded this one.
func (a Asset) Replaced() bool {
	return a.ReplacedBy != nil
}

// CreateOutcome reports the result of a create call. Success means the asset
// was created; Index is meaningful only then.
type CreateOutcome struct {
	outcome.Outcome
	Index    uint64  `json:"index"`
	Replaced *uint64 `json:"replaced,omitempty"`
}
