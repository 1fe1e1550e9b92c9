package maintenance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpggio/assetledger/internal/domain/identity"
	"github.com/rpggio/assetledger/internal/domain/outcome"
)

// ForecastEntry is one planned maintenance cost to append.
type ForecastEntry struct {
	AssetIndex  uint64          `json:"asset_index"`
	Cost        decimal.Decimal `json:"cost"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
}

// ActualEntry is one incurred maintenance cost to append.
type ActualEntry struct {
	AssetIndex    uint64          `json:"asset_index"`
	Cost          decimal.Decimal `json:"cost"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Supplier      string          `json:"supplier"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   time.Time       `json:"invoice_date"`
}

// Forecast is a stored planned maintenance record. Index is global across
// assets, dense and 0-based.
type Forecast struct {
	Index uint64 `json:"index"`
	ForecastEntry
	CreatedBy identity.ID `json:"created_by"`
	DeletedBy identity.ID `json:"deleted_by"`
}

// Actual is a stored incurred maintenance record.
type Actual struct {
	Index uint64 `json:"index"`
	ActualEntry
	CreatedBy identity.ID `json:"created_by"`
	DeletedBy identity.ID `json:"deleted_by"`
}

// RecordOutcome reports the result for one entry. Index is set only when the
// record was appended.
type RecordOutcome struct {
	outcome.Outcome
	Position   int     `json:"position"`
	AssetIndex uint64  `json:"asset_index"`
	Index      *uint64 `json:"index,omitempty"`
}

// BatchOutcome reports a batch append. Entries holds one outcome per processed
// entry: every committed entry, then the failing one if any. Entries after a
// failure are not processed.
type BatchOutcome struct {
	outcome.Outcome
	Committed int             `json:"committed"`
	FailedAt  *int            `json:"failed_at,omitempty"`
	Entries   []RecordOutcome `json:"entries"`
}
