package activity

import (
	"time"

	"github.com/rpggio/assetledger/internal/domain/outcome"
)

// Kind names the operation an entry reports on
type Kind string

const (
	KindIdentityRegistered Kind = "identity_registered"
	KindAssetCreated       Kind = "asset_created"
	KindAssetDeleted       Kind = "asset_deleted"
	KindForecastAdded      Kind = "forecast_added"
	KindForecastDeleted    Kind = "forecast_deleted"
	KindActualAdded        Kind = "actual_added"
	KindActualDeleted      Kind = "actual_deleted"
)

// Entry is the notification published after every mutating call, whether or
// not it succeeded.
type Entry struct {
	ID               int64          `json:"id"`
	EventID          string         `json:"event_id"`
	Kind             Kind           `json:"kind"`
	Credential       string         `json:"credential"`
	Identity         uint64         `json:"identity"`
	AssetIndex       *uint64        `json:"asset_index,omitempty"`
	RecordIndex      *uint64        `json:"record_index,omitempty"`
	Reason           outcome.Reason `json:"reason,omitempty"`
	Success          bool           `json:"success"`
	AssetFound       bool           `json:"asset_found"`
	CallerAuthorized bool           `json:"caller_authorized"`
	Summary          string         `json:"summary"`
	CreatedAt        time.Time      `json:"created_at"`
}

// FromOutcome builds an entry carrying the flags of o.
func FromOutcome(kind Kind, credential string, identity uint64, o outcome.Outcome) Entry {
	return Entry{
		Kind:             kind,
		Credential:       credential,
		Identity:         identity,
		Reason:           o.Reason,
		Success:          o.Success,
		AssetFound:       o.AssetFound,
		CallerAuthorized: o.CallerAuthorized,
	}
}
