package query

import (
	"github.com/rpggio/assetledger/internal/domain/asset"
	"github.com/rpggio/assetledger/internal/domain/maintenance"
)

// AssetView is an asset with its creator and deleter resolved to names.
// A name is empty exactly when the reference is identity.None.
type AssetView struct {
	asset.Asset
	CreatedByName string `json:"created_by_name"`
	DeletedByName string `json:"deleted_by_name"`
}

// ForecastView is a forecast record with resolved names.
type ForecastView struct {
	maintenance.Forecast
	CreatedByName string `json:"created_by_name"`
	DeletedByName string `json:"deleted_by_name"`
}

// ActualView is an actual record with resolved names.
type ActualView struct {
	maintenance.Actual
	CreatedByName string `json:"created_by_name"`
	DeletedByName string `json:"deleted_by_name"`
}
