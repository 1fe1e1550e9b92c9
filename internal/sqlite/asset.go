package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/assetledger/internal/domain/asset"
	"github.com/rpggio/assetledger/internal/domain/identity"
	"github.com/rpggio/assetledger/internal/repository"
)

const assetColumns = `
	idx, asset_number, area, description, unit, quantity, expected_life,
	purchase_price, purchase_date, warranty_end, barcode,
	created_by, deleted_by, replaced_by
`

// AssetRepository implements asset.Repository for SQLite
type AssetRepository struct {
	db *DB
}

// NewAssetRepository creates a new AssetRepository
func NewAssetRepository(db *DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// Create inserts a at the next dense index
func (r *AssetRepository) Create(ctx context.Context, a *asset.Asset) error {
	next, err := r.db.count(ctx, "assets")
	if err != nil {
		return err
	}

	query := `
		INSERT INTO assets (
			idx, asset_number, area, description, unit, quantity, expected_life,
			purchase_price, purchase_date, warranty_end, barcode,
			created_by, deleted_by, replaced_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.conn(ctx).ExecContext(ctx, query,
		int64(next),
		a.AssetNumber,
		a.Area,
		a.Description,
		a.Unit,
		a.Quantity,
		a.ExpectedLife,
		formatDecimal(a.PurchasePrice),
		formatTime(a.PurchaseDate),
		formatTime(a.WarrantyEnd),
		a.Barcode,
		int64(a.CreatedBy),
		int64(a.DeletedBy),
		nullIndex(a.ReplacedBy),
	)
	if err != nil {
		return translate(err, "create asset")
	}

	a.Index = next
	return nil
}

// Get retrieves an asset with its reference lists
func (r *AssetRepository) Get(ctx context.Context, index uint64) (*asset.Asset, error) {
	row := r.db.conn(ctx).QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE idx = ?`, int64(index))
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	forecasts, err := r.refs(ctx, "asset_forecast_refs", "forecast_idx", &index)
	if err != nil {
		return nil, err
	}
	actuals, err := r.refs(ctx, "asset_actual_refs", "actual_idx", &index)
	if err != nil {
		return nil, err
	}
	a.ForecastRefs = forecasts[index]
	a.ActualRefs = actuals[index]
	return a, nil
}

// List returns all assets in index order
func (r *AssetRepository) List(ctx context.Context) ([]asset.Asset, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY idx ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var list []asset.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset rows: %w", err)
	}

	forecasts, err := r.refs(ctx, "asset_forecast_refs", "forecast_idx", nil)
	if err != nil {
		return nil, err
	}
	actuals, err := r.refs(ctx, "asset_actual_refs", "actual_idx", nil)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].ForecastRefs = forecasts[list[i].Index]
		list[i].ActualRefs = actuals[list[i].Index]
	}
	return list, nil
}

// Count returns the number of assets
func (r *AssetRepository) Count(ctx context.Context) (uint64, error) {
	return r.db.count(ctx, "assets")
}

// MarkDeleted sets deleted_by, overwriting any earlier deleter
func (r *AssetRepository) MarkDeleted(ctx context.Context, index uint64, by identity.ID) error {
	return r.update(ctx, `UPDATE assets SET deleted_by = ? WHERE idx = ?`, int64(by), int64(index))
}

// MarkReplaced retires the asset at index in favour of successor
func (r *AssetRepository) MarkReplaced(ctx context.Context, index uint64, by identity.ID, successor uint64) error {
	return r.update(ctx,
		`UPDATE assets SET deleted_by = ?, replaced_by = ? WHERE idx = ?`,
		int64(by), int64(successor), int64(index),
	)
}

// AppendForecastRef appends forecastIndex to the asset's forecast list
func (r *AssetRepository) AppendForecastRef(ctx context.Context, assetIndex, forecastIndex uint64) error {
	return r.appendRef(ctx, "asset_forecast_refs", "forecast_idx", assetIndex, forecastIndex)
}

// AppendActualRef appends actualIndex to the asset's actual list
func (r *AssetRepository) AppendActualRef(ctx context.Context, assetIndex, actualIndex uint64) error {
	return r.appendRef(ctx, "asset_actual_refs", "actual_idx", assetIndex, actualIndex)
}

func (r *AssetRepository) update(ctx context.Context, query string, args ...any) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return translate(err, "update asset")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AssetRepository) appendRef(ctx context.Context, table, column string, assetIndex, recordIndex uint64) error {
	var position int64
	err := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+table+` WHERE asset_idx = ?`, int64(assetIndex),
	).Scan(&position)
	if err != nil {
		return fmt.Errorf("failed to count references: %w", err)
	}

	_, err = r.db.conn(ctx).ExecContext(ctx,
		`INSERT INTO `+table+` (asset_idx, position, `+column+`) VALUES (?, ?, ?)`,
		int64(assetIndex), position, int64(recordIndex),
	)
	if err != nil {
		return translate(err, "append reference")
	}
	return nil
}

// refs loads reference lists keyed by asset index, in append order. A nil
// assetIndex loads every asset's list.
func (r *AssetRepository) refs(ctx context.Context, table, column string, assetIndex *uint64) (map[uint64][]uint64, error) {
	query := `SELECT asset_idx, ` + column + ` FROM ` + table
	var args []any
	if assetIndex != nil {
		query += ` WHERE asset_idx = ?`
		args = append(args, int64(*assetIndex))
	}
	query += ` ORDER BY asset_idx ASC, position ASC`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load references: %w", err)
	}
	defer rows.Close()

	refs := make(map[uint64][]uint64)
	for rows.Next() {
		var owner, ref int64
		if err := rows.Scan(&owner, &ref); err != nil {
			return nil, fmt.Errorf("failed to scan reference: %w", err)
		}
		refs[uint64(owner)] = append(refs[uint64(owner)], uint64(ref))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reference rows: %w", err)
	}
	return refs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*asset.Asset, error) {
	var (
		a                                asset.Asset
		idx, createdBy, deletedBy        int64
		price, purchaseDate, warrantyEnd string
		replacedBy                       sql.NullInt64
	)
	err := row.Scan(
		&idx,
		&a.AssetNumber,
		&a.Area,
		&a.Description,
		&a.Unit,
		&a.Quantity,
		&a.ExpectedLife,
		&price,
		&purchaseDate,
		&warrantyEnd,
		&a.Barcode,
		&createdBy,
		&deletedBy,
		&replacedBy,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan asset: %w", err)
	}

	if a.PurchasePrice, err = parseDecimal(price); err != nil {
		return nil, err
	}
	if a.PurchaseDate, err = parseTime(purchaseDate); err != nil {
		return nil, err
	}
	if a.WarrantyEnd, err = parseTime(warrantyEnd); err != nil {
		return nil, err
	}
	a.Index = uint64(idx)
	a.CreatedBy = identity.ID(createdBy)
	a.DeletedBy = identity.ID(deletedBy)
	a.ReplacedBy = indexPtr(replacedBy)
	return &a, nil
}
