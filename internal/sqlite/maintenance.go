package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpggio/assetledger/internal/domain/identity"
	"github.com/rpggio/assetledger/internal/domain/maintenance"
	"github.com/rpggio/assetledger/internal/repository"
)

// ForecastRepository implements maintenance.ForecastRepository for SQLite
type ForecastRepository struct {
	db *DB
}

// NewForecastRepository creates a new ForecastRepository
func NewForecastRepository(db *DB) *ForecastRepository {
	return &ForecastRepository{db: db}
}

// Create inserts f at the next global forecast index
func (r *ForecastRepository) Create(ctx context.Context, f *maintenance.Forecast) error {
	next, err := r.db.count(ctx, "forecasts")
	if err != nil {
		return err
	}

	_, err = r.db.conn(ctx).ExecContext(ctx, `
		INSERT INTO forecasts (idx, asset_idx, cost, entry_date, description, created_by, deleted_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		int64(next),
		int64(f.AssetIndex),
		formatDecimal(f.Cost),
		formatTime(f.Date),
		f.Description,
		int64(f.CreatedBy),
		int64(f.DeletedBy),
	)
	if err != nil {
		return translate(err, "create forecast")
	}

	f.Index = next
	return nil
}

// GetMany returns forecasts in the order of indices; repeated indices repeat.
func (r *ForecastRepository) GetMany(ctx context.Context, indices []uint64) ([]maintenance.Forecast, error) {
	byIndex := make(map[uint64]maintenance.Forecast, len(indices))
	err := forEachIndexChunk(indices, func(chunk []uint64) error {
		return r.load(ctx, chunk, byIndex)
	})
	if err != nil {
		return nil, err
	}

	list := make([]maintenance.Forecast, 0, len(indices))
	for _, idx := range indices {
		f, ok := byIndex[idx]
		if !ok {
			return nil, repository.ErrNotFound
		}
		list = append(list, f)
	}
	return list, nil
}

func (r *ForecastRepository) load(ctx context.Context, chunk []uint64, into map[uint64]maintenance.Forecast) error {
	query := `
		SELECT idx, asset_idx, cost, entry_date, description, created_by, deleted_by
		FROM forecasts
		WHERE idx IN (` + placeholders(len(chunk)) + `)
	`
	rows, err := r.db.conn(ctx).QueryContext(ctx, query, indexArgs(chunk)...)
	if err != nil {
		return fmt.Errorf("failed to get forecasts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			f                    maintenance.Forecast
			idx, assetIdx        int64
			createdBy, deletedBy int64
			cost, date           string
		)
		if err := rows.Scan(&idx, &assetIdx, &cost, &date, &f.Description, &createdBy, &deletedBy); err != nil {
			return fmt.Errorf("failed to scan forecast: %w", err)
		}
		if f.Cost, err = parseDecimal(cost); err != nil {
			return err
		}
		if f.Date, err = parseTime(date); err != nil {
			return err
		}
		f.Index = uint64(idx)
		f.AssetIndex = uint64(assetIdx)
		f.CreatedBy = identity.ID(createdBy)
		f.DeletedBy = identity.ID(deletedBy)
		into[f.Index] = f
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating forecast rows: %w", err)
	}
	return nil
}

// Count returns the number of forecasts
func (r *ForecastRepository) Count(ctx context.Context) (uint64, error) {
	return r.db.count(ctx, "forecasts")
}

// MarkDeleted sets deleted_by on a forecast
func (r *ForecastRepository) MarkDeleted(ctx context.Context, index uint64, by identity.ID) error {
	return markDeleted(ctx, r.db, "forecasts", index, by)
}

// ActualRepository implements maintenance.ActualRepository for SQLite
type ActualRepository struct {
	db *DB
}

// NewActualRepository creates a new ActualRepository
func NewActualRepository(db *DB) *ActualRepository {
	return &ActualRepository{db: db}
}

// Create inserts a at the next global actual index
func (r *ActualRepository) Create(ctx context.Context, a *maintenance.Actual) error {
	next, err := r.db.count(ctx, "actuals")
	if err != nil {
		return err
	}

	_, err = r.db.conn(ctx).ExecContext(ctx, `
		INSERT INTO actuals (
			idx, asset_idx, cost, entry_date, description,
			supplier, invoice_number, invoice_date, created_by, deleted_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		int64(next),
		int64(a.AssetIndex),
		formatDecimal(a.Cost),
		formatTime(a.Date),
		a.Description,
		a.Supplier,
		a.InvoiceNumber,
		formatTime(a.InvoiceDate),
		int64(a.CreatedBy),
		int64(a.DeletedBy),
	)
	if err != nil {
		return translate(err, "create actual")
	}

	a.Index = next
	return nil
}

// GetMany returns actuals in the order of indices; repeated indices repeat.
func (r *ActualRepository) GetMany(ctx context.Context, indices []uint64) ([]maintenance.Actual, error) {
	byIndex := make(map[uint64]maintenance.Actual, len(indices))
	err := forEachIndexChunk(indices, func(chunk []uint64) error {
		return r.load(ctx, chunk, byIndex)
	})
	if err != nil {
		return nil, err
	}

	list := make([]maintenance.Actual, 0, len(indices))
	for _, idx := range indices {
		a, ok := byIndex[idx]
		if !ok {
			return nil, repository.ErrNotFound
		}
		list = append(list, a)
	}
	return list, nil
}

func (r *ActualRepository) load(ctx context.Context, chunk []uint64, into map[uint64]maintenance.Actual) error {
	query := `
		SELECT
			idx, asset_idx, cost, entry_date, description,
			supplier, invoice_number, invoice_date, created_by, deleted_by
		FROM actuals
		WHERE idx IN (` + placeholders(len(chunk)) + `)
	`
	rows, err := r.db.conn(ctx).QueryContext(ctx, query, indexArgs(chunk)...)
	if err != nil {
		return fmt.Errorf("failed to get actuals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a                       maintenance.Actual
			idx, assetIdx           int64
			createdBy, deletedBy    int64
			cost, date, invoiceDate string
		)
		if err := rows.Scan(
			&idx,
			&assetIdx,
			&cost,
			&date,
			&a.Description,
			&a.Supplier,
			&a.InvoiceNumber,
			&invoiceDate,
			&createdBy,
			&deletedBy,
		); err != nil {
			return fmt.Errorf("failed to scan actual: %w", err)
		}
		if a.Cost, err = parseDecimal(cost); err != nil {
			return err
		}
		if a.Date, err = parseTime(date); err != nil {
			return err
		}
		if a.InvoiceDate, err = parseTime(invoiceDate); err != nil {
			return err
		}
		a.Index = uint64(idx)
		a.AssetIndex = uint64(assetIdx)
		a.CreatedBy = identity.ID(createdBy)
		a.DeletedBy = identity.ID(deletedBy)
		into[a.Index] = a
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating actual rows: %w", err)
	}
	return nil
}

// Count returns the number of actuals
func (r *ActualRepository) Count(ctx context.Context) (uint64, error) {
	return r.db.count(ctx, "actuals")
}

// MarkDeleted sets deleted_by on an actual
func (r *ActualRepository) MarkDeleted(ctx context.Context, index uint64, by identity.ID) error {
	return markDeleted(ctx, r.db, "actuals", index, by)
}

func markDeleted(ctx context.Context, db *DB, table string, index uint64, by identity.ID) error {
	result, err := db.conn(ctx).ExecContext(ctx,
		`UPDATE `+table+` SET deleted_by = ? WHERE idx = ?`, int64(by), int64(index),
	)
	if err != nil {
		return translate(err, "delete "+table)
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

// maxBoundIndices caps the IN list of one query below SQLite's bound
// variable limit.
const maxBoundIndices = 500

// forEachIndexChunk calls fn with the distinct indices, at most
// maxBoundIndices at a time.
func forEachIndexChunk(indices []uint64, fn func(chunk []uint64) error) error {
	seen := make(map[uint64]struct{}, len(indices))
	distinct := make([]uint64, 0, len(indices))
	for _, idx := range indices {
		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}
		distinct = append(distinct, idx)
	}
	for start := 0; start < len(distinct); start += maxBoundIndices {
		end := min(start+maxBoundIndices, len(distinct))
		if err := fn(distinct[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func indexArgs(indices []uint64) []any {
	args := make([]any, 0, len(indices))
	for _, idx := range indices {
		args = append(args, int64(idx))
	}
	return args
}
