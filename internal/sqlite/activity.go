package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/assetledger/internal/domain/activity"
	"github.com/rpggio/assetledger/internal/domain/outcome"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log inserts a new activity entry
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO activity_log (
			event_id, kind, credential, identity_idx, asset_idx, record_idx,
			reason, success, asset_found, caller_authorized, summary, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		entry.EventID,
		string(entry.Kind),
		entry.Credential,
		int64(entry.Identity),
		nullIndex(entry.AssetIndex),
		nullIndex(entry.RecordIndex),
		string(entry.Reason),
		boolInt(entry.Success),
		boolInt(entry.AssetFound),
		boolInt(entry.CallerAuthorized),
		entry.Summary,
		formatTime(createdAt),
	)
	if err != nil {
		return translate(err, "log activity")
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	entry.CreatedAt = createdAt.UTC()

	return nil
}

// List returns activity entries matching the given filters, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.Entry, error) {
	query := `
		SELECT
			id, event_id, kind, credential, identity_idx, asset_idx, record_idx,
			reason, success, asset_found, caller_authorized, summary, created_at
		FROM activity_log
	`

	args := []any{}
	conditions := []string{}

	if opts.Kind != nil {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(*opts.Kind))
	}
	if opts.AssetIndex != nil {
		conditions = append(conditions, "asset_idx = ?")
		args = append(args, int64(*opts.AssetIndex))
	}

	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}

	query += " ORDER BY id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 {
		query += " LIMIT -1"
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := []activity.Entry{}
	for rows.Next() {
		var (
			entry                                 activity.Entry
			kind, reason, createdAt               string
			identityIdx                           int64
			assetIdx, recordIdx                   sql.NullInt64
			success, assetFound, callerAuthorized int64
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.EventID,
			&kind,
			&entry.Credential,
			&identityIdx,
			&assetIdx,
			&recordIdx,
			&reason,
			&success,
			&assetFound,
			&callerAuthorized,
			&entry.Summary,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		if entry.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		entry.Kind = activity.Kind(kind)
		entry.Reason = outcome.Reason(reason)
		entry.Identity = uint64(identityIdx)
		entry.AssetIndex = indexPtr(assetIdx)
		entry.RecordIndex = indexPtr(recordIdx)
		entry.Success = success != 0
		entry.AssetFound = assetFound != 0
		entry.CallerAuthorized = callerAuthorized != 0
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func joinConditions(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	joined := conditions[0]
	for i := 1; i < len(conditions); i++ {
		joined += " AND " + conditions[i]
	}
	return joined
}
