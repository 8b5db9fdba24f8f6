package db

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"

	"github.com/jmoiron/sqlx"

	"sheetgen/domain/core"
	"sheetgen/domain/sheet"
	"sheetgen/internal/errors"
	"sheetgen/ports"
)

// SnapshotRepository stores each session's snapshot as one JSON document in
// the sheet_sessions table created by the migration runner.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

type sessionRow struct {
	ID        string         `db:"id"`
	Snapshot  sql.NullString `db:"snapshot"`
	UpdatedAt int64          `db:"updated_at"`
}

// Save upserts the session row. A nil snapshot is stored as NULL.
func (r *SnapshotRepository) Save(ctx context.Context, id core.SessionID, snap *sheet.Snapshot) error {
	var data sql.NullString
	if snap != nil {
		raw, err := json.Marshal(snap)
		if err != nil {
			return errors.Wrap(err, "failed to encode snapshot")
		}
		data = sql.NullString{String: string(raw), Valid: true}
	}

	query := r.db.Rebind(`
		INSERT INTO sheet_sessions (id, snapshot, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = excluded.updated_at`)
	if _, err := r.db.ExecContext(ctx, query, id.String(), data, core.Now().UnixMilli()); err != nil {
		return errors.DatabaseError("failed to save snapshot", err)
	}
	return nil
}

// Get loads the session row and decodes its snapshot
func (r *SnapshotRepository) Get(ctx context.Context, id core.SessionID) (*ports.StoredSnapshot, error) {
	var row sessionRow
	query := r.db.Rebind("SELECT id, snapshot, updated_at FROM sheet_sessions WHERE id = ?")
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrSessionNotFound
		}
		return nil, errors.DatabaseError("failed to load snapshot", err)
	}

	stored := &ports.StoredSnapshot{SessionID: id, UpdatedAt: core.FromUnixMilli(row.UpdatedAt)}
	if row.Snapshot.Valid {
		var snap sheet.Snapshot
		if err := json.Unmarshal([]byte(row.Snapshot.String), &snap); err != nil {
			return nil, errors.DatabaseError("stored snapshot is corrupt", err)
		}
		stored.Snapshot = &snap
	}
	return stored, nil
}

// Delete removes the session row if present
func (r *SnapshotRepository) Delete(ctx context.Context, id core.SessionID) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM sheet_sessions WHERE id = ?"), id.String()); err != nil {
		return errors.DatabaseError("failed to delete snapshot", err)
	}
	return nil
}

var _ ports.SnapshotRepository = (*SnapshotRepository)(nil)
