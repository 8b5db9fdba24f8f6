package ports

import (
	"context"

	"sheetgen/domain/core"
	"sheetgen/domain/sheet"
)

// StoredSnapshot is a snapshot together with its session bookkeeping
type StoredSnapshot struct {
	SessionID core.SessionID
	Snapshot  *sheet.Snapshot
	UpdatedAt core.Timestamp
}

// SnapshotRepository holds one snapshot per session. Save replaces the whole
// snapshot; Get returns core.ErrSessionNotFound for unknown sessions.
type SnapshotRepository interface {
	Save(ctx context.Context, id core.SessionID, snap *sheet.Snapshot) error
	Get(ctx context.Context, id core.SessionID) (*StoredSnapshot, error)
	Delete(ctx context.Context, id core.SessionID) error
}
