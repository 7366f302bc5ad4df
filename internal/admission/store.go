package admission

import (
	"context"
	"time"

	id "neighnet/pkg/domain"
)

// Store persists visit rows. The contract doing real synchronization work:
// Append must enforce at-most-one row per (passID, kind) and return
// sentinel.ErrConflict when a concurrent scan already won that slot. The
// service maps that conflict to invalid_state, so a losing racer is
// indistinguishable from an already-used pass.
type Store interface {
	// ListByPass returns all rows for a pass ordered by timestamp ascending.
	ListByPass(ctx context.Context, passID id.PassID) ([]*VisitRecord, error)

	// Append inserts a new row, honoring the (passID, kind) uniqueness
	// contract.
	Append(ctx context.Context, record *VisitRecord) error

	// FindByID returns a single row or sentinel.ErrNotFound.
	FindByID(ctx context.Context, visitID id.VisitID) (*VisitRecord, error)

	// UpdateEvidence overwrites only the supplied photo references (nil
	// keeps the stored value) and returns the updated row.
	UpdateEvidence(ctx context.Context, visitID id.VisitID, idPhotoRef, platePhotoRef *string) (*VisitRecord, error)

	// ListRange returns rows in [from, to] (either bound optional), newer
	// first, at most limit rows, strictly older than cursor when set.
	ListRange(ctx context.Context, from, to, cursor *time.Time, limit int) ([]*VisitRecord, error)
}
