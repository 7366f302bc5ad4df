package visitor

import (
	"context"

	id "neighnet/pkg/domain"
)

// Store persists visitor records. Implementations return sentinel.ErrNotFound
// for missing rows; services translate into domain errors.
type Store interface {
	Save(ctx context.Context, v *Visitor) error
	FindByID(ctx context.Context, visitorID id.VisitorID) (*Visitor, error)
	ListByOwner(ctx context.Context, ownerID id.UserID) ([]*Visitor, error)
	Update(ctx context.Context, v *Visitor) error
	Delete(ctx context.Context, visitorID id.VisitorID) error
}
