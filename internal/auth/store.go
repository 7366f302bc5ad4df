package auth

import (
	"context"

	id "neighnet/pkg/domain"
)

// Store persists user accounts. Save must reject a duplicate email with
// sentinel.ErrConflict.
type Store interface {
	Save(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, userID id.UserID) (*User, error)
}
