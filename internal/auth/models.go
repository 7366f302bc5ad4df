package auth

import (
	"time"

	id "neighnet/pkg/domain"
	"neighnet/pkg/requestcontext"
)

// User is an account that can call the API: a resident issuing passes, a
// guard scanning them, or an admin. PasswordHash is bcrypt and never leaves
// this package.
type User struct {
	ID           id.UserID
	Email        string
	Name         string
	Role         requestcontext.Role
	PasswordHash string
	CreatedAt    time.Time
}

// RegisterInput creates a user account. Role defaults to resident; creating
// guard or admin accounts requires an admin caller.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Role     requestcontext.Role
}

// LoginResult is a successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}
