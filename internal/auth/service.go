package auth

import (
	"context"
	"errors"
	"strings"

	id "neighnet/pkg/domain"
	dErrors "neighnet/pkg/domain-errors"
	"neighnet/pkg/platform/sentinel"
	"neighnet/pkg/requestcontext"
)

// Service owns account registration and login.
type Service struct {
	store  Store
	tokens *TokenService
}

func NewService(store Store, tokens *TokenService) *Service {
	return &Service{store: store, tokens: tokens}
}

// Register creates a user account. Only admins may create guard or admin
// accounts; an unauthenticated or resident caller always gets a resident.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, dErrors.New(dErrors.CodeBadRequest, "a valid email is required")
	}
	if input.Name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if err := CheckPasswordPolicy(input.Password); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = requestcontext.RoleResident
	}
	switch role {
	case requestcontext.RoleResident:
	case requestcontext.RoleGuard, requestcontext.RoleAdmin:
		if requestcontext.CallerRole(ctx) != requestcontext.RoleAdmin {
			return nil, dErrors.New(dErrors.CodeForbidden, "only admins can create staff accounts")
		}
	default:
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown role")
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           id.NewUserID(),
		Email:        input.Email,
		Name:         input.Name,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.store.Save(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeBadRequest, "email already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "failed to save user")
	}
	return user, nil
}

// Login verifies credentials and returns an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "failed to load user")
	}
	if !verifyPassword(user.PasswordHash, password) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	token, expiresAt, err := s.tokens.Generate(user.ID, user.Role, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
