package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "neighnet/pkg/domain"
	dErrors "neighnet/pkg/domain-errors"
	"neighnet/pkg/requestcontext"
)

const goodPassword = "Str0ng!Passw0rd"

func newAuthService() *Service {
	return NewService(NewMemoryStore(), NewTokenService("test-secret", time.Hour))
}

func TestRegister_Defaults(t *testing.T) {
	svc := newAuthService()

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    " Maria@Example.com ",
		Name:     "María López",
		Password: goodPassword,
	})
	require.NoError(t, err)

	assert.Equal(t, "maria@example.com", user.Email, "email is normalized")
	assert.Equal(t, requestcontext.RoleResident, user.Role)
	assert.NotEqual(t, goodPassword, user.PasswordHash)
}

func TestRegister_StaffAccountsNeedAdmin(t *testing.T) {
	svc := newAuthService()

	input := RegisterInput{
		Email:    "guard@example.com",
		Name:     "Guard One",
		Password: goodPassword,
		Role:     requestcontext.RoleGuard,
	}

	t.Run("anonymous caller rejected", func(t *testing.T) {
		_, err := svc.Register(context.Background(), input)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("admin caller allowed", func(t *testing.T) {
		ctx := requestcontext.WithRole(context.Background(), requestcontext.RoleAdmin)
		user, err := svc.Register(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, requestcontext.RoleGuard, user.Role)
	})
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newAuthService()

	input := RegisterInput{Email: "a@example.com", Name: "A", Password: goodPassword}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestCheckPasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"good", "Str0ng!Passw0rd", true},
		{"too short", "S0r!aB", false},
		{"no upper", "str0ng!passw0rd", false},
		{"no lower", "STR0NG!PASSW0RD", false},
		{"no digit", "Strong!Password", false},
		{"no symbol", "Str0ngPassw0rd", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPasswordPolicy(tt.password)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
			}
		})
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	svc := newAuthService()

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    "maria@example.com",
		Name:     "María",
		Password: goodPassword,
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), "MARIA@example.com", goodPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.Token)

	claims, err := svc.tokens.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, requestcontext.RoleResident, claims.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := newAuthService()

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "maria@example.com",
		Name:     "María",
		Password: goodPassword,
	})
	require.NoError(t, err)

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@example.com", goodPassword)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "maria@example.com", "Wr0ng!Passw0rd")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func TestTokenService_Expiry(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Minute)

	signed, _, err := tokens.Generate(id.NewUserID(), requestcontext.RoleGuard, time.Now().Add(-2*time.Minute))
	require.NoError(t, err)

	_, err = tokens.ValidateToken(signed)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
