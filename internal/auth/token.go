package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"neighnet/internal/platform/middleware"
	id "neighnet/pkg/domain"
	dErrors "neighnet/pkg/domain-errors"
	"neighnet/pkg/requestcontext"
)

const tokenIssuer = "neighnet-api"

// tokenClaims is the wire shape of API access tokens. These are short-lived
// HS256 session tokens, unrelated to the Ed25519 pass envelopes.
type tokenClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService mints and validates API access tokens. It satisfies
// middleware.TokenValidator.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{signingKey: []byte(secret), ttl: ttl}
}

func (s *TokenService) Generate(userID id.UserID, role requestcontext.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		UserID: userID.String(),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign access token")
	}
	return signed, expiresAt, nil
}

func (s *TokenService) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject")
	}
	role := requestcontext.Role(claims.Role)
	switch role {
	case requestcontext.RoleResident, requestcontext.RoleGuard, requestcontext.RoleAdmin:
	default:
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token role")
	}

	return &middleware.TokenClaims{UserID: userID, Role: role}, nil
}
