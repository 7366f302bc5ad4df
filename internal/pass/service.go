package pass

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"neighnet/internal/signing"
	"neighnet/internal/visitor"
	id "neighnet/pkg/domain"
	dErrors "neighnet/pkg/domain-errors"
	"neighnet/pkg/requestcontext"
)

// VisitorDirectory resolves visitors for the ownership check. Satisfied by
// the visitor service.
type VisitorDirectory interface {
	Get(ctx context.Context, visitorID id.VisitorID) (*visitor.Visitor, error)
}

// Service mints signed, time-limited pass envelopes. Issuance is stateless:
// nothing is written anywhere, so envelopes can be minted concurrently
// without contention. All enforcement happens at scan time.
type Service struct {
	keys     *signing.Provider
	visitors VisitorDirectory
	metrics  *Metrics
}

func NewService(keys *signing.Provider, visitors VisitorDirectory, metrics *Metrics) *Service {
	return &Service{keys: keys, visitors: visitors, metrics: metrics}
}

// Issue mints a pass for one of the caller's registered visitors.
// A nil ttlHours selects the default; a supplied value is clamped into [1, 72].
func (s *Service) Issue(ctx context.Context, callerResidentID id.UserID, visitorID id.VisitorID, ttlHours *int, meta map[string]string) (*IssueResult, error) {
	v, err := s.visitors.Get(ctx, visitorID)
	if err != nil {
		s.metrics.RecordRejection(string(dErrors.CodeOf(err)))
		return nil, err
	}
	if v.OwnerResidentID != callerResidentID {
		s.metrics.RecordRejection(string(dErrors.CodeForbidden))
		return nil, dErrors.New(dErrors.CodeForbidden, "visitor belongs to another resident")
	}

	ttl := clampTTL(ttlHours)
	now := requestcontext.Now(ctx).Truncate(time.Second)
	expiresAt := now.Add(ttl)

	passID := id.NewPassID()
	nonce, err := newNonce()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate nonce")
	}

	// Server-set visitor-name hint first; caller metadata may override it.
	merged := map[string]string{"visitante_nombre": v.Name}
	for k, val := range meta {
		merged[k] = val
	}

	claims := EnvelopeClaims{
		Version:   Version,
		PassID:    passID.String(),
		VisitorID: visitorID.String(),
		Nonce:     nonce,
		Meta:      merged,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	envelope, err := s.sign(claims)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordIssued()
	return &IssueResult{
		Envelope: envelope,
		Pass: Summary{
			PassID:    passID,
			VisitorID: visitorID,
			IssuedAt:  now,
			ExpiresAt: expiresAt,
			Nonce:     nonce,
		},
	}, nil
}

func (s *Service) sign(claims EnvelopeClaims) (string, error) {
	priv, err := s.keys.Private()
	if err != nil {
		return "", err
	}
	desc, err := s.keys.PublicDescriptor()
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	token.Header["kid"] = desc.KeyID

	envelope, err := token.SignedString(priv)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign envelope")
	}
	return envelope, nil
}

func clampTTL(ttlHours *int) time.Duration {
	hours := DefaultTTLHours
	if ttlHours != nil {
		hours = *ttlHours
		if hours < MinTTLHours {
			hours = MinTTLHours
		}
		if hours > MaxTTLHours {
			hours = MaxTTLHours
		}
	}
	return time.Duration(hours) * time.Hour
}

// newNonce returns a short random hex string. Anti-guessing garnish for the
// QR payload, not a security boundary on its own.
func newNonce() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
