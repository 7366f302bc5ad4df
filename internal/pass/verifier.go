package pass

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"neighnet/internal/signing"
	dErrors "neighnet/pkg/domain-errors"
)

// Verifier validates pass envelopes against the published public key. It
// needs no datastore: signature, iss/aud tags, and expiry are all checked
// from the envelope itself, which is what lets offline gate scanners run
// the same validation.
type Verifier struct {
	keys *signing.Provider
}

func NewVerifier(keys *signing.Provider) *Verifier {
	return &Verifier{keys: keys}
}

// Verify checks the envelope's signature, key ID, issuer, audience, and
// expiry, returning its claims on success.
func (v *Verifier) Verify(envelope string) (*EnvelopeClaims, error) {
	desc, err := v.keys.PublicDescriptor()
	if err != nil {
		return nil, err
	}

	parsed, err := jwt.ParseWithClaims(envelope, &EnvelopeClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		kid, _ := token.Header["kid"].(string)
		if kid != desc.KeyID {
			return nil, fmt.Errorf("unknown key id %q", kid)
		}
		return desc.PublicKey, nil
	},
		jwt.WithValidMethods([]string{Algorithm()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeExpired, "pass envelope has expired")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid pass envelope")
	}

	claims, ok := parsed.Claims.(*EnvelopeClaims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid pass envelope")
	}
	return claims, nil
}

// Algorithm returns the JOSE algorithm name envelopes are signed with.
func Algorithm() string { return signing.Algorithm }
