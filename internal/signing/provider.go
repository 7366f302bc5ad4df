// Package signing holds the process-wide Ed25519 keypair that signs pass
// envelopes. Exactly one keypair is active per process lifetime; it is
// parsed once on first use and immutable afterwards.
package signing

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"sync"

	dErrors "neighnet/pkg/domain-errors"
)

// Algorithm is the JOSE algorithm name for pass envelope signatures.
const Algorithm = "EdDSA"

type jwk struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	Kid string `json:"kid"`
	X   string `json:"x"`
	D   string `json:"d"`
}

// PublicDescriptor is the published verification material: the key
// identifier embedded in envelope headers and the raw public key.
type PublicDescriptor struct {
	KeyID     string
	PublicKey ed25519.PublicKey
}

// Provider parses the configured JWKs lazily and memoizes the result. The
// private key never leaves this package except through Private().
type Provider struct {
	privateJWK string
	publicJWK  string

	once sync.Once
	priv ed25519.PrivateKey
	desc PublicDescriptor
	err  error
}

// NewProvider builds a provider over raw JWK strings from configuration.
// Parsing is deferred to first use so construction never fails; callers are
// expected to probe once at startup and abort on a configuration error.
func NewProvider(privateJWK, publicJWK string) *Provider {
	return &Provider{privateJWK: privateJWK, publicJWK: publicJWK}
}

// Private returns the active signing key.
func (p *Provider) Private() (ed25519.PrivateKey, error) {
	p.load()
	return p.priv, p.err
}

// PublicDescriptor returns the published key ID and public key. Verifiers
// select the verification key by matching the envelope header's kid against
// this descriptor.
func (p *Provider) PublicDescriptor() (PublicDescriptor, error) {
	p.load()
	return p.desc, p.err
}

func (p *Provider) load() {
	p.once.Do(func() {
		priv, kid, err := parsePrivate(p.privateJWK)
		if err != nil {
			p.err = err
			return
		}
		desc, err := parsePublic(p.publicJWK)
		if err != nil {
			p.err = err
			return
		}
		if desc.KeyID == "" {
			desc.KeyID = kid
		}
		if !desc.PublicKey.Equal(priv.Public()) {
			p.err = dErrors.New(dErrors.CodeConfiguration, "SIGN_PUBLIC_JWK does not match SIGN_PRIVATE_JWK")
			return
		}
		p.priv = priv
		p.desc = desc
	})
}

func parsePrivate(raw string) (ed25519.PrivateKey, string, error) {
	if raw == "" {
		return nil, "", dErrors.New(dErrors.CodeConfiguration, "SIGN_PRIVATE_JWK is not set")
	}
	var key jwk
	if err := json.Unmarshal([]byte(raw), &key); err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeConfiguration, "SIGN_PRIVATE_JWK is not valid JSON")
	}
	if key.Kty != "OKP" || key.Crv != "Ed25519" || key.X == "" || key.D == "" {
		return nil, "", dErrors.New(dErrors.CodeConfiguration, `SIGN_PRIVATE_JWK must be {kty:"OKP", crv:"Ed25519", x, d}`)
	}
	seed, err := decodeKeyBytes(key.D)
	if err != nil {
		return nil, "", err
	}
	// Sanity-check x as well: a private JWK with a truncated public half is
	// malformed even though signing only needs the seed.
	if _, err := decodeKeyBytes(key.X); err != nil {
		return nil, "", err
	}
	return ed25519.NewKeyFromSeed(seed), key.Kid, nil
}

func parsePublic(raw string) (PublicDescriptor, error) {
	if raw == "" {
		return PublicDescriptor{}, dErrors.New(dErrors.CodeConfiguration, "SIGN_PUBLIC_JWK is not set")
	}
	var key jwk
	if err := json.Unmarshal([]byte(raw), &key); err != nil {
		return PublicDescriptor{}, dErrors.Wrap(err, dErrors.CodeConfiguration, "SIGN_PUBLIC_JWK is not valid JSON")
	}
	if key.Kty != "OKP" || key.Crv != "Ed25519" || key.X == "" {
		return PublicDescriptor{}, dErrors.New(dErrors.CodeConfiguration, `SIGN_PUBLIC_JWK must be {kty:"OKP", crv:"Ed25519", x}`)
	}
	pub, err := decodeKeyBytes(key.X)
	if err != nil {
		return PublicDescriptor{}, err
	}
	return PublicDescriptor{KeyID: key.Kid, PublicKey: ed25519.PublicKey(pub)}, nil
}

// decodeKeyBytes decodes a base64url field and enforces the exact Ed25519
// length. Anything else fails fast rather than producing a key that signs
// garbage.
func decodeKeyBytes(field string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(field)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "signing JWK field is not valid base64url")
	}
	if len(b) != ed25519.SeedSize {
		return nil, dErrors.New(dErrors.CodeConfiguration, "signing JWK fields must decode to 32 bytes")
	}
	return b, nil
}
