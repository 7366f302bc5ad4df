package pass

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neighnet/internal/signing"
	"neighnet/internal/visitor"
	id "neighnet/pkg/domain"
	dErrors "neighnet/pkg/domain-errors"
	"neighnet/pkg/requestcontext"
)

func newSigningProvider(t *testing.T) *signing.Provider {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	enc := base64.RawURLEncoding
	privJWK, err := json.Marshal(map[string]string{
		"kty": "OKP", "crv": "Ed25519", "kid": "test-key",
		"x": enc.EncodeToString(pub),
		"d": enc.EncodeToString(priv.Seed()),
	})
	require.NoError(t, err)
	pubJWK, err := json.Marshal(map[string]string{
		"kty": "OKP", "crv": "Ed25519", "kid": "test-key",
		"x": enc.EncodeToString(pub),
	})
	require.NoError(t, err)

	return signing.NewProvider(string(privJWK), string(pubJWK))
}

type fixture struct {
	svc      *Service
	verifier *Verifier
	resident id.UserID
	visitor  *visitor.Visitor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	keys := newSigningProvider(t)
	visitors := visitor.NewService(visitor.NewMemoryStore())
	resident := id.NewUserID()

	v, err := visitors.Create(context.Background(), resident, visitor.CreateInput{
		Name:             "Ana Torres",
		IDDocumentNumber: "0801-1990-12345",
	})
	require.NoError(t, err)

	return &fixture{
		svc:      NewService(keys, visitors, nil),
		verifier: NewVerifier(keys),
		resident: resident,
		visitor:  v,
	}
}

func intPtr(v int) *int { return &v }

func TestIssue_TTLClamping(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name      string
		ttlHours  *int
		wantHours int
	}{
		{"default when absent", nil, 24},
		{"minimum clamps zero", intPtr(0), 1},
		{"minimum clamps negative", intPtr(-5), 1},
		{"exact value kept", intPtr(8), 8},
		{"maximum kept", intPtr(72), 72},
		{"maximum clamps excess", intPtr(100), 72},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.svc.Issue(context.Background(), f.resident, f.visitor.ID, tt.ttlHours, nil)
			require.NoError(t, err)

			got := result.Pass.ExpiresAt.Sub(result.Pass.IssuedAt)
			assert.Equal(t, time.Duration(tt.wantHours)*time.Hour, got)
		})
	}
}

func TestIssue_Preconditions(t *testing.T) {
	f := newFixture(t)

	t.Run("unknown visitor", func(t *testing.T) {
		_, err := f.svc.Issue(context.Background(), f.resident, id.NewVisitorID(), nil, nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("visitor owned by someone else", func(t *testing.T) {
		_, err := f.svc.Issue(context.Background(), id.NewUserID(), f.visitor.ID, nil, nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func TestIssue_EnvelopeVerifiesOffline(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Issue(context.Background(), f.resident, f.visitor.ID, intPtr(2), map[string]string{"gate": "north"})
	require.NoError(t, err)

	claims, err := f.verifier.Verify(result.Envelope)
	require.NoError(t, err)

	assert.Equal(t, Version, claims.Version)
	assert.Equal(t, result.Pass.PassID.String(), claims.PassID)
	assert.Equal(t, f.visitor.ID.String(), claims.VisitorID)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.Equal(t, []string(claims.Audience), []string{Audience})
	assert.Equal(t, result.Pass.Nonce, claims.Nonce)
	assert.Len(t, claims.Nonce, 8, "4 random bytes hex encoded")

	// Server-set hint plus caller metadata.
	assert.Equal(t, "Ana Torres", claims.Meta["visitante_nombre"])
	assert.Equal(t, "north", claims.Meta["gate"])
}

func TestIssue_FreshPassIDPerEnvelope(t *testing.T) {
	f := newFixture(t)

	r1, err := f.svc.Issue(context.Background(), f.resident, f.visitor.ID, nil, nil)
	require.NoError(t, err)
	r2, err := f.svc.Issue(context.Background(), f.resident, f.visitor.ID, nil, nil)
	require.NoError(t, err)

	assert.NotEqual(t, r1.Pass.PassID, r2.Pass.PassID)
	assert.NotEqual(t, r1.Pass.Nonce, r2.Pass.Nonce)
}

func TestVerify_RejectsExpiredEnvelope(t *testing.T) {
	f := newFixture(t)

	// Issue with a request clock far enough in the past that even the
	// minimum TTL has elapsed.
	ctx := requestcontext.WithTime(context.Background(), time.Now().Add(-2*time.Hour))
	result, err := f.svc.Issue(ctx, f.resident, f.visitor.ID, intPtr(1), nil)
	require.NoError(t, err)

	_, err = f.verifier.Verify(result.Envelope)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeExpired))
}

func TestVerify_RejectsForeignSignature(t *testing.T) {
	f := newFixture(t)
	other := newFixture(t)

	result, err := other.svc.Issue(context.Background(), other.resident, other.visitor.ID, nil, nil)
	require.NoError(t, err)

	_, err = f.verifier.Verify(result.Envelope)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestVerify_RejectsGarbage(t *testing.T) {
	f := newFixture(t)

	_, err := f.verifier.Verify("not-an-envelope")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}
