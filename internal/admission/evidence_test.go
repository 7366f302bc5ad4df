package admission

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "neighnet/pkg/domain"
	dErrors "neighnet/pkg/domain-errors"
)

func strPtr(s string) *string { return &s }

func recordedEntry(t *testing.T, svc *Service) *VisitRecord {
	t.Helper()
	result, err := svc.Scan(context.Background(), validScan(time.Now().Add(time.Hour)))
	require.NoError(t, err)
	return result.Visit
}

func TestAttachEvidence_PartialThenComplete(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	entry := recordedEntry(t, svc)

	updated, err := svc.AttachEvidence(ctx, entry.ID, strPtr("photos/cedula.jpg"), nil)
	require.NoError(t, err)
	require.NotNil(t, updated.IDPhotoRef)
	assert.Equal(t, "photos/cedula.jpg", *updated.IDPhotoRef)
	assert.Nil(t, updated.PlatePhotoRef)
	assert.Equal(t, EvidenceMissingPlatePhoto, DeriveStatus(updated))

	updated, err = svc.AttachEvidence(ctx, entry.ID, nil, strPtr("photos/placa.jpg"))
	require.NoError(t, err)
	require.NotNil(t, updated.IDPhotoRef, "earlier reference survives a partial update")
	assert.Equal(t, EvidenceComplete, DeriveStatus(updated))
}

func TestAttachEvidence_Preconditions(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	entry := recordedEntry(t, svc)

	t.Run("no references", func(t *testing.T) {
		_, err := svc.AttachEvidence(ctx, entry.ID, nil, nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("unknown visit", func(t *testing.T) {
		_, err := svc.AttachEvidence(ctx, id.NewVisitID(), strPtr("x"), nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("exit visit", func(t *testing.T) {
		input := validScan(time.Now().Add(time.Hour))
		_, err := svc.Scan(ctx, input)
		require.NoError(t, err)
		exit, err := svc.Scan(ctx, input)
		require.NoError(t, err)

		_, err = svc.AttachEvidence(ctx, exit.Visit.ID, strPtr("x"), nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestAttachEvidence_Idempotent(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	entry := recordedEntry(t, svc)

	first, err := svc.AttachEvidence(ctx, entry.ID, strPtr("photos/cedula.jpg"), strPtr("photos/placa.jpg"))
	require.NoError(t, err)
	second, err := svc.AttachEvidence(ctx, entry.ID, strPtr("photos/cedula.jpg"), strPtr("photos/placa.jpg"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
