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

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name   string
		record *VisitRecord
		want   EvidenceStatus
	}{
		{"exit row", &VisitRecord{Kind: KindExit}, EvidenceNotApplicable},
		{"no evidence", &VisitRecord{Kind: KindEntry}, EvidencePending},
		{"id only", &VisitRecord{Kind: KindEntry, IDPhotoRef: strPtr("a")}, EvidenceMissingPlatePhoto},
		{"plate only", &VisitRecord{Kind: KindEntry, PlatePhotoRef: strPtr("b")}, EvidenceMissingIDPhoto},
		{"both", &VisitRecord{Kind: KindEntry, IDPhotoRef: strPtr("a"), PlatePhotoRef: strPtr("b")}, EvidenceComplete},
		{"empty strings are absent", &VisitRecord{Kind: KindEntry, IDPhotoRef: strPtr(""), PlatePhotoRef: strPtr("")}, EvidencePending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.record))
		})
	}
}

// seedVisit inserts a row directly, bypassing the scan protocol, to shape
// listing fixtures.
func seedVisit(t *testing.T, store *MemoryStore, kind Kind, ts time.Time, idRef, plateRef *string) *VisitRecord {
	t.Helper()
	record := &VisitRecord{
		ID:            id.NewVisitID(),
		PassID:        id.NewPassID(),
		VisitorID:     id.NewVisitorID(),
		Kind:          kind,
		Timestamp:     ts,
		IDPhotoRef:    idRef,
		PlatePhotoRef: plateRef,
	}
	if kind == KindEntry {
		record.ExpiresAt = timePtr(ts.Add(time.Hour))
	}
	require.NoError(t, store.Append(context.Background(), record))
	return record
}

func TestListVisits_Filters(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	base := time.Date(2026, 8, 15, 8, 0, 0, 0, time.UTC)

	complete := seedVisit(t, store, KindEntry, base, strPtr("a"), strPtr("b"))
	pending := seedVisit(t, store, KindEntry, base.Add(time.Hour), nil, nil)
	exit := seedVisit(t, store, KindExit, base.Add(2*time.Hour), nil, nil)

	t.Run("all includes exits, newest first", func(t *testing.T) {
		got, err := svc.ListVisits(ctx, ListFilter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, exit.ID, got[0].ID)
		assert.Equal(t, EvidenceNotApplicable, got[0].Status)
		assert.Equal(t, pending.ID, got[1].ID)
		assert.Equal(t, complete.ID, got[2].ID)
	})

	t.Run("pending excludes exits and complete entries", func(t *testing.T) {
		got, err := svc.ListVisits(ctx, ListFilter{Status: FilterPending})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, pending.ID, got[0].ID)
		assert.Equal(t, EvidencePending, got[0].Status)
	})

	t.Run("complete matches only fully evidenced entries", func(t *testing.T) {
		got, err := svc.ListVisits(ctx, ListFilter{Status: FilterComplete})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, complete.ID, got[0].ID)
	})

	t.Run("date range bounds inclusive", func(t *testing.T) {
		got, err := svc.ListVisits(ctx, ListFilter{
			DateFrom: timePtr(base.Add(time.Hour)),
			DateTo:   timePtr(base.Add(time.Hour)),
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, pending.ID, got[0].ID)
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		_, err := svc.ListVisits(ctx, ListFilter{
			DateFrom: timePtr(base.Add(time.Hour)),
			DateTo:   timePtr(base),
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := svc.ListVisits(ctx, ListFilter{Status: StatusFilter("weird")})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestListVisits_CursorPagination(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	base := time.Date(2026, 8, 15, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		seedVisit(t, store, KindEntry, base.Add(time.Duration(i)*time.Minute), nil, nil)
	}

	first, err := svc.ListVisits(ctx, ListFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)

	cursor := first[len(first)-1].Timestamp
	second, err := svc.ListVisits(ctx, ListFilter{Limit: 2, Cursor: &cursor})
	require.NoError(t, err)
	require.Len(t, second, 2)

	assert.True(t, second[0].Timestamp.Before(first[1].Timestamp))
	for _, v := range second {
		for _, w := range first {
			assert.NotEqual(t, w.ID, v.ID)
		}
	}
}

func TestListVisits_FilteredPaginationFillsLimit(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	base := time.Date(2026, 8, 15, 8, 0, 0, 0, time.UTC)

	// Interleave complete and pending entries so the filter has to walk
	// multiple pages to fill the limit.
	var pendingIDs []id.VisitID
	for i := 0; i < 6; i++ {
		ts := base.Add(time.Duration(i) * time.Minute)
		if i%2 == 0 {
			seedVisit(t, store, KindEntry, ts, strPtr("a"), strPtr("b"))
		} else {
			pendingIDs = append(pendingIDs, seedVisit(t, store, KindEntry, ts, nil, nil).ID)
		}
	}

	got, err := svc.ListVisits(ctx, ListFilter{Status: FilterPending, Limit: 3})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, v := range got {
		assert.Contains(t, pendingIDs, v.ID)
	}
}
