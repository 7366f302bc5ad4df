package admission

import (
	"context"

	dErrors "neighnet/pkg/domain-errors"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// DeriveStatus projects a visit row onto its evidence completeness. Exit
// rows carry no evidence and are always not_applicable.
func DeriveStatus(record *VisitRecord) EvidenceStatus {
	if record.Kind != KindEntry {
		return EvidenceNotApplicable
	}
	hasID := record.IDPhotoRef != nil && *record.IDPhotoRef != ""
	hasPlate := record.PlatePhotoRef != nil && *record.PlatePhotoRef != ""
	switch {
	case hasID && hasPlate:
		return EvidenceComplete
	case hasID:
		return EvidenceMissingPlatePhoto
	case hasPlate:
		return EvidenceMissingIDPhoto
	default:
		return EvidencePending
	}
}

// ListVisits returns visits newest first, decorated with derived evidence
// status. The pending and complete filters only ever match Entry rows;
// Exit rows appear in unfiltered listings only.
func (s *Service) ListVisits(ctx context.Context, filter ListFilter) ([]*VisitWithStatus, error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "date range is inverted")
	}
	switch filter.Status {
	case "", FilterAll, FilterPending, FilterComplete:
	default:
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown status filter")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	// Status is derived, so filtering happens here rather than in SQL. Pages
	// are fetched by cursor until the requested limit is filled.
	var out []*VisitWithStatus
	cursor := filter.Cursor
	for len(out) < limit {
		records, err := s.store.ListRange(ctx, filter.DateFrom, filter.DateTo, cursor, limit)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeDependency, "failed to list visits")
		}
		if len(records) == 0 {
			break
		}
		for _, r := range records {
			status := DeriveStatus(r)
			if !matchesFilter(filter.Status, r, status) {
				continue
			}
			out = append(out, &VisitWithStatus{VisitRecord: r, Status: status})
			if len(out) == limit {
				break
			}
		}
		last := records[len(records)-1].Timestamp
		cursor = &last
	}
	return out, nil
}

func matchesFilter(f StatusFilter, record *VisitRecord, status EvidenceStatus) bool {
	switch f {
	case FilterPending:
		return record.Kind == KindEntry && status != EvidenceComplete
	case FilterComplete:
		return record.Kind == KindEntry && status == EvidenceComplete
	default:
		return true
	}
}
