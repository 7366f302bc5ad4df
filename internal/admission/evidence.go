package admission

import (
	"context"
	"errors"

	id "neighnet/pkg/domain"
	dErrors "neighnet/pkg/domain-errors"
	"neighnet/pkg/platform/sentinel"
)

// AttachEvidence stores photo references on an Entry row. Each reference is
// set independently; a nil keeps whatever is stored, so evidence can arrive
// in any order across requests. Re-sending the same reference is a no-op.
func (s *Service) AttachEvidence(ctx context.Context, visitID id.VisitID, idPhotoRef, platePhotoRef *string) (*VisitRecord, error) {
	if idPhotoRef == nil && platePhotoRef == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "at least one photo reference is required")
	}

	existing, err := s.store.FindByID(ctx, visitID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "visit not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "failed to load visit")
	}
	if existing.Kind != KindEntry {
		return nil, dErrors.New(dErrors.CodeBadRequest, "evidence can only be attached to an entry visit")
	}

	updated, err := s.store.UpdateEvidence(ctx, visitID, idPhotoRef, platePhotoRef)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "visit not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "failed to update evidence")
	}

	if s.auditor != nil {
		s.auditor.Record(ctx, "visit.evidence", map[string]string{
			"visit_id": visitID.String(),
		})
	}
	return updated, nil
}
