package visitor

import (
	"context"
	"errors"
	"strings"

	id "neighnet/pkg/domain"
	dErrors "neighnet/pkg/domain-errors"
	"neighnet/pkg/platform/sentinel"
	"neighnet/pkg/requestcontext"
)

// Service owns visitor registry rules: required fields on create, and
// owner-only mutation. It keeps orchestration out of handlers.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create registers a visitor for ownerID. Admins may pass another resident's
// ID; residents pass their own (the handler enforces which).
func (s *Service) Create(ctx context.Context, ownerID id.UserID, input CreateInput) (*Visitor, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.IDDocumentNumber = strings.TrimSpace(input.IDDocumentNumber)
	if ownerID.IsZero() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "owner resident is required")
	}
	if input.Name == "" || input.IDDocumentNumber == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "name and id document number are required")
	}

	v := &Visitor{
		ID:               id.NewVisitorID(),
		OwnerResidentID:  ownerID,
		Name:             input.Name,
		IDDocumentNumber: input.IDDocumentNumber,
		Plate:            strings.TrimSpace(input.Plate),
		VehicleMake:      strings.TrimSpace(input.VehicleMake),
		VehicleModel:     strings.TrimSpace(input.VehicleModel),
		VehicleColor:     strings.TrimSpace(input.VehicleColor),
		CreatedAt:        requestcontext.Now(ctx),
	}
	if err := s.store.Save(ctx, v); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "failed to save visitor")
	}
	return v, nil
}

// Get resolves a visitor by ID. Used by the pass issuer for its ownership
// check as well as by handlers.
func (s *Service) Get(ctx context.Context, visitorID id.VisitorID) (*Visitor, error) {
	v, err := s.store.FindByID(ctx, visitorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "visitor not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "failed to load visitor")
	}
	return v, nil
}

// ListByOwner returns all visitors registered by a resident.
func (s *Service) ListByOwner(ctx context.Context, ownerID id.UserID) ([]*Visitor, error) {
	visitors, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "failed to list visitors")
	}
	return visitors, nil
}

// Update applies a partial update. Only the owning resident may mutate.
func (s *Service) Update(ctx context.Context, callerID id.UserID, visitorID id.VisitorID, input UpdateInput) (*Visitor, error) {
	v, err := s.Get(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if v.OwnerResidentID != callerID {
		return nil, dErrors.New(dErrors.CodeForbidden, "visitor belongs to another resident")
	}

	applyIfSet(&v.Name, input.Name)
	applyIfSet(&v.IDDocumentNumber, input.IDDocumentNumber)
	applyIfSet(&v.Plate, input.Plate)
	applyIfSet(&v.VehicleMake, input.VehicleMake)
	applyIfSet(&v.VehicleModel, input.VehicleModel)
	applyIfSet(&v.VehicleColor, input.VehicleColor)

	if strings.TrimSpace(v.Name) == "" || strings.TrimSpace(v.IDDocumentNumber) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "name and id document number cannot be blank")
	}

	if err := s.store.Update(ctx, v); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "visitor not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "failed to update visitor")
	}
	return v, nil
}

// Delete removes a visitor. Only the owning resident may delete.
func (s *Service) Delete(ctx context.Context, callerID id.UserID, visitorID id.VisitorID) error {
	v, err := s.Get(ctx, visitorID)
	if err != nil {
		return err
	}
	if v.OwnerResidentID != callerID {
		return dErrors.New(dErrors.CodeForbidden, "visitor belongs to another resident")
	}
	if err := s.store.Delete(ctx, visitorID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "visitor not found")
		}
		return dErrors.Wrap(err, dErrors.CodeDependency, "failed to delete visitor")
	}
	return nil
}

func applyIfSet(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
