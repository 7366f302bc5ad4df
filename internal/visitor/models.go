package visitor

import (
	"time"

	id "neighnet/pkg/domain"
)

// Visitor is a person a resident has registered for gate access. Owned by
// the registering resident; only the owner may mutate it.
type Visitor struct {
	ID               id.VisitorID
	OwnerResidentID  id.UserID
	Name             string
	IDDocumentNumber string
	Plate            string
	VehicleMake      string
	VehicleModel     string
	VehicleColor     string
	CreatedAt        time.Time
}

// CreateInput carries the caller-supplied fields for a new visitor.
type CreateInput struct {
	Name             string
	IDDocumentNumber string
	Plate            string
	VehicleMake      string
	VehicleModel     string
	VehicleColor     string
}

// UpdateInput is a partial update; nil fields keep their stored value.
type UpdateInput struct {
	Name             *string
	IDDocumentNumber *string
	Plate            *string
	VehicleMake      *string
	VehicleModel     *string
	VehicleColor     *string
}
