// Package domain holds the typed identifiers shared across modules. Distinct
// types keep a visitor ID from ever being passed where a pass ID is expected;
// the compiler enforces what code review would otherwise have to catch.
package domain

import (
	"github.com/google/uuid"

	dErrors "neighnet/pkg/domain-errors"
)

type (
	// UserID identifies a resident, guard, or admin account.
	UserID uuid.UUID
	// VisitorID identifies a registered visitor, owned by a resident.
	VisitorID uuid.UUID
	// VisitID identifies a single entry or exit row.
	VisitID uuid.UUID
	// PassID is the correlation key minted into a pass envelope. All
	// admission state for a pass accrues under this key.
	PassID uuid.UUID
)

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id VisitorID) String() string { return uuid.UUID(id).String() }
func (id VisitID) String() string   { return uuid.UUID(id).String() }
func (id PassID) String() string    { return uuid.UUID(id).String() }

func (id UserID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id VisitorID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id VisitID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }
func (id PassID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }

// NewUserID returns a fresh random UserID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewVisitorID returns a fresh random VisitorID.
func NewVisitorID() VisitorID { return VisitorID(uuid.New()) }

// NewVisitID returns a fresh random VisitID.
func NewVisitID() VisitID { return VisitID(uuid.New()) }

// NewPassID returns a fresh random PassID. A v4 UUID carries 122 bits of
// randomness, which satisfies the issuer's collision-resistance requirement.
func NewPassID() PassID { return PassID(uuid.New()) }

// IDs must be valid, non-nil UUIDs. Parsing rejects anything else at trust
// boundaries so services never see a malformed identifier.
func parse(raw string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid identifier")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "nil identifier")
	}
	return parsed, nil
}

func ParseUserID(raw string) (UserID, error) {
	parsed, err := parse(raw)
	return UserID(parsed), err
}

func ParseVisitorID(raw string) (VisitorID, error) {
	parsed, err := parse(raw)
	return VisitorID(parsed), err
}

func ParseVisitID(raw string) (VisitID, error) {
	parsed, err := parse(raw)
	return VisitID(parsed), err
}

func ParsePassID(raw string) (PassID, error) {
	parsed, err := parse(raw)
	return PassID(parsed), err
}
