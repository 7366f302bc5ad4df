package admission

import (
	"time"

	id "neighnet/pkg/domain"
)

// Kind marks a visit row as the entry or exit consumption of a pass.
type Kind string

const (
	KindEntry Kind = "Entry"
	KindExit  Kind = "Exit"
)

// VisitRecord is a durable row marking one consumption of a pass at the
// gate. For a given pass there is at most one Entry and at most one Exit,
// enforced by the store. ExpiresAt is recorded on the Entry row only; the
// exit scan re-checks against that stored value, never a client-supplied
// one. Photo references are attached to Entry rows after the fact.
type VisitRecord struct {
	ID            id.VisitID
	PassID        id.PassID
	VisitorID     id.VisitorID
	GuardID       *id.UserID
	Kind          Kind
	Timestamp     time.Time
	ExpiresAt     *time.Time
	IDPhotoRef    *string
	PlatePhotoRef *string
}

// EvidenceStatus is derived from an Entry row's photo references; it is
// never stored. Exit rows are always not_applicable.
type EvidenceStatus string

const (
	EvidenceNotApplicable     EvidenceStatus = "not_applicable"
	EvidencePending           EvidenceStatus = "pending"
	EvidenceMissingIDPhoto    EvidenceStatus = "missing_id_photo"
	EvidenceMissingPlatePhoto EvidenceStatus = "missing_plate_photo"
	EvidenceComplete          EvidenceStatus = "complete"
)

// StatusFilter selects visits by evidence completeness in listings.
type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterPending  StatusFilter = "pending"
	FilterComplete StatusFilter = "complete"
)

// ScanInput is one scan of a pass at the gate. ClaimedExpiry mirrors the
// envelope's exp and is mandatory on the first scan only; GuardID is set
// when the caller is an authenticated guard or admin.
type ScanInput struct {
	PassID        id.PassID
	VisitorID     id.VisitorID
	ClaimedExpiry *time.Time
	GuardID       *id.UserID
}

// ListFilter narrows the admin visit listing. Cursor is the timestamp
// boundary from a previous page (rows strictly older are returned).
type ListFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Status   StatusFilter
	Limit    int
	Cursor   *time.Time
}

// VisitWithStatus decorates a row with its derived evidence status for
// reporting.
type VisitWithStatus struct {
	*VisitRecord
	Status EvidenceStatus
}
