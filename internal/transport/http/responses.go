package httptransport

import (
	"time"

	"neighnet/internal/admission"
	"neighnet/internal/auth"
	"neighnet/internal/pass"
	"neighnet/internal/visitor"
)

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *auth.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type visitorResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	IDDocumentNumber string    `json:"id_document_number"`
	Plate            string    `json:"plate,omitempty"`
	VehicleMake      string    `json:"vehicle_make,omitempty"`
	VehicleModel     string    `json:"vehicle_model,omitempty"`
	VehicleColor     string    `json:"vehicle_color,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func toVisitorResponse(v *visitor.Visitor) visitorResponse {
	return visitorResponse{
		ID:               v.ID.String(),
		Name:             v.Name,
		IDDocumentNumber: v.IDDocumentNumber,
		Plate:            v.Plate,
		VehicleMake:      v.VehicleMake,
		VehicleModel:     v.VehicleModel,
		VehicleColor:     v.VehicleColor,
		CreatedAt:        v.CreatedAt,
	}
}

type passSummaryResponse struct {
	PassID    string    `json:"pass_id"`
	VisitorID string    `json:"visitor_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Nonce     string    `json:"nonce"`
}

type issuePassResponse struct {
	Envelope string              `json:"envelope"`
	Pass     passSummaryResponse `json:"pass"`
}

func toIssuePassResponse(result *pass.IssueResult) issuePassResponse {
	return issuePassResponse{
		Envelope: result.Envelope,
		Pass: passSummaryResponse{
			PassID:    result.Pass.PassID.String(),
			VisitorID: result.Pass.VisitorID.String(),
			IssuedAt:  result.Pass.IssuedAt,
			ExpiresAt: result.Pass.ExpiresAt,
			Nonce:     result.Pass.Nonce,
		},
	}
}

// publicKeyResponse is the verification JWK gate scanners pin.
type publicKeyResponse struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	Kid string `json:"kid,omitempty"`
	X   string `json:"x"`
	Alg string `json:"alg"`
	Use string `json:"use"`
}

type visitResponse struct {
	ID             string     `json:"id"`
	PassID         string     `json:"pass_id"`
	VisitorID      string     `json:"visitor_id"`
	GuardID        *string    `json:"guard_id,omitempty"`
	Kind           string     `json:"kind"`
	Timestamp      time.Time  `json:"timestamp"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	IDPhotoRef     *string    `json:"id_photo_ref,omitempty"`
	PlatePhotoRef  *string    `json:"plate_photo_ref,omitempty"`
	EvidenceStatus string     `json:"evidence_status"`
}

func toVisitResponse(v *admission.VisitRecord, status admission.EvidenceStatus) visitResponse {
	resp := visitResponse{
		ID:             v.ID.String(),
		PassID:         v.PassID.String(),
		VisitorID:      v.VisitorID.String(),
		Kind:           string(v.Kind),
		Timestamp:      v.Timestamp,
		ExpiresAt:      v.ExpiresAt,
		IDPhotoRef:     v.IDPhotoRef,
		PlatePhotoRef:  v.PlatePhotoRef,
		EvidenceStatus: string(status),
	}
	if v.GuardID != nil {
		guardID := v.GuardID.String()
		resp.GuardID = &guardID
	}
	return resp
}

type scanResponse struct {
	Result string        `json:"result"`
	Visit  visitResponse `json:"visit"`
}

type listVisitsResponse struct {
	Visits     []visitResponse `json:"visits"`
	NextCursor *time.Time      `json:"next_cursor,omitempty"`
}
