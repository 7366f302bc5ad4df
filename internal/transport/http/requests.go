package httptransport

// Wire shapes for request bodies. Unknown fields are rejected by the
// decoder, so these list exactly what each endpoint accepts.

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type pushTokenRequest struct {
	Token string `json:"token"`
}

type createVisitorRequest struct {
	Name             string `json:"name"`
	IDDocumentNumber string `json:"id_document_number"`
	Plate            string `json:"plate,omitempty"`
	VehicleMake      string `json:"vehicle_make,omitempty"`
	VehicleModel     string `json:"vehicle_model,omitempty"`
	VehicleColor     string `json:"vehicle_color,omitempty"`
}

type updateVisitorRequest struct {
	Name             *string `json:"name,omitempty"`
	IDDocumentNumber *string `json:"id_document_number,omitempty"`
	Plate            *string `json:"plate,omitempty"`
	VehicleMake      *string `json:"vehicle_make,omitempty"`
	VehicleModel     *string `json:"vehicle_model,omitempty"`
	VehicleColor     *string `json:"vehicle_color,omitempty"`
}

type issuePassRequest struct {
	VisitorID string            `json:"visitor_id"`
	TTLHours  *int              `json:"ttl_hours,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
}

type scanRequest struct {
	Envelope string `json:"envelope"`
}

type evidenceRequest struct {
	IDPhotoRef    *string `json:"id_photo_ref,omitempty"`
	PlatePhotoRef *string `json:"plate_photo_ref,omitempty"`
}
