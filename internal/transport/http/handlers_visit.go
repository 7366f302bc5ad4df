package httptransport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"neighnet/internal/admission"
	id "neighnet/pkg/domain"
	dErrors "neighnet/pkg/domain-errors"
	"neighnet/pkg/platform/httputil"
	"neighnet/pkg/requestcontext"
)

func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[scanRequest](w, r, h.logger)
	if !ok {
		return
	}

	claims, err := h.verifier.Verify(req.Envelope)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	passID, err := id.ParsePassID(claims.PassID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	visitorID, err := id.ParseVisitorID(claims.VisitorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	guardID := requestcontext.UserID(r.Context())
	input := admission.ScanInput{
		PassID:    passID,
		VisitorID: visitorID,
		GuardID:   &guardID,
	}
	if claims.ExpiresAt != nil {
		expiry := claims.ExpiresAt.Time
		input.ClaimedExpiry = &expiry
	}

	result, err := h.admissions.Scan(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, scanResponse{
		Result: string(result.Kind),
		Visit:  toVisitResponse(result.Visit, admission.DeriveStatus(result.Visit)),
	})
}

func (h *Handler) handleAttachEvidence(w http.ResponseWriter, r *http.Request) {
	visitID, err := id.ParseVisitID(chi.URLParam(r, "visitID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[evidenceRequest](w, r, h.logger)
	if !ok {
		return
	}

	updated, err := h.admissions.AttachEvidence(r.Context(), visitID, req.IDPhotoRef, req.PlatePhotoRef)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVisitResponse(updated, admission.DeriveStatus(updated)))
}

func (h *Handler) handleListVisits(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	visits, err := h.admissions.ListVisits(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := listVisitsResponse{Visits: make([]visitResponse, 0, len(visits))}
	for _, v := range visits {
		resp.Visits = append(resp.Visits, toVisitResponse(v.VisitRecord, v.Status))
	}
	if len(visits) > 0 {
		last := visits[len(visits)-1].Timestamp
		resp.NextCursor = &last
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func parseListFilter(r *http.Request) (admission.ListFilter, error) {
	q := r.URL.Query()
	filter := admission.ListFilter{Status: admission.StatusFilter(q.Get("status"))}

	parseTime := func(param string) (*time.Time, error) {
		raw := q.Get(param)
		if raw == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeBadRequest, param+" must be RFC 3339")
		}
		return &t, nil
	}

	var err error
	if filter.DateFrom, err = parseTime("from"); err != nil {
		return filter, err
	}
	if filter.DateTo, err = parseTime("to"); err != nil {
		return filter, err
	}
	if filter.Cursor, err = parseTime("cursor"); err != nil {
		return filter, err
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return filter, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer")
		}
		filter.Limit = limit
	}
	return filter, nil
}
