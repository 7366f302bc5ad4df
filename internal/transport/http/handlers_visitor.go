package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"neighnet/internal/visitor"
	id "neighnet/pkg/domain"
	dErrors "neighnet/pkg/domain-errors"
	"neighnet/pkg/platform/httputil"
	"neighnet/pkg/requestcontext"
)

func (h *Handler) handleCreateVisitor(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[createVisitorRequest](w, r, h.logger)
	if !ok {
		return
	}

	v, err := h.visitors.Create(r.Context(), requestcontext.UserID(r.Context()), visitor.CreateInput{
		Name:             req.Name,
		IDDocumentNumber: req.IDDocumentNumber,
		Plate:            req.Plate,
		VehicleMake:      req.VehicleMake,
		VehicleModel:     req.VehicleModel,
		VehicleColor:     req.VehicleColor,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toVisitorResponse(v))
}

func (h *Handler) handleListVisitors(w http.ResponseWriter, r *http.Request) {
	visitors, err := h.visitors.ListByOwner(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]visitorResponse, 0, len(visitors))
	for _, v := range visitors {
		out = append(out, toVisitorResponse(v))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"visitors": out})
}

func (h *Handler) handleGetVisitor(w http.ResponseWriter, r *http.Request) {
	visitorID, err := id.ParseVisitorID(chi.URLParam(r, "visitorID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	v, err := h.visitors.Get(r.Context(), visitorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	// Residents see only their own visitors; admins see all.
	caller := requestcontext.UserID(r.Context())
	if v.OwnerResidentID != caller && requestcontext.CallerRole(r.Context()) != requestcontext.RoleAdmin {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "visitor belongs to another resident"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVisitorResponse(v))
}

func (h *Handler) handleUpdateVisitor(w http.ResponseWriter, r *http.Request) {
	visitorID, err := id.ParseVisitorID(chi.URLParam(r, "visitorID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[updateVisitorRequest](w, r, h.logger)
	if !ok {
		return
	}

	v, err := h.visitors.Update(r.Context(), requestcontext.UserID(r.Context()), visitorID, visitor.UpdateInput{
		Name:             req.Name,
		IDDocumentNumber: req.IDDocumentNumber,
		Plate:            req.Plate,
		VehicleMake:      req.VehicleMake,
		VehicleModel:     req.VehicleModel,
		VehicleColor:     req.VehicleColor,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVisitorResponse(v))
}

func (h *Handler) handleDeleteVisitor(w http.ResponseWriter, r *http.Request) {
	visitorID, err := id.ParseVisitorID(chi.URLParam(r, "visitorID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.visitors.Delete(r.Context(), requestcontext.UserID(r.Context()), visitorID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
