package httptransport

import (
	"net/http"

	"neighnet/internal/auth"
	"neighnet/pkg/platform/httputil"
	"neighnet/pkg/requestcontext"
)

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[registerRequest](w, r, h.logger)
	if !ok {
		return
	}

	user, err := h.auth.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     requestcontext.Role(req.Role),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[loginRequest](w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, loginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      toUserResponse(result.User),
	})
}

func (h *Handler) handleRegisterPushToken(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[pushTokenRequest](w, r, h.logger)
	if !ok {
		return
	}

	if err := h.notifications.RegisterToken(r.Context(), requestcontext.UserID(r.Context()), req.Token); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
