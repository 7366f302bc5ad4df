package httptransport

import (
	"encoding/base64"
	"net/http"

	"neighnet/internal/signing"
	id "neighnet/pkg/domain"
	"neighnet/pkg/platform/httputil"
	"neighnet/pkg/requestcontext"
)

func (h *Handler) handleIssuePass(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[issuePassRequest](w, r, h.logger)
	if !ok {
		return
	}
	visitorID, err := id.ParseVisitorID(req.VisitorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.passes.Issue(r.Context(), requestcontext.UserID(r.Context()), visitorID, req.TTLHours, req.Meta)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toIssuePassResponse(result))
}

// handlePublicKey publishes the verification JWK. Unauthenticated: gate
// scanners fetch it once and then verify envelopes offline.
func (h *Handler) handlePublicKey(w http.ResponseWriter, r *http.Request) {
	desc, err := h.keys.PublicDescriptor()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, publicKeyResponse{
		Kty: "OKP",
		Crv: "Ed25519",
		Kid: desc.KeyID,
		X:   base64.RawURLEncoding.EncodeToString(desc.PublicKey),
		Alg: signing.Algorithm,
		Use: "sig",
	})
}
