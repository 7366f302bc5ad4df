package testutil

import (
	"net/http"
	"time"

	id "neighnet/pkg/domain"
	"neighnet/pkg/requestcontext"
)

// WithAuth adds an authenticated caller to the request context, simulating
// what the auth middleware would do.
func WithAuth(req *http.Request, userID id.UserID, role requestcontext.Role) *http.Request {
	ctx := req.Context()
	ctx = requestcontext.WithUserID(ctx, userID)
	ctx = requestcontext.WithRole(ctx, role)
	return req.WithContext(ctx)
}

// WithRequestTime pins the request-scoped clock, simulating the request-time
// middleware with a deterministic instant.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
