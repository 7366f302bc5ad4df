package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	dErrors "neighnet/pkg/domain-errors"
	"neighnet/pkg/platform/httputil"
	"neighnet/pkg/requestcontext"
)

// RateLimit enforces a per-IP fixed window using Redis INCR/EXPIRE. A nil
// client disables limiting (single-instance dev setups run without Redis).
// Redis being down fails open: throttling is protection, not a correctness
// guarantee, and a dead limiter must not take the gate offline.
func RateLimit(client *redis.Client, limit int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if client == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := fmt.Sprintf("ratelimit:%s:%s", r.URL.Path, requestcontext.ClientIP(ctx))

			count, err := client.Incr(ctx, key).Result()
			if err != nil {
				logger.WarnContext(ctx, "rate limiter unavailable, failing open",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				client.Expire(ctx, key, window)
			}
			if count > int64(limit) {
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many requests, retry later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
