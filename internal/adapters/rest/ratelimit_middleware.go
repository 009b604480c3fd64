package rest

import (
	"math"
	"net/http"
	"strconv"

	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/port"

	"golang.org/x/time/rate"
)

// RateLimitMiddleware ограничивает общий поток запросов на оценку.
// rps <= 0 выключает ограничение.
func RateLimitMiddleware(rps float64, burst int) func(next http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	retryAfter := strconv.Itoa(int(math.Ceil(1 / rps)))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				contextkeys.LoggerFromContext(r.Context()).Warn("Request rejected by rate limiter", port.Fields{
					"rps": rps, "burst": burst,
				})
				w.Header().Set("Retry-After", retryAfter)
				WriteJSONError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
