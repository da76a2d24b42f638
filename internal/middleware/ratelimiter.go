package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/avinassh/rtiman/internal/models/dto"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware rejects requests once the shared token bucket runs dry.
// Login and fund routes share a limiter so a scripted client cannot hammer
// either the password check or the funding transaction loop.
func RateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				resp := dto.RateLimitResponse{Message: "Too many requests. Please try again later."}
				_ = json.NewEncoder(w).Encode(resp)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
