package api

import (
	"context"
	"log"
	"net"
	"net/http"
)

// corsMiddleware adds CORS headers to allow frontend requests. An empty
// allowedOrigin reflects the caller's origin.
func corsMiddleware(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := allowedOrigin
			if origin == "" {
				origin = r.Header.Get("Origin")
			}
			if origin == "" {
				origin = "*"
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
			w.Header().Set("Vary", "Origin")

			// Handle preflight OPTIONS request
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimit rejects clients over the limit with 429. Limiter failures let the
// request through.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		allowed, err := s.opts.Limiter.Allow(r.Context(), clientKey(r))
		if err != nil {
			log.Printf("⚠️  Rate limiter unavailable: %v", err)
		} else if !allowed {
			sendError(w, r, http.StatusTooManyRequests, "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientKey is the client IP; RealIP has already rewritten RemoteAddr
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// checkHealth runs an optional health check
func checkHealth(ctx context.Context, check HealthCheck) string {
	if check == nil {
		return "disabled"
	}
	if err := check(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
