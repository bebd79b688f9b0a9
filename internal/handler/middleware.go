package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/grouporder-hub/internal/domain"
	"github.com/prn-tf/grouporder-hub/internal/metrics"
	"github.com/prn-tf/grouporder-hub/internal/service"
)

type contextKey string

// userContextKey carries the authenticated user through the request.
const userContextKey contextKey = "user"

// currentUser returns the authenticated user from the request context.
func currentUser(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userContextKey).(*domain.User)
	return user
}

// Authenticator resolves the session cookie to a user and stores it in
// the request context. Requests without a valid session pass through
// unauthenticated; the role gates below decide what needs a login.
func Authenticator(sessions *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookie)
			if err == nil && cookie.Value != "" {
				if user, err := sessions.Validate(r.Context(), cookie.Value); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser rejects unauthenticated requests.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r) == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests not made by a full admin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)
		if user == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !user.IsAdmin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUserAdmin admits full admins and user admins.
func RequireUserAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)
		if user == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !user.IsAdmin && !user.IsUserAdmin {
			writeError(w, http.StatusForbidden, "user admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCoordinator admits coordinators and full admins.
func RequireCoordinator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)
		if user == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !user.IsAdmin && !user.IsCoordinator {
			writeError(w, http.StatusForbidden, "coordinator access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// DemoGuard rejects mutating member requests when demo mode is on.
// Admins keep write access so the demo can still be administered.
func DemoGuard(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if enabled {
				user := currentUser(r)
				if user == nil || !user.IsAdmin {
					writeError(w, http.StatusForbidden, "this action is disabled in demo mode")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Metrics records request counts and latency per chi route pattern.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// statusWriter captures the response status for metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs one line per request.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.status).
				Dur("duration", time.Since(start)).
				Str("remote", r.RemoteAddr).
				Msg("request")
		})
	}
}
