package rbac

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/alexandria-lms/alexandria/internal/platform/httpx"
	"github.com/alexandria-lms/alexandria/internal/shared"
)

// PrincipalSource resolves the principal for an authenticated user ID,
// typically from the identity store.
type PrincipalSource interface {
	PrincipalByID(ctx context.Context, id int64) (Principal, error)
}

// Middleware wires authorization guards for HTTP handlers. The guards run
// in a fixed order: resolve the principal from the session, then check
// permission membership; the first failing guard short-circuits.
type Middleware struct {
	Service    *Service
	Principals PrincipalSource
	Logger     *slog.Logger
}

// WithPrincipal resolves the current principal once per request and stores
// it in the context. Requests without a session user proceed as anonymous.
func (m Middleware) WithPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := Anonymous()
		if userID, ok := m.sessionUserID(r); ok {
			resolved, err := m.Principals.PrincipalByID(r.Context(), userID)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("resolve principal", slog.Int64("user_id", userID), slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			principal = resolved
		}
		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
	})
}

// Require ensures the current principal holds the permission.
func (m Middleware) Require(perm Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if !m.Service.Authorize(principal, perm) {
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAny ensures the current principal holds at least one of the
// permissions. An empty list passes.
func (m Middleware) RequireAny(perms ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(perms) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			principal := PrincipalFromContext(r.Context())
			for _, perm := range perms {
				if m.Service.Authorize(principal, perm) {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.RespondError(w, httpx.ErrForbidden)
		})
	}
}

func (m Middleware) sessionUserID(r *http.Request) (int64, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return 0, false
	}
	raw := strings.TrimSpace(sess.User())
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("parse session user id", slog.String("value", raw))
		}
		return 0, false
	}
	return id, true
}
