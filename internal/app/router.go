package app

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/alexandria-lms/alexandria/internal/auth"
	"github.com/alexandria-lms/alexandria/internal/books"
	"github.com/alexandria-lms/alexandria/internal/contact"
	"github.com/alexandria-lms/alexandria/internal/hardening"
	"github.com/alexandria-lms/alexandria/internal/observability"
	"github.com/alexandria-lms/alexandria/internal/rbac"
	"github.com/alexandria-lms/alexandria/internal/roles"
	"github.com/alexandria-lms/alexandria/internal/shared"
	"github.com/alexandria-lms/alexandria/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	SessionManager     *shared.SessionManager
	CSRFManager        *shared.CSRFManager
	HeaderPolicy       *hardening.Policy
	RBACMiddleware     rbac.Middleware
	AuthHandler        *auth.Handler
	BooksHandler       *books.Handler
	ContactHandler     *contact.Handler
	RolesHandler       *roles.Handler
	UsersHandler       *users.Handler
	PermissionsHandler *rbac.PermissionsHandler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		HeaderPolicy:   params.HeaderPolicy,
		RBAC:           params.RBACMiddleware,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/books", params.BooksHandler.MountRoutes)
	if params.ContactHandler != nil {
		r.Route("/contact", params.ContactHandler.MountRoutes)
	}
	if params.RolesHandler != nil {
		r.Route("/roles", params.RolesHandler.MountRoutes)
	}
	if params.UsersHandler != nil {
		r.Route("/users", params.UsersHandler.MountRoutes)
	}
	if params.PermissionsHandler != nil {
		r.Route("/permissions", params.PermissionsHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
