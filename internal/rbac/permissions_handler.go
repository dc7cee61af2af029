package rbac

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/alexandria-lms/alexandria/internal/platform/httpx"
	"github.com/alexandria-lms/alexandria/internal/shared"
)

// PermissionsHandler exposes the read-only permission universe to callers
// holding the permissions.view grant.
type PermissionsHandler struct {
	Service *Service
	MW      Middleware
	Logger  *slog.Logger
}

// MountRoutes registers permission routes on the provided router.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.MW.Require(Permission(shared.PermPermissionsView)))
		r.Get("/", h.list)
	})
}

type permissionResponse struct {
	Token    string `json:"token"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

func (h *PermissionsHandler) list(w http.ResponseWriter, r *http.Request) {
	universe := h.Service.Universe()
	out := make([]permissionResponse, 0, len(universe))
	for _, p := range universe {
		out = append(out, permissionResponse{
			Token:    string(p),
			Resource: p.Resource(),
			Action:   p.Action(),
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}
