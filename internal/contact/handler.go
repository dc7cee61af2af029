package contact

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/alexandria-lms/alexandria/internal/platform/httpx"
	"github.com/alexandria-lms/alexandria/internal/rbac"
)

// Handler exposes the contact form endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.submit)
}

type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	principal := rbac.PrincipalFromContext(r.Context())
	msg, err := h.service.Submit(r.Context(), principal.ID, req.Name, req.Email, req.Message)
	if err != nil {
		if h.logger != nil {
			h.logger.Info("contact rejected", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, msg)
}
