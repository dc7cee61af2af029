package httpx

import (
	"errors"
	"net/http"

	"github.com/alexandria-lms/alexandria/internal/sanitize"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// RespondError maps domain errors to HTTP responses using RFC7807.
// Authorization and validation failures describe themselves to the caller;
// anything unrecognized is downstream detail that stays internal and is
// reported generically.
func RespondError(w http.ResponseWriter, err error) {
	var verr *sanitize.ValidationError
	switch {
	case errors.As(err, &verr):
		ValidationProblem(w, verr.Violations)
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
