// Package httpx provides HTTP response utilities following RFC7807 problem details.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/alexandria-lms/alexandria/internal/sanitize"
)

// ProblemDetail represents RFC7807 problem details. Validation problems
// additionally carry the complete violation list so a caller can present
// every problem at once.
type ProblemDetail struct {
	Type       string               `json:"type,omitempty"`
	Title      string               `json:"title"`
	Status     int                  `json:"status"`
	Detail     string               `json:"detail,omitempty"`
	Violations []sanitize.Violation `json:"violations,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Problem sends an RFC7807 problem details response.
func Problem(w http.ResponseWriter, status int, title, detail string) {
	JSON(w, status, ProblemDetail{
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// ValidationProblem sends a 400 carrying every field violation.
func ValidationProblem(w http.ResponseWriter, violations []sanitize.Violation) {
	JSON(w, http.StatusBadRequest, ProblemDetail{
		Title:      "Validation Failed",
		Status:     http.StatusBadRequest,
		Violations: violations,
	})
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
