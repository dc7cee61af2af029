// Package contact handles the public contact form. Submissions are
// sanitized and recorded in the audit trail; no catalog state changes.
package contact

import (
	"context"

	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/alexandria-lms/alexandria/internal/sanitize"
	"github.com/alexandria-lms/alexandria/internal/shared"
)

const (
	NameMaxLen    = 100
	MessageMaxLen = 500
)

// Message is a cleaned, accepted contact submission.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// AuditRecorder persists an audit trail entry. Satisfied by
// shared.AuditLogger.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service validates and records contact submissions.
type Service struct {
	audit    AuditRecorder
	logger   *slog.Logger
	validate *validator.Validate

	nameClass    sanitize.FieldClass
	messageClass sanitize.FieldClass
}

// NewService builds a Service. The audit recorder may be nil.
func NewService(audit AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		audit:        audit,
		logger:       logger,
		validate:     validator.New(),
		nameClass:    sanitize.FreeTextClass("name", NameMaxLen),
		messageClass: sanitize.FreeTextClass("message", MessageMaxLen),
	}
}

// Submit sanitizes the raw fields, collecting every violation, and writes
// an audit entry on acceptance. The contact form is open to anonymous
// visitors, so there is no authorization gate.
func (s *Service) Submit(ctx context.Context, actorID int64, name, email, message string) (Message, error) {
	cleanName := sanitize.Validate(s.nameClass, name)
	cleanMessage := sanitize.Validate(s.messageClass, message)

	emailField := sanitize.ValidatedField{Field: "email", Cleaned: sanitize.Clean(email)}
	if emailField.Cleaned == "" {
		emailField.Violations = append(emailField.Violations,
			sanitize.Violation{Field: "email", Message: "cannot be empty"})
	} else if err := s.validate.Var(emailField.Cleaned, "email"); err != nil {
		emailField.Violations = append(emailField.Violations,
			sanitize.Violation{Field: "email", Message: "must be a valid email address"})
	}

	if err := sanitize.Collect(cleanName, emailField, cleanMessage); err != nil {
		return Message{}, err
	}

	msg := Message{
		Name:    cleanName.Cleaned,
		Email:   emailField.Cleaned,
		Message: cleanMessage.Cleaned,
	}
	s.recordAudit(ctx, actorID, msg)
	return msg, nil
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, msg Message) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   "contact.submit",
		Entity:   "contact",
		EntityID: msg.Email,
		Meta:     map[string]any{"name": msg.Name, "message": msg.Message},
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("record audit", slog.Any("error", err))
	}
}
