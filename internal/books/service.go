package books

import (
	"context"
	"strconv"

	"log/slog"

	"github.com/alexandria-lms/alexandria/internal/platform/httpx"
	"github.com/alexandria-lms/alexandria/internal/rbac"
	"github.com/alexandria-lms/alexandria/internal/sanitize"
	"github.com/alexandria-lms/alexandria/internal/shared"
)

// Authorizer evaluates grant decisions. Satisfied by rbac.Service.
type Authorizer interface {
	Authorize(principal rbac.Principal, perm rbac.Permission) bool
}

// AuditRecorder persists an audit trail entry for mutating operations.
// Satisfied by shared.AuditLogger.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service sequences every catalog operation through the same gates:
// authorize first, sanitize-validate mutating input second, persist only
// when both pass.
type Service struct {
	repo    Repository
	authz   Authorizer
	audit   AuditRecorder
	logger  *slog.Logger
	classes fieldClasses
}

// NewService builds a Service. The audit recorder may be nil.
func NewService(repo Repository, authz Authorizer, audit AuditRecorder, logger *slog.Logger, yearMax int) *Service {
	return &Service{
		repo:    repo,
		authz:   authz,
		audit:   audit,
		logger:  logger,
		classes: newFieldClasses(yearMax),
	}
}

// List returns all books for a principal holding books.view.
func (s *Service) List(ctx context.Context, principal rbac.Principal) ([]Book, error) {
	if !s.authz.Authorize(principal, rbac.Permission(shared.PermBooksView)) {
		return nil, httpx.ErrForbidden
	}
	return s.repo.List(ctx)
}

// Get fetches one book for a principal holding books.view.
func (s *Service) Get(ctx context.Context, principal rbac.Principal, id int64) (Book, error) {
	if !s.authz.Authorize(principal, rbac.Permission(shared.PermBooksView)) {
		return Book{}, httpx.ErrForbidden
	}
	return s.repo.Get(ctx, id)
}

// Create validates the submitted fields and inserts a new record. The
// authorization gate runs before validation; validation failure reports
// every violation at once and nothing is persisted.
func (s *Service) Create(ctx context.Context, principal rbac.Principal, input Input) (Book, error) {
	if !s.authz.Authorize(principal, rbac.Permission(shared.PermBooksCreate)) {
		return Book{}, httpx.ErrForbidden
	}
	book, err := s.cleanInput(input)
	if err != nil {
		return Book{}, err
	}
	created, err := s.repo.Create(ctx, book)
	if err != nil {
		return Book{}, err
	}
	s.recordAudit(ctx, principal, "book.create", created)
	return created, nil
}

// Update validates the submitted fields and replaces an existing record.
func (s *Service) Update(ctx context.Context, principal rbac.Principal, id int64, input Input) (Book, error) {
	if !s.authz.Authorize(principal, rbac.Permission(shared.PermBooksEdit)) {
		return Book{}, httpx.ErrForbidden
	}
	book, err := s.cleanInput(input)
	if err != nil {
		return Book{}, err
	}
	updated, err := s.repo.Update(ctx, id, book)
	if err != nil {
		return Book{}, err
	}
	s.recordAudit(ctx, principal, "book.update", updated)
	return updated, nil
}

// Delete removes a record. Deletes carry no user text, so only the
// authorization gate applies.
func (s *Service) Delete(ctx context.Context, principal rbac.Principal, id int64) error {
	if !s.authz.Authorize(principal, rbac.Permission(shared.PermBooksDelete)) {
		return httpx.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, principal, "book.delete", Book{ID: id})
	return nil
}

// cleanInput runs the sanitizer over every text field, collecting all
// violations rather than stopping at the first.
func (s *Service) cleanInput(input Input) (Book, error) {
	title := sanitize.Validate(s.classes.title, input.Title)
	author := sanitize.Validate(s.classes.author, input.Author)
	year := sanitize.Validate(s.classes.year, input.PublicationYear)

	if err := sanitize.Collect(title, author, year); err != nil {
		return Book{}, err
	}

	// Range-checked by the year class already.
	yearValue, _ := strconv.Atoi(year.Cleaned)
	return Book{
		Title:           title.Cleaned,
		Author:          author.Cleaned,
		PublicationYear: yearValue,
	}, nil
}

func (s *Service) recordAudit(ctx context.Context, principal rbac.Principal, action string, book Book) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  principal.ID,
		Action:   action,
		Entity:   "book",
		EntityID: strconv.FormatInt(book.ID, 10),
		Meta:     map[string]any{"title": book.Title},
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("record audit", slog.String("action", action), slog.Any("error", err))
	}
}
