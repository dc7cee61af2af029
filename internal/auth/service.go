package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/alexandria-lms/alexandria/internal/rbac"
	"github.com/alexandria-lms/alexandria/internal/shared"
)

// Service wraps authentication business rules and principal resolution.
type Service struct {
	repo Repository
	rbac *rbac.Service
}

// NewService constructs a new Service.
func NewService(repo Repository, rbacService *rbac.Service) *Service {
	return &Service{repo: repo, rbac: rbacService}
}

// Authenticate validates email/password credentials. Hashing itself is
// delegated to bcrypt; every failure collapses to the same error so the
// response does not leak which check tripped.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// PrincipalByID resolves the acting principal for a user: the role set is
// attached here, once, at construction. A session pointing at a deleted or
// deactivated account degrades to anonymous rather than failing.
func (s *Service) PrincipalByID(ctx context.Context, id int64) (rbac.Principal, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return rbac.Anonymous(), nil
		}
		return rbac.Anonymous(), err
	}
	if !user.IsActive {
		return rbac.Anonymous(), nil
	}
	return s.rbac.ResolvePrincipal(user.ID, user.IsSuperuser), nil
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}

var _ rbac.PrincipalSource = (*Service)(nil)
