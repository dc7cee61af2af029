package users

import (
	"context"

	"github.com/alexandria-lms/alexandria/internal/rbac"
)

// Service handles user administration: listing accounts and managing their
// role assignments. Role membership changes go through the authorization
// service so the in-memory registry and the store stay in step.
type Service struct {
	repo RepositoryPort
	rbac *rbac.Service
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, rbacService *rbac.Service) *Service {
	return &Service{repo: repo, rbac: rbacService}
}

// ListUsers returns all accounts.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser returns one account.
func (s *Service) GetUser(ctx context.Context, id int64) (User, error) {
	return s.repo.GetUser(ctx, id)
}

// AssignRole grants a role to the user. The user must exist; assigning a
// held role is a no-op.
func (s *Service) AssignRole(ctx context.Context, userID int64, role string) error {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return err
	}
	return s.rbac.AssignRole(ctx, userID, role)
}

// RemoveRole revokes a role from the user.
func (s *Service) RemoveRole(ctx context.Context, userID int64, role string) error {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return err
	}
	return s.rbac.RemoveRole(ctx, userID, role)
}
