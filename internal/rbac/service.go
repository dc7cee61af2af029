package rbac

import (
	"context"
	"fmt"
	"log/slog"
)

// Service couples the in-memory registry with optional PostgreSQL
// persistence. The registry answers every authorization check; the store
// keeps role and assignment state across restarts.
type Service struct {
	registry *Registry
	store    *Store
	logger   *slog.Logger
}

// NewService wraps an existing registry. A nil store keeps the service
// fully in-memory, which the tests rely on.
func NewService(registry *Registry, store *Store, logger *slog.Logger) *Service {
	return &Service{registry: registry, store: store, logger: logger}
}

// NewServiceFromStore loads role definitions and assignments from the
// store and builds the evaluation registry from them. Malformed state
// (role referencing an unknown permission) fails here, at startup.
func NewServiceFromStore(ctx context.Context, universe []Permission, publicRole string, store *Store, logger *slog.Logger) (*Service, error) {
	roles, assignments, err := store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("rbac: load store: %w", err)
	}
	registry, err := NewRegistry(Snapshot{Universe: universe, Roles: roles, PublicRole: publicRole})
	if err != nil {
		return nil, err
	}
	for userID, held := range assignments {
		for _, role := range held {
			if err := registry.AssignRole(userID, role); err != nil {
				return nil, fmt.Errorf("rbac: user %d: %w", userID, err)
			}
		}
	}
	return &Service{registry: registry, store: store, logger: logger}, nil
}

// Authorize evaluates the grant decision for one principal and one
// permission token.
func (s *Service) Authorize(principal Principal, perm Permission) bool {
	return s.registry.Authorize(principal, perm)
}

// DefineRole upserts a role, replacing its permission set, and persists
// the definition. Reports whether the role was newly created.
func (s *Service) DefineRole(ctx context.Context, name string, perms []Permission) (bool, error) {
	created, err := s.registry.DefineRole(name, perms)
	if err != nil {
		return false, err
	}
	if s.store != nil {
		if err := s.store.SaveRole(ctx, name, perms); err != nil {
			return created, fmt.Errorf("rbac: persist role %q: %w", name, err)
		}
	}
	if s.logger != nil {
		s.logger.Info("role defined", slog.String("role", name), slog.Bool("created", created))
	}
	return created, nil
}

// AssignRole adds a role to a principal, idempotently, and persists the
// assignment.
func (s *Service) AssignRole(ctx context.Context, principalID int64, role string) error {
	if err := s.registry.AssignRole(principalID, role); err != nil {
		return err
	}
	if s.store != nil {
		if err := s.store.AssignRole(ctx, principalID, role); err != nil {
			return fmt.Errorf("rbac: persist assignment: %w", err)
		}
	}
	return nil
}

// RemoveRole drops a role from a principal.
func (s *Service) RemoveRole(ctx context.Context, principalID int64, role string) error {
	s.registry.RemoveRole(principalID, role)
	if s.store != nil {
		if err := s.store.RemoveRole(ctx, principalID, role); err != nil {
			return fmt.Errorf("rbac: remove assignment: %w", err)
		}
	}
	return nil
}

// ResolvePrincipal builds the principal for a user, with roles resolved
// once here rather than probed at check time.
func (s *Service) ResolvePrincipal(userID int64, superuser bool) Principal {
	return Principal{ID: userID, Roles: s.registry.RolesOf(userID), IsSuperuser: superuser}
}

// Roles lists every defined role.
func (s *Service) Roles() []Role {
	return s.registry.Roles()
}

// RolePermissions returns one role's permission set.
func (s *Service) RolePermissions(name string) ([]Permission, error) {
	return s.registry.RolePermissions(name)
}

// Universe lists the known permission tokens.
func (s *Service) Universe() []Permission {
	return s.registry.Universe()
}
