package rbac

import (
	"fmt"
	"sort"
	"sync"
)

// Snapshot describes the authorization state a Registry is built from:
// the permission universe, role definitions, and the optional public
// pseudo-role granted to anonymous principals.
type Snapshot struct {
	Universe   []Permission
	Roles      map[string][]Permission
	PublicRole string
}

// Registry holds the permission universe and role assignments in memory.
// Authorize is a read; administrative mutations take the write lock so
// concurrent edits to the same role or principal cannot lose updates.
// Readers proceeding concurrently with unrelated writes observe either the
// pre- or post-update role set.
type Registry struct {
	mu          sync.RWMutex
	universe    map[Permission]struct{}
	roles       map[string]map[Permission]struct{}
	assignments map[int64]map[string]struct{}
	publicRole  string
}

// NewRegistry builds a Registry from a snapshot. Role definitions
// referencing tokens outside the universe fail here, at load time, never
// at request time.
func NewRegistry(snap Snapshot) (*Registry, error) {
	r := &Registry{
		universe:    make(map[Permission]struct{}, len(snap.Universe)),
		roles:       make(map[string]map[Permission]struct{}, len(snap.Roles)),
		assignments: make(map[int64]map[string]struct{}),
		publicRole:  snap.PublicRole,
	}
	for _, p := range snap.Universe {
		r.universe[p] = struct{}{}
	}
	for name, perms := range snap.Roles {
		if _, err := r.DefineRole(name, perms); err != nil {
			return nil, fmt.Errorf("rbac: role %q: %w", name, err)
		}
	}
	return r, nil
}

// Authorize reports whether the principal holds the permission. Superusers
// pass for any token; unknown tokens evaluate to false for everyone else,
// making the check total. Never mutates state, never errors.
func (r *Registry) Authorize(principal Principal, perm Permission) bool {
	if principal.IsSuperuser {
		return true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, known := r.universe[perm]; !known {
		return false
	}

	roles := principal.Roles
	if principal.IsAnonymous() {
		if r.publicRole == "" {
			return false
		}
		roles = []string{r.publicRole}
	}
	for _, role := range roles {
		if _, ok := r.roles[role][perm]; ok {
			return true
		}
	}
	return false
}

// DefineRole creates or replaces a role's permission set (replace, not
// merge). It reports whether the role was newly created. Tokens outside
// the universe are rejected.
func (r *Registry) DefineRole(name string, perms []Permission) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		if _, known := r.universe[p]; !known {
			return false, fmt.Errorf("%w: %s", ErrUnknownPermission, p)
		}
		set[p] = struct{}{}
	}

	_, existed := r.roles[name]
	r.roles[name] = set
	return !existed, nil
}

// AssignRole adds a role to the principal's role set. Assigning an already
// held role is a no-op, not an error.
func (r *Registry) AssignRole(principalID int64, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.roles[role]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	held, ok := r.assignments[principalID]
	if !ok {
		held = make(map[string]struct{})
		r.assignments[principalID] = held
	}
	held[role] = struct{}{}
	return nil
}

// RemoveRole drops a role from the principal's role set; absent roles are
// a no-op.
func (r *Registry) RemoveRole(principalID int64, role string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.assignments[principalID], role)
}

// RolesOf returns the sorted role names held by the principal.
func (r *Registry) RolesOf(principalID int64) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	held := r.assignments[principalID]
	roles := make([]string, 0, len(held))
	for name := range held {
		roles = append(roles, name)
	}
	sort.Strings(roles)
	return roles
}

// RolePermissions returns the sorted permission set of a role, or
// ErrUnknownRole if it is not defined.
func (r *Registry) RolePermissions(name string) ([]Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.roles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, name)
	}
	return sortedPermissions(set), nil
}

// Roles returns every defined role with its permissions, sorted by name.
func (r *Registry) Roles() []Role {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]Role, 0, len(r.roles))
	for name, set := range r.roles {
		roles = append(roles, Role{Name: name, Permissions: sortedPermissions(set)})
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles
}

// Universe returns the sorted permission universe.
func (r *Registry) Universe() []Permission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedPermissions(r.universe)
}

func sortedPermissions(set map[Permission]struct{}) []Permission {
	perms := make([]Permission, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}
