// Package rbac implements role-based authorization: a fixed permission
// universe, named roles holding permission sets, and per-request grant
// evaluation for principals.
package rbac

import "strings"

// Permission is an atomic capability token in dotted resource.action form,
// e.g. "books.view". Tokens are defined at configuration time and never
// mutated afterwards.
type Permission string

// Resource returns the resource kind the permission applies to.
func (p Permission) Resource() string {
	if i := strings.IndexByte(string(p), '.'); i >= 0 {
		return string(p)[:i]
	}
	return string(p)
}

// Action returns the action verb of the permission.
func (p Permission) Action() string {
	if i := strings.IndexByte(string(p), '.'); i >= 0 {
		return string(p)[i+1:]
	}
	return ""
}

// Universe converts plain permission tokens into typed permissions, for
// wiring a configured token list into a registry snapshot.
func Universe(tokens []string) []Permission {
	perms := make([]Permission, len(tokens))
	for i, token := range tokens {
		perms[i] = Permission(token)
	}
	return perms
}

// Role is a named permission set as exposed to the admin surface.
type Role struct {
	Name        string
	Permissions []Permission
}

// Principal is the acting identity. Roles are resolved once when the
// principal is constructed; no attribute probing happens at check time.
type Principal struct {
	ID          int64
	Roles       []string
	IsSuperuser bool
}

// Anonymous returns the unauthenticated principal: empty role set, no
// superuser flag.
func Anonymous() Principal {
	return Principal{}
}

// IsAnonymous reports whether the principal is unauthenticated.
func (p Principal) IsAnonymous() bool {
	return p.ID == 0
}
