package rbac_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandria-lms/alexandria/internal/rbac"
)

func catalogUniverse() []rbac.Permission {
	return []rbac.Permission{"books.view", "books.create", "books.edit", "books.delete"}
}

func newRegistry(t *testing.T, snap rbac.Snapshot) *rbac.Registry {
	t.Helper()
	registry, err := rbac.NewRegistry(snap)
	require.NoError(t, err)
	return registry
}

func TestAuthorizeRoleMembership(t *testing.T) {
	registry := newRegistry(t, rbac.Snapshot{
		Universe: catalogUniverse(),
		Roles: map[string][]rbac.Permission{
			"viewers": {"books.view"},
			"editors": {"books.view", "books.create", "books.edit"},
		},
	})

	viewer := rbac.Principal{ID: 1, Roles: []string{"viewers"}}
	editor := rbac.Principal{ID: 2, Roles: []string{"editors"}}

	// Grant iff the permission is in some held role's set.
	for _, perm := range catalogUniverse() {
		assert.Equal(t, perm == "books.view", registry.Authorize(viewer, perm), "viewer perm %s", perm)
	}
	assert.True(t, registry.Authorize(editor, "books.edit"))
	assert.False(t, registry.Authorize(editor, "books.delete"))
}

func TestAuthorizeSuperuserBypass(t *testing.T) {
	registry := newRegistry(t, rbac.Snapshot{Universe: catalogUniverse()})

	root := rbac.Principal{ID: 9, IsSuperuser: true}
	for _, perm := range catalogUniverse() {
		assert.True(t, registry.Authorize(root, perm))
	}
	// Superusers pass for tokens outside the universe too.
	assert.True(t, registry.Authorize(root, "ledger.burn"))
}

func TestAuthorizeUnknownTokenIsFalse(t *testing.T) {
	registry := newRegistry(t, rbac.Snapshot{
		Universe: catalogUniverse(),
		Roles:    map[string][]rbac.Permission{"editors": {"books.view", "books.edit"}},
	})

	editor := rbac.Principal{ID: 2, Roles: []string{"editors"}}
	assert.False(t, registry.Authorize(editor, "books.publish"))
	assert.False(t, registry.Authorize(rbac.Anonymous(), "books.publish"))
}

func TestAuthorizeAnonymous(t *testing.T) {
	registry := newRegistry(t, rbac.Snapshot{
		Universe: catalogUniverse(),
		Roles:    map[string][]rbac.Permission{"viewers": {"books.view"}},
	})
	assert.False(t, registry.Authorize(rbac.Anonymous(), "books.view"))

	public := newRegistry(t, rbac.Snapshot{
		Universe:   catalogUniverse(),
		Roles:      map[string][]rbac.Permission{"viewers": {"books.view"}},
		PublicRole: "viewers",
	})
	assert.True(t, public.Authorize(rbac.Anonymous(), "books.view"))
	assert.False(t, public.Authorize(rbac.Anonymous(), "books.create"))
}

func TestDefineRoleIdempotentReplace(t *testing.T) {
	registry := newRegistry(t, rbac.Snapshot{Universe: catalogUniverse()})

	created, err := registry.DefineRole("editors", []rbac.Permission{"books.view", "books.create", "books.edit"})
	require.NoError(t, err)
	assert.True(t, created)

	// Same set again: same state, not newly created.
	created, err = registry.DefineRole("editors", []rbac.Permission{"books.view", "books.create", "books.edit"})
	require.NoError(t, err)
	assert.False(t, created)
	perms, err := registry.RolePermissions("editors")
	require.NoError(t, err)
	assert.Equal(t, []rbac.Permission{"books.create", "books.edit", "books.view"}, perms)

	// Different set replaces, never unions.
	_, err = registry.DefineRole("editors", []rbac.Permission{"books.view"})
	require.NoError(t, err)
	perms, err = registry.RolePermissions("editors")
	require.NoError(t, err)
	assert.Equal(t, []rbac.Permission{"books.view"}, perms)
}

func TestDefineRoleRejectsUnknownPermission(t *testing.T) {
	registry := newRegistry(t, rbac.Snapshot{Universe: catalogUniverse()})
	_, err := registry.DefineRole("editors", []rbac.Permission{"books.view", "ledger.burn"})
	assert.ErrorIs(t, err, rbac.ErrUnknownPermission)

	// Snapshot construction fails fast on the same condition.
	_, err = rbac.NewRegistry(rbac.Snapshot{
		Universe: catalogUniverse(),
		Roles:    map[string][]rbac.Permission{"bad": {"ledger.burn"}},
	})
	assert.ErrorIs(t, err, rbac.ErrUnknownPermission)
}

func TestAssignRole(t *testing.T) {
	registry := newRegistry(t, rbac.Snapshot{
		Universe: catalogUniverse(),
		Roles:    map[string][]rbac.Permission{"viewers": {"books.view"}, "editors": {"books.edit"}},
	})

	require.NoError(t, registry.AssignRole(7, "viewers"))
	require.NoError(t, registry.AssignRole(7, "viewers")) // idempotent
	require.NoError(t, registry.AssignRole(7, "editors"))
	assert.Equal(t, []string{"editors", "viewers"}, registry.RolesOf(7))

	assert.ErrorIs(t, registry.AssignRole(7, "wizards"), rbac.ErrUnknownRole)

	registry.RemoveRole(7, "editors")
	registry.RemoveRole(7, "editors") // no-op
	assert.Equal(t, []string{"viewers"}, registry.RolesOf(7))
}

func TestConcurrentAdministrativeEdits(t *testing.T) {
	registry := newRegistry(t, rbac.Snapshot{
		Universe: catalogUniverse(),
		Roles:    map[string][]rbac.Permission{"viewers": {"books.view"}},
	})
	principal := rbac.Principal{ID: 1, Roles: []string{"viewers"}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = registry.DefineRole("viewers", []rbac.Permission{"books.view"})
				_ = registry.AssignRole(1, "viewers")
				registry.Authorize(principal, "books.view")
			}
		}()
	}
	wg.Wait()

	assert.True(t, registry.Authorize(principal, "books.view"))
	assert.Equal(t, []string{"viewers"}, registry.RolesOf(1))
}
