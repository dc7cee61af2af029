package rbac_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandria-lms/alexandria/internal/rbac"
)

func TestServiceAdminOperations(t *testing.T) {
	registry := newRegistry(t, rbac.Snapshot{Universe: catalogUniverse()})
	svc := rbac.NewService(registry, nil, nil)
	ctx := context.Background()

	created, err := svc.DefineRole(ctx, "admins", []rbac.Permission{"books.view", "books.create", "books.edit", "books.delete"})
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, svc.AssignRole(ctx, 3, "admins"))

	principal := svc.ResolvePrincipal(3, false)
	assert.Equal(t, []string{"admins"}, principal.Roles)
	assert.True(t, svc.Authorize(principal, "books.delete"))

	require.NoError(t, svc.RemoveRole(ctx, 3, "admins"))
	principal = svc.ResolvePrincipal(3, false)
	assert.Empty(t, principal.Roles)
	assert.False(t, svc.Authorize(principal, "books.delete"))
}

func TestPermissionParts(t *testing.T) {
	perm := rbac.Permission("books.view")
	assert.Equal(t, "books", perm.Resource())
	assert.Equal(t, "view", perm.Action())
}
