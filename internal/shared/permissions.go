package shared

// Catalog permissions gating book operations.
const (
	PermBooksView   = "books.view"
	PermBooksCreate = "books.create"
	PermBooksEdit   = "books.edit"
	PermBooksDelete = "books.delete"
)

// Administrative permissions for the roles and users surfaces.
const (
	PermRolesView = "roles.view"
	PermRolesEdit = "roles.edit"

	PermUsersView = "users.view"
	PermUsersEdit = "users.edit"

	PermPermissionsView = "permissions.view"
)

// AllPermissions lists the complete permission universe. Role definitions
// are validated against this set at load time.
func AllPermissions() []string {
	return []string{
		PermBooksView,
		PermBooksCreate,
		PermBooksEdit,
		PermBooksDelete,
		PermRolesView,
		PermRolesEdit,
		PermUsersView,
		PermUsersEdit,
		PermPermissionsView,
	}
}
