package rbac

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides PostgreSQL backed persistence for role definitions and
// role assignments.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// LoadAll reads every role definition and user assignment.
func (s *Store) LoadAll(ctx context.Context) (map[string][]Permission, map[int64][]string, error) {
	roles := make(map[string][]Permission)

	rows, err := s.pool.Query(ctx, `SELECT name FROM roles ORDER BY name`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, nil, err
		}
		roles[name] = nil
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	permRows, err := s.pool.Query(ctx, `SELECT role_name, permission FROM role_permissions ORDER BY role_name, permission`)
	if err != nil {
		return nil, nil, err
	}
	defer permRows.Close()
	for permRows.Next() {
		var role, perm string
		if err := permRows.Scan(&role, &perm); err != nil {
			return nil, nil, err
		}
		roles[role] = append(roles[role], Permission(perm))
	}
	if err := permRows.Err(); err != nil {
		return nil, nil, err
	}

	assignments := make(map[int64][]string)
	userRows, err := s.pool.Query(ctx, `SELECT user_id, role_name FROM user_roles ORDER BY user_id, role_name`)
	if err != nil {
		return nil, nil, err
	}
	defer userRows.Close()
	for userRows.Next() {
		var userID int64
		var role string
		if err := userRows.Scan(&userID, &role); err != nil {
			return nil, nil, err
		}
		assignments[userID] = append(assignments[userID], role)
	}
	if err := userRows.Err(); err != nil {
		return nil, nil, err
	}

	return roles, assignments, nil
}

// SaveRole upserts the role row and replaces its permission set in one
// transaction, matching the replace-not-merge semantics of DefineRole.
func (s *Store) SaveRole(ctx context.Context, name string, perms []Permission) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_name = $1`, name); err != nil {
			return err
		}
		for _, perm := range perms {
			if _, err := tx.Exec(ctx, `INSERT INTO role_permissions (role_name, permission) VALUES ($1, $2)`, name, string(perm)); err != nil {
				return err
			}
		}
		return nil
	})
}

// AssignRole records a user-role assignment, tolerating repeats.
func (s *Store) AssignRole(ctx context.Context, userID int64, role string) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO user_roles (user_id, role_name) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, role)
	return err
}

// RemoveRole deletes a user-role assignment.
func (s *Store) RemoveRole(ctx context.Context, userID int64, role string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role_name = $2`, userID, role)
	return err
}
