package auth

import "time"

// User represents an authenticated user account. IsSuperuser marks the
// unconditional grant bypass; everything else goes through roles.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
