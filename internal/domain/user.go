package domain

import "time"

// User represents one registered account, keyed by the identity
// provider's subject identifier. A row is created on first login and
// mutated in place on every subsequent login.
type User struct {
	ID         int64     `json:"id" db:"id"`
	ExternalID string    `json:"external_id" db:"external_id"`
	Email      string    `json:"email" db:"email"`
	Name       *string   `json:"name,omitempty" db:"name"`
	Image      *string   `json:"image,omitempty" db:"image"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
	LastLogin  time.Time `json:"last_login" db:"last_login"`
	LoginCount int       `json:"login_count" db:"login_count"`
}

// NewUser carries the profile fields delivered by the identity provider
// on login. Everything else on User is derived by the store.
type NewUser struct {
	ExternalID string
	Email      string
	Name       *string
	Image      *string
}

// UserStats is a derived aggregate view over the users table, computed
// relative to query time. Never persisted.
type UserStats struct {
	TotalUsers        int `json:"totalUsers" db:"total_users"`
	NewUsersToday     int `json:"newUsersToday" db:"new_today"`
	NewUsersThisWeek  int `json:"newUsersThisWeek" db:"new_week"`
	NewUsersThisMonth int `json:"newUsersThisMonth" db:"new_month"`
}

// Principal is the authenticated identity resolved from a session
// token. It exists independently of the users table so that sign-in
// keeps working when the database is not configured.
type Principal struct {
	ExternalID string `json:"external_id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
}
