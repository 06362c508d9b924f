// Package models defines the data records shared across copyforge.
package models

import "time"

// User represents a user account. Accounts are seeded from static
// configuration at startup and are read-only at request time.
type User struct {
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Disabled     bool      `json:"disabled"`
	CreatedAt    time.Time `json:"created_at"`
}
