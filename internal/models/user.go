// ABOUTME: User represents a registered or guest account that owns tasks and conversations
// ABOUTME: Guest accounts are synthesized with guest_{N}@example.com emails
package models

import "time"

// User is a persisted account. Email uniquely determines a user.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
