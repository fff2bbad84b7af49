// Package models defines the persistent records of the service.
package models

import "time"

// User is a registered account. PasswordHash is a bcrypt digest; the
// plaintext is never stored. Accounts are immutable after registration.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
