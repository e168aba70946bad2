package accounts

import "time"

// Account is the identity record. The id is assigned by the store and
// immutable; Email is stored case-normalized and is unique; PasswordHash is
// write-only from a caller's perspective and never serialized.
type Account struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	Active       bool
}
