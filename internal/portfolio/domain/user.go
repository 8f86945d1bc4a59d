package domain

import "time"

// User is the credential-store record for an account. The slug is allocated
// exactly once, at registration, and never changes for the lifetime of the
// account.
type User struct {
	ID           string
	Email        string // stored lower-cased; uniqueness is case-insensitive
	Name         string
	PasswordHash string // argon2id PHC encoded
	Slug         string
	CreatedAt    time.Time
}
