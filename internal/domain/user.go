package domain

import "time"

// User represents an account authenticated by email and password.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
