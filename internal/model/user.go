// Package model defines the data structures used throughout the application.
package model

import "time"

// User is a registered author or reader.
//
// PasswordHash is empty for accounts created through GitHub login; those
// accounts can only sign in via OAuth. GitHubID is zero for accounts created
// with the signup form. The UNIQUE constraints on username and github_id keep
// one row per identity.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	GitHubID     int64     `json:"githubId"  db:"github_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

func (u *User) String() string {
	return u.Username
}
