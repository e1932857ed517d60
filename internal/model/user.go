// Package model defines the domain types shared across the application.
package model

import "time"

// User represents an account holder. Users are created lazily the first
// time an identity token from the auth provider is verified.
type User struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ID        string    `json:"id"`
	AuthID    string    `json:"authId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
}
