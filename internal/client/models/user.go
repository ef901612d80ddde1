// Package models holds the client-side view of the remote service's
// resources. JSON tags follow the service's camelCase wire format.
package models

import "github.com/dmitrijs2005/lingokeeper/internal/timex"

type User struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Avatar    string      `json:"avatar,omitempty"`
	CreatedAt *timex.Time `json:"createdAt,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}
