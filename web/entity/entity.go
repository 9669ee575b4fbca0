// Package entity defines the data structures shared by the web layer.
package entity

import (
	"time"

	"authgate/database/model"
)

// Msg is the standard API response envelope.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj"`
}

// Principal is the immutable authenticated caller produced by the session
// guard and passed to downstream handlers. Session carries the raw token so
// handlers can log out or refresh.
type Principal struct {
	Id       int        `json:"id"`
	Name     string     `json:"name"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	Session  string     `json:"-"`
}

// LoginResult is returned to the caller on successful login so it can issue
// the session cookie.
type LoginResult struct {
	ExpiresAt time.Time `json:"expiresAt"`
}

// RegisterResult echoes the stored name and assigned roles.
type RegisterResult struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}
