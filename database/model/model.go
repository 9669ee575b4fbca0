// Package model defines the persistent entities of the auth gate: users,
// roles, role associations, path access rules and sessions.
package model

import "time"

// User is a registered account. Name is the natural key; Username is the
// login credential. A row may exist with an empty Username: a placeholder
// that registration later claims.
type User struct {
	Id           int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string `json:"name" gorm:"uniqueIndex"`
	Username     string `json:"username" gorm:"index"`
	PasswordHash string `json:"-"`

	UserRoles []UserRole `json:"userRoles,omitempty" gorm:"foreignKey:UserId"`
}

// Role is static reference data. Roles are seeded in descending privilege
// order, so a lower id means higher privilege.
type Role struct {
	Id   int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"unique"`
}

// UserRole binds a user to a role. A user may hold several; authorization
// consults the primary one (lowest role id).
type UserRole struct {
	Id     int  `json:"id" gorm:"primaryKey;autoIncrement"`
	UserId int  `json:"userId" gorm:"index"`
	RoleId int  `json:"roleId" gorm:"index"`
	Role   Role `json:"role" gorm:"foreignKey:RoleId"`
}

// AccessRule grants a role access to every request path the rule's Path is
// a literal prefix of.
type AccessRule struct {
	Id     int    `json:"id" gorm:"primaryKey;autoIncrement"`
	RoleId int    `json:"roleId" gorm:"index"`
	Path   string `json:"path"`
}

// Session is a server-side login session. Id is the opaque bearer token
// carried in the client cookie and the sole secret proving identity.
type Session struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	Username  string    `json:"username" gorm:"index"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"index"`
}
