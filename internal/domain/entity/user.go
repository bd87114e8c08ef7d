package entity

import (
	"time"
)

// Role is the authorization role of a user. Only RoleUser is assignable
// today; RoleAdmin is reserved.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the aggregate root for the account domain.
// PasswordHash holds a bcrypt hash and is never serialized to clients.
// UserName is case-sensitive and immutable after creation.
type User struct {
	ID           string
	UserName     string
	PasswordHash string
	Email        string
	FirstName    string
	LastName     string
	Gender       string
	Age          int
	Address      string
	Photo        string
	Presentation string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRef is the public projection of a user used in search results,
// pending-request lists and friend lists: id and display name, nothing else.
type UserRef struct {
	ID       string `json:"id"`
	UserName string `json:"user_name"`
}
