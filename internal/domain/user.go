package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleVendor   Role = "VENDOR"
	RoleAdmin    Role = "ADMIN"
)

type User struct {
	ID         int
	FirstName  string
	LastName   string
	Email      string
	NationalID string
	Role       Role
	CreatedAt  time.Time
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Credentials is what a successful login yields: the bearer token the platform
// API expects on every call, plus the authenticated user.
type Credentials struct {
	Token string
	User  User
}

type Registration struct {
	FirstName  string
	LastName   string
	Email      string
	NationalID string
	Password   string
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*Credentials, error)
	Register(ctx context.Context, reg Registration) (*User, error)
}
