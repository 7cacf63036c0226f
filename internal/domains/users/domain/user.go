package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyUsername = errors.New("username is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrInvalidRole   = errors.New("role must be customer or admin")
)

// Role decides which order operations a user may perform.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User is a registered account. PasswordHash never leaves the service boundary.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	FullName     string
	Phone        string
	Address      string
	Role         Role
	CreatedAt    time.Time
}

// Profile carries the optional registration fields.
type Profile struct {
	Email    string
	FullName string
	Phone    string
	Address  string
}

// NewUser builds a user with a pre-computed password hash.
func NewUser(username, passwordHash string, role Role, profile Profile, now time.Time) (*User, error) {
	user := &User{Role: role, PasswordHash: passwordHash, CreatedAt: now.UTC()}
	if err := user.SetUsername(username); err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(profile); err != nil {
		return nil, err
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// SetUsername trims and validates the username.
func (u *User) SetUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	u.Username = username
	return nil
}

// UpdateProfile applies optional profile fields and validates email if present.
func (u *User) UpdateProfile(profile Profile) error {
	email := strings.TrimSpace(profile.Email)
	if email != "" && !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	u.FullName = strings.TrimSpace(profile.FullName)
	u.Phone = strings.TrimSpace(profile.Phone)
	u.Address = strings.TrimSpace(profile.Address)
	return nil
}

// IsAdmin reports whether the user may manage every order.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	if u.PasswordHash == "" {
		return ErrEmptyPassword
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}
