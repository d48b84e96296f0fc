package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role determines an account's authorization tier.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleInspector Role = "inspector"
)

// Valid reports whether the role is part of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleInspector:
		return true
	}
	return false
}

// AccountStatus gates whether an account may authenticate.
type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive"
)

// Valid reports whether the status is a known value.
func (s AccountStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Account is the domain model for a user identity. IDNumber is the sole
// login key; UUID is the immutable identity tokens bind to.
type Account struct {
	UUID         uuid.UUID
	IDNumber     string
	PasswordHash string
	FirstName    string
	LastName     string
	MiddleName   *string
	Email        string
	Role         Role
	Status       AccountStatus
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive derives the authentication gate from Status.
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// FullName joins the name parts, skipping an absent middle name.
func (a *Account) FullName() string {
	parts := []string{a.FirstName}
	if a.MiddleName != nil && *a.MiddleName != "" {
		parts = append(parts, *a.MiddleName)
	}
	parts = append(parts, a.LastName)
	return strings.Join(parts, " ")
}
