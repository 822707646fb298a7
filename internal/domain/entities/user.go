package entities

import (
	"time"
)

// Role is the kind of account a user registered as
type Role string

const (
	RoleVendor   Role = "vendor"
	RoleCustomer Role = "customer"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleVendor || r == RoleCustomer
}

// User represents a registered account
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Identity is the authenticated caller passed explicitly to service operations
type Identity struct {
	UserID string
	Role   Role
}

// IsVendor reports whether the caller acts as a vendor
func (i Identity) IsVendor() bool { return i.Role == RoleVendor }

// IsCustomer reports whether the caller acts as a customer
func (i Identity) IsCustomer() bool { return i.Role == RoleCustomer }
