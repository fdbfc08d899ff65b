// ABOUTME: Data types and shared errors for orderd persistence
// ABOUTME: Defines User, Franchise, Store, MenuItem, Order and the role model

package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned when registering a user with an email that already exists
var ErrEmailTaken = errors.New("email already registered")

// Role represents a role that can be assigned to a user
type Role string

const (
	RoleDiner      Role = "diner"
	RoleFranchisee Role = "franchisee"
	RoleAdmin      Role = "admin"
)

// ValidRoles lists all valid role names
var ValidRoles = []Role{
	RoleDiner,
	RoleFranchisee,
	RoleAdmin,
}

// User represents a registered account. PasswordHash is a bcrypt hash and is
// never serialized in API responses.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the user has the given role assigned.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Session relates an issued bearer token to the user it was minted for.
// One row per token; a user may hold many concurrent sessions.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// FranchiseAdmin identifies a user listed as an administrator of a franchise
type FranchiseAdmin struct {
	UserID string
	Name   string
	Email  string
}

// Franchise represents a franchise with its admin list and stores
type Franchise struct {
	ID        string
	Name      string
	Admins    []FranchiseAdmin
	Stores    []PizzaStore
	CreatedAt time.Time
}

// AdminIDs returns the user ids listed as admins of the franchise.
func (f *Franchise) AdminIDs() []string {
	ids := make([]string, len(f.Admins))
	for i, a := range f.Admins {
		ids[i] = a.UserID
	}
	return ids
}

// PizzaStore represents a physical store under a franchise
type PizzaStore struct {
	ID          string
	FranchiseID string
	Name        string
	CreatedAt   time.Time
}

// MenuItem represents an orderable pizza on the menu
type MenuItem struct {
	ID          string
	Title       string
	Description string
	Image       string
	Price       float64
	CreatedAt   time.Time
}

// OrderItem is a single line item within an order, priced at order time
type OrderItem struct {
	MenuID      string
	Description string
	Price       float64
}

// Order represents a placed order. UserID is always the acting identity,
// never taken from the request body.
type Order struct {
	ID          string
	UserID      string
	FranchiseID string
	StoreID     string
	Items       []OrderItem
	CreatedAt   time.Time
}
