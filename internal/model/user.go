package model

import "time"

// Roles form a strict hierarchy: admin ⊇ manager ⊇ cashier.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// roleRank orders roles for the hierarchical permission check. Roles absent
// from this map rank 0 and are denied everything.
var roleRank = map[string]int{
	RoleAdmin:   3,
	RoleManager: 2,
	RoleCashier: 1,
}

// RoleAllows reports whether a user holding role may perform an action that
// requires at least the given role. Unknown role strings on either side deny.
func RoleAllows(role, required string) bool {
	have, ok := roleRank[role]
	if !ok {
		return false
	}
	need, ok := roleRank[required]
	if !ok {
		return false
	}
	return have >= need
}

// User is a system account with role-based access.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"passwordHash"`
	Role         string     `json:"role"`
	Email        string     `json:"email,omitempty"`
	Active       bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}
