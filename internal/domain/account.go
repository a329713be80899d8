package domain

import "strings"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
	RoleUnknown  Role = "unknown"
)

// ParseRole maps a stored user type onto a Role. Stored values are matched
// case-insensitively ("Customer" and "customer" are the same role).
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCustomer:
		return RoleCustomer
	case RoleManager:
		return RoleManager
	case RoleAdmin:
		return RoleAdmin
	}
	return RoleUnknown
}

func (r Role) Privileged() bool { return r == RoleManager || r == RoleAdmin }

type Account struct {
	ID           int64
	Name         string
	PasswordHash string
	Role         Role
}

// Session carries the authenticated caller into every workflow.
type Session struct {
	AccountID int64
	Name      string
	Role      Role
}
