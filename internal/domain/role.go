package domain

import "strings"

// Role is the authorisation role carried in a token
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleUser    Role = "user"
	RoleOfficer Role = "officer"
	RoleManager Role = "manager"
)

var knownRoles = map[Role]struct{}{
	RoleAdmin:   {},
	RoleUser:    {},
	RoleOfficer: {},
	RoleManager: {},
}

// ParseRole returns the role for a label (case-insensitive).
func ParseRole(label string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(label)))
	_, ok := knownRoles[r]
	return r, ok
}

// Principal is the authenticated caller.
type Principal struct {
	ID   string
	Role Role
}
