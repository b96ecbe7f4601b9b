package domain

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleController Role = "controller"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[string]bool{
	"admin": true, "user": true, "controller": true,
}

// ParseRole converts s into a Role.
func ParseRole(s string) (Role, error) {
	if !ValidRoles[s] {
		return "", fmt.Errorf("invalid role %q (want admin, user or controller)", s)
	}
	return Role(s), nil
}

func (r Role) Valid() bool {
	return ValidRoles[string(r)]
}

// CanManageCards reports whether the role may create, edit and delete cards
// and see every card.
func (r Role) CanManageCards() bool {
	return r == RoleAdmin || r == RoleController
}

type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
