package user

import "errors"

var ErrNotFound = errors.New("user not found")

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsStaff() bool { return a.Role == RoleLender || a.Role == RoleAdmin }
