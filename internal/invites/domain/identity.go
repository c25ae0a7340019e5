package domain

import (
	"errors"
	"time"
)

type Role string

const (
	RoleUnset    Role = ""
	RoleLandlord Role = "landlord"
	RoleTenant   Role = "tenant"
)

var ErrInvalidRole = errors.New("invalid role")

// ParseRole accepts only assignable roles; the unset role is not one.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleLandlord, RoleTenant:
		return r, nil
	}
	return RoleUnset, ErrInvalidRole
}

func (r Role) IsSet() bool { return r != RoleUnset }

// Identity is a user known to the auth provider as ExternalAuthID. It is
// created with no role; the role is assigned once and never overwritten.
type Identity struct {
	ID                 string
	ExternalAuthID     string
	Role               Role
	OnboardingComplete bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
