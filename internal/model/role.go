package model

import "fmt"

// Role is the closed set of login roles.
//
// Wire names follow the stored records (ADM / PROFESSOR / ALUNO) so that
// transfer tokens produced by older clients keep decoding.
type Role uint8

const (
	RoleAdministrator Role = iota + 1
	RoleInstructor
	RoleStudent
)

const (
	roleNameAdministrator = "ADM"
	roleNameInstructor    = "PROFESSOR"
	roleNameStudent       = "ALUNO"
)

// ParseRole converts a wire name to a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case roleNameAdministrator:
		return RoleAdministrator, nil
	case roleNameInstructor:
		return RoleInstructor, nil
	case roleNameStudent:
		return RoleStudent, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case RoleAdministrator:
		return roleNameAdministrator
	case RoleInstructor:
		return roleNameInstructor
	case RoleStudent:
		return roleNameStudent
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r >= RoleAdministrator && r <= RoleStudent
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
