package enums

import "fmt"

// UserRole identifies what kind of actor a user record represents.
type UserRole string

const (
	UserRoleManager   UserRole = "manager"
	UserRoleDeliverer UserRole = "deliverer"
	UserRoleCustomer  UserRole = "customer"
)

var validUserRoles = []UserRole{
	UserRoleManager,
	UserRoleDeliverer,
	UserRoleCustomer,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is known.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
