package domain

// UserRoleType represents a user role
type UserRoleType string

const (
	RoleAdmin        UserRoleType = "admin"
	RoleMechanic     UserRoleType = "mechanic"
	RoleReceptionist UserRoleType = "receptionist"
)

// IsValid checks if the UserRoleType is a valid enum value
func (r UserRoleType) IsValid() bool {
	switch r {
	case RoleAdmin, RoleMechanic, RoleReceptionist:
		return true
	}
	return false
}
