package entity

// Role represents the authorization role granted to a credential.
type Role string

const (
	// RoleUser indicates a regular user role.
	RoleUser Role = "USER"
	// RoleAdmin indicates an administrator role.
	RoleAdmin Role = "ADMIN"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// Claims returns the role claim list embedded into issued tokens.
// The current design grants exactly one role per credential.
func (r Role) Claims() []string {
	return []string{r.String()}
}
