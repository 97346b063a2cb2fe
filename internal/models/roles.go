package models

// The role set is closed: administrators can write, standard users can only read.
const (
	RoleAdmin    = "ADMIN"
	RoleStandard = "STANDARD"
)

// ValidRole reports whether role is one of the two supported values.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStandard
}
