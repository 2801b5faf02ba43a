package entity

// Role names stored in users.role
const (
	RoleClient = "client"
	RoleDoctor = "doctor"
	RoleAdmin  = "admin"
)

// IsValidRole reports whether r is one of the known roles.
func IsValidRole(r string) bool {
	switch r {
	case RoleClient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}
