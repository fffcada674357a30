package domain

// Roles fixed at registration
const (
	RoleStudent   = "student"
	RoleRecruiter = "recruiter"
)

// ValidRole reports whether role is one a user can register with
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleRecruiter
}

// Application statuses
const (
	ApplicationPending = "pending"
)
