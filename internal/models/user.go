package models

// Role represents the role of an authenticated user
type Role int

const (
	RoleStudent    Role = 1
	RoleInstructor Role = 2
)

// String returns the role name
func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleInstructor:
		return "instructor"
	default:
		return "unknown"
	}
}

// Identity is the pre-authenticated caller of an operation
type Identity struct {
	UserID int
	Role   Role
}
