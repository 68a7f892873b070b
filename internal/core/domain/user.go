package domain

// UserRole distinguishes administrators from class representatives.
type UserRole string

const (
	RoleAdmin          UserRole = "admin"
	RoleRepresentative UserRole = "user" // wali kelas, scoped to assigned classes
)

// User is a collecting actor. Representatives see and collect for their
// assigned classes only; admins see everything and are the only role allowed
// to delete payments.
type User struct {
	UserID        string   `json:"userID"` // Primary key (UUID)
	Username      string   `json:"username"`
	Email         string   `json:"email"`
	PasswordHash  string   `json:"-"`
	Role          UserRole `json:"role"`
	ClassAssigned []string `json:"classAssigned"` // Class names a representative collects for
	AuditFields
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
