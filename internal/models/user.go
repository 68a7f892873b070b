package models

// User is the database row for a collecting actor.
type User struct {
	UserID        string   `db:"user_id"`
	Username      string   `db:"username"`
	Email         string   `db:"email"`
	PasswordHash  string   `db:"password_hash"`
	Role          string   `db:"role"`
	ClassAssigned []string `db:"class_assigned"`
	AuditFields
}
