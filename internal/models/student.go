package models

// Student is the database row for a roster entry.
type Student struct {
	StudentID    string `db:"student_id"`
	NIS          string `db:"nis"`
	Name         string `db:"name"`
	ClassName    string `db:"class_name"`
	Gender       string `db:"gender"`
	TargetAmount int64  `db:"target_amount"`
	AuditFields
}
