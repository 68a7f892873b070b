package models

import "time"

// Payment is the database row for a payment event.
type Payment struct {
	PaymentID   string    `db:"payment_id"`
	StudentID   string    `db:"student_id"`
	Amount      int64     `db:"amount"`
	CollectedBy string    `db:"collected_by"`
	Method      string    `db:"method"`
	Note        string    `db:"note"`
	PaidAt      time.Time `db:"paid_at"`
	AuditFields
}
