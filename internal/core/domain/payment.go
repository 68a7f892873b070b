package domain

import "time"

// DefaultPaymentMethod is used when the caller does not supply a method.
const DefaultPaymentMethod = "cash"

// Payment is a single payment event against a student's target.
// StudentID and PaymentID are immutable after creation; only Amount, PaidAt
// and Note may change via the edit operation.
type Payment struct {
	PaymentID   string    `json:"paymentID"` // Primary key (UUID)
	StudentID   string    `json:"studentID"` // FK -> students.student_id
	Amount      int64     `json:"amount"`    // Positive, smallest currency unit
	CollectedBy string    `json:"collectedBy"`
	Method      string    `json:"method"`
	Note        string    `json:"note"`
	PaidAt      time.Time `json:"paidAt"` // Caller-supplied; may be back- or post-dated
	AuditFields
}

// PaymentDetail is a payment joined with the identities the history view
// displays.
type PaymentDetail struct {
	Payment
	StudentName       string `json:"studentName"`
	StudentNIS        string `json:"studentNIS"`
	CollectorUsername string `json:"collectorUsername"`
}
