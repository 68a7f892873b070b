package dto

import (
	"time"

	"github.com/komiteku/komite-backend/internal/core/domain"
)

// RecordPaymentRequest defines the data needed to record a payment.
// CollectedBy comes from the authenticated context, not the body.
type RecordPaymentRequest struct {
	StudentID string     `json:"studentID" binding:"required"`
	Amount    int64      `json:"amount" binding:"required,min=1"`
	Method    string     `json:"method"`
	Note      string     `json:"note"`
	PaidAt    *time.Time `json:"paidAt"` // Defaults to now; backdating is allowed
}

// EditPaymentRequest defines the mutable fields of a payment.
// Pointers distinguish "not provided" from zero values. StudentID and
// PaymentID are immutable and therefore absent.
type EditPaymentRequest struct {
	Amount *int64     `json:"amount" binding:"omitempty,min=1"`
	Note   *string    `json:"note"`
	PaidAt *time.Time `json:"paidAt"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID   string    `json:"paymentID"`
	StudentID   string    `json:"studentID"`
	Amount      int64     `json:"amount"`
	CollectedBy string    `json:"collectedBy"`
	Method      string    `json:"method"`
	Note        string    `json:"note,omitempty"`
	PaidAt      time.Time `json:"paidAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PaymentDetailResponse is a payment enriched with the identities the
// history view displays.
type PaymentDetailResponse struct {
	PaymentResponse
	StudentName       string `json:"studentName"`
	StudentNIS        string `json:"studentNIS"`
	CollectorUsername string `json:"collectorUsername"`
}

// StudentBalanceResponse is the derived balance view for one student.
type StudentBalanceResponse struct {
	StudentID  string               `json:"studentID"`
	PaidAmount int64                `json:"paidAmount"`
	Remaining  int64                `json:"remaining"`
	Status     domain.PaymentStatus `json:"status"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:   p.PaymentID,
		StudentID:   p.StudentID,
		Amount:      p.Amount,
		CollectedBy: p.CollectedBy,
		Method:      p.Method,
		Note:        p.Note,
		PaidAt:      p.PaidAt,
		CreatedAt:   p.CreatedAt,
	}
}

// ToPaymentDetailResponses converts a slice of domain.PaymentDetail.
func ToPaymentDetailResponses(details []domain.PaymentDetail) []PaymentDetailResponse {
	res := make([]PaymentDetailResponse, len(details))
	for i, d := range details {
		res[i] = PaymentDetailResponse{
			PaymentResponse:   ToPaymentResponse(&d.Payment),
			StudentName:       d.StudentName,
			StudentNIS:        d.StudentNIS,
			CollectorUsername: d.CollectorUsername,
		}
	}
	return res
}

// ToStudentBalanceResponse converts a domain.StudentBalance.
func ToStudentBalanceResponse(studentID string, b domain.StudentBalance) StudentBalanceResponse {
	return StudentBalanceResponse{
		StudentID:  studentID,
		PaidAmount: b.PaidAmount,
		Remaining:  b.Remaining,
		Status:     b.Status,
	}
}
