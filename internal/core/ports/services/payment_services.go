package services

import (
	"context"

	"github.com/komiteku/komite-backend/internal/core/domain"
	"github.com/komiteku/komite-backend/internal/dto"
)

// PaymentReaderSvc defines read operations over the ledger.
type PaymentReaderSvc interface {
	// GetStudentBalance computes the derived balance view for one student.
	GetStudentBalance(ctx context.Context, studentID string) (*domain.StudentBalance, error)

	// ListPayments retrieves the payment history, newest paidAt first.
	ListPayments(ctx context.Context) ([]domain.PaymentDetail, error)
}

// PaymentWriterSvc defines the ledger mutation protocol.
type PaymentWriterSvc interface {
	// RecordPayment validates and commits a new payment for a student.
	// Fails with apperrors.ErrValidation (unknown student, bad input) or a
	// *apperrors.BalanceExceededError (would overshoot the target).
	RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, collectorUserID string) (*domain.Payment, error)

	// EditPayment updates a payment's amount, paidAt and/or note. An amount
	// change is validated against the target with the edited record excluded
	// from the committed sum.
	EditPayment(ctx context.Context, paymentID string, req dto.EditPaymentRequest, updaterUserID string) (*domain.Payment, error)

	// DeletePayment removes a payment. Never performs a balance check:
	// removal only lowers the total.
	DeletePayment(ctx context.Context, paymentID string) error
}

// PaymentSvcFacade combines the ledger service interfaces.
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
