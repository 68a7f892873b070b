package repositories

import (
	"context"

	"github.com/komiteku/komite-backend/internal/core/domain"
)

// PaymentReader defines read operations for payment data.
type PaymentReader interface {
	// FindPaymentByID retrieves a single payment by its unique identifier.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// FindPaymentsByStudentID retrieves all payments for one student,
	// ordered by paid_at descending. The ordering is for display only.
	FindPaymentsByStudentID(ctx context.Context, studentID string) ([]domain.Payment, error)

	// ListPayments retrieves the full payment history joined with student and
	// collector identity, ordered by paid_at descending.
	ListPayments(ctx context.Context) ([]domain.PaymentDetail, error)
}

// PaymentWriter defines write operations for payment data.
//
// CreatePayment and UpdatePayment are the conditional writes the ledger
// protocol relies on: each implementation must, within a single storage
// transaction, serialize against other writers for the same student
// (the pgsql implementation locks the student row), re-read the committed
// payment sum, and only commit if the resulting total stays within the
// student's target. On violation they return a
// *apperrors.BalanceExceededError carrying the remaining balance computed
// from the state observed inside the transaction.
type PaymentWriter interface {
	// CreatePayment inserts a new payment after atomically re-validating the
	// paid <= target invariant. Returns apperrors.ErrNotFound if the student
	// does not exist.
	CreatePayment(ctx context.Context, payment domain.Payment) error

	// UpdatePayment writes a payment's mutable fields (amount, paid_at, note)
	// after atomically re-validating the invariant with the stored record
	// excluded from the sum. Returns apperrors.ErrNotFound if the payment
	// does not exist.
	UpdatePayment(ctx context.Context, payment domain.Payment) error

	// DeletePayment removes a payment. Deletion only ever lowers a student's
	// total, so no balance check is performed.
	DeletePayment(ctx context.Context, paymentID string) error
}

// PaymentRepositoryFacade combines all payment repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
