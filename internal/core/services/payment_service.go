package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/komiteku/komite-backend/internal/apperrors"
	"github.com/komiteku/komite-backend/internal/core/domain"
	portsrepo "github.com/komiteku/komite-backend/internal/core/ports/repositories"
	portssvc "github.com/komiteku/komite-backend/internal/core/ports/services"
	"github.com/komiteku/komite-backend/internal/dto"
	"github.com/komiteku/komite-backend/internal/middleware"
)

// paymentService implements the ledger mutation protocol on top of the
// payment and student repositories.
type paymentService struct {
	paymentRepo portsrepo.PaymentRepositoryFacade
	studentRepo portsrepo.StudentRepositoryFacade
}

// NewPaymentService creates a new payment service.
func NewPaymentService(paymentRepo portsrepo.PaymentRepositoryFacade, studentRepo portsrepo.StudentRepositoryFacade) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo: paymentRepo,
		studentRepo: studentRepo,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// checkBalance computes the committed balance for a student, optionally
// excluding one payment, and fails with a BalanceExceededError when amount
// does not fit in what remains. This is the service-level pre-check; the
// repository re-validates the same rule atomically at commit time.
func (s *paymentService) checkBalance(ctx context.Context, student *domain.Student, amount int64, excludePaymentID string) error {
	payments, err := s.paymentRepo.FindPaymentsByStudentID(ctx, student.StudentID)
	if err != nil {
		return fmt.Errorf("failed to load payments for balance check: %w", err)
	}

	balance := domain.ComputeBalance(student.TargetAmount, payments, excludePaymentID)
	if amount > balance.Remaining {
		return apperrors.NewBalanceExceededError(balance.Remaining)
	}
	return nil
}

// RecordPayment validates and commits a new payment for a student.
func (s *paymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, collectorUserID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	student, err := s.studentRepo.FindStudentByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: student %s not found", apperrors.ErrValidation, req.StudentID)
		}
		logger.Error("Failed to fetch student for payment", slog.String("error", err.Error()), slog.String("student_id", req.StudentID))
		return nil, fmt.Errorf("failed to fetch student: %w", err)
	}

	// A zero target admits no payment at all.
	if err := s.checkBalance(ctx, student, req.Amount, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}
	method := req.Method
	if method == "" {
		method = domain.DefaultPaymentMethod
	}

	payment := domain.Payment{
		PaymentID:   uuid.NewString(),
		StudentID:   student.StudentID,
		Amount:      req.Amount,
		CollectedBy: collectorUserID,
		Method:      method,
		Note:        req.Note,
		PaidAt:      paidAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     collectorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: collectorUserID,
		},
	}

	// The repository re-checks paid + amount <= target under a row lock, so
	// a concurrent writer that got in after our pre-check still cannot push
	// the student over target.
	if err := s.paymentRepo.CreatePayment(ctx, payment); err != nil {
		var exceeded *apperrors.BalanceExceededError
		if errors.As(err, &exceeded) {
			logger.Warn("Payment rejected at commit", slog.String("student_id", student.StudentID), slog.Int64("remaining", exceeded.Remaining))
			return nil, err
		}
		logger.Error("Failed to save payment", slog.String("error", err.Error()), slog.String("student_id", student.StudentID))
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	logger.Info("Payment recorded", slog.String("payment_id", payment.PaymentID), slog.String("student_id", student.StudentID), slog.Int64("amount", payment.Amount))
	return &payment, nil
}

// EditPayment updates a payment's amount, paidAt and/or note. The edited
// record is excluded from the committed sum when re-validating an amount
// change, so lowering an amount or re-submitting the same amount always
// succeeds.
func (s *paymentService) EditPayment(ctx context.Context, paymentID string, req dto.EditPaymentRequest, updaterUserID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find payment for edit", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		}
		return nil, err
	}

	updated := false
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
		}
		payment.Amount = *req.Amount
		updated = true
	}
	if req.Note != nil {
		payment.Note = *req.Note
		updated = true
	}
	if req.PaidAt != nil {
		payment.PaidAt = req.PaidAt.UTC()
		updated = true
	}

	if !updated {
		logger.Debug("No fields provided for payment edit", slog.String("payment_id", paymentID))
		return payment, nil
	}

	student, err := s.studentRepo.FindStudentByID(ctx, payment.StudentID)
	if err != nil {
		logger.Error("Failed to fetch student for payment edit", slog.String("error", err.Error()), slog.String("student_id", payment.StudentID))
		return nil, fmt.Errorf("failed to fetch student: %w", err)
	}

	if err := s.checkBalance(ctx, student, payment.Amount, payment.PaymentID); err != nil {
		return nil, err
	}

	payment.LastUpdatedAt = time.Now().UTC()
	payment.LastUpdatedBy = updaterUserID

	if err := s.paymentRepo.UpdatePayment(ctx, *payment); err != nil {
		var exceeded *apperrors.BalanceExceededError
		if errors.As(err, &exceeded) {
			logger.Warn("Payment edit rejected at commit", slog.String("payment_id", paymentID), slog.Int64("remaining", exceeded.Remaining))
			return nil, err
		}
		logger.Error("Failed to save payment edit", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, fmt.Errorf("failed to save payment edit: %w", err)
	}

	logger.Info("Payment edited", slog.String("payment_id", paymentID))
	return payment, nil
}

// DeletePayment removes a payment. No balance check: removal can only lower
// a student's total. Role enforcement happens at the route level.
func (s *paymentService) DeletePayment(ctx context.Context, paymentID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.paymentRepo.DeletePayment(ctx, paymentID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to delete payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		}
		return err
	}

	logger.Info("Payment deleted", slog.String("payment_id", paymentID))
	return nil
}

// GetStudentBalance computes the derived balance view for one student.
func (s *paymentService) GetStudentBalance(ctx context.Context, studentID string) (*domain.StudentBalance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	student, err := s.studentRepo.FindStudentByID(ctx, studentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find student for balance", slog.String("error", err.Error()), slog.String("student_id", studentID))
		}
		return nil, err
	}

	payments, err := s.paymentRepo.FindPaymentsByStudentID(ctx, studentID)
	if err != nil {
		logger.Error("Failed to load payments for balance", slog.String("error", err.Error()), slog.String("student_id", studentID))
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	balance := domain.ComputeBalance(student.TargetAmount, payments, "")
	return &balance, nil
}

// ListPayments retrieves the payment history, newest paidAt first.
func (s *paymentService) ListPayments(ctx context.Context) ([]domain.PaymentDetail, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	details, err := s.paymentRepo.ListPayments(ctx)
	if err != nil {
		logger.Error("Failed to list payments", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return details, nil
}
