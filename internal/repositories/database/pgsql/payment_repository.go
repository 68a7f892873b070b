package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/komiteku/komite-backend/internal/apperrors"
	"github.com/komiteku/komite-backend/internal/core/domain"
	portsrepo "github.com/komiteku/komite-backend/internal/core/ports/repositories"
	"github.com/komiteku/komite-backend/internal/models"
	"github.com/komiteku/komite-backend/internal/utils/mapping"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

// lockStudentTarget locks the student row and returns its target. The row
// lock serializes every writer touching the same student's ledger until the
// surrounding transaction ends.
func lockStudentTarget(ctx context.Context, tx pgx.Tx, studentID string) (int64, error) {
	var target int64
	err := tx.QueryRow(ctx,
		`SELECT target_amount FROM students WHERE student_id = $1 FOR UPDATE;`,
		studentID,
	).Scan(&target)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrNotFound
		}
		return 0, fmt.Errorf("failed to lock student %s: %w", studentID, err)
	}
	return target, nil
}

// committedSum returns the sum of the student's payments, excluding one
// payment ID when non-empty. Must run after lockStudentTarget so the sum
// cannot move underneath us.
func committedSum(ctx context.Context, tx pgx.Tx, studentID, excludePaymentID string) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE student_id = $1;`
	args := []any{studentID}
	if excludePaymentID != "" {
		query = `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE student_id = $1 AND payment_id <> $2;`
		args = append(args, excludePaymentID)
	}

	var sum int64
	if err := tx.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum payments for student %s: %w", studentID, err)
	}
	return sum, nil
}

// CreatePayment inserts a new payment after re-validating the paid <= target
// invariant under the student row lock.
func (r *PgxPaymentRepository) CreatePayment(ctx context.Context, payment domain.Payment) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	target, err := lockStudentTarget(ctx, tx, payment.StudentID)
	if err != nil {
		return err
	}

	sum, err := committedSum(ctx, tx, payment.StudentID, "")
	if err != nil {
		return err
	}
	if sum+payment.Amount > target {
		return apperrors.NewBalanceExceededError(domain.Remaining(target, sum))
	}

	modelPayment := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (payment_id, student_id, amount, collected_by, method, note, paid_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, query,
		modelPayment.PaymentID,
		modelPayment.StudentID,
		modelPayment.Amount,
		modelPayment.CollectedBy,
		modelPayment.Method,
		modelPayment.Note,
		modelPayment.PaidAt,
		modelPayment.CreatedAt,
		modelPayment.CreatedBy,
		modelPayment.LastUpdatedAt,
		modelPayment.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment %s: %w", modelPayment.PaymentID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdatePayment writes a payment's mutable fields after re-validating the
// invariant with the stored record excluded from the sum.
func (r *PgxPaymentRepository) UpdatePayment(ctx context.Context, payment domain.Payment) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var studentID string
	err = tx.QueryRow(ctx,
		`SELECT student_id FROM payments WHERE payment_id = $1;`,
		payment.PaymentID,
	).Scan(&studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to find payment %s: %w", payment.PaymentID, err)
	}

	target, err := lockStudentTarget(ctx, tx, studentID)
	if err != nil {
		return err
	}

	sum, err := committedSum(ctx, tx, studentID, payment.PaymentID)
	if err != nil {
		return err
	}
	if sum+payment.Amount > target {
		return apperrors.NewBalanceExceededError(domain.Remaining(target, sum))
	}

	query := `
		UPDATE payments
		SET amount = $2, note = $3, paid_at = $4, last_updated_at = $5, last_updated_by = $6
		WHERE payment_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		payment.PaymentID,
		payment.Amount,
		payment.Note,
		payment.PaidAt,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment %s: %w", payment.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// DeletePayment removes a payment. No balance check: deletion only lowers
// the student's total.
func (r *PgxPaymentRepository) DeletePayment(ctx context.Context, paymentID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM payments WHERE payment_id = $1;`, paymentID)
	if err != nil {
		return fmt.Errorf("failed to delete payment %s: %w", paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const paymentColumns = `payment_id, student_id, amount, collected_by, method, note, paid_at, created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.StudentID,
		&m.Amount,
		&m.CollectedBy,
		&m.Method,
		&m.Note,
		&m.PaidAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindPaymentByID retrieves a single payment.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	m, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by ID %s: %w", paymentID, err)
	}

	payment := mapping.ToDomainPayment(*m)
	return &payment, nil
}

// FindPaymentsByStudentID retrieves all payments for one student, newest
// paid_at first.
func (r *PgxPaymentRepository) FindPaymentsByStudentID(ctx context.Context, studentID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE student_id = $1 ORDER BY paid_at DESC;`
	rows, err := r.Pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for student %s: %w", studentID, err)
	}
	defer rows.Close()

	modelPayments := []models.Payment{}
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		modelPayments = append(modelPayments, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payment rows: %w", err)
	}

	return mapping.ToDomainPaymentSlice(modelPayments), nil
}

// ListPayments retrieves the payment history joined with student and
// collector identity, newest paid_at first.
func (r *PgxPaymentRepository) ListPayments(ctx context.Context) ([]domain.PaymentDetail, error) {
	query := `
		SELECT p.payment_id, p.student_id, p.amount, p.collected_by, p.method, p.note, p.paid_at,
		       p.created_at, p.created_by, p.last_updated_at, p.last_updated_by,
		       s.name, s.nis, COALESCE(u.username, '')
		FROM payments p
		JOIN students s ON s.student_id = p.student_id
		LEFT JOIN users u ON u.user_id = p.collected_by
		ORDER BY p.paid_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment history: %w", err)
	}
	defer rows.Close()

	details := []domain.PaymentDetail{}
	for rows.Next() {
		var m models.Payment
		var detail domain.PaymentDetail
		err := rows.Scan(
			&m.PaymentID,
			&m.StudentID,
			&m.Amount,
			&m.CollectedBy,
			&m.Method,
			&m.Note,
			&m.PaidAt,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&detail.StudentName,
			&detail.StudentNIS,
			&detail.CollectorUsername,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment history row: %w", err)
		}
		detail.Payment = mapping.ToDomainPayment(m)
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payment history rows: %w", err)
	}

	return details, nil
}
