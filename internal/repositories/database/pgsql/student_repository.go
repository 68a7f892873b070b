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

type PgxStudentRepository struct {
	BaseRepository
}

// newPgxStudentRepository creates a new repository for roster data.
func newPgxStudentRepository(pool *pgxpool.Pool) portsrepo.StudentRepositoryFacade {
	return &PgxStudentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.StudentRepositoryFacade = (*PgxStudentRepository)(nil)

const studentColumns = `student_id, nis, name, class_name, gender, target_amount, created_at, created_by, last_updated_at, last_updated_by`

const insertStudentQuery = `
	INSERT INTO students (student_id, nis, name, class_name, gender, target_amount, created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`

func scanStudent(row pgx.Row) (*models.Student, error) {
	var m models.Student
	err := row.Scan(
		&m.StudentID,
		&m.NIS,
		&m.Name,
		&m.ClassName,
		&m.Gender,
		&m.TargetAmount,
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

func studentInsertArgs(m models.Student) []any {
	return []any{
		m.StudentID,
		m.NIS,
		m.Name,
		m.ClassName,
		m.Gender,
		m.TargetAmount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

// SaveStudent inserts a new student.
func (r *PgxStudentRepository) SaveStudent(ctx context.Context, student domain.Student) error {
	modelStudent := mapping.ToModelStudent(student)
	_, err := r.Pool.Exec(ctx, insertStudentQuery, studentInsertArgs(modelStudent)...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save student %s: %w", modelStudent.StudentID, err)
	}
	return nil
}

// SaveStudents inserts a batch of students in one transaction. Any failure
// rolls back the whole batch.
func (r *PgxStudentRepository) SaveStudents(ctx context.Context, students []domain.Student) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	for _, student := range students {
		batch.Queue(insertStudentQuery, studentInsertArgs(mapping.ToModelStudent(student))...)
	}

	results := tx.SendBatch(ctx, batch)
	for range students {
		if _, err := results.Exec(); err != nil {
			results.Close()
			if isUniqueViolation(err) {
				return apperrors.ErrDuplicate
			}
			return fmt.Errorf("failed to save student batch: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close student batch: %w", err)
	}

	return r.Commit(ctx, tx)
}

// UpdateStudent updates a student's mutable fields, including the target.
func (r *PgxStudentRepository) UpdateStudent(ctx context.Context, student domain.Student) error {
	modelStudent := mapping.ToModelStudent(student)
	query := `
		UPDATE students
		SET name = $2, class_name = $3, gender = $4, target_amount = $5, last_updated_at = $6, last_updated_by = $7
		WHERE student_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		modelStudent.StudentID,
		modelStudent.Name,
		modelStudent.ClassName,
		modelStudent.Gender,
		modelStudent.TargetAmount,
		modelStudent.LastUpdatedAt,
		modelStudent.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update student %s: %w", modelStudent.StudentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteStudent removes a student from the roster.
func (r *PgxStudentRepository) DeleteStudent(ctx context.Context, studentID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM students WHERE student_id = $1;`, studentID)
	if err != nil {
		return fmt.Errorf("failed to delete student %s: %w", studentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindStudentByID retrieves a student by internal identifier.
func (r *PgxStudentRepository) FindStudentByID(ctx context.Context, studentID string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE student_id = $1;`
	m, err := scanStudent(r.Pool.QueryRow(ctx, query, studentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find student by ID %s: %w", studentID, err)
	}

	student := mapping.ToDomainStudent(*m)
	return &student, nil
}

// FindStudentByNIS retrieves a student by enrollment code.
func (r *PgxStudentRepository) FindStudentByNIS(ctx context.Context, nis string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE nis = $1;`
	m, err := scanStudent(r.Pool.QueryRow(ctx, query, nis))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find student by NIS %s: %w", nis, err)
	}

	student := mapping.ToDomainStudent(*m)
	return &student, nil
}

// ListStudents retrieves students, optionally filtered to a set of classes,
// ordered by class then name.
func (r *PgxStudentRepository) ListStudents(ctx context.Context, classNames []string) ([]domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students`
	args := []any{}
	if len(classNames) > 0 {
		query += ` WHERE class_name = ANY($1)`
		args = append(args, classNames)
	}
	query += ` ORDER BY class_name, name;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	modelStudents := []models.Student{}
	for rows.Next() {
		m, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}
		modelStudents = append(modelStudents, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read student rows: %w", err)
	}

	return mapping.ToDomainStudentSlice(modelStudents), nil
}

// ListClassNames retrieves the distinct class names on the roster.
func (r *PgxStudentRepository) ListClassNames(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT DISTINCT class_name FROM students ORDER BY class_name;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query class names: %w", err)
	}
	defer rows.Close()

	classes := []string{}
	for rows.Next() {
		var class string
		if err := rows.Scan(&class); err != nil {
			return nil, fmt.Errorf("failed to scan class name: %w", err)
		}
		classes = append(classes, class)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read class name rows: %w", err)
	}

	return classes, nil
}

// CountPaymentsForStudent reports how many payments reference a student.
func (r *PgxStudentRepository) CountPaymentsForStudent(ctx context.Context, studentID string) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE student_id = $1;`, studentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count payments for student %s: %w", studentID, err)
	}
	return count, nil
}
