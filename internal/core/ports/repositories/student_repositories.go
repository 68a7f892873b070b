package repositories

import (
	"context"

	"github.com/komiteku/komite-backend/internal/core/domain"
)

// StudentReader defines read operations for roster data.
type StudentReader interface {
	// FindStudentByID retrieves a student by internal identifier.
	FindStudentByID(ctx context.Context, studentID string) (*domain.Student, error)

	// FindStudentByNIS retrieves a student by enrollment code.
	FindStudentByNIS(ctx context.Context, nis string) (*domain.Student, error)

	// ListStudents retrieves students, optionally filtered to a set of class
	// names (nil or empty means all classes).
	ListStudents(ctx context.Context, classNames []string) ([]domain.Student, error)

	// ListClassNames retrieves the distinct class names on the roster.
	ListClassNames(ctx context.Context) ([]string, error)

	// CountPaymentsForStudent reports how many payments reference a student.
	// The roster uses it to refuse deleting students with ledger history.
	CountPaymentsForStudent(ctx context.Context, studentID string) (int, error)
}

// StudentWriter defines write operations for roster data.
type StudentWriter interface {
	// SaveStudent inserts a new student. Returns apperrors.ErrDuplicate when
	// the NIS is already taken.
	SaveStudent(ctx context.Context, student domain.Student) error

	// SaveStudents inserts a batch of students (CSV import) in one transaction.
	SaveStudents(ctx context.Context, students []domain.Student) error

	// UpdateStudent updates a student's mutable fields, including the target
	// (an administrative operation outside the ledger core).
	UpdateStudent(ctx context.Context, student domain.Student) error

	// DeleteStudent removes a student from the roster.
	DeleteStudent(ctx context.Context, studentID string) error
}

// StudentRepositoryFacade combines all roster repository interfaces.
type StudentRepositoryFacade interface {
	StudentReader
	StudentWriter
}
