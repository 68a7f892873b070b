package services

import (
	"context"
	"io"

	"github.com/komiteku/komite-backend/internal/core/domain"
	"github.com/komiteku/komite-backend/internal/dto"
)

// StudentReaderSvc defines read operations over the roster.
type StudentReaderSvc interface {
	GetStudentByID(ctx context.Context, studentID string) (*domain.Student, error)
	ListStudents(ctx context.Context, classNames []string) ([]domain.Student, error)
	ListClassNames(ctx context.Context) ([]string, error)
}

// StudentWriterSvc defines roster mutations. These are administrative
// operations; the ledger reads students but never writes them.
type StudentWriterSvc interface {
	CreateStudent(ctx context.Context, req dto.CreateStudentRequest, creatorUserID string) (*domain.Student, error)
	UpdateStudent(ctx context.Context, studentID string, req dto.UpdateStudentRequest, updaterUserID string) (*domain.Student, error)

	// DeleteStudent removes a student; refused with apperrors.ErrConflict
	// while payment records still reference them.
	DeleteStudent(ctx context.Context, studentID string) error

	// ImportStudentsCSV bulk-creates students from a CSV stream with header
	// nis,name,class,gender. Returns the number of rows imported.
	ImportStudentsCSV(ctx context.Context, r io.Reader, creatorUserID string) (int, error)
}

// StudentSvcFacade combines the roster service interfaces.
type StudentSvcFacade interface {
	StudentReaderSvc
	StudentWriterSvc
}
