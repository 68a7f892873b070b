package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/komiteku/komite-backend/internal/apperrors"
	"github.com/komiteku/komite-backend/internal/core/domain"
	portsrepo "github.com/komiteku/komite-backend/internal/core/ports/repositories"
	portssvc "github.com/komiteku/komite-backend/internal/core/ports/services"
	"github.com/komiteku/komite-backend/internal/dto"
	"github.com/komiteku/komite-backend/internal/middleware"
)

// csvHeader is the required header of a roster import file.
var csvHeader = []string{"nis", "name", "class", "gender"}

// studentService implements roster operations.
type studentService struct {
	studentRepo portsrepo.StudentRepositoryFacade
}

// NewStudentService creates a new student service.
func NewStudentService(studentRepo portsrepo.StudentRepositoryFacade) portssvc.StudentSvcFacade {
	return &studentService{studentRepo: studentRepo}
}

var _ portssvc.StudentSvcFacade = (*studentService)(nil)

// CreateStudent adds a student to the roster. The target defaults to the
// standing dues amount when omitted.
func (s *studentService) CreateStudent(ctx context.Context, req dto.CreateStudentRequest, creatorUserID string) (*domain.Student, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	target := dto.DefaultTargetAmount
	if req.TargetAmount != nil {
		if *req.TargetAmount < 0 {
			return nil, fmt.Errorf("%w: target amount must not be negative", apperrors.ErrValidation)
		}
		target = *req.TargetAmount
	}

	now := time.Now().UTC()
	student := domain.Student{
		StudentID:    uuid.NewString(),
		NIS:          strings.TrimSpace(req.NIS),
		Name:         strings.TrimSpace(req.Name),
		ClassName:    strings.TrimSpace(req.ClassName),
		Gender:       strings.TrimSpace(req.Gender),
		TargetAmount: target,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if student.NIS == "" || student.Name == "" || student.ClassName == "" {
		return nil, fmt.Errorf("%w: nis, name and class are required", apperrors.ErrValidation)
	}

	if err := s.studentRepo.SaveStudent(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Duplicate NIS on student create", slog.String("nis", student.NIS))
			return nil, fmt.Errorf("%w: NIS %s is already registered", apperrors.ErrDuplicate, student.NIS)
		}
		logger.Error("Failed to save student", slog.String("error", err.Error()), slog.String("nis", student.NIS))
		return nil, fmt.Errorf("failed to save student: %w", err)
	}

	logger.Info("Student created", slog.String("student_id", student.StudentID), slog.String("class", student.ClassName))
	return &student, nil
}

// UpdateStudent changes a student's mutable roster fields. A target change
// here is the administrative target mutation; the ledger never alters it.
func (s *studentService) UpdateStudent(ctx context.Context, studentID string, req dto.UpdateStudentRequest, updaterUserID string) (*domain.Student, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	student, err := s.studentRepo.FindStudentByID(ctx, studentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find student for update", slog.String("error", err.Error()), slog.String("student_id", studentID))
		}
		return nil, err
	}

	updated := false
	if req.Name != nil {
		student.Name = strings.TrimSpace(*req.Name)
		updated = true
	}
	if req.ClassName != nil {
		student.ClassName = strings.TrimSpace(*req.ClassName)
		updated = true
	}
	if req.Gender != nil {
		student.Gender = strings.TrimSpace(*req.Gender)
		updated = true
	}
	if req.TargetAmount != nil {
		if *req.TargetAmount < 0 {
			return nil, fmt.Errorf("%w: target amount must not be negative", apperrors.ErrValidation)
		}
		student.TargetAmount = *req.TargetAmount
		updated = true
	}

	if !updated {
		logger.Debug("No fields provided for student update", slog.String("student_id", studentID))
		return student, nil
	}

	student.LastUpdatedAt = time.Now().UTC()
	student.LastUpdatedBy = updaterUserID

	if err := s.studentRepo.UpdateStudent(ctx, *student); err != nil {
		logger.Error("Failed to save student update", slog.String("error", err.Error()), slog.String("student_id", studentID))
		return nil, fmt.Errorf("failed to save student update: %w", err)
	}

	logger.Info("Student updated", slog.String("student_id", studentID))
	return student, nil
}

// DeleteStudent removes a student from the roster. Refused while payments
// still reference them so the ledger keeps its referential history.
func (s *studentService) DeleteStudent(ctx context.Context, studentID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.studentRepo.FindStudentByID(ctx, studentID); err != nil {
		return err
	}

	count, err := s.studentRepo.CountPaymentsForStudent(ctx, studentID)
	if err != nil {
		logger.Error("Failed to count payments before student delete", slog.String("error", err.Error()), slog.String("student_id", studentID))
		return fmt.Errorf("failed to count payments: %w", err)
	}
	if count > 0 {
		logger.Warn("Refusing to delete student with payment history", slog.String("student_id", studentID), slog.Int("payment_count", count))
		return fmt.Errorf("%w: student has %d payment(s) on record", apperrors.ErrConflict, count)
	}

	if err := s.studentRepo.DeleteStudent(ctx, studentID); err != nil {
		logger.Error("Failed to delete student", slog.String("error", err.Error()), slog.String("student_id", studentID))
		return err
	}

	logger.Info("Student deleted", slog.String("student_id", studentID))
	return nil
}

// ImportStudentsCSV bulk-creates students from a CSV stream with header
// nis,name,class,gender. The whole file imports in one transaction; a single
// bad row rejects the import.
func (s *studentService) ImportStudentsCSV(ctx context.Context, r io.Reader, creatorUserID string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read CSV header: %v", apperrors.ErrValidation, err)
	}
	if len(header) != len(csvHeader) {
		return 0, fmt.Errorf("%w: CSV header must be %s", apperrors.ErrValidation, strings.Join(csvHeader, ","))
	}
	for i, col := range header {
		if strings.ToLower(strings.TrimSpace(col)) != csvHeader[i] {
			return 0, fmt.Errorf("%w: CSV header must be %s", apperrors.ErrValidation, strings.Join(csvHeader, ","))
		}
	}

	now := time.Now().UTC()
	seenNIS := make(map[string]int)
	var students []domain.Student

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%w: malformed CSV at line %d: %v", apperrors.ErrValidation, line, err)
		}

		nis := strings.TrimSpace(record[0])
		name := strings.TrimSpace(record[1])
		class := strings.TrimSpace(record[2])
		gender := strings.TrimSpace(record[3])
		if nis == "" || name == "" || class == "" {
			return 0, fmt.Errorf("%w: line %d: nis, name and class are required", apperrors.ErrValidation, line)
		}
		if prev, dup := seenNIS[nis]; dup {
			return 0, fmt.Errorf("%w: line %d: NIS %s duplicates line %d", apperrors.ErrValidation, line, nis, prev)
		}
		seenNIS[nis] = line

		students = append(students, domain.Student{
			StudentID:    uuid.NewString(),
			NIS:          nis,
			Name:         name,
			ClassName:    class,
			Gender:       gender,
			TargetAmount: dto.DefaultTargetAmount,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		})
	}

	if len(students) == 0 {
		return 0, fmt.Errorf("%w: CSV contains no student rows", apperrors.ErrValidation)
	}

	if err := s.studentRepo.SaveStudents(ctx, students); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("CSV import rejected on duplicate NIS", slog.Int("rows", len(students)))
			return 0, fmt.Errorf("%w: one or more NIS values are already registered", apperrors.ErrDuplicate)
		}
		logger.Error("Failed to import students", slog.String("error", err.Error()), slog.Int("rows", len(students)))
		return 0, fmt.Errorf("failed to import students: %w", err)
	}

	logger.Info("Students imported from CSV", slog.Int("count", len(students)))
	return len(students), nil
}

// GetStudentByID retrieves a single student.
func (s *studentService) GetStudentByID(ctx context.Context, studentID string) (*domain.Student, error) {
	student, err := s.studentRepo.FindStudentByID(ctx, studentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find student", slog.String("error", err.Error()), slog.String("student_id", studentID))
		}
		return nil, err
	}
	return student, nil
}

// ListStudents retrieves students, optionally filtered by class names.
func (s *studentService) ListStudents(ctx context.Context, classNames []string) ([]domain.Student, error) {
	students, err := s.studentRepo.ListStudents(ctx, classNames)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list students", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// ListClassNames retrieves the distinct class names on the roster.
func (s *studentService) ListClassNames(ctx context.Context) ([]string, error) {
	classes, err := s.studentRepo.ListClassNames(ctx)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list class names", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list class names: %w", err)
	}
	return classes, nil
}
