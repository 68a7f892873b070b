package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/komiteku/komite-backend/internal/apperrors"
	"github.com/komiteku/komite-backend/internal/core/domain"
	portsrepo "github.com/komiteku/komite-backend/internal/core/ports/repositories"
	portssvc "github.com/komiteku/komite-backend/internal/core/ports/services"
	"github.com/komiteku/komite-backend/internal/core/services"
	"github.com/komiteku/komite-backend/internal/dto"
)

// --- Mock StudentRepository ---

type MockStudentRepository struct {
	mock.Mock
}

var _ portsrepo.StudentRepositoryFacade = (*MockStudentRepository)(nil)

func (m *MockStudentRepository) FindStudentByID(ctx context.Context, studentID string) (*domain.Student, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) FindStudentByNIS(ctx context.Context, nis string) (*domain.Student, error) {
	args := m.Called(ctx, nis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) ListStudents(ctx context.Context, classNames []string) ([]domain.Student, error) {
	args := m.Called(ctx, classNames)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Student), args.Error(1)
}

func (m *MockStudentRepository) ListClassNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStudentRepository) CountPaymentsForStudent(ctx context.Context, studentID string) (int, error) {
	args := m.Called(ctx, studentID)
	return args.Int(0), args.Error(1)
}

func (m *MockStudentRepository) SaveStudent(ctx context.Context, student domain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) SaveStudents(ctx context.Context, students []domain.Student) error {
	args := m.Called(ctx, students)
	return args.Error(0)
}

func (m *MockStudentRepository) UpdateStudent(ctx context.Context, student domain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) DeleteStudent(ctx context.Context, studentID string) error {
	args := m.Called(ctx, studentID)
	return args.Error(0)
}

// --- Suite ---

type StudentServiceTestSuite struct {
	suite.Suite
	mockRepo *MockStudentRepository
	service  portssvc.StudentSvcFacade
	adminID  string
}

func (s *StudentServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockStudentRepository)
	s.service = services.NewStudentService(s.mockRepo)
	s.adminID = "admin-1"
}

func (s *StudentServiceTestSuite) TestCreateStudent_DefaultsTarget() {
	s.mockRepo.On("SaveStudent", mock.Anything, mock.MatchedBy(func(st domain.Student) bool {
		return st.TargetAmount == dto.DefaultTargetAmount && st.NIS == "2024001"
	})).Return(nil).Once()

	student, err := s.service.CreateStudent(context.Background(), dto.CreateStudentRequest{
		NIS:       "2024001",
		Name:      "Budi",
		ClassName: "7A",
	}, s.adminID)

	s.Require().NoError(err)
	s.Equal(dto.DefaultTargetAmount, student.TargetAmount)
	s.Equal(s.adminID, student.CreatedBy)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *StudentServiceTestSuite) TestCreateStudent_ZeroTargetAllowed() {
	s.mockRepo.On("SaveStudent", mock.Anything, mock.MatchedBy(func(st domain.Student) bool {
		return st.TargetAmount == 0
	})).Return(nil).Once()

	zero := int64(0)
	student, err := s.service.CreateStudent(context.Background(), dto.CreateStudentRequest{
		NIS:          "2024002",
		Name:         "Siti",
		ClassName:    "7B",
		TargetAmount: &zero,
	}, s.adminID)

	s.Require().NoError(err)
	s.Equal(int64(0), student.TargetAmount)
}

func (s *StudentServiceTestSuite) TestCreateStudent_DuplicateNIS() {
	s.mockRepo.On("SaveStudent", mock.Anything, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := s.service.CreateStudent(context.Background(), dto.CreateStudentRequest{
		NIS:       "2024001",
		Name:      "Budi",
		ClassName: "7A",
	}, s.adminID)

	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *StudentServiceTestSuite) TestDeleteStudent_RefusedWithHistory() {
	student := &domain.Student{StudentID: "st-1"}
	s.mockRepo.On("FindStudentByID", mock.Anything, "st-1").Return(student, nil).Once()
	s.mockRepo.On("CountPaymentsForStudent", mock.Anything, "st-1").Return(3, nil).Once()

	err := s.service.DeleteStudent(context.Background(), "st-1")

	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockRepo.AssertNotCalled(s.T(), "DeleteStudent", mock.Anything, mock.Anything)
}

func (s *StudentServiceTestSuite) TestDeleteStudent_CleanRoster() {
	student := &domain.Student{StudentID: "st-1"}
	s.mockRepo.On("FindStudentByID", mock.Anything, "st-1").Return(student, nil).Once()
	s.mockRepo.On("CountPaymentsForStudent", mock.Anything, "st-1").Return(0, nil).Once()
	s.mockRepo.On("DeleteStudent", mock.Anything, "st-1").Return(nil).Once()

	s.Require().NoError(s.service.DeleteStudent(context.Background(), "st-1"))
	s.mockRepo.AssertExpectations(s.T())
}

func (s *StudentServiceTestSuite) TestUpdateStudent_TargetChange() {
	existing := &domain.Student{StudentID: "st-1", Name: "Budi", ClassName: "7A", TargetAmount: 400000}
	s.mockRepo.On("FindStudentByID", mock.Anything, "st-1").Return(existing, nil).Once()
	s.mockRepo.On("UpdateStudent", mock.Anything, mock.MatchedBy(func(st domain.Student) bool {
		return st.TargetAmount == 500000 && st.Name == "Budi"
	})).Return(nil).Once()

	target := int64(500000)
	updated, err := s.service.UpdateStudent(context.Background(), "st-1", dto.UpdateStudentRequest{TargetAmount: &target}, s.adminID)

	s.Require().NoError(err)
	s.Equal(int64(500000), updated.TargetAmount)
	s.Equal(s.adminID, updated.LastUpdatedBy)
}

func (s *StudentServiceTestSuite) TestImportStudentsCSV_Success() {
	csvData := strings.Join([]string{
		"nis,name,class,gender",
		"2024001,Budi Santoso,7A,L",
		"2024002,Siti Aminah,7B,P",
	}, "\n")

	s.mockRepo.On("SaveStudents", mock.Anything, mock.MatchedBy(func(students []domain.Student) bool {
		return len(students) == 2 &&
			students[0].NIS == "2024001" &&
			students[1].ClassName == "7B" &&
			students[0].TargetAmount == dto.DefaultTargetAmount
	})).Return(nil).Once()

	imported, err := s.service.ImportStudentsCSV(context.Background(), strings.NewReader(csvData), s.adminID)

	s.Require().NoError(err)
	s.Equal(2, imported)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *StudentServiceTestSuite) TestImportStudentsCSV_BadHeader() {
	csvData := "nis,nama,kelas,gender\n2024001,Budi,7A,L"

	_, err := s.service.ImportStudentsCSV(context.Background(), strings.NewReader(csvData), s.adminID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRepo.AssertNotCalled(s.T(), "SaveStudents", mock.Anything, mock.Anything)
}

func (s *StudentServiceTestSuite) TestImportStudentsCSV_DuplicateNISInFile() {
	csvData := strings.Join([]string{
		"nis,name,class,gender",
		"2024001,Budi,7A,L",
		"2024001,Siti,7B,P",
	}, "\n")

	_, err := s.service.ImportStudentsCSV(context.Background(), strings.NewReader(csvData), s.adminID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *StudentServiceTestSuite) TestImportStudentsCSV_EmptyFile() {
	_, err := s.service.ImportStudentsCSV(context.Background(), strings.NewReader("nis,name,class,gender\n"), s.adminID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func TestStudentService(t *testing.T) {
	suite.Run(t, new(StudentServiceTestSuite))
}
