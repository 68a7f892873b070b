package services_test

import (
	"context"
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

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetStudentCollections(ctx context.Context, classNames []string, keyword string) ([]domain.StudentCollection, error) {
	args := m.Called(ctx, classNames, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StudentCollection), args.Error(1)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Suite ---

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	mockUserRepo      *MockUserRepository
	service           portssvc.ReportingSvc

	admin *domain.User
	rep   *domain.User
}

func (s *ReportingServiceTestSuite) SetupTest() {
	s.mockReportingRepo = new(MockReportingRepository)
	s.mockUserRepo = new(MockUserRepository)
	s.service = services.NewReportingService(s.mockReportingRepo, s.mockUserRepo)

	s.admin = &domain.User{UserID: "admin-1", Role: domain.RoleAdmin}
	s.rep = &domain.User{UserID: "rep-1", Role: domain.RoleRepresentative, ClassAssigned: []string{"7A"}}
}

func collections() []domain.StudentCollection {
	return []domain.StudentCollection{
		{Student: domain.Student{StudentID: "st-1", NIS: "001", Name: "Budi", ClassName: "7A", TargetAmount: 400000}, PaidAmount: 400000},
		{Student: domain.Student{StudentID: "st-2", NIS: "002", Name: "Siti", ClassName: "7A", TargetAmount: 400000}, PaidAmount: 100000},
		{Student: domain.Student{StudentID: "st-3", NIS: "003", Name: "Andi", ClassName: "7B", TargetAmount: 400000}, PaidAmount: 0},
	}
}

func (s *ReportingServiceTestSuite) TestClassRecap_AdminSeesAllSortedByRemaining() {
	s.mockUserRepo.On("FindUserByID", mock.Anything, "admin-1").Return(s.admin, nil).Once()
	s.mockReportingRepo.On("GetStudentCollections", mock.Anything, []string(nil), "").Return(collections(), nil).Once()

	recap, err := s.service.ClassRecap(context.Background(), "admin-1", dto.RecapParams{})

	s.Require().NoError(err)
	s.Require().Len(recap.Rows, 3)
	// Remaining descending: Andi 400000, Siti 300000, Budi 0.
	s.Equal("Andi", recap.Rows[0].Name)
	s.Equal("Siti", recap.Rows[1].Name)
	s.Equal("Budi", recap.Rows[2].Name)
	s.Equal(domain.StatusUnpaid, recap.Rows[0].Status)
	s.Equal(domain.StatusPartial, recap.Rows[1].Status)
	s.Equal(domain.StatusPaid, recap.Rows[2].Status)
	s.Equal(int64(1200000), recap.TotalTarget)
	s.Equal(int64(500000), recap.TotalPaid)
	s.Equal(int64(700000), recap.TotalRemaining)
}

func (s *ReportingServiceTestSuite) TestClassRecap_RepresentativeScopedToAssignedClasses() {
	s.mockUserRepo.On("FindUserByID", mock.Anything, "rep-1").Return(s.rep, nil).Once()
	s.mockReportingRepo.On("GetStudentCollections", mock.Anything, []string{"7A"}, "").
		Return(collections()[:2], nil).Once()

	recap, err := s.service.ClassRecap(context.Background(), "rep-1", dto.RecapParams{})

	s.Require().NoError(err)
	s.Len(recap.Rows, 2)
	s.mockReportingRepo.AssertExpectations(s.T())
}

func (s *ReportingServiceTestSuite) TestClassRecap_RepresentativeForbiddenOutsideAssignment() {
	s.mockUserRepo.On("FindUserByID", mock.Anything, "rep-1").Return(s.rep, nil).Once()

	_, err := s.service.ClassRecap(context.Background(), "rep-1", dto.RecapParams{ClassName: "8B"})

	s.ErrorIs(err, apperrors.ErrForbidden)
	s.mockReportingRepo.AssertNotCalled(s.T(), "GetStudentCollections", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReportingServiceTestSuite) TestClassRecap_StatusFilter() {
	s.mockUserRepo.On("FindUserByID", mock.Anything, "admin-1").Return(s.admin, nil).Once()
	s.mockReportingRepo.On("GetStudentCollections", mock.Anything, []string(nil), "").Return(collections(), nil).Once()

	recap, err := s.service.ClassRecap(context.Background(), "admin-1", dto.RecapParams{Status: "PARTIAL"})

	s.Require().NoError(err)
	s.Require().Len(recap.Rows, 1)
	s.Equal("Siti", recap.Rows[0].Name)
	// Totals cover the filtered rows only.
	s.Equal(int64(400000), recap.TotalTarget)
	s.Equal(int64(100000), recap.TotalPaid)
}

func (s *ReportingServiceTestSuite) TestClassRecap_RepresentativeWithoutClassesSeesNothing() {
	lonely := &domain.User{UserID: "rep-2", Role: domain.RoleRepresentative}
	s.mockUserRepo.On("FindUserByID", mock.Anything, "rep-2").Return(lonely, nil).Once()

	recap, err := s.service.ClassRecap(context.Background(), "rep-2", dto.RecapParams{})

	s.Require().NoError(err)
	s.Empty(recap.Rows)
	s.mockReportingRepo.AssertNotCalled(s.T(), "GetStudentCollections", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReportingServiceTestSuite) TestClassSummaries_GroupsAndCounts() {
	s.mockUserRepo.On("FindUserByID", mock.Anything, "admin-1").Return(s.admin, nil).Once()
	s.mockReportingRepo.On("GetStudentCollections", mock.Anything, []string(nil), "").Return(collections(), nil).Once()

	summaries, err := s.service.ClassSummaries(context.Background(), "admin-1")

	s.Require().NoError(err)
	s.Require().Len(summaries, 2)
	s.Equal("7A", summaries[0].ClassName)
	s.Equal(2, summaries[0].StudentCount)
	s.Equal(1, summaries[0].PaidStudents)
	s.Equal(1, summaries[0].PartialPaidStudents)
	s.Equal("7B", summaries[1].ClassName)
	s.Equal(1, summaries[1].UnpaidStudents)
}

func (s *ReportingServiceTestSuite) TestGlobalStatistics() {
	s.mockReportingRepo.On("GetStudentCollections", mock.Anything, []string(nil), "").Return(collections(), nil).Once()

	stats, err := s.service.GlobalStatistics(context.Background())

	s.Require().NoError(err)
	s.Equal(3, stats.StudentCount)
	s.Equal(2, stats.ClassCount)
	s.Equal(int64(1200000), stats.TotalTarget)
	s.Equal(int64(500000), stats.TotalPaid)
	s.Equal(int64(700000), stats.TotalRemaining)
	s.Equal(1, stats.PaidStudents)
	s.Equal(1, stats.PartialPaidStudents)
	s.Equal(1, stats.UnpaidStudents)
	// round2(500000/1200000*100) = 41.67
	s.Equal("41.67", stats.CollectionPercentage.String())
}

func (s *ReportingServiceTestSuite) TestGlobalStatistics_EmptyRoster() {
	s.mockReportingRepo.On("GetStudentCollections", mock.Anything, []string(nil), "").
		Return([]domain.StudentCollection{}, nil).Once()

	stats, err := s.service.GlobalStatistics(context.Background())

	s.Require().NoError(err)
	s.Equal(0, stats.StudentCount)
	s.True(stats.CollectionPercentage.IsZero())
}

func (s *ReportingServiceTestSuite) TestExportRecap_WritesRows() {
	s.mockUserRepo.On("FindUserByID", mock.Anything, "admin-1").Return(s.admin, nil).Once()
	s.mockReportingRepo.On("GetStudentCollections", mock.Anything, []string(nil), "").Return(collections(), nil).Once()

	f, err := s.service.ExportRecap(context.Background(), "admin-1", dto.RecapParams{})

	s.Require().NoError(err)
	s.Require().NotNil(f)

	name, err := f.GetCellValue("Rekap", "B1")
	s.Require().NoError(err)
	s.Equal("Name", name)

	// First data row holds the largest remaining (Andi).
	first, err := f.GetCellValue("Rekap", "B2")
	s.Require().NoError(err)
	s.Equal("Andi", first)
}

func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
