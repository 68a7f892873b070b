package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/komiteku/komite-backend/internal/apperrors"
	"github.com/komiteku/komite-backend/internal/core/domain"
	portssvc "github.com/komiteku/komite-backend/internal/core/ports/services"
	"github.com/komiteku/komite-backend/internal/core/services"
	"github.com/komiteku/komite-backend/internal/dto"
	"github.com/komiteku/komite-backend/internal/utils"
)

const testJWTSecret = "test-secret-key-for-signing"

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	userService  portssvc.UserSvcFacade
	authService  portssvc.AuthSvcFacade
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(MockUserRepository)
	s.userService = services.NewUserService(s.mockUserRepo)
	s.authService = services.NewAuthService(s.userService, testJWTSecret, time.Hour, "komite-backend")
}

func (s *UserServiceTestSuite) storedUser(password string) *domain.User {
	hash, err := utils.HashPassword(password)
	s.Require().NoError(err)
	return &domain.User{
		UserID:        "user-1",
		Username:      "walikelas7a",
		PasswordHash:  hash,
		Role:          domain.RoleRepresentative,
		ClassAssigned: []string{"7A"},
	}
}

func (s *UserServiceTestSuite) TestCreateUser_HashesPassword() {
	s.mockUserRepo.On("SaveUser", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "admin" &&
			u.PasswordHash != "rahasia-sekali" &&
			utils.CheckPasswordHash("rahasia-sekali", u.PasswordHash)
	})).Return(nil).Once()

	user, err := s.userService.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "admin",
		Password: "rahasia-sekali",
		Role:     "admin",
	}, "creator-1")

	s.Require().NoError(err)
	s.Equal(domain.RoleAdmin, user.Role)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestCreateUser_DuplicateUsername() {
	s.mockUserRepo.On("SaveUser", mock.Anything, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := s.userService.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "admin",
		Password: "rahasia-sekali",
		Role:     "admin",
	}, "creator-1")

	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *UserServiceTestSuite) TestAuthenticate_Success() {
	stored := s.storedUser("benar-sekali")
	s.mockUserRepo.On("FindUserByUsername", mock.Anything, "walikelas7a").Return(stored, nil).Once()

	user, err := s.userService.Authenticate(context.Background(), "walikelas7a", "benar-sekali")

	s.Require().NoError(err)
	s.Equal("user-1", user.UserID)
}

func (s *UserServiceTestSuite) TestAuthenticate_WrongPassword() {
	stored := s.storedUser("benar-sekali")
	s.mockUserRepo.On("FindUserByUsername", mock.Anything, "walikelas7a").Return(stored, nil).Once()

	_, err := s.userService.Authenticate(context.Background(), "walikelas7a", "salah")

	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *UserServiceTestSuite) TestAuthenticate_UnknownUsername() {
	s.mockUserRepo.On("FindUserByUsername", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.userService.Authenticate(context.Background(), "ghost", "whatever")

	// Unknown usernames read the same as wrong passwords.
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *UserServiceTestSuite) TestLogin_IssuesTokenWithRoleClaim() {
	stored := s.storedUser("benar-sekali")
	s.mockUserRepo.On("FindUserByUsername", mock.Anything, "walikelas7a").Return(stored, nil).Once()

	resp, err := s.authService.Login(context.Background(), dto.LoginRequest{
		Username: "walikelas7a",
		Password: "benar-sekali",
	})

	s.Require().NoError(err)
	s.NotEmpty(resp.Token)
	s.Equal("walikelas7a", resp.User.Username)
	s.Equal([]string{"7A"}, resp.User.ClassAssigned)

	claims, err := utils.ParseAndValidateJWT(resp.Token, testJWTSecret)
	s.Require().NoError(err)
	s.Equal("user-1", claims.Subject)
	s.Equal(string(domain.RoleRepresentative), claims.Role)
	s.Equal("komite-backend", claims.Issuer)
}

func (s *UserServiceTestSuite) TestLogin_BadCredentials() {
	stored := s.storedUser("benar-sekali")
	s.mockUserRepo.On("FindUserByUsername", mock.Anything, "walikelas7a").Return(stored, nil).Once()

	_, err := s.authService.Login(context.Background(), dto.LoginRequest{
		Username: "walikelas7a",
		Password: "salah",
	})

	s.ErrorIs(err, apperrors.ErrForbidden)
}

func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
