package services

import (
	"context"

	"github.com/komiteku/komite-backend/internal/core/domain"
	"github.com/komiteku/komite-backend/internal/dto"
)

// UserSvcFacade defines operations over collecting actors.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// Authenticate verifies username/password and returns the user.
	// Fails with apperrors.ErrForbidden on bad credentials.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
}

// AuthSvcFacade issues access tokens for authenticated users.
type AuthSvcFacade interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
