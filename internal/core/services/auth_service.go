package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portssvc "github.com/komiteku/komite-backend/internal/core/ports/services"
	"github.com/komiteku/komite-backend/internal/dto"
	"github.com/komiteku/komite-backend/internal/middleware"
	"github.com/komiteku/komite-backend/internal/utils"
)

// authService issues JWTs for authenticated users.
type authService struct {
	userSvc   portssvc.UserSvcFacade
	jwtSecret string
	jwtExpiry time.Duration
	jwtIssuer string
}

// NewAuthService creates a new auth service.
func NewAuthService(userSvc portssvc.UserSvcFacade, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) portssvc.AuthSvcFacade {
	return &authService{
		userSvc:   userSvc,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		jwtIssuer: jwtIssuer,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login authenticates credentials and returns a signed access token.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userSvc.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateJWT(user.UserID, string(user.Role), s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		logger.Error("Failed to generate JWT", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.jwtExpiry),
		User:      dto.ToUserResponse(user),
	}, nil
}
