package services

import (
	"time"

	portsrepo "github.com/komiteku/komite-backend/internal/core/ports/repositories"
	portssvc "github.com/komiteku/komite-backend/internal/core/ports/services"
)

// AuthConfig carries the token settings the auth service needs.
type AuthConfig struct {
	JWTSecret string
	JWTExpiry time.Duration
	JWTIssuer string
}

// NewServiceContainer wires the repositories into the full service graph.
func NewServiceContainer(repos portsrepo.RepositoryProvider, authCfg AuthConfig) *portssvc.ServiceContainer {
	userSvc := NewUserService(repos.UserRepo)

	return &portssvc.ServiceContainer{
		Payment:   NewPaymentService(repos.PaymentRepo, repos.StudentRepo),
		Student:   NewStudentService(repos.StudentRepo),
		Reporting: NewReportingService(repos.ReportingRepo, repos.UserRepo),
		User:      userSvc,
		Auth:      NewAuthService(userSvc, authCfg.JWTSecret, authCfg.JWTExpiry, authCfg.JWTIssuer),
	}
}
