package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/komiteku/komite-backend/internal/core/ports/repositories"
)

// NewRepositoryProvider builds the full repository set backed by one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		StudentRepo:   newPgxStudentRepository(pool),
		PaymentRepo:   newPgxPaymentRepository(pool),
		UserRepo:      newPgxUserRepository(pool),
		ReportingRepo: newPgxReportingRepository(pool),
	}
}
