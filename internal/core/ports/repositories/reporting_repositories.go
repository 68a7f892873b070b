package repositories

import (
	"context"

	"github.com/komiteku/komite-backend/internal/core/domain"
)

// ReportingRepository provides the read-side snapshot the rollup composes.
// Rollup reads are not transactionally consistent with concurrent ledger
// writes; an eventually-consistent snapshot is acceptable for reporting.
type ReportingRepository interface {
	// GetStudentCollections retrieves students joined with the sum of their
	// payments. classNames restricts the result to those classes (nil or
	// empty means all); keyword, when non-empty, matches name or NIS
	// case-insensitively. Status derivation is left to the caller so the
	// rule lives in exactly one place.
	GetStudentCollections(ctx context.Context, classNames []string, keyword string) ([]domain.StudentCollection, error)
}
