package services

import (
	"context"

	"github.com/komiteku/komite-backend/internal/core/domain"
	"github.com/komiteku/komite-backend/internal/dto"
	"github.com/xuri/excelize/v2"
)

// ReportingSvc composes per-student balances into class and school-wide
// views. Pure read side; every row's status comes from domain.DeriveStatus.
type ReportingSvc interface {
	// ClassRecap lists per-student rows for the classes visible to the
	// requesting user (representatives are scoped to their assigned classes),
	// filtered by params and sorted by remaining descending.
	ClassRecap(ctx context.Context, requestingUserID string, params dto.RecapParams) (*dto.RecapResponse, error)

	// ClassSummaries aggregates totals and status counts per class.
	ClassSummaries(ctx context.Context, requestingUserID string) ([]domain.ClassSummary, error)

	// GlobalStatistics aggregates the school-wide rollup.
	GlobalStatistics(ctx context.Context) (*domain.GlobalStatistics, error)

	// ExportRecap renders the recap as a spreadsheet for download.
	ExportRecap(ctx context.Context, requestingUserID string, params dto.RecapParams) (*excelize.File, error)
}
