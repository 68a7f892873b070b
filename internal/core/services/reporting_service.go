package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/komiteku/komite-backend/internal/apperrors"
	"github.com/komiteku/komite-backend/internal/core/domain"
	portsrepo "github.com/komiteku/komite-backend/internal/core/ports/repositories"
	portssvc "github.com/komiteku/komite-backend/internal/core/ports/services"
	"github.com/komiteku/komite-backend/internal/dto"
	"github.com/komiteku/komite-backend/internal/middleware"
	"github.com/komiteku/komite-backend/internal/utils"
)

// reportingService composes per-student balances into class and school-wide
// views. Read side only; it never writes the ledger.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
	userRepo      portsrepo.UserRepositoryFacade
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, userRepo portsrepo.UserRepositoryFacade) portssvc.ReportingSvc {
	return &reportingService{
		reportingRepo: reportingRepo,
		userRepo:      userRepo,
	}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

// visibleClasses resolves which classes the requesting user may see.
// Admins see everything (nil means unrestricted); representatives see only
// their assigned classes.
func (s *reportingService) visibleClasses(ctx context.Context, requestingUserID string) ([]string, bool, error) {
	user, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, apperrors.ErrForbidden
		}
		return nil, false, fmt.Errorf("failed to resolve requesting user: %w", err)
	}
	if user.IsAdmin() {
		return nil, true, nil
	}
	return user.ClassAssigned, false, nil
}

// ClassRecap lists per-student rows for the classes visible to the
// requesting user, filtered by params and sorted by remaining descending.
func (s *reportingService) ClassRecap(ctx context.Context, requestingUserID string, params dto.RecapParams) (*dto.RecapResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	classNames, isAdmin, err := s.visibleClasses(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && len(classNames) == 0 {
		// A representative with no assigned classes sees an empty recap.
		return &dto.RecapResponse{Rows: []domain.RecapRow{}}, nil
	}

	if params.ClassName != "" {
		if !isAdmin && !containsString(classNames, params.ClassName) {
			logger.Warn("Recap requested for unassigned class", slog.String("user_id", requestingUserID), slog.String("class", params.ClassName))
			return nil, fmt.Errorf("%w: class %s is not assigned to you", apperrors.ErrForbidden, params.ClassName)
		}
		classNames = []string{params.ClassName}
	}

	collections, err := s.reportingRepo.GetStudentCollections(ctx, classNames, params.Keyword)
	if err != nil {
		logger.Error("Failed to load student collections for recap", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load collections: %w", err)
	}

	resp := &dto.RecapResponse{Rows: make([]domain.RecapRow, 0, len(collections))}
	for _, c := range collections {
		status := domain.DeriveStatus(c.TargetAmount, c.PaidAmount)
		if params.Status != "" && string(status) != params.Status {
			continue
		}
		row := domain.RecapRow{
			StudentID:    c.StudentID,
			NIS:          c.NIS,
			Name:         c.Name,
			ClassName:    c.ClassName,
			TargetAmount: c.TargetAmount,
			PaidAmount:   c.PaidAmount,
			Remaining:    domain.Remaining(c.TargetAmount, c.PaidAmount),
			Status:       status,
		}
		resp.Rows = append(resp.Rows, row)
		resp.TotalTarget += row.TargetAmount
		resp.TotalPaid += row.PaidAmount
		resp.TotalRemaining += row.Remaining
	}

	sort.SliceStable(resp.Rows, func(i, j int) bool {
		if resp.Rows[i].Remaining != resp.Rows[j].Remaining {
			return resp.Rows[i].Remaining > resp.Rows[j].Remaining
		}
		return resp.Rows[i].Name < resp.Rows[j].Name
	})

	logger.Debug("Class recap composed", slog.Int("rows", len(resp.Rows)))
	return resp, nil
}

// ClassSummaries aggregates totals and status counts per class visible to
// the requesting user, sorted by class name.
func (s *reportingService) ClassSummaries(ctx context.Context, requestingUserID string) ([]domain.ClassSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	classNames, isAdmin, err := s.visibleClasses(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && len(classNames) == 0 {
		return []domain.ClassSummary{}, nil
	}

	collections, err := s.reportingRepo.GetStudentCollections(ctx, classNames, "")
	if err != nil {
		logger.Error("Failed to load student collections for summaries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load collections: %w", err)
	}

	byClass := make(map[string]*domain.ClassSummary)
	for _, c := range collections {
		summary, ok := byClass[c.ClassName]
		if !ok {
			summary = &domain.ClassSummary{ClassName: c.ClassName}
			byClass[c.ClassName] = summary
		}
		summary.StudentCount++
		summary.TotalTarget += c.TargetAmount
		summary.TotalPaid += c.PaidAmount
		summary.TotalRemaining += domain.Remaining(c.TargetAmount, c.PaidAmount)
		switch domain.DeriveStatus(c.TargetAmount, c.PaidAmount) {
		case domain.StatusPaid:
			summary.PaidStudents++
		case domain.StatusPartial:
			summary.PartialPaidStudents++
		default:
			summary.UnpaidStudents++
		}
	}

	summaries := make([]domain.ClassSummary, 0, len(byClass))
	for _, summary := range byClass {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ClassName < summaries[j].ClassName
	})

	return summaries, nil
}

// GlobalStatistics aggregates the school-wide rollup over every class.
func (s *reportingService) GlobalStatistics(ctx context.Context) (*domain.GlobalStatistics, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	collections, err := s.reportingRepo.GetStudentCollections(ctx, nil, "")
	if err != nil {
		logger.Error("Failed to load student collections for statistics", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load collections: %w", err)
	}

	stats := &domain.GlobalStatistics{}
	classes := make(map[string]struct{})
	for _, c := range collections {
		classes[c.ClassName] = struct{}{}
		stats.StudentCount++
		stats.TotalTarget += c.TargetAmount
		stats.TotalPaid += c.PaidAmount
		stats.TotalRemaining += domain.Remaining(c.TargetAmount, c.PaidAmount)
		switch domain.DeriveStatus(c.TargetAmount, c.PaidAmount) {
		case domain.StatusPaid:
			stats.PaidStudents++
		case domain.StatusPartial:
			stats.PartialPaidStudents++
		default:
			stats.UnpaidStudents++
		}
	}
	stats.ClassCount = len(classes)
	stats.CollectionPercentage = utils.CollectionPercentage(stats.TotalPaid, stats.TotalTarget)

	return stats, nil
}

// recapExportHeader is the column layout of the exported recap sheet.
var recapExportHeader = []string{"NIS", "Name", "Class", "Target", "Paid", "Remaining", "Status"}

// ExportRecap renders the recap as a spreadsheet for download.
func (s *reportingService) ExportRecap(ctx context.Context, requestingUserID string, params dto.RecapParams) (*excelize.File, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	recap, err := s.ClassRecap(ctx, requestingUserID, params)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Rekap"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, title := range recapExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build export header: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write export header: %w", err)
		}
	}

	for i, row := range recap.Rows {
		values := []interface{}{row.NIS, row.Name, row.ClassName, row.TargetAmount, row.PaidAmount, row.Remaining, string(row.Status)}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build export cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write export row: %w", err)
			}
		}
	}

	totalsRow := len(recap.Rows) + 2
	totals := map[int]interface{}{
		2: "Total",
		4: recap.TotalTarget,
		5: recap.TotalPaid,
		6: recap.TotalRemaining,
	}
	for col, v := range totals {
		cell, err := excelize.CoordinatesToCellName(col, totalsRow)
		if err != nil {
			return nil, fmt.Errorf("failed to build export totals: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return nil, fmt.Errorf("failed to write export totals: %w", err)
		}
	}

	logger.Info("Recap exported", slog.Int("rows", len(recap.Rows)))
	return f, nil
}

// containsString reports whether needle is present in haystack.
func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
