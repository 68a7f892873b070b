package dto

import (
	"github.com/komiteku/komite-backend/internal/core/domain"
)

// RecapParams defines query parameters for the class recap report.
type RecapParams struct {
	Keyword   string `form:"q"`
	Status    string `form:"status" binding:"omitempty,oneof=PAID PARTIAL UNPAID"`
	ClassName string `form:"className"`
}

// RecapResponse wraps the recap rows with their totals.
type RecapResponse struct {
	Rows           []domain.RecapRow `json:"rows"`
	TotalTarget    int64             `json:"totalTarget"`
	TotalPaid      int64             `json:"totalPaid"`
	TotalRemaining int64             `json:"totalRemaining"`
}

// ClassSummariesResponse wraps the per-class summaries.
type ClassSummariesResponse struct {
	Classes []domain.ClassSummary `json:"classes"`
}
