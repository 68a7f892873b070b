package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/komiteku/komite-backend/internal/core/domain"
	portsrepo "github.com/komiteku/komite-backend/internal/core/ports/repositories"
	"github.com/komiteku/komite-backend/internal/models"
	"github.com/komiteku/komite-backend/internal/utils/mapping"
)

type PgxReportingRepository struct {
	db *pgxpool.Pool
}

// newPgxReportingRepository creates a new repository for rollup reads.
func newPgxReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{db: db}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetStudentCollections retrieves students joined with their committed
// payment sums. The snapshot is not serialized against concurrent ledger
// writes; reporting tolerates that.
func (r *PgxReportingRepository) GetStudentCollections(ctx context.Context, classNames []string, keyword string) ([]domain.StudentCollection, error) {
	query := `
		SELECT s.student_id, s.nis, s.name, s.class_name, s.gender, s.target_amount,
		       s.created_at, s.created_by, s.last_updated_at, s.last_updated_by,
		       COALESCE(SUM(p.amount), 0) AS paid_amount
		FROM students s
		LEFT JOIN payments p ON p.student_id = s.student_id
	`
	conditions := []string{}
	args := []any{}
	if len(classNames) > 0 {
		args = append(args, classNames)
		conditions = append(conditions, fmt.Sprintf("s.class_name = ANY($%d)", len(args)))
	}
	if keyword != "" {
		args = append(args, "%"+keyword+"%")
		conditions = append(conditions, fmt.Sprintf("(s.name ILIKE $%d OR s.nis ILIKE $%d)", len(args), len(args)))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += `
		GROUP BY s.student_id
		ORDER BY s.class_name, s.name;
	`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query student collections: %w", err)
	}
	defer rows.Close()

	collections := []domain.StudentCollection{}
	for rows.Next() {
		var m models.Student
		var paid int64
		err := rows.Scan(
			&m.StudentID,
			&m.NIS,
			&m.Name,
			&m.ClassName,
			&m.Gender,
			&m.TargetAmount,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&paid,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student collection row: %w", err)
		}
		collections = append(collections, domain.StudentCollection{
			Student:    mapping.ToDomainStudent(m),
			PaidAmount: paid,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read student collection rows: %w", err)
	}

	return collections, nil
}
