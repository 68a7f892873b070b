package mapping

import (
	"github.com/komiteku/komite-backend/internal/core/domain"
	"github.com/komiteku/komite-backend/internal/models"
)

// ToModelStudent converts a domain student to its database row.
func ToModelStudent(s domain.Student) models.Student {
	return models.Student{
		StudentID:    s.StudentID,
		NIS:          s.NIS,
		Name:         s.Name,
		ClassName:    s.ClassName,
		Gender:       s.Gender,
		TargetAmount: s.TargetAmount,
		AuditFields:  toModelAuditFields(s.AuditFields),
	}
}

// ToDomainStudent converts a database row to a domain student.
func ToDomainStudent(m models.Student) domain.Student {
	return domain.Student{
		StudentID:    m.StudentID,
		NIS:          m.NIS,
		Name:         m.Name,
		ClassName:    m.ClassName,
		Gender:       m.Gender,
		TargetAmount: m.TargetAmount,
		AuditFields:  toDomainAuditFields(m.AuditFields),
	}
}

// ToDomainStudentSlice converts rows to domain students.
func ToDomainStudentSlice(ms []models.Student) []domain.Student {
	res := make([]domain.Student, len(ms))
	for i, m := range ms {
		res[i] = ToDomainStudent(m)
	}
	return res
}
