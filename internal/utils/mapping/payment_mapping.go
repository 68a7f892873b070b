package mapping

import (
	"github.com/komiteku/komite-backend/internal/core/domain"
	"github.com/komiteku/komite-backend/internal/models"
)

// ToModelPayment converts a domain payment to its database row.
func ToModelPayment(p domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:   p.PaymentID,
		StudentID:   p.StudentID,
		Amount:      p.Amount,
		CollectedBy: p.CollectedBy,
		Method:      p.Method,
		Note:        p.Note,
		PaidAt:      p.PaidAt,
		AuditFields: toModelAuditFields(p.AuditFields),
	}
}

// ToDomainPayment converts a database row to a domain payment.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:   m.PaymentID,
		StudentID:   m.StudentID,
		Amount:      m.Amount,
		CollectedBy: m.CollectedBy,
		Method:      m.Method,
		Note:        m.Note,
		PaidAt:      m.PaidAt,
		AuditFields: toDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentSlice converts rows to domain payments.
func ToDomainPaymentSlice(ms []models.Payment) []domain.Payment {
	res := make([]domain.Payment, len(ms))
	for i, m := range ms {
		res[i] = ToDomainPayment(m)
	}
	return res
}
