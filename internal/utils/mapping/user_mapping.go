package mapping

import (
	"github.com/komiteku/komite-backend/internal/core/domain"
	"github.com/komiteku/komite-backend/internal/models"
)

// ToModelUser converts a domain user to its database row.
func ToModelUser(u domain.User) models.User {
	return models.User{
		UserID:        u.UserID,
		Username:      u.Username,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		Role:          string(u.Role),
		ClassAssigned: u.ClassAssigned,
		AuditFields:   toModelAuditFields(u.AuditFields),
	}
}

// ToDomainUser converts a database row to a domain user.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:        m.UserID,
		Username:      m.Username,
		Email:         m.Email,
		PasswordHash:  m.PasswordHash,
		Role:          domain.UserRole(m.Role),
		ClassAssigned: m.ClassAssigned,
		AuditFields:   toDomainAuditFields(m.AuditFields),
	}
}
