package mapping

import (
	"github.com/sorahq/ledger-api/internal/core/domain"
	"github.com/sorahq/ledger-api/internal/models"
)

// ToModelPartner converts a domain Partner to a model Partner.
func ToModelPartner(d domain.Partner) models.Partner {
	return models.Partner{
		PartnerID:      d.PartnerID,
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		PartnerType:    models.PartnerType(d.PartnerType),
		Email:          d.Email,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPartner converts a model Partner to a domain Partner.
func ToDomainPartner(m models.Partner) domain.Partner {
	return domain.Partner{
		PartnerID:      m.PartnerID,
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		PartnerType:    domain.PartnerType(m.PartnerType),
		Email:          m.Email,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
