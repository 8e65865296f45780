package repositories

import (
	"context"
	"time"

	"github.com/sorahq/ledger-api/internal/core/domain"
)

// PartnerReader defines read operations for partner data.
type PartnerReader interface {
	// FindPartnerByID retrieves a partner by its ID.
	FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error)

	// ListPartners retrieves partners of an organization.
	ListPartners(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Partner, error)
}

// PartnerWriter defines write operations for partner data.
type PartnerWriter interface {
	// SavePartner inserts a new partner.
	SavePartner(ctx context.Context, partner domain.Partner) error

	// UpdatePartner updates mutable partner fields.
	UpdatePartner(ctx context.Context, partner domain.Partner) error

	// DeactivatePartner marks a partner inactive.
	DeactivatePartner(ctx context.Context, partnerID string, updatedBy string, updatedAt time.Time) error
}

// PartnerRepositoryFacade combines all partner repository interfaces.
type PartnerRepositoryFacade interface {
	PartnerReader
	PartnerWriter
}
