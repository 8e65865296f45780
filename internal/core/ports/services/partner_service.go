package services

import (
	"context"

	"github.com/sorahq/ledger-api/internal/core/domain"
)

// CreatePartnerInput carries the fields needed to create a partner.
type CreatePartnerInput struct {
	Name        string
	PartnerType domain.PartnerType
	Email       string
}

// UpdatePartnerInput carries the mutable fields of a partner. Nil pointer
// fields are left unchanged.
type UpdatePartnerInput struct {
	Name  *string
	Email *string
}

// PartnerService defines the business logic for customers and vendors.
type PartnerService interface {
	// CreatePartner creates a new active partner.
	CreatePartner(ctx context.Context, organizationID, userID string, input CreatePartnerInput) (*domain.Partner, error)

	// GetPartnerByID retrieves a partner scoped to the organization.
	GetPartnerByID(ctx context.Context, organizationID, userID, partnerID string) (*domain.Partner, error)

	// ListPartners retrieves partners of the organization.
	ListPartners(ctx context.Context, organizationID, userID string, limit int, offset int) ([]domain.Partner, error)

	// UpdatePartner modifies a partner.
	UpdatePartner(ctx context.Context, organizationID, userID, partnerID string, input UpdatePartnerInput) (*domain.Partner, error)

	// DeactivatePartner marks a partner inactive.
	DeactivatePartner(ctx context.Context, organizationID, userID, partnerID string) error
}
