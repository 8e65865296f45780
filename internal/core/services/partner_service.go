package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sorahq/ledger-api/internal/apperrors"
	"github.com/sorahq/ledger-api/internal/core/domain"
	portsrepo "github.com/sorahq/ledger-api/internal/core/ports/repositories"
	portssvc "github.com/sorahq/ledger-api/internal/core/ports/services"
)

// partnerService provides customer and vendor operations.
type partnerService struct {
	partnerRepo portsrepo.PartnerRepositoryFacade
	orgSvc      portssvc.OrganizationService
}

// NewPartnerService creates a new PartnerService.
func NewPartnerService(partnerRepo portsrepo.PartnerRepositoryFacade, orgSvc portssvc.OrganizationService) portssvc.PartnerService {
	return &partnerService{
		partnerRepo: partnerRepo,
		orgSvc:      orgSvc,
	}
}

// Ensure partnerService implements the portssvc.PartnerService interface
var _ portssvc.PartnerService = (*partnerService)(nil)

func validPartnerType(t domain.PartnerType) bool {
	switch t {
	case domain.Customer, domain.Vendor, domain.Both:
		return true
	}
	return false
}

// CreatePartner creates a new active partner.
func (s *partnerService) CreatePartner(ctx context.Context, organizationID, userID string, input portssvc.CreatePartnerInput) (*domain.Partner, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin, domain.RoleMember); err != nil {
		return nil, err
	}

	if input.Name == "" {
		return nil, fmt.Errorf("%w: partner name is required", apperrors.ErrValidation)
	}
	if !validPartnerType(input.PartnerType) {
		return nil, fmt.Errorf("%w: invalid partner type %q", apperrors.ErrValidation, input.PartnerType)
	}

	now := time.Now().UTC()
	partner := domain.Partner{
		PartnerID:      uuid.NewString(),
		OrganizationID: organizationID,
		Name:           input.Name,
		PartnerType:    input.PartnerType,
		Email:          input.Email,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.partnerRepo.SavePartner(ctx, partner); err != nil {
		return nil, err
	}

	return &partner, nil
}

// GetPartnerByID retrieves a partner scoped to the organization.
func (s *partnerService) GetPartnerByID(ctx context.Context, organizationID, userID, partnerID string) (*domain.Partner, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin, domain.RoleMember, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	partner, err := s.partnerRepo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if partner.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	return partner, nil
}

// ListPartners retrieves partners of the organization.
func (s *partnerService) ListPartners(ctx context.Context, organizationID, userID string, limit int, offset int) ([]domain.Partner, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin, domain.RoleMember, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.partnerRepo.ListPartners(ctx, organizationID, limit, offset)
}

// UpdatePartner modifies a partner.
func (s *partnerService) UpdatePartner(ctx context.Context, organizationID, userID, partnerID string, input portssvc.UpdatePartnerInput) (*domain.Partner, error) {
	partner, err := s.GetPartnerByID(ctx, organizationID, userID, partnerID)
	if err != nil {
		return nil, err
	}

	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin, domain.RoleMember); err != nil {
		return nil, err
	}

	if input.Name != nil {
		partner.Name = *input.Name
	}
	if input.Email != nil {
		partner.Email = *input.Email
	}
	partner.LastUpdatedAt = time.Now().UTC()
	partner.LastUpdatedBy = userID

	if err := s.partnerRepo.UpdatePartner(ctx, *partner); err != nil {
		return nil, err
	}

	return partner, nil
}

// DeactivatePartner marks a partner inactive.
func (s *partnerService) DeactivatePartner(ctx context.Context, organizationID, userID, partnerID string) error {
	if _, err := s.GetPartnerByID(ctx, organizationID, userID, partnerID); err != nil {
		return err
	}

	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin); err != nil {
		return err
	}

	return s.partnerRepo.DeactivatePartner(ctx, partnerID, userID, time.Now().UTC())
}
