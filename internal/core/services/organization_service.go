package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sorahq/ledger-api/internal/apperrors"
	"github.com/sorahq/ledger-api/internal/core/domain"
	portsrepo "github.com/sorahq/ledger-api/internal/core/ports/repositories"
	portssvc "github.com/sorahq/ledger-api/internal/core/ports/services"
	"github.com/sorahq/ledger-api/internal/middleware"
)

var (
	ErrOrganizationNameMissing = errors.New("organization name is required")
)

// organizationService provides organization and membership operations.
type organizationService struct {
	orgRepo portsrepo.OrganizationRepositoryFacade
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo portsrepo.OrganizationRepositoryFacade) portssvc.OrganizationService {
	return &organizationService{
		orgRepo: orgRepo,
	}
}

// Ensure organizationService implements the portssvc.OrganizationService interface
var _ portssvc.OrganizationService = (*organizationService)(nil)

// CreateOrganization creates an organization with the creator as admin.
func (s *organizationService) CreateOrganization(ctx context.Context, userID, name, description string) (*domain.Organization, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrOrganizationNameMissing)
	}

	now := time.Now().UTC()
	org := domain.Organization{
		OrganizationID: uuid.NewString(),
		Name:           name,
		Description:    description,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	membership := domain.UserOrganization{
		UserID:         userID,
		OrganizationID: org.OrganizationID,
		Role:           domain.RoleAdmin,
		JoinedAt:       now,
	}

	if err := s.orgRepo.SaveOrganization(ctx, org, membership); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to save organization", slog.String("error", err.Error()))
		return nil, err
	}

	return &org, nil
}

// GetOrganizationByID retrieves an organization the user belongs to.
func (s *organizationService) GetOrganizationByID(ctx context.Context, userID, organizationID string) (*domain.Organization, error) {
	if err := s.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin, domain.RoleMember, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.orgRepo.FindOrganizationByID(ctx, organizationID)
}

// ListUserOrganizations retrieves the organizations the user belongs to.
func (s *organizationService) ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error) {
	return s.orgRepo.ListOrganizationsByUserID(ctx, userID)
}

// AddUserToOrganization adds or re-activates a membership. Caller must be admin.
func (s *organizationService) AddUserToOrganization(ctx context.Context, requestingUserID, organizationID, targetUserID string, role domain.UserOrganizationRole) error {
	if err := s.AuthorizeUserAction(ctx, organizationID, requestingUserID, domain.RoleAdmin); err != nil {
		return err
	}

	if role != domain.RoleAdmin && role != domain.RoleMember && role != domain.RoleReadOnly {
		return fmt.Errorf("%w: invalid role %q", apperrors.ErrValidation, role)
	}

	membership := domain.UserOrganization{
		UserID:         targetUserID,
		OrganizationID: organizationID,
		Role:           role,
		JoinedAt:       time.Now().UTC(),
	}
	return s.orgRepo.SaveUserOrganization(ctx, membership)
}

// UpdateUserRole changes a member's role. Caller must be admin.
func (s *organizationService) UpdateUserRole(ctx context.Context, requestingUserID, organizationID, targetUserID string, role domain.UserOrganizationRole) error {
	if err := s.AuthorizeUserAction(ctx, organizationID, requestingUserID, domain.RoleAdmin); err != nil {
		return err
	}

	if role != domain.RoleAdmin && role != domain.RoleMember && role != domain.RoleReadOnly && role != domain.RoleRemoved {
		return fmt.Errorf("%w: invalid role %q", apperrors.ErrValidation, role)
	}

	return s.orgRepo.UpdateUserOrganizationRole(ctx, targetUserID, organizationID, role, time.Now().UTC())
}

// AuthorizeUserAction verifies the user holds one of the allowed roles in the
// organization. A user with no membership gets ErrNotFound so other tenants'
// organization IDs are indistinguishable from nonexistent ones; an
// insufficient role gets ErrForbidden.
func (s *organizationService) AuthorizeUserAction(ctx context.Context, organizationID, userID string, allowedRoles ...domain.UserOrganizationRole) error {
	membership, err := s.orgRepo.FindUserOrganization(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return err
	}

	if membership.Role == domain.RoleRemoved {
		return apperrors.ErrNotFound
	}

	for _, allowed := range allowedRoles {
		if membership.Role == allowed {
			return nil
		}
	}

	// Admins may do anything a lesser role may do.
	if membership.Role == domain.RoleAdmin {
		return nil
	}

	return apperrors.ErrForbidden
}
