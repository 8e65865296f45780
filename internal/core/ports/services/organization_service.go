package services

import (
	"context"

	"github.com/sorahq/ledger-api/internal/core/domain"
)

// OrganizationService defines the business logic for organizations and the
// membership checks every tenant-scoped operation runs first.
type OrganizationService interface {
	// CreateOrganization creates an organization with the creator as admin.
	CreateOrganization(ctx context.Context, userID, name, description string) (*domain.Organization, error)

	// GetOrganizationByID retrieves an organization the user belongs to.
	GetOrganizationByID(ctx context.Context, userID, organizationID string) (*domain.Organization, error)

	// ListUserOrganizations retrieves the organizations the user belongs to.
	ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error)

	// AddUserToOrganization adds or re-activates a membership. Caller must be admin.
	AddUserToOrganization(ctx context.Context, requestingUserID, organizationID, targetUserID string, role domain.UserOrganizationRole) error

	// UpdateUserRole changes a member's role. Caller must be admin.
	UpdateUserRole(ctx context.Context, requestingUserID, organizationID, targetUserID string, role domain.UserOrganizationRole) error

	// AuthorizeUserAction verifies the user holds one of the allowed roles in
	// the organization. Returns apperrors.ErrForbidden otherwise.
	AuthorizeUserAction(ctx context.Context, organizationID, userID string, allowedRoles ...domain.UserOrganizationRole) error
}
