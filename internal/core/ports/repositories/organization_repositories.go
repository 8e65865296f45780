package repositories

import (
	"context"
	"time"

	"github.com/sorahq/ledger-api/internal/core/domain"
)

// OrganizationReader defines read operations for organization data.
type OrganizationReader interface {
	// FindOrganizationByID retrieves an organization by its ID.
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)

	// ListOrganizationsByUserID retrieves the organizations a user belongs to.
	ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error)

	// FindUserOrganization retrieves a user's membership in an organization.
	FindUserOrganization(ctx context.Context, userID, organizationID string) (*domain.UserOrganization, error)

	// ListOrganizationUsers retrieves all memberships of an organization.
	ListOrganizationUsers(ctx context.Context, organizationID string) ([]domain.UserOrganization, error)
}

// OrganizationWriter defines write operations for organization data.
type OrganizationWriter interface {
	// SaveOrganization inserts a new organization and its creator membership atomically.
	SaveOrganization(ctx context.Context, org domain.Organization, creatorMembership domain.UserOrganization) error

	// SaveUserOrganization inserts or updates a membership row.
	SaveUserOrganization(ctx context.Context, membership domain.UserOrganization) error

	// UpdateUserOrganizationRole changes the role of an existing membership.
	UpdateUserOrganizationRole(ctx context.Context, userID, organizationID string, role domain.UserOrganizationRole, updatedAt time.Time) error
}

// OrganizationRepositoryFacade combines all organization repository interfaces.
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
}
