package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sorahq/ledger-api/internal/apperrors"
	"github.com/sorahq/ledger-api/internal/core/domain"
	portsrepo "github.com/sorahq/ledger-api/internal/core/ports/repositories"
	"github.com/sorahq/ledger-api/internal/models"
	"github.com/sorahq/ledger-api/internal/utils/mapping"
)

type PgxOrganizationRepository struct {
	BaseRepository
}

// newPgxOrganizationRepository creates a new repository for organization data.
func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryFacade {
	return &PgxOrganizationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxOrganizationRepository implements portsrepo.OrganizationRepositoryFacade
var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

// SaveOrganization inserts a new organization and its creator membership within a DB transaction.
func (r *PgxOrganizationRepository) SaveOrganization(ctx context.Context, org domain.Organization, creatorMembership domain.UserOrganization) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelOrg := mapping.ToModelOrganization(org)
	orgQuery := `
		INSERT INTO organizations (
			organization_id, name, description, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, orgQuery,
		modelOrg.OrganizationID,
		modelOrg.Name,
		modelOrg.Description,
		modelOrg.IsActive,
		modelOrg.CreatedAt,
		modelOrg.CreatedBy,
		modelOrg.LastUpdatedAt,
		modelOrg.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert organization "+modelOrg.OrganizationID, err)
	}

	membershipQuery := `
		INSERT INTO user_organizations (user_id, organization_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err = tx.Exec(ctx, membershipQuery,
		creatorMembership.UserID,
		creatorMembership.OrganizationID,
		string(creatorMembership.Role),
		creatorMembership.JoinedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert creator membership for organization "+modelOrg.OrganizationID, err)
	}

	return r.Commit(ctx, tx)
}

// FindOrganizationByID retrieves an organization by its ID.
func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query := `
		SELECT organization_id, name, description, is_active,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM organizations
		WHERE organization_id = $1;
	`
	var m models.Organization
	err := r.Pool.QueryRow(ctx, query, organizationID).Scan(
		&m.OrganizationID,
		&m.Name,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find organization by ID "+organizationID, err)
	}

	domainOrg := mapping.ToDomainOrganization(m)
	return &domainOrg, nil
}

// ListOrganizationsByUserID retrieves the organizations a user belongs to.
func (r *PgxOrganizationRepository) ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error) {
	query := `
		SELECT o.organization_id, o.name, o.description, o.is_active,
		       o.created_at, o.created_by, o.last_updated_at, o.last_updated_by
		FROM organizations o
		JOIN user_organizations uo ON o.organization_id = uo.organization_id
		WHERE uo.user_id = $1 AND uo.role != 'REMOVED'
		ORDER BY o.name;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query organizations for user "+userID, err)
	}
	defer rows.Close()

	orgs := []domain.Organization{}
	for rows.Next() {
		var m models.Organization
		err := rows.Scan(
			&m.OrganizationID,
			&m.Name,
			&m.Description,
			&m.IsActive,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan organization row for user "+userID, err)
		}
		orgs = append(orgs, mapping.ToDomainOrganization(m))
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating organization rows for user "+userID, err)
	}

	return orgs, nil
}

// FindUserOrganization retrieves a user's membership in an organization.
func (r *PgxOrganizationRepository) FindUserOrganization(ctx context.Context, userID, organizationID string) (*domain.UserOrganization, error) {
	query := `
		SELECT uo.user_id, u.name, uo.organization_id, uo.role, uo.joined_at
		FROM user_organizations uo
		JOIN users u ON uo.user_id = u.user_id
		WHERE uo.user_id = $1 AND uo.organization_id = $2;
	`
	var membership domain.UserOrganization
	var role models.UserOrganizationRole
	err := r.Pool.QueryRow(ctx, query, userID, organizationID).Scan(
		&membership.UserID,
		&membership.UserName,
		&membership.OrganizationID,
		&role,
		&membership.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find membership for user "+userID+" in organization "+organizationID, err)
	}

	membership.Role = domain.UserOrganizationRole(role)
	return &membership, nil
}

// ListOrganizationUsers retrieves all memberships of an organization.
func (r *PgxOrganizationRepository) ListOrganizationUsers(ctx context.Context, organizationID string) ([]domain.UserOrganization, error) {
	query := `
		SELECT uo.user_id, u.name, uo.organization_id, uo.role, uo.joined_at
		FROM user_organizations uo
		JOIN users u ON uo.user_id = u.user_id
		WHERE uo.organization_id = $1 AND uo.role != 'REMOVED'
		ORDER BY uo.joined_at;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query memberships for organization "+organizationID, err)
	}
	defer rows.Close()

	memberships := []domain.UserOrganization{}
	for rows.Next() {
		var membership domain.UserOrganization
		var role models.UserOrganizationRole
		err := rows.Scan(
			&membership.UserID,
			&membership.UserName,
			&membership.OrganizationID,
			&role,
			&membership.JoinedAt,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan membership row for organization "+organizationID, err)
		}
		membership.Role = domain.UserOrganizationRole(role)
		memberships = append(memberships, membership)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating membership rows for organization "+organizationID, err)
	}

	return memberships, nil
}

// SaveUserOrganization inserts a membership row, updating the role if the pair already exists.
func (r *PgxOrganizationRepository) SaveUserOrganization(ctx context.Context, membership domain.UserOrganization) error {
	query := `
		INSERT INTO user_organizations (user_id, organization_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, organization_id) DO UPDATE SET role = EXCLUDED.role;
	`
	_, err := r.Pool.Exec(ctx, query,
		membership.UserID,
		membership.OrganizationID,
		string(membership.Role),
		membership.JoinedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			// Referenced user or organization does not exist
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to save membership for user "+membership.UserID, err)
	}
	return nil
}

// UpdateUserOrganizationRole changes the role of an existing membership.
func (r *PgxOrganizationRepository) UpdateUserOrganizationRole(ctx context.Context, userID, organizationID string, role domain.UserOrganizationRole, updatedAt time.Time) error {
	query := `
		UPDATE user_organizations
		SET role = $3
		WHERE user_id = $1 AND organization_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, userID, organizationID, string(role))
	if err != nil {
		return apperrors.NewAppError(500, "failed to update role for user "+userID+" in organization "+organizationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("membership for user " + userID + " in organization " + organizationID + " not found")
	}
	return nil
}
