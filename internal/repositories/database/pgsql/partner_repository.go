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

type PgxPartnerRepository struct {
	BaseRepository
}

// newPgxPartnerRepository creates a new repository for partner data.
func newPgxPartnerRepository(pool *pgxpool.Pool) portsrepo.PartnerRepositoryFacade {
	return &PgxPartnerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPartnerRepository implements portsrepo.PartnerRepositoryFacade
var _ portsrepo.PartnerRepositoryFacade = (*PgxPartnerRepository)(nil)

const partnerColumns = `
	partner_id, organization_id, name, partner_type, email, is_active,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanPartnerRow(row pgx.Row) (*models.Partner, error) {
	var m models.Partner
	err := row.Scan(
		&m.PartnerID,
		&m.OrganizationID,
		&m.Name,
		&m.PartnerType,
		&m.Email,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SavePartner inserts a new partner.
func (r *PgxPartnerRepository) SavePartner(ctx context.Context, partner domain.Partner) error {
	modelPartner := mapping.ToModelPartner(partner)
	query := `
		INSERT INTO partners (` + partnerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelPartner.PartnerID,
		modelPartner.OrganizationID,
		modelPartner.Name,
		modelPartner.PartnerType,
		modelPartner.Email,
		modelPartner.IsActive,
		modelPartner.CreatedAt,
		modelPartner.CreatedBy,
		modelPartner.LastUpdatedAt,
		modelPartner.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert partner "+modelPartner.PartnerID, err)
	}
	return nil
}

// FindPartnerByID retrieves a partner by its ID.
func (r *PgxPartnerRepository) FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE partner_id = $1;`
	m, err := scanPartnerRow(r.Pool.QueryRow(ctx, query, partnerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find partner by ID "+partnerID, err)
	}

	domainPartner := mapping.ToDomainPartner(*m)
	return &domainPartner, nil
}

// ListPartners retrieves partners of an organization ordered by name.
func (r *PgxPartnerRepository) ListPartners(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Partner, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + partnerColumns + `
		FROM partners
		WHERE organization_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query partners for organization "+organizationID, err)
	}
	defer rows.Close()

	partners := []domain.Partner{}
	for rows.Next() {
		m, err := scanPartnerRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan partner row for organization "+organizationID, err)
		}
		partners = append(partners, mapping.ToDomainPartner(*m))
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating partner rows for organization "+organizationID, err)
	}

	return partners, nil
}

// UpdatePartner updates mutable partner fields.
func (r *PgxPartnerRepository) UpdatePartner(ctx context.Context, partner domain.Partner) error {
	modelPartner := mapping.ToModelPartner(partner)
	query := `
		UPDATE partners
		SET name = $2,
		    email = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE partner_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelPartner.PartnerID,
		modelPartner.Name,
		modelPartner.Email,
		modelPartner.LastUpdatedAt,
		modelPartner.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to execute update for partner "+modelPartner.PartnerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("partner " + modelPartner.PartnerID + " not found for update")
	}
	return nil
}

// DeactivatePartner marks a partner inactive.
func (r *PgxPartnerRepository) DeactivatePartner(ctx context.Context, partnerID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE partners
		SET is_active = FALSE,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE partner_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, partnerID, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate partner "+partnerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("partner " + partnerID + " not found for deactivation")
	}
	return nil
}
