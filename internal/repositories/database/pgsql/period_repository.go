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

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for accounting period data.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPeriodRepository implements portsrepo.PeriodRepositoryFacade
var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

const periodColumns = `
	period_id, organization_id, name, start_date, end_date, is_active,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanPeriodRow(row pgx.Row) (*models.AccountingPeriod, error) {
	var m models.AccountingPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.OrganizationID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
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

func (r *PgxPeriodRepository) queryPeriods(ctx context.Context, query string, args ...interface{}) ([]domain.AccountingPeriod, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounting periods", err)
	}
	defer rows.Close()

	periods := []domain.AccountingPeriod{}
	for rows.Next() {
		m, err := scanPeriodRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan accounting period row", err)
		}
		periods = append(periods, mapping.ToDomainAccountingPeriod(*m))
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating accounting period rows", err)
	}

	return periods, nil
}

// SavePeriod inserts a new accounting period.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	modelPeriod := mapping.ToModelAccountingPeriod(period)
	query := `
		INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelPeriod.PeriodID,
		modelPeriod.OrganizationID,
		modelPeriod.Name,
		modelPeriod.StartDate,
		modelPeriod.EndDate,
		modelPeriod.IsActive,
		modelPeriod.CreatedAt,
		modelPeriod.CreatedBy,
		modelPeriod.LastUpdatedAt,
		modelPeriod.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert accounting period "+modelPeriod.PeriodID, err)
	}
	return nil
}

// FindPeriodByID retrieves a period by its ID.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE period_id = $1;`
	m, err := scanPeriodRow(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find accounting period by ID "+periodID, err)
	}

	domainPeriod := mapping.ToDomainAccountingPeriod(*m)
	return &domainPeriod, nil
}

// FindPeriodsCovering retrieves every period of the organization whose date
// range contains the given date.
func (r *PgxPeriodRepository) FindPeriodsCovering(ctx context.Context, organizationID string, date time.Time) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE organization_id = $1 AND start_date <= $2 AND end_date >= $2
		ORDER BY start_date;
	`
	return r.queryPeriods(ctx, query, organizationID, date)
}

// FindOverlappingPeriods retrieves periods intersecting [startDate, endDate].
func (r *PgxPeriodRepository) FindOverlappingPeriods(ctx context.Context, organizationID string, startDate, endDate time.Time) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE organization_id = $1 AND start_date <= $3 AND end_date >= $2
		ORDER BY start_date;
	`
	return r.queryPeriods(ctx, query, organizationID, startDate, endDate)
}

// ListPeriods retrieves all periods of an organization ordered by start date.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, organizationID string) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE organization_id = $1
		ORDER BY start_date;
	`
	return r.queryPeriods(ctx, query, organizationID)
}

// ListActivePeriods retrieves the open periods of an organization.
func (r *PgxPeriodRepository) ListActivePeriods(ctx context.Context, organizationID string) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE organization_id = $1 AND is_active = TRUE
		ORDER BY start_date;
	`
	return r.queryPeriods(ctx, query, organizationID)
}

// UpdatePeriodStatus opens or closes a period.
func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, isActive bool, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE accounting_periods
		SET is_active = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE period_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, periodID, isActive, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for accounting period "+periodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("accounting period " + periodID + " not found for update")
	}
	return nil
}
