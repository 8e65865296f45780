package repositories

import (
	"context"
	"time"

	"github.com/sorahq/ledger-api/internal/core/domain"
)

// PeriodReader defines read operations for accounting period data. The journal
// entry core consumes this as its period directory.
type PeriodReader interface {
	// FindPeriodByID retrieves a period by its ID.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)

	// FindPeriodsCovering retrieves every period of the organization whose date
	// range contains the given date. Multiple results indicate overlapping
	// periods; the caller tie-breaks.
	FindPeriodsCovering(ctx context.Context, organizationID string, date time.Time) ([]domain.AccountingPeriod, error)

	// FindOverlappingPeriods retrieves periods intersecting [startDate, endDate].
	FindOverlappingPeriods(ctx context.Context, organizationID string, startDate, endDate time.Time) ([]domain.AccountingPeriod, error)

	// ListPeriods retrieves all periods of an organization ordered by start date.
	ListPeriods(ctx context.Context, organizationID string) ([]domain.AccountingPeriod, error)

	// ListActivePeriods retrieves the open periods of an organization.
	ListActivePeriods(ctx context.Context, organizationID string) ([]domain.AccountingPeriod, error)
}

// PeriodWriter defines write operations for accounting period data.
type PeriodWriter interface {
	// SavePeriod inserts a new accounting period.
	SavePeriod(ctx context.Context, period domain.AccountingPeriod) error

	// UpdatePeriodStatus opens or closes a period.
	UpdatePeriodStatus(ctx context.Context, periodID string, isActive bool, updatedBy string, updatedAt time.Time) error
}

// PeriodRepositoryFacade combines all period repository interfaces.
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
