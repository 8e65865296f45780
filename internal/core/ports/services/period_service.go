package services

import (
	"context"
	"time"

	"github.com/sorahq/ledger-api/internal/core/domain"
)

// CreatePeriodInput carries the fields needed to create an accounting period.
type CreatePeriodInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// PeriodService defines the business logic for accounting periods, including
// the date-to-period resolution used when posting journal entries.
type PeriodService interface {
	// CreatePeriod creates a new open period, rejecting ranges that overlap an
	// existing period of the organization.
	CreatePeriod(ctx context.Context, organizationID, userID string, input CreatePeriodInput) (*domain.AccountingPeriod, error)

	// GetPeriodByID retrieves a period scoped to the organization.
	GetPeriodByID(ctx context.Context, organizationID, userID, periodID string) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves all periods of the organization.
	ListPeriods(ctx context.Context, organizationID, userID string) ([]domain.AccountingPeriod, error)

	// ResolvePeriodForDate finds the period covering the date, preferring an
	// open period when several match.
	ResolvePeriodForDate(ctx context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error)

	// ClosePeriod marks a period closed so no further entries can be posted to it.
	ClosePeriod(ctx context.Context, organizationID, userID, periodID string) error

	// ReopenPeriod marks a closed period open again.
	ReopenPeriod(ctx context.Context, organizationID, userID, periodID string) error
}
