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
	ErrNoAccountingPeriod  = errors.New("no accounting period covers the entry date")
	ErrPeriodClosed        = errors.New("accounting period is closed")
	ErrPeriodOverlap       = errors.New("period overlaps an existing accounting period")
	ErrPeriodRangeInvalid  = errors.New("period start date must not be after end date")
	ErrPeriodAlreadyClosed = errors.New("accounting period is already closed")
	ErrPeriodAlreadyOpen   = errors.New("accounting period is already open")
)

// periodService provides accounting period operations, including the
// date-to-period resolution used when posting journal entries.
type periodService struct {
	periodRepo portsrepo.PeriodRepositoryFacade
	orgSvc     portssvc.OrganizationService
}

// NewPeriodService creates a new PeriodService.
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade, orgSvc portssvc.OrganizationService) portssvc.PeriodService {
	return &periodService{
		periodRepo: periodRepo,
		orgSvc:     orgSvc,
	}
}

// Ensure periodService implements the portssvc.PeriodService interface
var _ portssvc.PeriodService = (*periodService)(nil)

// CreatePeriod creates a new open period, rejecting ranges that overlap an
// existing period of the organization.
func (s *periodService) CreatePeriod(ctx context.Context, organizationID, userID string, input portssvc.CreatePeriodInput) (*domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	if input.Name == "" {
		return nil, fmt.Errorf("%w: period name is required", apperrors.ErrValidation)
	}
	if input.StartDate.After(input.EndDate) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrPeriodRangeInvalid)
	}

	overlapping, err := s.periodRepo.FindOverlappingPeriods(ctx, organizationID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, fmt.Errorf("%w: conflicts with %q", ErrPeriodOverlap, overlapping[0].Name)
	}

	now := time.Now().UTC()
	period := domain.AccountingPeriod{
		PeriodID:       uuid.NewString(),
		OrganizationID: organizationID,
		Name:           input.Name,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		logger.Error("Failed to save accounting period", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, err
	}

	return &period, nil
}

// GetPeriodByID retrieves a period scoped to the organization.
func (s *periodService) GetPeriodByID(ctx context.Context, organizationID, userID, periodID string) (*domain.AccountingPeriod, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin, domain.RoleMember, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	return period, nil
}

// ListPeriods retrieves all periods of the organization.
func (s *periodService) ListPeriods(ctx context.Context, organizationID, userID string) ([]domain.AccountingPeriod, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin, domain.RoleMember, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.periodRepo.ListPeriods(ctx, organizationID)
}

// ResolvePeriodForDate finds the period covering the date. When overlapping
// periods both cover it, an open period wins over a closed one; among equally
// eligible candidates the earliest start date wins, keeping resolution
// deterministic.
func (s *periodService) ResolvePeriodForDate(ctx context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error) {
	candidates, err := s.periodRepo.FindPeriodsCovering(ctx, organizationID, date)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoAccountingPeriod
	}

	// Candidates arrive ordered by start date, so the first active one is the
	// deterministic winner.
	for i := range candidates {
		if candidates[i].IsActive {
			return &candidates[i], nil
		}
	}

	// Every covering period is closed; return the first so the caller can
	// report the closed-period condition for a concrete period.
	return &candidates[0], nil
}

// ClosePeriod marks a period closed so no further entries can be posted to it.
func (s *periodService) ClosePeriod(ctx context.Context, organizationID, userID, periodID string) error {
	period, err := s.GetPeriodByID(ctx, organizationID, userID, periodID)
	if err != nil {
		return err
	}

	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin); err != nil {
		return err
	}

	if !period.IsActive {
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrPeriodAlreadyClosed)
	}

	return s.periodRepo.UpdatePeriodStatus(ctx, periodID, false, userID, time.Now().UTC())
}

// ReopenPeriod marks a closed period open again.
func (s *periodService) ReopenPeriod(ctx context.Context, organizationID, userID, periodID string) error {
	period, err := s.GetPeriodByID(ctx, organizationID, userID, periodID)
	if err != nil {
		return err
	}

	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin); err != nil {
		return err
	}

	if period.IsActive {
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrPeriodAlreadyOpen)
	}

	return s.periodRepo.UpdatePeriodStatus(ctx, periodID, true, userID, time.Now().UTC())
}
