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
	"github.com/sorahq/ledger-api/internal/platform/events"
	"github.com/sorahq/ledger-api/internal/utils/accounting"
)

var (
	ErrEntryUnbalanced  = errors.New("entry debits and credits do not balance")
	ErrEntryMinLines    = errors.New("entry must have at least two lines")
	ErrInvalidAccount   = errors.New("account is unknown, inactive or belongs to another organization")
	ErrEntryNotEditable = errors.New("entry is no longer editable")
	ErrInvalidStatus    = errors.New("entry is not in a status that allows this transition")
)

// journalEntryService provides the journal entry lifecycle: validation,
// numbering, period resolution and status transitions.
type journalEntryService struct {
	entryRepo   portsrepo.JournalEntryRepositoryFacade
	accountRepo portsrepo.AccountReader
	periodSvc   portssvc.PeriodService
	orgSvc      portssvc.OrganizationService
	publisher   events.Publisher
}

// NewJournalEntryService creates a new JournalEntryService.
func NewJournalEntryService(entryRepo portsrepo.JournalEntryRepositoryFacade, accountRepo portsrepo.AccountReader, periodSvc portssvc.PeriodService, orgSvc portssvc.OrganizationService, publisher events.Publisher) portssvc.JournalEntryService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &journalEntryService{
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		periodSvc:   periodSvc,
		orgSvc:      orgSvc,
		publisher:   publisher,
	}
}

// Ensure journalEntryService implements the portssvc.JournalEntryService interface
var _ portssvc.JournalEntryService = (*journalEntryService)(nil)

// validateLineAmounts checks the per-line amount invariants: no negative
// amounts and no line where both sides are zero.
func validateLineAmounts(lines []portssvc.CreateEntryLineInput) error {
	for i, line := range lines {
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
			return fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, i+1)
		}
		if line.DebitAmount.IsZero() && line.CreditAmount.IsZero() {
			return fmt.Errorf("%w: line %d has neither a debit nor a credit amount", apperrors.ErrValidation, i+1)
		}
	}
	return nil
}

// buildLines converts line inputs into domain lines for the given entry,
// assigning line IDs and 1-based line numbers in input order.
func buildLines(entryID string, inputs []portssvc.CreateEntryLineInput, userID string, now time.Time) []domain.JournalEntryLine {
	lines := make([]domain.JournalEntryLine, len(inputs))
	for i, in := range inputs {
		lines[i] = domain.JournalEntryLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    in.AccountID,
			LineNumber:   i + 1,
			DebitAmount:  in.DebitAmount,
			CreditAmount: in.CreditAmount,
			Description:  in.Description,
			TaxRate:      in.TaxRate,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return lines
}

// validateEntryLines runs the full line validation for an organization:
// minimum count, amount invariants, balance, and account existence.
func (s *journalEntryService) validateEntryLines(ctx context.Context, organizationID string, inputs []portssvc.CreateEntryLineInput) error {
	if len(inputs) < 2 {
		return ErrEntryMinLines
	}
	if err := validateLineAmounts(inputs); err != nil {
		return err
	}

	probe := make([]domain.JournalEntryLine, len(inputs))
	accountIDs := make([]string, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for i, in := range inputs {
		probe[i] = domain.JournalEntryLine{DebitAmount: in.DebitAmount, CreditAmount: in.CreditAmount}
		if !seen[in.AccountID] {
			seen[in.AccountID] = true
			accountIDs = append(accountIDs, in.AccountID)
		}
	}

	if !accounting.IsBalanced(probe) {
		totalDebit, totalCredit := accounting.SumAmounts(probe)
		return fmt.Errorf("%w: debits %s, credits %s", ErrEntryUnbalanced, totalDebit.String(), totalCredit.String())
	}

	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, organizationID, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range accountIDs {
		acc, found := accountsMap[id]
		if !found {
			return fmt.Errorf("%w: %s", ErrInvalidAccount, id)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: %s is inactive", ErrInvalidAccount, id)
		}
	}

	return nil
}

// resolveOpenPeriod resolves the period covering the date and verifies it is open.
func (s *journalEntryService) resolveOpenPeriod(ctx context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error) {
	period, err := s.periodSvc.ResolvePeriodForDate(ctx, organizationID, date)
	if err != nil {
		return nil, err
	}
	if !period.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrPeriodClosed, period.Name)
	}
	return period, nil
}

// CreateEntry validates, numbers and persists a new DRAFT entry.
func (s *journalEntryService) CreateEntry(ctx context.Context, organizationID, userID string, input portssvc.CreateEntryInput) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for CreateEntry", slog.String("user_id", userID), slog.String("organization_id", organizationID))
		return nil, err
	}

	if input.EntryDate.IsZero() {
		return nil, fmt.Errorf("%w: entry date is required", apperrors.ErrValidation)
	}

	if err := s.validateEntryLines(ctx, organizationID, input.Lines); err != nil {
		return nil, err
	}

	period, err := s.resolveOpenPeriod(ctx, organizationID, input.EntryDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	entry := domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: organizationID,
		PeriodID:       period.PeriodID,
		EntryDate:      input.EntryDate,
		Description:    input.Description,
		DocumentNumber: input.DocumentNumber,
		PartnerID:      input.PartnerID,
		Status:         domain.Draft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	lines := buildLines(entryID, input.Lines, userID, now)

	// The entry number is assigned inside the insert transaction so concurrent
	// creates for the same month cannot collide.
	saved, err := s.entryRepo.SaveEntry(ctx, entry, lines)
	if err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, err
	}

	return saved, nil
}

// GetEntryByID retrieves an entry with its lines, scoped to the organization.
func (s *journalEntryService) GetEntryByID(ctx context.Context, organizationID, userID, entryID string) (*domain.JournalEntry, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin, domain.RoleMember, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.OrganizationID != organizationID {
		// Other tenants' entry IDs look nonexistent.
		return nil, apperrors.ErrNotFound
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines

	return entry, nil
}

// ListEntries retrieves a page of entries for the organization.
func (s *journalEntryService) ListEntries(ctx context.Context, organizationID, userID string, limit int, nextToken *string, status *domain.EntryStatus) ([]domain.JournalEntry, *string, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin, domain.RoleMember, domain.RoleReadOnly); err != nil {
		return nil, nil, err
	}

	if status != nil && *status != domain.Draft && *status != domain.Approved {
		return nil, nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, *status)
	}

	return s.entryRepo.ListEntriesByOrganization(ctx, organizationID, limit, nextToken, status)
}

// UpdateEntry modifies a DRAFT entry, re-validating balance and period when
// lines or date change. The entry number assigned at creation never changes,
// even when the new date falls in a different month.
func (s *journalEntryService) UpdateEntry(ctx context.Context, organizationID, userID, entryID string, input portssvc.UpdateEntryInput) (*domain.JournalEntry, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin, domain.RoleMember); err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	if !entry.Status.IsEditable() {
		return nil, ErrEntryNotEditable
	}

	now := time.Now().UTC()
	dateChanged := false
	if input.EntryDate != nil && !input.EntryDate.Equal(entry.EntryDate) {
		entry.EntryDate = *input.EntryDate
		dateChanged = true
	}
	if input.Description != nil {
		entry.Description = *input.Description
	}
	if input.DocumentNumber != nil {
		entry.DocumentNumber = *input.DocumentNumber
	}
	if input.PartnerID != nil {
		entry.PartnerID = input.PartnerID
	}

	if dateChanged {
		period, err := s.resolveOpenPeriod(ctx, organizationID, entry.EntryDate)
		if err != nil {
			return nil, err
		}
		entry.PeriodID = period.PeriodID
	}

	replaceLines := input.Lines != nil
	var lines []domain.JournalEntryLine
	if replaceLines {
		if err := s.validateEntryLines(ctx, organizationID, input.Lines); err != nil {
			return nil, err
		}
		lines = buildLines(entryID, input.Lines, userID, now)
	}

	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if err := s.entryRepo.UpdateEntry(ctx, *entry, lines, replaceLines); err != nil {
		return nil, err
	}

	if !replaceLines {
		lines, err = s.entryRepo.FindLinesByEntryID(ctx, entryID)
		if err != nil {
			return nil, err
		}
	}
	entry.Lines = lines

	return entry, nil
}

// DeleteEntry removes a DRAFT entry and its lines.
func (s *journalEntryService) DeleteEntry(ctx context.Context, organizationID, userID, entryID string) error {
	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin, domain.RoleMember); err != nil {
		return err
	}

	err := s.entryRepo.DeleteEntry(ctx, organizationID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return ErrEntryNotEditable
		}
		return err
	}
	return nil
}

// ApproveEntry transitions a DRAFT entry to APPROVED. The entry keeps the
// period resolved at creation; approval does not re-resolve it.
func (s *journalEntryService) ApproveEntry(ctx context.Context, organizationID, userID, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin, domain.RoleMember); err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: current status is %s", ErrInvalidStatus, entry.Status)
	}

	// Approval re-checks the persisted lines, not whatever the caller last saw.
	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !accounting.IsBalanced(lines) {
		totalDebit, totalCredit := accounting.SumAmounts(lines)
		return nil, fmt.Errorf("%w: debits %s, credits %s", ErrEntryUnbalanced, totalDebit.String(), totalCredit.String())
	}

	now := time.Now().UTC()
	// The WHERE status = 'DRAFT' guard in the repository makes the transition
	// atomic; a concurrent approval loses with ErrConflict.
	if err := s.entryRepo.UpdateEntryStatus(ctx, entryID, domain.Approved, userID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: entry was already approved", ErrInvalidStatus)
		}
		return nil, err
	}

	entry.Status = domain.Approved
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	entry.Lines = lines

	// Event publishing is best effort; the approval itself is already durable.
	event := events.EntryApprovedEvent{
		EntryID:        entry.EntryID,
		OrganizationID: entry.OrganizationID,
		EntryNumber:    entry.EntryNumber,
		PeriodID:       entry.PeriodID,
		ApprovedBy:     userID,
		ApprovedAt:     now,
	}
	if err := s.publisher.PublishEntryApproved(ctx, event); err != nil {
		logger.Error("Failed to publish entry approved event", slog.String("error", err.Error()), slog.String("entry_id", entry.EntryID))
	}

	return entry, nil
}
