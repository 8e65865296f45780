package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sorahq/ledger-api/internal/apperrors"
	"github.com/sorahq/ledger-api/internal/core/domain"
	portsrepo "github.com/sorahq/ledger-api/internal/core/ports/repositories"
	portssvc "github.com/sorahq/ledger-api/internal/core/ports/services"
	"github.com/sorahq/ledger-api/internal/middleware"
	"github.com/sorahq/ledger-api/internal/utils/accounting"
)

// importDateLayout is the entry date format accepted in CSV imports.
const importDateLayout = "2006-01-02"

// ErrImportFailed wraps per-row failures of a bulk import. The import is
// all-or-nothing: one bad row rejects the whole file.
var ErrImportFailed = errors.New("import rejected")

// ImportRowsError carries the individual row failures of a rejected import.
type ImportRowsError struct {
	Rows []domain.ImportRowError
}

func (e *ImportRowsError) Error() string {
	return fmt.Sprintf("%s: %d row(s) failed validation", ErrImportFailed, len(e.Rows))
}

func (e *ImportRowsError) Unwrap() error {
	return ErrImportFailed
}

// importService builds journal entries from simplified CSV rows. Each row is
// one two-line entry: one debit leg and one credit leg of the same amount.
type importService struct {
	entryRepo   portsrepo.JournalEntryRepositoryFacade
	accountRepo portsrepo.AccountReader
	periodSvc   portssvc.PeriodService
	orgSvc      portssvc.OrganizationService
}

// NewImportService creates a new JournalImportService.
func NewImportService(entryRepo portsrepo.JournalEntryRepositoryFacade, accountRepo portsrepo.AccountReader, periodSvc portssvc.PeriodService, orgSvc portssvc.OrganizationService) portssvc.JournalImportService {
	return &importService{
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		periodSvc:   periodSvc,
		orgSvc:      orgSvc,
	}
}

// Ensure importService implements the portssvc.JournalImportService interface
var _ portssvc.JournalImportService = (*importService)(nil)

// parsedRow is one validated CSV row before persistence.
type parsedRow struct {
	date          time.Time
	debitAccount  domain.Account
	creditAccount domain.Account
	amount        decimal.Decimal
	description   string
	periodID      string
}

// ImportEntries parses simplified two-line entries from CSV data and persists
// them all-or-nothing. Expected columns: date, debit account name, credit
// account name, amount, description (optional).
func (s *importService) ImportEntries(ctx context.Context, organizationID, userID string, csvData []byte) (*domain.ImportResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin, domain.RoleMember); err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(csvData))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed CSV: %s", apperrors.ErrValidation, err.Error())
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: file is empty", apperrors.ErrValidation)
	}

	// The first row is a header when its date column does not parse as a date.
	dataRows := records
	if len(records[0]) == 0 {
		dataRows = records[1:]
	} else if _, err := time.Parse(importDateLayout, strings.TrimSpace(records[0][0])); err != nil {
		dataRows = records[1:]
	}
	if len(dataRows) == 0 {
		return nil, fmt.Errorf("%w: file has no data rows", apperrors.ErrValidation)
	}

	// Preload the account directory once; imports reference accounts by name.
	activeAccounts, err := s.accountRepo.ListActiveAccounts(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	accountsByName := make(map[string]domain.Account, len(activeAccounts))
	for _, acc := range activeAccounts {
		accountsByName[acc.Name] = acc
	}

	periodCache := make(map[string]*domain.AccountingPeriod)
	rowErrs := []domain.ImportRowError{}
	parsed := make([]parsedRow, 0, len(dataRows))

	for i, record := range dataRows {
		rowNum := i + 1
		fail := func(msg string) {
			rowErrs = append(rowErrs, domain.ImportRowError{Row: rowNum, Message: msg})
		}

		if len(record) < 4 {
			fail("expected at least 4 columns: date, debit account, credit account, amount")
			continue
		}

		date, err := time.Parse(importDateLayout, strings.TrimSpace(record[0]))
		if err != nil {
			fail(fmt.Sprintf("invalid date %q: expected %s", record[0], importDateLayout))
			continue
		}

		debitName := strings.TrimSpace(record[1])
		creditName := strings.TrimSpace(record[2])
		debitAccount, debitOK := accountsByName[debitName]
		if !debitOK {
			fail(fmt.Sprintf("unknown debit account %q", debitName))
			continue
		}
		creditAccount, creditOK := accountsByName[creditName]
		if !creditOK {
			fail(fmt.Sprintf("unknown credit account %q", creditName))
			continue
		}
		if debitAccount.AccountID == creditAccount.AccountID {
			fail(fmt.Sprintf("debit and credit account are both %q", debitName))
			continue
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(record[3]))
		if err != nil {
			fail(fmt.Sprintf("invalid amount %q", record[3]))
			continue
		}
		if !amount.IsPositive() {
			fail(fmt.Sprintf("amount must be positive, got %s", amount.String()))
			continue
		}

		description := ""
		if len(record) > 4 {
			description = strings.TrimSpace(record[4])
		}

		// Resolve the period once per distinct date.
		dateKey := date.Format(importDateLayout)
		period, cached := periodCache[dateKey]
		if !cached {
			period, err = s.periodSvc.ResolvePeriodForDate(ctx, organizationID, date)
			if err != nil {
				if errors.Is(err, ErrNoAccountingPeriod) {
					fail(fmt.Sprintf("no accounting period covers %s", dateKey))
					continue
				}
				return nil, err
			}
			periodCache[dateKey] = period
		}
		if !period.IsActive {
			fail(fmt.Sprintf("accounting period %q for %s is closed", period.Name, dateKey))
			continue
		}

		parsed = append(parsed, parsedRow{
			date:          date,
			debitAccount:  debitAccount,
			creditAccount: creditAccount,
			amount:        amount,
			description:   description,
			periodID:      period.PeriodID,
		})
	}

	if len(rowErrs) > 0 {
		return nil, &ImportRowsError{Rows: rowErrs}
	}

	entries, err := s.buildEntries(ctx, organizationID, userID, parsed)
	if err != nil {
		return nil, err
	}

	if err := s.entryRepo.SaveEntriesBatch(ctx, entries); err != nil {
		logger.Error("Failed to save imported entries", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, err
	}

	logger.Info("Imported journal entries", slog.Int("count", len(entries)), slog.String("organization_id", organizationID))
	return &domain.ImportResult{
		EntriesCreated: len(entries),
		RowsRead:       len(dataRows),
	}, nil
}

// buildEntries turns validated rows into numbered DRAFT entries. Entry numbers
// continue each month's persisted sequence; the unique index on
// (organization_id, entry_number) rejects the batch if a concurrent writer
// takes a number first.
func (s *importService) buildEntries(ctx context.Context, organizationID, userID string, rows []parsedRow) ([]domain.JournalEntry, error) {
	prefixSet := make(map[string]bool)
	prefixes := make([]string, 0)
	for _, row := range rows {
		prefix := accounting.EntryNumberPrefix(row.date)
		if !prefixSet[prefix] {
			prefixSet[prefix] = true
			prefixes = append(prefixes, prefix)
		}
	}

	lastNumbers, err := s.entryRepo.FindLastEntryNumbers(ctx, organizationID, prefixes)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entries := make([]domain.JournalEntry, 0, len(rows))
	for _, row := range rows {
		prefix := accounting.EntryNumberPrefix(row.date)
		entryNumber, err := accounting.NextEntryNumber(prefix, lastNumbers[prefix])
		if err != nil {
			return nil, err
		}
		lastNumbers[prefix] = entryNumber

		entryID := uuid.NewString()
		entry := domain.JournalEntry{
			EntryID:        entryID,
			OrganizationID: organizationID,
			PeriodID:       row.periodID,
			EntryNumber:    entryNumber,
			EntryDate:      row.date,
			Description:    row.description,
			Status:         domain.Draft,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		entry.Lines = []domain.JournalEntryLine{
			{
				LineID:       uuid.NewString(),
				EntryID:      entryID,
				AccountID:    row.debitAccount.AccountID,
				LineNumber:   1,
				DebitAmount:  row.amount,
				CreditAmount: decimal.Zero,
				Description:  row.description,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     userID,
					LastUpdatedAt: now,
					LastUpdatedBy: userID,
				},
			},
			{
				LineID:       uuid.NewString(),
				EntryID:      entryID,
				AccountID:    row.creditAccount.AccountID,
				LineNumber:   2,
				DebitAmount:  decimal.Zero,
				CreditAmount: row.amount,
				Description:  row.description,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     userID,
					LastUpdatedAt: now,
					LastUpdatedBy: userID,
				},
			},
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
