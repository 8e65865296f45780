package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sorahq/ledger-api/internal/core/domain"
)

// CreateEntryLineInput carries one line of a journal entry being created or
// replaced.
type CreateEntryLineInput struct {
	AccountID    string
	DebitAmount  decimal.Decimal
	CreditAmount decimal.Decimal
	Description  string
	TaxRate      *decimal.Decimal
}

// CreateEntryInput carries the fields needed to create a journal entry.
type CreateEntryInput struct {
	EntryDate      time.Time
	Description    string
	DocumentNumber string
	PartnerID      *string
	Lines          []CreateEntryLineInput
}

// UpdateEntryInput carries the fields of a journal entry update. Nil pointer
// fields are left unchanged; a nil Lines slice keeps the existing lines.
type UpdateEntryInput struct {
	EntryDate      *time.Time
	Description    *string
	DocumentNumber *string
	PartnerID      *string
	Lines          []CreateEntryLineInput
}

// JournalEntryService defines the business logic of the journal entry
// lifecycle: validation, numbering, period resolution and status transitions.
type JournalEntryService interface {
	// CreateEntry validates, numbers and persists a new DRAFT entry.
	CreateEntry(ctx context.Context, organizationID, userID string, input CreateEntryInput) (*domain.JournalEntry, error)

	// GetEntryByID retrieves an entry with its lines, scoped to the organization.
	GetEntryByID(ctx context.Context, organizationID, userID, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entries for the organization.
	ListEntries(ctx context.Context, organizationID, userID string, limit int, nextToken *string, status *domain.EntryStatus) ([]domain.JournalEntry, *string, error)

	// UpdateEntry modifies a DRAFT entry, re-validating balance and period when
	// lines or date change.
	UpdateEntry(ctx context.Context, organizationID, userID, entryID string, input UpdateEntryInput) (*domain.JournalEntry, error)

	// DeleteEntry removes a DRAFT entry and its lines.
	DeleteEntry(ctx context.Context, organizationID, userID, entryID string) error

	// ApproveEntry transitions a DRAFT entry to APPROVED.
	ApproveEntry(ctx context.Context, organizationID, userID, entryID string) (*domain.JournalEntry, error)
}

// JournalImportService defines the CSV bulk import of journal entries.
type JournalImportService interface {
	// ImportEntries parses simplified two-line entries from CSV data and
	// persists them all-or-nothing.
	ImportEntries(ctx context.Context, organizationID, userID string, csvData []byte) (*domain.ImportResult, error)
}
