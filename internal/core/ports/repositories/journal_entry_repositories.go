package repositories

import (
	"context"
	"time"

	"github.com/sorahq/ledger-api/internal/core/domain"
)

// JournalEntryReader defines read operations for journal entry data.
type JournalEntryReader interface {
	// FindEntryByID retrieves a journal entry header by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines of an entry ordered by line number.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)

	// ListEntriesByOrganization retrieves a paginated list of entries for an
	// organization using token-based pagination, optionally filtered by status.
	ListEntriesByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string, status *domain.EntryStatus) ([]domain.JournalEntry, *string, error)

	// FindLastEntryNumbers returns the highest persisted entry number per
	// YYYYMM prefix for the organization. Prefixes with no entries are absent
	// from the result map.
	FindLastEntryNumbers(ctx context.Context, organizationID string, prefixes []string) (map[string]string, error)
}

// JournalEntryWriter defines write operations for journal entry data.
type JournalEntryWriter interface {
	// SaveEntry persists a new entry header and its lines atomically. The entry
	// number is assigned inside the same transaction as the insert and returned
	// on the persisted entry.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) (*domain.JournalEntry, error)

	// SaveEntriesBatch persists multiple entries (each carrying pre-assigned
	// entry numbers and lines) in one all-or-nothing transaction.
	SaveEntriesBatch(ctx context.Context, entries []domain.JournalEntry) error

	// UpdateEntry updates header fields and, when replaceLines is set, deletes
	// all existing lines and recreates the given ones inside one transaction.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine, replaceLines bool) error

	// DeleteEntry removes a DRAFT entry and its lines, re-verifying scope and
	// status inside the delete transaction.
	DeleteEntry(ctx context.Context, organizationID, entryID string) error

	// UpdateEntryStatus transitions a DRAFT entry to the given status.
	UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error
}

// JournalEntryRepositoryFacade combines all journal-entry repository interfaces.
type JournalEntryRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
}
