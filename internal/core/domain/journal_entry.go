package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Approved EntryStatus = "APPROVED"
)

// IsEditable reports whether the entry in this status may still be mutated or deleted.
// APPROVED is terminal; no transition leaves it.
func (s EntryStatus) IsEditable() bool {
	return s == Draft
}

// JournalEntry is the transactional header of one balanced business event.
// EntryNumber is derived from the entry date (YYYYMM + 4 digit sequence) and is
// immutable once assigned.
type JournalEntry struct {
	EntryID        string             `json:"entryID"`        // Primary Key (UUID)
	OrganizationID string             `json:"organizationID"` // FK -> organizations (Not Null)
	PeriodID       string             `json:"periodID"`       // FK -> accounting_periods (Not Null)
	EntryNumber    string             `json:"entryNumber"`    // Unique per organization, e.g. "2024030007"
	EntryDate      time.Time          `json:"entryDate"`
	Description    string             `json:"description"`
	DocumentNumber string             `json:"documentNumber,omitempty"`
	PartnerID      *string            `json:"partnerID,omitempty"` // Optional FK -> partners
	Status         EntryStatus        `json:"status"`
	Lines          []JournalEntryLine `json:"lines,omitempty"` // Often loaded separately
	AuditFields
}

// JournalEntryLine is one debit-or-credit leg of an entry, tied to one account.
// Both amounts are non-negative; within a line typically exactly one is non-zero.
type JournalEntryLine struct {
	LineID       string           `json:"lineID"`  // Primary Key (UUID)
	EntryID      string           `json:"entryID"` // FK -> journal_entries (Not Null)
	AccountID    string           `json:"accountID"`
	LineNumber   int              `json:"lineNumber"` // 1-based, order preserving
	DebitAmount  decimal.Decimal  `json:"debitAmount"`
	CreditAmount decimal.Decimal  `json:"creditAmount"`
	Description  string           `json:"description"`
	TaxRate      *decimal.Decimal `json:"taxRate,omitempty"`
	AuditFields
}
