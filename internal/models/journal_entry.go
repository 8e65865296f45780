package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus mirrors domain.EntryStatus at the storage layer.
type EntryStatus string

// JournalEntry is the DB row shape for journal entry headers.
type JournalEntry struct {
	EntryID        string      `db:"entry_id"`
	OrganizationID string      `db:"organization_id"`
	PeriodID       string      `db:"period_id"`
	EntryNumber    string      `db:"entry_number"`
	EntryDate      time.Time   `db:"entry_date"`
	Description    string      `db:"description"`
	DocumentNumber string      `db:"document_number"`
	PartnerID      *string     `db:"partner_id"`
	Status         EntryStatus `db:"status"`
	AuditFields
}

// JournalEntryLine is the DB row shape for journal entry lines.
type JournalEntryLine struct {
	LineID       string           `db:"line_id"`
	EntryID      string           `db:"entry_id"`
	AccountID    string           `db:"account_id"`
	LineNumber   int              `db:"line_number"`
	DebitAmount  decimal.Decimal  `db:"debit_amount"`
	CreditAmount decimal.Decimal  `db:"credit_amount"`
	Description  string           `db:"description"`
	TaxRate      *decimal.Decimal `db:"tax_rate"`
	AuditFields
}
