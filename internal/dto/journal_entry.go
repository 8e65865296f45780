package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sorahq/ledger-api/internal/core/domain"
)

// CreateJournalEntryLineRequest carries one line of an entry being created or replaced.
type CreateJournalEntryLineRequest struct {
	AccountID    string           `json:"accountID" binding:"required"`
	DebitAmount  decimal.Decimal  `json:"debitAmount"`
	CreditAmount decimal.Decimal  `json:"creditAmount"`
	Description  string           `json:"description,omitempty"`
	TaxRate      *decimal.Decimal `json:"taxRate,omitempty"`
}

// CreateJournalEntryRequest carries the fields to create a journal entry.
type CreateJournalEntryRequest struct {
	EntryDate      time.Time                       `json:"entryDate" binding:"required"`
	Description    string                          `json:"description" binding:"required"`
	DocumentNumber string                          `json:"documentNumber,omitempty"`
	PartnerID      *string                         `json:"partnerID,omitempty"`
	Lines          []CreateJournalEntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateJournalEntryRequest carries a journal entry update. Omitted fields are
// left unchanged; omitting lines keeps the existing lines.
type UpdateJournalEntryRequest struct {
	EntryDate      *time.Time                      `json:"entryDate,omitempty"`
	Description    *string                         `json:"description,omitempty"`
	DocumentNumber *string                         `json:"documentNumber,omitempty"`
	PartnerID      *string                         `json:"partnerID,omitempty"`
	Lines          []CreateJournalEntryLineRequest `json:"lines,omitempty" binding:"omitempty,min=2,dive"`
}

// JournalEntryLineResponse defines the data returned for an entry line.
type JournalEntryLineResponse struct {
	LineID       string           `json:"lineID"`
	AccountID    string           `json:"accountID"`
	LineNumber   int              `json:"lineNumber"`
	DebitAmount  decimal.Decimal  `json:"debitAmount"`
	CreditAmount decimal.Decimal  `json:"creditAmount"`
	Description  string           `json:"description,omitempty"`
	TaxRate      *decimal.Decimal `json:"taxRate,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID        string                     `json:"entryID"`
	EntryNumber    string                     `json:"entryNumber"`
	PeriodID       string                     `json:"periodID"`
	EntryDate      time.Time                  `json:"entryDate"`
	Description    string                     `json:"description"`
	DocumentNumber string                     `json:"documentNumber,omitempty"`
	PartnerID      *string                    `json:"partnerID,omitempty"`
	Status         string                     `json:"status"`
	Lines          []JournalEntryLineResponse `json:"lines,omitempty"`
	CreatedAt      time.Time                  `json:"createdAt"`
	CreatedBy      string                     `json:"createdBy"`
}

// ListJournalEntriesResponse wraps a page of journal entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ImportResultResponse reports a successful bulk import.
type ImportResultResponse struct {
	EntriesCreated int `json:"entriesCreated"`
	RowsRead       int `json:"rowsRead"`
}

// ImportFailureResponse reports a rejected bulk import with per-row failures.
type ImportFailureResponse struct {
	Code  string                  `json:"code"`
	Error string                  `json:"error"`
	Rows  []domain.ImportRowError `json:"rows"`
}

// ToJournalEntryLineResponse converts a domain line to its DTO.
func ToJournalEntryLineResponse(l *domain.JournalEntryLine) JournalEntryLineResponse {
	return JournalEntryLineResponse{
		LineID:       l.LineID,
		AccountID:    l.AccountID,
		LineNumber:   l.LineNumber,
		DebitAmount:  l.DebitAmount,
		CreditAmount: l.CreditAmount,
		Description:  l.Description,
		TaxRate:      l.TaxRate,
	}
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalEntryLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = ToJournalEntryLineResponse(&l)
	}
	return JournalEntryResponse{
		EntryID:        e.EntryID,
		EntryNumber:    e.EntryNumber,
		PeriodID:       e.PeriodID,
		EntryDate:      e.EntryDate,
		Description:    e.Description,
		DocumentNumber: e.DocumentNumber,
		PartnerID:      e.PartnerID,
		Status:         string(e.Status),
		Lines:          lines,
		CreatedAt:      e.CreatedAt,
		CreatedBy:      e.CreatedBy,
	}
}

// ToListJournalEntriesResponse converts a page of entries to the list response.
func ToListJournalEntriesResponse(entries []domain.JournalEntry, nextToken *string) ListJournalEntriesResponse {
	responses := make([]JournalEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToJournalEntryResponse(&e)
	}
	return ListJournalEntriesResponse{Entries: responses, NextToken: nextToken}
}
