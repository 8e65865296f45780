package domain

import "time"

// AccountingPeriod is a date range that governs which journal entries may post.
// A closed period (IsActive=false) rejects new and edited entries dated inside it.
type AccountingPeriod struct {
	PeriodID       string    `json:"periodID"`       // Primary Key (UUID)
	OrganizationID string    `json:"organizationID"` // FK -> organizations (Not Null)
	Name           string    `json:"name"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	IsActive       bool      `json:"isActive"` // true = open for posting
	AuditFields
}

// Covers reports whether the given date falls inside the period (inclusive bounds).
// Only the calendar date matters; times are truncated before comparison.
func (p AccountingPeriod) Covers(date time.Time) bool {
	d := truncateToDay(date)
	return !d.Before(truncateToDay(p.StartDate)) && !d.After(truncateToDay(p.EndDate))
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
