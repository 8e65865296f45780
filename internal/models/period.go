package models

import "time"

// AccountingPeriod is the DB row shape for accounting periods.
type AccountingPeriod struct {
	PeriodID       string    `db:"period_id"`
	OrganizationID string    `db:"organization_id"`
	Name           string    `db:"name"`
	StartDate      time.Time `db:"start_date"`
	EndDate        time.Time `db:"end_date"`
	IsActive       bool      `db:"is_active"`
	AuditFields
}
