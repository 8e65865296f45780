package models

// AccountType mirrors domain.AccountType at the storage layer.
type AccountType string

// Account is the DB row shape for accounts.
type Account struct {
	AccountID      string      `db:"account_id"`
	OrganizationID string      `db:"organization_id"`
	Code           string      `db:"code"`
	Name           string      `db:"name"`
	AccountType    AccountType `db:"account_type"`
	Description    string      `db:"description"`
	IsActive       bool        `db:"is_active"`
	AuditFields
}
