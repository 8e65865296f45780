package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents one bucket in the chart of accounts.
// The core reads accounts only for existence and type lookups; lifecycle is
// owned by the account service.
type Account struct {
	AccountID      string      `json:"accountID"`      // Primary Key (UUID)
	OrganizationID string      `json:"organizationID"` // FK -> organizations (Not Null)
	Code           string      `json:"code"`           // Unique per organization
	Name           string      `json:"name"`
	AccountType    AccountType `json:"accountType"`
	Description    string      `json:"description"`
	IsActive       bool        `json:"isActive"`
	AuditFields
}
