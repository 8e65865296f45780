package services

import (
	"context"

	"github.com/sorahq/ledger-api/internal/core/domain"
)

// CreateAccountInput carries the fields needed to create an account.
type CreateAccountInput struct {
	Code        string
	Name        string
	AccountType domain.AccountType
	Description string
}

// UpdateAccountInput carries the mutable fields of an account. Nil pointer
// fields are left unchanged.
type UpdateAccountInput struct {
	Name        *string
	Description *string
}

// AccountService defines the business logic for the chart of accounts.
type AccountService interface {
	// CreateAccount creates a new active account.
	CreateAccount(ctx context.Context, organizationID, userID string, input CreateAccountInput) (*domain.Account, error)

	// GetAccountByID retrieves an account scoped to the organization.
	GetAccountByID(ctx context.Context, organizationID, userID, accountID string) (*domain.Account, error)

	// ListAccounts retrieves accounts of the organization.
	ListAccounts(ctx context.Context, organizationID, userID string, limit int, offset int) ([]domain.Account, error)

	// UpdateAccount modifies an account.
	UpdateAccount(ctx context.Context, organizationID, userID, accountID string, input UpdateAccountInput) (*domain.Account, error)

	// DeactivateAccount marks an account inactive. Existing journal lines keep
	// referencing it; new entries may not.
	DeactivateAccount(ctx context.Context, organizationID, userID, accountID string) error
}
