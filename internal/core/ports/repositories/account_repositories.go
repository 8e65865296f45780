package repositories

import (
	"context"
	"time"

	"github.com/sorahq/ledger-api/internal/core/domain"
)

// AccountReader defines read operations for account data. The journal entry
// core consumes this as its account directory.
type AccountReader interface {
	// FindAccountByID retrieves an account by its ID.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves accounts by id, scoped to an organization.
	// Missing ids are simply absent from the result map.
	FindAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountByName retrieves an account by its display name within an organization.
	FindAccountByName(ctx context.Context, organizationID, name string) (*domain.Account, error)

	// ListAccounts retrieves accounts for an organization.
	ListAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Account, error)

	// ListActiveAccounts retrieves every active account of an organization.
	ListActiveAccounts(ctx context.Context, organizationID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount inserts a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates mutable account fields.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account inactive.
	DeactivateAccount(ctx context.Context, accountID string, updatedBy string, updatedAt time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
