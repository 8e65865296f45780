package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sorahq/ledger-api/internal/apperrors"
	"github.com/sorahq/ledger-api/internal/core/domain"
	portsrepo "github.com/sorahq/ledger-api/internal/core/ports/repositories"
	portssvc "github.com/sorahq/ledger-api/internal/core/ports/services"
	"github.com/sorahq/ledger-api/internal/middleware"
)

var (
	ErrAccountCodeTaken   = errors.New("account code is already in use")
	ErrInvalidAccountType = errors.New("invalid account type")
)

// accountService provides chart of accounts operations.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	orgSvc      portssvc.OrganizationService
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, orgSvc portssvc.OrganizationService) portssvc.AccountService {
	return &accountService{
		accountRepo: accountRepo,
		orgSvc:      orgSvc,
	}
}

// Ensure accountService implements the portssvc.AccountService interface
var _ portssvc.AccountService = (*accountService)(nil)

func validAccountType(t domain.AccountType) bool {
	switch t {
	case domain.Asset, domain.Liability, domain.Equity, domain.Revenue, domain.Expense:
		return true
	}
	return false
}

// CreateAccount creates a new active account.
func (s *accountService) CreateAccount(ctx context.Context, organizationID, userID string, input portssvc.CreateAccountInput) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin, domain.RoleMember); err != nil {
		return nil, err
	}

	if input.Code == "" || input.Name == "" {
		return nil, fmt.Errorf("%w: account code and name are required", apperrors.ErrValidation)
	}
	if !validAccountType(input.AccountType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAccountType, input.AccountType)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: organizationID,
		Code:           input.Code,
		Name:           input.Name,
		AccountType:    input.AccountType,
		Description:    input.Description,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrDuplicate, ErrAccountCodeTaken)
		}
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, err
	}

	return &account, nil
}

// GetAccountByID retrieves an account scoped to the organization.
func (s *accountService) GetAccountByID(ctx context.Context, organizationID, userID, accountID string) (*domain.Account, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin, domain.RoleMember, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.OrganizationID != organizationID {
		// Other tenants' account IDs look nonexistent.
		return nil, apperrors.ErrNotFound
	}

	return account, nil
}

// ListAccounts retrieves accounts of the organization.
func (s *accountService) ListAccounts(ctx context.Context, organizationID, userID string, limit int, offset int) ([]domain.Account, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin, domain.RoleMember, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.accountRepo.ListAccounts(ctx, organizationID, limit, offset)
}

// UpdateAccount modifies an account.
func (s *accountService) UpdateAccount(ctx context.Context, organizationID, userID, accountID string, input portssvc.UpdateAccountInput) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, organizationID, userID, accountID)
	if err != nil {
		return nil, err
	}

	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin, domain.RoleMember); err != nil {
		return nil, err
	}

	if input.Name != nil {
		account.Name = *input.Name
	}
	if input.Description != nil {
		account.Description = *input.Description
	}
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		return nil, err
	}

	return account, nil
}

// DeactivateAccount marks an account inactive. Existing journal lines keep
// referencing it; new entries may not.
func (s *accountService) DeactivateAccount(ctx context.Context, organizationID, userID, accountID string) error {
	if _, err := s.GetAccountByID(ctx, organizationID, userID, accountID); err != nil {
		return err
	}

	if err := s.orgSvc.AuthorizeUserAction(ctx, organizationID, userID, domain.RoleAdmin); err != nil {
		return err
	}

	return s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now().UTC())
}
