package services

import (
	portsrepo "github.com/sorahq/ledger-api/internal/core/ports/repositories"
	portssvc "github.com/sorahq/ledger-api/internal/core/ports/services"
	"github.com/sorahq/ledger-api/internal/platform/config"
	"github.com/sorahq/ledger-api/internal/platform/events"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher events.Publisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Initialize organization service first since other services depend on it
	// for membership checks.
	container.OrganizationSvc = NewOrganizationService(repos.OrganizationRepo)

	container.UserSvc = NewUserService(repos.UserRepo)
	container.AuthSvc = NewAuthService(repos.UserRepo, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)
	container.AccountSvc = NewAccountService(repos.AccountRepo, container.OrganizationSvc)
	container.PeriodSvc = NewPeriodService(repos.PeriodRepo, container.OrganizationSvc)
	container.PartnerSvc = NewPartnerService(repos.PartnerRepo, container.OrganizationSvc)
	container.JournalEntrySvc = NewJournalEntryService(repos.JournalEntryRepo, repos.AccountRepo, container.PeriodSvc, container.OrganizationSvc, publisher)
	container.ImportSvc = NewImportService(repos.JournalEntryRepo, repos.AccountRepo, container.PeriodSvc, container.OrganizationSvc)

	return container
}
