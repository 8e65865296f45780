package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/sorahq/ledger-api/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	organizationRepo := newPgxOrganizationRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool)
	periodRepo := newPgxPeriodRepository(dbPool)
	journalEntryRepo := newPgxJournalEntryRepository(dbPool)
	partnerRepo := newPgxPartnerRepository(dbPool)

	return portsrepo.RepositoryProvider{
		OrganizationRepo: organizationRepo,
		UserRepo:         userRepo,
		AccountRepo:      accountRepo,
		PeriodRepo:       periodRepo,
		JournalEntryRepo: journalEntryRepo,
		PartnerRepo:      partnerRepo,
	}
}
