package services

// ServiceContainer holds all service interfaces for handler registration.
type ServiceContainer struct {
	AuthSvc         AuthService
	UserSvc         UserService
	OrganizationSvc OrganizationService
	AccountSvc      AccountService
	PeriodSvc       PeriodService
	JournalEntrySvc JournalEntryService
	ImportSvc       JournalImportService
	PartnerSvc      PartnerService
}
