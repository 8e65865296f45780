package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sorahq/ledger-api/internal/apperrors"
	"github.com/sorahq/ledger-api/internal/core/domain"
	portsrepo "github.com/sorahq/ledger-api/internal/core/ports/repositories"
	portssvc "github.com/sorahq/ledger-api/internal/core/ports/services"
	"github.com/sorahq/ledger-api/internal/core/services"
	"github.com/sorahq/ledger-api/internal/platform/events"
)

// --- Mock JournalEntryRepository ---
type MockJournalEntryRepository struct {
	mock.Mock
}

var _ portsrepo.JournalEntryRepositoryFacade = (*MockJournalEntryRepository)(nil)

func (m *MockJournalEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryLine), args.Error(1)
}

func (m *MockJournalEntryRepository) ListEntriesByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string, status *domain.EntryStatus) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, organizationID, limit, nextToken, status)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedToken, args.Error(2)
}

func (m *MockJournalEntryRepository) FindLastEntryNumbers(ctx context.Context, organizationID string, prefixes []string) (map[string]string, error) {
	args := m.Called(ctx, organizationID, prefixes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockJournalEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entry, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) SaveEntriesBatch(ctx context.Context, entries []domain.JournalEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine, replaceLines bool) error {
	args := m.Called(ctx, entry, lines, replaceLines)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) DeleteEntry(ctx context.Context, organizationID, entryID string) error {
	args := m.Called(ctx, organizationID, entryID)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, entryID, status, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock AccountReader ---
type MockAccountReader struct {
	mock.Mock
}

var _ portsrepo.AccountReader = (*MockAccountReader)(nil)

func (m *MockAccountReader) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountReader) FindAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, organizationID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountReader) FindAccountByName(ctx context.Context, organizationID, name string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountReader) ListAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, organizationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountReader) ListActiveAccounts(ctx context.Context, organizationID string) ([]domain.Account, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Mock PeriodService ---
type MockPeriodService struct {
	mock.Mock
}

var _ portssvc.PeriodService = (*MockPeriodService)(nil)

func (m *MockPeriodService) CreatePeriod(ctx context.Context, organizationID, userID string, input portssvc.CreatePeriodInput) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, organizationID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodService) GetPeriodByID(ctx context.Context, organizationID, userID, periodID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, organizationID, userID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodService) ListPeriods(ctx context.Context, organizationID, userID string) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, organizationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodService) ResolvePeriodForDate(ctx context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, organizationID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodService) ClosePeriod(ctx context.Context, organizationID, userID, periodID string) error {
	args := m.Called(ctx, organizationID, userID, periodID)
	return args.Error(0)
}

func (m *MockPeriodService) ReopenPeriod(ctx context.Context, organizationID, userID, periodID string) error {
	args := m.Called(ctx, organizationID, userID, periodID)
	return args.Error(0)
}

// --- Mock OrganizationService ---
type MockOrganizationService struct {
	mock.Mock
}

var _ portssvc.OrganizationService = (*MockOrganizationService)(nil)

func (m *MockOrganizationService) CreateOrganization(ctx context.Context, userID, name, description string) (*domain.Organization, error) {
	args := m.Called(ctx, userID, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationService) GetOrganizationByID(ctx context.Context, userID, organizationID string) (*domain.Organization, error) {
	args := m.Called(ctx, userID, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationService) ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}

func (m *MockOrganizationService) AddUserToOrganization(ctx context.Context, requestingUserID, organizationID, targetUserID string, role domain.UserOrganizationRole) error {
	args := m.Called(ctx, requestingUserID, organizationID, targetUserID, role)
	return args.Error(0)
}

func (m *MockOrganizationService) UpdateUserRole(ctx context.Context, requestingUserID, organizationID, targetUserID string, role domain.UserOrganizationRole) error {
	args := m.Called(ctx, requestingUserID, organizationID, targetUserID, role)
	return args.Error(0)
}

func (m *MockOrganizationService) AuthorizeUserAction(ctx context.Context, organizationID, userID string, allowedRoles ...domain.UserOrganizationRole) error {
	callArgs := []interface{}{ctx, organizationID, userID}
	for _, role := range allowedRoles {
		callArgs = append(callArgs, role)
	}
	args := m.Called(callArgs...)
	return args.Error(0)
}

// --- Mock event publisher ---
type MockPublisher struct {
	mock.Mock
}

var _ events.Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) PublishEntryApproved(ctx context.Context, event events.EntryApprovedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Suite ---

type JournalEntryServiceTestSuite struct {
	suite.Suite
	mockEntryRepo   *MockJournalEntryRepository
	mockAccountRepo *MockAccountReader
	mockPeriodSvc   *MockPeriodService
	mockOrgSvc      *MockOrganizationService
	mockPublisher   *MockPublisher
	service         portssvc.JournalEntryService

	organizationID string
	userID         string
	openPeriod     domain.AccountingPeriod
	cashAccount    domain.Account
	salesAccount   domain.Account
}

func (suite *JournalEntryServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockJournalEntryRepository)
	suite.mockAccountRepo = new(MockAccountReader)
	suite.mockPeriodSvc = new(MockPeriodService)
	suite.mockOrgSvc = new(MockOrganizationService)
	suite.mockPublisher = new(MockPublisher)
	suite.service = services.NewJournalEntryService(suite.mockEntryRepo, suite.mockAccountRepo, suite.mockPeriodSvc, suite.mockOrgSvc, suite.mockPublisher)

	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.openPeriod = domain.AccountingPeriod{
		PeriodID:       uuid.NewString(),
		OrganizationID: suite.organizationID,
		Name:           "FY2024-03",
		StartDate:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
	}
	suite.cashAccount = domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.organizationID,
		Code:           "1000",
		Name:           "Cash",
		AccountType:    domain.Asset,
		IsActive:       true,
	}
	suite.salesAccount = domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.organizationID,
		Code:           "4000",
		Name:           "Sales",
		AccountType:    domain.Revenue,
		IsActive:       true,
	}
}

func (suite *JournalEntryServiceTestSuite) accountsMap() map[string]domain.Account {
	return map[string]domain.Account{
		suite.cashAccount.AccountID:  suite.cashAccount,
		suite.salesAccount.AccountID: suite.salesAccount,
	}
}

func (suite *JournalEntryServiceTestSuite) balancedInput(amount string) portssvc.CreateEntryInput {
	amt := decimal.RequireFromString(amount)
	return portssvc.CreateEntryInput{
		EntryDate:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "Cash sale",
		Lines: []portssvc.CreateEntryLineInput{
			{AccountID: suite.cashAccount.AccountID, DebitAmount: amt, CreditAmount: decimal.Zero},
			{AccountID: suite.salesAccount.AccountID, DebitAmount: decimal.Zero, CreditAmount: amt},
		},
	}
}

func (suite *JournalEntryServiceTestSuite) persistedBalancedLines(entryID, amount string) []domain.JournalEntryLine {
	amt := decimal.RequireFromString(amount)
	return []domain.JournalEntryLine{
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashAccount.AccountID, LineNumber: 1, DebitAmount: amt, CreditAmount: decimal.Zero},
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.salesAccount.AccountID, LineNumber: 2, DebitAmount: decimal.Zero, CreditAmount: amt},
	}
}

func (suite *JournalEntryServiceTestSuite) expectAuthorizeWrite() {
	suite.mockOrgSvc.On("AuthorizeUserAction", mock.Anything, suite.organizationID, suite.userID, domain.RoleAdmin, domain.RoleMember).Return(nil).Once()
}

// --- CreateEntry ---

func (suite *JournalEntryServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	input := suite.balancedInput("150.00")

	suite.expectAuthorizeWrite()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.organizationID, []string{suite.cashAccount.AccountID, suite.salesAccount.AccountID}).Return(suite.accountsMap(), nil).Once()
	suite.mockPeriodSvc.On("ResolvePeriodForDate", ctx, suite.organizationID, input.EntryDate).Return(&suite.openPeriod, nil).Once()

	saved := domain.JournalEntry{
		EntryID:        uuid.NewString(),
		OrganizationID: suite.organizationID,
		PeriodID:       suite.openPeriod.PeriodID,
		EntryNumber:    "2024030001",
		EntryDate:      input.EntryDate,
		Status:         domain.Draft,
	}
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalEntryLine")).Return(&saved, nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.organizationID, suite.userID, input)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal("2024030001", entry.EntryNumber)
	suite.Equal(domain.Draft, entry.Status)
	suite.Equal(suite.openPeriod.PeriodID, entry.PeriodID)

	savedCall := suite.mockEntryRepo.Calls[0]
	passedEntry := savedCall.Arguments.Get(1).(domain.JournalEntry)
	passedLines := savedCall.Arguments.Get(2).([]domain.JournalEntryLine)
	suite.Empty(passedEntry.EntryNumber)
	suite.Len(passedLines, 2)
	suite.Equal(1, passedLines[0].LineNumber)
	suite.Equal(2, passedLines[1].LineNumber)

	suite.mockOrgSvc.AssertExpectations(suite.T())
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *JournalEntryServiceTestSuite) TestCreateEntry_WithinTolerance() {
	ctx := context.Background()
	input := portssvc.CreateEntryInput{
		EntryDate:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "Rounded VAT split",
		Lines: []portssvc.CreateEntryLineInput{
			{AccountID: suite.cashAccount.AccountID, DebitAmount: decimal.RequireFromString("100.004"), CreditAmount: decimal.Zero},
			{AccountID: suite.salesAccount.AccountID, DebitAmount: decimal.Zero, CreditAmount: decimal.RequireFromString("100.00")},
		},
	}

	suite.expectAuthorizeWrite()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.organizationID, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockPeriodSvc.On("ResolvePeriodForDate", ctx, suite.organizationID, input.EntryDate).Return(&suite.openPeriod, nil).Once()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.Anything, mock.Anything).Return(&domain.JournalEntry{EntryNumber: "2024030002"}, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.organizationID, suite.userID, input)

	suite.Require().NoError(err)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *JournalEntryServiceTestSuite) TestCreateEntry_Unbalanced() {
	ctx := context.Background()
	input := portssvc.CreateEntryInput{
		EntryDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines: []portssvc.CreateEntryLineInput{
			{AccountID: suite.cashAccount.AccountID, DebitAmount: decimal.RequireFromString("100.00"), CreditAmount: decimal.Zero},
			{AccountID: suite.salesAccount.AccountID, DebitAmount: decimal.Zero, CreditAmount: decimal.RequireFromString("99.00")},
		},
	}

	suite.expectAuthorizeWrite()

	_, err := suite.service.CreateEntry(ctx, suite.organizationID, suite.userID, input)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryUnbalanced)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalEntryServiceTestSuite) TestCreateEntry_LessThanTwoLines() {
	ctx := context.Background()
	input := portssvc.CreateEntryInput{
		EntryDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines: []portssvc.CreateEntryLineInput{
			{AccountID: suite.cashAccount.AccountID, DebitAmount: decimal.RequireFromString("100.00"), CreditAmount: decimal.Zero},
		},
	}

	suite.expectAuthorizeWrite()

	_, err := suite.service.CreateEntry(ctx, suite.organizationID, suite.userID, input)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryMinLines)
}

func (suite *JournalEntryServiceTestSuite) TestCreateEntry_NegativeAmount() {
	ctx := context.Background()
	input := portssvc.CreateEntryInput{
		EntryDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines: []portssvc.CreateEntryLineInput{
			{AccountID: suite.cashAccount.AccountID, DebitAmount: decimal.RequireFromString("-50.00"), CreditAmount: decimal.Zero},
			{AccountID: suite.salesAccount.AccountID, DebitAmount: decimal.Zero, CreditAmount: decimal.RequireFromString("-50.00")},
		},
	}

	suite.expectAuthorizeWrite()

	_, err := suite.service.CreateEntry(ctx, suite.organizationID, suite.userID, input)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalEntryServiceTestSuite) TestCreateEntry_UnknownAccount() {
	ctx := context.Background()
	input := suite.balancedInput("10.00")

	suite.expectAuthorizeWrite()
	// Only the cash account comes back; the sales account is unknown.
	partial := map[string]domain.Account{suite.cashAccount.AccountID: suite.cashAccount}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.organizationID, mock.Anything).Return(partial, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.organizationID, suite.userID, input)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidAccount)
}

func (suite *JournalEntryServiceTestSuite) TestCreateEntry_InactiveAccount() {
	ctx := context.Background()
	input := suite.balancedInput("10.00")

	inactiveSales := suite.salesAccount
	inactiveSales.IsActive = false
	accounts := map[string]domain.Account{
		suite.cashAccount.AccountID: suite.cashAccount,
		inactiveSales.AccountID:     inactiveSales,
	}

	suite.expectAuthorizeWrite()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.organizationID, mock.Anything).Return(accounts, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.organizationID, suite.userID, input)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidAccount)
}

func (suite *JournalEntryServiceTestSuite) TestCreateEntry_NoCoveringPeriod() {
	ctx := context.Background()
	input := suite.balancedInput("10.00")

	suite.expectAuthorizeWrite()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.organizationID, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockPeriodSvc.On("ResolvePeriodForDate", ctx, suite.organizationID, input.EntryDate).Return(nil, services.ErrNoAccountingPeriod).Once()

	_, err := suite.service.CreateEntry(ctx, suite.organizationID, suite.userID, input)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNoAccountingPeriod)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalEntryServiceTestSuite) TestCreateEntry_ClosedPeriod() {
	ctx := context.Background()
	input := suite.balancedInput("10.00")

	closed := suite.openPeriod
	closed.IsActive = false

	suite.expectAuthorizeWrite()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.organizationID, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockPeriodSvc.On("ResolvePeriodForDate", ctx, suite.organizationID, input.EntryDate).Return(&closed, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.organizationID, suite.userID, input)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPeriodClosed)
}

func (suite *JournalEntryServiceTestSuite) TestCreateEntry_NotAMember() {
	ctx := context.Background()
	input := suite.balancedInput("10.00")

	// Non-members see the organization as nonexistent.
	suite.mockOrgSvc.On("AuthorizeUserAction", mock.Anything, suite.organizationID, suite.userID, domain.RoleAdmin, domain.RoleMember).Return(apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateEntry(ctx, suite.organizationID, suite.userID, input)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything, mock.Anything)
}

// --- GetEntryByID ---

func (suite *JournalEntryServiceTestSuite) TestGetEntryByID_OtherOrganization() {
	ctx := context.Background()
	entryID := uuid.NewString()

	foreign := domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: uuid.NewString(),
		Status:         domain.Draft,
	}

	suite.mockOrgSvc.On("AuthorizeUserAction", mock.Anything, suite.organizationID, suite.userID, domain.RoleAdmin, domain.RoleMember, domain.RoleReadOnly).Return(nil).Once()
	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(&foreign, nil).Once()

	_, err := suite.service.GetEntryByID(ctx, suite.organizationID, suite.userID, entryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "FindLinesByEntryID", mock.Anything, mock.Anything)
}

// --- UpdateEntry ---

func (suite *JournalEntryServiceTestSuite) TestUpdateEntry_ApprovedIsImmutable() {
	ctx := context.Background()
	entryID := uuid.NewString()

	approved := domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: suite.organizationID,
		Status:         domain.Approved,
	}

	suite.expectAuthorizeWrite()
	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(&approved, nil).Once()

	newDescription := "revised"
	_, err := suite.service.UpdateEntry(ctx, suite.organizationID, suite.userID, entryID, portssvc.UpdateEntryInput{Description: &newDescription})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNotEditable)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "UpdateEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalEntryServiceTestSuite) TestUpdateEntry_DateChangeKeepsEntryNumber() {
	ctx := context.Background()
	entryID := uuid.NewString()

	existing := domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: suite.organizationID,
		PeriodID:       suite.openPeriod.PeriodID,
		EntryNumber:    "2024030007",
		EntryDate:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:         domain.Draft,
	}

	aprilPeriod := domain.AccountingPeriod{
		PeriodID:       uuid.NewString(),
		OrganizationID: suite.organizationID,
		Name:           "FY2024-04",
		StartDate:      time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
	}
	newDate := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)

	suite.expectAuthorizeWrite()
	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(&existing, nil).Once()
	suite.mockPeriodSvc.On("ResolvePeriodForDate", ctx, suite.organizationID, newDate).Return(&aprilPeriod, nil).Once()
	suite.mockEntryRepo.On("UpdateEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.Anything, false).Return(nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entryID).Return([]domain.JournalEntryLine{}, nil).Once()

	updated, err := suite.service.UpdateEntry(ctx, suite.organizationID, suite.userID, entryID, portssvc.UpdateEntryInput{EntryDate: &newDate})

	suite.Require().NoError(err)
	// The number keeps its March prefix even though the entry moved to April.
	suite.Equal("2024030007", updated.EntryNumber)
	suite.Equal(aprilPeriod.PeriodID, updated.PeriodID)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

// --- DeleteEntry ---

func (suite *JournalEntryServiceTestSuite) TestDeleteEntry_ApprovedRejected() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.expectAuthorizeWrite()
	suite.mockEntryRepo.On("DeleteEntry", ctx, suite.organizationID, entryID).Return(apperrors.ErrConflict).Once()

	err := suite.service.DeleteEntry(ctx, suite.organizationID, suite.userID, entryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNotEditable)
}

// --- ListEntries ---

func (suite *JournalEntryServiceTestSuite) TestListEntries_UnknownStatus() {
	ctx := context.Background()

	suite.mockOrgSvc.On("AuthorizeUserAction", mock.Anything, suite.organizationID, suite.userID, domain.RoleAdmin, domain.RoleMember, domain.RoleReadOnly).Return(nil).Once()

	bogus := domain.EntryStatus("POSTED")
	_, _, err := suite.service.ListEntries(ctx, suite.organizationID, suite.userID, 20, nil, &bogus)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- ApproveEntry ---

func (suite *JournalEntryServiceTestSuite) TestApproveEntry_Success() {
	ctx := context.Background()
	entryID := uuid.NewString()

	draft := domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: suite.organizationID,
		PeriodID:       suite.openPeriod.PeriodID,
		EntryNumber:    "2024030003",
		Status:         domain.Draft,
	}

	suite.expectAuthorizeWrite()
	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(&draft, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entryID).Return(suite.persistedBalancedLines(entryID, "250.00"), nil).Once()
	suite.mockEntryRepo.On("UpdateEntryStatus", ctx, entryID, domain.Approved, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockPublisher.On("PublishEntryApproved", ctx, mock.AnythingOfType("events.EntryApprovedEvent")).Return(nil).Once()

	entry, err := suite.service.ApproveEntry(ctx, suite.organizationID, suite.userID, entryID)

	suite.Require().NoError(err)
	suite.Equal(domain.Approved, entry.Status)

	publishCall := suite.mockPublisher.Calls[0]
	event := publishCall.Arguments.Get(1).(events.EntryApprovedEvent)
	suite.Equal(entryID, event.EntryID)
	suite.Equal("2024030003", event.EntryNumber)
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *JournalEntryServiceTestSuite) TestApproveEntry_AlreadyApproved() {
	ctx := context.Background()
	entryID := uuid.NewString()

	approved := domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: suite.organizationID,
		Status:         domain.Approved,
	}

	suite.expectAuthorizeWrite()
	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(&approved, nil).Once()

	_, err := suite.service.ApproveEntry(ctx, suite.organizationID, suite.userID, entryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidStatus)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "UpdateEntryStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalEntryServiceTestSuite) TestApproveEntry_UnbalancedPersistedLines() {
	ctx := context.Background()
	entryID := uuid.NewString()

	draft := domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: suite.organizationID,
		Status:         domain.Draft,
	}
	lines := suite.persistedBalancedLines(entryID, "250.00")
	lines[1].CreditAmount = decimal.RequireFromString("240.00")

	suite.expectAuthorizeWrite()
	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(&draft, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entryID).Return(lines, nil).Once()

	_, err := suite.service.ApproveEntry(ctx, suite.organizationID, suite.userID, entryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryUnbalanced)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "UpdateEntryStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalEntryServiceTestSuite) TestApproveEntry_ConcurrentApprovalLoses() {
	ctx := context.Background()
	entryID := uuid.NewString()

	draft := domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: suite.organizationID,
		Status:         domain.Draft,
	}

	suite.expectAuthorizeWrite()
	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(&draft, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entryID).Return(suite.persistedBalancedLines(entryID, "250.00"), nil).Once()
	// A concurrent approval already flipped the status; the guarded update misses.
	suite.mockEntryRepo.On("UpdateEntryStatus", ctx, entryID, domain.Approved, suite.userID, mock.AnythingOfType("time.Time")).Return(apperrors.ErrConflict).Once()

	_, err := suite.service.ApproveEntry(ctx, suite.organizationID, suite.userID, entryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidStatus)
	suite.mockPublisher.AssertNotCalled(suite.T(), "PublishEntryApproved", mock.Anything, mock.Anything)
}

func (suite *JournalEntryServiceTestSuite) TestApproveEntry_PublishFailureDoesNotFailApproval() {
	ctx := context.Background()
	entryID := uuid.NewString()

	draft := domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: suite.organizationID,
		Status:         domain.Draft,
	}

	suite.expectAuthorizeWrite()
	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(&draft, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entryID).Return(suite.persistedBalancedLines(entryID, "250.00"), nil).Once()
	suite.mockEntryRepo.On("UpdateEntryStatus", ctx, entryID, domain.Approved, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockPublisher.On("PublishEntryApproved", ctx, mock.Anything).Return(context.DeadlineExceeded).Once()

	entry, err := suite.service.ApproveEntry(ctx, suite.organizationID, suite.userID, entryID)

	suite.Require().NoError(err)
	suite.Equal(domain.Approved, entry.Status)
}

func TestJournalEntryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalEntryServiceTestSuite))
}
