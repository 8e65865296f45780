package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sorahq/ledger-api/internal/apperrors"
	"github.com/sorahq/ledger-api/internal/core/domain"
	portssvc "github.com/sorahq/ledger-api/internal/core/ports/services"
	"github.com/sorahq/ledger-api/internal/core/services"
)

type ImportServiceTestSuite struct {
	suite.Suite
	mockEntryRepo   *MockJournalEntryRepository
	mockAccountRepo *MockAccountReader
	mockPeriodSvc   *MockPeriodService
	mockOrgSvc      *MockOrganizationService
	service         portssvc.JournalImportService

	organizationID string
	userID         string
	openPeriod     domain.AccountingPeriod
	cashAccount    domain.Account
	salesAccount   domain.Account
}

func (suite *ImportServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockJournalEntryRepository)
	suite.mockAccountRepo = new(MockAccountReader)
	suite.mockPeriodSvc = new(MockPeriodService)
	suite.mockOrgSvc = new(MockOrganizationService)
	suite.service = services.NewImportService(suite.mockEntryRepo, suite.mockAccountRepo, suite.mockPeriodSvc, suite.mockOrgSvc)

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

	suite.mockOrgSvc.On("AuthorizeUserAction", mock.Anything, suite.organizationID, suite.userID, domain.RoleAdmin, domain.RoleMember).Return(nil).Maybe()
}

func (suite *ImportServiceTestSuite) activeAccounts() []domain.Account {
	return []domain.Account{suite.cashAccount, suite.salesAccount}
}

func (suite *ImportServiceTestSuite) TestImportEntries_Success() {
	ctx := context.Background()
	csvData := []byte("date,debit account,credit account,amount,description\n" +
		"2024-03-10,Cash,Sales,120.50,Walk-in sale\n" +
		"2024-03-12,Cash,Sales,89.99,Online order\n")

	suite.mockAccountRepo.On("ListActiveAccounts", ctx, suite.organizationID).Return(suite.activeAccounts(), nil).Once()
	suite.mockPeriodSvc.On("ResolvePeriodForDate", ctx, suite.organizationID, mock.AnythingOfType("time.Time")).Return(&suite.openPeriod, nil).Twice()
	suite.mockEntryRepo.On("FindLastEntryNumbers", ctx, suite.organizationID, []string{"202403"}).Return(map[string]string{"202403": "2024030007"}, nil).Once()
	suite.mockEntryRepo.On("SaveEntriesBatch", ctx, mock.AnythingOfType("[]domain.JournalEntry")).Return(nil).Once()

	result, err := suite.service.ImportEntries(ctx, suite.organizationID, suite.userID, csvData)

	suite.Require().NoError(err)
	suite.Equal(2, result.EntriesCreated)
	suite.Equal(2, result.RowsRead)

	var saved []domain.JournalEntry
	for _, call := range suite.mockEntryRepo.Calls {
		if call.Method == "SaveEntriesBatch" {
			saved = call.Arguments.Get(1).([]domain.JournalEntry)
		}
	}
	suite.Require().Len(saved, 2)
	// Numbering continues the persisted sequence for the month.
	suite.Equal("2024030008", saved[0].EntryNumber)
	suite.Equal("2024030009", saved[1].EntryNumber)
	suite.Equal(domain.Draft, saved[0].Status)
	suite.Require().Len(saved[0].Lines, 2)
	suite.Equal(suite.cashAccount.AccountID, saved[0].Lines[0].AccountID)
	suite.Equal(suite.salesAccount.AccountID, saved[0].Lines[1].AccountID)
	suite.True(saved[0].Lines[0].DebitAmount.Equal(saved[0].Lines[1].CreditAmount))
}

func (suite *ImportServiceTestSuite) TestImportEntries_OneBadRowRejectsAll() {
	ctx := context.Background()
	csvData := []byte("date,debit account,credit account,amount\n" +
		"2024-03-10,Cash,Sales,120.50\n" +
		"2024-03-11,Cash,Inventory,45.00\n" +
		"2024-03-12,Cash,Sales,not-a-number\n")

	suite.mockAccountRepo.On("ListActiveAccounts", ctx, suite.organizationID).Return(suite.activeAccounts(), nil).Once()
	suite.mockPeriodSvc.On("ResolvePeriodForDate", ctx, suite.organizationID, mock.AnythingOfType("time.Time")).Return(&suite.openPeriod, nil).Maybe()

	_, err := suite.service.ImportEntries(ctx, suite.organizationID, suite.userID, csvData)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrImportFailed)

	var rowsErr *services.ImportRowsError
	suite.Require().ErrorAs(err, &rowsErr)
	suite.Require().Len(rowsErr.Rows, 2)
	suite.Equal(2, rowsErr.Rows[0].Row)
	suite.Contains(rowsErr.Rows[0].Message, "Inventory")
	suite.Equal(3, rowsErr.Rows[1].Row)

	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntriesBatch", mock.Anything, mock.Anything)
}

func (suite *ImportServiceTestSuite) TestImportEntries_ClosedPeriodRow() {
	ctx := context.Background()
	csvData := []byte("2024-03-10,Cash,Sales,10.00\n")

	closed := suite.openPeriod
	closed.IsActive = false

	suite.mockAccountRepo.On("ListActiveAccounts", ctx, suite.organizationID).Return(suite.activeAccounts(), nil).Once()
	suite.mockPeriodSvc.On("ResolvePeriodForDate", ctx, suite.organizationID, mock.AnythingOfType("time.Time")).Return(&closed, nil).Once()

	_, err := suite.service.ImportEntries(ctx, suite.organizationID, suite.userID, csvData)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrImportFailed)

	var rowsErr *services.ImportRowsError
	suite.Require().ErrorAs(err, &rowsErr)
	suite.Require().Len(rowsErr.Rows, 1)
	suite.Contains(rowsErr.Rows[0].Message, "closed")
}

func (suite *ImportServiceTestSuite) TestImportEntries_NoPeriodRow() {
	ctx := context.Background()
	csvData := []byte("2031-01-05,Cash,Sales,10.00\n")

	suite.mockAccountRepo.On("ListActiveAccounts", ctx, suite.organizationID).Return(suite.activeAccounts(), nil).Once()
	suite.mockPeriodSvc.On("ResolvePeriodForDate", ctx, suite.organizationID, mock.AnythingOfType("time.Time")).Return(nil, services.ErrNoAccountingPeriod).Once()

	_, err := suite.service.ImportEntries(ctx, suite.organizationID, suite.userID, csvData)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrImportFailed)
}

func (suite *ImportServiceTestSuite) TestImportEntries_SameDebitAndCreditAccount() {
	ctx := context.Background()
	csvData := []byte("2024-03-10,Cash,Cash,10.00\n")

	suite.mockAccountRepo.On("ListActiveAccounts", ctx, suite.organizationID).Return(suite.activeAccounts(), nil).Once()

	_, err := suite.service.ImportEntries(ctx, suite.organizationID, suite.userID, csvData)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrImportFailed)
}

func (suite *ImportServiceTestSuite) TestImportEntries_EmptyFile() {
	ctx := context.Background()

	_, err := suite.service.ImportEntries(ctx, suite.organizationID, suite.userID, []byte(""))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ImportServiceTestSuite) TestImportEntries_HeaderOnly() {
	ctx := context.Background()

	_, err := suite.service.ImportEntries(ctx, suite.organizationID, suite.userID, []byte("date,debit account,credit account,amount\n"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ImportServiceTestSuite) TestImportEntries_MultipleMonths() {
	ctx := context.Background()
	csvData := []byte("2024-03-30,Cash,Sales,10.00\n" +
		"2024-04-02,Cash,Sales,20.00\n")

	april := domain.AccountingPeriod{
		PeriodID:       uuid.NewString(),
		OrganizationID: suite.organizationID,
		Name:           "FY2024-04",
		StartDate:      time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
	}

	suite.mockAccountRepo.On("ListActiveAccounts", ctx, suite.organizationID).Return(suite.activeAccounts(), nil).Once()
	suite.mockPeriodSvc.On("ResolvePeriodForDate", ctx, suite.organizationID, time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)).Return(&suite.openPeriod, nil).Once()
	suite.mockPeriodSvc.On("ResolvePeriodForDate", ctx, suite.organizationID, time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)).Return(&april, nil).Once()
	suite.mockEntryRepo.On("FindLastEntryNumbers", ctx, suite.organizationID, []string{"202403", "202404"}).Return(map[string]string{"202403": "2024039999"}, nil).Once()
	suite.mockEntryRepo.On("SaveEntriesBatch", ctx, mock.Anything).Return(nil).Once()

	_, err := suite.service.ImportEntries(ctx, suite.organizationID, suite.userID, csvData)

	// March is at its 9999 sequence cap, so numbering the first row fails.
	suite.Require().Error(err)
}

func TestImportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ImportServiceTestSuite))
}
