package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sorahq/ledger-api/internal/apperrors"
	"github.com/sorahq/ledger-api/internal/core/domain"
	portssvc "github.com/sorahq/ledger-api/internal/core/ports/services"
	"github.com/sorahq/ledger-api/internal/core/services"
	"github.com/sorahq/ledger-api/internal/dto"
	"github.com/sorahq/ledger-api/internal/handlers"
	"github.com/sorahq/ledger-api/internal/platform/config"
)

// --- Mock JournalEntryService ---
type MockJournalEntryService struct {
	mock.Mock
}

var _ portssvc.JournalEntryService = (*MockJournalEntryService)(nil)

func (m *MockJournalEntryService) CreateEntry(ctx context.Context, organizationID, userID string, input portssvc.CreateEntryInput) (*domain.JournalEntry, error) {
	args := m.Called(ctx, organizationID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryService) GetEntryByID(ctx context.Context, organizationID, userID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, organizationID, userID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryService) ListEntries(ctx context.Context, organizationID, userID string, limit int, nextToken *string, status *domain.EntryStatus) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, organizationID, userID, limit, nextToken, status)
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

func (m *MockJournalEntryService) UpdateEntry(ctx context.Context, organizationID, userID, entryID string, input portssvc.UpdateEntryInput) (*domain.JournalEntry, error) {
	args := m.Called(ctx, organizationID, userID, entryID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryService) DeleteEntry(ctx context.Context, organizationID, userID, entryID string) error {
	args := m.Called(ctx, organizationID, userID, entryID)
	return args.Error(0)
}

func (m *MockJournalEntryService) ApproveEntry(ctx context.Context, organizationID, userID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, organizationID, userID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// --- Mock JournalImportService ---
type MockJournalImportService struct {
	mock.Mock
}

var _ portssvc.JournalImportService = (*MockJournalImportService)(nil)

func (m *MockJournalImportService) ImportEntries(ctx context.Context, organizationID, userID string, csvData []byte) (*domain.ImportResult, error) {
	args := m.Called(ctx, organizationID, userID, csvData)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportResult), args.Error(1)
}

// --- Suite ---

const testJWTSecret = "test-secret"

type JournalHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockJournalSvc *MockJournalEntryService
	mockImportSvc  *MockJournalImportService

	organizationID string
	userID         string
	token          string
}

func (suite *JournalHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockJournalSvc = new(MockJournalEntryService)
	suite.mockImportSvc = new(MockJournalImportService)

	cfg := &config.Config{JWTSecret: testJWTSecret}
	container := &portssvc.ServiceContainer{
		JournalEntrySvc: suite.mockJournalSvc,
		ImportSvc:       suite.mockImportSvc,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, container)

	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.token = suite.signToken(suite.userID)
}

func (suite *JournalHandlerTestSuite) signToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	suite.Require().NoError(err)
	return signed
}

func (suite *JournalHandlerTestSuite) doRequest(method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *JournalHandlerTestSuite) entriesPath() string {
	return fmt.Sprintf("/api/v1/organizations/%s/journal-entries", suite.organizationID)
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_Success() {
	reqBody := dto.CreateJournalEntryRequest{
		EntryDate:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "Cash sale",
		Lines: []dto.CreateJournalEntryLineRequest{
			{AccountID: uuid.NewString(), DebitAmount: decimal.RequireFromString("100.00")},
			{AccountID: uuid.NewString(), CreditAmount: decimal.RequireFromString("100.00")},
		},
	}
	body, _ := json.Marshal(reqBody)

	saved := domain.JournalEntry{
		EntryID:        uuid.NewString(),
		OrganizationID: suite.organizationID,
		EntryNumber:    "2024030001",
		EntryDate:      reqBody.EntryDate,
		Description:    reqBody.Description,
		Status:         domain.Draft,
	}
	suite.mockJournalSvc.On("CreateEntry", mock.Anything, suite.organizationID, suite.userID, mock.AnythingOfType("services.CreateEntryInput")).Return(&saved, nil).Once()

	w := suite.doRequest(http.MethodPost, suite.entriesPath(), body, "application/json")

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.JournalEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("2024030001", resp.EntryNumber)
	suite.Equal("DRAFT", resp.Status)
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_Unbalanced() {
	reqBody := dto.CreateJournalEntryRequest{
		EntryDate:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "Broken entry",
		Lines: []dto.CreateJournalEntryLineRequest{
			{AccountID: uuid.NewString(), DebitAmount: decimal.RequireFromString("100.00")},
			{AccountID: uuid.NewString(), CreditAmount: decimal.RequireFromString("90.00")},
		},
	}
	body, _ := json.Marshal(reqBody)

	suite.mockJournalSvc.On("CreateEntry", mock.Anything, suite.organizationID, suite.userID, mock.Anything).Return(nil, fmt.Errorf("%w: debits 100.00, credits 90.00", services.ErrEntryUnbalanced)).Once()

	w := suite.doRequest(http.MethodPost, suite.entriesPath(), body, "application/json")

	suite.Equal(http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("UNBALANCED_ENTRY", resp.Code)
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_SingleLineRejectedByBinding() {
	reqBody := dto.CreateJournalEntryRequest{
		EntryDate:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "One leg only",
		Lines: []dto.CreateJournalEntryLineRequest{
			{AccountID: uuid.NewString(), DebitAmount: decimal.RequireFromString("100.00")},
		},
	}
	body, _ := json.Marshal(reqBody)

	w := suite.doRequest(http.MethodPost, suite.entriesPath(), body, "application/json")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_MissingToken() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, suite.entriesPath(), bytes.NewReader([]byte("{}")))
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *JournalHandlerTestSuite) TestGetEntry_NotFound() {
	entryID := uuid.NewString()
	suite.mockJournalSvc.On("GetEntryByID", mock.Anything, suite.organizationID, suite.userID, entryID).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, suite.entriesPath()+"/"+entryID, nil, "")

	suite.Equal(http.StatusNotFound, w.Code)

	var resp dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("NOT_FOUND", resp.Code)
}

func (suite *JournalHandlerTestSuite) TestListEntries_PassesPageToken() {
	nextIn := "opaque-token"
	entries := []domain.JournalEntry{{
		EntryID:        uuid.NewString(),
		OrganizationID: suite.organizationID,
		EntryNumber:    "2024030002",
		Status:         domain.Approved,
	}}

	suite.mockJournalSvc.On("ListEntries", mock.Anything, suite.organizationID, suite.userID, 10, mock.MatchedBy(func(t *string) bool {
		return t != nil && *t == nextIn
	}), mock.MatchedBy(func(s *domain.EntryStatus) bool {
		return s != nil && *s == domain.Approved
	})).Return(entries, "next-page", nil).Once()

	w := suite.doRequest(http.MethodGet, suite.entriesPath()+"?limit=10&nextToken="+nextIn+"&status=APPROVED", nil, "")

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListJournalEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Entries, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next-page", *resp.NextToken)
}

func (suite *JournalHandlerTestSuite) TestApproveEntry_AlreadyApproved() {
	entryID := uuid.NewString()
	suite.mockJournalSvc.On("ApproveEntry", mock.Anything, suite.organizationID, suite.userID, entryID).Return(nil, fmt.Errorf("%w: current status is APPROVED", services.ErrInvalidStatus)).Once()

	w := suite.doRequest(http.MethodPost, suite.entriesPath()+"/"+entryID+"/approve", nil, "")

	suite.Equal(http.StatusConflict, w.Code)

	var resp dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("INVALID_STATUS", resp.Code)
}

func (suite *JournalHandlerTestSuite) buildImportRequest(csvContent string) (*bytes.Buffer, string) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "entries.csv")
	suite.Require().NoError(err)
	_, err = part.Write([]byte(csvContent))
	suite.Require().NoError(err)
	suite.Require().NoError(writer.Close())
	return body, writer.FormDataContentType()
}

func (suite *JournalHandlerTestSuite) TestImportEntries_Success() {
	csvContent := "2024-03-10,Cash,Sales,120.50,Walk-in sale\n"
	body, contentType := suite.buildImportRequest(csvContent)

	suite.mockImportSvc.On("ImportEntries", mock.Anything, suite.organizationID, suite.userID, []byte(csvContent)).Return(&domain.ImportResult{EntriesCreated: 1, RowsRead: 1}, nil).Once()

	w := suite.doRequest(http.MethodPost, suite.entriesPath()+"/import", body.Bytes(), contentType)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.ImportResultResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(1, resp.EntriesCreated)
	suite.Equal(1, resp.RowsRead)
}

func (suite *JournalHandlerTestSuite) TestImportEntries_RowFailures() {
	csvContent := "2024-03-10,Cash,Bogus,120.50\n"
	body, contentType := suite.buildImportRequest(csvContent)

	rowsErr := &services.ImportRowsError{Rows: []domain.ImportRowError{
		{Row: 1, Message: `unknown credit account "Bogus"`},
	}}
	suite.mockImportSvc.On("ImportEntries", mock.Anything, suite.organizationID, suite.userID, []byte(csvContent)).Return(nil, rowsErr).Once()

	w := suite.doRequest(http.MethodPost, suite.entriesPath()+"/import", body.Bytes(), contentType)

	suite.Equal(http.StatusBadRequest, w.Code)

	var resp dto.ImportFailureResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("IMPORT_FAILED", resp.Code)
	suite.Require().Len(resp.Rows, 1)
	suite.Equal(1, resp.Rows[0].Row)
}

func TestJournalHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(JournalHandlerTestSuite))
}
