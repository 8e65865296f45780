package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sorahq/ledger-api/internal/core/domain"
	portssvc "github.com/sorahq/ledger-api/internal/core/ports/services"
	"github.com/sorahq/ledger-api/internal/core/services"
	"github.com/sorahq/ledger-api/internal/dto"
	"github.com/sorahq/ledger-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests for the journal entry lifecycle.
type journalHandler struct {
	journalService portssvc.JournalEntryService
	importService  portssvc.JournalImportService
}

func newJournalHandler(js portssvc.JournalEntryService, is portssvc.JournalImportService) *journalHandler {
	return &journalHandler{
		journalService: js,
		importService:  is,
	}
}

// registerJournalRoutes registers routes related to journal entries within an organization.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalEntryService, importService portssvc.JournalImportService) {
	h := newJournalHandler(journalService, importService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("/:id", h.getEntry)
		entries.GET("", h.listEntries)
		entries.PUT("/:id", h.updateEntry)
		entries.DELETE("/:id", h.deleteEntry)
		entries.POST("/:id/approve", h.approveEntry)
		entries.POST("/import", h.importEntries)
	}
}

func toLineInputs(lines []dto.CreateJournalEntryLineRequest) []portssvc.CreateEntryLineInput {
	inputs := make([]portssvc.CreateEntryLineInput, len(lines))
	for i, l := range lines {
		inputs[i] = portssvc.CreateEntryLineInput{
			AccountID:    l.AccountID,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			Description:  l.Description,
			TaxRate:      l.TaxRate,
		}
	}
	return inputs
}

// createEntry godoc
// @Summary Create a journal entry
// @Description Validates, numbers and persists a new DRAFT entry. Debits and credits must balance.
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param entry body dto.CreateJournalEntryRequest true "Entry details"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Unbalanced entry, invalid account or no covering period"
// @Failure 409 {object} dto.ErrorResponse "Covering period is closed"
// @Security BearerAuth
// @Router /organizations/{organization_id}/journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), c.Param("organization_id"), userID, portssvc.CreateEntryInput{
		EntryDate:      req.EntryDate,
		Description:    req.Description,
		DocumentNumber: req.DocumentNumber,
		PartnerID:      req.PartnerID,
		Lines:          toLineInputs(req.Lines),
	})
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry by ID
// @Description Retrieves one entry with its lines
// @Tags journal-entries
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/journal-entries/{id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), c.Param("organization_id"), userID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Retrieves a page of entries ordered by entry date descending
// @Tags journal-entries
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param limit query int false "Max results" default(20)
// @Param nextToken query string false "Pagination token from a previous page"
// @Param status query string false "Filter by status" Enums(DRAFT, APPROVED)
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var nextToken *string
	if token := c.Query("nextToken"); token != "" {
		nextToken = &token
	}

	var status *domain.EntryStatus
	if s := c.Query("status"); s != "" {
		es := domain.EntryStatus(s)
		status = &es
	}

	entries, newToken, err := h.journalService.ListEntries(c.Request.Context(), c.Param("organization_id"), userID, limit, nextToken, status)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListJournalEntriesResponse(entries, newToken))
}

// updateEntry godoc
// @Summary Update a journal entry
// @Description Modifies a DRAFT entry. Replacing lines re-validates the balance; changing the date re-resolves the period.
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param id path string true "Entry ID"
// @Param entry body dto.UpdateJournalEntryRequest true "Fields to update"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Entry is no longer editable"
// @Security BearerAuth
// @Router /organizations/{organization_id}/journal-entries/{id} [put]
func (h *journalHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	input := portssvc.UpdateEntryInput{
		EntryDate:      req.EntryDate,
		Description:    req.Description,
		DocumentNumber: req.DocumentNumber,
		PartnerID:      req.PartnerID,
	}
	if req.Lines != nil {
		input.Lines = toLineInputs(req.Lines)
	}

	entry, err := h.journalService.UpdateEntry(c.Request.Context(), c.Param("organization_id"), userID, c.Param("id"), input)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a journal entry
// @Description Removes a DRAFT entry and its lines. Approved entries cannot be deleted.
// @Tags journal-entries
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param id path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Entry is no longer editable"
// @Security BearerAuth
// @Router /organizations/{organization_id}/journal-entries/{id} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.journalService.DeleteEntry(c.Request.Context(), c.Param("organization_id"), userID, c.Param("id")); err != nil {
		respondError(c, logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// approveEntry godoc
// @Summary Approve a journal entry
// @Description Transitions a DRAFT entry to APPROVED. The transition is terminal.
// @Tags journal-entries
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Entry is not in DRAFT status"
// @Security BearerAuth
// @Router /organizations/{organization_id}/journal-entries/{id}/approve [post]
func (h *journalHandler) approveEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.ApproveEntry(c.Request.Context(), c.Param("organization_id"), userID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Journal entry approved", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// importEntries godoc
// @Summary Bulk import journal entries from CSV
// @Description Parses simplified two-line entries from an uploaded CSV file and persists them all-or-nothing. Any invalid row rejects the whole file.
// @Tags journal-entries
// @Accept multipart/form-data
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param file formData file true "CSV file: date, debit account, credit account, amount, optional description"
// @Success 201 {object} dto.ImportResultResponse
// @Failure 400 {object} dto.ImportFailureResponse "One or more rows failed validation"
// @Security BearerAuth
// @Router /organizations/{organization_id}/journal-entries/import [post]
func (h *journalHandler) importEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBindError(c, logger, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, logger, err)
		return
	}
	defer file.Close()

	csvData, err := io.ReadAll(file)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	result, err := h.importService.ImportEntries(c.Request.Context(), c.Param("organization_id"), userID, csvData)
	if err != nil {
		var rowsErr *services.ImportRowsError
		if errors.As(err, &rowsErr) {
			logger.Warn("Import rejected", slog.Int("failed_rows", len(rowsErr.Rows)))
			c.JSON(http.StatusBadRequest, dto.ImportFailureResponse{
				Code:  "IMPORT_FAILED",
				Error: rowsErr.Error(),
				Rows:  rowsErr.Rows,
			})
			return
		}
		respondError(c, logger, err)
		return
	}

	logger.Info("Import completed", slog.Int("entries_created", result.EntriesCreated), slog.Int("rows_read", result.RowsRead))
	c.JSON(http.StatusCreated, dto.ImportResultResponse{
		EntriesCreated: result.EntriesCreated,
		RowsRead:       result.RowsRead,
	})
}
