package handlers

import (
	"net/http"

	portssvc "github.com/sorahq/ledger-api/internal/core/ports/services"
	"github.com/sorahq/ledger-api/internal/dto"
	"github.com/sorahq/ledger-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// periodHandler handles HTTP requests related to accounting periods.
type periodHandler struct {
	periodService portssvc.PeriodService
}

func newPeriodHandler(ps portssvc.PeriodService) *periodHandler {
	return &periodHandler{periodService: ps}
}

// registerPeriodRoutes registers routes related to accounting periods within an organization.
func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodService) {
	h := newPeriodHandler(periodService)

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("/:id", h.getPeriod)
		periods.GET("", h.listPeriods)
		periods.POST("/:id/close", h.closePeriod)
		periods.POST("/:id/reopen", h.reopenPeriod)
	}
}

// createPeriod godoc
// @Summary Create a new accounting period
// @Description Creates an open period; ranges overlapping an existing period are rejected
// @Tags periods
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param period body dto.CreatePeriodRequest true "Period details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Range overlaps an existing period"
// @Security BearerAuth
// @Router /organizations/{organization_id}/periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), c.Param("organization_id"), userID, portssvc.CreatePeriodInput{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// getPeriod godoc
// @Summary Get an accounting period by ID
// @Description Retrieves one period of the organization
// @Tags periods
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/periods/{id} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	period, err := h.periodService.GetPeriodByID(c.Request.Context(), c.Param("organization_id"), userID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List accounting periods
// @Description Retrieves all periods of the organization ordered by start date
// @Tags periods
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Success 200 {object} dto.ListPeriodsResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	periods, err := h.periodService.ListPeriods(c.Request.Context(), c.Param("organization_id"), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListPeriodsResponse(periods))
}

// closePeriod godoc
// @Summary Close an accounting period
// @Description Closes the period so no further entries can be posted to it
// @Tags periods
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param id path string true "Period ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Period already closed"
// @Security BearerAuth
// @Router /organizations/{organization_id}/periods/{id}/close [post]
func (h *periodHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.periodService.ClosePeriod(c.Request.Context(), c.Param("organization_id"), userID, c.Param("id")); err != nil {
		respondError(c, logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// reopenPeriod godoc
// @Summary Reopen an accounting period
// @Description Reopens a closed period
// @Tags periods
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param id path string true "Period ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Period already open"
// @Security BearerAuth
// @Router /organizations/{organization_id}/periods/{id}/reopen [post]
func (h *periodHandler) reopenPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.periodService.ReopenPeriod(c.Request.Context(), c.Param("organization_id"), userID, c.Param("id")); err != nil {
		respondError(c, logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
