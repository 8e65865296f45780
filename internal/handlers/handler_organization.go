package handlers

import (
	"net/http"

	"github.com/sorahq/ledger-api/internal/core/domain"
	portssvc "github.com/sorahq/ledger-api/internal/core/ports/services"
	"github.com/sorahq/ledger-api/internal/dto"
	"github.com/sorahq/ledger-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// organizationHandler handles HTTP requests related to organizations and memberships.
type organizationHandler struct {
	orgService portssvc.OrganizationService
}

func newOrganizationHandler(os portssvc.OrganizationService) *organizationHandler {
	return &organizationHandler{orgService: os}
}

// registerOrganizationRoutes registers organization routes and nests the
// tenant-scoped entity routes under /organizations/:organization_id.
func registerOrganizationRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newOrganizationHandler(services.OrganizationSvc)

	orgs := rg.Group("/organizations")
	{
		orgs.POST("", h.createOrganization)
		orgs.GET("", h.listOrganizations)
	}

	org := orgs.Group("/:organization_id")
	{
		org.GET("", h.getOrganization)
		org.POST("/users", h.addMember)
		org.PUT("/users/:user_id/role", h.updateMemberRole)

		// Tenant-scoped entities live under the organization path so every
		// request carries its tenant explicitly.
		registerAccountRoutes(org, services.AccountSvc)
		registerPeriodRoutes(org, services.PeriodSvc)
		registerPartnerRoutes(org, services.PartnerSvc)
		registerJournalRoutes(org, services.JournalEntrySvc, services.ImportSvc)
	}
}

// createOrganization godoc
// @Summary Create a new organization
// @Description Creates an organization with the authenticated user as admin
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body dto.CreateOrganizationRequest true "Organization details"
// @Success 201 {object} dto.OrganizationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /organizations [post]
func (h *organizationHandler) createOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(org))
}

// listOrganizations godoc
// @Summary List the user's organizations
// @Description Retrieves all organizations the authenticated user belongs to
// @Tags organizations
// @Produce json
// @Success 200 {object} dto.ListOrganizationsResponse
// @Security BearerAuth
// @Router /organizations [get]
func (h *organizationHandler) listOrganizations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	orgs, err := h.orgService.ListUserOrganizations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListOrganizationsResponse(orgs))
}

// getOrganization godoc
// @Summary Get an organization by ID
// @Description Retrieves an organization the authenticated user belongs to
// @Tags organizations
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id} [get]
func (h *organizationHandler) getOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	org, err := h.orgService.GetOrganizationByID(c.Request.Context(), userID, c.Param("organization_id"))
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// addMember godoc
// @Summary Add a user to the organization
// @Description Adds or re-activates a membership. Caller must be an admin.
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param member body dto.AddOrganizationMemberRequest true "Membership details"
// @Success 204 "No Content"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/users [post]
func (h *organizationHandler) addMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.AddOrganizationMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	err := h.orgService.AddUserToOrganization(c.Request.Context(), userID, c.Param("organization_id"), req.UserID, domain.UserOrganizationRole(req.Role))
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// updateMemberRole godoc
// @Summary Change a member's role
// @Description Updates the role of an existing member. Caller must be an admin.
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param user_id path string true "Target user ID"
// @Param role body dto.UpdateMemberRoleRequest true "New role"
// @Success 204 "No Content"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/users/{user_id}/role [put]
func (h *organizationHandler) updateMemberRole(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	err := h.orgService.UpdateUserRole(c.Request.Context(), userID, c.Param("organization_id"), c.Param("user_id"), domain.UserOrganizationRole(req.Role))
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
