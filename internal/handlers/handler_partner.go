package handlers

import (
	"net/http"
	"strconv"

	"github.com/sorahq/ledger-api/internal/core/domain"
	portssvc "github.com/sorahq/ledger-api/internal/core/ports/services"
	"github.com/sorahq/ledger-api/internal/dto"
	"github.com/sorahq/ledger-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// partnerHandler handles HTTP requests related to partners.
type partnerHandler struct {
	partnerService portssvc.PartnerService
}

func newPartnerHandler(ps portssvc.PartnerService) *partnerHandler {
	return &partnerHandler{partnerService: ps}
}

// registerPartnerRoutes registers routes related to partners within an organization.
func registerPartnerRoutes(rg *gin.RouterGroup, partnerService portssvc.PartnerService) {
	h := newPartnerHandler(partnerService)

	partners := rg.Group("/partners")
	{
		partners.POST("", h.createPartner)
		partners.GET("/:id", h.getPartner)
		partners.GET("", h.listPartners)
		partners.PUT("/:id", h.updatePartner)
		partners.DELETE("/:id", h.deactivatePartner)
	}
}

// createPartner godoc
// @Summary Create a new partner
// @Description Creates a customer or vendor for the organization
// @Tags partners
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param partner body dto.CreatePartnerRequest true "Partner details"
// @Success 201 {object} dto.PartnerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/partners [post]
func (h *partnerHandler) createPartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	partner, err := h.partnerService.CreatePartner(c.Request.Context(), c.Param("organization_id"), userID, portssvc.CreatePartnerInput{
		Name:        req.Name,
		PartnerType: domain.PartnerType(req.PartnerType),
		Email:       req.Email,
	})
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPartnerResponse(partner))
}

// getPartner godoc
// @Summary Get a partner by ID
// @Description Retrieves one partner of the organization
// @Tags partners
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param id path string true "Partner ID"
// @Success 200 {object} dto.PartnerResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/partners/{id} [get]
func (h *partnerHandler) getPartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	partner, err := h.partnerService.GetPartnerByID(c.Request.Context(), c.Param("organization_id"), userID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPartnerResponse(partner))
}

// listPartners godoc
// @Summary List partners
// @Description Retrieves partners of the organization
// @Tags partners
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param limit query int false "Max results" default(100)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListPartnersResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/partners [get]
func (h *partnerHandler) listPartners(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	partners, err := h.partnerService.ListPartners(c.Request.Context(), c.Param("organization_id"), userID, limit, offset)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListPartnersResponse(partners))
}

// updatePartner godoc
// @Summary Update a partner
// @Description Updates the name or email of a partner
// @Tags partners
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param id path string true "Partner ID"
// @Param partner body dto.UpdatePartnerRequest true "Fields to update"
// @Success 200 {object} dto.PartnerResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/partners/{id} [put]
func (h *partnerHandler) updatePartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	partner, err := h.partnerService.UpdatePartner(c.Request.Context(), c.Param("organization_id"), userID, c.Param("id"), portssvc.UpdatePartnerInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPartnerResponse(partner))
}

// deactivatePartner godoc
// @Summary Deactivate a partner
// @Description Marks a partner inactive
// @Tags partners
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param id path string true "Partner ID"
// @Success 204 "No Content"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/partners/{id} [delete]
func (h *partnerHandler) deactivatePartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.partnerService.DeactivatePartner(c.Request.Context(), c.Param("organization_id"), userID, c.Param("id")); err != nil {
		respondError(c, logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
