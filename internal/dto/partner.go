package dto

import (
	"time"

	"github.com/sorahq/ledger-api/internal/core/domain"
)

// CreatePartnerRequest carries the fields to create a partner.
type CreatePartnerRequest struct {
	Name        string `json:"name" binding:"required"`
	PartnerType string `json:"partnerType" binding:"required,oneof=CUSTOMER VENDOR BOTH"`
	Email       string `json:"email,omitempty" binding:"omitempty,email"`
}

// UpdatePartnerRequest carries the mutable fields of a partner.
type UpdatePartnerRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
}

// PartnerResponse defines the data returned for a partner.
type PartnerResponse struct {
	PartnerID   string    `json:"partnerID"`
	Name        string    `json:"name"`
	PartnerType string    `json:"partnerType"`
	Email       string    `json:"email,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListPartnersResponse wraps a list of partners.
type ListPartnersResponse struct {
	Partners []PartnerResponse `json:"partners"`
}

// ToPartnerResponse converts a domain.Partner to PartnerResponse DTO.
func ToPartnerResponse(p *domain.Partner) PartnerResponse {
	return PartnerResponse{
		PartnerID:   p.PartnerID,
		Name:        p.Name,
		PartnerType: string(p.PartnerType),
		Email:       p.Email,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
}

// ToListPartnersResponse converts a slice of domain.Partner to the list response.
func ToListPartnersResponse(partners []domain.Partner) ListPartnersResponse {
	responses := make([]PartnerResponse, len(partners))
	for i, p := range partners {
		responses[i] = ToPartnerResponse(&p)
	}
	return ListPartnersResponse{Partners: responses}
}
