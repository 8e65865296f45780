package dto

import (
	"time"

	"github.com/sorahq/ledger-api/internal/core/domain"
)

// CreateOrganizationRequest carries the fields to create an organization.
type CreateOrganizationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

// AddOrganizationMemberRequest carries a membership addition.
type AddOrganizationMemberRequest struct {
	UserID string `json:"userID" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
}

// UpdateMemberRoleRequest carries a role change for an existing member.
type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY REMOVED"`
}

// OrganizationResponse defines the data returned for an organization.
type OrganizationResponse struct {
	OrganizationID string    `json:"organizationID"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

// OrganizationMemberResponse defines the data returned for a membership.
type OrganizationMemberResponse struct {
	UserID   string    `json:"userID"`
	UserName string    `json:"userName"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// ListOrganizationsResponse wraps a list of organizations.
type ListOrganizationsResponse struct {
	Organizations []OrganizationResponse `json:"organizations"`
}

// ToOrganizationResponse converts a domain.Organization to OrganizationResponse DTO.
func ToOrganizationResponse(o *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID: o.OrganizationID,
		Name:           o.Name,
		Description:    o.Description,
		IsActive:       o.IsActive,
		CreatedAt:      o.CreatedAt,
	}
}

// ToListOrganizationsResponse converts a slice of domain.Organization to the list response.
func ToListOrganizationsResponse(orgs []domain.Organization) ListOrganizationsResponse {
	responses := make([]OrganizationResponse, len(orgs))
	for i, o := range orgs {
		responses[i] = ToOrganizationResponse(&o)
	}
	return ListOrganizationsResponse{Organizations: responses}
}

// ToOrganizationMemberResponse converts a domain.UserOrganization to its DTO.
func ToOrganizationMemberResponse(m *domain.UserOrganization) OrganizationMemberResponse {
	return OrganizationMemberResponse{
		UserID:   m.UserID,
		UserName: m.UserName,
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
	}
}
