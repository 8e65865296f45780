package domain

// PartnerType classifies a partner as customer, vendor or both.
type PartnerType string

const (
	Customer PartnerType = "CUSTOMER"
	Vendor   PartnerType = "VENDOR"
	Both     PartnerType = "BOTH"
)

// Partner is a customer or vendor an organization transacts with.
type Partner struct {
	PartnerID      string      `json:"partnerID"`      // Primary Key (UUID)
	OrganizationID string      `json:"organizationID"` // FK -> organizations (Not Null)
	Name           string      `json:"name"`
	PartnerType    PartnerType `json:"partnerType"`
	Email          string      `json:"email,omitempty"`
	IsActive       bool        `json:"isActive"`
	AuditFields
}
