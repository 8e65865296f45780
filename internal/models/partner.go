package models

// PartnerType mirrors domain.PartnerType at the storage layer.
type PartnerType string

// Partner is the DB row shape for partners.
type Partner struct {
	PartnerID      string      `db:"partner_id"`
	OrganizationID string      `db:"organization_id"`
	Name           string      `db:"name"`
	PartnerType    PartnerType `db:"partner_type"`
	Email          string      `db:"email"`
	IsActive       bool        `db:"is_active"`
	AuditFields
}
