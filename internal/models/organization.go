package models

import "time"

// Organization is the DB row shape for organizations.
type Organization struct {
	OrganizationID string `db:"organization_id"`
	Name           string `db:"name"`
	Description    string `db:"description"`
	IsActive       bool   `db:"is_active"`
	AuditFields
}

// UserOrganizationRole mirrors domain.UserOrganizationRole at the storage layer.
type UserOrganizationRole string

// UserOrganization is the DB row shape for organization memberships.
type UserOrganization struct {
	UserID         string               `db:"user_id"`
	OrganizationID string               `db:"organization_id"`
	Role           UserOrganizationRole `db:"role"`
	JoinedAt       time.Time            `db:"joined_at"`
}
