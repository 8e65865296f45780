package services

import (
	"context"

	"github.com/sorahq/ledger-api/internal/core/domain"
)

// CreateUserInput carries the fields needed to register a user.
type CreateUserInput struct {
	Username string
	Name     string
	Password string
}

// UpdateUserInput carries the mutable fields of a user. Nil pointer fields
// are left unchanged.
type UpdateUserInput struct {
	Name *string
}

// UserService defines the business logic for user accounts.
type UserService interface {
	// CreateUser registers a new user with a hashed password.
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves users with limit/offset pagination.
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)

	// UpdateUser modifies a user's own profile.
	UpdateUser(ctx context.Context, requestingUserID, userID string, input UpdateUserInput) (*domain.User, error)

	// DeleteUser soft-deletes the user's own account.
	DeleteUser(ctx context.Context, requestingUserID, userID string) error
}

// AuthService defines credential verification and token issuance.
type AuthService interface {
	// Login verifies the credentials and returns a signed JWT with the user.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
