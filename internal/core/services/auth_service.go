package services

import (
	"context"
	"errors"
	"time"

	"github.com/sorahq/ledger-api/internal/apperrors"
	"github.com/sorahq/ledger-api/internal/core/domain"
	portsrepo "github.com/sorahq/ledger-api/internal/core/ports/repositories"
	portssvc "github.com/sorahq/ledger-api/internal/core/ports/services"
	"github.com/sorahq/ledger-api/internal/utils"
)

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords so login failures do not reveal which usernames exist.
var ErrInvalidCredentials = errors.New("invalid username or password")

// authService verifies credentials and issues JWTs.
type authService struct {
	userRepo  portsrepo.UserRepositoryFacade
	jwtSecret string
	jwtExpiry time.Duration
	jwtIssuer string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo portsrepo.UserRepositoryFacade, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) portssvc.AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		jwtIssuer: jwtIssuer,
	}
}

// Ensure authService implements the portssvc.AuthService interface
var _ portssvc.AuthService = (*authService)(nil)

// Login verifies the credentials and returns a signed JWT with the user.
func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.UserID, s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
