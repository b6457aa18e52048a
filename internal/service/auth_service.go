package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ishop/internal/auth"
	"ishop/internal/model"
	"ishop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const minPasswordLength = 8

// authService implements AuthService.
type authService struct {
	userRepo repository.UserRepository
	issuer   *auth.TokenIssuer
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, issuer *auth.TokenIssuer, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		issuer:   issuer,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates a new customer account.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: hash,
		IsActive:     true,
		IsAdmin:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Warn().Err(err).Str("email", user.Email).Msg("failed to create user")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID.String()).
		Str("email", user.Email).
		Msg("user registered")

	return user, nil
}

// Login verifies credentials and issues an access token. Unknown emails,
// wrong passwords and deactivated accounts all produce the same error so a
// caller cannot probe which addresses are registered.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	if req == nil || req.Email == "" || req.Password == "" {
		return nil, model.ErrInvalidCredentials
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to look up user")
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	if user == nil || !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Debug().Str("email", email).Msg("login rejected")
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to issue token")
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")

	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

// Resolve maps a raw bearer token back to its user.
func (s *authService) Resolve(ctx context.Context, rawToken string) (*model.User, error) {
	userID, err := s.issuer.Verify(rawToken)
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to look up token subject")
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}

	if user == nil || !user.IsActive {
		return nil, model.ErrInvalidToken
	}

	return user, nil
}

// validateRegisterRequest checks the registration payload.
func validateRegisterRequest(req *model.RegisterRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "Request body is required", http.StatusBadRequest)
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return model.NewDomainError(model.ErrCodeMissingField, "A valid email is required", http.StatusBadRequest)
	}

	if len(req.Password) < minPasswordLength {
		return model.NewDomainError(model.ErrCodeMissingField,
			fmt.Sprintf("Password must be at least %d characters", minPasswordLength), http.StatusBadRequest)
	}

	if strings.TrimSpace(req.DisplayName) == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Display name is required", http.StatusBadRequest)
	}

	return nil
}
