package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campusprep-api/internal/dto"
	"github.com/noah-isme/campusprep-api/internal/models"
	"github.com/noah-isme/campusprep-api/internal/repository"
	"github.com/noah-isme/campusprep-api/pkg/token"
)

// AuthService exposes registration, login and token rotation.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResult, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (dto.AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, accountID uint) (dto.AccountResponse, error)
}

type authService struct {
	accounts  repository.AccountRepository
	sessions  RefreshSessionStore
	tokens    *token.Manager
	hasher    PasswordHasher
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthService builds the credential and session manager.
func NewAuthService(accounts repository.AccountRepository, sessions RefreshSessionStore, tokens *token.Manager, hasher PasswordHasher, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		accounts:  accounts,
		sessions:  sessions,
		tokens:    tokens,
		hasher:    hasher,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResult, error) {
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResult{}, translateValidation(err)
	}
	if len(payload.Password) > maxPasswordBytes {
		return dto.AuthResult{}, validationError("password must be at most %d bytes", maxPasswordBytes)
	}

	if _, err := s.accounts.GetByEmail(ctx, payload.Email); err == nil {
		return dto.AuthResult{}, newError(ErrConflict, "email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResult{}, err
	}

	hash, err := s.hasher.Hash(payload.Password)
	if err != nil {
		return dto.AuthResult{}, err
	}

	role := strings.ToLower(strings.TrimSpace(payload.Role))
	if !models.IsKnownRole(role) {
		role = models.RoleStudent
	}

	account := models.Account{
		Name:         payload.Name,
		Email:        payload.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.accounts.Create(ctx, &account); err != nil {
		if isDuplicateKey(err) {
			return dto.AuthResult{}, newError(ErrConflict, "email is already registered")
		}
		return dto.AuthResult{}, err
	}

	s.logger.Info().Uint("account_id", account.ID).Str("role", account.Role).Msg("account registered")

	return s.issue(ctx, account)
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" || payload.Password == "" {
		return dto.AuthResult{}, validationError("email and password are required")
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.hasher.CompareDummy(payload.Password)
			return dto.AuthResult{}, invalidCredentials()
		}
		return dto.AuthResult{}, err
	}

	if err := s.hasher.Compare(account.PasswordHash, payload.Password); err != nil {
		return dto.AuthResult{}, invalidCredentials()
	}

	return s.issue(ctx, account)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (dto.AuthResult, error) {
	claims, err := s.tokens.ParseRefresh(strings.TrimSpace(refreshToken))
	if err != nil {
		return dto.AuthResult{}, newError(ErrUnauthorized, "invalid or expired refresh token")
	}
	accountID, err := claims.AccountID()
	if err != nil {
		return dto.AuthResult{}, newError(ErrUnauthorized, "invalid or expired refresh token")
	}

	consumed, err := s.sessions.Consume(ctx, claims.ID)
	if err != nil {
		return dto.AuthResult{}, err
	}
	if !consumed {
		// A validly signed token whose session is gone has been used already.
		if revokeErr := s.sessions.RevokeAll(ctx, accountID); revokeErr != nil {
			s.logger.Error().Err(revokeErr).Uint("account_id", accountID).Msg("failed to revoke sessions after refresh token reuse")
		}
		s.logger.Warn().Uint("account_id", accountID).Msg("refresh token reuse detected, all sessions revoked")
		return dto.AuthResult{}, newError(ErrUnauthorized, "refresh token has been revoked")
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResult{}, newError(ErrUnauthorized, "account no longer exists")
		}
		return dto.AuthResult{}, err
	}

	return s.issue(ctx, account)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.ParseRefresh(strings.TrimSpace(refreshToken))
	if err != nil {
		return nil
	}
	if _, err := s.sessions.Consume(ctx, claims.ID); err != nil {
		s.logger.Warn().Err(err).Msg("failed to revoke refresh session on logout")
	}
	return nil
}

func (s *authService) Me(ctx context.Context, accountID uint) (dto.AccountResponse, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AccountResponse{}, notFoundError("account not found")
		}
		return dto.AccountResponse{}, err
	}
	return dto.NewAccountResponse(account), nil
}

func (s *authService) issue(ctx context.Context, account models.Account) (dto.AuthResult, error) {
	access, err := s.tokens.IssueAccess(account.ID, account.Role)
	if err != nil {
		return dto.AuthResult{}, err
	}
	refresh, err := s.tokens.IssueRefresh(account.ID)
	if err != nil {
		return dto.AuthResult{}, err
	}
	if err := s.sessions.Save(ctx, refresh.ID, account.ID, refresh.ExpiresAt); err != nil {
		return dto.AuthResult{}, err
	}

	view := dto.NewAccountResponse(account)
	return dto.AuthResult{
		Response: dto.AuthResponse{
			AccessToken: access.Token,
			TokenType:   "Bearer",
			ExpiresAt:   access.ExpiresAt,
			Account:     &view,
		},
		RefreshToken:     refresh.Token,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

func invalidCredentials() *Error {
	return newError(ErrUnauthorized, "invalid credentials")
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	message := err.Error()
	return strings.Contains(message, "UNIQUE") || strings.Contains(message, "duplicate key")
}
