package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vinealabs/winery-system/internal/core/domain"
	"github.com/vinealabs/winery-system/internal/core/ports"
	"github.com/vinealabs/winery-system/internal/pkg/password"
	"github.com/vinealabs/winery-system/internal/pkg/token"
)

// AuthService implements registration, login and account management. It is
// stateless: the secret and TTL are read-only process configuration, so the
// same instance serves concurrent requests without locking.
type AuthService struct {
	repo     ports.UserRepository
	hasher   *password.Hasher
	secret   string
	ttlHours int
	logger   zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, hasher *password.Hasher, secret string, ttlHours int, logger zerolog.Logger) *AuthService {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthService{repo: repo, hasher: hasher, secret: secret, ttlHours: ttlHours, logger: logger}
}

// Register creates a new account. Email uniqueness is enforced solely by the
// store's unique index: no existence pre-check, so there is no check/insert
// race and no timing difference an attacker could use to probe for emails.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if !in.Role.Valid() {
		return nil, fmt.Errorf("register: unknown role %q", in.Role)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Insert(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID.String()).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// Login verifies credentials and mints a session token. Unknown email, wrong
// password and deactivated account all collapse into ErrInvalidCredentials:
// distinguishing them would leak which accounts exist and which are disabled.
func (s *AuthService) Login(ctx context.Context, email, pw string) (string, *domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	ok, err := s.hasher.Verify(pw, user.PasswordHash)
	if err != nil {
		// Malformed stored hash is a server-side integrity fault.
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("stored password hash unreadable")
		return "", nil, err
	}
	if !ok {
		return "", nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Debug().Str("user_id", user.ID.String()).Msg("login attempt on deactivated account")
		return "", nil, domain.ErrInvalidCredentials
	}

	claims := token.New(user.ID, user.Email, user.Role, time.Now().UTC(), s.ttlHours)
	signed, err := token.Encode(claims, s.secret)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("login succeeded")
	return signed, user, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName *string) (*domain.User, error) {
	return s.repo.UpdateProfile(ctx, userID, firstName, lastName)
}

// ChangePassword requires the current password even though the caller is
// already authenticated, so a stolen token alone cannot rotate credentials.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(currentPassword, user.PasswordHash)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("stored password hash unreadable")
		return err
	}
	if !ok {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID.String()).Msg("password changed")
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *AuthService) Deactivate(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, userID, false); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID.String()).Msg("account deactivated")
	return nil
}
