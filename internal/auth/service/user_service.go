package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Yrcd27/mirror-auth-service/internal/auth/domain"
	"github.com/Yrcd27/mirror-auth-service/internal/auth/dto"
	"github.com/Yrcd27/mirror-auth-service/internal/auth/password"
	"github.com/Yrcd27/mirror-auth-service/internal/auth/throttle"
	autherror "github.com/Yrcd27/mirror-auth-service/internal/errors"
)

type UserService struct {
	repo     domain.UserRepository
	tokens   TokenGenerator
	hasher   *password.Hasher
	throttle *throttle.LoginThrottle
	logger   *slog.Logger
}

func NewUserService(repo domain.UserRepository, tokens TokenGenerator, hasher *password.Hasher,
	throttle *throttle.LoginThrottle, logger *slog.Logger) *UserService {
	return &UserService{
		repo:     repo,
		tokens:   tokens,
		hasher:   hasher,
		throttle: throttle,
		logger:   logger,
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	if err := password.Validate(input.Password); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials behind the per-address throttle. The unknown
// email and wrong-password paths do equal hashing work and return the same
// error so callers cannot enumerate accounts.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*domain.User, *dto.TokenPair, error) {
	if !s.throttle.Allow(input.IPAddress) {
		return nil, nil, autherror.ErrTooManyLoginAttempts
	}

	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, nil, err
	}

	if user == nil {
		s.hasher.VerifyDummy(input.Password)
		s.recordAttempt(ctx, input.Email, input.IPAddress, false)
		return nil, nil, autherror.ErrInvalidCredentials
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		s.recordAttempt(ctx, input.Email, input.IPAddress, false)
		return nil, nil, autherror.ErrInvalidCredentials
	}

	s.throttle.Clear(input.IPAddress)
	s.recordAttempt(ctx, input.Email, input.IPAddress, true)

	pair, err := s.issueTokens(ctx, user, input.IPAddress, input.UserAgent)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Refresh rotates a presented refresh token: the matching record is
// consumed atomically at the store, so of two concurrent calls with the
// same token exactly one receives a new pair.
func (s *UserService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.TokenPair, error) {
	if input.RefreshToken == "" {
		return nil, autherror.ErrRefreshTokenRequired
	}

	consumed, err := s.repo.ConsumeRefreshToken(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}
	if consumed == nil {
		return nil, autherror.ErrInvalidRefreshToken
	}

	// The owner may have deleted their account while the token was still
	// technically valid; tokens never outlive the identity.
	user, err := s.repo.GetByID(ctx, consumed.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrIdentityNotFound
	}

	return s.issueTokens(ctx, user, input.IPAddress, input.UserAgent)
}

// Logout revokes the refresh token best-effort. It never returns an error:
// logout must always appear to succeed, so store failures are logged and
// swallowed.
func (s *UserService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	if err := s.repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		s.logger.Warn("failed to revoke refresh token on logout", "error", err)
	}
}

func (s *UserService) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrIdentityNotFound
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, input dto.UpdateProfileInput) error {
	return s.repo.UpdateName(ctx, userID, input.Name)
}

// ChangePassword rehashes the credential and revokes every outstanding
// refresh token so stolen sessions die with the old password.
func (s *UserService) ChangePassword(ctx context.Context, userID string, input dto.ChangePasswordInput) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(input.CurrentPassword, user.PasswordHash) {
		return autherror.ErrInvalidCredentials
	}

	if err := password.Validate(input.NewPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	return s.repo.RevokeAllByUserID(ctx, userID)
}

// DeleteAccount removes the identity and cascade-revokes its refresh
// tokens first, so no token briefly outlives its owner.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.repo.RevokeAllByUserID(ctx, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID)
}

// PurgeExpired drops refresh-token rows older than the retention window.
// Invoked by the janitor; a safety net behind explicit revocation.
func (s *UserService) PurgeExpired(ctx context.Context, retention time.Duration) {
	cutoff := time.Now().Add(-retention)
	purged, err := s.repo.PurgeRefreshTokensBefore(ctx, cutoff)
	if err != nil {
		s.logger.Warn("refresh token purge failed", "error", err)
		return
	}
	if purged > 0 {
		s.logger.Info("purged aged refresh tokens", "count", purged)
	}
}

func (s *UserService) issueTokens(ctx context.Context, user *domain.User, ip, userAgent string) (*dto.TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record := &domain.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     refreshToken,
		IPAddress: ip,
		UserAgent: userAgent,
		ExpiresAt: now.Add(s.tokens.RefreshTokenExpiry()),
		CreatedAt: now,
		Revoked:   false,
	}

	if err := s.repo.StoreRefreshToken(ctx, record); err != nil {
		return nil, err
	}

	return &dto.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *UserService) recordAttempt(ctx context.Context, email, ip string, success bool) {
	if !success {
		s.throttle.RecordFailure(ip)
	}
	// Durable audit row; never consulted for throttling decisions.
	if err := s.repo.RecordLoginAttempt(ctx, email, ip, success); err != nil {
		s.logger.Warn("failed to record login attempt", "error", err)
	}
}
