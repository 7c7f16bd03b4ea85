package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/Yrcd27/mirror-auth-service/internal/auth/domain UserRepository

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdateName(ctx context.Context, id, name string) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error

	StoreRefreshToken(ctx context.Context, rt *RefreshToken) error
	// ConsumeRefreshToken atomically marks the matching valid, unexpired
	// token revoked and returns it. Returns nil when no such token exists,
	// it was already revoked, or it has expired; callers cannot tell the
	// three cases apart.
	ConsumeRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	// RevokeRefreshToken is idempotent; revoking an unknown or already
	// revoked token is not an error.
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllByUserID(ctx context.Context, userID string) error
	// PurgeRefreshTokensBefore removes rows created before the cutoff
	// regardless of their revoked flag. Retention safety net, not the
	// primary invalidation mechanism.
	PurgeRefreshTokensBefore(ctx context.Context, cutoff time.Time) (int64, error)

	RecordLoginAttempt(ctx context.Context, email, ip string, success bool) error
}
