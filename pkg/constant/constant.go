package constant

import "time"

const (
	// RefreshTokenByteLength is the entropy of an opaque refresh token
	// before hex encoding.
	RefreshTokenByteLength = 40

	DefaultAccessExpiryMin  = 15
	DefaultRefreshExpiryMin = 7 * 24 * 60
	DefaultBcryptCost       = 12
	DefaultMaxLoginAttempts = 5
	DefaultLockoutWindowMin = 15
	DefaultRetentionDays    = 30

	RefreshTokenCookieName = "refreshToken"

	// Locals keys set by the auth middleware.
	LocalsUserID = "userID"
	LocalsEmail  = "email"

	JanitorInterval = time.Hour
)

// Error codes surfaced to clients so they can drive refresh-retry logic.
const (
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeInvalidToken = "INVALID_TOKEN"
	CodeAuthFailed   = "AUTH_FAILED"
)
