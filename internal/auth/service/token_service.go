package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/Yrcd27/mirror-auth-service/internal/auth/service TokenGenerator

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Yrcd27/mirror-auth-service/pkg/constant"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

type TokenGenerator interface {
	GenerateAccessToken(userID, email string) (string, error)
	GenerateRefreshToken() (string, error)
	VerifyAccessToken(tokenString string) (*AccessClaims, error)
	AccessTokenExpiry() time.Duration
	RefreshTokenExpiry() time.Duration
}

// TokenService mints the two credential kinds. Access tokens are signed,
// self-contained, and never persisted; refresh tokens are opaque random
// strings whose only meaning is the RefreshToken row they index.
type TokenService struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// AccessClaims is the fixed claim set embedded in an access token. No
// sensitive fields beyond id and email are ever embedded.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Email  string `json:"email"`
}

func NewTokenService(secret string, accessMinutes, refreshMinutes int) *TokenService {
	return &TokenService{
		secret:        []byte(secret),
		accessExpiry:  time.Duration(accessMinutes) * time.Minute,
		refreshExpiry: time.Duration(refreshMinutes) * time.Minute,
	}
}

func (ts *TokenService) GenerateAccessToken(userID, email string) (string, error) {
	now := time.Now()

	claims := AccessClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
}

// GenerateRefreshToken returns a fresh opaque token string with
// constant.RefreshTokenByteLength bytes of entropy, hex encoded.
func (ts *TokenService) GenerateRefreshToken() (string, error) {
	buf := make([]byte, constant.RefreshTokenByteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// VerifyAccessToken parses and validates an access token string. It
// distinguishes expiry from every other failure so the handler layer can
// surface TOKEN_EXPIRED to clients.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	// Redundant expiry check on top of the library's own validation;
	// the two disagree under clock skew and the stricter answer wins.
	if claims.ExpiresAt == nil || !time.Now().Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

func (ts *TokenService) AccessTokenExpiry() time.Duration {
	return ts.accessExpiry
}

func (ts *TokenService) RefreshTokenExpiry() time.Duration {
	return ts.refreshExpiry
}
