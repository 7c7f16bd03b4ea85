package config

import (
	"log"
	"os"
	"strconv"

	"github.com/Yrcd27/mirror-auth-service/pkg/constant"
)

type Config struct {
	Env         string
	Port        string
	DBURL       string
	FrontendURL string

	JWTSecret        string
	AccessExpiryMin  int
	RefreshExpiryMin int

	BcryptCost       int
	MaxLoginAttempts int
	LockoutWindowMin int
	RetentionDays    int

	// AllowRefreshTokenInBody enables the deprecated JSON-body delivery
	// path for refresh tokens. Cookie delivery is the supported path.
	AllowRefreshTokenInBody bool
}

func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DBURL:       mustGetEnv("DB_URL"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		JWTSecret:        mustGetEnv("JWT_SECRET"),
		AccessExpiryMin:  getEnvAsInt("ACCESS_TOKEN_EXPIRY", constant.DefaultAccessExpiryMin),
		RefreshExpiryMin: getEnvAsInt("REFRESH_TOKEN_EXPIRY", constant.DefaultRefreshExpiryMin),

		BcryptCost:       getEnvAsInt("BCRYPT_COST", constant.DefaultBcryptCost),
		MaxLoginAttempts: getEnvAsInt("MAX_LOGIN_ATTEMPTS", constant.DefaultMaxLoginAttempts),
		LockoutWindowMin: getEnvAsInt("LOCKOUT_WINDOW", constant.DefaultLockoutWindowMin),
		RetentionDays:    getEnvAsInt("REFRESH_TOKEN_RETENTION_DAYS", constant.DefaultRetentionDays),

		AllowRefreshTokenInBody: getEnvAsBool("ALLOW_REFRESH_TOKEN_IN_BODY", false),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %t", key, defaultVal)
		return defaultVal
	}
	return val
}
