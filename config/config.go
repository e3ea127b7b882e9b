package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment
type Config struct {
	Port    string
	AppEnv  string
	GinMode string

	DBDriver string
	DBDSN    string
	SeedData bool

	// JWTSecret used to sign staff tokens
	JWTSecret         []byte
	StaffAuthRequired bool
	AdminEmail        string
	AdminPassword     string

	GeofenceRadiusMeters float64

	CORSAllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For; empty trusts none
	TrustedProxies []string
	// Guest requests per minute per IP; 0 disables the limit
	RateLimitPerMinute int
	RateLimitBurst     int
}

// Load reads .env (when present) and then the process environment
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Println(".env not loaded:", err)
	}
	return Config{
		Port:                 getEnv("PORT", "8080"),
		AppEnv:               getEnv("APP_ENV", "development"),
		GinMode:              getEnv("GIN_MODE", ""),
		DBDriver:             strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:                getEnv("DB_DSN", ":memory:"),
		SeedData:             getBool("SEED_DATA", true),
		JWTSecret:            []byte(getEnv("JWT_SECRET", "restaurant_pos_secret_change_me")),
		StaffAuthRequired:    getBool("STAFF_AUTH_REQUIRED", false),
		AdminEmail:           getEnv("POS_ADMIN_EMAIL", ""),
		AdminPassword:        getEnv("POS_ADMIN_PASSWORD", ""),
		GeofenceRadiusMeters: getFloat("GEOFENCE_RADIUS_METERS", 200),
		CORSAllowedOrigins:   getList("CORS_ALLOWED_ORIGINS", "*"),
		TrustedProxies:       getList("TRUSTED_PROXIES", ""),
		RateLimitPerMinute:   getInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:       getInt("RATE_LIMIT_BURST", 30),
	}
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getList(key, fallback string) []string {
	var list []string
	for _, part := range strings.Split(getEnv(key, fallback), ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}

func getFloat(key string, fallback float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
