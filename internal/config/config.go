package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode    string
	Port       string
	Database   DatabaseConfig
	JWT        JWTConfig
	Cookie     CookieConfig
	Commission CommissionConfig
	Affiliate  AffiliateConfig
}

// CookieConfig holds auth cookie attributes
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CommissionConfig holds the reseller commission settings
type CommissionConfig struct {
	Rate float64
}

// AffiliateConfig holds the public signup URL used to build referral links
type AffiliateConfig struct {
	SignupBaseURL string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	rate, err := strconv.ParseFloat(getEnv("COMMISSION_RATE", "0.30"), 64)
	if err != nil || rate <= 0 || rate >= 1 {
		return nil, fmt.Errorf("invalid COMMISSION_RATE: must be a fraction between 0 and 1")
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "8000"),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Cookie:   loadCookieConfig(appMode),
		Commission: CommissionConfig{
			Rate: rate,
		},
		Affiliate: AffiliateConfig{
			SignupBaseURL: getEnv("AFFILIATE_SIGNUP_URL", "https://marketplace.forma-fusion.com/register"),
		},
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "formafusion_partners"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "60"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}
}

// loadCookieConfig loads auth cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	if mode == "prod" {
		return CookieConfig{
			Secure:   true,
			SameSite: getEnv("COOKIE_SAMESITE", "Strict"),
			Domain:   getEnv("COOKIE_DOMAIN", ""),
		}
	}
	return CookieConfig{
		Secure:   false,
		SameSite: getEnv("COOKIE_SAMESITE", "Lax"),
		Domain:   "",
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://partners.forma-fusion.com"
	}
	return origins
}
