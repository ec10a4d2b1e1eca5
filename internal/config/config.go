// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Store       StoreConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Admin       AdminConfig
	Blockchain  BlockchainConfig
	Payment     PaymentConfig
	AWS         AWSConfig
	RateLimit   RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

// StoreConfig selects the key-value backend the marketplace state lives in.
type StoreConfig struct {
	Backend    string // memory, postgres or redis
	QuotaBytes int    // memory backend only, 0 means unlimited
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL int // in hours
}

// AdminConfig seeds the bootstrap operator account.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

type BlockchainConfig struct {
	Mode                string // simulated or contract
	Network             string
	RPCURL              string
	RegistryContract    string
	MarketplaceContract string
	WalletDelayMs       int
	ConfirmDelayMs      int
}

type PaymentConfig struct {
	StripeSecretKey      string
	StripePublishableKey string
	PlatformFeePercent   float64
	EthUSDRate           float64
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

type RateLimitConfig struct {
	GeneralRPS  float64
	AuthRPM     float64
	PurchaseRPM float64
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Store: StoreConfig{
			Backend:    getEnv("STORE_BACKEND", "memory"),
			QuotaBytes: getEnvAsInt("STORE_QUOTA_BYTES", 0),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "artisan_marketplace"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenTTL: getEnvAsInt("JWT_ACCESS_TTL", 24), // 24 hours
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@craftchain.example"),
			Password: getEnv("ADMIN_PASSWORD", ""),
			Name:     getEnv("ADMIN_NAME", "Marketplace Admin"),
		},
		Blockchain: BlockchainConfig{
			Mode:                getEnv("BLOCKCHAIN_MODE", "simulated"),
			Network:             getEnv("BLOCKCHAIN_NETWORK", "polygon"),
			RPCURL:              getEnv("BLOCKCHAIN_RPC_URL", ""),
			RegistryContract:    getEnv("BLOCKCHAIN_REGISTRY_CONTRACT", ""),
			MarketplaceContract: getEnv("BLOCKCHAIN_MARKETPLACE_CONTRACT", ""),
			WalletDelayMs:       getEnvAsInt("BLOCKCHAIN_WALLET_DELAY_MS", 400),
			ConfirmDelayMs:      getEnvAsInt("BLOCKCHAIN_CONFIRM_DELAY_MS", 1200),
		},
		Payment: PaymentConfig{
			StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			StripePublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			PlatformFeePercent:   getEnvAsFloat("PLATFORM_FEE_PERCENT", 2.5),
			EthUSDRate:           getEnvAsFloat("ETH_USD_RATE", 2500.0),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "craftchain-assets"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:  getEnvAsFloat("RATE_LIMIT_GENERAL_RPS", 20),
			AuthRPM:     getEnvAsFloat("RATE_LIMIT_AUTH_RPM", 10),
			PurchaseRPM: getEnvAsFloat("RATE_LIMIT_PURCHASE_RPM", 6),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "your-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	switch c.Store.Backend {
	case "memory", "postgres", "redis":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	switch c.Blockchain.Mode {
	case "simulated", "contract":
	default:
		return fmt.Errorf("unknown blockchain mode %q", c.Blockchain.Mode)
	}
	if c.Blockchain.Mode == "contract" && c.Blockchain.RPCURL == "" {
		return fmt.Errorf("contract mode requires BLOCKCHAIN_RPC_URL")
	}

	if c.Store.Backend == "postgres" && c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
