package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // image distroless không có zoneinfo
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Upstream  UpstreamConfig
	Checkout  CheckoutConfig
	Coupon    CouponConfig
	Dashboard DashboardConfig
	Journal   JournalConfig
	Job       JobConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

// UpstreamConfig - storefront REST API (/v1/...)
type UpstreamConfig struct {
	BaseURL  string
	Timeout  time.Duration // 0 = không timeout
	PageSize int           // page size cho chế độ "isAll"
}

type CheckoutConfig struct {
	SessionTTL        time.Duration
	IdempotencyTTL    time.Duration
	SuccessRoute      string // "%s" được thay bằng order_id
	BookkeepingLimit  int    // số call song song tối đa ở bước bookkeeping, <= 0 = không giới hạn
	ReconcileEnabled  bool
	ReconcileMaxRetry int
}

type CouponConfig struct {
	CacheTTL time.Duration
}

type DashboardConfig struct {
	CacheTTL time.Duration
	Timezone string // IANA name, dùng để cắt ngày/tuần/tháng
}

// Location trả về timezone của dashboard, fallback UTC khi tên không hợp lệ
func (d DashboardConfig) Location() *time.Location {
	if d.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type JournalConfig struct {
	Enabled bool
}

// JobConfig - cấu hình cho worker (asynq)
type JobConfig struct {
	Concurrency        int
	CouponWarmCronSpec string
	HealthPort         string
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Storefront Checkout"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "storefront_checkout"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
			MinConns: getEnvInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		},
		Upstream: UpstreamConfig{
			BaseURL:  strings.TrimRight(getEnv("UPSTREAM_BASE_URL", "http://localhost:5000"), "/"),
			Timeout:  getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second),
			PageSize: getEnvInt("UPSTREAM_PAGE_SIZE", 50),
		},
		Checkout: CheckoutConfig{
			SessionTTL:        getEnvDuration("CHECKOUT_SESSION_TTL", 2*time.Hour),
			IdempotencyTTL:    getEnvDuration("CHECKOUT_IDEMPOTENCY_TTL", 24*time.Hour),
			SuccessRoute:      getEnv("CHECKOUT_SUCCESS_ROUTE", "/checkout/success/%s"),
			BookkeepingLimit:  getEnvInt("CHECKOUT_BOOKKEEPING_LIMIT", 0),
			ReconcileEnabled:  getEnvBool("RECONCILE_ENABLED", false),
			ReconcileMaxRetry: getEnvInt("RECONCILE_MAX_RETRY", 5),
		},
		Coupon: CouponConfig{
			CacheTTL: getEnvDuration("COUPON_CACHE_TTL", 60*time.Second),
		},
		Dashboard: DashboardConfig{
			CacheTTL: getEnvDuration("DASHBOARD_CACHE_TTL", 5*time.Minute),
			Timezone: getEnv("DASHBOARD_TIMEZONE", "UTC"),
		},
		Journal: JournalConfig{
			Enabled: getEnvBool("JOURNAL_ENABLED", true),
		},
		Job: JobConfig{
			Concurrency:        getEnvInt("WORKER_CONCURRENCY", 10),
			CouponWarmCronSpec: getEnv("COUPON_WARM_CRON", "*/5 * * * *"),
			HealthPort:         getEnv("WORKER_HEALTH_PORT", "9999"),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL must be set")
	}
	if c.Upstream.PageSize <= 0 {
		return fmt.Errorf("UPSTREAM_PAGE_SIZE must be positive")
	}
	if !strings.Contains(c.Checkout.SuccessRoute, "%s") {
		return fmt.Errorf("CHECKOUT_SUCCESS_ROUTE must contain %%s for the order id")
	}

	// Production environment phải có JWT secret
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Journal.Enabled && c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Checkout.ReconcileEnabled && !c.Journal.Enabled {
			return fmt.Errorf("RECONCILE_ENABLED requires JOURNAL_ENABLED")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
