// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Database DatabaseConfig
	AWS      AWSConfig
	Catalog  CatalogConfig
	Cart     CartConfig
	Security SecurityConfig
	Logging  LoggingConfig
	PDF      PDFConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `validate:"required"`
	Version     string
	Environment string `validate:"oneof=development staging production test"`
	Debug       bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string `validate:"required"`
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64 `validate:"gt=0"`
}

// StorageConfig selects the key-value medium the cart is persisted to
type StorageConfig struct {
	Backend  string `validate:"oneof=memory file redis postgres dynamodb"`
	FilePath string
	TTL      time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// AWSConfig contains settings for the DynamoDB storage backend and S3 catalog source
type AWSConfig struct {
	Region        string
	Endpoint      string
	DynamoDBTable string
}

// CatalogConfig describes where the product fixture lives
type CatalogConfig struct {
	Source         string `validate:"required"`
	SimulatedDelay time.Duration
}

// CartConfig contains the cart pricing rules and promo allow-list
type CartConfig struct {
	StorageKey            string        `validate:"required"`
	FreeShippingThreshold float64       `validate:"gte=0"`
	ShippingFee           float64       `validate:"gte=0"`
	TaxRate               float64       `validate:"gte=0,lt=1"`
	FallbackMaxQuantity   int           `validate:"gt=0"`
	PromoCodes            []string
	PromoRate             float64       `validate:"gte=0,lte=1"`
	SessionIdle           time.Duration `validate:"gte=0"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string `validate:"oneof=json text"`
}

// PDFConfig contains the header printed on cart quotes
type PDFConfig struct {
	CompanyName    string
	CompanyWebsite string
	CompanyEmail   string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using environment variables")
	}

	config := Defaults()
	config.App = AppConfig{
		Name:        getEnv("APP_NAME", config.App.Name),
		Version:     getEnv("APP_VERSION", config.App.Version),
		Environment: getEnv("APP_ENV", config.App.Environment),
		Debug:       getEnvAsBool("APP_DEBUG", config.App.Debug),
	}
	config.Server = ServerConfig{
		Port:           getEnv("APP_PORT", config.Server.Port),
		ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", config.Server.ReadTimeout),
		WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", config.Server.WriteTimeout),
		IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", config.Server.IdleTimeout),
		RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", config.Server.RequestTimeout),
		MaxBodyBytes:   getEnvAsInt64("SERVER_MAX_BODY_BYTES", config.Server.MaxBodyBytes),
	}
	config.Storage = StorageConfig{
		Backend:  getEnv("STORAGE_BACKEND", config.Storage.Backend),
		FilePath: getEnv("STORAGE_FILE_PATH", config.Storage.FilePath),
		TTL:      getEnvAsDuration("STORAGE_TTL", config.Storage.TTL),
	}
	config.Redis = RedisConfig{
		Host:         getEnv("REDIS_HOST", config.Redis.Host),
		Port:         getEnv("REDIS_PORT", config.Redis.Port),
		Password:     getEnv("REDIS_PASSWORD", config.Redis.Password),
		DB:           getEnvAsInt("REDIS_DB", config.Redis.DB),
		PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", config.Redis.PoolSize),
		MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", config.Redis.MinIdleConns),
	}
	config.Database = DatabaseConfig{
		Host:         getEnv("DB_HOST", config.Database.Host),
		Port:         getEnv("DB_PORT", config.Database.Port),
		Name:         getEnv("DB_NAME", config.Database.Name),
		User:         getEnv("DB_USER", config.Database.User),
		Password:     getEnv("DB_PASSWORD", config.Database.Password),
		SSLMode:      getEnv("DB_SSL_MODE", config.Database.SSLMode),
		MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", config.Database.MaxOpenConns),
		MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", config.Database.MaxIdleConns),
		MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", config.Database.MaxLifetime),
	}
	config.AWS = AWSConfig{
		Region:        getEnv("AWS_REGION", config.AWS.Region),
		Endpoint:      getEnv("AWS_ENDPOINT_URL", config.AWS.Endpoint),
		DynamoDBTable: getEnv("DYNAMODB_TABLE", config.AWS.DynamoDBTable),
	}
	config.Catalog = CatalogConfig{
		Source:         getEnv("CATALOG_SOURCE", config.Catalog.Source),
		SimulatedDelay: getEnvAsDuration("CATALOG_SIMULATED_DELAY", config.Catalog.SimulatedDelay),
	}
	config.Cart = CartConfig{
		StorageKey:            getEnv("CART_STORAGE_KEY", config.Cart.StorageKey),
		FreeShippingThreshold: getEnvAsFloat("CART_FREE_SHIPPING_THRESHOLD", config.Cart.FreeShippingThreshold),
		ShippingFee:           getEnvAsFloat("CART_SHIPPING_FEE", config.Cart.ShippingFee),
		TaxRate:               getEnvAsFloat("CART_TAX_RATE", config.Cart.TaxRate),
		FallbackMaxQuantity:   getEnvAsInt("CART_FALLBACK_MAX_QUANTITY", config.Cart.FallbackMaxQuantity),
		PromoCodes:            getEnvAsSlice("CART_PROMO_CODES", config.Cart.PromoCodes),
		PromoRate:             getEnvAsFloat("CART_PROMO_RATE", config.Cart.PromoRate),
		SessionIdle:           getEnvAsDuration("CART_SESSION_IDLE", config.Cart.SessionIdle),
	}
	config.Security = SecurityConfig{
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", config.Security.RateLimitPerMinute),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", config.Security.CORSAllowedOrigins),
		CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", config.Security.CORSAllowedMethods),
		CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", config.Security.CORSAllowedHeaders),
		TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", config.Security.TrustedProxies),
	}
	config.Logging = LoggingConfig{
		Level:  getEnv("LOG_LEVEL", config.Logging.Level),
		Format: getEnv("LOG_FORMAT", config.Logging.Format),
	}
	config.PDF = PDFConfig{
		CompanyName:    getEnv("COMPANY_NAME", config.PDF.CompanyName),
		CompanyWebsite: getEnv("COMPANY_WEBSITE", config.PDF.CompanyWebsite),
		CompanyEmail:   getEnv("COMPANY_EMAIL", config.PDF.CompanyEmail),
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Defaults returns the configuration used when no environment overrides are present
func Defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:        "Storefront",
			Version:     "1.0.0",
			Environment: "development",
			Debug:       true,
		},
		Server: ServerConfig{
			Port:           "8080",
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    60 * time.Second,
			RequestTimeout: 30 * time.Second,
			MaxBodyBytes:   1 << 20, // 1MB
		},
		Storage: StorageConfig{
			Backend:  "file",
			FilePath: "./data/storage",
		},
		Redis: RedisConfig{
			Host:         "localhost",
			Port:         "6379",
			PoolSize:     10,
			MinIdleConns: 5,
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         "5432",
			Name:         "storefront_db",
			User:         "storefront_user",
			Password:     "storefront_password",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
			MaxLifetime:  300 * time.Second,
		},
		AWS: AWSConfig{
			Region:        "us-east-1",
			DynamoDBTable: "storefront-storage",
		},
		Catalog: CatalogConfig{
			Source: "./data/catalog.json",
		},
		Cart: CartConfig{
			StorageKey:            "cart",
			FreeShippingThreshold: 100,
			ShippingFee:           9.99,
			TaxRate:               0.08,
			FallbackMaxQuantity:   10,
			PromoCodes:            []string{"SAVE10", "DISCOUNT15", "WELCOME20"},
			PromoRate:             0.10,
			SessionIdle:           30 * time.Minute,
		},
		Security: SecurityConfig{
			RateLimitPerMinute: 100,
			CORSAllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			CORSAllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
			TrustedProxies:     []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		PDF: PDFConfig{
			CompanyName:    "Storefront",
			CompanyWebsite: "https://example.com",
			CompanyEmail:   "support@example.com",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	switch c.Storage.Backend {
	case "file":
		if c.Storage.FilePath == "" {
			return fmt.Errorf("STORAGE_FILE_PATH is required for the file backend")
		}
	case "redis":
		if c.Redis.Host == "" {
			return fmt.Errorf("REDIS_HOST is required for the redis backend")
		}
	case "postgres":
		if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" {
			return fmt.Errorf("DB_HOST, DB_NAME and DB_USER are required for the postgres backend")
		}
	case "dynamodb":
		if c.AWS.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required for the dynamodb backend")
		}
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
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
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
