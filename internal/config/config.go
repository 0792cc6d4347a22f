package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Auth    AuthConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	Email   EmailConfig
	Billing BillingConfig
	Share   ShareConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	// Driver is one of memory, redis, postgres.
	Driver string `mapstructure:"driver"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
	// ConnMaxLifetime recycles pooled connections; zero keeps them forever.
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// ConnectTimeout bounds the ping made when the pool is opened.
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// AuthConfig holds session settings.
type AuthConfig struct {
	// AllowGuest lets requests without a token use the shared guest namespace.
	AllowGuest bool `mapstructure:"allow_guest"`
	SeedGuest  bool `mapstructure:"seed_guest"`
}

// S3Config holds AWS S3 settings used for backups.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// BillingConfig holds the invoice policy switches.
type BillingConfig struct {
	MissingStatePolicy     string `mapstructure:"missing_state_policy"`
	AllowNegativeStock     bool   `mapstructure:"allow_negative_stock"`
	RejectNegativeQuantity bool   `mapstructure:"reject_negative_quantity"`
	ExemptCategory         string `mapstructure:"exempt_category"`
	InvoicePrefix          string `mapstructure:"invoice_prefix"`
	DueDays                int    `mapstructure:"due_days"`
}

// ShareConfig holds settings for customer-facing links.
type ShareConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// Load reads configuration from environment variables with the BILLFLOW_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BILLFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	v.SetDefault("store.driver", "memory")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "billflow")
	v.SetDefault("db.password", "billflow_secret")
	v.SetDefault("db.name", "billflow_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.connect_timeout", "5s")

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "billflow:")

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "billflow")

	v.SetDefault("auth.allow_guest", true)
	v.SetDefault("auth.seed_guest", true)

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "billflow-backups")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@billflow.app")
	v.SetDefault("email.from_name", "BillFlow")

	// Billing defaults are permissive: oversell allowed, missing states taxed as IGST
	v.SetDefault("billing.missing_state_policy", "inter_state")
	v.SetDefault("billing.allow_negative_stock", true)
	v.SetDefault("billing.reject_negative_quantity", false)
	v.SetDefault("billing.exempt_category", "Services")
	v.SetDefault("billing.invoice_prefix", "INV")
	v.SetDefault("billing.due_days", 30)

	v.SetDefault("share.base_url", "https://billflow-app.web.app")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                      "BILLFLOW_SERVER_PORT",
		"server.read_timeout":              "BILLFLOW_SERVER_READ_TIMEOUT",
		"server.write_timeout":             "BILLFLOW_SERVER_WRITE_TIMEOUT",
		"server.environment":               "BILLFLOW_SERVER_ENVIRONMENT",
		"store.driver":                     "BILLFLOW_STORE_DRIVER",
		"db.host":                          "BILLFLOW_DB_HOST",
		"db.port":                          "BILLFLOW_DB_PORT",
		"db.user":                          "BILLFLOW_DB_USER",
		"db.password":                      "BILLFLOW_DB_PASSWORD",
		"db.name":                          "BILLFLOW_DB_NAME",
		"db.sslmode":                       "BILLFLOW_DB_SSLMODE",
		"db.max_open":                      "BILLFLOW_DB_MAX_OPEN",
		"db.max_idle":                      "BILLFLOW_DB_MAX_IDLE",
		"db.conn_max_lifetime":             "BILLFLOW_DB_CONN_MAX_LIFETIME",
		"db.connect_timeout":               "BILLFLOW_DB_CONNECT_TIMEOUT",
		"redis.addr":                       "BILLFLOW_REDIS_ADDR",
		"redis.password":                   "BILLFLOW_REDIS_PASSWORD",
		"redis.db":                         "BILLFLOW_REDIS_DB",
		"redis.key_prefix":                 "BILLFLOW_REDIS_KEY_PREFIX",
		"jwt.secret":                       "BILLFLOW_JWT_SECRET",
		"jwt.access_expiry":                "BILLFLOW_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":               "BILLFLOW_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                       "BILLFLOW_JWT_ISSUER",
		"auth.allow_guest":                 "BILLFLOW_AUTH_ALLOW_GUEST",
		"auth.seed_guest":                  "BILLFLOW_AUTH_SEED_GUEST",
		"s3.region":                        "BILLFLOW_S3_REGION",
		"s3.bucket":                        "BILLFLOW_S3_BUCKET",
		"s3.endpoint":                      "BILLFLOW_S3_ENDPOINT",
		"s3.access_key":                    "BILLFLOW_S3_ACCESS_KEY",
		"s3.secret_key":                    "BILLFLOW_S3_SECRET_KEY",
		"s3.presign_expiry":                "BILLFLOW_S3_PRESIGN_EXPIRY",
		"log.level":                        "BILLFLOW_LOG_LEVEL",
		"log.format":                       "BILLFLOW_LOG_FORMAT",
		"cors.allowed_origins":             "BILLFLOW_CORS_ALLOWED_ORIGINS",
		"email.provider":                   "BILLFLOW_EMAIL_PROVIDER",
		"email.region":                     "BILLFLOW_EMAIL_REGION",
		"email.from_address":               "BILLFLOW_EMAIL_FROM_ADDRESS",
		"email.from_name":                  "BILLFLOW_EMAIL_FROM_NAME",
		"billing.missing_state_policy":     "BILLFLOW_BILLING_MISSING_STATE_POLICY",
		"billing.allow_negative_stock":     "BILLFLOW_BILLING_ALLOW_NEGATIVE_STOCK",
		"billing.reject_negative_quantity": "BILLFLOW_BILLING_REJECT_NEGATIVE_QUANTITY",
		"billing.exempt_category":          "BILLFLOW_BILLING_EXEMPT_CATEGORY",
		"billing.invoice_prefix":           "BILLFLOW_BILLING_INVOICE_PREFIX",
		"billing.due_days":                 "BILLFLOW_BILLING_DUE_DAYS",
		"share.base_url":                   "BILLFLOW_SHARE_BASE_URL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if BILLFLOW_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BILLFLOW_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Store = StoreConfig{Driver: strings.ToLower(v.GetString("store.driver"))}
	switch cfg.Store.Driver {
	case "memory", "redis", "postgres":
	default:
		return nil, fmt.Errorf("config: unknown store driver %q", cfg.Store.Driver)
	}

	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),

		ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
		ConnectTimeout:  v.GetDuration("db.connect_timeout"),
	}
	cfg.Redis = RedisConfig{
		Addr:      v.GetString("redis.addr"),
		Password:  v.GetString("redis.password"),
		DB:        v.GetInt("redis.db"),
		KeyPrefix: v.GetString("redis.key_prefix"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.Auth = AuthConfig{
		AllowGuest: v.GetBool("auth.allow_guest"),
		SeedGuest:  v.GetBool("auth.seed_guest"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Billing = BillingConfig{
		MissingStatePolicy:     v.GetString("billing.missing_state_policy"),
		AllowNegativeStock:     v.GetBool("billing.allow_negative_stock"),
		RejectNegativeQuantity: v.GetBool("billing.reject_negative_quantity"),
		ExemptCategory:         v.GetString("billing.exempt_category"),
		InvoicePrefix:          v.GetString("billing.invoice_prefix"),
		DueDays:                v.GetInt("billing.due_days"),
	}
	switch cfg.Billing.MissingStatePolicy {
	case "inter_state", "reject":
	default:
		return nil, fmt.Errorf("config: unknown missing state policy %q", cfg.Billing.MissingStatePolicy)
	}
	cfg.Share = ShareConfig{BaseURL: strings.TrimRight(v.GetString("share.base_url"), "/")}

	return cfg, nil
}
