package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	Log             Log           `envPrefix:"LOG_"`
	HTTP            HTTP          `envPrefix:"HTTP_"`
	GRPC            GRPC          `envPrefix:"GRPC_"`
	Database        Database      `envPrefix:"DATABASE_"`
	Redis           Redis         `envPrefix:"REDIS_"`
	KDF             KDF           `envPrefix:"KDF_"`
	JWT             JWT           `envPrefix:"JWT_"`
	Storage         Storage       `envPrefix:"MINIO_"`
	Auth            Auth          `envPrefix:"AUTH_"`
	Catalog         Catalog       `envPrefix:"CATALOG_"`
	Checkout        Checkout      `envPrefix:"CHECKOUT_"`
}

// Log contains logging and event log parameters.
type Log struct {
	Level  int    `env:"LEVEL" envDefault:"0"`
	Format string `env:"FORMAT" envDefault:"text"`
	// MaxEntries caps the event log of each tab. Zero keeps everything.
	MaxEntries int `env:"MAX_ENTRIES" envDefault:"500"`
}

// HTTP contains storefront API server parameters.
type HTTP struct {
	Port               string `env:"PORT" envDefault:"8080"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// GRPC contains health server parameters.
type GRPC struct {
	Port                string        `env:"PORT" envDefault:"50051"`
	EnableHTTPS         bool          `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName        string        `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName  string        `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
	HealthCheckInterval time.Duration `env:"HEALTH_CHECK_INTERVAL" envDefault:"15s"`
}

// Database contains durable store parameters. An empty DSN keeps
// accounts in memory.
type Database struct {
	DSN string `env:"DSN"`
}

// Redis contains tab store parameters. An empty address keeps tab state
// in memory.
type Redis struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	TabTTL   time.Duration `env:"TAB_TTL" envDefault:"24h"`
}

// KDF selects the password hasher and its cost.
type KDF struct {
	Algorithm string `env:"ALGORITHM" envDefault:"sha256"`
	Time      uint32 `env:"TIME"`
	MemKiB    uint32 `env:"MEM"`
	Par       uint8  `env:"PAR"`
}

// JWT contains tab token parameters.
type JWT struct {
	Secret string        `env:"SECRET" envDefault:"devsecret"`
	TabTTL time.Duration `env:"TAB_TTL" envDefault:"720h"`
}

// Storage contains product image storage parameters. An empty endpoint
// disables the image routes.
type Storage struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"storefront-access-key"`
	SecretKey string `env:"SECRET_KEY" envDefault:"storefront-secret-key"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"storefront-images"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

type Auth struct {
	// LogSignupFailures records signup_failed events for duplicate signups.
	LogSignupFailures bool `env:"LOG_SIGNUP_FAILURES" envDefault:"false"`
}

// Catalog points at product data. Empty values use the embedded catalog
// and skip image seeding.
type Catalog struct {
	Path      string `env:"PATH"`
	ImagesDir string `env:"IMAGES_DIR"`
}

type Checkout struct {
	PaymentPath string `env:"PAYMENT_PATH" envDefault:"paiement.html"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
