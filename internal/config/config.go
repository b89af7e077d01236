package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds every setting the API server reads from the environment.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR,default=:8080"`
	GinMode  string `env:"GIN_MODE,default=release"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	// --- Database ---
	DatabaseDSN       string        `env:"DB_DSN_PRIMARY,default=root@tcp(127.0.0.1:3306)/storefront?parseTime=true"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=5m"`

	// --- Sessions ---
	// An empty RedisAddr keeps sessions in process memory.
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB,default=0"`
	SessionSecret string        `env:"SESSION_SECRET,required"`
	SessionTTL    time.Duration `env:"SESSION_TTL,default=72h"`
	CookieSecure  bool          `env:"COOKIE_SECURE,default=false"`

	// --- HTTP guards ---
	AllowedOrigins    []string `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:5173"`
	AuthRatePerSecond float64  `env:"AUTH_RATE_PER_SECOND,default=1"`
	AuthRateBurst     int      `env:"AUTH_RATE_BURST,default=5"`

	// --- Uploads ---
	UploadDir string `env:"UPLOAD_DIR,default=./uploads"`
	BaseURL   string `env:"BASE_URL,default=http://localhost:8080"`
}

const minSecretLength = 32

// Load reads an optional .env file and decodes the environment into a Config.
// The returned bool reports whether a .env file was found.
func Load(files ...string) (*Config, bool, error) {
	foundEnvFile := godotenv.Load(files...) == nil

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, foundEnvFile, fmt.Errorf("decode environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, foundEnvFile, err
	}
	return &cfg, foundEnvFile, nil
}

// Validate checks the settings envdecode cannot express as tags.
func (c *Config) Validate() error {
	if len(c.SessionSecret) < minSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSecretLength)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.AuthRatePerSecond <= 0 || c.AuthRateBurst <= 0 {
		return errors.New("AUTH_RATE_PER_SECOND and AUTH_RATE_BURST must be positive")
	}
	return nil
}
