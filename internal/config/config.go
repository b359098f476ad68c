// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when present), loads them into structured Go types and validates that
// required values are present so a misconfigured deployment fails at
// startup instead of on the first provider call.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Apply defaults for optional values (timeouts, models, SMTP relay).
//   - Validate required values so the app fails fast on bad/missing config.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process environment
	// before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the COURSEGEN_ prefix. Keys are lowercased and
	the prefix is removed; nesting uses "." so the variable
	COURSEGEN_DATABASE.HOST maps to Config.Database.Host.
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "COURSEGEN_"

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// DatabaseConfig selects the document store backend.
//
// With the postgres driver the connection is built from the discrete
// host/port/user fields; with the mongo driver MongoURI is used instead.
type DatabaseConfig struct {
	Driver          string `koanf:"driver" validate:"required,oneof=postgres mongo"`
	Host            string `koanf:"host" validate:"required_if=Driver postgres"`
	Port            int    `koanf:"port" validate:"required_if=Driver postgres"`
	User            string `koanf:"user" validate:"required_if=Driver postgres"`
	Password        string `koanf:"password" validate:"required_if=Driver postgres"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required_if=Driver postgres"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time"`
	MongoURI        string `koanf:"mongo_uri" validate:"required_if=Driver mongo"`
}

// RedisConfig contains Redis connection details.
// Address is typically "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// IntegrationConfig holds credentials and tuning for every third-party provider.
type IntegrationConfig struct {
	Gemini   GeminiConfig   `koanf:"gemini" validate:"required"`
	Unsplash UnsplashConfig `koanf:"unsplash" validate:"required"`
	YouTube  YouTubeConfig  `koanf:"youtube" validate:"required"`
	Email    EmailConfig    `koanf:"email" validate:"required"`
	Storage  StorageConfig  `koanf:"storage" validate:"required"`
	Cache    CacheConfig    `koanf:"cache"`
}

// GeminiConfig configures the generative-language provider.
//
// APIKey is the service default; callers may override it per request.
type GeminiConfig struct {
	APIKey    string        `koanf:"api_key" validate:"required"`
	Model     string        `koanf:"model" validate:"required"`
	ChatModel string        `koanf:"chat_model" validate:"required"`
	Timeout   time.Duration `koanf:"timeout" validate:"min=1s"`
}

type UnsplashConfig struct {
	AccessKey      string        `koanf:"access_key" validate:"required"`
	BaseURL        string        `koanf:"base_url" validate:"required,url"`
	PlaceholderURL string        `koanf:"placeholder_url" validate:"required,url"`
	Timeout        time.Duration `koanf:"timeout" validate:"min=1s"`
}

type YouTubeConfig struct {
	APIKey             string        `koanf:"api_key" validate:"required"`
	TranscriptLanguage string        `koanf:"transcript_language" validate:"required"`
	Timeout            time.Duration `koanf:"timeout" validate:"min=1s"`
}

const (
	EmailProviderSMTP   = "smtp"
	EmailProviderResend = "resend"
)

// EmailConfig configures outgoing mail.
//
// The smtp provider talks to a fixed relay with static credentials.
// QueueEnabled starts the asynq worker that delivers queued messages.
type EmailConfig struct {
	Provider     string        `koanf:"provider" validate:"required,oneof=smtp resend"`
	From         string        `koanf:"from" validate:"required,email"`
	SMTPHost     string        `koanf:"smtp_host" validate:"required_if=Provider smtp"`
	SMTPPort     int           `koanf:"smtp_port" validate:"required_if=Provider smtp"`
	SMTPUsername string        `koanf:"smtp_username" validate:"required_if=Provider smtp"`
	SMTPPassword string        `koanf:"smtp_password" validate:"required_if=Provider smtp"`
	ResendAPIKey string        `koanf:"resend_api_key" validate:"required_if=Provider resend"`
	QueueEnabled bool          `koanf:"queue_enabled"`
	Timeout      time.Duration `koanf:"timeout" validate:"min=1s"`
}

const (
	StorageBackendLocal = "local"
	StorageBackendSFTP  = "sftp"
)

// StorageConfig configures where uploaded resume files are written.
type StorageConfig struct {
	Backend      string        `koanf:"backend" validate:"required,oneof=local sftp"`
	LocalDir     string        `koanf:"local_dir" validate:"required_if=Backend local"`
	MaxFileBytes int64         `koanf:"max_file_bytes" validate:"min=1"`
	SFTPHost     string        `koanf:"sftp_host" validate:"required_if=Backend sftp"`
	SFTPPort     int           `koanf:"sftp_port"`
	SFTPUser     string        `koanf:"sftp_user" validate:"required_if=Backend sftp"`
	SFTPPassword string        `koanf:"sftp_password" validate:"required_if=Backend sftp"`
	SFTPDir      string        `koanf:"sftp_dir"`
	// SFTPKnownHostsFile pins the server host key. Leaving it empty is only
	// accepted together with SFTPInsecureIgnoreHostKey.
	SFTPKnownHostsFile        string        `koanf:"sftp_known_hosts_file"`
	SFTPInsecureIgnoreHostKey bool          `koanf:"sftp_insecure_ignore_host_key"`
	Timeout                   time.Duration `koanf:"timeout" validate:"min=1s"`
}

// CacheConfig controls the Redis-backed media lookup cache.
// A zero TTL disables caching.
type CacheConfig struct {
	MediaTTL time.Duration `koanf:"media_ttl"`
}

// defaultConfig returns a Config pre-populated with optional values.
// Anything present in the environment overrides these.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 300,
		},
		Integration: IntegrationConfig{
			Gemini: GeminiConfig{
				Model:     "gemini-pro",
				ChatModel: "gemini-1.5-flash",
				Timeout:   60 * time.Second,
			},
			Unsplash: UnsplashConfig{
				BaseURL:        "https://api.unsplash.com",
				PlaceholderURL: "https://via.placeholder.com/150",
				Timeout:        10 * time.Second,
			},
			YouTube: YouTubeConfig{
				TranscriptLanguage: "en",
				Timeout:            15 * time.Second,
			},
			Email: EmailConfig{
				Provider: EmailProviderSMTP,
				SMTPHost: "smtp.gmail.com",
				SMTPPort: 465,
				Timeout:  30 * time.Second,
			},
			Storage: StorageConfig{
				Backend:      StorageBackendLocal,
				LocalDir:     "uploads",
				MaxFileBytes: 5 << 20,
				SFTPPort:     22,
				SFTPDir:      "/",
				Timeout:      30 * time.Second,
			},
			Cache: CacheConfig{
				MediaTTL: 24 * time.Hour,
			},
		},
	}
}

// LoadConfig loads configuration from environment variables, unmarshals it
// over the defaults, validates it and returns the resulting config.
//
// Behavior summary:
//   - Loads env vars with prefix COURSEGEN_
//   - Unmarshals into Config on top of defaultConfig()
//   - Validates required config blocks/fields
//   - Sets default observability if missing, then validates it
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := defaultConfig()

	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()

	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always follow the primary block so
	// logs and traces are labelled consistently.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
