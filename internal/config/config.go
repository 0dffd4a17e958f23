// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted when the matching YAML field is empty.
const (
	EnvTelegramToken = "TELEGRAM_BOT_TOKEN"
	EnvBotPassword   = "BOT_PASSWORD"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config is the top-level application configuration.
type Config struct {
	Telegram      TelegramConfig      `yaml:"telegram"`
	Auth          AuthConfig          `yaml:"auth"`
	Apple         AppleConfig         `yaml:"apple"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Storage       StorageConfig       `yaml:"storage"`
	Database      DatabaseConfig      `yaml:"database"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Server        ServerConfig        `yaml:"server"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// TelegramConfig defines Bot API settings.
type TelegramConfig struct {
	Token          string        `yaml:"token"`
	APIEndpoint    string        `yaml:"api_endpoint"` // printf pattern: token, method
	PollTimeout    time.Duration `yaml:"poll_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RetryDelay     time.Duration `yaml:"retry_delay"`
	AnnounceChatID int64         `yaml:"announce_chat_id"` // 0 disables the startup message
}

// AuthConfig defines the shared password gate.
type AuthConfig struct {
	Password string `yaml:"password"`
}

// AppleConfig defines the pickup-availability endpoint settings.
type AppleConfig struct {
	PickupURL string          `yaml:"pickup_url"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines outbound request pacing.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// ScheduleConfig defines the sweep cadence.
type ScheduleConfig struct {
	SweepInterval time.Duration `yaml:"sweep_interval"`
	StaggerOffset time.Duration `yaml:"stagger_offset"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend       string `yaml:"backend"` // file, postgres
	WatchlistFile string `yaml:"watchlist_file"`
	UsersFile     string `yaml:"users_file"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s pool_max_conns=%d",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode, d.PoolSize,
	)
}

// NotificationsConfig defines extra alert targets beyond Telegram.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation. When optional is true a missing file is not an
// error and the configuration comes from defaults and the environment alone.
func Load(path string, optional bool) (*Config, error) {
	return load(path, optional, true)
}

// LoadOffline is Load for commands that never reach Telegram. The bot token
// and password are not required.
func LoadOffline(path string, optional bool) (*Config, error) {
	return load(path, optional, false)
}

// DefaultStaggerOffset is the pause between probes of one sweep when the
// config does not set schedule.stagger_offset.
const DefaultStaggerOffset = 2 * time.Second

func load(path string, optional, requireBot bool) (*Config, error) {
	// Zero is a valid stagger, so its default is seeded before decoding
	// rather than filled in afterwards.
	cfg := &Config{Schedule: ScheduleConfig{StaggerOffset: DefaultStaggerOffset}}

	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := validate(cfg, requireBot); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if cfg.Telegram.Token == "" {
		cfg.Telegram.Token = os.Getenv(EnvTelegramToken)
	}
	if cfg.Auth.Password == "" {
		cfg.Auth.Password = os.Getenv(EnvBotPassword)
	}
}

func applyDefaults(cfg *Config) {
	applyTelegramDefaults(&cfg.Telegram)
	applyAppleDefaults(&cfg.Apple)
	applyScheduleDefaults(&cfg.Schedule)
	applyStorageDefaults(&cfg.Storage)
	applyDatabaseDefaults(&cfg.Database)
	applyServerDefaults(&cfg.Server)
	applyLoggingDefaults(&cfg.Logging)
}

func applyTelegramDefaults(t *TelegramConfig) {
	if t.APIEndpoint == "" {
		t.APIEndpoint = "https://api.telegram.org/bot%s/%s"
	}
	if t.PollTimeout == 0 {
		t.PollTimeout = 30 * time.Second
	}
	if t.RequestTimeout == 0 {
		// Long polls hold the connection for PollTimeout.
		t.RequestTimeout = t.PollTimeout + 5*time.Second
	}
	if t.RetryDelay == 0 {
		t.RetryDelay = 5 * time.Second
	}
}

func applyAppleDefaults(a *AppleConfig) {
	if a.PickupURL == "" {
		a.PickupURL = "https://www.apple.com/jp/shop/retail/pickup-message"
	}
	if a.Timeout == 0 {
		a.Timeout = 10 * time.Second
	}
	if a.RateLimit.PerSecond == 0 {
		a.RateLimit.PerSecond = 1
	}
	if a.RateLimit.Burst == 0 {
		a.RateLimit.Burst = 2
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.SweepInterval == 0 {
		s.SweepInterval = 120 * time.Second
	}
}

func applyStorageDefaults(s *StorageConfig) {
	if s.Backend == "" {
		s.Backend = BackendFile
	}
	if s.WatchlistFile == "" {
		s.WatchlistFile = "watchlist.json"
	}
	if s.UsersFile == "" {
		s.UsersFile = "authorized_users.json"
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 4
	}
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config, requireBot bool) error {
	var errs []error

	if requireBot && cfg.Telegram.Token == "" {
		errs = append(errs, fmt.Errorf("telegram.token is required (or set %s)", EnvTelegramToken))
	}
	if requireBot && cfg.Auth.Password == "" {
		errs = append(errs, fmt.Errorf("auth.password is required (or set %s)", EnvBotPassword))
	}
	if cfg.Schedule.SweepInterval < time.Second {
		errs = append(errs, fmt.Errorf("schedule.sweep_interval must be at least 1s"))
	}
	if cfg.Schedule.StaggerOffset < 0 {
		errs = append(errs, fmt.Errorf("schedule.stagger_offset must not be negative"))
	}

	switch cfg.Storage.Backend {
	case BackendFile:
	case BackendPostgres:
		if cfg.Database.Host == "" {
			errs = append(errs, fmt.Errorf("database.host is required when storage.backend is postgres"))
		}
		if cfg.Database.Name == "" {
			errs = append(errs, fmt.Errorf("database.name is required when storage.backend is postgres"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, fmt.Errorf("database.user is required when storage.backend is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"storage.backend must be one of: file, postgres (got %q)",
			cfg.Storage.Backend,
		))
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, fmt.Errorf("notifications.discord.webhook_url is required when discord is enabled"))
	}

	return errors.Join(errs...)
}
