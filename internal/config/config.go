package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"`              // current application environment (local, dev, production etc)
	Timezone         string   `mapstructure:"timezone"`         // zone used for attempt log timestamps
	CodonsJSONPath   string   `mapstructure:"codons_json_path"` // optional override of the embedded codon table
	TelegramAPIToken string   `mapstructure:"-"`                // Telegram API token loaded from environment
	HTTP             HTTP     `mapstructure:"http"`             // web shell configuration section
	Telegram         Telegram `mapstructure:"telegram"`         // bot shell configuration section
	Session          Session  `mapstructure:"session"`          // in-memory session store section
	DB               DB       `mapstructure:"database"`         // database configuration section
}

// HTTP contains the web shell parameters.
type HTTP struct {
	Addr           string        `mapstructure:"addr"`             // listen address, empty disables the server
	RateLimitRPS   int           `mapstructure:"rate_limit_rps"`   // sustained requests per second per client
	RateLimitBurst int           `mapstructure:"rate_limit_burst"` // burst size per client
	CookieMaxAge   time.Duration `mapstructure:"cookie_max_age"`   // session cookie lifetime
}

// Telegram contains the bot shell parameters.
type Telegram struct {
	Debug          bool `mapstructure:"debug"`            // verbose bot API logging
	RateLimitRPS   int  `mapstructure:"rate_limit_rps"`   // messages per second per user
	RateLimitBurst int  `mapstructure:"rate_limit_burst"` // burst size per user
}

// Session contains the session store parameters.
type Session struct {
	TTL           time.Duration `mapstructure:"ttl"`            // idle time after which a session is evicted
	SweepSchedule string        `mapstructure:"sweep_schedule"` // cron spec for the eviction job
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
	AppendTimeout   time.Duration `mapstructure:"append_timeout"`    // upper bound for one attempt log write
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Enabled reports whether the attempt log database is configured.
func (db DB) Enabled() bool {
	return db.URL != ""
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from config files and environment variables.
// The Telegram token is optional here; RequireTelegram checks it.
func Load(paths ...string) (*Config, error) {
	// Pull variables from .env if present.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	// Viper takes the first match, so caller directories win over ./config.
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("timezone", "Asia/Seoul")
	v.SetDefault("codons_json_path", "")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.rate_limit_rps", 5)
	v.SetDefault("http.rate_limit_burst", 10)
	v.SetDefault("http.cookie_max_age", "2h")
	v.SetDefault("telegram.debug", false)
	v.SetDefault("telegram.rate_limit_rps", 2)
	v.SetDefault("telegram.rate_limit_burst", 5)
	v.SetDefault("session.ttl", "2h")
	v.SetDefault("session.sweep_schedule", "*/10 * * * *")
	v.SetDefault("database.max_connections", 5)
	v.SetDefault("database.max_conn_lifetime", "30m")
	v.SetDefault("database.append_timeout", "3s")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("http.addr", "HTTP_ADDR")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")

	return &cfg, nil
}

// RequireTelegram returns an error when the bot token is missing.
func (c *Config) RequireTelegram() error {
	if c.TelegramAPIToken == "" {
		return fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}
	return nil
}
