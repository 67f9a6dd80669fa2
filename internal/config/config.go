package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported values for DB_TYPE.
const (
	DBTypePostgres = "postgres"
	DBTypeMySQL    = "mysql"
	DBTypeSQLite   = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	Environment string `mapstructure:"APP_ENV"`
	Port        int    `mapstructure:"PORT"`
	Timezone    string `mapstructure:"TIMEZONE"`
	EnableCORS  bool   `mapstructure:"ENABLE_CORS"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogFormat   string `mapstructure:"LOG_FORMAT"`

	DBType        string `mapstructure:"DB_TYPE"`
	DBHost        string `mapstructure:"DB_HOST"`
	DBPort        int    `mapstructure:"DB_PORT"`
	DBUsername    string `mapstructure:"DB_USERNAME"`
	DBPassword    string `mapstructure:"DB_PASSWORD"`
	DBDatabase    string `mapstructure:"DB_DATABASE"`
	DBSSLMode     string `mapstructure:"DB_SSLMODE"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DBSynchronize bool   `mapstructure:"DB_SYNCHRONIZE"`

	MetricsEnabled bool `mapstructure:"METRICS_ENABLED"`

	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	AdminUsername     string        `mapstructure:"ADMIN_USERNAME"`
	AdminPasswordHash string        `mapstructure:"ADMIN_PASSWORD_HASH"`
	TokenTTL          time.Duration `mapstructure:"TOKEN_TTL"`
}

var defaults = map[string]any{
	"APP_ENV":             "development",
	"PORT":                3000,
	"TIMEZONE":            "-03:00",
	"ENABLE_CORS":         true,
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "text",
	"DB_TYPE":             DBTypePostgres,
	"DB_HOST":             "localhost",
	"DB_PORT":             5432,
	"DB_USERNAME":         "postgres",
	"DB_PASSWORD":         "",
	"DB_DATABASE":         "games",
	"DB_SSLMODE":          "disable",
	"DATABASE_URL":        "",
	"METRICS_ENABLED":     true,
	"JWT_SECRET":          "",
	"ADMIN_USERNAME":      "admin",
	"ADMIN_PASSWORD_HASH": "",
	"TOKEN_TTL":           "24h",
}

// Load reads the configuration from a .env file in dir (if present) and
// from environment variables. Environment variables win over the file.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// Schema sync follows the environment unless set explicitly.
	if v.IsSet("DB_SYNCHRONIZE") {
		cfg.DBSynchronize = v.GetBool("DB_SYNCHRONIZE")
	} else {
		cfg.DBSynchronize = cfg.IsDevelopment()
	}

	cfg.DBType = strings.ToLower(strings.TrimSpace(cfg.DBType))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports configuration values the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBType {
	case DBTypePostgres, DBTypeMySQL, DBTypeSQLite:
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("invalid TOKEN_TTL %s", c.TokenTTL)
	}
	return nil
}

// IsDevelopment reports whether APP_ENV is development.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// AuthEnabled reports whether mutating routes require an admin token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Location resolves TIMEZONE, which is either an IANA name ("America/Sao_Paulo")
// or a fixed UTC offset ("-03:00").
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" || strings.EqualFold(tz, "UTC") {
		return time.UTC, nil
	}
	if tz[0] == '+' || tz[0] == '-' {
		offset, err := time.Parse("-07:00", tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE offset %q", tz)
		}
		_, secs := offset.Zone()
		return time.FixedZone(tz, secs), nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}
	return loc, nil
}

// ApplyTimezone sets the process-wide local time zone from TIMEZONE.
func (c *Config) ApplyTimezone() error {
	loc, err := c.Location()
	if err != nil {
		return err
	}
	time.Local = loc
	os.Setenv("TZ", loc.String())
	return nil
}
