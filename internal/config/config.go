// README: Config loader with env defaults for HTTP, DB, Redis, maps, AI, Firebase and pricing settings.
package config

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable: RECHARGE_HTTP_ADDR, RECHARGE_DB_DSN, ...
const Prefix = "RECHARGE"

type HTTPConfig struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	// Empty DSN keeps quotes in memory and disables the assistant quota.
	DSN           string `envconfig:"DSN"`
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"migrations"`
}

type RedisConfig struct {
	Addr     string        `envconfig:"ADDR"`
	Password string        `envconfig:"PASSWORD"`
	DB       int           `envconfig:"DB" default:"0"`
	RouteTTL time.Duration `envconfig:"ROUTE_TTL" default:"24h"`
}

type MapsConfig struct {
	APIKey  string        `envconfig:"GOOGLE_MAPS_API_KEY"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"5s"`
}

type AIConfig struct {
	GeminiKey string `envconfig:"GEMINI_API_KEY"`
	Model     string `envconfig:"MODEL" default:"gemini-2.0-flash"`
}

type FirebaseConfig struct {
	ProjectID       string `envconfig:"PROJECT_ID"`
	CredentialsFile string `envconfig:"CREDENTIALS_FILE"`
}

type PricingConfig struct {
	QuoteTTL time.Duration `envconfig:"QUOTE_TTL" default:"30m"`
	TimeZone string        `envconfig:"TIME_ZONE" default:"Asia/Colombo"`
}

type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json"`
}

type Config struct {
	HTTP     HTTPConfig     `envconfig:"HTTP"`
	DB       DBConfig       `envconfig:"DB"`
	Redis    RedisConfig    `envconfig:"REDIS"`
	Maps     MapsConfig     `envconfig:"MAPS"`
	AI       AIConfig       `envconfig:"AI"`
	Firebase FirebaseConfig `envconfig:"FIREBASE"`
	Pricing  PricingConfig  `envconfig:"PRICING"`
	Log      LogConfig      `envconfig:"LOG"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	if cfg.Pricing.QuoteTTL <= 0 {
		return Config{}, errors.Newf("quote ttl must be positive, got %s", cfg.Pricing.QuoteTTL)
	}
	return cfg, nil
}

// Location is the time zone pickup times are classified in.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Pricing.TimeZone)
	if err != nil {
		return nil, errors.Wrapf(err, "load time zone %q", c.Pricing.TimeZone)
	}
	return loc, nil
}
