// README: Smoke and load runner against a running recharge-api. Exits non-zero on any FAIL.
package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"recharge/internal/config"
)

// Config drives one bench run. Database and Redis settings come from the
// service's own RECHARGE_* variables so the bench checks what the API uses.
type Config struct {
	BaseURL     string
	DSN         string
	RedisAddr   string
	Migrations  string
	Timeout     time.Duration
	Concurrency int
	Duration    time.Duration
}

// benchEnv is read with the RECHARGE_BENCH prefix.
type benchEnv struct {
	BaseURL     string        `envconfig:"BASE_URL" default:"http://localhost:8080"`
	Timeout     time.Duration `envconfig:"TIMEOUT" default:"60s"`
	Concurrency int           `envconfig:"CONCURRENCY" default:"20"`
	Duration    time.Duration `envconfig:"DURATION" default:"5s"`
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("bench config")
	}
	log.Info().Str("base_url", cfg.BaseURL).Bool("db", cfg.DSN != "").Bool("redis", cfg.RedisAddr != "").Msg("bench starting")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	results := NewRunner(cfg).RunAll(ctx)
	sum := Report(os.Stdout, results)
	if sum.Fail > 0 {
		os.Exit(1)
	}
}

// loadConfig layers flags over RECHARGE_BENCH_* over the service config.
func loadConfig(args []string) (Config, error) {
	var env benchEnv
	if err := envconfig.Process(config.Prefix+"_BENCH", &env); err != nil {
		return Config{}, errors.Wrap(err, "process bench env")
	}
	svc, err := config.Load()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		BaseURL:     env.BaseURL,
		DSN:         svc.DB.DSN,
		RedisAddr:   svc.Redis.Addr,
		Migrations:  svc.DB.MigrationsDir,
		Timeout:     env.Timeout,
		Concurrency: env.Concurrency,
		Duration:    env.Duration,
	}
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "API base URL")
	fs.StringVar(&cfg.DSN, "dsn", cfg.DSN, "Postgres DSN (optional)")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address (optional)")
	fs.StringVar(&cfg.Migrations, "migrations", cfg.Migrations, "migrations directory")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "total timeout")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "workers for the load case")
	fs.DurationVar(&cfg.Duration, "duration", cfg.Duration, "length of the load case")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Concurrency < 1 || cfg.Duration <= 0 || cfg.Timeout <= 0 {
		return Config{}, errors.Newf("concurrency, duration and timeout must be positive (got %d, %s, %s)", cfg.Concurrency, cfg.Duration, cfg.Timeout)
	}
	return cfg, nil
}
