// README: Entry point; loads config, wires services, starts HTTP server and background janitor.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"recharge/internal/ai"
	"recharge/internal/config"
	httptransport "recharge/internal/http"
	"recharge/internal/infra"
	"recharge/internal/maps"
	"recharge/internal/modules/aiusage"
	"recharge/internal/modules/booking"
	"recharge/internal/modules/pricing"
	"recharge/internal/modules/quote"
	"recharge/internal/provider/resilience"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := bootLogger(os.Stderr)
		boot.Fatal().Err(err).Msg("config")
	}
	log := infra.NewLogger("recharge-api", cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("exit")
	}
}

// bootLogger reports failures that happen before config selects the real logger.
func bootLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str("service", "recharge-api").Logger()
}

func run(cfg config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// Routing: Google when configured, the airport table otherwise or on failure.
	var (
		estimators []maps.RouteEstimator
		places     *maps.PlacesService
	)
	if cfg.Maps.APIKey != "" {
		tc := resilience.DefaultTransportConfig("google-maps")
		tc.Logger = log
		httpc := resilience.NewHTTPClient(tc, cfg.Maps.Timeout)

		routeSvc, err := maps.NewRouteService(cfg.Maps.APIKey, httpc)
		if err != nil {
			return err
		}
		places, err = maps.NewPlacesService(cfg.Maps.APIKey, httpc)
		if err != nil {
			return err
		}
		estimators = append(estimators, routeSvc)
	} else {
		log.Warn().Msg("no maps key; routes come from the airport distance table")
	}
	estimators = append(estimators, maps.NewRouteTable())
	var routes maps.RouteEstimator = maps.NewFallbackRouteEstimator(log, estimators...)

	if cfg.Redis.Addr != "" {
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		routes = maps.NewCachedRouteEstimator(routes, rdb, cfg.Redis.RouteTTL, log)
	}

	// Quotes and AI quota: Postgres when configured, memory otherwise.
	var (
		quoteRepo quote.Repository   = quote.NewMemoryRepository()
		usageRepo aiusage.Repository = aiusage.NewMemoryStore(nil)
	)
	if cfg.DB.DSN != "" {
		db, err := infra.NewDB(ctx, cfg.DB.DSN, log)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := infra.ApplyMigrations(ctx, db, cfg.DB.MigrationsDir); err != nil {
			return err
		}
		quoteRepo = quote.NewStore(db)
		usageRepo = aiusage.NewStore(db, nil)
	} else {
		log.Warn().Msg("no database dsn; quotes and AI quota are kept in memory")
	}

	pricingSvc := pricing.NewService(pricing.DefaultRegistry())
	quoteSvc := quote.NewService(quoteRepo, routes, pricingSvc, quote.Options{
		TTL:      cfg.Pricing.QuoteTTL,
		Location: loc,
		Logger:   log,
	})

	var bookingRepo booking.Repository = booking.NewMemoryRepository()
	if cfg.Firebase.ProjectID != "" {
		fs, err := infra.NewFirestore(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			return err
		}
		defer fs.Close()
		bookingRepo = booking.NewStore(fs)
	} else {
		log.Warn().Msg("no firebase project; bookings are kept in memory")
	}
	bookingSvc := booking.NewService(bookingRepo, quoteSvc, nil, log)

	deps := httptransport.ServerDeps{
		Pricing:  pricingSvc,
		Quotes:   quoteSvc,
		Bookings: bookingSvc,
		Places:   places,
		AIUsage:  aiusage.NewService(usageRepo),
		Location: loc,
	}
	if cfg.AI.GeminiKey != "" {
		gemini, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model)
		if err != nil {
			return err
		}
		defer gemini.Close()
		deps.Assistant = gemini
	} else {
		log.Warn().Msg("no gemini key; assistant disabled")
	}

	go quoteSvc.RunJanitor(ctx, 5*time.Minute, time.Hour)

	server := httptransport.NewServer(cfg.HTTP.Addr, deps, log, cfg.HTTP.ShutdownTimeout)
	return server.Run(ctx)
}
