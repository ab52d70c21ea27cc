// README: API gateway; owns the http.Server and its graceful shutdown.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"recharge/internal/ai"
	"recharge/internal/maps"
	"recharge/internal/modules/aiusage"
	"recharge/internal/modules/booking"
	"recharge/internal/modules/pricing"
	"recharge/internal/modules/quote"
)

type ServerDeps struct {
	Pricing  *pricing.Service
	Quotes   *quote.Service
	Bookings *booking.Service
	Places   *maps.PlacesService // optional
	// Assistant is nil when no Gemini key is configured.
	Assistant ai.IntentParser
	AIUsage   *aiusage.Service
	Location  *time.Location
}

type Server struct {
	srv             *http.Server
	log             zerolog.Logger
	shutdownTimeout time.Duration
}

func NewServer(addr string, deps ServerDeps, log zerolog.Logger, shutdownTimeout time.Duration) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(deps, log),
			ReadHeaderTimeout: 5 * time.Second,
		},
		log:             log,
		shutdownTimeout: shutdownTimeout,
	}
}

func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.srv.Addr).Msg("http server listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down http server")
	sctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return <-errCh
}
