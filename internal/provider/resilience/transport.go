package resilience

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type TransportConfig struct {
	Name            string
	MaxRetries      uint64        // default 3
	InitialInterval time.Duration // default 100ms
	MaxInterval     time.Duration // default 5s
	CircuitBreaker  *CircuitBreakerConfig
	Base            http.RoundTripper // default http.DefaultTransport
	Logger          zerolog.Logger
}

func DefaultTransportConfig(name string) TransportConfig {
	cb := DefaultCircuitBreakerConfig(name)
	return TransportConfig{
		Name:            name,
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		CircuitBreaker:  &cb,
		Logger:          zerolog.Nop(),
	}
}

// Transport is an http.RoundTripper that retries network errors and 5xx
// responses with exponential backoff, behind a circuit breaker.
type Transport struct {
	base    http.RoundTripper
	breaker *gobreaker.CircuitBreaker[*http.Response]
	cfg     TransportConfig
}

func NewTransport(cfg TransportConfig) *Transport {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}
	base := cfg.Base
	if base == nil {
		base = http.DefaultTransport
	}
	cb := DefaultCircuitBreakerConfig(cfg.Name)
	if cfg.CircuitBreaker != nil {
		cb = *cfg.CircuitBreaker
	}
	return &Transport{
		base:    base,
		breaker: newCircuitBreaker[*http.Response](cb, cfg.Logger),
		cfg:     cfg,
	}
}

// NewHTTPClient returns a client whose transport is a resilient Transport.
func NewHTTPClient(cfg TransportConfig, timeout time.Duration) *http.Client {
	return &http.Client{Transport: NewTransport(cfg), Timeout: timeout}
}

type serverError struct {
	status int
}

func (e *serverError) Error() string {
	return "server error: " + http.StatusText(e.status)
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		b, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, errors.Wrap(err, "buffer request body")
		}
		body = b
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = t.cfg.InitialInterval
	bo.MaxInterval = t.cfg.MaxInterval
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, t.cfg.MaxRetries), req.Context())

	var last *http.Response
	op := func() error {
		if last != nil {
			// drain the 5xx we are about to retry
			_, _ = io.Copy(io.Discard, last.Body)
			_ = last.Body.Close()
			last = nil
		}
		resp, err := t.breaker.Execute(func() (*http.Response, error) {
			attempt := req.Clone(req.Context())
			if body != nil {
				attempt.Body = io.NopCloser(bytes.NewReader(body))
				attempt.ContentLength = int64(len(body))
			}
			r, err := t.base.RoundTrip(attempt)
			if err != nil {
				return nil, err
			}
			if r.StatusCode >= http.StatusInternalServerError {
				return r, &serverError{status: r.StatusCode}
			}
			return r, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return backoff.Permanent(err)
			}
			last = resp
			t.cfg.Logger.Debug().Err(err).Str("provider", t.cfg.Name).Str("url", req.URL.Redacted()).Msg("retrying provider request")
			return err
		}
		last = resp
		return nil
	}

	if err := backoff.Retry(op, policy); err != nil {
		// Retries exhausted on a 5xx: hand the caller the final response.
		if last != nil {
			return last, nil
		}
		return nil, err
	}
	return last, nil
}

// State reports the breaker state, for health endpoints.
func (t *Transport) State() gobreaker.State {
	return t.breaker.State()
}
