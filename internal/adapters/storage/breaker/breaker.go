package breaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JesuSe7e/api-envio-ftp/internal/config"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Store guards session connections to a remote store with a circuit breaker.
// While the breaker is open, Connect fails fast without dialing.
type Store struct {
	inner   port.RemoteStore
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewStore wraps inner
func NewStore(inner port.RemoteStore, cfg config.BreakerConfig, logger *slog.Logger) *Store {
	settings := gobreaker.Settings{
		Name:        "remote-store",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		// a caller giving up says nothing about the remote store
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
	return &Store{inner: inner, breaker: gobreaker.NewCircuitBreaker[struct{}](settings)}
}

// State reports the breaker state (closed, half-open, open); served by /health
func (s *Store) State() string {
	return s.breaker.State().String()
}

// NewSession implements port.RemoteStore
func (s *Store) NewSession() port.RemoteSession {
	return &session{RemoteSession: s.inner.NewSession(), breaker: s.breaker}
}

type session struct {
	port.RemoteSession
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func (s *session) Connect(ctx context.Context, creds domain.Credentials) error {
	_, err := s.breaker.Execute(func() (struct{}, error) {
		err := s.RemoteSession.Connect(ctx, creds)
		if err != nil && ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
			err = fmt.Errorf("%w: %w", ctx.Err(), err)
		}
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("breaker %s: %w", s.breaker.Name(), err)
	}
	return nil
}
