// Package runner starts a set of services, blocks until its context is done
// and stops them again.
package runner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultShutdownTimeout = 30 * time.Second

var (
	ErrServicePanic    = errors.New("runner: service panicked")
	ErrServiceFailed   = errors.New("runner: service failed to start")
	ErrShutdownTimeout = errors.New("runner: shutdown timeout exceeded")
)

// Service must return from Start once it is ready; long running work belongs
// in its own goroutine.
type Service interface {
	Start(ctx context.Context) error
	Stop() error
	Name() string
}

type Runner struct {
	services        []Service
	shutdownTimeout time.Duration
	logger          zerolog.Logger
}

type Option func(*Runner)

func New(opts ...Option) *Runner {
	runner := &Runner{
		services:        make([]Service, 0),
		shutdownTimeout: defaultShutdownTimeout,
		logger:          log.Logger,
	}

	for _, opt := range opts {
		opt(runner)
	}

	return runner
}

func WithService(svc Service) Option {
	return func(r *Runner) {
		r.services = append(r.services, svc)
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.shutdownTimeout = d
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// Run starts the services in registration order. If one fails, the ones
// already started are stopped and the failure is returned. Otherwise Run
// blocks until ctx is done, then stops every service in reverse order.
func (r *Runner) Run(ctx context.Context) error {
	started := make([]Service, 0, len(r.services))

	for _, svc := range r.services {
		if err := r.start(ctx, svc); err != nil {
			r.logger.Error().
				Err(err).
				Str("service_name", svc.Name()).
				Msg("The service has failed to start")

			return errors.Join(err, r.shutdown(started))
		}

		started = append(started, svc)
	}

	r.logger.Info().
		Int("services", len(started)).
		Msg("All services started, waiting for shutdown signal")

	<-ctx.Done()

	r.logger.Warn().Msg("Shutdown signal received")

	return r.shutdown(started)
}

func (r *Runner) start(ctx context.Context, svc Service) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %s: %v", ErrServicePanic, svc.Name(), rec)
		}
	}()

	r.logger.Info().Str("service_name", svc.Name()).Msg("Starting service")

	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrServiceFailed, svc.Name(), err)
	}

	return nil
}

func (r *Runner) shutdown(services []Service) error {
	if len(services) == 0 {
		return nil
	}

	done := make(chan error, 1)

	go func() {
		var errs []error

		for _, svc := range slices.Backward(services) {
			r.logger.Info().Str("service_name", svc.Name()).Msg("Stopping service")

			if err := svc.Stop(); err != nil {
				r.logger.Error().
					Err(err).
					Str("service_name", svc.Name()).
					Msg("Service failed to stop")

				errs = append(errs, fmt.Errorf("%s: %w", svc.Name(), err))
			}
		}

		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(r.shutdownTimeout):
		r.logger.Error().
			Dur("timeout", r.shutdownTimeout).
			Msg("Shutdown timeout exceeded, some services may not have stopped cleanly")

		return ErrShutdownTimeout
	}
}
