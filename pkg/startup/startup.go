// Package startup sequences dependency startup/shutdown (the optional
// audit-store connection, the optional Kafka consumer) with
// retry-with-backoff, honoring declared DependsOn order.
package startup

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
)

// Dependency is one thing cmd/corpmatchd must start before serving traffic,
// and stop on shutdown.
type Dependency interface {
	Name() string
	DependsOn() []string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type status int

const (
	statusPending status = iota
	statusStarted
	statusStopped
	statusFailed
)

// Startup runs a set of Dependencies to completion, retrying the whole
// batch with Fibonacci backoff up to maxAttempts times on failure.
type Startup struct {
	dependencies map[string]Dependency
	logger       ectologger.Logger
	statuses     map[string]status
	maxAttempts  int
}

// New creates a Startup that retries up to maxAttempts times.
func New(logger ectologger.Logger, maxAttempts int) *Startup {
	return &Startup{
		logger:       logger,
		dependencies: make(map[string]Dependency),
		statuses:     make(map[string]status),
		maxAttempts:  maxAttempts,
	}
}

// Add registers a dependency to be started.
func (s *Startup) Add(dependency Dependency) {
	s.dependencies[dependency.Name()] = dependency
}

// Start starts every registered dependency in DependsOn order, retrying the
// whole batch with Fibonacci backoff on failure.
func (s *Startup) Start(ctx context.Context) error {
	var lastErr error

	a, b := 1, 1
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		s.logger.WithField("attempt", attempt).Infof("Beginning startup attempt %d", attempt)

		success := true
		for _, dependency := range s.dependencies {
			if err := s.startDependency(ctx, dependency); err != nil {
				s.logger.WithError(err).Errorf("Startup dependency %q attempt %d failed", dependency.Name(), attempt)
				lastErr = err
				success = false
				break
			}
		}

		if success {
			return nil
		}

		if attempt >= s.maxAttempts {
			return fmt.Errorf("startup failed after %d attempts: %w", attempt, lastErr)
		}

		waitTime := time.Duration(a) * time.Second
		s.logger.Infof("Retrying startup in %d seconds (attempt %d/%d)", a, attempt, s.maxAttempts)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}

		a, b = b, a+b
	}

	return nil
}

func (s *Startup) startDependency(ctx context.Context, dependency Dependency) error {
	if s.statuses[dependency.Name()] == statusStarted {
		return nil
	}

	for _, name := range dependency.DependsOn() {
		if s.statuses[name] != statusStarted {
			if err := s.startDependency(ctx, s.dependencies[name]); err != nil {
				return err
			}
		}
	}

	s.logger.WithField("dependency", dependency.Name()).Infof("Starting dependency %q", dependency.Name())
	s.statuses[dependency.Name()] = statusPending
	if err := dependency.Start(ctx); err != nil {
		s.statuses[dependency.Name()] = statusFailed
		return err
	}
	s.statuses[dependency.Name()] = statusStarted
	return nil
}

// Stop stops every registered dependency. Dependencies are held in a map, so
// the order in which they are stopped is not defined.
func (s *Startup) Stop(ctx context.Context) error {
	deps := make([]Dependency, 0, len(s.dependencies))
	for _, dep := range s.dependencies {
		deps = append(deps, dep)
	}
	for i, j := 0, len(deps)-1; i < j; i, j = i+1, j-1 {
		deps[i], deps[j] = deps[j], deps[i]
	}

	for _, dependency := range deps {
		if err := s.stopDependency(ctx, dependency); err != nil {
			return err
		}
	}
	return nil
}

func (s *Startup) stopDependency(ctx context.Context, dependency Dependency) error {
	s.logger.WithField("dependency", dependency.Name()).Infof("Stopping dependency %q", dependency.Name())
	if err := dependency.Stop(ctx); err != nil {
		s.logger.WithError(err).Errorf("Failed to stop dependency %q", dependency.Name())
		return err
	}
	s.statuses[dependency.Name()] = statusStopped
	return nil
}
