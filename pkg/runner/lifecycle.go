package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// LifecycleRunner walks a service through the runner states. Shutdown drains
// in-flight work first, bounded by the configured timeout.
type LifecycleRunner struct {
	service string
	drainer Drainer
	hooks   Hooks
	timeout time.Duration
	log     *slog.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

func NewLifecycleRunner(service string, drainer Drainer, hooks Hooks, timeout time.Duration) *LifecycleRunner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LifecycleRunner{
		service: service,
		drainer: drainer,
		hooks:   hooks,
		timeout: timeout,
		log:     slog.Default(),
		done:    make(chan struct{}),
	}
}

// WithLogger replaces the runner's logger. Call before Run.
func (r *LifecycleRunner) WithLogger(log *slog.Logger) *LifecycleRunner {
	if log != nil {
		r.log = log
	}
	return r
}

// Run blocks until ctx is cancelled or Stop is called, then performs the
// drain and stop sequence. A runner is single-use.
func (r *LifecycleRunner) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateNew {
		r.mu.Unlock()
		return errors.New("runner already started")
	}
	r.state = StateStarting
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()

	PrintBanner(r.service)
	if r.hooks.OnStart != nil {
		r.hooks.OnStart()
	}

	r.mu.Lock()
	r.state = StateRunning
	r.mu.Unlock()

	<-ctx.Done()
	err := r.shutdown()
	close(r.done)
	return err
}

// Stop triggers shutdown and waits for Run to finish the drain sequence.
func (r *LifecycleRunner) Stop() error {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel == nil {
		return errors.New("runner not started")
	}
	cancel()
	<-r.done
	return nil
}

func (r *LifecycleRunner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *LifecycleRunner) shutdown() error {
	r.mu.Lock()
	if r.state == StateStopped || r.state == StateDraining {
		r.mu.Unlock()
		return nil
	}
	r.state = StateDraining
	r.mu.Unlock()

	var err error
	if r.drainer != nil {
		drainCtx, cancel := context.WithTimeout(context.Background(), r.timeout)
		drained := make(chan struct{})
		go func() {
			if derr := r.drainer.Drain(); derr != nil {
				r.log.Warn("drain reported error", "service", r.service, "error", derr)
			}
			close(drained)
		}()
		select {
		case <-drained:
		case <-drainCtx.Done():
			err = errors.New("drain timeout")
		}
		cancel()
	}

	if r.hooks.OnStop != nil {
		r.hooks.OnStop()
	}

	r.mu.Lock()
	r.state = StateStopped
	r.mu.Unlock()
	r.log.Info("service stopped", "service", r.service)
	return err
}
