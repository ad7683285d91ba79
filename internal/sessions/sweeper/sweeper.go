// Package sweeper periodically deletes expired refresh tokens.
//
// Several API replicas may run a sweeper; a lease in the Locks collection
// lets only one of them sweep per interval.
package sweeper

import (
	"context"
	"sync"
	"time"

	mongotx "studyhall/pkg/db/mongo"
	"studyhall/pkg/logger"
	"studyhall/pkg/metrics"
)

const LeaseName = "refresh-token-sweep"

type ExpiredTokenPurger interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type Sweeper struct {
	purger   ExpiredTokenPurger
	leases   mongotx.LeaseManager
	interval time.Duration
	timeout  time.Duration
	metrics  *metrics.Metrics
	log      *logger.Logger
	now      func() time.Time

	stopCh   chan struct{}
	done     chan struct{}
	started  bool
	stopOnce sync.Once
}

func New(
	purger ExpiredTokenPurger,
	leases mongotx.LeaseManager,
	interval time.Duration,
	timeout time.Duration,
	m *metrics.Metrics,
	log *logger.Logger,
) *Sweeper {
	return &Sweeper{
		purger:   purger,
		leases:   leases,
		interval: interval,
		timeout:  timeout,
		metrics:  m,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	s.started = true
	go s.run()
	s.log.Info("Refresh token sweeper started", "interval", s.interval)
}

func (s *Sweeper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			if _, err := s.SweepOnce(ctx); err != nil {
				s.log.Error("Refresh token sweep failed", "error", err)
			}
			cancel()
		case <-s.stopCh:
			return
		}
	}
}

// SweepOnce deletes expired tokens if this replica holds the lease. The
// lease is kept for one interval so other replicas skip their next tick.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	acquired, err := s.leases.Acquire(ctx, LeaseName, s.interval)
	if err != nil {
		return 0, err
	}
	if !acquired {
		s.log.Debug("Refresh token sweep skipped, lease held elsewhere")
		return 0, nil
	}

	n, err := s.purger.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	s.metrics.TokensSwept(n)
	if n > 0 {
		s.log.Info("Expired refresh tokens swept", "count", n)
	}
	return n, nil
}

// Stop ends the loop and hands the lease back.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if s.started {
			<-s.done
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.leases.Release(ctx, LeaseName); err != nil {
			s.log.Warn("Failed to release sweep lease", "error", err)
		}
	})
}
