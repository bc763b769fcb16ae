package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Evictor drops per-client state idle for longer than idle and reports how much it dropped.
type Evictor interface {
	Sweep(idle time.Duration) int
}

type namedEvictor struct {
	name string
	Evictor
}

// SessionSweeper periodically evicts idle sessions from the store, along with
// any per-client state registered through WithEvictor.
type SessionSweeper struct {
	store    SessionStore
	ttl      time.Duration
	schedule string
	logger   *zap.Logger
	extra    []namedEvictor
}

// NewSessionSweeper creates a sweeper that runs on the given cron schedule.
func NewSessionSweeper(store SessionStore, ttl time.Duration, schedule string, logger *zap.Logger) *SessionSweeper {
	return &SessionSweeper{
		store:    store,
		ttl:      ttl,
		schedule: schedule,
		logger:   logger,
	}
}

// WithEvictor registers e to be swept with the same TTL as the sessions.
func (s *SessionSweeper) WithEvictor(name string, e Evictor) *SessionSweeper {
	s.extra = append(s.extra, namedEvictor{name: name, Evictor: e})
	return s
}

// Start runs the scheduler until ctx is cancelled.
func (s *SessionSweeper) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(s.schedule, s.Sweep); err != nil {
		return fmt.Errorf("add sweep job %q: %w", s.schedule, err)
	}

	c.Start()
	s.logger.Info("session sweeper started",
		zap.String("schedule", s.schedule),
		zap.Duration("ttl", s.ttl),
	)

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("session sweeper stopped")

	return nil
}

// Sweep evicts sessions and registered per-client state idle for longer than the TTL.
func (s *SessionSweeper) Sweep() {
	if evicted := s.store.Sweep(s.ttl); evicted > 0 {
		s.logger.Info("idle sessions evicted",
			zap.Int("evicted", evicted),
			zap.Int("remaining", s.store.Len()),
		)
	}

	for _, e := range s.extra {
		if dropped := e.Sweep(s.ttl); dropped > 0 {
			s.logger.Info("idle rate limiters evicted",
				zap.String("source", e.name),
				zap.Int("evicted", dropped),
			)
		}
	}
}
