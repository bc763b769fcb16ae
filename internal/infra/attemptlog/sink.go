// Package attemptlog provides the append-only sinks that receive quiz attempts.
package attemptlog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aliskhannn/codon-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/codon-quiz-bot/internal/infra/postgres"
	"github.com/aliskhannn/codon-quiz-bot/internal/infra/postgres/repository"
)

var ErrLogDisabled = errors.New("attempt log is disabled")

// Store is the backing table the sink writes to.
type Store interface {
	Append(ctx context.Context, a entities.Attempt) error
	HardestCodons(ctx context.Context, limit int) ([]repository.CodonMisses, error)
}

type opener func(ctx context.Context) (Store, func(), error)

// LazySink opens its store on first use and keeps it for the life of the
// process. A failed open is not cached, so the next attempt tries again.
type LazySink struct {
	mu      sync.Mutex
	open    opener
	store   Store
	closeFn func()
	timeout time.Duration
}

// NewPostgresSink returns a sink backed by the quiz_attempts table.
// No connection is made until the first Append.
func NewPostgresSink(dsn string, poolCfg postgres.PoolConfig, loc *time.Location, timeout time.Duration) *LazySink {
	return newLazySink(func(ctx context.Context) (Store, func(), error) {
		pool, err := postgres.NewPool(ctx, dsn, poolCfg)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewAttemptRepository(pool, loc), pool.Close, nil
	}, timeout)
}

func newLazySink(open opener, timeout time.Duration) *LazySink {
	return &LazySink{open: open, timeout: timeout}
}

func (s *LazySink) connect(ctx context.Context) (Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		return s.store, nil
	}

	store, closeFn, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open attempt log: %w", err)
	}

	s.store, s.closeFn = store, closeFn
	return store, nil
}

func (s *LazySink) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Append writes one attempt row.
func (s *LazySink) Append(ctx context.Context, a entities.Attempt) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	store, err := s.connect(ctx)
	if err != nil {
		return err
	}

	return store.Append(ctx, a)
}

// HardestCodons returns the most frequently missed codons.
func (s *LazySink) HardestCodons(ctx context.Context, limit int) ([]repository.CodonMisses, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	store, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	return store.HardestCodons(ctx, limit)
}

// Close releases the underlying store if it was opened.
func (s *LazySink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeFn != nil {
		s.closeFn()
	}
	s.store, s.closeFn = nil, nil
}

// NopSink discards attempts. It is used when no database is configured.
type NopSink struct{}

func (NopSink) Append(context.Context, entities.Attempt) error { return nil }

func (NopSink) HardestCodons(context.Context, int) ([]repository.CodonMisses, error) {
	return nil, ErrLogDisabled
}

func (NopSink) Close() {}
