package service

import (
	"context"
	"time"

	"github.com/aliskhannn/codon-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/codon-quiz-bot/internal/infra/postgres/repository"
)

// AttemptSink receives one row per graded submission. Delivery is best effort.
type AttemptSink interface {
	Append(ctx context.Context, a entities.Attempt) error
}

// AttemptStatsReader reads aggregates back from the attempt log.
type AttemptStatsReader interface {
	HardestCodons(ctx context.Context, limit int) ([]repository.CodonMisses, error)
}

// SessionStore holds live sessions and serializes access to each of them.
type SessionStore interface {
	With(key string, create func() *entities.Session, fn func(*entities.Session) error) error
	Delete(key string)
	Len() int
	Sweep(idle time.Duration) int
}
