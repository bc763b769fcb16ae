// Package app wires the quiz core to its collaborators for the binaries in cmd/.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/codon-quiz-bot/internal/config"
	"github.com/aliskhannn/codon-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/codon-quiz-bot/internal/infra/attemptlog"
	"github.com/aliskhannn/codon-quiz-bot/internal/infra/postgres"
	"github.com/aliskhannn/codon-quiz-bot/internal/infra/postgres/repository"
	codonrepo "github.com/aliskhannn/codon-quiz-bot/internal/repository"
	"github.com/aliskhannn/codon-quiz-bot/internal/service"
	"github.com/aliskhannn/codon-quiz-bot/internal/storage"
)

// Sink is an attempt log that can also be queried and closed.
type Sink interface {
	Append(ctx context.Context, a entities.Attempt) error
	HardestCodons(ctx context.Context, limit int) ([]repository.CodonMisses, error)
	Close()
}

// App holds the services shared by every shell.
type App struct {
	Key   *entities.AnswerKey
	Store *storage.SessionStorage
	Sink  Sink
	Quiz  *service.QuizService
	Stats *service.StatsService
}

// New loads the codon table and builds the services. When seed is non-zero
// every new session shuffles from a generator seeded with it.
func New(cfg *config.Config, logger *zap.Logger, seed int64) (*App, error) {
	codonRepo, err := codonrepo.NewCodonRepository(cfg.CodonsJSONPath)
	if err != nil {
		return nil, fmt.Errorf("load codons: %w", err)
	}
	key := codonRepo.AnswerKey()
	logger.Info("codon table loaded", zap.Int("codons", key.Len()))

	loc, err := entities.ParseLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("parse timezone: %w", err)
	}

	var sink Sink = attemptlog.NopSink{}
	if cfg.DB.Enabled() {
		dsn, _ := cfg.DB.DSN()
		sink = attemptlog.NewPostgresSink(dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		}, loc, cfg.DB.AppendTimeout)
	} else {
		logger.Warn("DATABASE_URL is not set, attempts will not be logged")
	}

	store := storage.NewSessionStorage()
	quiz := service.NewQuizService(key, store, sink, logger)
	if seed != 0 {
		var mu sync.Mutex
		src := rand.New(rand.NewSource(seed))
		quiz.WithRandSource(func() *rand.Rand {
			mu.Lock()
			defer mu.Unlock()
			return rand.New(rand.NewSource(src.Int63()))
		})
	}

	return &App{
		Key:   key,
		Store: store,
		Sink:  sink,
		Quiz:  quiz,
		Stats: service.NewStatsService(key, sink),
	}, nil
}

// Close releases the attempt log.
func (a *App) Close() {
	a.Sink.Close()
}
