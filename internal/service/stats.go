package service

import (
	"context"
	"fmt"

	"github.com/aliskhannn/codon-quiz-bot/internal/domain/entities"
)

const maxHardestCodons = 10

// HardCodon is a frequently missed codon with its answer.
type HardCodon struct {
	Codon  string
	Answer string // canonical name, with abbreviation when there is one
	Misses int
}

// StatsService reads aggregates from the attempt log.
type StatsService struct {
	key    *entities.AnswerKey
	reader AttemptStatsReader
}

// NewStatsService creates a new StatsService.
func NewStatsService(key *entities.AnswerKey, reader AttemptStatsReader) *StatsService {
	return &StatsService{key: key, reader: reader}
}

// HardestCodons returns up to limit codons with the most incorrect attempts.
func (s *StatsService) HardestCodons(ctx context.Context, limit int) ([]HardCodon, error) {
	if limit <= 0 || limit > maxHardestCodons {
		limit = maxHardestCodons
	}

	misses, err := s.reader.HardestCodons(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("get hardest codons: %w", err)
	}

	out := make([]HardCodon, 0, len(misses))
	for _, m := range misses {
		out = append(out, HardCodon{
			Codon:  m.Codon,
			Answer: s.key.DisplayAnswer(m.Codon),
			Misses: m.Misses,
		})
	}

	return out, nil
}
