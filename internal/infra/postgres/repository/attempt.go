package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aliskhannn/codon-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/codon-quiz-bot/internal/infra/postgres"
)

// AttemptRepository appends quiz attempts to the quiz_attempts table.
type AttemptRepository struct {
	db  postgres.DBTX
	loc *time.Location
}

// NewAttemptRepository creates a new AttemptRepository. Wall-clock
// timestamps are rendered in loc.
func NewAttemptRepository(db postgres.DBTX, loc *time.Location) *AttemptRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &AttemptRepository{db: db, loc: loc}
}

// Append writes one attempt row. The table is append-only.
func (r *AttemptRepository) Append(ctx context.Context, a entities.Attempt) error {
	query := `
		INSERT INTO quiz_attempts (id, session_id, round_id, codon, user_input, result, answered_at, logged_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(
		ctx,
		query,
		a.ID,
		a.SessionID,
		a.RoundID,
		a.Codon,
		a.Input,
		string(a.Result),
		a.AnsweredAt,
		a.Timestamp(r.loc),
	)
	if err != nil {
		return fmt.Errorf("append attempt: %w", err)
	}

	return nil
}

// HardestCodons returns the codons with the most incorrect attempts across all sessions.
func (r *AttemptRepository) HardestCodons(ctx context.Context, limit int) ([]CodonMisses, error) {
	query := `
		SELECT codon, COUNT(*) AS misses
		FROM quiz_attempts
		WHERE result = 'incorrect'
		GROUP BY codon
		ORDER BY misses DESC, codon
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("hardest codons: %w", err)
	}
	defer rows.Close()

	var out []CodonMisses
	for rows.Next() {
		var cm CodonMisses
		if err := rows.Scan(&cm.Codon, &cm.Misses); err != nil {
			return nil, fmt.Errorf("scan hardest codon: %w", err)
		}
		out = append(out, cm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hardest codons: %w", err)
	}

	return out, nil
}

// CodonMisses is a codon with its incorrect attempt count.
type CodonMisses struct {
	Codon  string
	Misses int
}
