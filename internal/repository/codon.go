package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aliskhannn/codon-quiz-bot/assets"
	"github.com/aliskhannn/codon-quiz-bot/internal/domain/entities"
)

// CodonCount is the size of the full RNA codon table.
const CodonCount = 64

var ErrIncompleteTable = errors.New("incomplete codon table")

// CodonRepository provides read-only access to the codon answer key.
// The table is loaded once and never changes afterwards.
type CodonRepository struct {
	key *entities.AnswerKey
}

// NewCodonRepository loads the table from path. An empty path selects the
// table embedded in the binary.
func NewCodonRepository(path string) (*CodonRepository, error) {
	data := assets.CodonsJSON
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read codon table: %w", err)
		}
	}

	key, err := parseCodons(data)
	if err != nil {
		return nil, err
	}

	return &CodonRepository{key: key}, nil
}

// AnswerKey returns the loaded key.
func (r *CodonRepository) AnswerKey() *entities.AnswerKey {
	return r.key
}

func parseCodons(data []byte) (*entities.AnswerKey, error) {
	var wrapper struct {
		Codons map[string][]string `json:"codons"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal codons JSON: %w", err)
	}

	if len(wrapper.Codons) != CodonCount {
		return nil, fmt.Errorf("%w: expected %d codons, got %d", ErrIncompleteTable, CodonCount, len(wrapper.Codons))
	}

	key, err := entities.NewAnswerKey(wrapper.Codons)
	if err != nil {
		return nil, fmt.Errorf("build answer key: %w", err)
	}

	return key, nil
}
