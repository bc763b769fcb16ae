package entities

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

var (
	ErrCodonNotFound = errors.New("codon not found")
	ErrInvalidCodon  = errors.New("invalid codon")
	ErrEmptyAnswers  = errors.New("codon has no accepted answers")
)

const codonAlphabet = "ACGU"

// AnswerKey maps a codon to its ordered list of accepted answers.
// Slot 0 is the canonical amino-acid name, slot 1 is a one-letter
// abbreviation when it is exactly one character long, the rest are synonyms.
// An AnswerKey is immutable after construction and safe for concurrent use.
type AnswerKey struct {
	answers map[string][]string
	codons  []string // sorted
}

// NewAnswerKey validates and copies the given table.
func NewAnswerKey(table map[string][]string) (*AnswerKey, error) {
	answers := make(map[string][]string, len(table))
	for codon, list := range table {
		if !IsCodon(codon) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCodon, codon)
		}
		blank := lo.SomeBy(list, func(ans string) bool {
			return strings.TrimSpace(ans) == ""
		})
		if len(list) == 0 || blank {
			return nil, fmt.Errorf("%w: %s", ErrEmptyAnswers, codon)
		}
		answers[codon] = slices.Clone(list)
	}

	codons := lo.Keys(answers)
	slices.Sort(codons)

	return &AnswerKey{answers: answers, codons: codons}, nil
}

// IsCodon reports whether s is three letters from the RNA alphabet.
func IsCodon(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(codonAlphabet, rune(s[i])) {
			return false
		}
	}
	return true
}

// Len returns the number of codons in the key.
func (k *AnswerKey) Len() int {
	return len(k.codons)
}

// Codons returns all codons in a stable, sorted order.
func (k *AnswerKey) Codons() []string {
	return slices.Clone(k.codons)
}

// Answers returns a copy of the accepted answers for the codon.
func (k *AnswerKey) Answers(codon string) ([]string, error) {
	list, ok := k.answers[codon]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCodonNotFound, codon)
	}
	return slices.Clone(list), nil
}

// CanonicalName returns slot 0 for the codon, or "" if it is unknown.
func (k *AnswerKey) CanonicalName(codon string) string {
	list := k.answers[codon]
	if len(list) == 0 {
		return ""
	}
	return list[0]
}

// Abbreviation returns slot 1 only when it is a single character.
// Longer synonyms sitting in slot 1 are not abbreviations.
func (k *AnswerKey) Abbreviation(codon string) string {
	list := k.answers[codon]
	if len(list) < 2 || utf8.RuneCountInString(list[1]) != 1 {
		return ""
	}
	return list[1]
}

// DisplayAnswer renders "<canonical>[ / <abbreviation>]".
func (k *AnswerKey) DisplayAnswer(codon string) string {
	name := k.CanonicalName(codon)
	if abbr := k.Abbreviation(codon); abbr != "" {
		return name + " / " + abbr
	}
	return name
}

// IsCorrect checks raw user input against the accepted answers of the codon.
//
// The input is trimmed and compared twice: once upper-cased, which makes ASCII
// abbreviations and "STOP" case-insensitive, and once as typed, which covers
// Hangul names and multi-word synonyms that have no case variants.
func (k *AnswerKey) IsCorrect(codon, raw string) bool {
	trimmed := strings.TrimSpace(raw)
	upper := strings.ToUpper(trimmed)

	return slices.ContainsFunc(k.answers[codon], func(ans string) bool {
		return upper == ans || trimmed == ans
	})
}
