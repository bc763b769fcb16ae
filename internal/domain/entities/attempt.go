package entities

import (
	"time"

	"github.com/google/uuid"
)

// AttemptResult is the outcome recorded in the attempt log.
type AttemptResult string

const (
	ResultCorrect   AttemptResult = "correct"
	ResultIncorrect AttemptResult = "incorrect"
)

// TimestampLayout is the wall-clock format written to the attempt log.
const TimestampLayout = "2006-01-02 15:04:05"

// Attempt is one submitted answer as it is appended to the attempt log.
type Attempt struct {
	ID         string        // unique attempt ID
	SessionID  string        // session that produced the attempt
	RoundID    string        // round within the session
	Codon      string        // codon that was asked
	Input      string        // raw user input, untrimmed
	Result     AttemptResult // correct or incorrect
	AnsweredAt time.Time     // submission time
}

// NewAttempt builds an attempt row for the given submission.
func NewAttempt(sessionID, roundID, codon, input string, correct bool, at time.Time) Attempt {
	result := ResultIncorrect
	if correct {
		result = ResultCorrect
	}

	return Attempt{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		RoundID:    roundID,
		Codon:      codon,
		Input:      input,
		Result:     result,
		AnsweredAt: at,
	}
}

// IsCorrect reports whether the attempt was graded correct.
func (a Attempt) IsCorrect() bool {
	return a.Result == ResultCorrect
}

// Timestamp formats AnsweredAt in loc. A nil loc means UTC.
func (a Attempt) Timestamp(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return a.AnsweredAt.In(loc).Format(TimestampLayout)
}
