package entities

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionFinished = errors.New("quiz round is finished")
	ErrInvalidState    = errors.New("invalid quiz session state")
)

// Mode distinguishes a pass over the whole table from a retry of missed codons.
type Mode string

const (
	ModeFullRound  Mode = "full"
	ModeRetryRound Mode = "retry"
)

// Feedback is the result of the previous submission, kept until the next one.
type Feedback struct {
	IsCorrect bool
	Message   string
}

// Session is a single user's quiz state: a shuffled queue of codons,
// the codons missed this round, the score and the last feedback.
//
// A Session is not safe for concurrent use. Callers serialize access per session.
type Session struct {
	ID        string
	StartedAt time.Time

	key   *AnswerKey
	rng   *rand.Rand
	clock func() time.Time

	roundID  string
	mode     Mode
	queue    []string
	wrong    []string
	current  string // "" once the round is over
	score    int
	total    int
	feedback *Feedback
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRand sets the shuffle source. Use a seeded source for reproducible rounds.
func WithRand(rng *rand.Rand) SessionOption {
	return func(s *Session) {
		s.rng = rng
	}
}

// WithClock overrides the clock used to timestamp attempts.
func WithClock(clock func() time.Time) SessionOption {
	return func(s *Session) {
		s.clock = clock
	}
}

// NewSession creates a session and starts a full round over every codon in key.
func NewSession(key *AnswerKey, opts ...SessionOption) *Session {
	s := &Session{
		ID:    uuid.NewString(),
		key:   key,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.StartedAt = s.clock()

	s.Reset()
	return s
}

// Reset starts a new full round over the whole answer key.
func (s *Session) Reset() {
	s.startRound(s.key.Codons(), ModeFullRound)
}

// StartRound starts a full-mode round over keys. An empty keys slice
// leaves the session finished immediately.
func (s *Session) StartRound(keys []string) {
	s.startRound(keys, ModeFullRound)
}

// RetryWrongAnswers starts a retry round over the codons missed in the
// round that just finished. It fails with ErrInvalidState while the
// current round is still running or when nothing was missed.
func (s *Session) RetryWrongAnswers() error {
	if !s.IsFinished() {
		return fmt.Errorf("%w: round still in progress", ErrInvalidState)
	}
	if len(s.wrong) == 0 {
		return fmt.Errorf("%w: no wrong answers to retry", ErrInvalidState)
	}

	s.startRound(s.wrong, ModeRetryRound)
	return nil
}

func (s *Session) startRound(keys []string, mode Mode) {
	queue := slices.Clone(keys)
	s.rng.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})

	s.roundID = uuid.NewString()
	s.mode = mode
	s.queue = queue
	s.wrong = nil
	s.score = 0
	s.total = len(queue)
	s.feedback = nil
	s.current = ""

	s.DrawNext()
}

// DrawNext pops the next codon off the queue and makes it current.
// When the queue is empty the current codon is cleared and the round is over.
func (s *Session) DrawNext() (string, bool) {
	if len(s.queue) == 0 {
		s.current = ""
		return "", false
	}

	last := len(s.queue) - 1
	s.current = s.queue[last]
	s.queue = s.queue[:last]

	return s.current, true
}

// Submit grades raw input against the current codon and advances the round.
//
// Blank input is ignored: submitted is false and nothing changes. A
// submission after the round has finished returns ErrSessionFinished.
// The returned Attempt is the row to hand to the attempt log.
func (s *Session) Submit(raw string) (attempt Attempt, submitted bool, err error) {
	if strings.TrimSpace(raw) == "" {
		return Attempt{}, false, nil
	}
	if s.current == "" {
		return Attempt{}, false, ErrSessionFinished
	}

	codon := s.current
	correct := s.key.IsCorrect(codon, raw)
	attempt = NewAttempt(s.ID, s.roundID, codon, raw, correct, s.clock())

	if correct {
		s.score++
		s.feedback = &Feedback{
			IsCorrect: true,
			Message:   fmt.Sprintf("%s = %s", codon, s.key.CanonicalName(codon)),
		}
	} else {
		s.wrong = append(s.wrong, codon)
		s.feedback = &Feedback{
			IsCorrect: false,
			Message:   s.key.DisplayAnswer(codon),
		}
	}

	s.DrawNext()
	return attempt, true, nil
}

// IsFinished reports whether the queue is drained and no question is pending.
func (s *Session) IsFinished() bool {
	return len(s.queue) == 0 && s.current == ""
}

// Remaining counts the queued codons plus the one currently shown.
func (s *Session) Remaining() int {
	n := len(s.queue)
	if s.current != "" {
		n++
	}
	return n
}

// ProgressFraction returns the answered share of the round in [0, 1].
func (s *Session) ProgressFraction() float64 {
	if s.total <= 0 {
		return 1
	}

	p := 1 - float64(s.Remaining())/float64(s.total)
	return min(max(p, 0), 1)
}

// Current returns the codon on display.
func (s *Session) Current() (string, bool) {
	return s.current, s.current != ""
}

// LastFeedback returns the feedback of the previous submission in this round.
func (s *Session) LastFeedback() (Feedback, bool) {
	if s.feedback == nil {
		return Feedback{}, false
	}
	return *s.feedback, true
}

// WrongKeys returns the codons missed so far in this round.
func (s *Session) WrongKeys() []string {
	return slices.Clone(s.wrong)
}

func (s *Session) Score() int      { return s.score }
func (s *Session) Total() int      { return s.total }
func (s *Session) Mode() Mode      { return s.mode }
func (s *Session) RoundID() string { return s.roundID }

// AnswerKey returns the table this session drills.
func (s *Session) AnswerKey() *AnswerKey {
	return s.key
}
