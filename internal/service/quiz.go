package service

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/codon-quiz-bot/internal/domain/entities"
)

// SessionView is the read model a shell renders after every action.
type SessionView struct {
	SessionID   string
	Mode        entities.Mode
	Codon       string // "" when the round is over
	Score       int
	Total       int
	Remaining   int
	WrongCount  int
	Progress    float64
	Feedback    *entities.Feedback
	Finished    bool
	CanRetry    bool
	HasQuestion bool
}

// SubmitResult describes the outcome of one submission.
type SubmitResult struct {
	View      SessionView
	Submitted bool // false for blank input
	Correct   bool
	Codon     string // codon that was answered
}

// QuizService runs quiz sessions for the shells and forwards graded
// attempts to the attempt log.
type QuizService struct {
	key     *entities.AnswerKey
	store   SessionStore
	sink    AttemptSink
	logger  *zap.Logger
	newRand func() *rand.Rand
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	key *entities.AnswerKey,
	store SessionStore,
	sink AttemptSink,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		key:    key,
		store:  store,
		sink:   sink,
		logger: logger,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// WithRandSource makes new sessions shuffle with generators built by fn.
func (s *QuizService) WithRandSource(fn func() *rand.Rand) *QuizService {
	s.newRand = fn
	return s
}

func (s *QuizService) newSession() *entities.Session {
	return entities.NewSession(s.key, entities.WithRand(s.newRand()))
}

// Current returns the session for key, starting a full round if there is none.
func (s *QuizService) Current(_ context.Context, key string) (SessionView, error) {
	var view SessionView
	err := s.store.With(key, s.newSession, func(sess *entities.Session) error {
		view = buildView(sess)
		return nil
	})
	return view, err
}

// Restart begins a new full round over every codon.
func (s *QuizService) Restart(_ context.Context, key string) (SessionView, error) {
	var view SessionView
	err := s.store.With(key, s.newSession, func(sess *entities.Session) error {
		sess.Reset()
		view = buildView(sess)
		return nil
	})
	if err != nil {
		return SessionView{}, err
	}

	s.logger.Info("quiz round started",
		zap.String("session", view.SessionID),
		zap.String("mode", string(view.Mode)),
		zap.Int("total", view.Total),
	)

	return view, nil
}

// Retry starts a round over the codons missed in the finished round.
// It returns entities.ErrInvalidState when a retry is not possible.
func (s *QuizService) Retry(_ context.Context, key string) (SessionView, error) {
	var view SessionView
	err := s.store.With(key, s.newSession, func(sess *entities.Session) error {
		if err := sess.RetryWrongAnswers(); err != nil {
			return err
		}
		view = buildView(sess)
		return nil
	})
	if err != nil {
		return SessionView{}, err
	}

	s.logger.Info("retry round started",
		zap.String("session", view.SessionID),
		zap.Int("total", view.Total),
	)

	return view, nil
}

// Submit grades raw against the current codon of the session.
//
// Blank input returns Submitted=false and leaves the session untouched.
// A graded attempt is handed to the attempt log exactly once, after the
// session lock is released; log failures are logged and never change the outcome.
func (s *QuizService) Submit(ctx context.Context, key, raw string) (SubmitResult, error) {
	var (
		res     SubmitResult
		attempt entities.Attempt
	)
	err := s.store.With(key, s.newSession, func(sess *entities.Session) error {
		a, submitted, err := sess.Submit(raw)
		if err != nil {
			return err
		}

		res.View = buildView(sess)
		if !submitted {
			return nil
		}

		attempt = a
		res.Submitted = true
		res.Correct = a.IsCorrect()
		res.Codon = a.Codon
		return nil
	})
	if err != nil {
		return SubmitResult{}, err
	}

	if res.Submitted {
		s.logAttempt(ctx, attempt)
	}

	return res, nil
}

// End drops the session stored under key. The next call starts a fresh one.
func (s *QuizService) End(_ context.Context, key string) {
	s.store.Delete(key)
	s.logger.Info("quiz session ended", zap.String("key", key))
}

func (s *QuizService) logAttempt(ctx context.Context, a entities.Attempt) {
	// The write outlives the caller's request.
	ctx = context.WithoutCancel(ctx)

	if err := s.sink.Append(ctx, a); err != nil {
		s.logger.Warn("failed to log attempt",
			zap.String("session", a.SessionID),
			zap.String("codon", a.Codon),
			zap.String("result", string(a.Result)),
			zap.Error(err),
		)
		return
	}

	s.logger.Debug("attempt logged",
		zap.String("session", a.SessionID),
		zap.String("codon", a.Codon),
		zap.String("result", string(a.Result)),
	)
}

func buildView(sess *entities.Session) SessionView {
	codon, ok := sess.Current()

	view := SessionView{
		SessionID:   sess.ID,
		Mode:        sess.Mode(),
		Codon:       codon,
		Score:       sess.Score(),
		Total:       sess.Total(),
		Remaining:   sess.Remaining(),
		WrongCount:  len(sess.WrongKeys()),
		Progress:    sess.ProgressFraction(),
		Finished:    sess.IsFinished(),
		HasQuestion: ok,
	}
	view.CanRetry = view.Finished && view.WrongCount > 0

	if fb, ok := sess.LastFeedback(); ok {
		view.Feedback = &fb
	}

	return view
}
