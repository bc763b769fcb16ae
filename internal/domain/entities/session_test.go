package entities

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
	"time"
)

func newTestSession(t *testing.T, seed int64) *Session {
	t.Helper()
	return NewSession(mustKey(t), WithRand(rand.New(rand.NewSource(seed))))
}

// wrongAnswer never matches any codon in testTable.
const wrongAnswer = "오답"

func TestNewSessionStartsFullRound(t *testing.T) {
	s := newTestSession(t, 1)

	if s.Mode() != ModeFullRound {
		t.Fatalf("Mode() = %q", s.Mode())
	}
	if s.Total() != 5 || s.Remaining() != 5 {
		t.Fatalf("Total/Remaining = %d/%d, want 5/5", s.Total(), s.Remaining())
	}
	if _, ok := s.Current(); !ok {
		t.Fatal("no current codon after start")
	}
	if _, ok := s.LastFeedback(); ok {
		t.Fatal("feedback present before first submission")
	}
	if s.IsFinished() {
		t.Fatal("new session is finished")
	}
	if s.ProgressFraction() != 0 {
		t.Fatalf("ProgressFraction() = %v, want 0", s.ProgressFraction())
	}
	if s.RoundID() == "" || s.ID == "" {
		t.Fatal("missing session or round id")
	}
}

func TestRoundDrawsEveryCodonOnce(t *testing.T) {
	s := newTestSession(t, 42)

	var drawn []string
	for !s.IsFinished() {
		codon, ok := s.Current()
		if !ok {
			t.Fatal("active session without current codon")
		}
		drawn = append(drawn, codon)
		if _, submitted, err := s.Submit(wrongAnswer); err != nil || !submitted {
			t.Fatalf("Submit: submitted=%v err=%v", submitted, err)
		}
	}

	want := s.AnswerKey().Codons()
	slices.Sort(drawn)
	if !slices.Equal(drawn, want) {
		t.Fatalf("drawn = %v, want %v", drawn, want)
	}
}

func TestProgressMonotonic(t *testing.T) {
	s := newTestSession(t, 7)

	prev := s.ProgressFraction()
	for !s.IsFinished() {
		if _, _, err := s.Submit(wrongAnswer); err != nil {
			t.Fatal(err)
		}
		p := s.ProgressFraction()
		if p < prev {
			t.Fatalf("progress went from %v to %v", prev, p)
		}
		prev = p
	}

	if s.ProgressFraction() != 1.0 {
		t.Fatalf("ProgressFraction() = %v at finish, want 1", s.ProgressFraction())
	}
}

func TestSubmitCorrect(t *testing.T) {
	key := mustKey(t)
	s := NewSession(key)
	s.StartRound([]string{"AUG"})

	attempt, submitted, err := s.Submit(" m ")
	if err != nil || !submitted {
		t.Fatalf("Submit: submitted=%v err=%v", submitted, err)
	}

	if s.Score() != 1 {
		t.Fatalf("Score() = %d", s.Score())
	}
	fb, ok := s.LastFeedback()
	if !ok || !fb.IsCorrect || fb.Message != "AUG = 메싸이오닌" {
		t.Fatalf("feedback = %+v", fb)
	}
	if attempt.Codon != "AUG" || attempt.Input != " m " || attempt.Result != ResultCorrect {
		t.Fatalf("attempt = %+v", attempt)
	}
	if attempt.SessionID != s.ID || attempt.RoundID != s.RoundID() {
		t.Fatalf("attempt ids = %q/%q", attempt.SessionID, attempt.RoundID)
	}
	if !s.IsFinished() {
		t.Fatal("single-codon round not finished after one answer")
	}
}

func TestSubmitIncorrect(t *testing.T) {
	s := newTestSession(t, 3)
	s.StartRound([]string{"AUG"})

	attempt, _, err := s.Submit("Met")
	if err != nil {
		t.Fatal(err)
	}

	if s.Score() != 0 {
		t.Fatalf("Score() = %d", s.Score())
	}
	if got := s.WrongKeys(); !slices.Equal(got, []string{"AUG"}) {
		t.Fatalf("WrongKeys() = %v", got)
	}
	fb, _ := s.LastFeedback()
	if fb.IsCorrect || fb.Message != "메싸이오닌 / M" {
		t.Fatalf("feedback = %+v", fb)
	}
	if attempt.Result != ResultIncorrect {
		t.Fatalf("attempt.Result = %q", attempt.Result)
	}
}

func TestIncorrectFeedbackOmitsLongSynonym(t *testing.T) {
	s := newTestSession(t, 3)
	s.StartRound([]string{"UAA"})

	if _, _, err := s.Submit("A"); err != nil {
		t.Fatal(err)
	}

	fb, _ := s.LastFeedback()
	if fb.Message != "종결" {
		t.Fatalf("feedback message = %q, want %q", fb.Message, "종결")
	}
}

func TestBlankSubmissionIsNoop(t *testing.T) {
	s := newTestSession(t, 5)

	if _, _, err := s.Submit("m"); err != nil {
		t.Fatal(err)
	}
	before, _ := s.Current()
	fbBefore, _ := s.LastFeedback()
	score, remaining := s.Score(), s.Remaining()

	for _, input := range []string{"", "   ", "\t\n"} {
		_, submitted, err := s.Submit(input)
		if err != nil || submitted {
			t.Fatalf("Submit(%q): submitted=%v err=%v", input, submitted, err)
		}
	}

	after, _ := s.Current()
	fbAfter, _ := s.LastFeedback()
	if after != before || fbAfter != fbBefore || s.Score() != score || s.Remaining() != remaining {
		t.Fatal("blank submission changed the session")
	}
}

func TestSubmitAfterFinish(t *testing.T) {
	s := newTestSession(t, 5)
	s.StartRound([]string{"UUU"})

	if _, _, err := s.Submit("F"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Submit("F"); !errors.Is(err, ErrSessionFinished) {
		t.Fatalf("error = %v, want ErrSessionFinished", err)
	}
}

func TestRetryAfterAllWrong(t *testing.T) {
	s := newTestSession(t, 11)
	firstRound := s.RoundID()

	for !s.IsFinished() {
		if _, _, err := s.Submit(wrongAnswer); err != nil {
			t.Fatal(err)
		}
	}

	wrong := s.WrongKeys()
	if len(wrong) != 5 {
		t.Fatalf("WrongKeys() = %v", wrong)
	}

	if err := s.RetryWrongAnswers(); err != nil {
		t.Fatalf("RetryWrongAnswers: %v", err)
	}

	if s.Mode() != ModeRetryRound {
		t.Fatalf("Mode() = %q", s.Mode())
	}
	if s.Total() != 5 || s.Score() != 0 || len(s.WrongKeys()) != 0 {
		t.Fatalf("retry round total=%d score=%d wrong=%v", s.Total(), s.Score(), s.WrongKeys())
	}
	if s.RoundID() == firstRound {
		t.Fatal("retry round reused the round id")
	}
	if _, ok := s.LastFeedback(); ok {
		t.Fatal("feedback carried into retry round")
	}

	var drawn []string
	for !s.IsFinished() {
		codon, _ := s.Current()
		drawn = append(drawn, codon)
		if _, _, err := s.Submit(wrongAnswer); err != nil {
			t.Fatal(err)
		}
	}

	slices.Sort(drawn)
	if !slices.Equal(drawn, s.AnswerKey().Codons()) {
		t.Fatalf("retry drew %v", drawn)
	}
}

func TestRetryOnlyWrongCodons(t *testing.T) {
	s := newTestSession(t, 13)
	s.StartRound([]string{"AUG", "UUU", "GCU"})

	for !s.IsFinished() {
		codon, _ := s.Current()
		input := wrongAnswer
		if codon == "UUU" {
			input = "F"
		}
		if _, _, err := s.Submit(input); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.RetryWrongAnswers(); err != nil {
		t.Fatal(err)
	}
	if s.Total() != 2 {
		t.Fatalf("Total() = %d, want 2", s.Total())
	}
}

func TestRetryInvalidState(t *testing.T) {
	s := newTestSession(t, 17)

	if err := s.RetryWrongAnswers(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("retry during round: error = %v, want ErrInvalidState", err)
	}

	s.StartRound([]string{"UGG"})
	if _, _, err := s.Submit("w"); err != nil {
		t.Fatal(err)
	}
	if err := s.RetryWrongAnswers(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("retry with nothing wrong: error = %v, want ErrInvalidState", err)
	}
	if s.Mode() != ModeFullRound || !s.IsFinished() {
		t.Fatal("failed retry changed the session")
	}
}

func TestStartRoundEmpty(t *testing.T) {
	s := newTestSession(t, 19)
	s.StartRound(nil)

	if !s.IsFinished() {
		t.Fatal("empty round is not finished")
	}
	if s.ProgressFraction() != 1 {
		t.Fatalf("ProgressFraction() = %v, want 1", s.ProgressFraction())
	}
}

func TestResetRestoresFullRound(t *testing.T) {
	s := newTestSession(t, 23)
	s.StartRound([]string{"AUG"})
	if _, _, err := s.Submit("x"); err != nil {
		t.Fatal(err)
	}
	if err := s.RetryWrongAnswers(); err != nil {
		t.Fatal(err)
	}

	s.Reset()
	if s.Mode() != ModeFullRound || s.Total() != 5 || s.Score() != 0 {
		t.Fatalf("after Reset mode=%q total=%d score=%d", s.Mode(), s.Total(), s.Score())
	}
}

func TestSameSeedSameOrder(t *testing.T) {
	order := func() []string {
		s := newTestSession(t, 99)
		var out []string
		for !s.IsFinished() {
			codon, _ := s.Current()
			out = append(out, codon)
			if _, _, err := s.Submit(wrongAnswer); err != nil {
				t.Fatal(err)
			}
		}
		return out
	}

	if a, b := order(), order(); !slices.Equal(a, b) {
		t.Fatalf("seeded rounds differ: %v vs %v", a, b)
	}
}

func TestAttemptTimestampUsesClock(t *testing.T) {
	at := time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC)
	s := NewSession(mustKey(t), WithClock(func() time.Time { return at }))
	s.StartRound([]string{"AUG"})

	attempt, _, err := s.Submit("M")
	if err != nil {
		t.Fatal(err)
	}

	seoul := time.FixedZone("UTC+09:00", 9*3600)
	if got := attempt.Timestamp(seoul); got != "2024-03-01 09:30:00" {
		t.Fatalf("Timestamp() = %q", got)
	}
}
