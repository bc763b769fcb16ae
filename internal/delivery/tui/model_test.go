package tui

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/aliskhannn/codon-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/codon-quiz-bot/internal/service"
	"github.com/aliskhannn/codon-quiz-bot/internal/storage"
)

type nopSink struct{}

func (nopSink) Append(context.Context, entities.Attempt) error { return nil }

func newModel(t *testing.T) (Model, *entities.AnswerKey) {
	t.Helper()

	key, err := entities.NewAnswerKey(map[string][]string{
		"AUG": {"메싸이오닌", "M"},
		"UUU": {"페닐알라닌", "F"},
	})
	if err != nil {
		t.Fatal(err)
	}
	quiz := service.NewQuizService(key, storage.NewSessionStorage(), nopSink{}, zap.NewNop()).
		WithRandSource(func() *rand.Rand { return rand.New(rand.NewSource(1)) })

	m, err := New(context.Background(), quiz)
	if err != nil {
		t.Fatal(err)
	}
	return m, key
}

func typeAndSubmit(m Model, text string) Model {
	var next tea.Model = m
	if text != "" {
		next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	}
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model)
}

func press(m Model, key string) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return next.(Model), cmd
}

func TestModelPlaysRound(t *testing.T) {
	m, key := newModel(t)

	if !strings.Contains(m.View(), m.view.Codon) {
		t.Fatal("view does not show the codon")
	}

	first := m.view.Codon
	m = typeAndSubmit(m, key.CanonicalName(first))
	if m.view.Score != 1 || m.input.Value() != "" {
		t.Fatalf("after correct answer: score=%d input=%q", m.view.Score, m.input.Value())
	}
	if !strings.Contains(m.View(), "정답!") {
		t.Fatal("correct feedback not rendered")
	}

	m = typeAndSubmit(m, "틀림")
	if !m.view.Finished || !m.view.CanRetry {
		t.Fatalf("round not finished: %+v", m.view)
	}
	view := m.View()
	if !strings.Contains(view, "테스트 종료") || !strings.Contains(view, "틀린 문제가 1개") {
		t.Fatalf("finish screen = %q", view)
	}

	m, _ = press(m, "r")
	if m.view.Mode != entities.ModeRetryRound || m.view.Total != 1 {
		t.Fatalf("retry not started: %+v", m.view)
	}
}

func TestModelBlankEnterIgnored(t *testing.T) {
	m, _ := newModel(t)
	before := m.view

	m = typeAndSubmit(m, "")
	if m.view.Remaining != before.Remaining || m.view.Feedback != nil {
		t.Fatal("blank enter changed the session")
	}
}

func TestModelRestartAndQuit(t *testing.T) {
	m, key := newModel(t)

	m = typeAndSubmit(m, "x")
	m = typeAndSubmit(m, key.CanonicalName(m.view.Codon))

	m, _ = press(m, "n")
	if m.view.Finished || m.view.Total != 2 || m.view.Score != 0 {
		t.Fatalf("restart view = %+v", m.view)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc did not quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("esc returned a non-quit command")
	}
}

func TestRenderBar(t *testing.T) {
	if got := renderBar(2); got != renderBar(1) {
		t.Fatal("bar not clamped")
	}
	if got := renderBar(-1); got != renderBar(0) {
		t.Fatal("negative progress not clamped")
	}
}
