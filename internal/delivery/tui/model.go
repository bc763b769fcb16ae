// Package tui is the terminal front end of the codon quiz.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aliskhannn/codon-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/codon-quiz-bot/internal/service"
)

// SessionKey is the storage key of the single terminal session.
const SessionKey = "cli"

const barWidth = 40

type QuizService interface {
	Current(ctx context.Context, key string) (service.SessionView, error)
	Restart(ctx context.Context, key string) (service.SessionView, error)
	Retry(ctx context.Context, key string) (service.SessionView, error)
	Submit(ctx context.Context, key, raw string) (service.SubmitResult, error)
}

var (
	styleTitle     = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCodon     = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	styleCorrect   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleIncorrect = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleSubtle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
	styleBarFull   = lipgloss.NewStyle().Background(lipgloss.Color("10")).SetString(" ")
	styleBarEmpty  = lipgloss.NewStyle().Background(lipgloss.Color("8")).SetString(" ")
)

// Model is the bubbletea model driving one terminal session.
type Model struct {
	ctx   context.Context
	quiz  QuizService
	input textinput.Model
	view  service.SessionView
	err   error
}

// New loads (or starts) the terminal session and returns a ready model.
func New(ctx context.Context, quiz QuizService) (Model, error) {
	view, err := quiz.Current(ctx, SessionKey)
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.Placeholder = "아미노산 이름 또는 약자"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	return Model{ctx: ctx, quiz: quiz, input: ti, view: view}, nil
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	}

	if m.view.Finished {
		return m.updateFinished(key)
	}
	return m.updatePlaying(key)
}

func (m Model) updatePlaying(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type != tea.KeyEnter {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(key)
		return m, cmd
	}

	res, err := m.quiz.Submit(m.ctx, SessionKey, m.input.Value())
	switch {
	case errors.Is(err, entities.ErrSessionFinished):
		m.err = nil
		return m.refresh()
	case err != nil:
		m.err = err
		return m, nil
	}

	m.err = nil
	if res.Submitted {
		m.view = res.View
		m.input.Reset()
	}
	return m, nil
}

func (m Model) updateFinished(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		view service.SessionView
		err  error
	)

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "r":
		if !m.view.CanRetry {
			return m, nil
		}
		view, err = m.quiz.Retry(m.ctx, SessionKey)
	case "n":
		view, err = m.quiz.Restart(m.ctx, SessionKey)
	default:
		return m, nil
	}

	if err != nil {
		m.err = err
		return m, nil
	}

	m.err = nil
	m.view = view
	m.input.Reset()
	return m, textinput.Blink
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	view, err := m.quiz.Current(m.ctx, SessionKey)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.view = view
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	title := "🧬 코돈 → 아미노산 퀴즈"
	if m.view.Mode == entities.ModeRetryRound {
		title += " (오답 복습)"
	}
	b.WriteString(styleTitle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(renderBar(m.view.Progress))
	fmt.Fprintf(&b, " %d/%d\n\n", m.view.Total-m.view.Remaining, m.view.Total)

	if fb := m.view.Feedback; fb != nil {
		if fb.IsCorrect {
			b.WriteString(styleCorrect.Render("정답! " + fb.Message))
		} else {
			b.WriteString(styleIncorrect.Render("땡! 정답: " + fb.Message))
		}
		b.WriteString("\n\n")
	}

	if m.view.Finished {
		b.WriteString(m.viewFinished())
	} else {
		fmt.Fprintf(&b, "문제: %s\n\n", styleCodon.Render(m.view.Codon))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(styleSubtle.Render("enter 제출 · esc 종료"))
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styleError.Render(m.err.Error()))
	}

	b.WriteString("\n")
	return b.String()
}

func (m Model) viewFinished() string {
	var b strings.Builder

	b.WriteString("🎉 테스트 종료!\n")
	fmt.Fprintf(&b, "최종 점수: %d / %d\n", m.view.Score, m.view.Total)

	if m.view.CanRetry {
		fmt.Fprintf(&b, "틀린 문제가 %d개 있습니다.\n\n", m.view.WrongCount)
		b.WriteString(styleSubtle.Render("r 오답 복습 · n 처음부터 · q 종료"))
	} else {
		b.WriteString("완벽합니다! 💯\n\n")
		b.WriteString(styleSubtle.Render("n 처음부터 · q 종료"))
	}

	return b.String()
}

func renderBar(progress float64) string {
	filled := int(progress * barWidth)
	filled = min(max(filled, 0), barWidth)

	return strings.Repeat(styleBarFull.String(), filled) +
		strings.Repeat(styleBarEmpty.String(), barWidth-filled)
}
