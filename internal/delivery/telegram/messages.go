// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/codon-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/codon-quiz-bot/internal/service"
)

// Error messages.
const (
	msgInternalError    = "문제가 발생했습니다. 잠시 후 다시 시도해 주세요."
	msgTooFast          = "입력이 너무 빠릅니다. 잠시 후 다시 시도해 주세요."
	msgRoundInProgress  = "아직 퀴즈가 진행 중입니다. 끝까지 풀고 나서 오답 복습을 시작할 수 있어요."
	msgNothingToRetry   = "틀린 문제가 없습니다. /quiz 로 처음부터 다시 시작하세요."
	msgStatsUnavailable = "통계를 불러올 수 없습니다. 로그 저장소가 설정되지 않았을 수 있어요."
	msgNoStats          = "아직 기록된 오답이 없습니다."
	msgStopped          = "퀴즈를 종료했습니다. /start 로 새로 시작할 수 있어요."
	msgUnknownCommand   = "알 수 없는 명령어입니다. /help 로 사용법을 확인하세요."
	progressBarLength   = 20
	hardestCodonsToShow = 10
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

func welcomeMessage() string {
	var sb strings.Builder

	sb.WriteString(bold("🧬 코돈 암기 퀴즈"))
	sb.WriteString("\n\n")
	sb.WriteString(md("RNA 코돈을 보고 아미노산 이름이나 한 글자 약어를 입력하세요."))
	sb.WriteString("\n")
	sb.WriteString(md("예: 트레오닌, T, *"))
	sb.WriteString("\n\n")
	sb.WriteString(md("64개 코돈을 모두 풀고 나면 틀린 문제만 다시 풀 수 있습니다."))

	return sb.String()
}

func helpMessage() string {
	lines := []string{
		bold("사용법"),
		"",
		md("• 코돈이 나오면 정답을 메시지로 보내세요."),
		md("• 약어(M, L, *)와 STOP은 대소문자를 구분하지 않습니다."),
		md("• /quiz — 처음부터 다시 하기"),
		md("• /retry — 틀린 문제만 다시 풀기"),
		md("• /progress — 진행 상황 보기"),
		md("• /hardest — 가장 많이 틀린 코돈"),
		md("• /stop — 퀴즈 그만하기"),
	}
	return strings.Join(lines, "\n")
}

// formatMode returns the title label for a round mode.
func formatMode(mode entities.Mode) string {
	switch mode {
	case entities.ModeRetryRound:
		return "🔥 오답 복습 모드"
	default:
		return "전체 모드"
	}
}

func buildProgressBar(current, total, length int) string {
	if total == 0 {
		return fmt.Sprintf("[%s]", strings.Repeat("░", length))
	}

	filled := int(float64(current) / float64(total) * float64(length))
	if filled > length {
		filled = length
	}

	empty := length - filled
	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}

// formatFeedback renders the result of the previous answer.
func formatFeedback(fb *entities.Feedback) string {
	if fb == nil {
		return ""
	}
	if fb.IsCorrect {
		return md(fmt.Sprintf("✅ 정답! (%s)", fb.Message))
	}
	return md("❌ 땡! (정답: ") + bold(fb.Message) + md(")")
}

// formatQuestion renders the current codon with the round progress.
func formatQuestion(view service.SessionView) string {
	answered := view.Total - view.Remaining

	return fmt.Sprintf(
		"%s\n\n%s\n%s\n\n%s\n%s",
		bold(fmt.Sprintf("🧬 코돈 암기 퀴즈 (%s)", formatMode(view.Mode))),
		md(buildProgressBar(answered, view.Total, progressBarLength)),
		md(fmt.Sprintf("남은 문제: %d개 / 총 %d개", view.Remaining, view.Total)),
		md("이 코돈의 아미노산은?"),
		bold(view.Codon),
	)
}

// formatFinish renders the end-of-round screen.
func formatFinish(view service.SessionView) string {
	var sb strings.Builder

	sb.WriteString(bold("🎉 테스트 종료!"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("최종 점수: %d / %d", view.Score, view.Total)))
	sb.WriteString("\n\n")

	if view.WrongCount > 0 {
		sb.WriteString(md(fmt.Sprintf("틀린 문제가 %d개 있습니다.", view.WrongCount)))
	} else {
		sb.WriteString(md("완벽합니다! 💯"))
	}

	return sb.String()
}

// formatView renders feedback for the last answer followed by either the
// next question or the finish screen.
func formatView(view service.SessionView) string {
	body := formatQuestion(view)
	if view.Finished {
		body = formatFinish(view)
	}

	if fb := formatFeedback(view.Feedback); fb != "" {
		return fb + "\n\n" + body
	}
	return body
}

// formatProgress renders the /progress screen.
func formatProgress(view service.SessionView) string {
	answered := view.Total - view.Remaining

	return fmt.Sprintf(
		"%s\n\n%s\n%s\n%s\n%s",
		bold("📊 진행 상황"),
		md(buildProgressBar(answered, view.Total, progressBarLength)),
		md(fmt.Sprintf("🎲 모드: %s", formatMode(view.Mode))),
		md(fmt.Sprintf("✅ 맞힌 문제: %d / %d (%.0f%%)", view.Score, view.Total, scorePercent(view))),
		md(fmt.Sprintf("❌ 틀린 문제: %d", view.WrongCount)),
	)
}

// scorePercent is the share of the round answered correctly.
func scorePercent(view service.SessionView) float64 {
	if view.Total == 0 {
		return 0
	}
	return float64(view.Score) / float64(view.Total) * 100
}

// formatHardest renders the most frequently missed codons.
func formatHardest(codons []service.HardCodon) string {
	if len(codons) == 0 {
		return md(msgNoStats)
	}

	var sb strings.Builder
	sb.WriteString(bold("🧠 가장 많이 틀린 코돈"))
	sb.WriteString("\n\n")

	for i, c := range codons {
		sb.WriteString(md(fmt.Sprintf("%d. ", i+1)))
		sb.WriteString(bold(c.Codon))
		sb.WriteString(md(fmt.Sprintf(" — %s (%d회)", c.Answer, c.Misses)))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}
