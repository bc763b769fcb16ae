package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/codon-quiz-bot/internal/service"
)

// buildFinishKeyboard builds keyboard for the end-of-round screen.
// Retry is offered only when something was missed.
func buildFinishKeyboard(view service.SessionView) tgbotapi.InlineKeyboardMarkup {
	if view.CanRetry {
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🔥 틀린 문제만 다시 풀기", buildQuizRetryCallback()),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("처음부터 다시 하기", buildQuizRestartCallback()),
			),
		)
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("처음부터 다시 하기", buildQuizRestartCallback()),
		),
	)
}

// buildProgressKeyboard builds keyboard for progress screen.
func buildProgressKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 새로고침", buildProgressCallback()),
		),
	)
}
