package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/codon-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/codon-quiz-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}

	data := decodeCallback(cb.Data)

	// Remove the user's "clock".
	defer func() {
		if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			h.logger.Warn("callback answer error", zap.Error(err))
		}
	}()

	switch data.Action {
	case actionQuiz:
		h.handleQuizCallback(ctx, cb, data)
	case actionProgress:
		h.handleProgressCallback(ctx, cb)
	default:
		h.logger.Debug("unknown callback", zap.String("data", data.Raw))
	}
}

func (h *Handler) handleQuizCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) {
	chatID := cb.Message.Chat.ID
	key := sessionKey(chatID)

	var (
		view service.SessionView
		err  error
	)

	switch data.param(0) {
	case quizRetry:
		view, err = h.quizService.Retry(ctx, key)
		if errors.Is(err, entities.ErrInvalidState) {
			_ = h.send(newPlainMessage(chatID, msgNothingToRetry))
			return
		}
	case quizRestart:
		view, err = h.quizService.Restart(ctx, key)
	default:
		h.logger.Debug("unknown quiz callback", zap.String("data", data.Raw))
		return
	}

	if err != nil {
		h.logger.Error("quiz callback failed",
			zap.Int64("chat_id", chatID),
			zap.String("data", data.Raw),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
		return
	}

	// Drop the keyboard from the finish screen so it cannot be pressed twice.
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, cb.Message.MessageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	_ = h.send(edit)

	_ = h.sendView(chatID, view)
}

func (h *Handler) handleProgressCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	view, err := h.quizService.Current(ctx, sessionKey(chatID))
	if err != nil {
		h.logger.Error("progress callback failed", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID, formatProgress(view), buildProgressKeyboard())
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	_ = h.send(edit)
}
