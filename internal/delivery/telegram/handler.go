package telegram

import (
	"context"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot          *tgbotapi.BotAPI
	logger       *zap.Logger
	quizService  QuizService
	statsService StatsService
	limiter      *userLimiter
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	quizService QuizService,
	statsService StatsService,
	rps, burst int,
) *Handler {
	return &Handler{
		bot:          bot,
		logger:       logger,
		quizService:  quizService,
		statsService: statsService,
		limiter:      newUserLimiter(rps, burst),
	}
}

// Commands lists the bot commands shown in the Telegram menu.
func Commands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "퀴즈 시작"},
		{Command: "quiz", Description: "처음부터 다시 하기"},
		{Command: "retry", Description: "틀린 문제만 다시 풀기"},
		{Command: "progress", Description: "진행 상황 보기"},
		{Command: "hardest", Description: "가장 많이 틀린 코돈"},
		{Command: "stop", Description: "퀴즈 그만하기"},
		{Command: "help", Description: "도움말"},
	}
}

// Run polls updates until ctx is cancelled. Updates are handled one at a
// time, so submissions within a chat never overlap.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	chatID := update.Message.Chat.ID
	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.String("text", update.Message.Text),
	)

	if !h.limiter.allow(chatID) {
		h.logger.Debug("rate limited", zap.Int64("chat_id", chatID))
		_ = h.send(newPlainMessage(chatID, msgTooFast))
		return
	}

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start":
			_ = h.withErrorHandling(h.handleStart())(ctx, chatID)
		case "quiz":
			_ = h.withErrorHandling(h.handleRestart())(ctx, chatID)
		case "retry":
			_ = h.withErrorHandling(h.handleRetry())(ctx, chatID)
		case "progress":
			_ = h.withErrorHandling(h.handleProgress())(ctx, chatID)
		case "hardest":
			_ = h.withErrorHandling(h.handleHardest())(ctx, chatID)
		case "stop":
			_ = h.withErrorHandling(h.handleStop())(ctx, chatID)
		case "help":
			_ = h.send(newMessage(chatID, helpMessage()))
		default:
			_ = h.send(newMessage(chatID, md(msgUnknownCommand)))
		}
		return
	}

	_ = h.withErrorHandling(h.handleAnswer(update.Message.Text))(ctx, chatID)
}

// Sweep drops the rate limiters of chats idle for longer than idle.
func (h *Handler) Sweep(idle time.Duration) int {
	return h.limiter.sweep(idle)
}

// sessionKey maps a chat to its quiz session.
func sessionKey(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

func (h *Handler) sendError(chatID int64, text string) {
	_ = h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}
