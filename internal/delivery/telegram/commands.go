package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/codon-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/codon-quiz-bot/internal/service"
)

// handleStart greets the user and shows the current question,
// starting a full round when the chat has no session yet.
func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.send(newMessage(chatID, welcomeMessage())); err != nil {
			return err
		}

		view, err := h.quizService.Current(ctx, sessionKey(chatID))
		if err != nil {
			return err
		}

		return h.sendView(chatID, view)
	}
}

// handleRestart starts a new full round.
func (h *Handler) handleRestart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		view, err := h.quizService.Restart(ctx, sessionKey(chatID))
		if err != nil {
			return err
		}

		return h.sendView(chatID, view)
	}
}

// handleRetry starts a round over the codons missed in the finished round.
func (h *Handler) handleRetry() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		key := sessionKey(chatID)

		view, err := h.quizService.Retry(ctx, key)
		if errors.Is(err, entities.ErrInvalidState) {
			current, cerr := h.quizService.Current(ctx, key)
			if cerr != nil {
				return cerr
			}
			if !current.Finished {
				return h.send(newPlainMessage(chatID, msgRoundInProgress))
			}
			return h.send(newPlainMessage(chatID, msgNothingToRetry))
		}
		if err != nil {
			return err
		}

		return h.sendView(chatID, view)
	}
}

func (h *Handler) handleProgress() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		view, err := h.quizService.Current(ctx, sessionKey(chatID))
		if err != nil {
			return err
		}

		msg := newMessage(chatID, formatProgress(view))
		msg.ReplyMarkup = buildProgressKeyboard()
		return h.send(msg)
	}
}

func (h *Handler) handleHardest() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		codons, err := h.statsService.HardestCodons(ctx, hardestCodonsToShow)
		if err != nil {
			h.logger.Warn("failed to load hardest codons", zap.Error(err))
			return h.send(newPlainMessage(chatID, msgStatsUnavailable))
		}

		return h.send(newMessage(chatID, formatHardest(codons)))
	}
}

// handleStop discards the chat's session; the next message starts a new round.
func (h *Handler) handleStop() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.quizService.End(ctx, sessionKey(chatID))
		return h.send(newPlainMessage(chatID, msgStopped))
	}
}

// handleAnswer grades a plain-text message as an answer to the current codon.
func (h *Handler) handleAnswer(text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		key := sessionKey(chatID)

		res, err := h.quizService.Submit(ctx, key, text)
		if errors.Is(err, entities.ErrSessionFinished) {
			view, cerr := h.quizService.Current(ctx, key)
			if cerr != nil {
				return cerr
			}
			return h.sendView(chatID, view)
		}
		if err != nil {
			return err
		}

		if !res.Submitted {
			return nil
		}

		h.logger.Debug("answer graded",
			zap.Int64("chat_id", chatID),
			zap.String("codon", res.Codon),
			zap.Bool("correct", res.Correct),
		)

		return h.sendView(chatID, res.View)
	}
}

// sendView sends the rendered session, attaching the finish keyboard at the end of a round.
func (h *Handler) sendView(chatID int64, view service.SessionView) error {
	msg := newMessage(chatID, formatView(view))
	if view.Finished {
		msg.ReplyMarkup = buildFinishKeyboard(view)
	}
	return h.send(msg)
}
