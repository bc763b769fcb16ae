package telegram

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := fn(ctx, chatID); err != nil {
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
			return nil
		}
		return nil
	}
}

type chatLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// userLimiter keeps one token bucket per chat.
type userLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*chatLimiter
	rps      int
	burst    int
	now      func() time.Time
}

func newUserLimiter(rps, burst int) *userLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &userLimiter{
		limiters: make(map[int64]*chatLimiter),
		rps:      rps,
		burst:    burst,
		now:      time.Now,
	}
}

func (l *userLimiter) allow(chatID int64) bool {
	l.mu.Lock()
	cl, ok := l.limiters[chatID]
	if !ok {
		cl = &chatLimiter{limiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(l.rps)), l.burst)}
		l.limiters[chatID] = cl
	}
	cl.lastSeen = l.now()
	l.mu.Unlock()

	return cl.limiter.Allow()
}

// sweep forgets chats not seen within idle and returns how many were dropped.
func (l *userLimiter) sweep(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	dropped := 0
	for chatID, cl := range l.limiters {
		if cl.lastSeen.Before(cutoff) {
			delete(l.limiters, chatID)
			dropped++
		}
	}
	return dropped
}
