package telegram

import (
	"context"

	"github.com/aliskhannn/codon-quiz-bot/internal/service"
)

type QuizService interface {
	Current(ctx context.Context, key string) (service.SessionView, error)
	Restart(ctx context.Context, key string) (service.SessionView, error)
	Retry(ctx context.Context, key string) (service.SessionView, error)
	Submit(ctx context.Context, key, raw string) (service.SubmitResult, error)
	End(ctx context.Context, key string)
}

type StatsService interface {
	HardestCodons(ctx context.Context, limit int) ([]service.HardCodon, error)
}
