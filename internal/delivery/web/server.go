// Package web exposes the quiz as a JSON API with cookie-backed sessions.
package web

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"golang.org/x/time/rate"

	"github.com/aliskhannn/codon-quiz-bot/internal/service"
)

// Route constants.
const (
	RouteHealth  = "/healthz"
	RouteState   = "/api/state"
	RouteNewGame = "/api/new-game"
	RouteAnswer  = "/api/answer"
	RouteRetry   = "/api/retry"
	RouteEnd     = "/api/end"
	RouteHardest = "/api/hardest"
)

const SessionCookieName = "codon_session"

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

// Options configure the HTTP shell.
type Options struct {
	Addr           string
	IsProduction   bool
	CookieMaxAge   time.Duration
	RateLimitRPS   int
	RateLimitBurst int
}

// Server is the HTTP shell around QuizService.
type Server struct {
	quizService  QuizService
	statsService StatsService
	logger       *zap.Logger
	opts         Options
	startTime    time.Time

	limiterMu  sync.Mutex
	limiterMap map[string]*clientLimiter
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewServer creates a new Server.
func NewServer(quizService QuizService, statsService StatsService, logger *zap.Logger, opts Options) *Server {
	return &Server{
		quizService:  quizService,
		statsService: statsService,
		logger:       logger,
		opts:         opts,
		startTime:    time.Now(),
		limiterMap:   make(map[string]*clientLimiter),
	}
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestIDMiddleware(), s.accessLogMiddleware())
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression))
	router.Use(cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	}))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		s.logger.Warn("failed to set trusted proxies", zap.Error(err))
	}

	router.GET(RouteHealth, s.healthHandler)
	router.GET(RouteState, s.stateHandler)
	router.GET(RouteHardest, s.hardestHandler)
	router.POST(RouteNewGame, s.rateLimitMiddleware(), s.newGameHandler)
	router.POST(RouteAnswer, s.rateLimitMiddleware(), s.answerHandler)
	router.POST(RouteRetry, s.rateLimitMiddleware(), s.retryHandler)
	router.POST(RouteEnd, s.rateLimitMiddleware(), s.endHandler)

	return router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", zap.String("addr", s.opts.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutdown signal received, shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	s.logger.Info("http server stopped")
	return nil
}
