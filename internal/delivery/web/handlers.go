package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aliskhannn/codon-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/codon-quiz-bot/internal/service"
)

// Error message constants.
const (
	ErrorRoundFinished  = "round is finished"
	ErrorCannotRetry    = "nothing to retry"
	ErrorRoundRunning   = "round still in progress"
	ErrorInvalidRequest = "invalid request body"
	ErrorInternal       = "internal error"
	ErrorStatsDisabled  = "stats unavailable"
)

type feedbackResponse struct {
	Correct bool   `json:"correct"`
	Message string `json:"message"`
}

type stateResponse struct {
	Mode       string            `json:"mode"`
	Codon      string            `json:"codon,omitempty"`
	Score      int               `json:"score"`
	Total      int               `json:"total"`
	Remaining  int               `json:"remaining"`
	WrongCount int               `json:"wrongCount"`
	Progress   float64           `json:"progress"`
	Finished   bool              `json:"finished"`
	CanRetry   bool              `json:"canRetry"`
	Feedback   *feedbackResponse `json:"feedback,omitempty"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type answerResponse struct {
	stateResponse
	Submitted bool `json:"submitted"`
	Correct   bool `json:"correct"`
}

type hardCodonResponse struct {
	Codon  string `json:"codon"`
	Answer string `json:"answer"`
	Misses int    `json:"misses"`
}

func toStateResponse(view service.SessionView) stateResponse {
	resp := stateResponse{
		Mode:       string(view.Mode),
		Codon:      view.Codon,
		Score:      view.Score,
		Total:      view.Total,
		Remaining:  view.Remaining,
		WrongCount: view.WrongCount,
		Progress:   view.Progress,
		Finished:   view.Finished,
		CanRetry:   view.CanRetry,
	}
	if view.Feedback != nil {
		resp.Feedback = &feedbackResponse{
			Correct: view.Feedback.IsCorrect,
			Message: view.Feedback.Message,
		}
	}
	return resp
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"uptime":    time.Since(s.startTime).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) stateHandler(c *gin.Context) {
	key := s.getOrCreateSession(c)

	view, err := s.quizService.Current(c.Request.Context(), key)
	if err != nil {
		s.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, toStateResponse(view))
}

func (s *Server) newGameHandler(c *gin.Context) {
	key := s.getOrCreateSession(c)

	view, err := s.quizService.Restart(c.Request.Context(), key)
	if err != nil {
		s.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, toStateResponse(view))
}

func (s *Server) answerHandler(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorInvalidRequest})
		return
	}

	key := s.getOrCreateSession(c)

	res, err := s.quizService.Submit(c.Request.Context(), key, req.Answer)
	if errors.Is(err, entities.ErrSessionFinished) {
		c.JSON(http.StatusConflict, gin.H{"error": ErrorRoundFinished})
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, answerResponse{
		stateResponse: toStateResponse(res.View),
		Submitted:     res.Submitted,
		Correct:       res.Correct,
	})
}

func (s *Server) retryHandler(c *gin.Context) {
	key := s.getOrCreateSession(c)
	ctx := c.Request.Context()

	view, err := s.quizService.Retry(ctx, key)
	if errors.Is(err, entities.ErrInvalidState) {
		msg := ErrorCannotRetry
		if current, cerr := s.quizService.Current(ctx, key); cerr == nil && !current.Finished {
			msg = ErrorRoundRunning
		}
		c.JSON(http.StatusConflict, gin.H{"error": msg})
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, toStateResponse(view))
}

func (s *Server) endHandler(c *gin.Context) {
	s.endSession(c)
	c.JSON(http.StatusOK, gin.H{"ended": true})
}

func (s *Server) hardestHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	codons, err := s.statsService.HardestCodons(c.Request.Context(), limit)
	if err != nil {
		s.logger.Warn("failed to load hardest codons", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ErrorStatsDisabled})
		return
	}

	out := make([]hardCodonResponse, 0, len(codons))
	for _, hc := range codons {
		out = append(out, hardCodonResponse{Codon: hc.Codon, Answer: hc.Answer, Misses: hc.Misses})
	}

	c.JSON(http.StatusOK, gin.H{"codons": out})
}

func (s *Server) internalError(c *gin.Context, err error) {
	reqID, _ := c.Request.Context().Value(requestIDKey).(string)
	s.logger.Error("request failed",
		zap.String("request_id", reqID),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": ErrorInternal})
}
