package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// getLimiter returns a rate limiter for the given key (usually client IP).
func (s *Server) getLimiter(key string) *rate.Limiter {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()

	if cl, ok := s.limiterMap[key]; ok {
		cl.lastSeen = time.Now()
		return cl.limiter
	}

	rps := s.opts.RateLimitRPS
	if rps <= 0 {
		rps = 1
	}
	burst := s.opts.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	lim := rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), burst)
	s.limiterMap[key] = &clientLimiter{limiter: lim, lastSeen: time.Now()}
	return lim
}

// Sweep drops the limiters of clients idle for longer than idle.
func (s *Server) Sweep(idle time.Duration) int {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()

	cutoff := time.Now().Add(-idle)
	dropped := 0
	for key, cl := range s.limiterMap {
		if cl.lastSeen.Before(cutoff) {
			delete(s.limiterMap, key)
			dropped++
		}
	}
	return dropped
}

// rateLimitMiddleware enforces per-client rate limiting.
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.getLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, please slow down"})
			return
		}
		c.Next()
	}
}

// requestIDMiddleware injects a request ID into the context for each request.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.Request.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx := context.WithValue(c.Request.Context(), requestIDKey, reqID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-Id", reqID)
		c.Next()
	}
}

func (s *Server) accessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		reqID, _ := c.Request.Context().Value(requestIDKey).(string)
		s.logger.Debug("http request",
			zap.String("request_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (s *Server) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || uuid.Validate(sessionID) != nil {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(SessionCookieName, sessionID, int(s.opts.CookieMaxAge.Seconds()), "/", "", s.opts.IsProduction, true)
		s.logger.Debug("created new web session", zap.String("session", sessionID))
	}
	return webSessionKey(sessionID)
}

// endSession drops the cookie's session, if any, and expires the cookie.
func (s *Server) endSession(c *gin.Context) {
	if sessionID, err := c.Cookie(SessionCookieName); err == nil && uuid.Validate(sessionID) == nil {
		s.quizService.End(c.Request.Context(), webSessionKey(sessionID))
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", s.opts.IsProduction, true)
}

func webSessionKey(sessionID string) string {
	return "web:" + sessionID
}
