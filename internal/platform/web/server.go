// Package web exposes snake sessions over an HTTP JSON API built on Gin.
// Each game runs in a session.Session; clients post keys and poll the board
// as JSON or as a PNG image.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/platform/boardimg"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

const (
	defaultScoreLimit = 10
	maxScoreLimit     = 100
	shutdownTimeout   = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr   string
	Hub    *session.Hub
	Store  *storage.Store // May be nil; /api/scores then answers 503
	Logger *log.Logger
}

// Server is the HTTP front end for a session hub.
type Server struct {
	opts   Options
	logger *log.Logger
	router *gin.Engine
}

// New creates a server and registers its routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		opts:   opts,
		logger: logger,
		router: gin.New(),
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.POST("/games", s.handleCreate)
	api.GET("/games/:id", s.handleBoard)
	api.POST("/games/:id/keys", s.handleKey)
	api.GET("/games/:id/board.png", s.handleBoardPNG)
	api.DELETE("/games/:id", s.handleDelete)
	api.GET("/scores", s.handleScores)
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", "address", s.opts.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return nil
}

// requestLogger logs each request through the shared logger.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// keyRequest is the body of POST /api/games/:id/keys.
type keyRequest struct {
	Key string `json:"key" binding:"required"`
}

// inputResponse mirrors snake.InputResult for JSON clients.
type inputResponse struct {
	Consumed     bool `json:"consumed"`
	Restarted    bool `json:"restarted"`
	PauseChanged bool `json:"pause_changed"`
	Turned       bool `json:"turned"`
}

type keyResponse struct {
	Result inputResponse `json:"result"`
	Board  snake.Board   `json:"board"`
}

type createResponse struct {
	ID    string      `json:"id"`
	Board snake.Board `json:"board"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.opts.Hub.Len()})
}

func (s *Server) handleCreate(c *gin.Context) {
	id, sess, err := s.opts.Hub.Create(c.Request.Context())
	if errors.Is(err, session.ErrClosed) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "server shutting down"})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	board, err := sess.Board(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, createResponse{ID: id, Board: board})
}

func (s *Server) handleBoard(c *gin.Context) {
	sess, err := s.opts.Hub.Get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	board, err := sess.Board(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (s *Server) handleKey(c *gin.Context) {
	var req keyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"key\": \"<KeyboardEvent.key>\"}"})
		return
	}

	sess, err := s.opts.Hub.Get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	res, board, err := sess.Send(c.Request.Context(), core.ParseKeyName(req.Key))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, keyResponse{
		Result: inputResponse{
			Consumed:     res.Consumed,
			Restarted:    res.Restarted,
			PauseChanged: res.PauseChanged,
			Turned:       res.Turned,
		},
		Board: board,
	})
}

func (s *Server) handleBoardPNG(c *gin.Context) {
	scale, err := strconv.Atoi(c.DefaultQuery("scale", "1"))
	if err != nil || scale < 1 || scale > boardimg.MaxScale {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("scale must be 1..%d", boardimg.MaxScale)})
		return
	}

	sess, err := s.opts.Hub.Get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	board, err := sess.Board(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := boardimg.Encode(&buf, board, scale); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) handleDelete(c *gin.Context) {
	if err := s.opts.Hub.Remove(c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleScores(c *gin.Context) {
	if s.opts.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "score storage disabled"})
		return
	}

	limit := defaultScoreLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxScoreLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("limit must be 1..%d", maxScoreLimit)})
			return
		}
		limit = n
	}

	source := c.Query("source")
	switch source {
	case "", storage.SourceLocal, storage.SourceSSH, storage.SourceWeb:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "source must be local, ssh or web"})
		return
	}

	scores, err := s.opts.Store.TopScores(source, limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	if scores == nil {
		scores = []storage.ScoreEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"scores": scores})
}

// fail maps an error to a status code and a JSON body.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
	case errors.Is(err, session.ErrClosed):
		c.JSON(http.StatusGone, gin.H{"error": "game closed"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request cancelled"})
	default:
		s.logger.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// ScoreRecorder returns a hub OnGameOver callback that saves finished web
// games. Games without points are not recorded.
func ScoreRecorder(store *storage.Store, logger *log.Logger) func(id string, r session.Result) {
	if logger == nil {
		logger = log.Default()
	}
	return func(id string, r session.Result) {
		if store == nil || r.Score <= 0 {
			return
		}
		_, err := store.SaveScore(storage.ScoreEntry{
			Source: storage.SourceWeb,
			Player: shortID(id),
			Score:  r.Score,
			Length: r.Length,
		})
		if err != nil {
			logger.Warn("Could not save score", "session", id, "error", err)
			return
		}
		logger.Info("Score saved", "session", id, "score", r.Score)
	}
}

// shortID keeps the first block of a UUID as a display name.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
