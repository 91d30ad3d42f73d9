package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/platform/web"
	"github.com/vovakirdan/tui-snake/internal/session"
)

var (
	flagWebAddr        string
	flagWebIdleTimeout time.Duration
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the snake HTTP API server",
	Long: `Start an HTTP server that runs snake games for API clients.

Routes:
  GET    /healthz
  POST   /api/games                      create a game, returns its id
  GET    /api/games/:id                  board as JSON
  POST   /api/games/:id/keys             {"key": "ArrowUp"}
  GET    /api/games/:id/board.png?scale  board as PNG
  DELETE /api/games/:id                  end a game
  GET    /api/scores?limit&source        high scores

Games nobody talks to for --idle-timeout are closed.

Examples:
  snake web
  snake web --addr :9000 --idle-timeout 5m
  snake web --config ./snake.yaml --difficulty hard`,
	Args: cobra.NoArgs,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address (host:port)")
	webCmd.Flags().DurationVar(&flagWebIdleTimeout, "idle-timeout", 10*time.Minute, "Close games idle for this long (0 = never)")
}

func runWeb(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger("snake-web", os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, preset, err := loadConfig()
	if err != nil {
		return err
	}
	settings, err := cfg.SettingsFor(preset)
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	if flagLogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	hub := session.NewHub(session.HubOptions{
		Settings:    settings,
		Seed:        flagSeed,
		IdleTimeout: flagWebIdleTimeout,
		BestScore: func() int {
			if store == nil {
				return 0
			}
			best, _ := store.HighScore("")
			return best
		},
		OnGameOver: web.ScoreRecorder(store, logger),
		Logger:     logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Reloaded configs apply to games created afterwards
	err = watchConfig(ctx, logger, func(c config.SnakeConfig) {
		s, err := c.SettingsFor(preset)
		if err != nil {
			logger.Warn("Ignoring reloaded config", "error", err)
			return
		}
		hub.SetSettings(s)
	})
	if err != nil {
		return err
	}

	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(ctx)
	}()

	server := web.New(web.Options{
		Addr:   flagWebAddr,
		Hub:    hub,
		Store:  store,
		Logger: logger,
	})
	err = server.ListenAndServe(ctx)

	// Stop the reaper and close every session before the store goes away
	stop()
	<-hubDone
	return err
}
