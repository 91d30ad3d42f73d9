// Package session runs snake games on their own goroutines for hosts that
// have no event loop of their own, such as the HTTP API.
//
// Each Session owns one game. A ticker drives the game at its current
// interval; keys and board requests are serialized through channels so the
// game is only ever touched by the session goroutine.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

var (
	// ErrClosed is returned by operations on a session that has stopped.
	ErrClosed = errors.New("session: closed")

	// ErrNotFound is returned by the hub for unknown session IDs.
	ErrNotFound = errors.New("session: not found")
)

// Result describes a finished game.
type Result struct {
	Score  int
	Length int
	Best   int
}

// Options configures a session.
type Options struct {
	Settings snake.Settings
	Seed     int64 // 0 = seeded from the clock
	Best     int   // Best score carried into the HUD

	// OnGameOver is called from the session goroutine each time the snake
	// crashes. It must not call back into the session.
	OnGameOver func(Result)

	Logger *log.Logger
}

type keyRequest struct {
	key   core.Key
	reply chan keyReply
}

type keyReply struct {
	result snake.InputResult
	board  snake.Board
}

// Session is a running game.
type Session struct {
	keys   chan keyRequest
	boards chan chan snake.Board

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once

	lastActive atomic.Int64  // Unix nanoseconds
	period     atomic.Int64  // Current timer period, 0 while stopped
	ticks      atomic.Uint64 // Timer fires handled
}

// Start creates a game and runs it until ctx is cancelled or Close is called.
func Start(ctx context.Context, opts Options) *Session {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	game := snake.New(opts.Settings, seed)
	game.SetBest(opts.Best)

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		keys:   make(chan keyRequest),
		boards: make(chan chan snake.Board),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.touch()

	go s.run(ctx, game, opts.OnGameOver, logger)
	return s
}

func (s *Session) run(ctx context.Context, game *snake.Game, onGameOver func(Result), logger *log.Logger) {
	defer close(s.done)

	ticker := time.NewTicker(game.Interval())
	defer ticker.Stop()
	s.period.Store(int64(game.Interval()))

	// A paused or ended game has no timer running.
	stop := func() {
		ticker.Stop()
		s.period.Store(0)
	}
	restart := func() {
		ticker.Reset(game.Interval())
		s.period.Store(int64(game.Interval()))
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			s.ticks.Add(1)
			res := game.Step()
			if res.SpeedChanged {
				restart()
				logger.Debug("Speed changed", "score", game.Score(), "interval", game.Interval())
			}
			if res.Collided {
				stop()
				logger.Debug("Game over", "state", game.DebugState())
				if onGameOver != nil {
					onGameOver(Result{Score: game.Score(), Length: game.Length(), Best: game.Best()})
				}
			}

		case req := <-s.keys:
			res := game.HandleKey(req.key)
			switch {
			case res.Restarted, res.PauseChanged && !game.Paused():
				// A new game or a resume starts a full interval from now.
				restart()
			case res.PauseChanged:
				stop()
			}
			req.reply <- keyReply{result: res, board: game.Board()}

		case reply := <-s.boards:
			reply <- game.Board()
		}
	}
}

// Send delivers a key to the game and returns the reaction and the
// resulting board.
func (s *Session) Send(ctx context.Context, key core.Key) (snake.InputResult, snake.Board, error) {
	req := keyRequest{key: key, reply: make(chan keyReply, 1)}
	select {
	case s.keys <- req:
	case <-s.done:
		return snake.InputResult{}, snake.Board{}, ErrClosed
	case <-ctx.Done():
		return snake.InputResult{}, snake.Board{}, ctx.Err()
	}
	s.touch()

	// The session goroutine always replies once it has taken the request.
	rep := <-req.reply
	return rep.result, rep.board, nil
}

// Board returns the current board.
func (s *Session) Board(ctx context.Context) (snake.Board, error) {
	reply := make(chan snake.Board, 1)
	select {
	case s.boards <- reply:
	case <-s.done:
		return snake.Board{}, ErrClosed
	case <-ctx.Done():
		return snake.Board{}, ctx.Err()
	}
	s.touch()
	return <-reply, nil
}

// Close stops the session and waits for its goroutine to exit.
// It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(s.cancel)
	<-s.done
}

// Done is closed once the session goroutine has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// LastActive returns the time of the last key or board request.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}
