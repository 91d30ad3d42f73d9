package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/platform/boardimg"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// screenshotScale is the PNG scale factor used for ctrl+s screenshots.
const screenshotScale = 2

// GameOptions configures a GameModel.
type GameOptions struct {
	Settings snake.Settings
	Runtime  core.RuntimeConfig
	Store    *storage.Store // May be nil; scores are then not saved
	Source   string         // storage.SourceLocal or storage.SourceSSH
	Player   string

	// ScreenshotDir is where ctrl+s writes. Empty means ~/.snake/screenshots.
	ScreenshotDir string

	// Standalone makes Back quit entirely instead of returning to a menu.
	Standalone bool

	// TickGen numbers the first tick chain. Hosts that run several games in
	// one program pass a number above any chain they have started before.
	TickGen uint64

	Logger *log.Logger
}

// GameModel is the Bubble Tea model that hosts one snake game.
type GameModel struct {
	game   *snake.Game
	screen *core.Screen
	opts   GameOptions
	keys   GameKeyMap
	help   help.Model
	logger *log.Logger

	gen        uint64        // Current tick chain
	interval   time.Duration // Delay of the last scheduled tick
	scoreSaved bool          // Whether the score of the current game over was saved
	status     string        // One-line notice shown instead of the help bar
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a game model. The best score is seeded from storage.
func NewGameModel(opts GameOptions) GameModel {
	// Use time-based seed if not specified
	if opts.Runtime.Seed == 0 {
		opts.Runtime.Seed = time.Now().UnixNano()
	}
	if opts.Source == "" {
		opts.Source = storage.SourceLocal
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	game := snake.New(opts.Settings, opts.Runtime.Seed)
	if opts.Store != nil {
		if best, err := opts.Store.HighScore(""); err == nil {
			game.SetBest(best)
		} else {
			logger.Warn("Could not load high score", "error", err)
		}
	}

	h := help.New()
	h.Width = opts.Runtime.ScreenW

	m := GameModel{
		game:     game,
		screen:   core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH),
		opts:     opts,
		keys:     DefaultGameKeyMap(),
		help:     h,
		logger:   logger,
		gen:      opts.TickGen,
		interval: game.Interval(),
	}
	m.fitScreen()
	return m
}

// Init starts the tick chain.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.gen, m.interval)
}

// schedule queues the next tick of the current chain at the game's interval.
func (m *GameModel) schedule() tea.Cmd {
	m.interval = m.game.Interval()
	return tickCmd(m.gen, m.interval)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The grid is fixed; only the viewport changes.
		m.opts.Runtime.ScreenW = msg.Width
		m.opts.Runtime.ScreenH = msg.Height
		m.help.Width = msg.Width
		m.fitScreen()
		return m, nil

	case TickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

// fitScreen sizes the game screen to the window minus the help bar.
func (m *GameModel) fitScreen() {
	footer := lipgloss.Height(m.help.View(m.keys))
	m.screen.Resize(m.opts.Runtime.ScreenW, max(m.opts.Runtime.ScreenH-footer, 0))
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	// Once the game has ended these fall through and start a new game.
	case key.Matches(msg, m.keys.Screenshot) && !m.game.Ended():
		m.status = m.saveScreenshot()
		return m, nil

	case key.Matches(msg, m.keys.Help) && !m.game.Ended():
		m.help.ShowAll = !m.help.ShowAll
		m.fitScreen()
		return m, nil

	case key.Matches(msg, m.keys.Back) && (m.game.Ended() || m.game.Paused()):
		// A session model hosting this game swallows the quit.
		m.backToMenu = true
		m.quitting = m.opts.Standalone
		return m, tea.Quit
	}

	m.status = ""
	res := m.game.HandleKey(m.keys.GameKey(msg))

	// A restart or a resume starts a fresh tick chain; an ended or paused
	// game has no chain running.
	if res.Restarted {
		m.scoreSaved = false
		m.gen++
		return m, m.schedule()
	}
	if res.PauseChanged && !m.game.Paused() {
		m.gen++
		return m, m.schedule()
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen || m.game.Paused() || m.game.Ended() {
		return m, nil
	}

	res := m.game.Step()
	if res.Collided {
		m.saveScore()
		return m, nil
	}

	// Continue ticking at the (possibly changed) interval
	if res.SpeedChanged {
		m.logger.Debug("Speed changed", "score", m.game.Score(), "interval", m.game.Interval())
	}
	return m, m.schedule()
}

// saveScore records the finished game once.
func (m *GameModel) saveScore() {
	if m.scoreSaved || m.game.Score() <= 0 {
		return
	}
	m.scoreSaved = true
	if m.opts.Store == nil {
		return
	}

	_, err := m.opts.Store.SaveScore(storage.ScoreEntry{
		Source: m.opts.Source,
		Player: m.opts.Player,
		Score:  m.game.Score(),
		Length: m.game.Length(),
	})
	if err != nil {
		// Best-effort save, game continues regardless
		m.logger.Warn("Could not save score", "error", err)
		return
	}
	m.logger.Info("Score saved", "player", m.opts.Player, "score", m.game.Score())
}

// saveScreenshot writes the current screen as text and the board as PNG.
// Returns a status line for the user.
func (m *GameModel) saveScreenshot() string {
	// Render current state
	m.game.Render(m.screen)

	dir := m.opts.ScreenshotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "Screenshot failed: no home directory"
		}
		dir = filepath.Join(home, ".snake", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("Screenshot failed", "error", err)
		return "Screenshot failed"
	}

	// Generate filename with timestamp
	base := filepath.Join(dir, "snake_"+time.Now().Format("20060102_150405"))

	if err := os.WriteFile(base+".txt", []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("Screenshot failed", "error", err)
		return "Screenshot failed"
	}
	if err := boardimg.Save(base+".png", m.game.Board(), screenshotScale); err != nil {
		m.logger.Warn("PNG screenshot failed", "error", err)
		return "Saved " + base + ".txt (PNG failed)"
	}
	return fmt.Sprintf("Saved %s.txt and .png", base)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	// Render game to screen buffer
	m.game.Render(m.screen)

	footer := m.help.View(m.keys)
	if m.status != "" {
		footer = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Render(m.status)
	}
	return RenderScreen(m.screen) + "\n" + footer
}

// Game returns the hosted game.
func (m GameModel) Game() *snake.Game {
	return m.game
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// TickInterval returns the delay of the most recently scheduled tick.
func (m GameModel) TickInterval() time.Duration {
	return m.interval
}

// Runtime returns the runtime config, updated by resizes.
func (m GameModel) Runtime() core.RuntimeConfig {
	return m.opts.Runtime
}

// Run starts a Bubble Tea program hosting one game and returns the final
// model.
func Run(opts GameOptions) (GameModel, error) {
	p := tea.NewProgram(
		NewGameModel(opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return GameModel{}, err
	}
	m, _ := final.(GameModel)
	return m, nil
}
