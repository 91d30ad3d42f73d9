package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// smallSettings places the target right in front of the snake, so the
// first tick scores and the snake hits the right wall shortly after.
func smallSettings() snake.Settings {
	s := snake.DefaultSettings()
	s.Width, s.Height = 8, 4
	s.Start = core.Pt(1, 1)
	s.StartTarget = core.Pt(2, 1)
	return s
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestModel(t *testing.T, store *storage.Store) GameModel {
	t.Helper()
	return NewGameModel(GameOptions{
		Settings:      smallSettings(),
		Runtime:       core.RuntimeConfig{ScreenW: 80, ScreenH: 30, Seed: 7},
		Store:         store,
		Source:        storage.SourceLocal,
		Player:        "tester",
		ScreenshotDir: t.TempDir(),
	})
}

func update(t *testing.T, m GameModel, msg tea.Msg) (GameModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	gm, ok := next.(GameModel)
	if !ok {
		t.Fatalf("Update returned %T, expected GameModel", next)
	}
	return gm, cmd
}

// tickUntilEnded feeds current-generation ticks until the game is over.
func tickUntilEnded(t *testing.T, m GameModel) GameModel {
	t.Helper()
	for range 50 {
		if m.Game().Ended() {
			return m
		}
		m, _ = update(t, m, TickMsg{Gen: m.gen, Time: time.Now()})
	}
	t.Fatal("game did not end")
	return m
}

func TestGameModelInitStartsTicking(t *testing.T) {
	m := newTestModel(t, nil)
	if m.Init() == nil {
		t.Fatal("Init() should schedule the first tick")
	}
}

func TestGameModelTickAdvances(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := update(t, m, TickMsg{Gen: 0})
	if cmd == nil {
		t.Error("a running game should schedule the next tick")
	}
	if m.Game().Score() != 10 || m.Game().Length() != 2 {
		t.Errorf("after first tick: score=%d length=%d, expected 10 and 2",
			m.Game().Score(), m.Game().Length())
	}
}

func TestGameModelDropsStaleTicks(t *testing.T) {
	m := newTestModel(t, nil)

	// Pause and resume starts generation 1
	m, _ = update(t, m, runeKey("p"))
	m, cmd := update(t, m, runeKey("p"))
	if cmd == nil {
		t.Fatal("resuming should start a new tick chain")
	}
	if m.gen != 1 {
		t.Fatalf("gen = %d, expected 1", m.gen)
	}

	before := m.Game().Body()
	m, cmd = update(t, m, TickMsg{Gen: 0})
	if cmd != nil {
		t.Error("a stale tick should not schedule another tick")
	}
	if m.Game().Body()[0] != before[0] {
		t.Error("a stale tick should not move the snake")
	}

	m, _ = update(t, m, TickMsg{Gen: 1})
	if m.Game().Body()[0] == before[0] {
		t.Error("a current tick should move the snake")
	}
}

func TestGameModelPauseStopsTicking(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if cmd != nil {
		t.Error("pausing should not schedule a tick")
	}
	if !m.Game().Paused() {
		t.Fatal("space should pause the game")
	}

	head := m.Game().Body()[0]
	m, cmd = update(t, m, TickMsg{Gen: m.gen})
	if cmd != nil || m.Game().Body()[0] != head {
		t.Error("ticks must not advance a paused game")
	}
}

func TestGameModelSavesScoreOnce(t *testing.T) {
	store := openTestStore(t)
	m := newTestModel(t, store)

	m = tickUntilEnded(t, m)
	score := m.Game().Score()
	if score <= 0 {
		t.Fatalf("score = %d, expected points from the first target", score)
	}

	// Extra ticks after the end change nothing
	m, _ = update(t, m, TickMsg{Gen: m.gen})

	scores, err := store.TopScores("", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("got %d saved scores, expected 1", len(scores))
	}
	if scores[0].Score != score || scores[0].Player != "tester" || scores[0].Source != storage.SourceLocal {
		t.Errorf("saved entry = %+v", scores[0])
	}
}

func TestGameModelRestartAfterEnd(t *testing.T) {
	store := openTestStore(t)
	m := tickUntilEnded(t, newTestModel(t, store))
	genBefore := m.gen

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("restart should start a new tick chain")
	}
	if m.gen != genBefore+1 {
		t.Errorf("gen = %d, expected %d", m.gen, genBefore+1)
	}
	if m.Game().Ended() || m.Game().Score() != 0 || m.Game().Length() != 1 {
		t.Error("any key after the end should reset the game")
	}
	if m.Game().Best() <= 0 {
		t.Error("best score should survive a restart")
	}
	if m.scoreSaved {
		t.Error("a new game should be saved again when it ends")
	}
}

func TestGameModelEndedHostKeysRestart(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{"help", runeKey("?")},
		{"screenshot", tea.KeyMsg{Type: tea.KeyCtrlS}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := tickUntilEnded(t, newTestModel(t, nil))

			m, cmd := update(t, m, tc.msg)
			if m.Game().Ended() || cmd == nil {
				t.Fatal("the key should start a new game once the game has ended")
			}
			if m.help.ShowAll || m.status != "" {
				t.Error("the key should not keep its running-game meaning")
			}
			if files, _ := filepath.Glob(filepath.Join(m.opts.ScreenshotDir, "*")); len(files) != 0 {
				t.Errorf("no screenshot expected, got %v", files)
			}
		})
	}
}

func TestGameModelSpeedChangeReschedules(t *testing.T) {
	settings := smallSettings()
	settings.SpeedThreshold = settings.ScoreIncrement
	m := NewGameModel(GameOptions{
		Settings: settings,
		Runtime:  core.RuntimeConfig{ScreenW: 80, ScreenH: 30, Seed: 7},
	})
	if m.TickInterval() != settings.BaseInterval {
		t.Fatalf("TickInterval() = %v, expected %v", m.TickInterval(), settings.BaseInterval)
	}

	// The first tick eats the target and crosses the threshold
	m, cmd := update(t, m, TickMsg{Gen: m.gen})
	faster := settings.BaseInterval - settings.SpeedStep
	if cmd == nil {
		t.Fatal("the game should keep ticking after a speed change")
	}
	if m.Game().Interval() != faster || m.TickInterval() != faster {
		t.Errorf("interval = %v, scheduled %v, expected both %v",
			m.Game().Interval(), m.TickInterval(), faster)
	}

	// A restart goes back to the base interval
	m = tickUntilEnded(t, m)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.TickInterval() != settings.BaseInterval {
		t.Errorf("after restart TickInterval() = %v, expected %v", m.TickInterval(), settings.BaseInterval)
	}
}

func TestGameModelBestSeededFromStore(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveScore(storage.ScoreEntry{Source: storage.SourceSSH, Score: 340}); err != nil {
		t.Fatal(err)
	}

	m := newTestModel(t, store)
	if m.Game().Best() != 340 {
		t.Errorf("Best() = %d, expected 340", m.Game().Best())
	}
}

func TestGameModelZeroScoreNotSaved(t *testing.T) {
	store := openTestStore(t)
	m := NewGameModel(GameOptions{
		Settings: snake.DefaultSettings(),
		Runtime:  core.RuntimeConfig{ScreenW: 80, ScreenH: 30, Seed: 1},
		Store:    store,
	})

	m = tickUntilEnded(t, m)
	if scores, _ := store.TopScores("", 10); len(scores) != 0 {
		t.Errorf("a game without points should not be saved, got %d entries", len(scores))
	}
}

func TestGameModelBackOnlyWhenPausedOrEnded(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Fatal("back should be ignored while the game runs")
	}

	m, _ = update(t, m, runeKey("p"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("back should work while paused")
	}
	if m.IsQuitting() {
		t.Error("back should not quit when hosted by a menu")
	}
}

func TestGameModelStandaloneBackQuits(t *testing.T) {
	m := newTestModel(t, nil)
	m.opts.Standalone = true

	m = tickUntilEnded(t, m)
	m, cmd := update(t, m, runeKey("b"))
	if !m.IsQuitting() || cmd == nil {
		t.Error("back in standalone mode should quit the program")
	}
}

func TestGameModelQuit(t *testing.T) {
	m := newTestModel(t, nil)
	m, cmd := update(t, m, runeKey("q"))
	if !m.IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestGameModelDirectionKeys(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, TickMsg{Gen: m.gen})
	if got := m.Game().Heading(); got != snake.DirDown {
		t.Errorf("Heading() = %v, expected down", got)
	}

	// Vim keys are bound as well
	m, _ = update(t, m, runeKey("h"))
	m, _ = update(t, m, TickMsg{Gen: m.gen})
	if got := m.Game().Heading(); got != snake.DirLeft {
		t.Errorf("Heading() = %v, expected left", got)
	}
}

func TestGameModelResizeKeepsGame(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, TickMsg{Gen: 0})
	score := m.Game().Score()

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.Runtime().ScreenW != 120 || m.Runtime().ScreenH != 40 {
		t.Errorf("Runtime() = %+v after resize", m.Runtime())
	}
	if m.Game().Score() != score {
		t.Error("resizing must not reset the game")
	}
}

func TestGameModelScreenshot(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !strings.HasPrefix(m.status, "Saved") {
		t.Fatalf("status = %q, expected a saved notice", m.status)
	}

	for _, ext := range []string{"*.txt", "*.png"} {
		files, err := filepath.Glob(filepath.Join(m.opts.ScreenshotDir, ext))
		if err != nil || len(files) != 1 {
			t.Errorf("expected one %s screenshot, got %v (err %v)", ext, files, err)
		}
	}

	// The next game key clears the notice
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.status != "" {
		t.Errorf("status = %q, expected it to be cleared", m.status)
	}
}

func TestGameModelView(t *testing.T) {
	m := newTestModel(t, nil)
	view := m.View()
	if !strings.Contains(view, "Score: 0") {
		t.Errorf("View() should show the score, got:\n%s", view)
	}
}

func TestGameKeyMapping(t *testing.T) {
	keys := DefaultGameKeyMap()
	tests := []struct {
		msg      tea.KeyMsg
		expected core.Key
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.KeyUp},
		{runeKey("w"), core.KeyUp},
		{runeKey("j"), core.KeyDown},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.KeyLeft},
		{runeKey("d"), core.KeyRight},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, core.KeyPause},
		{runeKey("p"), core.KeyPause},
		{runeKey("x"), core.KeyOther},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.KeyOther},
	}

	for _, tc := range tests {
		if got := keys.GameKey(tc.msg); got != tc.expected {
			t.Errorf("GameKey(%q) = %v, expected %v", tc.msg.String(), got, tc.expected)
		}
	}
}

func TestMenuActionMapping(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg      tea.KeyMsg
		expected MenuAction
	}{
		{runeKey("q"), MenuActionQuit},
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey("j"), MenuActionDown},
		{runeKey("a"), MenuActionLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, MenuActionRight},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{runeKey("z"), MenuActionNone},
	}

	for _, tc := range tests {
		if got := km.MapKeyToMenuAction(tc.msg); got != tc.expected {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tc.msg.String(), got, tc.expected)
		}
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawTextColor(0, 0, "ab", core.ColorGreen)
	s.DrawTextColor(2, 0, "cd", core.ColorRed)
	s.DrawText(0, 1, "xyz")

	out := RenderScreen(s)
	if got := strings.Count(out, "\n"); got != 1 {
		t.Errorf("RenderScreen() has %d newlines, expected 1", got)
	}
	for _, part := range []string{"ab", "cd", "xyz"} {
		if !strings.Contains(out, part) {
			t.Errorf("RenderScreen() is missing %q:\n%s", part, out)
		}
	}
}

func TestCenterText(t *testing.T) {
	if got := centerText("abcd", 10); got != "   abcd" {
		t.Errorf("centerText() = %q", got)
	}
	if got := centerText("too wide", 4); got != "too wide" {
		t.Errorf("centerText() = %q, expected text unchanged", got)
	}
}

func menuUpdate(t *testing.T, m MenuModel, msg tea.Msg) (MenuModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(MenuModel)
	if !ok {
		t.Fatalf("Update returned %T, expected MenuModel", next)
	}
	return mm, cmd
}

func TestMenuDifficultyCycles(t *testing.T) {
	m := NewMenuModel(core.RuntimeConfig{ScreenW: 80, ScreenH: 24}, config.DifficultyNormal, 0)
	if m.Preset() != config.DifficultyNormal {
		t.Fatalf("Preset() = %q, expected normal", m.Preset())
	}

	// Left/right only change the difficulty row
	m, _ = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.Preset() != config.DifficultyNormal {
		t.Error("right on the play row should not change difficulty")
	}

	m, _ = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.Preset() != config.DifficultyHard {
		t.Errorf("Preset() = %q, expected hard", m.Preset())
	}
	m, _ = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.Preset() != config.DifficultyEasy {
		t.Errorf("Preset() = %q, expected easy", m.Preset())
	}
	m, _ = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.Preset() != config.DifficultyFixed {
		t.Errorf("Preset() = %q, expected wrap to fixed", m.Preset())
	}
}

func TestMenuChoices(t *testing.T) {
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24}
	tests := []struct {
		name     string
		keys     []tea.KeyMsg
		expected MenuChoice
	}{
		{"play", []tea.KeyMsg{{Type: tea.KeyEnter}}, MenuChoicePlay},
		{"scores row", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyDown}, {Type: tea.KeyEnter}}, MenuChoiceScoreboard},
		{"tab", []tea.KeyMsg{{Type: tea.KeyTab}}, MenuChoiceScoreboard},
		{"quit row", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyDown}, {Type: tea.KeyDown}, {Type: tea.KeyDown}, {Type: tea.KeyEnter}}, MenuChoiceQuit},
		{"esc", []tea.KeyMsg{{Type: tea.KeyEsc}}, MenuChoiceQuit},
		{"difficulty row does not leave", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyEnter}}, MenuChoiceNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMenuModel(cfg, config.DifficultyNormal, 0)
			var cmd tea.Cmd
			for _, k := range tc.keys {
				m, cmd = menuUpdate(t, m, k)
			}
			if m.Choice() != tc.expected {
				t.Errorf("Choice() = %v, expected %v", m.Choice(), tc.expected)
			}
			if tc.expected != MenuChoiceNone && cmd == nil {
				t.Error("a final choice should quit the menu program")
			}
		})
	}
}

func TestMenuViewShowsBest(t *testing.T) {
	m := NewMenuModel(core.RuntimeConfig{ScreenW: 80, ScreenH: 24}, config.DifficultyHard, 250)
	view := m.View()
	for _, want := range []string{"S N A K E", "Best score: 250", "Difficulty: < hard >"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() is missing %q", want)
		}
	}
}

func TestScoreboardFilters(t *testing.T) {
	store := openTestStore(t)
	for _, e := range []storage.ScoreEntry{
		{Source: storage.SourceLocal, Player: "a", Score: 30, Length: 4},
		{Source: storage.SourceLocal, Player: "b", Score: 10, Length: 2},
		{Source: storage.SourceSSH, Player: "c", Score: 50, Length: 6},
	} {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatal(err)
		}
	}

	m := NewScoreboardModel(store, 100, 30)
	if m.Source() != "" || m.Rows() != 3 {
		t.Fatalf("All tab: source=%q rows=%d", m.Source(), m.Rows())
	}

	tests := []struct {
		source string
		rows   int
	}{
		{storage.SourceLocal, 2},
		{storage.SourceSSH, 1},
		{storage.SourceWeb, 0},
		{"", 3},
	}
	for _, tc := range tests {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = next.(ScoreboardModel)
		if m.Source() != tc.source || m.Rows() != tc.rows {
			t.Errorf("tab %q: source=%q rows=%d, expected %d rows", tc.source, m.Source(), m.Rows(), tc.rows)
		}
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	if m.Source() != storage.SourceWeb {
		t.Errorf("shift+tab should go back to the web tab, got %q", m.Source())
	}
}

func TestScoreboardBackAndQuit(t *testing.T) {
	m := NewScoreboardModel(nil, 60, 20)
	if m.Rows() != 0 {
		t.Error("a scoreboard without a store should be empty")
	}
	if !strings.Contains(m.View(), "No scores recorded yet") {
		t.Error("empty scoreboard should say so")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	back := next.(ScoreboardModel)
	if !back.IsGoingBack() || back.IsQuitting() || cmd == nil {
		t.Error("esc should go back")
	}

	next, _ = m.Update(runeKey("q"))
	if !next.(ScoreboardModel).IsQuitting() {
		t.Error("q should quit")
	}
}

func sessionUpdate(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update returned %T, expected SessionModel", next)
	}
	return sm, cmd
}

func TestSessionModelFlow(t *testing.T) {
	store := openTestStore(t)
	var presets []config.DifficultyPreset
	m := NewSessionModel(SessionOptions{
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 30},
		Store:   store,
		Settings: func(p config.DifficultyPreset) (snake.Settings, error) {
			presets = append(presets, p)
			return smallSettings(), nil
		},
		Preset: config.DifficultyEasy,
		Source: storage.SourceSSH,
		Player: "guest",
	})

	// Menu -> game
	m, cmd := sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.InGame() || cmd == nil {
		t.Fatal("play should start a game with a tick chain")
	}
	if len(presets) != 1 || presets[0] != config.DifficultyEasy {
		t.Errorf("settings requested for %v, expected [easy]", presets)
	}

	// Play until the end; the score is saved with the session's identity
	for range 50 {
		if m.game.Game().Ended() {
			break
		}
		m, _ = sessionUpdate(t, m, TickMsg{Gen: m.game.gen})
	}
	scores, _ := store.TopScores(storage.SourceSSH, 10)
	if len(scores) != 1 || scores[0].Player != "guest" {
		t.Fatalf("saved scores = %+v, expected one ssh entry for guest", scores)
	}

	// Game -> menu
	m, _ = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.InGame() || m.view != viewMenu {
		t.Fatal("back after game over should return to the menu")
	}
	if !strings.Contains(m.View(), "Best score: ") {
		t.Error("menu should be shown")
	}

	// Menu -> scoreboard -> menu
	m, _ = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.view != viewScoreboard {
		t.Fatal("tab should open the scoreboard")
	}
	m, cmd = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != viewMenu || m.quitting {
		t.Fatal("back from the scoreboard should return to the menu")
	}
	if cmd != nil {
		t.Error("returning to the menu should not quit the program")
	}

	// Quit
	m, cmd = sessionUpdate(t, m, runeKey("q"))
	if !m.quitting || cmd == nil {
		t.Error("q in the menu should end the session")
	}
}

func TestSessionModelNewGameIgnoresOldTicks(t *testing.T) {
	m := NewSessionModel(SessionOptions{
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 30},
		Settings: func(config.DifficultyPreset) (snake.Settings, error) {
			return smallSettings(), nil
		},
	})

	// Start a game, pause it and leave while its first tick is pending
	m, _ = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	oldGen := m.game.gen
	m, _ = sessionUpdate(t, m, runeKey("p"))
	m, _ = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.InGame() {
		t.Fatal("back while paused should return to the menu")
	}

	m, cmd := sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.InGame() || cmd == nil {
		t.Fatal("play should start a second game")
	}
	if m.game.gen <= oldGen {
		t.Fatalf("new game gen = %d, expected above %d", m.game.gen, oldGen)
	}

	head := m.game.Game().Body()[0]
	m, cmd = sessionUpdate(t, m, TickMsg{Gen: oldGen})
	if cmd != nil {
		t.Error("a tick of the previous game should not start another chain")
	}
	if m.game.Game().Body()[0] != head || m.game.Game().Score() != 0 {
		t.Error("a tick of the previous game should not move the new one")
	}

	m, _ = sessionUpdate(t, m, TickMsg{Gen: m.game.gen})
	if m.game.Game().Body()[0] == head {
		t.Error("the new game's own tick should move the snake")
	}
}

func TestSessionModelSettingsError(t *testing.T) {
	m := NewSessionModel(SessionOptions{
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 30},
		Settings: func(config.DifficultyPreset) (snake.Settings, error) {
			return snake.Settings{}, config.ErrInvalid
		},
	})

	m, _ = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.InGame() {
		t.Fatal("a settings error should keep the menu open")
	}
	if !strings.Contains(m.View(), "Error:") {
		t.Error("the menu should show the settings error")
	}
}
