package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
)

// MenuChoice is what the user picked in the start menu.
type MenuChoice int

const (
	MenuChoiceNone MenuChoice = iota
	MenuChoicePlay
	MenuChoiceScoreboard
	MenuChoiceQuit
)

// Menu rows, in display order.
const (
	menuRowPlay = iota
	menuRowDifficulty
	menuRowScores
	menuRowQuit
	menuRowCount
)

// MenuModel is the Bubble Tea model for the start menu.
type MenuModel struct {
	cursor    int
	preset    int // Index into config.Presets
	best      int
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	choice    MenuChoice
}

// NewMenuModel creates a new menu model. best is shown under the title.
func NewMenuModel(cfg core.RuntimeConfig, preset config.DifficultyPreset, best int) MenuModel {
	m := MenuModel{
		config:    cfg,
		best:      best,
		keyMapper: NewKeyMapper(),
	}
	for i, p := range config.Presets {
		if p == preset {
			m.preset = i
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.choice = MenuChoiceQuit
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < menuRowCount-1 {
			m.cursor++
		}

	case MenuActionLeft:
		if m.cursor == menuRowDifficulty {
			m.preset = (m.preset + len(config.Presets) - 1) % len(config.Presets)
		}

	case MenuActionRight:
		if m.cursor == menuRowDifficulty {
			m.preset = (m.preset + 1) % len(config.Presets)
		}

	case MenuActionScoreboard:
		m.choice = MenuChoiceScoreboard
		return m, tea.Quit

	case MenuActionSelect:
		switch m.cursor {
		case menuRowPlay:
			m.choice = MenuChoicePlay
			return m, tea.Quit
		case menuRowDifficulty:
			m.preset = (m.preset + 1) % len(config.Presets)
		case menuRowScores:
			m.choice = MenuChoiceScoreboard
			return m, tea.Quit
		case menuRowQuit:
			m.choice = MenuChoiceQuit
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.choice == MenuChoiceQuit {
		return ""
	}

	width := m.config.ScreenW
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  S N A K E  "), width))
	b.WriteString("\n\n")
	b.WriteString(centerText(dimStyle.Render(fmt.Sprintf("Best score: %d", m.best)), width))
	b.WriteString("\n\n")

	rows := []string{
		"Play",
		fmt.Sprintf("Difficulty: < %s >", m.Preset()),
		"High Scores",
		"Quit",
	}
	for i, row := range rows {
		line := "  " + row
		if i == m.cursor {
			line = selStyle.Render("> " + row)
		}
		b.WriteString(centerText(line, width))
		b.WriteString("\n")
	}

	// Footer with controls
	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Left/Right: Difficulty  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(dimStyle.Render(controls), width))
	b.WriteString("\n")

	return b.String()
}

// Choice returns what the user picked, or MenuChoiceNone.
func (m MenuModel) Choice() MenuChoice {
	return m.choice
}

// Preset returns the selected difficulty preset.
func (m MenuModel) Preset() config.DifficultyPreset {
	return config.Presets[m.preset]
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Choice MenuChoice
	Preset config.DifficultyPreset
	Config core.RuntimeConfig
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(cfg core.RuntimeConfig, preset config.DifficultyPreset, best int) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(cfg, preset, best),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Choice: MenuChoiceQuit, Preset: preset, Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok || m.Choice() == MenuChoiceNone {
		return MenuResult{Choice: MenuChoiceQuit, Preset: preset, Config: cfg}, nil
	}

	return MenuResult{Choice: m.Choice(), Preset: m.Preset(), Config: m.Config()}, nil
}
