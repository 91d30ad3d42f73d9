package snake

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// CellKind is what occupies a grid cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellBody
	CellHead
	CellTarget
)

// Glyph returns the single-character form of the cell used by Board.String.
func (c CellKind) Glyph() rune {
	switch c {
	case CellBody:
		return 'o'
	case CellHead:
		return 'O'
	case CellTarget:
		return '*'
	default:
		return '.'
	}
}

// Board is a render-ready description of a game at one instant.
type Board struct {
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Cells      [][]CellKind `json:"cells"` // Indexed [y][x]
	Body       []core.Point `json:"body"`
	Target     *core.Point  `json:"target,omitempty"`
	Heading    string       `json:"heading"`
	Score      int          `json:"score"`
	Best       int          `json:"best"`
	Length     int          `json:"length"`
	IntervalMS int64        `json:"interval_ms"`
	SpeedLevel int          `json:"speed_level"`
	Paused     bool         `json:"paused"`
	Ended      bool         `json:"ended"`
	Overlay    []string     `json:"overlay,omitempty"`
}

// Board describes the current state as a grid. It does not modify the game.
func (g *Game) Board() Board {
	w, h := g.settings.Width, g.settings.Height
	cells := make([][]CellKind, h)
	for y := range cells {
		cells[y] = make([]CellKind, w)
	}

	b := Board{
		Width:      w,
		Height:     h,
		Cells:      cells,
		Body:       g.Body(),
		Heading:    g.heading.String(),
		Score:      g.score,
		Best:       g.best,
		Length:     len(g.body),
		IntervalMS: g.interval.Milliseconds(),
		SpeedLevel: g.speed.Level(g.score),
		Paused:     g.paused,
		Ended:      g.ended,
	}

	if g.hasTarget {
		t := g.target
		b.Target = &t
		cells[t.Y][t.X] = CellTarget
	}

	// Tail first so the head wins if a collision left an overlap.
	for i := len(g.body) - 1; i >= 0; i-- {
		seg := g.body[i]
		if !seg.In(w, h) {
			continue
		}
		if i == 0 {
			cells[seg.Y][seg.X] = CellHead
		} else {
			cells[seg.Y][seg.X] = CellBody
		}
	}

	switch {
	case g.ended:
		b.Overlay = []string{
			"Game Over!",
			fmt.Sprintf("Your score: %d", g.score),
			"Press any key to play again",
		}
	case g.paused:
		b.Overlay = []string{
			"Paused",
			"Press Space to resume",
		}
	}
	return b
}

// At returns the cell kind at (x, y), or CellEmpty outside the grid.
func (b Board) At(x, y int) CellKind {
	if !core.Pt(x, y).In(b.Width, b.Height) {
		return CellEmpty
	}
	return b.Cells[y][x]
}

// String renders the grid as text, one line per row.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow((b.Width + 1) * b.Height)
	for y, row := range b.Cells {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range row {
			sb.WriteRune(c.Glyph())
		}
	}
	return sb.String()
}
