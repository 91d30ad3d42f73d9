package snake

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// Layout constants for terminal rendering. Each grid cell is two columns wide
// so the board looks square in a typical terminal font.
const (
	cellWidth  = 2
	hudHeight  = 1
	footerText = "Arrows/WASD: Move  Space: Pause  Q: Quit"
)

// RequiredSize returns the smallest screen that fits the board and HUD.
func (s Settings) RequiredSize() (w, h int) {
	return s.Width*cellWidth + 2, s.Height + 2 + hudHeight
}

// Render draws the current game state into the provided screen buffer.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	b := g.Board()

	needW, needH := g.settings.RequiredSize()
	if dst.Width() < needW || dst.Height() < needH {
		mid := dst.Height() / 2
		dst.DrawTextCentered(mid-1, "Window too small", core.ColorYellow)
		dst.DrawTextCentered(mid, fmt.Sprintf("Need %dx%d", needW, needH), core.ColorGray)
		return
	}

	offX := (dst.Width() - needW) / 2
	offY := hudHeight

	renderHUD(dst, b, offX)
	dst.DrawBox(core.NewRect(offX, offY, needW, b.Height+2), core.ColorGray)

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			sx := offX + 1 + x*cellWidth
			sy := offY + 1 + y
			switch b.Cells[y][x] {
			case CellHead:
				dst.SetColor(sx, sy, '█', core.ColorBrightGreen)
				dst.SetColor(sx+1, sy, '█', core.ColorBrightGreen)
			case CellBody:
				dst.SetColor(sx, sy, '▓', core.ColorGreen)
				dst.SetColor(sx+1, sy, '▓', core.ColorGreen)
			case CellTarget:
				dst.SetColor(sx, sy, '●', core.ColorBrightRed)
			}
		}
	}

	if footerY := offY + b.Height + 2; footerY < dst.Height() {
		dst.DrawTextCentered(footerY, footerText, core.ColorGray)
	}

	if len(b.Overlay) > 0 {
		renderOverlay(dst, b.Overlay)
	}
}

// renderHUD draws the status line above the board.
func renderHUD(dst *core.Screen, b Board, x int) {
	hud := fmt.Sprintf(" Snake  Score: %d  Best: %d  Speed: %dms", b.Score, b.Best, b.IntervalMS)
	dst.DrawTextColor(x, 0, hud, core.ColorBrightWhite)
	if b.Paused {
		dst.DrawTextColor(x+len(hud)+2, 0, "PAUSED", core.ColorYellow)
	}
}

// renderOverlay draws a centered box with the given lines.
func renderOverlay(dst *core.Screen, lines []string) {
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := maxLen + 4
	boxH := len(lines)*2 + 1
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorBrightWhite)
	for i, l := range lines {
		c := core.ColorBrightWhite
		if i == 0 {
			c = core.ColorYellow
		}
		dst.DrawTextCentered(box.Y+1+i*2, l, c)
	}
}
