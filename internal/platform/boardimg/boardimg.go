// Package boardimg draws snake boards as PNG images for the HTTP API and
// for TUI screenshots.
package boardimg

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

const (
	// CellSize is the edge of one grid cell in pixels before scaling.
	CellSize = 16

	// MaxScale bounds the scale factor accepted by Encode.
	MaxScale = 8
)

// Draw renders a board at CellSize pixels per cell.
func Draw(b snake.Board) image.Image {
	width := b.Width * CellSize
	height := b.Height * CellSize
	dc := gg.NewContext(max(width, 1), max(height, 1))

	dc.SetRGB(0.08, 0.08, 0.1)
	dc.Clear()
	drawGrid(dc, width, height)

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			px, py := float64(x*CellSize), float64(y*CellSize)
			switch b.Cells[y][x] {
			case snake.CellHead:
				dc.SetRGB(0.45, 1, 0.45)
				dc.DrawRoundedRectangle(px+1, py+1, CellSize-2, CellSize-2, 3)
				dc.Fill()
			case snake.CellBody:
				dc.SetRGB(0.15, 0.7, 0.25)
				dc.DrawRectangle(px+1, py+1, CellSize-2, CellSize-2)
				dc.Fill()
			case snake.CellTarget:
				dc.SetRGB(0.95, 0.25, 0.25)
				dc.DrawCircle(px+CellSize/2, py+CellSize/2, CellSize/2-2)
				dc.Fill()
			}
		}
	}

	if len(b.Overlay) > 0 {
		drawOverlay(dc, b.Overlay[0], width, height)
	}
	return dc.Image()
}

func drawGrid(dc *gg.Context, width, height int) {
	dc.SetRGB(0.16, 0.16, 0.2)
	dc.SetLineWidth(1)
	for x := 0; x <= width; x += CellSize {
		dc.DrawLine(float64(x), 0, float64(x), float64(height))
		dc.Stroke()
	}
	for y := 0; y <= height; y += CellSize {
		dc.DrawLine(0, float64(y), float64(width), float64(y))
		dc.Stroke()
	}
}

func drawOverlay(dc *gg.Context, title string, width, height int) {
	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(title, float64(width)/2, float64(height)/2, 0.5, 0.5)
}

// Scale enlarges an image by an integer factor without smoothing.
func Scale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	bounds := img.Bounds()
	return imaging.Resize(img, bounds.Dx()*factor, bounds.Dy()*factor, imaging.NearestNeighbor)
}

// Encode writes the board as a PNG scaled by scale, which must be within
// 1..MaxScale.
func Encode(w io.Writer, b snake.Board, scale int) error {
	if scale < 1 || scale > MaxScale {
		return fmt.Errorf("boardimg: scale %d out of range 1..%d", scale, MaxScale)
	}
	if err := imaging.Encode(w, Scale(Draw(b), scale), imaging.PNG); err != nil {
		return fmt.Errorf("boardimg: encode: %w", err)
	}
	return nil
}

// Save writes the board as a PNG file, creating parent directories.
func Save(path string, b snake.Board, scale int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("boardimg: cannot create directory: %w", err)
	}
	if err := imaging.Save(Scale(Draw(b), scale), path); err != nil {
		return fmt.Errorf("boardimg: save %s: %w", path, err)
	}
	return nil
}
