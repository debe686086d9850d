// Package render draws the table in a terminal after every tick.
package render

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/l1jgo/cuesim/internal/world"
)

// Canvas is the subset of tcell.Screen the renderer draws on.
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (int, int)
	Clear()
	Show()
}

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	ballStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Terminal draws each Frame onto a canvas. The table fills the canvas minus
// one status line; y grows upwards as on the table.
type Terminal struct {
	canvas Canvas
	delay  time.Duration
	fini   func()
}

// NewTerminal opens the controlling terminal.
func NewTerminal(delay time.Duration) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	screen.HideCursor()
	return &Terminal{canvas: screen, delay: delay, fini: screen.Fini}, nil
}

// NewTerminalOn draws on an existing canvas without pausing between frames.
func NewTerminalOn(c Canvas) *Terminal {
	return &Terminal{canvas: c}
}

func (t *Terminal) Observe(f *world.Frame) {
	t.canvas.Clear()
	w, h := t.canvas.Size()
	cols, rows := w-2, h-3
	if cols < 1 || rows < 1 || !f.HasTable {
		t.drawStatus(f, h)
		t.canvas.Show()
		return
	}

	t.drawBorder(cols, rows)

	sx := float64(cols) / f.Table.Width
	sy := float64(rows) / f.Table.Height
	for _, b := range f.Balls {
		col := 1 + clamp(int(b.X*sx), 0, cols-1)
		row := 1 + clamp(int((f.Table.Height-b.Y)*sy), 0, rows-1)
		t.canvas.SetContent(col, row, 'o', nil, ballStyle)
	}

	t.drawStatus(f, h)
	t.canvas.Show()
	if t.delay > 0 {
		time.Sleep(t.delay)
	}
}

func (t *Terminal) drawBorder(cols, rows int) {
	right, bottom := cols+1, rows+1
	for x := 1; x < right; x++ {
		t.canvas.SetContent(x, 0, '-', nil, borderStyle)
		t.canvas.SetContent(x, bottom, '-', nil, borderStyle)
	}
	for y := 1; y < bottom; y++ {
		t.canvas.SetContent(0, y, '|', nil, borderStyle)
		t.canvas.SetContent(right, y, '|', nil, borderStyle)
	}
	for _, c := range [][2]int{{0, 0}, {right, 0}, {0, bottom}, {right, bottom}} {
		t.canvas.SetContent(c[0], c[1], '+', nil, borderStyle)
	}
}

func (t *Terminal) drawStatus(f *world.Frame, h int) {
	if h < 1 {
		return
	}
	line := fmt.Sprintf("step %d  balls %d", f.Step, len(f.Balls))
	for i, r := range line {
		t.canvas.SetContent(i, h-1, r, nil, statusStyle)
	}
}

// Close restores the terminal.
func (t *Terminal) Close() {
	if t.fini != nil {
		t.fini()
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
