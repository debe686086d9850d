package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/l1jgo/cuesim/internal/component"
	"github.com/l1jgo/cuesim/internal/world"
)

type fakeCanvas struct {
	w, h  int
	cells map[[2]int]rune
	shown int
}

func newFakeCanvas(w, h int) *fakeCanvas {
	return &fakeCanvas{w: w, h: h, cells: make(map[[2]int]rune)}
}

func (c *fakeCanvas) SetContent(x, y int, r rune, _ []rune, _ tcell.Style) {
	c.cells[[2]int{x, y}] = r
}
func (c *fakeCanvas) Size() (int, int) { return c.w, c.h }
func (c *fakeCanvas) Clear()           { c.cells = make(map[[2]int]rune) }
func (c *fakeCanvas) Show()            { c.shown++ }

func (c *fakeCanvas) row(y int) string {
	var sb strings.Builder
	for x := 0; x < c.w; x++ {
		if r, ok := c.cells[[2]int{x, y}]; ok {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestTerminalDrawsTableAndBalls(t *testing.T) {
	c := newFakeCanvas(22, 13) // 20x10 table area
	term := NewTerminalOn(c)

	term.Observe(&world.Frame{
		Step:     4,
		Table:    component.Table{Width: 200, Height: 100},
		HasTable: true,
		Balls: []world.BallView{
			{X: 100, Y: 50, Radius: 2},
			{X: 0, Y: 0, Radius: 2},
			{X: 500, Y: 500, Radius: 2}, // outside: clamped to the top-right cell
		},
	})

	if c.shown != 1 {
		t.Errorf("Expected one Show, got %d", c.shown)
	}
	if got := c.row(0); got != "+"+strings.Repeat("-", 20)+"+" {
		t.Errorf("unexpected top border %q", got)
	}
	if got := c.cells[[2]int{11, 6}]; got != 'o' {
		t.Errorf("Expected centre ball at (11,6), got %q", got)
	}
	if got := c.cells[[2]int{1, 10}]; got != 'o' {
		t.Errorf("Expected origin ball at bottom-left (1,10), got %q", got)
	}
	if got := c.cells[[2]int{20, 1}]; got != 'o' {
		t.Errorf("Expected clamped ball at (20,1), got %q", got)
	}
	if got := c.row(12); got != "step 4  balls 3" {
		t.Errorf("unexpected status line %q", got)
	}
}

func TestTerminalWithoutTable(t *testing.T) {
	c := newFakeCanvas(30, 10)
	NewTerminalOn(c).Observe(&world.Frame{Step: 1})

	if got := c.row(0); got != "" {
		t.Errorf("Expected no border without a table, got %q", got)
	}
	if got := c.row(9); got != "step 1  balls 0" {
		t.Errorf("unexpected status line %q", got)
	}
}
