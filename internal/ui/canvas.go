package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// canvas is a fixed grid of styled cells. Later writes win.
type canvas struct {
	w, h   int
	runes  []rune
	style  []int // index into styles; -1 is unstyled
	styles []lipgloss.Style
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 0), max(h, 0)
	c := &canvas{
		w:     w,
		h:     h,
		runes: make([]rune, w*h),
		style: make([]int, w*h),
	}
	for i := range c.runes {
		c.runes[i] = ' '
		c.style[i] = -1
	}
	return c
}

// put writes s starting at (x, y), clipping at the edges.
func (c *canvas) put(x, y int, s string, st lipgloss.Style) {
	if y < 0 || y >= c.h {
		return
	}
	idx := len(c.styles)
	c.styles = append(c.styles, st)
	for _, r := range s {
		if x >= 0 && x < c.w {
			c.runes[y*c.w+x] = r
			c.style[y*c.w+x] = idx
		}
		x++
	}
}

// putCentered writes s centered on column x.
func (c *canvas) putCentered(x, y int, s string, st lipgloss.Style) {
	c.put(x-lipgloss.Width(s)/2, y, s, st)
}

func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		row := y * c.w
		start := 0
		for x := 1; x <= c.w; x++ {
			if x < c.w && c.style[row+x] == c.style[row+start] {
				continue
			}
			run := string(c.runes[row+start : row+x])
			if s := c.style[row+start]; s >= 0 {
				run = c.styles[s].Render(run)
			}
			b.WriteString(run)
			start = x
		}
		if y < c.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
