package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type class uint8

const (
	classNone class = iota
	classWidget
	classHover
	classTip
	classPinned
	classGhost
	classCursor
)

var (
	colorCyan  = lipgloss.Color("36")
	colorAmber = lipgloss.Color("220")
	colorWhite = lipgloss.Color("255")
	colorDim   = lipgloss.Color("240")

	classStyles = [...]lipgloss.Style{
		classNone:   lipgloss.NewStyle(),
		classWidget: lipgloss.NewStyle().Foreground(colorWhite),
		classHover:  lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
		classTip:    lipgloss.NewStyle().Foreground(colorWhite),
		classPinned: lipgloss.NewStyle().Foreground(colorAmber),
		classGhost:  lipgloss.NewStyle().Foreground(colorDim),
		classCursor: lipgloss.NewStyle().Foreground(colorCyan).Reverse(true),
	}

	// tipBox draws a tip; it carries no colors so measured and painted
	// output match cell for cell.
	tipBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	statusStyle = lipgloss.NewStyle().Foreground(colorDim)
)

type cell struct {
	r rune
	c class
}

// canvas is a fixed grid of styled cells.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	cv := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range cv.cells {
		cv.cells[i] = cell{r: ' '}
	}
	return cv
}

func (cv *canvas) set(x, y int, r rune, c class) {
	if x < 0 || y < 0 || x >= cv.w || y >= cv.h {
		return
	}
	cv.cells[y*cv.w+x] = cell{r: r, c: c}
}

// paint writes a multi-line block with its top-left cell at (x, y).
func (cv *canvas) paint(x, y int, block string, c class) {
	for dy, line := range strings.Split(block, "\n") {
		for dx, r := range []rune(line) {
			cv.set(x+dx, y+dy, r, c)
		}
	}
}

// String renders the grid, styling runs of cells that share a class.
func (cv *canvas) String() string {
	var b strings.Builder
	for y := 0; y < cv.h; y++ {
		row := cv.cells[y*cv.w : (y+1)*cv.w]
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].c == row[start].c {
				continue
			}
			run := make([]rune, 0, x-start)
			for _, c := range row[start:x] {
				run = append(run, c.r)
			}
			b.WriteString(classStyles[row[start].c].Render(string(run)))
			start = x
		}
		if y < cv.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
