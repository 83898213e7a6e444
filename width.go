package namedtree

import (
	"github.com/mattn/go-runewidth"
)

// Widths tracks the display width report columns need. Label is the widest
// row label seen; Columns holds, per leaf key, the widest rendered value of
// each member position. Every width only ever grows.
type Widths struct {
	Label   int
	Columns map[string][]int
}

func newWidths() *Widths {
	return &Widths{Columns: make(map[string][]int)}
}

// ObserveLabel widens the label column to fit label.
func (w *Widths) ObserveLabel(label string) {
	w.Label = max(w.Label, runewidth.StringWidth(label))
}

// ObserveCell widens column key at position pos to fit text.
func (w *Widths) ObserveCell(key string, pos int, text string) {
	w.widen(key, pos, runewidth.StringWidth(text))
}

func (w *Widths) widen(key string, pos, width int) {
	cols := w.Columns[key]
	for len(cols) <= pos {
		cols = append(cols, 0)
	}
	cols[pos] = max(cols[pos], width)
	w.Columns[key] = cols
}

// Column returns the width of key at pos, zero when never observed.
func (w Widths) Column(key string, pos int) int {
	cols := w.Columns[key]
	if pos >= len(cols) {
		return 0
	}
	return cols[pos]
}

func (w *Widths) clone() Widths {
	c := Widths{Label: w.Label, Columns: make(map[string][]int, len(w.Columns))}
	for k, cols := range w.Columns {
		c.Columns[k] = append([]int(nil), cols...)
	}
	return c
}

// padLeft right-aligns s in a field of width display cells.
func padLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}

// padRight left-aligns s in a field of width display cells.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}
