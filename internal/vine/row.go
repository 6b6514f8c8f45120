package vine

import "strings"

// NoColor marks a cell painted without a lane color.
const NoColor = -1

// Cell is one column of a row and the gap to its right.
type Cell struct {
	Glyph    string
	Color    int // Lane color index, or NoColor
	Gap      string
	GapColor int
}

// Row is one rendered line of the graph.
type Row struct {
	Cells  []Cell
	Commit bool // The row carries the commit marker and its text
}

// Painter colors a string with a lane color index.
type Painter interface {
	Paint(s string, color int) string
}

type plain struct{}

func (plain) Paint(s string, _ int) string { return s }

// Plain paints nothing.
var Plain Painter = plain{}

// Margins are blank columns around the graph.
type Margins struct {
	Left  int
	Right int
}

// Render draws the row between the margins.
func (r Row) Render(m Margins, p Painter) string {
	if p == nil {
		p = Plain
	}
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", max(m.Left, 0)))
	for i, cell := range r.Cells {
		b.WriteString(p.Paint(cell.Glyph, cell.Color))
		if i < len(r.Cells)-1 {
			b.WriteString(p.Paint(cell.Gap, cell.GapColor))
		}
	}
	b.WriteString(strings.Repeat(" ", max(m.Right, 0)))
	return b.String()
}
