package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes graph rows to one writer through a renderer whose color
// profile is fixed for the whole run.
type Printer struct {
	w        io.Writer
	renderer *lipgloss.Renderer
}

// NewPrinter creates a Printer. Styles from its renderer emit ANSI codes only
// when color is true.
func NewPrinter(writer io.Writer, color bool) *Printer {
	return &Printer{
		w:        writer,
		renderer: NewRenderer(writer, color),
	}
}

// Renderer returns the lipgloss renderer bound to the writer.
func (p *Printer) Renderer() *lipgloss.Renderer {
	return p.renderer
}

// Println writes a line to the output.
func (p *Printer) Println(args ...any) {
	mustWrite(fmt.Fprintln(p.w, args...))
}

// mustWrite panics if a write operation fails.
// Writes go to stdout or an in-memory buffer, which do not fail in practice.
func mustWrite(_ int, err error) {
	if err != nil {
		panic(fmt.Sprintf("write failed: %v", err))
	}
}
