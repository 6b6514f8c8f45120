// Package render turns laid-out vine rows and commits into printed lines.
package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gorewood/git-vines/internal/vine"
)

// laneColors is a small high-contrast palette for dark terminals, after
// gitk's defaults.
var laneColors = []string{"#00ff00", "#ff5c5c", "#4fa3ff", "#d56bff", "#a0a0a0", "#d09a6b", "#ffb347"}

// Palette paints lanes and tags. With color disabled every method returns
// its input unchanged.
type Palette struct {
	color bool
	lanes []lipgloss.Style
	tag   lipgloss.Style
}

// NewPalette builds the palette on renderer.
func NewPalette(renderer *lipgloss.Renderer, color bool) *Palette {
	p := &Palette{
		color: color,
		tag:   renderer.NewStyle().Foreground(lipgloss.Color("13")).Bold(true), // Magenta
	}
	for _, c := range laneColors {
		p.lanes = append(p.lanes, renderer.NewStyle().Foreground(lipgloss.Color(c)))
	}
	return p
}

// Size returns the number of lane colors.
func (p *Palette) Size() int {
	return len(p.lanes)
}

// Paint colors s with lane color index color. It implements vine.Painter.
func (p *Palette) Paint(s string, color int) string {
	if !p.color || color == vine.NoColor || s == "" {
		return s
	}
	return p.lanes[color%len(p.lanes)].Render(s)
}

// Tag paints a tag decoration.
func (p *Palette) Tag(s string) string {
	if !p.color {
		return s
	}
	return p.tag.Render(s)
}
