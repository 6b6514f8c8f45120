// Package vine lays out commit history as a multi-lane terminal graph.
//
// The Engine consumes commits in log order (children before parents) and
// emits rows of glyph cells: an optional transition row carrying branch,
// merge and overpass connectors, then the commit row itself.
package vine

import (
	"fmt"
	"strings"
)

// Style selects a built-in glyph set.
type Style int

// Built-in styles.
const (
	Single Style = iota
	Double
	Rounded
	Bold
)

var styleNames = map[Style]string{
	Single:  "single",
	Double:  "double",
	Rounded: "rounded",
	Bold:    "bold",
}

// String returns the style name.
func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseStyle returns the style with the given name.
func ParseStyle(name string) (Style, error) {
	for style, styleName := range styleNames {
		if strings.EqualFold(name, styleName) {
			return style, nil
		}
	}
	return Single, fmt.Errorf("unknown style %q (want single, double, rounded or bold)", name)
}

// Glyphs is a complete glyph set. Every field is one terminal cell wide.
type Glyphs struct {
	Commit string // Plain commit
	Merge  string // Commit with two or more parents
	Root   string // Commit without parents
	Tip    string // First commit of a lane not connected to earlier output

	Straight   string // Lane continuing vertically
	Horizontal string // Connector over a free column or a gap
	Overpass   string // Connector crossing an unrelated lane
	Filler     string // Free column

	MergeLeft   string // Lane ending, joining a lane on its right
	MergeCenter string // Lane ending, joined from both sides
	MergeRight  string // Lane ending, joining a lane on its left

	BranchLeft   string // Lane starting, fed from a lane on its right
	BranchCenter string // Lane starting, fed from both sides
	BranchRight  string // Lane starting, fed from a lane on its left

	JoinLeft  string // Continuing lane with a connector on its left
	JoinRight string // Continuing lane with a connector on its right
	JoinBoth  string // Continuing lane with connectors on both sides
}

// Overrides replaces individual glyphs of a set. Empty fields keep the
// style's glyph.
type Overrides struct {
	Commit   string
	Merge    string
	Overpass string
	Root     string
	Tip      string
}

// With returns g with the non-empty overrides applied.
func (g Glyphs) With(o Overrides) Glyphs {
	pick := func(override, fallback string) string {
		if override != "" {
			return override
		}
		return fallback
	}
	g.Commit = pick(o.Commit, g.Commit)
	g.Merge = pick(o.Merge, g.Merge)
	g.Overpass = pick(o.Overpass, g.Overpass)
	g.Root = pick(o.Root, g.Root)
	g.Tip = pick(o.Tip, g.Tip)
	return g
}

// markers are shared by every built-in style.
var markers = Glyphs{
	Commit:   "●",
	Merge:    "◎",
	Root:     "■",
	Tip:      "○",
	Overpass: "═",
	Filler:   " ",
}

func withLines(lines Glyphs) Glyphs {
	g := markers
	g.Straight = lines.Straight
	g.Horizontal = lines.Horizontal
	g.MergeLeft, g.MergeCenter, g.MergeRight = lines.MergeLeft, lines.MergeCenter, lines.MergeRight
	g.BranchLeft, g.BranchCenter, g.BranchRight = lines.BranchLeft, lines.BranchCenter, lines.BranchRight
	g.JoinLeft, g.JoinRight, g.JoinBoth = lines.JoinLeft, lines.JoinRight, lines.JoinBoth
	if lines.Overpass != "" {
		g.Overpass = lines.Overpass
	}
	return g
}

var styles = map[Style]Glyphs{
	Single: withLines(Glyphs{
		Straight: "│", Horizontal: "─",
		MergeLeft: "└", MergeCenter: "┴", MergeRight: "┘",
		BranchLeft: "┌", BranchCenter: "┬", BranchRight: "┐",
		JoinLeft: "┤", JoinRight: "├", JoinBoth: "┼",
	}),
	Double: withLines(Glyphs{
		Straight: "║", Horizontal: "═", Overpass: "─",
		MergeLeft: "╚", MergeCenter: "╩", MergeRight: "╝",
		BranchLeft: "╔", BranchCenter: "╦", BranchRight: "╗",
		JoinLeft: "╣", JoinRight: "╠", JoinBoth: "╬",
	}),
	Rounded: withLines(Glyphs{
		Straight: "│", Horizontal: "─",
		MergeLeft: "╰", MergeCenter: "┴", MergeRight: "╯",
		BranchLeft: "╭", BranchCenter: "┬", BranchRight: "╮",
		JoinLeft: "┤", JoinRight: "├", JoinBoth: "┼",
	}),
	Bold: withLines(Glyphs{
		Straight: "┃", Horizontal: "━",
		MergeLeft: "┗", MergeCenter: "┻", MergeRight: "┛",
		BranchLeft: "┏", BranchCenter: "┳", BranchRight: "┓",
		JoinLeft: "┫", JoinRight: "┣", JoinBoth: "╋",
	}),
}

// GlyphsFor returns the glyph set of style. Unknown styles fall back to Single.
func GlyphsFor(style Style) Glyphs {
	if g, ok := styles[style]; ok {
		return g
	}
	return styles[Single]
}
