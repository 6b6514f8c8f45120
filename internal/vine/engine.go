package vine

import (
	"slices"

	"github.com/gorewood/git-vines/internal/git"
)

// DefaultColors is the palette size used when Options.Colors is unset.
const DefaultColors = 6

// lane is one column of the graph. A free lane expects nothing.
type lane struct {
	expect string
	color  int
	hold   string // Hash that must be rendered before the column is reused
}

func (l lane) free() bool { return l.expect == "" }

// Lane is a snapshot of one column.
type Lane struct {
	Expect string // Hash the lane waits for; empty when free
	Color  int
	Held   bool // Free but reserved until a commit in the lookahead window renders
}

type connKind int

const (
	connMerge    connKind = iota // End lane stops, joining the hub lane
	connBranch                   // End lane starts, fed by the hub lane
	connOverpass                 // End lane continues, joined by the hub lane
)

// connector is a horizontal link between a hub lane and an end lane.
type connector struct {
	kind  connKind
	hub   int
	end   int
	color int
}

func (c connector) span() (lo, hi int) {
	return min(c.hub, c.end), max(c.hub, c.end)
}

// Options configures an Engine.
type Options struct {
	Glyphs Glyphs
	Colors int // Palette size; lane colors cycle through [0, Colors)
	Depth  int // Lookahead depth; 0 consults all of Commit.Next
}

// Engine is the lane state machine. It is not safe for concurrent use.
type Engine struct {
	glyphs  Glyphs
	colors  int
	depth   int
	lanes   []lane
	cursor  int
	pending []connector
	started bool
	most    int
}

// NewEngine creates an Engine with no lanes.
func NewEngine(opts Options) *Engine {
	if opts.Colors < 1 {
		opts.Colors = DefaultColors
	}
	if opts.Glyphs == (Glyphs{}) {
		opts.Glyphs = GlyphsFor(Single)
	}
	return &Engine{
		glyphs: opts.Glyphs,
		colors: opts.Colors,
		depth:  opts.Depth,
	}
}

// Lanes returns a snapshot of the current columns.
func (e *Engine) Lanes() []Lane {
	lanes := make([]Lane, len(e.lanes))
	for i, l := range e.lanes {
		lanes[i] = Lane{Expect: l.expect, Color: l.color, Held: l.hold != ""}
	}
	return lanes
}

// MaxLanes returns the widest the graph has been.
func (e *Engine) MaxLanes() int {
	return e.most
}

// Step lays out c and returns its rows: transition rows first, then the
// commit row. Branch and overpass connectors of a merge are drawn in the
// transition row of the following commit, or by Flush.
func (e *Engine) Step(c *git.Commit) []Row {
	owners := e.owners(c.Hash)
	conns := e.pending
	e.pending = nil

	tip := len(owners) == 0
	var freed []int
	if !tip {
		for _, q := range owners[1:] {
			conns = append(conns, connector{kind: connMerge, hub: owners[0], end: q, color: e.lanes[q].color})
			e.lanes[q].expect = ""
			freed = append(freed, q)
		}
	}
	rows := e.transitions(conns)

	var primary int
	if tip {
		primary = e.allocate()
		e.lanes[primary] = lane{expect: c.Hash, color: e.nextColor()}
	} else {
		primary = owners[0]
	}
	rows = append(rows, e.commitRow(primary, e.classify(c, tip)))
	e.started = true

	if c.IsRoot() {
		e.lanes[primary].expect = ""
		freed = append(freed, primary)
	} else {
		e.route(primary, c)
	}
	for _, i := range freed {
		e.reserve(i, c)
	}
	e.settle(c.Hash)
	return rows
}

// Flush returns the connectors still pending after the last commit.
func (e *Engine) Flush() []Row {
	conns := e.pending
	e.pending = nil
	return e.transitions(conns)
}

func (e *Engine) owners(hash string) []int {
	var owners []int
	for i, l := range e.lanes {
		if l.expect == hash {
			owners = append(owners, i)
		}
	}
	return owners
}

// classify picks the commit marker. A root wins over a tip, a tip over a merge.
// The first commit of the run is never drawn as a tip.
func (e *Engine) classify(c *git.Commit, tip bool) string {
	switch {
	case c.IsRoot():
		return e.glyphs.Root
	case tip && e.started:
		return e.glyphs.Tip
	case c.IsMerge():
		return e.glyphs.Merge
	default:
		return e.glyphs.Commit
	}
}

// route points the primary lane at the first parent and gives every other
// parent either an overpass to the lane already expecting it or a new lane.
func (e *Engine) route(primary int, c *git.Commit) {
	first := c.Parents[0]
	e.lanes[primary].expect = first

	for i, parent := range c.Parents[1:] {
		if parent == first || slices.Contains(c.Parents[1:i+1], parent) {
			continue
		}
		if target := e.expecting(parent, primary); target >= 0 {
			e.pending = append(e.pending, connector{kind: connOverpass, hub: primary, end: target, color: e.lanes[target].color})
			continue
		}
		col := e.allocate()
		e.lanes[col] = lane{expect: parent, color: e.nextColor()}
		e.pending = append(e.pending, connector{kind: connBranch, hub: primary, end: col, color: e.lanes[col].color})
	}
}

// expecting returns the leftmost lane other than skip expecting hash, or -1.
func (e *Engine) expecting(hash string, skip int) int {
	for i, l := range e.lanes {
		if i != skip && l.expect == hash {
			return i
		}
	}
	return -1
}

// reserve keeps the freed column i out of reuse while a commit in the
// lookahead window is expected by another lane. The farthest such commit
// lifts the reservation once it renders.
func (e *Engine) reserve(i int, c *git.Commit) {
	if !e.lanes[i].free() {
		return
	}
	next := c.Next
	if e.depth > 0 && len(next) > e.depth-1 {
		next = next[:e.depth-1]
	}
	for j := len(next) - 1; j >= 0; j-- {
		if e.expecting(next[j], i) >= 0 {
			e.lanes[i].hold = next[j]
			return
		}
	}
}

// allocate returns the leftmost free, unreserved column, appending one when
// none is available.
func (e *Engine) allocate() int {
	for i, l := range e.lanes {
		if l.free() && l.hold == "" {
			return i
		}
	}
	e.lanes = append(e.lanes, lane{})
	return len(e.lanes) - 1
}

// nextColor returns the first color from the cursor that no active lane
// uses, or the cursor's color when every color is taken.
func (e *Engine) nextColor() int {
	used := make([]bool, e.colors)
	for _, l := range e.lanes {
		if !l.free() {
			used[l.color] = true
		}
	}
	color := e.cursor
	for k := range e.colors {
		candidate := (e.cursor + k) % e.colors
		if !used[candidate] {
			color = candidate
			break
		}
	}
	e.cursor = (color + 1) % e.colors
	return color
}

// settle lifts reservations waiting for hash and drops trailing free columns.
func (e *Engine) settle(hash string) {
	for i := range e.lanes {
		if e.lanes[i].hold == hash {
			e.lanes[i].hold = ""
		}
	}
	end := len(e.lanes)
	for end > 0 && e.lanes[end-1].free() && e.lanes[end-1].hold == "" {
		end--
	}
	e.lanes = e.lanes[:end]
}

func (e *Engine) active() []bool {
	live := make([]bool, len(e.lanes))
	for i, l := range e.lanes {
		live[i] = !l.free()
	}
	return live
}

func (e *Engine) commitRow(primary int, marker string) Row {
	live := e.active()
	cells := make([]Cell, len(e.lanes))
	for i := range cells {
		cells[i] = Cell{Glyph: e.glyphs.Filler, Color: NoColor, Gap: " ", GapColor: NoColor}
		if live[i] {
			cells[i].Glyph = e.glyphs.Straight
			cells[i].Color = e.lanes[i].color
		}
	}
	cells[primary].Glyph = marker
	cells[primary].Color = e.lanes[primary].color
	e.most = max(e.most, len(e.lanes))
	return Row{Cells: trim(cells, e.glyphs.Filler), Commit: true}
}

// transitions packs connectors into rows. Connectors sharing a hub may share
// a row; otherwise their spans must not touch.
func (e *Engine) transitions(conns []connector) []Row {
	if len(conns) == 0 {
		return nil
	}

	// Lanes started by a branch connector have nothing above them yet;
	// lanes ended by a merge connector are still live until their row.
	live := e.active()
	for _, c := range conns {
		switch c.kind {
		case connBranch:
			live[c.end] = false
		case connMerge:
			live[c.end] = true
		}
	}

	var rows []Row
	for len(conns) > 0 {
		var batch, rest []connector
		for _, c := range conns {
			if fits(batch, c) {
				batch = append(batch, c)
			} else {
				rest = append(rest, c)
			}
		}
		var row Row
		row, live = e.transitionRow(batch, live)
		rows = append(rows, row)
		conns = rest
	}
	return rows
}

func fits(batch []connector, c connector) bool {
	lo, hi := c.span()
	for _, b := range batch {
		if b.hub == c.hub {
			continue
		}
		blo, bhi := b.span()
		if lo <= bhi && blo <= hi {
			return false
		}
	}
	return true
}

// cellFlags are the line directions meeting in one cell.
type cellFlags struct {
	up, down, left, right bool
	endpoint              bool
	color                 int
}

func (e *Engine) transitionRow(batch []connector, live []bool) (Row, []bool) {
	width := len(live)
	flags := make([]cellFlags, width)
	gaps := make([]int, width) // Connector color across the gap right of each column
	for i := range flags {
		flags[i] = cellFlags{up: live[i], down: live[i], color: NoColor}
		if live[i] {
			flags[i].color = e.lanes[i].color
		}
		gaps[i] = NoColor
	}

	for _, c := range batch {
		lo, hi := c.span()
		end := &flags[c.end]
		end.endpoint = true
		end.color = c.color
		switch c.kind {
		case connBranch:
			end.up, end.down = false, true
		case connMerge:
			end.up, end.down = true, false
		}
		hub := &flags[c.hub]
		hub.endpoint = true
		if c.end > c.hub {
			hub.right, end.left = true, true
		} else {
			hub.left, end.right = true, true
		}
		for i := lo + 1; i < hi; i++ {
			flags[i].left, flags[i].right = true, true
			if !flags[i].endpoint {
				flags[i].color = c.color
			}
		}
		for i := lo; i < hi; i++ {
			gaps[i] = c.color
		}
	}

	next := make([]bool, width)
	cells := make([]Cell, width)
	for i, f := range flags {
		next[i] = f.down
		cells[i] = Cell{Glyph: e.glyph(f), Color: f.color, Gap: " ", GapColor: NoColor}
		if gaps[i] != NoColor {
			cells[i].Gap = e.glyphs.Horizontal
			cells[i].GapColor = gaps[i]
		}
	}
	e.most = max(e.most, width)
	return Row{Cells: trim(cells, e.glyphs.Filler)}, next
}

func (e *Engine) glyph(f cellFlags) string {
	g := e.glyphs
	if !f.endpoint {
		switch {
		case f.left && f.right && f.up:
			return g.Overpass
		case f.left && f.right:
			return g.Horizontal
		case f.up:
			return g.Straight
		default:
			return g.Filler
		}
	}
	switch {
	case f.up && f.down && f.left && f.right:
		return g.JoinBoth
	case f.up && f.down && f.left:
		return g.JoinLeft
	case f.up && f.down:
		return g.JoinRight
	case f.down && f.left && f.right:
		return g.BranchCenter
	case f.down && f.left:
		return g.BranchRight
	case f.down:
		return g.BranchLeft
	case f.left && f.right:
		return g.MergeCenter
	case f.left:
		return g.MergeRight
	default:
		return g.MergeLeft
	}
}

// trim drops trailing filler cells, keeping at least one.
func trim(cells []Cell, filler string) []Cell {
	end := len(cells)
	for end > 1 && cells[end-1].Glyph == filler && cells[end-1].Color == NoColor {
		end--
	}
	return cells[:end]
}
