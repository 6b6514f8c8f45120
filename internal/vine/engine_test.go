package vine

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/gorewood/git-vines/internal/git"
)

type node struct {
	hash    string
	parents []string
}

func n(hash string, parents ...string) node {
	return node{hash: hash, parents: parents}
}

// history turns nodes in log order into commits with a lookahead window
// of depth-1 hashes, as the log stream produces them.
func history(depth int, nodes ...node) []*git.Commit {
	commits := make([]*git.Commit, len(nodes))
	for i, nd := range nodes {
		next := []string{}
		for j := i + 1; j < len(nodes) && j < i+depth; j++ {
			next = append(next, nodes[j].hash)
		}
		commits[i] = &git.Commit{Hash: nd.hash, Parents: nd.parents, Next: next}
	}
	return commits
}

// draw feeds commits to e and renders every row without color or margins.
func draw(e *Engine, commits []*git.Commit) []string {
	var lines []string
	for _, c := range commits {
		for _, row := range e.Step(c) {
			lines = append(lines, row.Render(Margins{}, Plain))
		}
	}
	for _, row := range e.Flush() {
		lines = append(lines, row.Render(Margins{}, Plain))
	}
	return lines
}

func TestEngine_LinearHistory(t *testing.T) {
	var nodes []node
	for i := range 12 {
		var parents []string
		if i < 11 {
			parents = []string{fmt.Sprintf("c%02d", i+1)}
		}
		nodes = append(nodes, n(fmt.Sprintf("c%02d", i), parents...))
	}

	e := NewEngine(Options{})
	var colors []int
	var glyphs []string
	for _, c := range history(2, nodes...) {
		rows := e.Step(c)
		if len(rows) != 1 || !rows[0].Commit {
			t.Fatalf("commit %s: got %d rows, want one commit row", c.Hash, len(rows))
		}
		if len(rows[0].Cells) != 1 {
			t.Fatalf("commit %s: got %d cells, want 1", c.Hash, len(rows[0].Cells))
		}
		colors = append(colors, rows[0].Cells[0].Color)
		glyphs = append(glyphs, rows[0].Cells[0].Glyph)
	}

	if len(e.Flush()) != 0 {
		t.Error("Flush() should have nothing pending")
	}
	if e.MaxLanes() != 1 {
		t.Errorf("MaxLanes() = %d, want 1", e.MaxLanes())
	}
	for i, color := range colors {
		if color != colors[0] {
			t.Errorf("row %d color = %d, want %d", i, color, colors[0])
		}
	}
	g := GlyphsFor(Single)
	for i, glyph := range glyphs[:len(glyphs)-1] {
		if glyph != g.Commit {
			t.Errorf("row %d glyph = %q, want %q", i, glyph, g.Commit)
		}
	}
	if last := glyphs[len(glyphs)-1]; last != g.Root {
		t.Errorf("last glyph = %q, want %q", last, g.Root)
	}
	if len(e.Lanes()) != 0 {
		t.Errorf("Lanes() after the root = %v, want none", e.Lanes())
	}
}

func TestEngine_Layouts(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		nodes []node
		want  []string
	}{
		{
			name:  "two commit linear",
			depth: 2,
			nodes: []node{n("C", "R"), n("R")},
			want:  []string{"●", "■"},
		},
		{
			name:  "merge with unreferenced second parent",
			depth: 2,
			nodes: []node{n("M", "A", "B"), n("B"), n("A")},
			want:  []string{"◎", "├─┐", "│ ■", "■"},
		},
		{
			name:  "diamond",
			depth: 1,
			nodes: []node{n("D", "B", "C"), n("B", "A"), n("C", "A"), n("A")},
			want:  []string{"◎", "├─┐", "● │", "│ ●", "├─┘", "■"},
		},
		{
			name:  "overpass across an unrelated lane",
			depth: 1,
			nodes: []node{n("X", "P"), n("Y", "Q"), n("M", "R", "P"), n("Q"), n("R"), n("P")},
			want:  []string{"●", "│ ○", "│ │ ○", "├─═─┤", "│ ■ │", "│   ■", "■"},
		},
		{
			name:  "octopus merge",
			depth: 1,
			nodes: []node{n("O", "A", "B", "C"), n("C"), n("B"), n("A")},
			want:  []string{"◎", "├─┬─┐", "│ │ ■", "│ ■", "■"},
		},
		{
			name:  "second tip converging",
			depth: 1,
			nodes: []node{n("X", "A"), n("Y", "A"), n("A")},
			want:  []string{"●", "│ ○", "├─┘", "■"},
		},
		{
			name:  "merge as last commit",
			depth: 2,
			nodes: []node{n("M", "A", "B")},
			want:  []string{"◎", "├─┐"},
		},
		{
			name:  "convergence from the right of a free column",
			depth: 1,
			nodes: []node{n("X", "A"), n("Y", "Z"), n("W", "A"), n("Z"), n("A")},
			want:  []string{"●", "│ ○", "│ │ ○", "│ ■ │", "├───┘", "■"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(Options{})
			got := draw(e, history(tt.depth, tt.nodes...))
			if !slices.Equal(got, tt.want) {
				t.Errorf("rows:\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestEngine_LookaheadHold(t *testing.T) {
	nodes := []node{n("M", "A", "B"), n("B"), n("T"), n("A")}

	t.Run("freed column stays reserved within the window", func(t *testing.T) {
		e := NewEngine(Options{})
		commits := history(3, nodes...)
		e.Step(commits[0])
		e.Step(commits[1])

		lanes := e.Lanes()
		if len(lanes) != 2 || !lanes[1].Held || lanes[1].Expect != "" {
			t.Fatalf("Lanes() after B = %+v, want a held free column 1", lanes)
		}

		rows := e.Step(commits[2])
		if got := rows[len(rows)-1].Render(Margins{}, Plain); got != "│   ■" {
			t.Errorf("T row = %q, want the tip appended past the held column", got)
		}

		e.Step(commits[3])
		if len(e.Lanes()) != 0 {
			t.Errorf("Lanes() at the end = %+v, want none", e.Lanes())
		}
	})

	t.Run("no lookahead reuses the column", func(t *testing.T) {
		e := NewEngine(Options{})
		got := draw(e, history(1, nodes...))
		want := []string{"◎", "├─┐", "│ ■", "│ ■", "■"}
		if !slices.Equal(got, want) {
			t.Errorf("rows = %q, want %q", got, want)
		}
	})

	t.Run("depth option clips the window", func(t *testing.T) {
		e := NewEngine(Options{Depth: 1})
		commits := history(3, nodes...)
		e.Step(commits[0])
		e.Step(commits[1])
		for _, l := range e.Lanes() {
			if l.Held {
				t.Errorf("Lanes() = %+v, want no held column at depth 1", e.Lanes())
			}
		}
	})
}

func TestEngine_ConvergenceFreesOneLane(t *testing.T) {
	e := NewEngine(Options{})
	for _, c := range history(1, n("D", "B", "C"), n("B", "A"), n("C", "A")) {
		e.Step(c)
	}
	before := e.Lanes()
	if len(before) != 2 || before[0].Expect != "A" || before[1].Expect != "A" {
		t.Fatalf("Lanes() before A = %+v, want two lanes expecting A", before)
	}

	e.Step(&git.Commit{Hash: "A", Parents: []string{"Z"}})

	lanes := e.Lanes()
	if len(lanes) != 1 {
		t.Fatalf("Lanes() after A = %+v, want one lane", lanes)
	}
	if lanes[0].Expect != "Z" || lanes[0].Color != before[0].Color {
		t.Errorf("Lanes()[0] = %+v, want the left lane expecting Z", lanes[0])
	}
}

func TestEngine_ColorsCycleIndependentlyOfColumns(t *testing.T) {
	e := NewEngine(Options{Colors: 2})

	var colors []int
	for _, c := range history(1, n("R1"), n("R2"), n("R3")) {
		rows := e.Step(c)
		cell := rows[len(rows)-1].Cells[0]
		colors = append(colors, cell.Color)
	}

	if want := []int{0, 1, 0}; !slices.Equal(colors, want) {
		t.Errorf("colors = %v, want %v", colors, want)
	}
}

func TestEngine_ColorsSkipActiveLanes(t *testing.T) {
	e := NewEngine(Options{Colors: 3})
	// Lane 0 takes color 0; the root in column 1 takes 1 and frees it.
	for _, c := range history(1, n("X", "A"), n("R"), n("Y", "B")) {
		e.Step(c)
	}
	lanes := e.Lanes()
	if len(lanes) != 2 {
		t.Fatalf("Lanes() = %+v, want two lanes", lanes)
	}
	if lanes[0].Color != 0 || lanes[1].Color != 2 {
		t.Errorf("colors = %d, %d, want 0, 2", lanes[0].Color, lanes[1].Color)
	}
}

func TestEngine_GlyphOverrides(t *testing.T) {
	glyphs := GlyphsFor(Double).With(Overrides{Commit: "*", Root: "#"})
	e := NewEngine(Options{Glyphs: glyphs})

	got := draw(e, history(2, n("M", "A", "B"), n("B"), n("A", "R"), n("R")))
	want := []string{"◎", "╠═╗", "║ #", "*", "#"}
	if !slices.Equal(got, want) {
		t.Errorf("rows = %q, want %q", got, want)
	}
}

// Every parent of a commit is represented by a lane once the commit is laid
// out, and the commit's own hash is no longer expected.
func TestEngine_RandomHistoriesKeepParentsRepresented(t *testing.T) {
	for seed := range uint64(25) {
		rng := rand.New(rand.NewPCG(seed, 7))
		nodes := randomHistory(rng, 80)
		depth := 1 + rng.IntN(4)

		e := NewEngine(Options{Colors: 4})
		for _, c := range history(depth, nodes...) {
			rows := e.Step(c)
			if len(rows) == 0 || !rows[len(rows)-1].Commit {
				t.Fatalf("seed %d commit %s: last row is not the commit row", seed, c.Hash)
			}
			for _, row := range rows[:len(rows)-1] {
				if row.Commit {
					t.Fatalf("seed %d commit %s: more than one commit row", seed, c.Hash)
				}
			}

			lanes := e.Lanes()
			for _, p := range c.Parents {
				if !slices.ContainsFunc(lanes, func(l Lane) bool { return l.Expect == p }) {
					t.Fatalf("seed %d commit %s: parent %s has no lane (%+v)", seed, c.Hash, p, lanes)
				}
			}
			for i, l := range lanes {
				if l.Expect == c.Hash {
					t.Fatalf("seed %d commit %s: lane %d still expects it", seed, c.Hash, i)
				}
				if l.Color < 0 || l.Color >= 4 {
					t.Fatalf("seed %d: lane %d color %d out of palette", seed, i, l.Color)
				}
			}
			if k := len(lanes); k > 0 && lanes[k-1].Expect == "" && !lanes[k-1].Held {
				t.Fatalf("seed %d commit %s: trailing free column kept", seed, c.Hash)
			}
		}
		e.Flush()
		if lanes := e.Lanes(); len(lanes) != 0 {
			t.Errorf("seed %d: lanes left after the last root: %+v", seed, lanes)
		}
	}
}

// randomHistory builds count commits in log order. Parents always come later
// in the order, and the last commit is a root.
func randomHistory(rng *rand.Rand, count int) []node {
	nodes := make([]node, count)
	for i := range nodes {
		hash := fmt.Sprintf("c%03d", i)
		var parents []string
		remaining := count - 1 - i
		if remaining > 0 {
			want := 1
			switch r := rng.IntN(20); {
			case r < 2:
				want = 0
			case r < 6:
				want = 2
			case r < 7:
				want = 3
			}
			for range want {
				j := i + 1 + rng.IntN(min(remaining, 8))
				parent := fmt.Sprintf("c%03d", j)
				if !slices.Contains(parents, parent) {
					parents = append(parents, parent)
				}
			}
		}
		nodes[i] = n(hash, parents...)
	}
	return nodes
}
