package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/git-vines/internal/config"
	"github.com/gorewood/git-vines/internal/git"
	"github.com/gorewood/git-vines/internal/graph"
	"github.com/gorewood/git-vines/internal/output"
	"github.com/gorewood/git-vines/internal/vine"
)

// styleCodes maps the numeric --style selector to a glyph set.
var styleCodes = map[int]vine.Style{
	1:  vine.Single,
	2:  vine.Double,
	10: vine.Rounded,
	15: vine.Bold,
}

// styleFromCode returns the glyph set for a --style value.
func styleFromCode(code int) (vine.Style, error) {
	style, ok := styleCodes[code]
	if !ok {
		return vine.Single, output.NewUserError(fmt.Sprintf(
			"invalid --style %d (1=single, 2=double, 10=rounded, 15=bold)", code))
	}
	return style, nil
}

// graphFlagVars holds the flag variable pointers for the root command.
type graphFlagVars struct {
	svdepth     *int
	status      *bool
	style       *int
	marginLeft  *int
	marginRight *int
	commit      *string
	merge       *string
	overpass    *string
	root        *string
	tip         *string
	color       *string
	debug       *bool
	dir         *string
	maxProcs    *int
	config      *string
}

// newGraphFlagVars creates initialized flag variable pointers.
func newGraphFlagVars() *graphFlagVars {
	return &graphFlagVars{
		svdepth:     new(int),
		status:      new(bool),
		style:       new(int),
		marginLeft:  new(int),
		marginRight: new(int),
		commit:      new(string),
		merge:       new(string),
		overpass:    new(string),
		root:        new(string),
		tip:         new(string),
		color:       new(string),
		debug:       new(bool),
		dir:         new(string),
		maxProcs:    new(int),
		config:      new(string),
	}
}

// register binds the flags to cmd.
func (vars *graphFlagVars) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(vars.svdepth, "svdepth", graph.DefaultDepth, "Sub-vine lookahead depth")
	flags.BoolVar(vars.status, "status", true, "Show working-tree status after HEAD")
	flags.IntVar(vars.style, "style", 1, "Graph style: 1=single, 2=double, 10=rounded, 15=bold")
	flags.IntVar(vars.marginLeft, "graph-margin-left", graph.DefaultMargin, "Blank columns left of the graph")
	flags.IntVar(vars.marginRight, "graph-margin-right", graph.DefaultMargin, "Blank columns right of the graph")
	flags.StringVar(vars.commit, "graph-symbol-commit", "", "Commit glyph (default ●)")
	flags.StringVar(vars.merge, "graph-symbol-merge", "", "Merge glyph (default ◎)")
	flags.StringVar(vars.overpass, "graph-symbol-overpass", "", "Overpass glyph (default ═)")
	flags.StringVar(vars.root, "graph-symbol-root", "", "Root glyph (default ■)")
	flags.StringVar(vars.tip, "graph-symbol-tip", "", "Tip glyph (default ○)")
	flags.StringVar(vars.color, "color", "auto", "Color output: auto, always, never")
	flags.BoolVar(vars.debug, "debug", false, "Log git invocations and timings to stderr")
	flags.StringVarP(vars.dir, "directory", "C", "", "Run as if started in `path`")
	flags.IntVar(vars.maxProcs, "max-procs", git.DefaultLimit, "Maximum concurrent git processes")
	flags.StringVar(vars.config, "config", config.Path(), "Config file `path`")
}

// applyConfig copies config file values into flags the user did not set.
func (vars *graphFlagVars) applyConfig(cmd *cobra.Command, file *config.File) {
	changed := cmd.Flags().Changed
	setInt := func(name string, dst *int, src *int) {
		if src != nil && !changed(name) {
			*dst = *src
		}
	}
	setString := func(name string, dst *string, src string) {
		if src != "" && !changed(name) {
			*dst = src
		}
	}

	setInt("svdepth", vars.svdepth, file.SVDepth)
	setInt("style", vars.style, file.Style)
	setInt("graph-margin-left", vars.marginLeft, file.GraphMarginLeft)
	setInt("graph-margin-right", vars.marginRight, file.GraphMarginRight)
	setInt("max-procs", vars.maxProcs, file.MaxProcs)
	if file.Status != nil && !changed("status") {
		*vars.status = *file.Status
	}
	if file.Color != nil {
		setString("color", vars.color, *file.Color)
	}
	setString("graph-symbol-commit", vars.commit, file.Symbols.Commit)
	setString("graph-symbol-merge", vars.merge, file.Symbols.Merge)
	setString("graph-symbol-overpass", vars.overpass, file.Symbols.Overpass)
	setString("graph-symbol-root", vars.root, file.Symbols.Root)
	setString("graph-symbol-tip", vars.tip, file.Symbols.Tip)
}

// options validates the flags and builds the run options.
func (vars *graphFlagVars) options(revisions []string) (graph.Options, error) {
	if *vars.svdepth < 1 {
		return graph.Options{}, output.NewUserError("--svdepth must be at least 1")
	}
	if *vars.marginLeft < 0 || *vars.marginRight < 0 {
		return graph.Options{}, output.NewUserError("graph margins must not be negative")
	}
	if *vars.maxProcs < 1 {
		return graph.Options{}, output.NewUserError("--max-procs must be at least 1")
	}
	switch *vars.color {
	case "auto", "always", "never":
	default:
		return graph.Options{}, output.NewUserError(fmt.Sprintf("invalid --color %q (auto, always, never)", *vars.color))
	}
	style, err := styleFromCode(*vars.style)
	if err != nil {
		return graph.Options{}, err
	}

	return graph.Options{
		Dir:       *vars.dir,
		Revisions: revisions,
		Depth:     *vars.svdepth,
		Style:     style,
		Overrides: vine.Overrides{
			Commit:   *vars.commit,
			Merge:    *vars.merge,
			Overpass: *vars.overpass,
			Root:     *vars.root,
			Tip:      *vars.tip,
		},
		Status:   *vars.status,
		Margins:  vine.Margins{Left: *vars.marginLeft, Right: *vars.marginRight},
		MaxProcs: *vars.maxProcs,
	}, nil
}
