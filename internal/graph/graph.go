// Package graph runs the whole pipeline: repository state and the commit log
// are gathered concurrently, then every commit is laid out and printed.
package graph

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gorewood/git-vines/internal/git"
	"github.com/gorewood/git-vines/internal/logging"
	"github.com/gorewood/git-vines/internal/output"
	"github.com/gorewood/git-vines/internal/render"
	"github.com/gorewood/git-vines/internal/vine"
)

// Defaults shared by the command line and the MCP tool.
const (
	DefaultDepth  = 2
	DefaultMargin = 2
)

// Options configures one run.
type Options struct {
	Dir       string         // Repository path; "" means the current directory
	Revisions []string       // Log revisions; empty means every ref
	Depth     int            // Lookahead depth
	Style     vine.Style     // Glyph set
	Overrides vine.Overrides // Individual glyph replacements
	Status    bool           // Show working-tree status after HEAD
	Margins   vine.Margins   // Blank columns around the graph
	Color     bool           // Emit ANSI colors
	MaxProcs  int            // Concurrent git processes; 0 means git.DefaultLimit
	Binary    string         // Git executable; "" means "git"
	Location  *time.Location // Time zone for dates; nil means local
	Logger    *slog.Logger
}

// Stats summarizes a run.
type Stats struct {
	Commits  int
	MaxLanes int
}

// Run draws the graph to w.
//
// Errors gathering repository state are returned before anything is printed.
// A failing commit log stops the graph; rows already printed stay valid.
func Run(ctx context.Context, w io.Writer, opts Options) (Stats, error) {
	var stats Stats
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	start := time.Now()

	runnerOpts := []git.Option{git.WithDir(opts.Dir), git.WithLimit(opts.MaxProcs), git.WithLogger(logger)}
	if opts.Binary != "" {
		runnerOpts = append(runnerOpts, git.WithBinary(opts.Binary))
	}
	runner := git.NewRunner(runnerOpts...)
	session := git.NewSession(runner, logger)

	// Not errgroup.WithContext: the log process must outlive Wait.
	var group errgroup.Group
	var state *git.RepoState
	var stream *git.LogStream
	group.Go(func() error {
		var err error
		state, err = session.Collect(ctx, opts.Status)
		return err
	})
	group.Go(func() error {
		var err error
		stream, err = git.OpenLog(ctx, runner, git.LogOptions{
			Revisions: opts.Revisions,
			Color:     opts.Color,
			Depth:     opts.Depth,
		})
		if err != nil {
			return output.NewSystemErrorWithCause("starting git log", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		if stream != nil {
			_ = stream.Close()
		}
		return stats, err
	}

	printer := output.NewPrinter(w, opts.Color)
	palette := render.NewPalette(printer.Renderer(), opts.Color)
	engine := vine.NewEngine(vine.Options{
		Glyphs: vine.GlyphsFor(opts.Style).With(opts.Overrides),
		Colors: palette.Size(),
		Depth:  opts.Depth,
	})
	composer := render.NewComposer(state, palette, render.Options{
		Status:   opts.Status,
		Location: opts.Location,
	})

	emit := func(rows []vine.Row, commit *git.Commit) {
		for _, row := range rows {
			prefix := row.Render(opts.Margins, palette)
			if row.Commit {
				printer.Println(composer.Line(prefix, commit))
				continue
			}
			printer.Println(strings.TrimRight(prefix, " "))
		}
	}

	var streamErr error
	for {
		commit, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			streamErr = err
			break
		}
		stats.Commits++
		emit(engine.Step(commit), commit)
	}
	emit(engine.Flush(), nil)
	stats.MaxLanes = engine.MaxLanes()

	closeErr := stream.Close()
	logger.Debug("graph rendered",
		"commits", stats.Commits,
		"max_lanes", stats.MaxLanes,
		"elapsed", time.Since(start))

	if streamErr != nil {
		return stats, output.NewSystemErrorWithCause("reading commit log", streamErr)
	}
	if closeErr != nil {
		return stats, output.NewSystemErrorWithCause("git log failed", closeErr)
	}
	return stats, nil
}
