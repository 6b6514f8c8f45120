// Package main provides the entry point for the git-vines CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/gorewood/git-vines/internal/config"
	"github.com/gorewood/git-vines/internal/graph"
	"github.com/gorewood/git-vines/internal/logging"
	"github.com/gorewood/git-vines/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "v0.0.1"
	commit  = "none"
	date    = "unknown"
)

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the git-vines CLI.
func newRootCmd() *cobra.Command {
	vars := newGraphFlagVars()

	cmd := &cobra.Command{
		Use:   "git-vines [flags] [revision...]",
		Short: "Draw commit history as a colored vine graph",
		Long: `git-vines - Draw a repository's commit history as a terminal vine graph.

Every commit gets a row with its hash, date, decorations and subject, next to
a multi-lane graph showing where branches start, merge and end.

Revisions default to every ref (--all). Flag defaults can be set in
config.yaml under the git-vines config directory; flags always win.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, vars, args)
		},
	}

	vars.register(cmd)

	cmd.AddCommand(newServeCmd())

	return cmd
}

// runGraph merges the config file under the flags and draws the graph.
func runGraph(cmd *cobra.Command, vars *graphFlagVars, args []string) error {
	file, err := config.Load(*vars.config)
	if err != nil {
		return output.NewUserErrorWithCause("loading config", err)
	}
	vars.applyConfig(cmd, file)

	opts, err := vars.options(args)
	if err != nil {
		return err
	}
	opts.Color = output.ResolveColorMode(*vars.color, output.IsTTY(cmd.OutOrStdout()))
	opts.Logger = logging.New(*vars.debug, cmd.ErrOrStderr())

	_, err = graph.Run(cmd.Context(), cmd.OutOrStdout(), opts)
	return err
}
