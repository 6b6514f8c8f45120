package mcp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/git-vines/internal/git"
	"github.com/gorewood/git-vines/internal/graph"
)

// --- Graph tool ---

// GraphInput is the input for the graph tool.
type GraphInput struct {
	Path      string   `json:"path,omitempty"      jsonschema:"repository path (default: server working directory)"`
	Revisions []string `json:"revisions,omitempty" jsonschema:"revisions to show (default: all refs)"`
	Depth     int      `json:"depth,omitempty"     jsonschema:"lookahead depth (default 2)"`
	Style     string   `json:"style,omitempty"     jsonschema:"glyph style: single, double, rounded or bold (default single)"`
	Status    bool     `json:"status,omitempty"    jsonschema:"append working-tree status marks after HEAD"`
}

// GraphOutput is the output for the graph tool.
type GraphOutput struct {
	Graph    string `json:"graph"     jsonschema:"rendered graph, one line per row, without colors"`
	Commits  int    `json:"commits"   jsonschema:"number of commits rendered"`
	MaxLanes int    `json:"max_lanes" jsonschema:"widest number of lanes in the graph"`
}

func handleGraph(ctx context.Context, _ *mcp.CallToolRequest, input GraphInput) (*mcp.CallToolResult, GraphOutput, error) {
	opts, err := graphOptions(input)
	if err != nil {
		return nil, GraphOutput{}, err
	}

	var buf bytes.Buffer
	stats, err := graph.Run(ctx, &buf, opts)
	if err != nil {
		return nil, GraphOutput{}, fmt.Errorf("rendering graph: %w", err)
	}

	return nil, GraphOutput{
		Graph:    buf.String(),
		Commits:  stats.Commits,
		MaxLanes: stats.MaxLanes,
	}, nil
}

// --- Status tool ---

// StatusInput is the input for the status tool.
type StatusInput struct {
	Path string `json:"path,omitempty" jsonschema:"repository path (default: server working directory)"`
}

// StatusOutput is the output for the status tool.
type StatusOutput struct {
	Head       string   `json:"head"                jsonschema:"HEAD commit SHA"`
	Labels     []string `json:"labels"              jsonschema:"labels attached to HEAD, synthetic ones first"`
	ControlDir string   `json:"control_dir"         jsonschema:"resolved git control directory"`
	Operation  string   `json:"operation,omitempty" jsonschema:"operation in progress, e.g. |MERGING"`
	Dirty      string   `json:"dirty,omitempty"     jsonschema:"working-tree marks: * unstaged, + staged, $ stash, % untracked"`
}

func handleStatus(ctx context.Context, _ *mcp.CallToolRequest, input StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
	session := git.NewSession(git.NewRunner(git.WithDir(input.Path)), nil)
	state, err := session.Collect(ctx, true)
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("collecting repository state: %w", err)
	}

	return nil, StatusOutput{
		Head:       state.Head,
		Labels:     state.Refs.Names(state.Head),
		ControlDir: state.ControlDir,
		Operation:  state.Operation.Label,
		Dirty:      state.Dirty,
	}, nil
}
