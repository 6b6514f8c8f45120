package mcp

import (
	"errors"
	"fmt"

	"github.com/gorewood/git-vines/internal/graph"
	"github.com/gorewood/git-vines/internal/vine"
)

// maxDepth bounds the lookahead a client may request.
const maxDepth = 64

// graphOptions validates the tool input and fills in defaults.
func graphOptions(input GraphInput) (graph.Options, error) {
	depth := input.Depth
	switch {
	case depth == 0:
		depth = graph.DefaultDepth
	case depth < 0 || depth > maxDepth:
		return graph.Options{}, fmt.Errorf("depth must be between 1 and %d", maxDepth)
	}

	style := vine.Single
	if input.Style != "" {
		parsed, err := vine.ParseStyle(input.Style)
		if err != nil {
			return graph.Options{}, err
		}
		style = parsed
	}

	for _, rev := range input.Revisions {
		if rev == "" {
			return graph.Options{}, errors.New("revisions must not be empty")
		}
		if rev[0] == '-' && rev != "--all" {
			return graph.Options{}, fmt.Errorf("revision %q looks like an option; only --all is accepted", rev)
		}
	}

	return graph.Options{
		Dir:       input.Path,
		Revisions: input.Revisions,
		Depth:     depth,
		Style:     style,
		Status:    input.Status,
		Margins:   vine.Margins{Right: 1},
	}, nil
}
