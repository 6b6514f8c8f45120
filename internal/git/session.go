package git

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gorewood/git-vines/internal/cache"
	"github.com/gorewood/git-vines/internal/logging"
)

// Session is the state shared by the concurrent collectors of one run.
// It is created per run and dropped when the run ends.
type Session struct {
	runner *Runner
	stats  *cache.Cache[string, statEntry]
	logger *slog.Logger
}

// NewSession creates a Session that runs git through runner.
func NewSession(runner *Runner, logger *slog.Logger) *Session {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Session{
		runner: runner,
		stats:  cache.New[string, statEntry](),
		logger: logger,
	}
}

// RepoState is everything needed to decorate commits.
type RepoState struct {
	Refs       *RefMap
	Head       string    // Full hash of HEAD
	HashWidth  int       // Length of HEAD's abbreviated hash
	ControlDir string    // Resolved control directory
	Operation  Operation // In-progress operation, if any
	Dirty      string    // Working-tree marks; empty when clean or not computed
}

// HeadSuffix returns the text spliced after HEAD in its decoration.
func (st *RepoState) HeadSuffix() string {
	return st.Dirty + st.Operation.Label
}

// Collect gathers refs, HEAD, the in-progress operation and, when withStatus
// is set, working-tree dirtiness. All lookups run concurrently.
func (s *Session) Collect(ctx context.Context, withStatus bool) (*RepoState, error) {
	start := time.Now()
	state := &RepoState{Refs: NewRefMap()}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return s.ListRefs(ctx, state.Refs)
	})

	group.Go(func() error {
		return s.collectHead(ctx, state)
	})

	group.Go(func() error {
		width, err := s.ShortHashWidth(ctx)
		if err != nil {
			return err
		}
		state.HashWidth = width
		return nil
	})

	if withStatus {
		group.Go(func() error {
			state.Dirty = s.Dirty(ctx)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("repository state collected",
		"head", state.Head,
		"hashes", state.Refs.Len(),
		"operation", state.Operation.Label,
		"dirty", state.Dirty,
		"elapsed", time.Since(start))
	return state, nil
}

// collectHead resolves HEAD while the control directory is inspected, then
// marks HEAD in the ref map.
func (s *Session) collectHead(ctx context.Context, state *RepoState) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		hash, err := s.HeadHash(ctx)
		if err != nil {
			return err
		}
		state.Head = hash
		return nil
	})

	group.Go(func() error {
		dir, err := s.ControlDir(ctx)
		if err != nil {
			return err
		}
		state.ControlDir = dir
		state.Operation = s.Operation(dir)
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}
	MarkHead(state.Refs, state.Head, state.Operation.Rebasing)
	return nil
}
