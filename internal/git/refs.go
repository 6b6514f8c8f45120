package git

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gorewood/git-vines/internal/cache"
	"github.com/gorewood/git-vines/internal/output"
)

// Synthetic labels attached in front of the discovered ref names.
const (
	HeadLabel      = "HEAD"
	RebaseNewLabel = "rebase/new"
)

const tagPrefix = "refs/tags/"

// refEntry keeps synthetic labels apart so they stay in front no matter when
// the ref listing finishes.
type refEntry struct {
	synthetic []string
	names     []string
}

// RefMap maps a commit hash to the ref names pointing at it.
// Safe for concurrent producers; every mutation is a single Upsert.
type RefMap struct {
	entries *cache.Cache[string, refEntry]
}

// NewRefMap creates an empty RefMap.
func NewRefMap() *RefMap {
	return &RefMap{entries: cache.New[string, refEntry]()}
}

// Add appends name to the names of hash unless it is already there.
func (m *RefMap) Add(hash, name string) {
	m.entries.Upsert(hash, func(old refEntry, _ bool) refEntry {
		if slices.Contains(old.names, name) {
			return old
		}
		return refEntry{
			synthetic: old.synthetic,
			names:     append(slices.Clone(old.names), name),
		}
	})
}

// Mark prepends the synthetic labels hash does not carry yet, keeping the
// given order. Labels already present keep their position.
func (m *RefMap) Mark(hash string, labels ...string) {
	m.entries.Upsert(hash, func(old refEntry, _ bool) refEntry {
		synthetic := make([]string, 0, len(labels)+len(old.synthetic))
		for _, label := range labels {
			if !slices.Contains(old.synthetic, label) && !slices.Contains(synthetic, label) {
				synthetic = append(synthetic, label)
			}
		}
		synthetic = append(synthetic, old.synthetic...)
		return refEntry{synthetic: synthetic, names: old.names}
	})
}

// Names returns the labels of hash: synthetic labels first, then ref names in
// discovery order.
func (m *RefMap) Names(hash string) []string {
	entry, ok := m.entries.Get(hash)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(entry.synthetic)+len(entry.names))
	names = append(names, entry.synthetic...)
	return append(names, entry.names...)
}

// IsHead reports whether HEAD points at hash.
func (m *RefMap) IsHead(hash string) bool {
	entry, ok := m.entries.Get(hash)
	return ok && slices.Contains(entry.synthetic, HeadLabel)
}

// Tags returns the short names of the tags attached to hash.
func (m *RefMap) Tags(hash string) []string {
	entry, ok := m.entries.Get(hash)
	if !ok {
		return nil
	}
	var tags []string
	for _, name := range entry.names {
		if short, found := strings.CutPrefix(name, tagPrefix); found && short != "" {
			tags = append(tags, short)
		}
	}
	return tags
}

// Len returns the number of decorated hashes.
func (m *RefMap) Len() int {
	return m.entries.Len()
}

// showRefLineRegex matches "<sha> <refname>".
var showRefLineRegex = regexp.MustCompile(`^(\S+)\s+(.*)$`)

// ref is one line of show-ref output.
type ref struct {
	hash string
	name string
}

// parseShowRef parses show-ref output, skipping blank lines.
func parseShowRef(out string) []ref {
	var refs []ref
	for line := range strings.SplitSeq(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		matches := showRefLineRegex.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		refs = append(refs, ref{hash: matches[1], name: matches[2]})
	}
	return refs
}

// ListRefs enumerates every ref into refs and registers each tag under the
// commit it resolves to. Tag lookups run concurrently.
func (s *Session) ListRefs(ctx context.Context, refs *RefMap) error {
	out, err := s.runner.Run(ctx, "show-ref")
	if err != nil {
		// show-ref exits 1 when the repository has no refs at all
		if ExitCode(err) == 1 {
			s.logger.Debug("no refs")
			return nil
		}
		return output.NewSystemErrorWithCause("listing refs", err)
	}

	listed := parseShowRef(out)
	for _, r := range listed {
		refs.Add(r.hash, r.name)
	}

	group, ctx := errgroup.WithContext(ctx)
	for _, r := range listed {
		if !strings.HasPrefix(r.name, tagPrefix) {
			continue
		}
		group.Go(func() error {
			s.resolveTag(ctx, refs, r.name)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	s.logger.Debug("refs listed", "refs", len(listed), "hashes", refs.Len())
	return nil
}

// resolveTag registers a tag under the commit it annotates.
// Tags of trees or blobs have no commit; they are skipped.
func (s *Session) resolveTag(ctx context.Context, refs *RefMap, name string) {
	hash, err := s.runner.Run(ctx, "log", "-1", "--pretty=format:%H", name)
	if err != nil {
		s.logger.Debug("tag does not resolve to a commit", "tag", name, "error", err)
		return
	}
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return
	}
	refs.Add(hash, name)
}

// HeadHash resolves HEAD to a full hash.
func (s *Session) HeadHash(ctx context.Context) (string, error) {
	hash, err := s.runner.Run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", output.NewSystemErrorWithCause("cannot resolve HEAD", err)
	}
	return strings.TrimSpace(hash), nil
}

// MarkHead attaches HEAD, and rebase/new while rebasing, to hash.
func MarkHead(refs *RefMap, hash string, rebasing bool) {
	if rebasing {
		refs.Mark(hash, RebaseNewLabel, HeadLabel)
		return
	}
	refs.Mark(hash, HeadLabel)
}

// ShortHashWidth returns the length of HEAD's abbreviated hash.
func (s *Session) ShortHashWidth(ctx context.Context) (int, error) {
	short, err := s.runner.Run(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		return 0, output.NewSystemErrorWithCause("cannot abbreviate HEAD", err)
	}
	return len(strings.TrimSpace(short)), nil
}
