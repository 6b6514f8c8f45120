package git

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gorewood/git-vines/internal/output"
)

// Operation is an in-progress rebase, merge, cherry-pick, revert or bisect.
type Operation struct {
	Label    string // e.g. "|REBASE-i"; empty when nothing is in progress
	Rebasing bool   // true for every rebase flavor except a plain am
}

// statEntry is a memoized os.Stat result.
type statEntry struct {
	exists bool
	dir    bool
}

// stat returns the memoized stat of path. Errors mean "does not exist".
// Two callers racing on a new path both stat it; the result is the same.
func (s *Session) stat(path string) statEntry {
	if entry, ok := s.stats.Get(path); ok {
		return entry
	}
	var entry statEntry
	info, err := os.Stat(path)
	if err == nil {
		entry = statEntry{exists: true, dir: info.IsDir()}
	} else if !os.IsNotExist(err) {
		s.logger.Debug("stat failed", "path", path, "error", err)
	}
	s.stats.Set(path, entry)
	return entry
}

func (s *Session) exists(path string) bool {
	return s.stat(path).exists
}

func (s *Session) isDir(path string) bool {
	return s.stat(path).dir
}

// gitdirRegex matches the redirect line of a .git file.
var gitdirRegex = regexp.MustCompile(`^gitdir: (.+)$`)

// ControlDir returns the repository's control directory, following the
// .git file of a linked worktree or submodule.
func (s *Session) ControlDir(ctx context.Context) (string, error) {
	top, err := s.runner.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", output.NewSystemErrorWithCause("not in a git repository", err)
	}
	return s.resolveControlDir(filepath.Join(strings.TrimSpace(top), ".git"))
}

// resolveControlDir resolves path, a .git directory or a .git redirect file.
func (s *Session) resolveControlDir(path string) (string, error) {
	if !s.exists(path) {
		return "", output.NewSystemError("control directory not found: " + path)
	}
	if s.isDir(path) {
		return path, nil
	}

	line, err := readFirstLine(path)
	if err != nil {
		return "", output.NewSystemErrorWithCause("reading "+path, err)
	}
	matches := gitdirRegex.FindStringSubmatch(line)
	if matches == nil {
		return "", output.NewSystemError(fmt.Sprintf("unsupported .git file %s: %q", path, line))
	}

	target := matches[1]
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	target = filepath.Clean(target)
	if !s.isDir(target) {
		return "", output.NewSystemError("control directory not found: " + target)
	}
	return target, nil
}

func readFirstLine(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close() //nolint:errcheck // best-effort close on read-only file

	scanner := bufio.NewScanner(file)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	return "", scanner.Err()
}

// Operation detects an operation in progress under controlDir.
// The first match in priority order wins.
func (s *Session) Operation(controlDir string) Operation {
	at := func(parts ...string) string {
		return filepath.Join(append([]string{controlDir}, parts...)...)
	}

	switch {
	case s.exists(at("rebase-merge", "interactive")):
		return Operation{Label: "|REBASE-i", Rebasing: true}
	case s.isDir(at("rebase-merge")):
		return Operation{Label: "|REBASE-m", Rebasing: true}
	case s.isDir(at("rebase-apply")):
		switch {
		case s.exists(at("rebase-apply", "rebasing")):
			return Operation{Label: "|REBASE", Rebasing: true}
		case s.exists(at("rebase-apply", "applying")):
			return Operation{Label: "|AM"}
		default:
			return Operation{Label: "|AM/REBASE", Rebasing: true}
		}
	case s.exists(at("MERGE_HEAD")):
		return Operation{Label: "|MERGING"}
	case s.exists(at("CHERRY_PICK_HEAD")):
		return Operation{Label: "|CHERRY-PICKING"}
	case s.exists(at("REVERT_HEAD")):
		return Operation{Label: "|REVERTING"}
	case s.exists(at("BISECT_LOG")):
		return Operation{Label: "|BISECTING"}
	}
	return Operation{}
}

// dirtyCheck is one working-tree check; any output means dirty.
type dirtyCheck struct {
	mark byte
	args []string
}

// dirtyChecks are listed in the order their marks appear in the status string.
var dirtyChecks = []dirtyCheck{
	{mark: '*', args: []string{"diff", "--shortstat"}},
	{mark: '+', args: []string{"diff", "--shortstat", "--cached"}},
	{mark: '$', args: []string{"stash", "list"}},
	{mark: '%', args: []string{"ls-files", "--others", "--exclude-standard", "--directory", "--no-empty-directory", ":/"}},
}

// Dirty runs the working-tree checks concurrently and returns the marks of
// the dirty ones. A failing check counts as clean.
func (s *Session) Dirty(ctx context.Context) string {
	results := make([]bool, len(dirtyChecks))

	group, ctx := errgroup.WithContext(ctx)
	for i, check := range dirtyChecks {
		group.Go(func() error {
			out, err := s.runner.Run(ctx, check.args...)
			if err != nil {
				s.logger.Debug("dirty check failed", "check", string(check.mark), "error", err)
				return nil
			}
			results[i] = strings.TrimSpace(out) != ""
			return nil
		})
	}
	_ = group.Wait()

	return dirtyString(results)
}

// dirtyString maps check results to marks in check order.
func dirtyString(results []bool) string {
	var b strings.Builder
	for i, dirty := range results {
		if dirty && i < len(dirtyChecks) {
			b.WriteByte(dirtyChecks[i].mark)
		}
	}
	return b.String()
}
