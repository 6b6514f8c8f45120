//go:build integration

// Package integration provides integration tests for the git-vines CLI.
// These tests build fixture repositories with go-git and run the real binary
// against them.
//
// Run with: go test -tags=integration ./internal/integration/...
package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// fixture is a repository whose commits have fixed, increasing timestamps.
type fixture struct {
	t      *testing.T
	dir    string
	binary string
	repo   *gogit.Repository
	tree   *gogit.Worktree
	clock  time.Time
}

// newFixture builds the git-vines binary and initializes an empty repository.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	binary := filepath.Join(t.TempDir(), "git-vines")
	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/git-vines")
	buildCmd.Dir = findProjectRoot(t)
	buildCmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := buildCmd.CombinedOutput()
	require.NoError(t, err, "building git-vines:\n%s", out)

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	tree, err := repo.Worktree()
	require.NoError(t, err)

	return &fixture{
		t:      t,
		dir:    dir,
		binary: binary,
		repo:   repo,
		tree:   tree,
		clock:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// findProjectRoot locates the project root by finding go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// write creates or replaces a file in the work tree.
func (f *fixture) write(name, content string) {
	f.t.Helper()
	require.NoError(f.t, os.WriteFile(filepath.Join(f.dir, name), []byte(content), 0o644))
}

// commit records msg one minute after the previous commit. Without parents
// the commit goes on top of HEAD, or becomes a root when HEAD is unborn.
func (f *fixture) commit(msg string, parents ...plumbing.Hash) plumbing.Hash {
	f.t.Helper()

	name := strings.ReplaceAll(msg, " ", "_") + ".txt"
	f.write(name, msg)
	_, err := f.tree.Add(name)
	require.NoError(f.t, err)

	sig := &object.Signature{Name: "Test User", Email: "test@example.com", When: f.clock}
	hash, err := f.tree.Commit(msg, &gogit.CommitOptions{
		Author:    sig,
		Committer: sig,
		Parents:   parents,
	})
	require.NoError(f.t, err)
	f.clock = f.clock.Add(time.Minute)
	return hash
}

// orphan points HEAD at a new unborn branch so the next commit is a root.
func (f *fixture) orphan(branch string) {
	f.t.Helper()
	ref := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))
	require.NoError(f.t, f.repo.Storer.SetReference(ref))
}

// detach points HEAD directly at hash.
func (f *fixture) detach(hash plumbing.Hash) {
	f.t.Helper()
	require.NoError(f.t, f.repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, hash)))
}

// deleteBranch removes a branch ref.
func (f *fixture) deleteBranch(branch string) {
	f.t.Helper()
	require.NoError(f.t, f.repo.Storer.RemoveReference(plumbing.NewBranchReferenceName(branch)))
}

// tag creates a lightweight tag, or an annotated one when message is set.
func (f *fixture) tag(name string, hash plumbing.Hash, message string) {
	f.t.Helper()
	var opts *gogit.CreateTagOptions
	if message != "" {
		opts = &gogit.CreateTagOptions{
			Tagger:  &object.Signature{Name: "Test User", Email: "test@example.com", When: f.clock},
			Message: message,
		}
	}
	_, err := f.repo.CreateTag(name, hash, opts)
	require.NoError(f.t, err)
}

// short returns the abbreviated hash git prints for hash.
func (f *fixture) short(hash plumbing.Hash) string {
	f.t.Helper()
	cmd := exec.Command("git", "rev-parse", "--short", hash.String())
	cmd.Dir = f.dir
	out, err := cmd.Output()
	require.NoError(f.t, err)
	return strings.TrimSpace(string(out))
}

// vines runs git-vines in the fixture with deterministic layout flags.
func (f *fixture) vines(args ...string) (string, error) {
	f.t.Helper()
	base := []string{"-C", f.dir, "--graph-margin-left", "0", "--graph-margin-right", "1"}
	cmd := exec.Command(f.binary, append(base, args...)...)
	cmd.Env = append(os.Environ(), "TZ=UTC", "GIT_VINES_CONFIG_HOME="+f.t.TempDir())
	out, err := cmd.Output()
	return string(out), err
}

// lines runs git-vines and splits its output into rows.
func (f *fixture) lines(args ...string) []string {
	f.t.Helper()
	out, err := f.vines(args...)
	require.NoError(f.t, err, "git-vines failed")
	return strings.Split(strings.TrimSuffix(out, "\n"), "\n")
}
