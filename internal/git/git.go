// Package git provides read-only Git operations via exec for git-vines.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/gorewood/git-vines/internal/logging"
)

// DefaultLimit is the number of git processes allowed to run at once.
const DefaultLimit = 7

// ExecError reports a git invocation that could not be spawned or exited non-zero.
// ExitCode is -1 when the process never ran.
type ExecError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	msg := fmt.Sprintf("git %s: exit status %d", strings.Join(e.Args, " "), e.ExitCode)
	if e.ExitCode < 0 && e.Err != nil {
		msg = fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap returns the underlying exec error.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// Runner launches the git binary with a cap on concurrent invocations.
// Callers over the cap block until a slot frees or their context ends.
type Runner struct {
	binary string
	dir    string
	limit  int
	sem    *semaphore.Weighted
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithBinary sets the executable to run instead of "git".
func WithBinary(binary string) Option {
	return func(r *Runner) { r.binary = binary }
}

// WithDir sets the working directory for every invocation.
func WithDir(dir string) Option {
	return func(r *Runner) { r.dir = dir }
}

// WithLimit sets the concurrency cap. Values below 1 keep the default.
func WithLimit(limit int) Option {
	return func(r *Runner) {
		if limit > 0 {
			r.limit = limit
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		binary: "git",
		limit:  DefaultLimit,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.sem = semaphore.NewWeighted(int64(r.limit))
	return r
}

// Run executes git with args and returns its stdout with one trailing
// newline removed. The slot is held until the process exits.
func (r *Runner) Run(ctx context.Context, args ...string) (string, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("waiting for git slot: %w", err)
	}
	defer r.sem.Release(1)

	cmd := r.command(ctx, args)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("git run", "args", args)
	if err := cmd.Run(); err != nil {
		return "", newExecError(args, err, stderr.String())
	}
	return strings.TrimSuffix(stdout.String(), "\n"), nil
}

// Open starts git with args and returns its stdout as a stream.
// The slot is held only while the process is spawned, so a long-lived
// stream does not starve the other callers.
func (r *Runner) Open(ctx context.Context, args ...string) (*Pipe, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for git slot: %w", err)
	}
	defer r.sem.Release(1)

	pipe := &Pipe{args: args}
	cmd := r.command(ctx, args)
	cmd.Stderr = &pipe.stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("git %s stdout: %w", strings.Join(args, " "), err)
	}
	r.logger.Debug("git open", "args", args)
	if err := cmd.Start(); err != nil {
		_ = stdout.Close()
		return nil, newExecError(args, err, pipe.stderr.String())
	}
	pipe.cmd = cmd
	pipe.stdout = stdout
	return pipe, nil
}

func (r *Runner) command(ctx context.Context, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = r.dir
	// Never take the index lock; this tool only reads.
	cmd.Env = append(os.Environ(), "GIT_OPTIONAL_LOCKS=0")
	return cmd
}

// Pipe is the stdout of a running git process.
type Pipe struct {
	args   []string
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer

	closeOnce sync.Once
	closeErr  error
}

// Read reads from the process stdout.
func (p *Pipe) Read(b []byte) (int, error) {
	return p.stdout.Read(b)
}

// Close releases the pipe and waits for the process.
// A non-zero exit is reported as *ExecError.
func (p *Pipe) Close() error {
	p.closeOnce.Do(func() {
		_ = p.stdout.Close()
		if err := p.cmd.Wait(); err != nil {
			p.closeErr = newExecError(p.args, err, p.stderr.String())
		}
	})
	return p.closeErr
}

func newExecError(args []string, err error, stderr string) *ExecError {
	execErr := &ExecError{
		Args:     args,
		ExitCode: -1,
		Stderr:   strings.TrimSpace(stderr),
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		execErr.ExitCode = exitErr.ExitCode()
	}
	return execErr
}

// ExitCode returns the exit status carried by err, or -1 when err is not an
// *ExecError.
func ExitCode(err error) int {
	var execErr *ExecError
	if errors.As(err, &execErr) {
		return execErr.ExitCode
	}
	return -1
}
