package git

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// fieldSeparator delimits fields of one log line. U+001F cannot appear in
// hashes, timestamps, ref names or a commit subject.
const fieldSeparator = "\x1f"

// logFormat is the pretty format the parser expects, one commit per line.
var logFormat = strings.Join([]string{
	"%H",                  // Full SHA
	"%h",                  // Short SHA
	"%P",                  // Parent SHAs, space separated
	"%at",                 // Author Unix timestamp
	"%an",                 // Author name
	"%C(auto)%d%C(reset)", // Decoration, colored when --color=always
	"%s",                  // Subject
}, fieldSeparator)

// logLineRegex matches one line produced by logFormat.
var logLineRegex = regexp.MustCompile(
	`^([0-9a-f]{40,64})\x1f([0-9a-f]{4,64})\x1f((?:[0-9a-f]{40,64}(?: [0-9a-f]{40,64})*)?)\x1f(-?\d+)\x1f([^\x1f]*)\x1f([^\x1f]*)\x1f([^\x1f]*)$`)

// maxLineSize bounds a single log line; subjects can be long.
const maxLineSize = 10 * 1024 * 1024

// Commit is one parsed log entry.
type Commit struct {
	Hash       string   // Full SHA
	Short      string   // Abbreviated SHA
	Parents    []string // Zero for a root, two or more for a merge
	AuthorUnix int64    // Author timestamp, seconds since the epoch
	Author     string   // Author name
	Decoration string   // Raw decoration text as printed by git, may carry ANSI codes
	Subject    string   // First line of the commit message
	Next       []string // Hashes of the commits that follow in log order (lookahead)
}

// AuthorTime returns the author timestamp.
func (c *Commit) AuthorTime() time.Time {
	return time.Unix(c.AuthorUnix, 0)
}

// IsRoot reports whether the commit has no parents.
func (c *Commit) IsRoot() bool {
	return len(c.Parents) == 0
}

// IsMerge reports whether the commit has two or more parents.
func (c *Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// ParseError reports a log line that does not match the expected format.
type ParseError struct {
	Line int
	Text string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed git log line %d: %q", e.Line, e.Text)
}

// ParseLine parses a single line produced by logFormat.
func ParseLine(line string) (*Commit, error) {
	matches := logLineRegex.FindStringSubmatch(line)
	if matches == nil {
		return nil, &ParseError{Text: line}
	}

	timestamp, err := strconv.ParseInt(matches[4], 10, 64)
	if err != nil {
		return nil, &ParseError{Text: line}
	}

	var parents []string
	if matches[3] != "" {
		parents = strings.Split(matches[3], " ")
	}

	return &Commit{
		Hash:       matches[1],
		Short:      matches[2],
		Parents:    parents,
		AuthorUnix: timestamp,
		Author:     matches[5],
		Decoration: matches[6],
		Subject:    matches[7],
	}, nil
}

// LogStream yields commits from git log output with a fixed lookahead.
//
// Before returning a commit the stream fills its buffer to depth entries,
// so every commit carries the hashes of the next depth-1 commits in Next.
// The first malformed line fails the stream for good: commits already
// buffered are still returned, then every call returns the error.
type LogStream struct {
	scanner *bufio.Scanner
	closer  io.Closer
	depth   int
	buf     []*Commit
	line    int
	eof     bool
	err     error
}

// NewLogStream reads log lines from r. Depth below 1 is treated as 1.
func NewLogStream(r io.Reader, depth int) *LogStream {
	if depth < 1 {
		depth = 1
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &LogStream{
		scanner: scanner,
		depth:   depth,
	}
}

// Next returns the next commit, io.EOF after the last one, or the error that
// stopped the stream.
func (s *LogStream) Next() (*Commit, error) {
	if s.err == nil {
		s.fill()
	}
	if len(s.buf) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}

	commit := s.buf[0]
	s.buf = s.buf[1:]
	next := make([]string, 0, len(s.buf))
	for _, ahead := range s.buf {
		next = append(next, ahead.Hash)
	}
	commit.Next = next
	return commit, nil
}

// Close releases the underlying git process, if any.
func (s *LogStream) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *LogStream) fill() {
	for !s.eof && len(s.buf) < s.depth {
		if !s.scanner.Scan() {
			s.eof = true
			if err := s.scanner.Err(); err != nil {
				s.err = fmt.Errorf("reading git log: %w", err)
			}
			return
		}
		s.line++
		text := s.scanner.Text()
		commit, err := ParseLine(text)
		if err != nil {
			s.err = &ParseError{Line: s.line, Text: text}
			return
		}
		s.buf = append(s.buf, commit)
	}
}

// LogOptions selects what the commit log covers.
type LogOptions struct {
	Revisions []string // Revision arguments; defaults to --all
	Color     bool     // Ask git to color decorations
	Depth     int      // Lookahead depth
}

// LogArgs returns the git arguments for the commit log.
func LogArgs(opts LogOptions) []string {
	color := "--color=never"
	if opts.Color {
		color = "--color=always"
	}
	args := []string{
		"log",
		"--date-order",
		"--decorate=short",
		color,
		"--pretty=tformat:" + logFormat,
	}
	revisions := opts.Revisions
	if len(revisions) == 0 {
		revisions = []string{"--all"}
	}
	return append(args, revisions...)
}

// OpenLog starts the commit log and returns a stream over it.
// The caller must Close the stream.
func OpenLog(ctx context.Context, runner *Runner, opts LogOptions) (*LogStream, error) {
	pipe, err := runner.Open(ctx, LogArgs(opts)...)
	if err != nil {
		return nil, err
	}
	stream := NewLogStream(pipe, opts.Depth)
	stream.closer = pipe
	return stream, nil
}
