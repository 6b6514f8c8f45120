package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorewood/git-vines/internal/git"
)

// FormatDate formats t as "YYYY-M-D H:M" in loc, without zero padding.
// A nil loc means local time.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return fmt.Sprintf("%d-%d-%d %d:%d", t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute())
}

// Options configures a Composer.
type Options struct {
	Status   bool           // Splice the working-tree status after HEAD
	Location *time.Location // Time zone for dates; nil means local
}

// Composer joins a row prefix with a commit's hash, date, decoration and
// subject.
type Composer struct {
	state   *git.RepoState
	palette *Palette
	opts    Options
}

// NewComposer creates a Composer decorating commits from state.
func NewComposer(state *git.RepoState, palette *Palette, opts Options) *Composer {
	return &Composer{state: state, palette: palette, opts: opts}
}

// Line renders the commit line after prefix.
func (c *Composer) Line(prefix string, commit *git.Commit) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(c.hash(commit.Short))
	b.WriteString(" ")
	b.WriteString(FormatDate(commit.AuthorTime(), c.opts.Location))
	b.WriteString(c.Decoration(commit))
	b.WriteString(" ")
	b.WriteString(commit.Subject)
	return b.String()
}

// hash pads or truncates short to the width of HEAD's abbreviated hash.
func (c *Composer) hash(short string) string {
	width := c.state.HashWidth
	if width <= 0 {
		return short
	}
	if len(short) > width {
		return short[:width]
	}
	return short + strings.Repeat(" ", width-len(short))
}

// Decoration returns the commit's decoration with the working-tree status
// spliced after HEAD and tag names recolored.
func (c *Composer) Decoration(commit *git.Commit) string {
	deco := commit.Decoration
	if deco == "" {
		return ""
	}
	refs := c.state.Refs
	if refs == nil {
		return deco
	}

	if suffix := c.state.HeadSuffix(); c.opts.Status && suffix != "" && refs.IsHead(commit.Hash) {
		deco = strings.Replace(deco, git.HeadLabel, git.HeadLabel+suffix, 1)
	}
	for _, tag := range refs.Tags(commit.Hash) {
		deco = c.recolorTag(deco, tag)
	}
	return deco
}

// tagEnds are the bytes that may follow a tag name in a decoration.
const tagEnds = ",)\x1b"

// recolorTag paints "tag: name" where it is followed by a separator, the end
// of the decoration or an escape sequence.
func (c *Composer) recolorTag(deco, name string) string {
	label := "tag: " + name
	var b strings.Builder
	for {
		i := strings.Index(deco, label)
		if i < 0 {
			b.WriteString(deco)
			return b.String()
		}
		end := i + len(label)
		if end == len(deco) || strings.IndexByte(tagEnds, deco[end]) >= 0 {
			b.WriteString(deco[:i])
			b.WriteString(c.palette.Tag(label))
		} else {
			b.WriteString(deco[:end])
		}
		deco = deco[end:]
	}
}
