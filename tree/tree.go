// Package tree renders a directory as lines of a text tree, bounded by depth.
package tree

import (
	"fmt"
	"iter"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"lstree/fileutil"
)

const (
	branchGlyph = "├"
	cornerGlyph = "└"
	pipeGlyph   = "│"
	dashGlyph   = "─"

	// DefaultHiddenPrefixes hides names starting with '.' and Synology-style '@' folders.
	DefaultHiddenPrefixes = ".@"
)

// Glyphs are printed between the connector and the entry name.
type Glyphs struct {
	Dir   string
	File  string
	Link  string
	Other string
}

var (
	PlainGlyphs = Glyphs{}
	EmojiGlyphs = Glyphs{Dir: "📂", File: "📝", Link: "🔗"}
)

func (g Glyphs) For(kind Kind) string {
	switch kind {
	case KindDir:
		return g.Dir
	case KindFile:
		return g.File
	case KindSymlink:
		return g.Link
	default:
		return g.Other
	}
}

type Options struct {
	Depth     int    // levels shown below the root; 0 renders nothing
	Indent    int    // width on each side of the connector, clamped to 1
	Delimiter string // inserted once per level, e.g. "," for CSV output

	DirsOnly       bool
	ShowHidden     bool
	HiddenPrefixes string   // a name is hidden when its first rune is in this set
	Exclude        []string // glob patterns matched against entry names

	Glyphs Glyphs

	// OnSkip is called for every directory that could not be listed.
	OnSkip func(path string, err error)
}

// Line is a single rendered entry.
type Line struct {
	Prefix string
	Glyph  string
	Name   string
	Kind   Kind
	Path   string
}

func (l Line) String() string {
	return l.Prefix + l.Glyph + l.Name
}

type Stats struct {
	Dirs    int
	Files   int
	Links   int
	Other   int
	Skipped int
}

type Renderer struct {
	lister Lister
	opts   Options
	stats  Stats
}

// New returns a Renderer reading through lister, or the local filesystem when lister is nil.
func New(lister Lister, opts Options) (*Renderer, error) {
	if lister == nil {
		lister = OSLister{}
	}
	if opts.Indent < 1 {
		opts.Indent = 1
	}
	if opts.HiddenPrefixes == "" {
		opts.HiddenPrefixes = DefaultHiddenPrefixes
	}
	for _, pattern := range opts.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}
	return &Renderer{lister: lister, opts: opts}, nil
}

// Lines walks root depth-first and yields each visible entry before its subtree.
// The root itself is not yielded. Stats are reset at the start of every walk.
func (r *Renderer) Lines(root string) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		r.stats = Stats{}
		r.walk(root, r.opts.Depth, RootStem(r.opts.Indent, r.opts.Delimiter), yield)
	}
}

// Render collects the rendered lines of root as strings.
func (r *Renderer) Render(root string) []string {
	var out []string
	for line := range r.Lines(root) {
		out = append(out, line.String())
	}
	return out
}

// Stats reports the counts of the most recent walk.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// walk returns false once the consumer has stopped the iteration.
func (r *Renderer) walk(dir string, depth int, stem string, yield func(Line) bool) bool {
	if depth < 1 {
		return true
	}

	entries, err := r.lister.List(dir)
	if err != nil {
		r.stats.Skipped++
		if r.opts.OnSkip != nil {
			r.opts.OnSkip(dir, err)
		}
		return true
	}

	visible := r.visible(entries)
	for i, entry := range visible {
		own, child := Prefixes(stem, i == len(visible)-1, r.opts.Indent, r.opts.Delimiter)
		path := filepath.Join(dir, entry.Name)
		r.count(entry.Kind)

		line := Line{
			Prefix: own,
			Glyph:  r.opts.Glyphs.For(entry.Kind),
			Name:   entry.Name,
			Kind:   entry.Kind,
			Path:   path,
		}
		if !yield(line) {
			return false
		}

		if entry.Kind == KindDir {
			if !r.walk(path, depth-1, child, yield) {
				return false
			}
		}
	}
	return true
}

// visible filters entries before any last-entry decision is made.
func (r *Renderer) visible(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if r.opts.DirsOnly && entry.Kind != KindDir {
			continue
		}
		if !r.opts.ShowHidden && isHidden(entry.Name, r.opts.HiddenPrefixes) {
			continue
		}
		if excluded, _ := fileutil.MatchesPatterns(entry.Name, r.opts.Exclude); excluded {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func (r *Renderer) count(kind Kind) {
	switch kind {
	case KindDir:
		r.stats.Dirs++
	case KindFile:
		r.stats.Files++
	case KindSymlink:
		r.stats.Links++
	default:
		r.stats.Other++
	}
}

func isHidden(name, prefixes string) bool {
	first, _ := utf8.DecodeRuneInString(name)
	return first != utf8.RuneError && strings.ContainsRune(prefixes, first)
}

// RootStem is the stem of the first level below the root.
func RootStem(indent int, delimiter string) string {
	return delimiter + strings.Repeat(" ", indent)
}

// Prefixes derives the connector prefix of an entry and the stem handed to its
// children. Children of a last entry get blank filler under the corner; all
// others get a vertical bar so the open sibling group stays visible.
func Prefixes(stem string, isLast bool, indent int, delimiter string) (own, child string) {
	if indent < 1 {
		indent = 1
	}
	dashes := strings.Repeat(dashGlyph, indent)
	if isLast {
		return stem + cornerGlyph + dashes, stem + delimiter + strings.Repeat(" ", indent+1)
	}
	return stem + branchGlyph + dashes, stem + pipeGlyph + delimiter + strings.Repeat(" ", indent)
}
