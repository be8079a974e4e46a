// Package output writes rendered trees to the console and to text, CSV or TSV files.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
	"time"

	"lstree/fileutil"
	"lstree/stringutil"
	"lstree/tree"

	"github.com/fatih/color"
)

// ErrOutputWrite is returned when the destination file cannot be created or written.
var ErrOutputWrite = errors.New("cannot write output file")

const (
	// utf8BOM lets spreadsheet tools detect the encoding of CSV/TSV listings.
	utf8BOM = "\ufeff"

	headerTimeLayout = "2006-01-02 03:04 PM"
)

// Target describes a file format: its extension and the per-level delimiter.
type Target struct {
	Ext       string
	Delimiter string
}

var (
	Text = Target{Ext: ".txt"}
	CSV  = Target{Ext: ".csv", Delimiter: ","}
	TSV  = Target{Ext: ".tsv", Delimiter: "\t"}
)

// Header is written before the tree lines of a listing file.
type Header struct {
	Path       string // path as given by the user
	Root       string // absolute path
	Depth      int
	FolderOnly bool
	Time       time.Time
}

func (h Header) Lines() []string {
	return []string{
		fmt.Sprintf("Directory list of %s upto %d sub-level(s)", h.Path, h.Depth),
		fmt.Sprintf("List folder only : %s", yesNo(h.FolderOnly)),
		fmt.Sprintf("Date of listing: %s", h.Time.Format(headerTimeLayout)),
		h.Root,
	}
}

// yesNo spells a flag the way existing listing files do.
func yesNo(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// Filename picks a file name for the listing that does not clash with an
// existing file. The extension is appended unless name already carries it.
func Filename(name string, target Target) (string, error) {
	base := name
	if strings.HasSuffix(strings.ToLower(name), target.Ext) {
		base = name[:len(name)-len(target.Ext)]
	}
	return fileutil.NextFreeName(base, target.Ext)
}

// WriteFile writes the header and lines to a new file at path. On failure the
// partially written file is removed.
func WriteFile(path string, header Header, lines iter.Seq[tree.Line]) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}

	if err := writeListing(f, header, lines); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("%w: %s: %w", ErrOutputWrite, path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("%w: %s: %w", ErrOutputWrite, path, err)
	}
	return nil
}

func writeListing(w io.Writer, header Header, lines iter.Seq[tree.Line]) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(utf8BOM)
	for _, line := range header.Lines() {
		bw.WriteString(line)
		bw.WriteByte('\n')
	}
	for line := range lines {
		bw.WriteString(line.String())
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

type palette struct {
	dir  func(a ...interface{}) string
	link func(a ...interface{}) string
}

func newPalette(colorize bool) palette {
	dir := color.New(color.FgBlue, color.Bold)
	link := color.New(color.FgCyan)
	if colorize {
		dir.EnableColor()
		link.EnableColor()
	} else {
		dir.DisableColor()
		link.DisableColor()
	}
	return palette{dir: dir.SprintFunc(), link: link.SprintFunc()}
}

// PrintTree writes a blank line, the root path and every rendered line to w.
// Directory and link names are colored when colorize is set.
func PrintTree(w io.Writer, root string, lines iter.Seq[tree.Line], colorize bool) error {
	p := newPalette(colorize)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\n%s\n", root)
	for line := range lines {
		name := line.Name
		switch line.Kind {
		case tree.KindDir:
			name = p.dir(name)
		case tree.KindSymlink:
			name = p.link(name)
		}
		fmt.Fprintf(bw, "%s%s%s\n", line.Prefix, line.Glyph, name)
	}
	return bw.Flush()
}

// PrintStats writes a summary table of a finished walk.
func PrintStats(w io.Writer, stats tree.Stats, colorize bool) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	if colorize {
		green.EnableColor()
		red.EnableColor()
	} else {
		green.DisableColor()
		red.DisableColor()
	}

	skipped := green.Sprint(stats.Skipped)
	if stats.Skipped > 0 {
		skipped = red.Sprint(stats.Skipped)
	}

	rows := [][2]string{
		{"Directories", green.Sprint(stats.Dirs)},
		{"Files", green.Sprint(stats.Files)},
		{"Symbolic links", green.Sprint(stats.Links)},
		{"Other entries", green.Sprint(stats.Other)},
		{"Unreadable directories", skipped},
	}
	fmt.Fprintln(w)
	stringutil.PrintDotTable(w, rows)
}
