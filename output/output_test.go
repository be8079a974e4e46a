package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lstree/stringutil"
	"lstree/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(lines ...tree.Line) func(func(tree.Line) bool) {
	return func(yield func(tree.Line) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

var sampleLines = []tree.Line{
	{Prefix: ",  ├──", Name: "a.txt", Kind: tree.KindFile},
	{Prefix: ",  └──", Name: "sub", Kind: tree.KindDir},
}

func TestHeaderLines(t *testing.T) {
	h := Header{
		Path:       ".",
		Root:       "/home/me/project",
		Depth:      2,
		FolderOnly: true,
		Time:       time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC),
	}

	assert.Equal(t, []string{
		"Directory list of . upto 2 sub-level(s)",
		"List folder only : True",
		"Date of listing: 2024-03-09 02:05 PM",
		"/home/me/project",
	}, h.Lines())
}

func TestFilename(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "FOLDER_LIST")

	name, err := Filename(base, CSV)
	require.NoError(t, err)
	assert.Equal(t, base+".csv", name)

	name, err = Filename(base+".TXT", Text)
	require.NoError(t, err)
	assert.Equal(t, base+".txt", name)

	require.NoError(t, os.WriteFile(base+".tsv", nil, 0644))
	name, err = Filename(base+".tsv", TSV)
	require.NoError(t, err)
	assert.Equal(t, base+"_000.tsv", name)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.csv")
	h := Header{Path: "x", Root: "/abs/x", Depth: 1, Time: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}

	require.NoError(t, WriteFile(path, h, seq(sampleLines...)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\ufeff"+
		"Directory list of x upto 1 sub-level(s)\n"+
		"List folder only : False\n"+
		"Date of listing: 2024-01-01 09:00 AM\n"+
		"/abs/x\n"+
		",  ├──a.txt\n"+
		",  └──sub\n", string(data))
}

func TestWriteFile_Failure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "list.txt")

	err := WriteFile(path, Header{}, seq())
	assert.ErrorIs(t, err, ErrOutputWrite)
	assert.NoFileExists(t, path)
}

func TestWriteFile_RefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(path, []byte("keep"), 0644))

	assert.ErrorIs(t, WriteFile(path, Header{}, seq()), ErrOutputWrite)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestPrintTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintTree(&buf, "/abs/root", seq(sampleLines...), false))

	assert.Equal(t, "\n/abs/root\n,  ├──a.txt\n,  └──sub\n", buf.String())
}

func TestPrintTree_Colorized(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintTree(&buf, "/abs/root", seq(sampleLines...), true))

	out := buf.String()
	assert.Contains(t, out, ",  ├──a.txt\n")
	assert.Contains(t, out, "\x1b[")
	assert.Equal(t, "\n/abs/root\n,  ├──a.txt\n,  └──sub\n", stringutil.StripANSI(out))
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	PrintStats(&buf, tree.Stats{Dirs: 2, Files: 5, Skipped: 1}, false)

	out := buf.String()
	assert.Contains(t, out, "Directories")
	assert.True(t, strings.Contains(out, "Files") && strings.Contains(out, " 5\n"))
	assert.Contains(t, out, "Unreadable directories ..... 1")
}
