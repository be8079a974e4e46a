package tree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrDirectoryUnreadable is returned when a directory cannot be enumerated.
var ErrDirectoryUnreadable = errors.New("directory unreadable")

type Kind int

const (
	KindOther Kind = iota
	KindFile
	KindDir
	KindSymlink
)

// Entry is one immediate child of a listed directory.
type Entry struct {
	Name string
	Kind Kind
}

// Lister enumerates the immediate children of a directory.
type Lister interface {
	List(path string) ([]Entry, error)
}

// OSLister lists directories on the local filesystem in the order the
// filesystem returns them. Symlinks are reported as such and never followed.
type OSLister struct{}

func (OSLister) List(path string) ([]Entry, error) {
	dir, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDirectoryUnreadable, path, err)
	}
	defer dir.Close()

	dirEntries, err := dir.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDirectoryUnreadable, path, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entries = append(entries, Entry{Name: de.Name(), Kind: kindOf(de.Type())})
	}
	return entries, nil
}

func kindOf(mode fs.FileMode) Kind {
	switch {
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	case mode.IsDir():
		return KindDir
	case mode.IsRegular():
		return KindFile
	default:
		return KindOther
	}
}
