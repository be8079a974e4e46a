package ymlfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// requireSymlink asserts that a given path is a symlink pointing to the expected target.
func requireSymlink(t *testing.T, linkPath, expectedTarget string) {
	t.Helper()

	info, err := os.Lstat(linkPath)
	require.NoError(t, err)
	require.True(t, info.Mode()&os.ModeSymlink != 0, "Expected symlink at %s", linkPath)

	target, err := os.Readlink(linkPath)
	require.NoError(t, err)
	require.Equal(t, expectedTarget, target)
}

func TestFromYml_SingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, FromYml(tmpDir, []byte(`file.txt: null`)))
	require.FileExists(t, filepath.Join(tmpDir, "file.txt"))
}

func TestFromYml_EmptyDir(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, FromYml(tmpDir, []byte(`mydir: {}`)))
	require.DirExists(t, filepath.Join(tmpDir, "mydir"))

	entries, err := os.ReadDir(filepath.Join(tmpDir, "mydir"))
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestFromYml_Nested(t *testing.T) {
	tmpDir := t.TempDir()

	yamlData := []byte(`
file1.txt: null
config: {}
.dotfiles:
  file2.txt: null
  dirB:
    file3.txt: null
link_to_file1:
  symlink: file1.txt
link_to_dirB:
  symlink: .dotfiles/dirB
`)
	require.NoError(t, FromYml(tmpDir, yamlData))

	require.FileExists(t, filepath.Join(tmpDir, "file1.txt"))
	require.DirExists(t, filepath.Join(tmpDir, "config"))
	require.FileExists(t, filepath.Join(tmpDir, ".dotfiles", "file2.txt"))
	require.FileExists(t, filepath.Join(tmpDir, ".dotfiles", "dirB", "file3.txt"))

	requireSymlink(t, filepath.Join(tmpDir, "link_to_file1"), "file1.txt")
	requireSymlink(t, filepath.Join(tmpDir, "link_to_dirB"), ".dotfiles/dirB")
}

func TestFromYml_Invalid(t *testing.T) {
	tmpDir := t.TempDir()
	require.Error(t, FromYml(tmpDir, []byte(`file.txt: 3`)))
	require.Error(t, FromYml(tmpDir, []byte("link:\n  symlink: [a, b]\n")))
	require.Error(t, FromYml(tmpDir, []byte(`: [`)))
}
