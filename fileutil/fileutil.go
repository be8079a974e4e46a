package fileutil

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrPathNotFound   = errors.New("path does not exist")
	ErrNotADirectory  = errors.New("path is not a directory")
	errNoFreeFilename = errors.New("no free file name")
)

// maxSuffix bounds the numeric suffix search in NextFreeName.
const maxSuffix = 100000

// PathExists returns true if the given path exists (file, dir, symlink, etc.).
func PathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsRegularFile returns true if the path resolves to a regular file.
// Symlinks are followed.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ValidateDir checks that path exists and is a directory.
func ValidateDir(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, ErrPathNotFound)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrNotADirectory)
	}
	return nil
}

// MatchesPatterns checks if `value` matches any of the patterns in the list.
// Returns true if matched, or error if any pattern is invalid.
func MatchesPatterns(value string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, value)
		if err != nil {
			return false, fmt.Errorf("error matching pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// ExpandPath expands a leading ~ to the home directory and any $VARS.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return os.ExpandEnv(path)
}

// NextFreeName returns base+ext if nothing exists there, otherwise the first
// free base_NNN+ext counting up from 000.
func NextFreeName(base, ext string) (string, error) {
	name := base + ext
	for n := 0; PathExists(name); n++ {
		if n >= maxSuffix {
			return "", fmt.Errorf("%s%s: %w", base, ext, errNoFreeFilename)
		}
		name = fmt.Sprintf("%s_%03d%s", base, n, ext)
	}
	return name, nil
}

// ReadFileLines reads a file line by line, trimming surrounding whitespace.
// Blank lines and lines starting with '#' are dropped when ignoreBlank is set.
func ReadFileLines(filePath string, ignoreBlank bool) ([]string, error) {
	var lines []string

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if ignoreBlank && (line == "" || strings.HasPrefix(line, "#")) {
			continue
		}
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return lines, nil
}
