package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/weights/sam2
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// ErrNotRegular is returned by RegularFile for directories and devices.
var ErrNotRegular = errors.New("not a regular file")

// RegularFile returns nil when path names an existing regular file.
func RegularFile(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrNotRegular)
	}
	return nil
}

// FileExists reports whether path is an existing regular file.
func FileExists(path string) bool { return RegularFile(path) == nil }
