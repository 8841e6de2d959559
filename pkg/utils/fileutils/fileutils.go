package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func ExpandHome(path string) string {
	if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			return home
		}
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}

	return path
}

func AbsPath(path string) (string, error) {
	expanded := ExpandHome(strings.TrimSpace(path))
	if expanded == "" {
		return "", fmt.Errorf("path is empty")
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", path, err)
	}

	return filepath.Clean(abs), nil
}

// CanonicalPath returns the absolute path of an existing file or directory
// with every symbolic link resolved.
func CanonicalPath(path string) (string, error) {
	abs, err := AbsPath(path)
	if err != nil {
		return "", err
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", abs, err)
	}
	return filepath.Clean(canonical), nil
}

// WriteFileAtomic writes data to a temporary file next to dest and renames it
// into place, so readers never observe a partial file.
func WriteFileAtomic(dest string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create parent directory for %s: %w", dest, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temporary file for %s: %w", dest, err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temporary file %s: %w", tmpPath, writeErr)
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temporary file %s: %w", tmpPath, closeErr)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temporary file %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s with %s: %w", dest, tmpPath, err)
	}

	return nil
}
