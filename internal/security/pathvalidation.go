// Package security validates user-supplied output paths.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidatePathWithinDirectory checks that filePath, once joined to dir when
// relative, stays inside dir. The check is lexical; it does not resolve
// symlinks, so it also works for paths that do not exist yet.
func ValidatePathWithinDirectory(filePath, dir string) error {
	cleanDir := filepath.Clean(dir)
	cleanPath := filepath.Clean(filePath)
	if !filepath.IsAbs(cleanPath) {
		cleanPath = filepath.Join(cleanDir, cleanPath)
	}

	rel, err := filepath.Rel(cleanDir, cleanPath)
	if err != nil {
		return fmt.Errorf("path is outside directory: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("path traversal detected: %s attempts to escape %s", filePath, dir)
	}
	return nil
}

// ResolveOutputPath joins a relative path to dir and validates it. Absolute
// paths and an empty dir are accepted as-is.
func ResolveOutputPath(dir, filePath string) (string, error) {
	if dir == "" || filepath.IsAbs(filePath) {
		return filePath, nil
	}
	if err := ValidatePathWithinDirectory(filePath, dir); err != nil {
		return "", err
	}
	return filepath.Join(dir, filePath), nil
}
