// Package validation checks the relative paths that problem documents
// reference, such as images and code files, before they touch the
// filesystem. Documents are often third-party content, so a referenced
// path must never escape the directory it is resolved against.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// MaxPathLength is the maximum allowed length of a referenced path.
const MaxPathLength = 4096

// Common validation errors.
var (
	ErrPathTraversal    = errors.New("path traversal detected")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
)

// SanitizePath validates a document-referenced path against the directory
// it will be resolved in. It returns the cleaned relative path, or an error
// if the path is absolute, escapes baseDir, or contains invalid characters.
func SanitizePath(baseDir, refPath string) (string, error) {
	if err := ValidatePath(refPath); err != nil {
		return "", err
	}

	cleanPath := filepath.Clean(refPath)

	if strings.Contains(cleanPath, "..") {
		return "", ErrPathTraversal
	}
	if filepath.IsAbs(cleanPath) {
		return "", fmt.Errorf("%w: absolute path not allowed", ErrPathTraversal)
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(baseDir, cleanPath))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	relPath, err := filepath.Rel(absBase, absPath)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return "", ErrPathTraversal
	}

	return cleanPath, nil
}

// ValidatePath checks a referenced path for length limits and invalid
// characters without resolving it against a directory.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// IsPathSafe reports whether a referenced path resolves safely inside
// baseDir.
func IsPathSafe(baseDir, refPath string) bool {
	_, err := SanitizePath(baseDir, refPath)
	return err == nil
}
