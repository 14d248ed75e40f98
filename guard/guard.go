// CLAUDE:SUMMARY Input guards for externally supplied paths, ids and streams (MCP arguments, uploads).
// Package guard checks values that arrive from outside the process before
// they reach the filesystem: output paths, note ids and image uploads.
package guard

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrPathTraversal is returned when a path escapes its base directory.
var ErrPathTraversal = errors.New("guard: path traversal detected")

// ErrTooLarge is returned by LimitedReadAll when the stream exceeds its cap.
var ErrTooLarge = errors.New("guard: input too large")

// SafePath joins userInput under base and rejects anything that would land
// outside it.
func SafePath(base, userInput string) (string, error) {
	if strings.Contains(userInput, "..") {
		return "", ErrPathTraversal
	}
	cleanBase := filepath.Clean(base)
	cleaned := filepath.Join(cleanBase, filepath.Clean("/"+userInput))
	if cleaned != cleanBase && !strings.HasPrefix(cleaned, cleanBase+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}
	return cleaned, nil
}

// ValidateID rejects ids unusable as file names: empty, longer than 256
// bytes, or holding anything but letters, digits, '_', '-' and '.'.
func ValidateID(s string) error {
	if s == "" {
		return fmt.Errorf("guard: id must not be empty")
	}
	if len(s) > 256 {
		return fmt.Errorf("guard: id too long (max 256)")
	}
	if s == "." || s == ".." {
		return fmt.Errorf("guard: invalid id %q", s)
	}
	for _, r := range s {
		if !isIDChar(r) {
			return fmt.Errorf("guard: invalid character %q in id", r)
		}
	}
	return nil
}

// LimitedReadAll reads at most maxBytes from r.
func LimitedReadAll(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
	}
	return data, nil
}

func isIDChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.'
}
