package util

import (
	"path/filepath"
	"strings"
)

// TakeLast collapses a repeatable flag to its final occurrence.
// Returns "" for an empty slice.
func TakeLast(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

// NormalizeList trims whitespace, removes empty strings, and deduplicates
// entries while preserving order. Returns nil when nothing survives, so an
// empty list reads as absent.
func NormalizeList(ss []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ExpandHome replaces a leading "~" with the given home directory.
// Paths without the prefix are returned unchanged, as is everything
// when home is empty.
func ExpandHome(path, home string) string {
	if home == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
