package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/adaw/core-tools/internal/types"
)

// parseSize parses a human-readable size string into bytes.
// Supports formats: "100", "1K", "1MB", "1GiB", etc. Empty means 0.
func parseSize(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	bytes, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	return int64(bytes), nil
}

// parseDate parses a YYYY-MM-DD date. Empty means the zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

// parseExtensions turns "jpg,.PNG, gif" into a lowercased dot-prefixed set.
// Returns nil for an empty list.
func parseExtensions(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, part := range strings.Split(s, ",") {
		ext := strings.ToLower(strings.TrimSpace(part))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

// parseMethod maps a CLI method name to a MatchMethod.
func parseMethod(s string) (types.MatchMethod, error) {
	switch s {
	case "content", "hash", "":
		return types.MethodContentHash, nil
	case "name", "size+name":
		return types.MethodNameSize, nil
	case "perceptual", "phash":
		return types.MethodPerceptual, nil
	default:
		return 0, fmt.Errorf("unknown method %q (want content, name or perceptual)", s)
	}
}
