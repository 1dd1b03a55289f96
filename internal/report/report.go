// Package report renders scan results to a file.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/adaw/core-tools/internal/types"
)

const toolName = "CORE Duplicate Finder"

// Format selects the report rendering.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// FormatForPath picks a format from a file extension; JSON is the default.
func FormatForPath(path string) Format {
	if strings.HasSuffix(strings.ToLower(path), ".txt") {
		return FormatText
	}
	return FormatJSON
}

// document is the JSON report envelope.
type document struct {
	Tool      string       `json:"tool"`
	Version   string       `json:"version"`
	Timestamp time.Time    `json:"timestamp"`
	Roots     []string     `json:"roots"`
	Groups    []groupEntry `json:"groups"`
	Stats     statsEntry   `json:"stats"`
}

type groupEntry struct {
	Key    string   `json:"key"`
	Method string   `json:"method"`
	Files  []string `json:"files"`
	Size   int64    `json:"size"`
	Count  int      `json:"count"`
	Wasted int64    `json:"wasted"`
}

type statsEntry struct {
	FilesScanned    int   `json:"files_scanned"`
	DuplicatesFound int   `json:"duplicates_found"`
	WastedBytes     int64 `json:"wasted_bytes"`
}

// Write renders the scan result in the given format.
func Write(w io.Writer, format Format, version string, groups []types.DuplicateGroup, stats types.ScanStats, roots []string) error {
	switch format {
	case FormatText:
		return writeText(w, groups, stats, roots)
	case FormatJSON:
		return writeJSON(w, version, groups, stats, roots)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

func writeJSON(w io.Writer, version string, groups []types.DuplicateGroup, stats types.ScanStats, roots []string) error {
	doc := document{
		Tool:      toolName,
		Version:   version,
		Timestamp: time.Now(),
		Roots:     roots,
		Groups:    make([]groupEntry, 0, len(groups)),
		Stats: statsEntry{
			FilesScanned:    stats.FilesScanned,
			DuplicatesFound: stats.DuplicatesFound,
			WastedBytes:     stats.WastedBytes,
		},
	}
	for _, g := range groups {
		doc.Groups = append(doc.Groups, groupEntry{
			Key:    g.Key,
			Method: g.Method.String(),
			Files:  g.Paths(),
			Size:   g.Size,
			Count:  g.Count,
			Wasted: g.WastedBytes,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func writeText(w io.Writer, groups []types.DuplicateGroup, stats types.ScanStats, roots []string) error {
	fmt.Fprintf(w, "%s Report — %s\n", toolName, time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Roots: %s\n", strings.Join(roots, ", "))
	fmt.Fprintf(w, "Files scanned: %d\n", stats.FilesScanned)
	fmt.Fprintf(w, "Duplicates: %d\n", stats.DuplicatesFound)
	fmt.Fprintf(w, "Wasted: %s\n\n", humanize.IBytes(uint64(stats.WastedBytes)))
	for i, g := range groups {
		fmt.Fprintf(w, "--- Group %d (%s, %s) ---\n", i+1, g.Method, humanize.IBytes(uint64(g.Size)))
		for _, p := range g.Paths() {
			fmt.Fprintf(w, "  %s\n", p)
		}
		fmt.Fprintln(w)
	}
	return nil
}
