package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/adaw/core-tools/internal/types"
)

func fixture() ([]types.DuplicateGroup, types.ScanStats) {
	groups := []types.DuplicateGroup{
		types.NewDuplicateGroup("abc123", types.MethodContentHash, []*types.CandidateFile{
			{Path: "/x/a.bin", Size: 100},
			{Path: "/x/b.bin", Size: 100},
		}),
	}
	stats := types.ScanStats{FilesScanned: 10, DuplicatesFound: 1, WastedBytes: 100}
	return groups, stats
}

// TestFormatForPath tests extension-based format selection.
func TestFormatForPath(t *testing.T) {
	if FormatForPath("/tmp/out.TXT") != FormatText {
		t.Error(".txt should select the text format")
	}
	if FormatForPath("/tmp/out.json") != FormatJSON {
		t.Error(".json should select the JSON format")
	}
	if FormatForPath("/tmp/out") != FormatJSON {
		t.Error("JSON should be the default format")
	}
}

// TestWriteJSON tests the JSON document structure.
func TestWriteJSON(t *testing.T) {
	groups, stats := fixture()
	var buf bytes.Buffer

	if err := Write(&buf, FormatJSON, "1.0.0", groups, stats, []string{"/x"}); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Tool   string `json:"tool"`
		Roots  []string
		Groups []struct {
			Key    string   `json:"key"`
			Method string   `json:"method"`
			Files  []string `json:"files"`
			Wasted int64    `json:"wasted"`
		} `json:"groups"`
		Stats struct {
			FilesScanned int `json:"files_scanned"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}

	if doc.Tool != "CORE Duplicate Finder" {
		t.Errorf("tool = %q", doc.Tool)
	}
	if len(doc.Groups) != 1 || doc.Groups[0].Wasted != 100 {
		t.Errorf("unexpected groups: %+v", doc.Groups)
	}
	if doc.Groups[0].Method != "content-hash" {
		t.Errorf("method = %q", doc.Groups[0].Method)
	}
	if doc.Stats.FilesScanned != 10 {
		t.Errorf("files_scanned = %d", doc.Stats.FilesScanned)
	}
}

// TestWriteText tests the text rendering essentials.
func TestWriteText(t *testing.T) {
	groups, stats := fixture()
	var buf bytes.Buffer

	if err := Write(&buf, FormatText, "1.0.0", groups, stats, []string{"/x"}); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"Files scanned: 10", "/x/a.bin", "/x/b.bin", "Group 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q", want)
		}
	}
}

// TestWriteUnknownFormat tests the error path.
func TestWriteUnknownFormat(t *testing.T) {
	groups, stats := fixture()
	if err := Write(&bytes.Buffer{}, Format("xml"), "1.0.0", groups, stats, nil); err == nil {
		t.Error("expected error for unknown format")
	}
}
