package main

import (
	"testing"

	"github.com/adaw/core-tools/internal/types"
)

// TestParseSize tests human-readable size parsing.
func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"100", 100, false},
		{"1K", 1000, false},
		{"1KiB", 1024, false},
		{"10M", 10 * 1000 * 1000, false},
		{"bogus", 0, true},
	}
	for _, tt := range tests {
		got, err := parseSize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSize(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseSize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// TestParseDate tests date parsing and the empty case.
func TestParseDate(t *testing.T) {
	d, err := parseDate("2024-06-15")
	if err != nil {
		t.Fatal(err)
	}
	if d.Year() != 2024 || int(d.Month()) != 6 || d.Day() != 15 {
		t.Errorf("parseDate = %v", d)
	}

	zero, err := parseDate("")
	if err != nil || !zero.IsZero() {
		t.Errorf("empty date should be zero time, got %v, %v", zero, err)
	}

	if _, err := parseDate("June 15"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

// TestParseExtensions tests normalization of the extension list.
func TestParseExtensions(t *testing.T) {
	set := parseExtensions("jpg,.PNG, gif ,")
	if len(set) != 3 {
		t.Fatalf("expected 3 extensions, got %d", len(set))
	}
	for _, want := range []string{".jpg", ".png", ".gif"} {
		if _, ok := set[want]; !ok {
			t.Errorf("missing %s in %v", want, set)
		}
	}

	if parseExtensions("") != nil {
		t.Error("empty list should return nil")
	}
}

// TestParseMethod tests method-name mapping.
func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want types.MatchMethod
	}{
		{"content", types.MethodContentHash},
		{"", types.MethodContentHash},
		{"name", types.MethodNameSize},
		{"size+name", types.MethodNameSize},
		{"perceptual", types.MethodPerceptual},
		{"phash", types.MethodPerceptual},
	}
	for _, tt := range tests {
		got, err := parseMethod(tt.in)
		if err != nil {
			t.Errorf("parseMethod(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseMethod(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := parseMethod("psychic"); err == nil {
		t.Error("expected error for unknown method")
	}
}
