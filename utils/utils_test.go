package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestListImageFilesSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.png", "a.PNG", "b.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ListImageFiles(dir, []string{".png"})
	if err != nil {
		t.Fatalf("ListImageFiles: %v", err)
	}
	want := []string{"a.PNG", "c.png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := ListImageFiles(filepath.Join(dir, "missing"), []string{".png"}); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestQueryKey(t *testing.T) {
	tests := map[string]string{
		"dump/0a1b2c3d.png":      "0a1b2c3d",
		"plain":                  "plain",
		"/x/y/name.with.dot.png": "name.with.dot",
	}
	for in, want := range tests {
		if got := QueryKey(in); got != want {
			t.Errorf("QueryKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRequireDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.png")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := RequireDir(dir); err != nil {
		t.Errorf("RequireDir(dir) = %v", err)
	}
	if err := RequireDir(file); err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("RequireDir(file) = %v", err)
	}
	if err := RequireDir(filepath.Join(dir, "nope")); err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("RequireDir(missing) = %v", err)
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"Query", "Match"}, [][]string{{"abc", "card.png"}, {"short"}}, []ColumnAlignment{AlignLeft, AlignRight})
	for _, want := range []string{"Query", "card.png", "short"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if RenderTable(nil, nil, nil) != "" {
		t.Error("empty headers should render nothing")
	}
}

func TestFormatters(t *testing.T) {
	if got := FormatCount(12345); got != "12,345" {
		t.Errorf("FormatCount = %q", got)
	}
	if got := FormatBytes(2048); got != "2.0 kB" {
		t.Errorf("FormatBytes = %q", got)
	}
}
