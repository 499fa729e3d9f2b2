// Package report writes emulator texture replacement files
package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"texturematch/logging"
	"texturematch/types"
)

// Section is the header every replacement file starts with
const Section = "[hashes]"

// Entry renders one replacement line
func Entry(key, value string) string {
	return fmt.Sprintf("%s = %s", key, value)
}

// FormatAtlasEntry renders a located thumbnail as "<id> = <atlas>,<x>,<y>"
func FormatAtlasEntry(id string, match types.AtlasMatch) string {
	return Entry(id, fmt.Sprintf("%s,%d,%d", match.Atlas, match.X, match.Y))
}

// Normalize removes duplicate lines and sorts the rest by their full text
func Normalize(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		lines = append(lines, entry)
	}
	sort.Strings(lines)
	return lines
}

// WriteINI writes the section header followed by the normalized entries, one
// per line. The parent directory is created if needed.
func WriteINI(path string, entries []string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create report directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create report %s: %w", path, err)
	}
	defer f.Close()

	lines := Normalize(entries)

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, Section)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("cannot write report %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot close report %s: %w", path, err)
	}

	logging.DebugLog("Wrote %d entries to %s", len(lines), path)
	return nil
}
