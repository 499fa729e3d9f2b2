package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"texturematch/imageprocessor"
)

// ListImageFiles returns the names of regular files in dir whose extension is
// in exts, sorted by name. Directory listing order varies across platforms,
// and tie-breaks in both matching engines depend on iteration order.
func ListImageFiles(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageprocessor.HasExtension(entry.Name(), exts) {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)
	return names, nil
}

// QueryKey strips the directory and extension from a dump file name. The
// emulator names its dumps after the texture hash, so the stem is the key.
func QueryKey(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// RequireDir returns an error naming path unless it is an existing directory
func RequireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("folder path does not exist: %s", path)
		}
		return fmt.Errorf("cannot access folder path: %s (%w)", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}
	return nil
}
