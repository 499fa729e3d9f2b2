package config

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}

	grid := cfg.Atlas.Grid()
	if grid.CellWidth != 88 || grid.CellHeight != 120 || grid.Rows != 17 || grid.Cols != 23 {
		t.Errorf("grid = %+v", grid)
	}
	if cfg.Matcher.MaxDistance != -1 {
		t.Errorf("MaxDistance = %d, want -1", cfg.Matcher.MaxDistance)
	}

	d, err := cfg.Matcher.Derivation()
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "dhash:8;crop:none" {
		t.Errorf("Derivation = %s", d)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Error("expected exists = false")
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Matcher.HashSize != 8 {
		t.Errorf("HashSize = %d", cfg.Matcher.HashSize)
	}
}

func TestLoadOverridesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[matcher]
reference_dir = "` + filepath.ToSlash(filepath.Join(dir, "ref")) + `"
hash_size = 16
crop = "0, 0, 32, 16"
extensions = ["PNG", "bmp"]
max_distance = 6

[atlas]
rows = 2
cols = 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Error("expected exists = true")
	}

	if got := strings.Join(cfg.Matcher.Extensions, ","); got != ".png,.bmp" {
		t.Errorf("Extensions = %s", got)
	}
	if cfg.Matcher.MaxDistance != 6 {
		t.Errorf("MaxDistance = %d", cfg.Matcher.MaxDistance)
	}
	if cfg.Atlas.Rows != 2 || cfg.Atlas.Cols != 3 || cfg.Atlas.CellWidth != 88 {
		t.Errorf("atlas = %+v", cfg.Atlas)
	}
	if want := filepath.Join(dir, "ref", "hash_database.cache"); cfg.Matcher.CachePath() != want {
		t.Errorf("CachePath = %s, want %s", cfg.Matcher.CachePath(), want)
	}

	d, err := cfg.Matcher.Derivation()
	if err != nil {
		t.Fatal(err)
	}
	if d.HashSize != 16 || d.Crop == nil || *d.Crop != image.Rect(0, 0, 32, 16) {
		t.Errorf("Derivation = %+v", d)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[matcher]\nthreshold = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unknown key")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"hash size", func(c *Config) { c.Matcher.HashSize = 1 }, "hash_size"},
		{"crop", func(c *Config) { c.Matcher.Crop = "1,2,3" }, "crop"},
		{"empty crop box", func(c *Config) { c.Matcher.Crop = "5,5,5,9" }, "crop"},
		{"max distance", func(c *Config) { c.Matcher.MaxDistance = -2 }, "max_distance"},
		{"progress", func(c *Config) { c.Matcher.ProgressEvery = -1 }, "progress_every"},
		{"cache name", func(c *Config) { c.Matcher.CacheName = "sub/cache" }, "cache_name"},
		{"extensions", func(c *Config) { c.Matcher.Extensions = nil }, "matcher.extensions"},
		{"unsupported extension", func(c *Config) { c.Atlas.Extensions = []string{".psd"} }, "atlas.extensions"},
		{"grid", func(c *Config) { c.Atlas.Rows = 0 }, "atlas.cell_width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestInitAndSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	written, err := Init(path, false)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if written != path {
		t.Errorf("Init wrote %s, want %s", written, path)
	}
	if _, err := Init(path, false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("second Init: err = %v, want ErrConfigExists", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected the written file to be found")
	}
	want := Default()
	if cfg.Atlas.Grid() != want.Atlas.Grid() || cfg.Matcher.HashSize != want.Matcher.HashSize ||
		cfg.Matcher.ProgressEvery != want.Matcher.ProgressEvery {
		t.Errorf("round trip changed settings: %+v", cfg)
	}
}

func TestParseCrop(t *testing.T) {
	rect, err := ParseCrop("")
	if err != nil || rect != nil {
		t.Errorf("empty crop = %v, %v", rect, err)
	}
	if _, err := ParseCrop("a,b,c,d"); err == nil {
		t.Error("expected an error for non-numeric crop")
	}
	rect, err = ParseCrop("10,20,30,40")
	if err != nil {
		t.Fatal(err)
	}
	if *rect != image.Rect(10, 20, 30, 40) {
		t.Errorf("rect = %v", rect)
	}
}

func TestExpandPathHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/dumps")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "dumps"); got != want {
		t.Errorf("ExpandPath = %s, want %s", got, want)
	}
}
