// Package config loads and validates texturematch settings.
//
// Settings live in a TOML file under the XDG config directory. Every engine
// call receives its options from a Config, with command line flags applied on
// top by the CLI.
package config

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"texturematch/imageprocessor"
	"texturematch/types"
)

// AppName names the config directory
const AppName = "texturematch"

// ErrConfigExists is returned by Init when it would overwrite a file
var ErrConfigExists = errors.New("config already exists")

// Matcher configures the index and match commands
type Matcher struct {
	ReferenceDir  string   `toml:"reference_dir"`
	DumpDir       string   `toml:"dump_dir"`
	Output        string   `toml:"output"`
	CacheName     string   `toml:"cache_name"`
	HashSize      int      `toml:"hash_size"`
	Crop          string   `toml:"crop"` // "left,top,right,bottom", empty for none
	Extensions    []string `toml:"extensions"`
	Verify        bool     `toml:"verify"`
	MaxDistance   int      `toml:"max_distance"`
	CheckStale    bool     `toml:"check_stale"`
	ProgressEvery int      `toml:"progress_every"`
}

// Atlas configures the locate command
type Atlas struct {
	SmallDir   string   `toml:"small_dir"`
	AtlasDir   string   `toml:"atlas_dir"`
	CellWidth  int      `toml:"cell_width"`
	CellHeight int      `toml:"cell_height"`
	Rows       int      `toml:"rows"`
	Cols       int      `toml:"cols"`
	Extensions []string `toml:"extensions"`
	Output     string   `toml:"output"`
}

// Config is the full settings file
type Config struct {
	Matcher Matcher `toml:"matcher"`
	Atlas   Atlas   `toml:"atlas"`
}

// DefaultConfigPath returns the config file location under the XDG config home
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}

// Load reads path, or the default location when path is empty, on top of
// Default(). A missing file is not an error. It returns the resolved path and
// whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

// Save writes cfg to path as TOML, creating the parent directory
func Save(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Init writes the default settings to path unless a file is already there
func Init(path string, overwrite bool) (string, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(expanded); err == nil && !overwrite {
		return expanded, fmt.Errorf("%w at %s", ErrConfigExists, expanded)
	}

	cfg := Default()
	return expanded, Save(expanded, &cfg)
}

// Grid returns the atlas cell layout
func (a Atlas) Grid() types.Grid {
	return types.Grid{
		CellWidth:  a.CellWidth,
		CellHeight: a.CellHeight,
		Rows:       a.Rows,
		Cols:       a.Cols,
	}
}

// Derivation returns the fingerprint parameters configured for matching
func (m Matcher) Derivation() (imageprocessor.Derivation, error) {
	crop, err := ParseCrop(m.Crop)
	if err != nil {
		return imageprocessor.Derivation{}, err
	}
	return imageprocessor.Derivation{HashSize: m.HashSize, Crop: crop}, nil
}

// CachePath returns the cache file inside the reference folder
func (m Matcher) CachePath() string {
	if m.ReferenceDir == "" {
		return ""
	}
	return filepath.Join(m.ReferenceDir, m.CacheName)
}

// ParseCrop parses a "left,top,right,bottom" box. An empty string means no
// crop.
func ParseCrop(value string) (*image.Rectangle, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("crop %q must have four comma separated values", value)
	}

	var coords [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("crop %q: %w", value, err)
		}
		coords[i] = n
	}

	rect := image.Rect(coords[0], coords[1], coords[2], coords[3])
	if coords[2] <= coords[0] || coords[3] <= coords[1] {
		return nil, fmt.Errorf("crop %q is empty", value)
	}
	return &rect, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath applies the config path rules to a flag value
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
