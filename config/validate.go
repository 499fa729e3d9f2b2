package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"texturematch/imageprocessor"
)

const maxHashSize = 64

// Validate ensures the configuration is usable
func (c *Config) Validate() error {
	if err := c.validateMatcher(); err != nil {
		return err
	}
	return c.validateAtlas()
}

func (c *Config) validateMatcher() error {
	m := c.Matcher
	if m.HashSize < 2 || m.HashSize > maxHashSize {
		return fmt.Errorf("matcher.hash_size must be between 2 and %d", maxHashSize)
	}
	if _, err := ParseCrop(m.Crop); err != nil {
		return fmt.Errorf("matcher.crop: %w", err)
	}
	if err := validateExtensions("matcher.extensions", m.Extensions); err != nil {
		return err
	}
	if m.MaxDistance < -1 {
		return errors.New("matcher.max_distance must be -1 (unlimited) or a bit count")
	}
	if m.ProgressEvery < 0 {
		return errors.New("matcher.progress_every must not be negative")
	}
	if filepath.Base(m.CacheName) != m.CacheName {
		return errors.New("matcher.cache_name must be a file name, not a path")
	}
	return nil
}

func (c *Config) validateAtlas() error {
	a := c.Atlas
	if !a.Grid().Valid() {
		return errors.New("atlas.cell_width, atlas.cell_height, atlas.rows and atlas.cols must be positive")
	}
	return validateExtensions("atlas.extensions", a.Extensions)
}

func validateExtensions(name string, exts []string) error {
	if len(exts) == 0 {
		return fmt.Errorf("%s must list at least one extension", name)
	}
	for _, ext := range exts {
		if !imageprocessor.IsImageFile("x" + ext) {
			return fmt.Errorf("%s: unsupported image type %q", name, ext)
		}
	}
	return nil
}
