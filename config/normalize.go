package config

import (
	"fmt"
	"strings"
)

// Normalize expands paths and canonicalizes extensions. Load calls it; the
// CLI calls it again after applying flags.
func (c *Config) Normalize() error {
	paths := []struct {
		name  string
		value *string
	}{
		{"matcher.reference_dir", &c.Matcher.ReferenceDir},
		{"matcher.dump_dir", &c.Matcher.DumpDir},
		{"matcher.output", &c.Matcher.Output},
		{"atlas.small_dir", &c.Atlas.SmallDir},
		{"atlas.atlas_dir", &c.Atlas.AtlasDir},
		{"atlas.output", &c.Atlas.Output},
	}
	for _, p := range paths {
		expanded, err := expandPath(strings.TrimSpace(*p.value))
		if err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}
		*p.value = expanded
	}

	if strings.TrimSpace(c.Matcher.CacheName) == "" {
		c.Matcher.CacheName = defaultCacheName
	}

	c.Matcher.Extensions = normalizeExtensions(c.Matcher.Extensions)
	c.Atlas.Extensions = normalizeExtensions(c.Atlas.Extensions)
	return nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
