package config

const (
	defaultOutput        = "textures.ini"
	defaultCacheName     = "hash_database.cache"
	defaultHashSize      = 8
	defaultMaxDistance   = -1
	defaultProgressEvery = 500
	defaultCellWidth     = 88
	defaultCellHeight    = 120
	defaultRows          = 17
	defaultCols          = 23
	defaultSmallDir      = "small"
	defaultAtlasDir      = "tiny"
)

// Default returns the built-in settings
func Default() Config {
	return Config{
		Matcher: Matcher{
			Output:        defaultOutput,
			CacheName:     defaultCacheName,
			HashSize:      defaultHashSize,
			Extensions:    []string{".png"},
			MaxDistance:   defaultMaxDistance,
			ProgressEvery: defaultProgressEvery,
		},
		Atlas: Atlas{
			SmallDir:   defaultSmallDir,
			AtlasDir:   defaultAtlasDir,
			CellWidth:  defaultCellWidth,
			CellHeight: defaultCellHeight,
			Rows:       defaultRows,
			Cols:       defaultCols,
			Extensions: []string{".png", ".jpg", ".jpeg"},
		},
	}
}
