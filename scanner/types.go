package scanner

import "texturematch/imageprocessor"

// ScanOptions defines the options for building a hash database
type ScanOptions struct {
	FolderPath    string
	CachePath     string // defaults to DefaultCacheName inside FolderPath
	Derivation    imageprocessor.Derivation
	Extensions    []string // defaults to DefaultExtensions
	ForceRewrite  bool     // ignore any existing cache
	CheckStale    bool     // reject a cache whose file listing differs
	ProgressEvery int
	DebugMode     bool
}

// ProcessImageResult holds the result of fingerprinting one reference image
type ProcessImageResult struct {
	Path    string
	Success bool
	Error   error
}

// BuildStats summarizes one build
type BuildStats struct {
	Scanned      int
	Indexed      int
	Skipped      int
	DistinctKeys int
	FromCache    bool
	CachePath    string
	CacheSaved   bool
}
