package scanner

import (
	"path/filepath"

	"texturematch/utils"
)

// DefaultCacheName is the cache file created inside the reference folder
const DefaultCacheName = "hash_database.cache"

// DefaultExtensions lists the reference image types indexed by default
var DefaultExtensions = []string{".png"}

func (o ScanOptions) cachePath() string {
	if o.CachePath != "" {
		return o.CachePath
	}
	return filepath.Join(o.FolderPath, DefaultCacheName)
}

func (o ScanOptions) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions
	}
	return o.Extensions
}

// listReferenceImages returns the accepted image names in name order
func listReferenceImages(options ScanOptions) ([]string, error) {
	return utils.ListImageFiles(options.FolderPath, options.extensions())
}
