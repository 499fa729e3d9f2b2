package scanner

import (
	"errors"
	"time"

	"texturematch/database"
	"texturematch/logging"
	"texturematch/types"
)

// loadFromCache returns the cached database, or nil when the cache is
// missing or rejected and the folder must be rescanned
func loadFromCache(options ScanOptions, names []string) *types.HashDatabase {
	cachePath := options.cachePath()

	loadOpts := database.LoadOptions{
		Derivation: options.Derivation.String(),
		CheckStale: options.CheckStale,
	}
	if options.CheckStale {
		loadOpts.ListingDigest = database.ListingDigest(names)
	}

	hashDB, _, err := database.LoadHashDatabase(cachePath, loadOpts)
	if err != nil {
		if errors.Is(err, database.ErrCacheNotFound) {
			logging.DebugLog("No cache at %s", cachePath)
		} else {
			logging.LogWarning("Could not load cache file %s, rebuilding: %v", cachePath, err)
		}
		return nil
	}

	return hashDB
}

// persistCache writes the database next to the reference images. Failure is
// reported but never fatal.
func persistCache(options ScanOptions, hashDB *types.HashDatabase, names []string) bool {
	cachePath := options.cachePath()

	meta := database.CacheMeta{
		Derivation:    options.Derivation.String(),
		ListingDigest: database.ListingDigest(names),
		BuiltAt:       time.Now(),
	}

	if err := database.SaveHashDatabase(cachePath, hashDB, meta); err != nil {
		logging.LogWarning("Could not save cache file %s: %v", cachePath, err)
		return false
	}
	logging.LogInfo("Cache written: %s (%d entries, derivation %s)", cachePath, hashDB.Len(), meta.Derivation)
	return true
}
