// Package scanner builds the fingerprint database for a folder of reference
// textures, reusing the cache artifact stored beside them when possible.
package scanner

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"texturematch/imageprocessor"
	"texturematch/logging"
	"texturematch/progress"
	"texturematch/types"
	"texturematch/utils"
)

// ErrFolderNotFound is returned when the reference folder is missing
var ErrFolderNotFound = errors.New("reference folder not found")

// BuildHashDatabase returns the fingerprint database for options.FolderPath.
//
// An existing cache is returned as-is unless ForceRewrite is set or the cache
// is rejected (unreadable, other format version, other derivation, or a
// changed listing when CheckStale is set). Otherwise every accepted image is
// fingerprinted in name order and the result is written back to the cache.
func BuildHashDatabase(options ScanOptions) (*types.HashDatabase, BuildStats, error) {
	stats := BuildStats{CachePath: options.cachePath()}

	if err := utils.RequireDir(options.FolderPath); err != nil {
		return nil, stats, fmt.Errorf("%w: %v", ErrFolderNotFound, err)
	}

	startTime := time.Now()

	names, err := listReferenceImages(options)
	if err != nil {
		return nil, stats, fmt.Errorf("cannot list reference folder %s: %w", options.FolderPath, err)
	}

	printStartupInfo(len(names), options)

	if !options.ForceRewrite {
		if cached := loadFromCache(options, names); cached != nil {
			stats.FromCache = true
			stats.Indexed = cached.Len()
			stats.DistinctKeys = cached.DistinctKeys()
			printCompletionStats(stats, startTime, options)
			return cached, stats, nil
		}
	}

	fmt.Println("  No valid cache found. Building database from images...")

	processor := imageprocessor.NewImageProcessor(options.Derivation, options.DebugMode)
	reporter := progress.New(progress.Options{
		Verb:  "indexed",
		Total: len(names),
		Every: options.ProgressEvery,
	})

	hashDB := types.NewHashDatabase()
	for _, name := range names {
		stats.Scanned++

		result := processAndStoreImage(processor, hashDB, filepath.Join(options.FolderPath, name), name)
		if result.Success {
			stats.Indexed++
			logging.LogImageProcessed(result.Path, true, "")
		} else {
			stats.Skipped++
			logging.LogWarning("Could not process %s: %v", name, result.Error)
			logging.LogImageProcessed(result.Path, false, result.Error.Error())
		}

		reporter.Increment()
	}
	reporter.Finish()

	stats.DistinctKeys = hashDB.DistinctKeys()

	fmt.Printf("  Saving database to cache file: %s\n", stats.CachePath)
	stats.CacheSaved = persistCache(options, hashDB, names)

	printCompletionStats(stats, startTime, options)

	return hashDB, stats, nil
}

// processAndStoreImage fingerprints one reference image and records it under
// its file name
func processAndStoreImage(processor *imageprocessor.ImageProcessor, hashDB *types.HashDatabase, path, name string) ProcessImageResult {
	result := ProcessImageResult{Path: path}

	fp, err := processor.Fingerprint(path)
	if err != nil {
		result.Error = err
		return result
	}

	hashDB.Add(fp, name)
	result.Success = true
	return result
}
