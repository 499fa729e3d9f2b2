// Package matcher maps dumped textures to their closest reference texture by
// Hamming distance between fingerprints.
package matcher

import (
	"errors"
	"fmt"

	"texturematch/imageprocessor"
	"texturematch/types"
	"texturematch/utils"
)

// ErrEmptyDatabase is returned when there is nothing to match against
var ErrEmptyDatabase = errors.New("hash database is empty")

// FindNearest scans the distinct fingerprints of db in first-insertion order
// and returns the one closest to fp, named by its last write. Ties keep the
// earlier fingerprint and the scan stops at the first exact match. The
// boolean is false only when db is empty.
func FindNearest(fp types.Fingerprint, db *types.HashDatabase) (types.MatchResult, bool) {
	var best types.MatchResult
	found := false

	db.Range(func(entry types.Entry) bool {
		distance := types.HammingDistance(fp, entry.Fingerprint)
		if !found || distance < best.Distance {
			best.Name = entry.Name
			best.Distance = distance
			found = true
		}
		return best.Distance != 0
	})

	return best, found
}

// MatchImage fingerprints the image at path and looks up its nearest entry
func MatchImage(path string, db *types.HashDatabase, derivation imageprocessor.Derivation) (types.MatchResult, error) {
	return matchWith(imageprocessor.NewImageProcessor(derivation, false), path, db)
}

func matchWith(processor *imageprocessor.ImageProcessor, path string, db *types.HashDatabase) (types.MatchResult, error) {
	if db.Len() == 0 {
		return types.MatchResult{}, ErrEmptyDatabase
	}

	fp, err := processor.Fingerprint(path)
	if err != nil {
		return types.MatchResult{}, err
	}

	result, ok := FindNearest(fp, db)
	if !ok {
		return types.MatchResult{}, fmt.Errorf("no match for %s: %w", path, ErrEmptyDatabase)
	}

	result.QueryKey = utils.QueryKey(path)
	result.QueryPath = path
	return result, nil
}
