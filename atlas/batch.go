package atlas

import (
	"fmt"
	"path/filepath"

	"texturematch/logging"
	"texturematch/report"
	"texturematch/types"
)

// LocateOptions configures a batch of thumbnail lookups
type LocateOptions struct {
	SmallDir   string // holds <id>.png thumbnails
	AtlasDir   string
	Grid       types.Grid
	Extensions []string
	OutputPath string // optional report of "<id> = <atlas>,<x>,<y>" lines
}

// LocateResult is the outcome for one thumbnail id
type LocateResult struct {
	ID    string
	Match types.AtlasMatch
	Found bool
	Err   error
}

// LocateIDs looks up every id in order. A missing or unreadable thumbnail is
// recorded in its result; configuration problems abort the batch.
func LocateIDs(ids []string, opts LocateOptions) ([]LocateResult, error) {
	if _, err := ListAtlases(opts.AtlasDir, opts.Extensions); err != nil {
		return nil, err
	}

	results := make([]LocateResult, 0, len(ids))
	var entries []string

	for _, id := range ids {
		queryPath := filepath.Join(opts.SmallDir, id+".png")
		match, found, err := LocateFile(queryPath, opts.AtlasDir, opts.Grid, opts.Extensions)
		result := LocateResult{ID: id, Match: match, Found: found, Err: err}
		results = append(results, result)

		switch {
		case err != nil:
			logging.LogWarning("Could not locate %s: %v", id, err)
		case !found:
			logging.LogWarning("Could not find a suitable match for %s in any atlas", id)
		default:
			entries = append(entries, report.FormatAtlasEntry(id, match))
		}
	}

	if opts.OutputPath != "" {
		if err := report.WriteINI(opts.OutputPath, entries); err != nil {
			return results, fmt.Errorf("cannot write locate report: %w", err)
		}
	}

	return results, nil
}
