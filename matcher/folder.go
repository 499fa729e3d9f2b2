package matcher

import (
	"fmt"
	"path/filepath"
	"time"

	"texturematch/imageprocessor"
	"texturematch/logging"
	"texturematch/progress"
	"texturematch/report"
	"texturematch/types"
	"texturematch/utils"

	"gonum.org/v1/gonum/stat"
)

var defaultExtensions = []string{".png"}

// MatchFolder matches every accepted image of opts.DumpDir against db in name
// order and writes the resulting report to opts.OutputPath.
func MatchFolder(db *types.HashDatabase, opts MatchOptions) (MatchSummary, error) {
	summary := MatchSummary{ReportPath: opts.OutputPath}

	if db.Len() == 0 {
		return summary, ErrEmptyDatabase
	}
	if err := utils.RequireDir(opts.DumpDir); err != nil {
		return summary, err
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = defaultExtensions
	}
	names, err := utils.ListImageFiles(opts.DumpDir, exts)
	if err != nil {
		return summary, fmt.Errorf("cannot list dump folder %s: %w", opts.DumpDir, err)
	}

	fmt.Printf("--- Phase 2: Matching hashes from %s ---\n", opts.DumpDir)
	startTime := time.Now()

	var audit *verifier
	if opts.Verify {
		audit, err = newVerifier(opts)
		if err != nil {
			logging.LogWarning("Verification disabled: %v", err)
		}
	}

	processor := imageprocessor.NewImageProcessor(opts.Derivation, opts.DebugMode)
	reporter := progress.New(progress.Options{
		Verb:  "scanned",
		Total: len(names),
		Every: opts.ProgressEvery,
		Detail: func() string {
			return fmt.Sprintf("Found %d matches.", summary.Matched)
		},
	})

	var distances []float64
	for _, name := range names {
		summary.Scanned++
		path := filepath.Join(opts.DumpDir, name)

		result, err := matchWith(processor, path, db)
		if err != nil {
			summary.Skipped++
			logging.LogWarning("Could not process %s: %v", name, err)
			reporter.Increment()
			continue
		}

		if opts.MaxDistance != nil && result.Distance > *opts.MaxDistance {
			summary.Rejected++
			logging.DebugLog("Rejected %s: closest %s at distance %d", name, result.Name, result.Distance)
			reporter.Increment()
			continue
		}

		summary.Matched++
		if result.Distance == 0 {
			summary.ExactMatches++
		}
		distances = append(distances, float64(result.Distance))
		summary.Entries = append(summary.Entries, report.Entry(result.QueryKey, result.Name))

		if opts.DebugMode {
			logging.DebugLog("Matched %s -> %s (distance %d)", name, result.Name, result.Distance)
		}

		if audit != nil {
			if err := audit.write(result); err != nil {
				logging.LogWarning("Could not create combined image for %s: %v", name, err)
			} else {
				summary.Composites++
			}
		}

		reporter.Increment()
	}
	reporter.Finish()

	summary.Entries = report.Normalize(summary.Entries)
	summary.UniqueEntries = len(summary.Entries)
	summary.MeanDistance, summary.StdDevDistance = distanceStats(distances)

	fmt.Println("--- Matching complete. ---")
	fmt.Printf("  Total files in Set A scanned: %d\n", summary.Scanned)
	fmt.Printf("  Total unique matches found:   %d\n", summary.UniqueEntries)
	logging.DebugLog("Matching took %v", time.Since(startTime))

	if opts.OutputPath == "" {
		return summary, nil
	}
	if err := report.WriteINI(opts.OutputPath, summary.Entries); err != nil {
		return summary, err
	}
	fmt.Printf("Generated %s with %d entries.\n", opts.OutputPath, summary.UniqueEntries)
	logging.LogInfo("Report written: %s (%d entries)", opts.OutputPath, summary.UniqueEntries)

	return summary, nil
}

func distanceStats(distances []float64) (mean, stddev float64) {
	switch len(distances) {
	case 0:
		return 0, 0
	case 1:
		return distances[0], 0
	}
	return stat.MeanStdDev(distances, nil)
}
