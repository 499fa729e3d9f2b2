package scanner

import (
	"fmt"
	"time"

	"texturematch/logging"
)

// printStartupInfo displays information about the build before starting
func printStartupInfo(total int, options ScanOptions) {
	fmt.Printf("--- Phase 1: Building/Loading hash database from %s ---\n", options.FolderPath)

	if options.DebugMode {
		logging.DebugLog("Found %d reference images in %s (derivation %s, force rewrite %v)",
			total, options.FolderPath, options.Derivation, options.ForceRewrite)
	}
}

// printCompletionStats displays statistics after the build
func printCompletionStats(stats BuildStats, startTime time.Time, options ScanOptions) {
	elapsed := time.Since(startTime)

	if options.DebugMode {
		logging.DebugLog("Build completed in %v. Scanned: %d, Indexed: %d, Skipped: %d, Distinct: %d, From cache: %v",
			elapsed, stats.Scanned, stats.Indexed, stats.Skipped, stats.DistinctKeys, stats.FromCache)
	}

	if stats.FromCache {
		fmt.Printf("--- Database load complete. Indexed %d images from cache. ---\n", stats.Indexed)
		return
	}

	fmt.Printf("--- Database build complete. Indexed %d images in %v. ---\n", stats.Indexed, elapsed.Round(time.Millisecond))
	if stats.Skipped > 0 {
		fmt.Printf("Skipped %d unreadable images. Check the log for details.\n", stats.Skipped)
	}
}
