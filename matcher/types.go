package matcher

import "texturematch/imageprocessor"

// DistanceLimit converts a configured bit count into a MaxDistance value.
// Negative counts mean no limit.
func DistanceLimit(bits int) *int {
	if bits < 0 {
		return nil
	}
	return &bits
}

// MatchOptions defines the options for matching a dump folder
type MatchOptions struct {
	DumpDir      string
	ReferenceDir string // source of the reference images for verification
	OutputPath   string // report path; empty skips writing the report
	Derivation   imageprocessor.Derivation
	Extensions   []string
	Verify       bool // write side-by-side composites next to the report
	// MaxDistance drops matches farther than this many bits. Nil keeps every
	// closest match.
	MaxDistance   *int
	ProgressEvery int
	DebugMode     bool
}

// MatchSummary describes one folder match
type MatchSummary struct {
	Scanned        int
	Matched        int
	Skipped        int // unreadable query images
	Rejected       int // closest match exceeded MaxDistance
	ExactMatches   int
	Entries        []string
	UniqueEntries  int
	Composites     int
	MeanDistance   float64
	StdDevDistance float64
	ReportPath     string
}
