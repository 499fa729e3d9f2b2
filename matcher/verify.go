package matcher

import (
	"fmt"
	"os"
	"path/filepath"

	"texturematch/imageprocessor"
	"texturematch/types"
	"texturematch/utils"
)

// TempDirName is the folder beside the report that receives composites
const TempDirName = "temp"

// verifier writes query-over-reference composites so matches can be
// reviewed by eye
type verifier struct {
	referenceDir string
	dir          string
	processor    *imageprocessor.ImageProcessor
}

func newVerifier(opts MatchOptions) (*verifier, error) {
	if opts.ReferenceDir == "" {
		return nil, fmt.Errorf("no reference folder configured")
	}
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("no report path to place composites beside")
	}

	dir := filepath.Join(filepath.Dir(opts.OutputPath), TempDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", dir, err)
	}

	return &verifier{
		referenceDir: opts.ReferenceDir,
		dir:          dir,
		processor:    imageprocessor.NewImageProcessor(opts.Derivation, false),
	}, nil
}

// CompositeName returns the file name used for a match's composite
func CompositeName(result types.MatchResult) string {
	return fmt.Sprintf("%s_%s_d%d.png", result.QueryKey, utils.QueryKey(result.Name), result.Distance)
}

func (v *verifier) write(result types.MatchResult) error {
	query, err := v.processor.ProcessImage(result.QueryPath)
	if err != nil {
		return err
	}
	defer query.Close()

	reference, err := v.processor.ProcessImage(filepath.Join(v.referenceDir, result.Name))
	if err != nil {
		return err
	}
	defer reference.Close()

	return imageprocessor.SaveComparison(filepath.Join(v.dir, CompositeName(result)), query, reference)
}
