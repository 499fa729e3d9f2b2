package imageprocessor

import (
	"fmt"
	"runtime/debug"

	"texturematch/logging"
	"texturematch/types"

	"gocv.io/x/gocv"
)

// ImageProcessor bundles a loader registry with the fingerprint derivation
// used by one index or match run
type ImageProcessor struct {
	DebugMode  bool
	Derivation Derivation
	registry   *ImageLoaderRegistry
}

// NewImageProcessor creates a new ImageProcessor
func NewImageProcessor(derivation Derivation, debugMode bool) *ImageProcessor {
	return &ImageProcessor{
		DebugMode:  debugMode,
		Derivation: derivation,
		registry:   NewImageLoaderRegistry(),
	}
}

// ProcessImage loads path as BGRA. Panics raised inside the decoders are
// turned into errors so one bad file cannot abort a batch.
func (p *ImageProcessor) ProcessImage(path string) (img gocv.Mat, err error) {
	defer func() {
		if r := recover(); r != nil {
			stackTrace := debug.Stack()
			logging.LogError("Panic during image loading: %v, file: %s\nStack trace: %s", r, path, string(stackTrace))
			err = fmt.Errorf("panic during image loading: %v", r)
			img = gocv.NewMat()
		}
	}()

	img, err = p.registry.LoadImage(path)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to load image %s: %w", path, err)
	}

	if img.Empty() {
		return img, fmt.Errorf("image is empty after loading: %s", path)
	}

	if p.DebugMode {
		logging.DebugLog("Loaded %s image %dx%d: %s", GetFileFormat(path), img.Cols(), img.Rows(), path)
	}

	return img, nil
}

// Fingerprint loads path and computes its fingerprint under the processor's
// derivation
func (p *ImageProcessor) Fingerprint(path string) (types.Fingerprint, error) {
	img, err := p.ProcessImage(path)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	fp, err := ComputeDifferenceHash(img, p.Derivation)
	if err != nil {
		return nil, fmt.Errorf("cannot compute fingerprint for %s: %w", path, err)
	}

	if p.DebugMode {
		logging.DebugLog("Fingerprint %s: %s", path, fp)
	}

	return fp, nil
}
