// Package imageprocessor loads texture images into BGRA matrices and derives
// the fingerprints and pixel errors the matching engines compare.
package imageprocessor

import "gocv.io/x/gocv"

// ImageLoader is the interface that all image loaders must implement
type ImageLoader interface {
	// CanLoad checks if the loader can handle the given file
	CanLoad(path string) bool

	// LoadImage loads the image as an 8-bit BGRA matrix
	LoadImage(path string) (gocv.Mat, error)
}
