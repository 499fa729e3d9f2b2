package imageprocessor

import (
	_ "image/gif"

	"github.com/anthonynsimon/bild/imgio"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// StandardImageLoader handles formats OpenCV decodes natively
type StandardImageLoader struct {
	BaseImageLoader
}

// NewStandardImageLoader creates a new loader for standard image formats
func NewStandardImageLoader() *StandardImageLoader {
	return &StandardImageLoader{
		BaseImageLoader: BaseImageLoader{
			SupportedFormats: []FormatType{
				FormatJPEG,
				FormatPNG,
				FormatBMP,
				FormatTIFF,
				FormatWEBP,
			},
		},
	}
}

// LoadImage loads a standard image format
func (l *StandardImageLoader) LoadImage(path string) (gocv.Mat, error) {
	return l.DefaultLoadImage(path)
}

// GoImageLoader decodes with Go's image packages. It covers GIF, which
// OpenCV cannot read, and serves as the fallback when OpenCV rejects a file.
type GoImageLoader struct {
	BaseImageLoader
}

// NewGoImageLoader creates a loader backed by the Go image decoders
func NewGoImageLoader() *GoImageLoader {
	return &GoImageLoader{
		BaseImageLoader: BaseImageLoader{
			SupportedFormats: []FormatType{
				FormatJPEG,
				FormatPNG,
				FormatGIF,
				FormatBMP,
				FormatTIFF,
				FormatWEBP,
			},
		},
	}
}

// LoadImage decodes the file and converts it to a BGRA matrix
func (l *GoImageLoader) LoadImage(path string) (gocv.Mat, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return gocv.NewMat(), newImageLoadError("failed to decode image", path)
	}
	return MatFromImage(img)
}
