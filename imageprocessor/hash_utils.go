package imageprocessor

import (
	"fmt"
	"image"

	"texturematch/types"

	"gocv.io/x/gocv"
)

// DefaultHashSize yields a 9x8 sample grid and a 64-bit fingerprint
const DefaultHashSize = 8

// Derivation holds the parameters a fingerprint depends on. Fingerprints are
// only comparable when they were computed under equal derivations.
type Derivation struct {
	HashSize int
	Crop     *image.Rectangle
}

// DefaultDerivation returns the 64-bit, uncropped derivation
func DefaultDerivation() Derivation {
	return Derivation{HashSize: DefaultHashSize}
}

func (d Derivation) hashSize() int {
	if d.HashSize <= 0 {
		return DefaultHashSize
	}
	return d.HashSize
}

// String returns a canonical form, stored in the cache to detect mismatches
func (d Derivation) String() string {
	crop := "none"
	if d.Crop != nil {
		crop = fmt.Sprintf("%d,%d,%d,%d", d.Crop.Min.X, d.Crop.Min.Y, d.Crop.Max.X, d.Crop.Max.Y)
	}
	return fmt.Sprintf("dhash:%d;crop:%s", d.hashSize(), crop)
}

// ComputeDifferenceHash derives a dHash fingerprint from img.
//
// The (optionally cropped) image is reduced to grayscale, resampled to
// (size+1) x size, and each bit records whether a pixel is brighter than its
// left neighbour.
func ComputeDifferenceHash(img gocv.Mat, d Derivation) (types.Fingerprint, error) {
	if img.Empty() {
		return nil, fmt.Errorf("cannot compute hash for empty image")
	}

	src := img
	if d.Crop != nil {
		cropped, err := CropPadded(img, *d.Crop)
		if err != nil {
			return nil, fmt.Errorf("cannot crop image: %w", err)
		}
		defer cropped.Close()
		src = cropped
	}

	gray := gocv.NewMat()
	defer gray.Close()

	switch src.Channels() {
	case 1:
		src.CopyTo(&gray)
	case 3:
		gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	default:
		gocv.CvtColor(src, &gray, gocv.ColorBGRAToGray)
	}

	size := d.hashSize()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(gray, &resized, image.Point{X: size + 1, Y: size}, 0, 0, gocv.InterpolationArea)

	if resized.Rows() != size || resized.Cols() != size+1 {
		return nil, fmt.Errorf("unexpected resample size %dx%d", resized.Cols(), resized.Rows())
	}

	values := make([]bool, 0, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			values = append(values, resized.GetUCharAt(y, x+1) > resized.GetUCharAt(y, x))
		}
	}

	return types.NewFingerprint(values), nil
}

// FingerprintFile loads path and computes its difference hash
func FingerprintFile(path string, d Derivation) (types.Fingerprint, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	return ComputeDifferenceHash(img, d)
}
