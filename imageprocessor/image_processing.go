package imageprocessor

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/imgio"
	"gocv.io/x/gocv"
)

// ToBGRA returns a continuous 8-bit, four channel copy of img. Gray and BGR
// inputs get an opaque alpha channel. Deeper pixel types are rejected so the
// loader registry can hand the file to the Go decoders instead.
func ToBGRA(img gocv.Mat) (gocv.Mat, error) {
	if img.Empty() {
		return gocv.NewMat(), fmt.Errorf("cannot convert empty image")
	}

	switch img.Type() {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
	default:
		return gocv.NewMat(), fmt.Errorf("unsupported pixel type %v", img.Type())
	}

	out := gocv.NewMat()
	switch img.Channels() {
	case 1:
		gocv.CvtColor(img, &out, gocv.ColorGrayToBGRA)
	case 3:
		gocv.CvtColor(img, &out, gocv.ColorBGRToBGRA)
	default:
		img.CopyTo(&out)
	}
	return out, nil
}

// NewCanvas returns a fully transparent BGRA matrix of the given size
func NewCanvas(width, height int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC4)
}

// CropPadded copies rect out of img. Parts of rect outside the image read as
// transparent black, so the result always has the size of rect.
func CropPadded(img gocv.Mat, rect image.Rectangle) (gocv.Mat, error) {
	if rect.Empty() {
		return gocv.NewMat(), fmt.Errorf("empty crop rectangle %v", rect)
	}

	bounds := image.Rect(0, 0, img.Cols(), img.Rows())
	if rect.In(bounds) {
		region := img.Region(rect)
		defer region.Close()
		return region.Clone(), nil
	}

	out := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rect.Dy(), rect.Dx(), img.Type())
	inter := rect.Intersect(bounds)
	if inter.Empty() {
		return out, nil
	}

	src := img.Region(inter)
	defer src.Close()
	dst := out.Region(inter.Sub(rect.Min))
	defer dst.Close()
	src.CopyTo(&dst)

	return out, nil
}

// PadTo extends img with transparent black on the right and bottom so it is
// at least width x height. The result is always a new matrix.
func PadTo(img gocv.Mat, width, height int) gocv.Mat {
	right := width - img.Cols()
	bottom := height - img.Rows()
	if right <= 0 && bottom <= 0 {
		return img.Clone()
	}
	if right < 0 {
		right = 0
	}
	if bottom < 0 {
		bottom = 0
	}

	out := gocv.NewMat()
	gocv.CopyMakeBorder(img, &out, 0, bottom, 0, right, gocv.BorderConstant, color.RGBA{})
	return out
}

// ResizeLanczos resamples img to exactly width x height
func ResizeLanczos(img gocv.Mat, width, height int) gocv.Mat {
	out := gocv.NewMat()
	gocv.Resize(img, &out, image.Point{X: width, Y: height}, 0, 0, gocv.InterpolationLanczos4)
	return out
}

// SquaredError sums the squared per-channel differences of two images of
// identical size and type
func SquaredError(a, b gocv.Mat) (uint64, error) {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() || a.Type() != b.Type() {
		return 0, fmt.Errorf("image mismatch: %dx%d type %v vs %dx%d type %v",
			a.Cols(), a.Rows(), a.Type(), b.Cols(), b.Rows(), b.Type())
	}

	if !a.IsContinuous() {
		a = a.Clone()
		defer a.Close()
	}
	if !b.IsContinuous() {
		b = b.Clone()
		defer b.Close()
	}

	pa := a.ToBytes()
	pb := b.ToBytes()

	var sum uint64
	for i := range pa {
		d := int64(pa[i]) - int64(pb[i])
		sum += uint64(d * d)
	}
	return sum, nil
}

// MeanSquaredError divides SquaredError by the pixel count only. Channels are
// not averaged out, so a four channel image scores four times a single
// channel one with the same per-channel differences.
func MeanSquaredError(a, b gocv.Mat) (float64, error) {
	sum, err := SquaredError(a, b)
	if err != nil {
		return 0, err
	}
	pixels := a.Rows() * a.Cols()
	if pixels == 0 {
		return 0, nil
	}
	return float64(sum) / float64(pixels), nil
}

// StackVertical places top above bottom on a transparent canvas as wide as
// the wider of the two and as tall as both together
func StackVertical(top, bottom gocv.Mat) (gocv.Mat, error) {
	topBGRA, err := ToBGRA(top)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("top image: %w", err)
	}
	defer topBGRA.Close()

	bottomBGRA, err := ToBGRA(bottom)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("bottom image: %w", err)
	}
	defer bottomBGRA.Close()

	width := topBGRA.Cols()
	if bottomBGRA.Cols() > width {
		width = bottomBGRA.Cols()
	}
	canvas := NewCanvas(width, topBGRA.Rows()+bottomBGRA.Rows())

	pasteInto(canvas, topBGRA, image.Point{})
	pasteInto(canvas, bottomBGRA, image.Point{Y: topBGRA.Rows()})

	return canvas, nil
}

// SaveComparison writes a vertically stacked RGBA PNG of query over match
func SaveComparison(path string, query, match gocv.Mat) error {
	combined, err := StackVertical(query, match)
	if err != nil {
		return err
	}
	defer combined.Close()

	img, err := ImageFromMat(combined)
	if err != nil {
		return err
	}
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to write comparison image %s: %w", path, err)
	}
	return nil
}

func pasteInto(canvas, img gocv.Mat, at image.Point) {
	rect := image.Rect(at.X, at.Y, at.X+img.Cols(), at.Y+img.Rows())
	dst := canvas.Region(rect)
	defer dst.Close()
	img.CopyTo(&dst)
}
