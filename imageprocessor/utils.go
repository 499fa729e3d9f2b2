package imageprocessor

import (
	"image"
	"image/draw"
	"os"

	"gocv.io/x/gocv"
)

// Utility functions used across the loaders and processing helpers

// MatFromImage converts a Go image to an 8-bit BGRA matrix. Colors are
// unpremultiplied so the result matches what OpenCV decodes from disk.
func MatFromImage(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) || nrgba.Stride != 4*bounds.Dx() {
		nrgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}

	data := make([]byte, len(nrgba.Pix))
	for i := 0; i+3 < len(nrgba.Pix); i += 4 {
		data[i] = nrgba.Pix[i+2]
		data[i+1] = nrgba.Pix[i+1]
		data[i+2] = nrgba.Pix[i]
		data[i+3] = nrgba.Pix[i+3]
	}

	return gocv.NewMatFromBytes(bounds.Dy(), bounds.Dx(), gocv.MatTypeCV8UC4, data)
}

// ImageFromMat converts a BGRA matrix back to a Go image
func ImageFromMat(mat gocv.Mat) (*image.NRGBA, error) {
	bgra, err := ToBGRA(mat)
	if err != nil {
		return nil, err
	}
	defer bgra.Close()

	data := bgra.ToBytes()
	img := image.NewNRGBA(image.Rect(0, 0, bgra.Cols(), bgra.Rows()))
	for i := 0; i+3 < len(data) && i+3 < len(img.Pix); i += 4 {
		img.Pix[i] = data[i+2]
		img.Pix[i+1] = data[i+1]
		img.Pix[i+2] = data[i]
		img.Pix[i+3] = data[i+3]
	}
	return img, nil
}

// fileExists checks if a file exists and is accessible
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
