// Package atlas finds which cell of a fixed-grid atlas image best matches a
// query thumbnail.
package atlas

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"texturematch/imageprocessor"
	"texturematch/logging"
	"texturematch/types"
	"texturematch/utils"

	"gocv.io/x/gocv"
)

var (
	// ErrAtlasDirNotFound is returned when the atlas folder is missing
	ErrAtlasDirNotFound = errors.New("atlas folder not found")
	// ErrNoAtlases is returned when the atlas folder holds no accepted images
	ErrNoAtlases = errors.New("no atlases found")
)

// DefaultExtensions lists the atlas image types searched by default
var DefaultExtensions = []string{".png", ".jpg", ".jpeg"}

// Locate compares query against every cell of every atlas in the given order
// and returns the cell with the lowest mean squared error. The search stops
// at the first cell with zero error. query must be a BGRA image of exactly
// one cell. Atlases that cannot be decoded are skipped; the boolean is false
// when none could be searched.
func Locate(query gocv.Mat, atlases []string, grid types.Grid) (types.AtlasMatch, bool, error) {
	if !grid.Valid() {
		return types.AtlasMatch{}, false, fmt.Errorf("invalid grid %+v", grid)
	}
	if query.Cols() != grid.CellWidth || query.Rows() != grid.CellHeight || query.Type() != gocv.MatTypeCV8UC4 {
		return types.AtlasMatch{}, false, fmt.Errorf("query must be a %dx%d BGRA image, got %dx%d type %v",
			grid.CellWidth, grid.CellHeight, query.Cols(), query.Rows(), query.Type())
	}

	best := types.AtlasMatch{Error: math.Inf(1)}
	found := false

	for _, path := range atlases {
		name := filepath.Base(path)
		fmt.Printf("  - Processing atlas: %s\n", name)
		logging.DebugLog("Processing atlas: %s", path)

		img, err := loadAtlas(path, grid)
		if err != nil {
			logging.LogWarning("Could not load atlas %s: %v", name, err)
			continue
		}

		exact, err := scanAtlas(query, img, grid, name, &best, &found)
		img.Close()
		if err != nil {
			return types.AtlasMatch{}, false, err
		}
		if exact {
			break
		}
	}

	return best, found, nil
}

// loadAtlas decodes an atlas as BGRA, padded with transparent black up to the
// grid bounds
func loadAtlas(path string, grid types.Grid) (gocv.Mat, error) {
	img, err := imageprocessor.LoadImage(path)
	if err != nil {
		return gocv.NewMat(), err
	}

	bounds := grid.Bounds()
	if img.Cols() >= bounds.X && img.Rows() >= bounds.Y {
		return img, nil
	}

	logging.DebugLog("Atlas %s is %dx%d, padding to %dx%d", path, img.Cols(), img.Rows(), bounds.X, bounds.Y)
	padded := imageprocessor.PadTo(img, bounds.X, bounds.Y)
	img.Close()
	return padded, nil
}

// scanAtlas walks the grid in row-major order, updating best on every strict
// improvement. It reports whether an exact match ended the scan.
func scanAtlas(query, img gocv.Mat, grid types.Grid, name string, best *types.AtlasMatch, found *bool) (bool, error) {
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			cell := img.Region(grid.Cell(row, col))
			mse, err := imageprocessor.MeanSquaredError(query, cell)
			cell.Close()
			if err != nil {
				return false, fmt.Errorf("atlas %s cell (%d, %d): %w", name, row, col, err)
			}

			if mse < best.Error {
				offset := grid.Offset(row, col)
				*best = types.AtlasMatch{
					Atlas: name,
					Row:   row,
					Col:   col,
					X:     offset.X,
					Y:     offset.Y,
					Error: mse,
				}
				*found = true
				if mse == 0 {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

// PrepareQuery converts img to BGRA and resamples it to one grid cell
func PrepareQuery(img gocv.Mat, grid types.Grid) (gocv.Mat, error) {
	bgra, err := imageprocessor.ToBGRA(img)
	if err != nil {
		return gocv.NewMat(), err
	}
	if bgra.Cols() == grid.CellWidth && bgra.Rows() == grid.CellHeight {
		return bgra, nil
	}
	defer bgra.Close()
	return imageprocessor.ResizeLanczos(bgra, grid.CellWidth, grid.CellHeight), nil
}

// ListAtlases returns the accepted atlas paths of dir in name order
func ListAtlases(dir string, exts []string) ([]string, error) {
	if err := utils.RequireDir(dir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAtlasDirNotFound, err)
	}
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	names, err := utils.ListImageFiles(dir, exts)
	if err != nil {
		return nil, fmt.Errorf("cannot list atlas folder %s: %w", dir, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoAtlases, dir)
	}

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}

// LocateFile loads the thumbnail at queryPath, resizes it to one cell and
// searches the atlases of atlasDir
func LocateFile(queryPath, atlasDir string, grid types.Grid, exts []string) (types.AtlasMatch, bool, error) {
	atlases, err := ListAtlases(atlasDir, exts)
	if err != nil {
		return types.AtlasMatch{}, false, err
	}

	img, err := imageprocessor.LoadImage(queryPath)
	if err != nil {
		return types.AtlasMatch{}, false, fmt.Errorf("source image %s: %w", queryPath, err)
	}
	defer img.Close()

	query, err := PrepareQuery(img, grid)
	if err != nil {
		return types.AtlasMatch{}, false, fmt.Errorf("source image %s: %w", queryPath, err)
	}
	defer query.Close()

	logging.DebugLog("Loaded and resized %s to %dx%d for matching", queryPath, grid.CellWidth, grid.CellHeight)

	return Locate(query, atlases, grid)
}
