package types

import "image"

// Entry is a single fingerprint -> reference name insertion
type Entry struct {
	Fingerprint Fingerprint `json:"fingerprint"`
	Name        string      `json:"name"`
}

// MatchResult holds the closest reference entry for a query image
type MatchResult struct {
	QueryKey  string
	QueryPath string
	Name      string
	Distance  int
}

// AtlasMatch holds the best grid cell found for a query thumbnail
type AtlasMatch struct {
	Atlas string
	Row   int
	Col   int
	X     int
	Y     int
	Error float64
}

// Point returns the top-left pixel offset of the matched cell
func (m AtlasMatch) Point() image.Point {
	return image.Point{X: m.X, Y: m.Y}
}

// Grid describes the fixed cell layout shared by an atlas family
type Grid struct {
	CellWidth  int `toml:"cell_width"`
	CellHeight int `toml:"cell_height"`
	Rows       int `toml:"rows"`
	Cols       int `toml:"cols"`
}

// Offset maps a cell to the pixel position of its top-left corner
func (g Grid) Offset(row, col int) image.Point {
	return image.Point{X: col * g.CellWidth, Y: row * g.CellHeight}
}

// Cell returns the pixel rectangle covered by the cell at (row, col)
func (g Grid) Cell(row, col int) image.Rectangle {
	origin := g.Offset(row, col)
	return image.Rect(origin.X, origin.Y, origin.X+g.CellWidth, origin.Y+g.CellHeight)
}

// Bounds returns the pixel size spanned by the whole grid
func (g Grid) Bounds() image.Point {
	return image.Point{X: g.Cols * g.CellWidth, Y: g.Rows * g.CellHeight}
}

// CellCount returns the number of cells in the grid
func (g Grid) CellCount() int {
	return g.Rows * g.Cols
}

// Valid reports whether every grid dimension is positive
func (g Grid) Valid() bool {
	return g.CellWidth > 0 && g.CellHeight > 0 && g.Rows > 0 && g.Cols > 0
}
