package models

// Mask is a 2D boolean pixel mask over a single frame, true marking pixels of
// interest. Bits are stored in row-major scan order, matching the pixel order
// used by Movie.
type Mask struct {
	// Rows is the frame row count
	Rows int

	// Cols is the frame column count
	Cols int

	// Bits holds the mask values in row-major order
	Bits []bool
}

// NewMask creates an all-false mask of the given frame dimensions.
func NewMask(rows, cols int) *Mask {
	return &Mask{
		Rows: rows,
		Cols: cols,
		Bits: make([]bool, rows*cols),
	}
}

// NewMaskFromGrid builds a mask from a rectangular [][]bool grid. All rows
// must have the same length.
func NewMaskFromGrid(grid [][]bool) *Mask {
	rows := len(grid)
	cols := 0
	if rows > 0 {
		cols = len(grid[0])
	}
	m := NewMask(rows, cols)
	for r, rowBits := range grid {
		copy(m.Bits[r*cols:(r+1)*cols], rowBits)
	}
	return m
}

// At returns the mask value at frame position (r, c).
func (m *Mask) At(r, c int) bool {
	return m.Bits[r*m.Cols+c]
}

// Set assigns the mask value at frame position (r, c).
func (m *Mask) Set(r, c int, v bool) {
	m.Bits[r*m.Cols+c] = v
}

// Count returns the number of true pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}
