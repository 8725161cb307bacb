package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Movie holds an imaging dataset as a pixel-by-time matrix.
//
// The underlying storage is always two dimensional (pixels x frames). When the
// data arrived as a full frame stack, Rows and Cols record the spatial frame
// geometry and matrix row p corresponds to frame position (p/Cols, p%Cols) in
// row-major scan order. When the data arrived already flattened (or already
// masked down to a subset of pixels), Rows and Cols are zero and the spatial
// layout is unknown.
type Movie struct {
	// Rows is the frame row count, or 0 when the layout is unknown
	Rows int

	// Cols is the frame column count, or 0 when the layout is unknown
	Cols int

	// Data is the pixel-by-time matrix (pixels x frames)
	Data *mat.Dense
}

// NewMovie builds a movie from a full frame stack given in pixel-major order:
// data[p*frames+t] is the value of pixel p (row-major within a frame) at time t.
func NewMovie(rows, cols, frames int, data []float64) (*Movie, error) {
	if rows <= 0 || cols <= 0 || frames <= 0 {
		return nil, fmt.Errorf("invalid movie dimensions %dx%dx%d", rows, cols, frames)
	}
	if len(data) != rows*cols*frames {
		return nil, fmt.Errorf("movie data length %d does not match dimensions %dx%dx%d",
			len(data), rows, cols, frames)
	}
	return &Movie{
		Rows: rows,
		Cols: cols,
		Data: mat.NewDense(rows*cols, frames, data),
	}, nil
}

// NewFlatMovie wraps an already-flattened pixel-by-time matrix whose spatial
// layout is unknown (pre-flattened or pre-masked input).
func NewFlatMovie(data *mat.Dense) *Movie {
	return &Movie{Data: data}
}

// HasGeometry reports whether the movie carries full frame-stack geometry.
func (m *Movie) HasGeometry() bool {
	return m.Rows > 0 && m.Cols > 0
}

// Pixels returns the number of pixel rows in the matrix.
func (m *Movie) Pixels() int {
	p, _ := m.Data.Dims()
	return p
}

// Frames returns the number of time points.
func (m *Movie) Frames() int {
	_, t := m.Data.Dims()
	return t
}

// Series returns the time series of pixel p as a view into the movie storage.
// The caller must not modify the returned slice.
func (m *Movie) Series(p int) []float64 {
	return m.Data.RawRowView(p)
}

// At returns the value of frame pixel (r, c) at time t. The movie must carry
// frame geometry.
func (m *Movie) At(r, c, t int) float64 {
	return m.Data.At(r*m.Cols+c, t)
}

// MeanImage computes the per-pixel temporal mean as a row-major image of
// length Pixels().
func (m *Movie) MeanImage() []float64 {
	pixels := m.Pixels()
	frames := m.Frames()
	mean := make([]float64, pixels)
	for p := 0; p < pixels; p++ {
		sum := 0.0
		for _, v := range m.Series(p) {
			sum += v
		}
		mean[p] = sum / float64(frames)
	}
	return mean
}
