package mask

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/stradaa/GraFT-analysis/internal/models"
)

// Config carries the caller-owned mask configuration. Resolve mutates it in
// place: Spec is normalized to an explicit mask (or reset to Unset on an
// unrecognized option) and Rows/Cols are set by whichever branch determines
// the frame geometry.
type Config struct {
	// Spec is the mask specification
	Spec Spec

	// Rows, Cols are the resolved frame dimensions
	Rows int
	Cols int
}

// Resolve dispatches over the mask specification and reconciles it with the
// movie data.
//
// An explicit mask is validated against the data shape and, when compatible,
// the masked pixel-by-time matrix (trueCount x frames) is returned. A named
// method computes the mask, stores it into cfg, and returns no data. An
// unrecognized method name is non-fatal: it is reported through the warning
// return, the specification is reset to Unset, and the error is nil.
//
// The data is never modified; on the pre-masked pass-through case the
// returned matrix aliases mov.Data.
func Resolve(cfg *Config, mov *models.Movie) (masked *mat.Dense, warning string, err error) {
	switch sp := cfg.Spec.(type) {
	case nil, Unset:
		return nil, "", nil
	case Named:
		return resolveNamed(cfg, sp, mov)
	case Explicit:
		return resolveExplicit(cfg, sp, mov)
	default:
		return nil, "", &InvalidTypeError{Got: fmt.Sprintf("%T", sp)}
	}
}

func resolveNamed(cfg *Config, sp Named, mov *models.Movie) (*mat.Dense, string, error) {
	name := strings.ToLower(strings.TrimSpace(sp.Method))
	fn, ok := methods[name]
	if !ok {
		cfg.Spec = Unset{}
		warn := (&UnrecognizedOptionError{Option: sp.Method}).Error()
		return nil, warn, nil
	}
	if !mov.HasGeometry() {
		return nil, "", fmt.Errorf("mask method %q requires a full frame stack, got flattened data (%d pixels)",
			name, mov.Pixels())
	}

	grid := fn(mov)
	cfg.Spec = Explicit{Grid: grid}
	cfg.Rows = grid.Rows
	cfg.Cols = grid.Cols

	// The computed mask is stored but not applied; applying it is a second
	// Resolve call with the now-explicit specification.
	return nil, "", nil
}

func resolveExplicit(cfg *Config, sp Explicit, mov *models.Movie) (*mat.Dense, string, error) {
	grid := sp.Grid
	if grid == nil || len(grid.Bits) == 0 {
		// empty mask: leave the configuration untouched
		return nil, "", nil
	}

	cfg.Spec = sp
	cfg.Rows = grid.Rows
	cfg.Cols = grid.Cols

	pixels, frames := mov.Data.Dims()
	switch {
	case mov.HasGeometry() && mov.Rows == grid.Rows && mov.Cols == grid.Cols:
		// full frame stack with matching geometry: flatten and select
		return selectPixels(mov.Data, grid), "", nil
	case pixels == grid.Rows*grid.Cols:
		// already row-flattened pixels x time: select directly
		return selectPixels(mov.Data, grid), "", nil
	case pixels == grid.Count():
		// already masked: pass through unchanged
		return mov.Data, "", nil
	default:
		return nil, "", &SizeMismatchError{
			MaskRows:   grid.Rows,
			MaskCols:   grid.Cols,
			MaskCount:  grid.Count(),
			DataPixels: pixels,
			DataFrames: frames,
		}
	}
}

// selectPixels copies the rows of data flagged true in the mask, preserving
// row-major scan order. A mask with no true pixels selects nothing.
func selectPixels(data *mat.Dense, grid *models.Mask) *mat.Dense {
	count := grid.Count()
	if count == 0 {
		return nil
	}
	_, frames := data.Dims()
	out := mat.NewDense(count, frames, nil)
	i := 0
	for p, b := range grid.Bits {
		if b {
			out.SetRow(i, data.RawRowView(p))
			i++
		}
	}
	return out
}
