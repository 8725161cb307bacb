package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stradaa/GraFT-analysis/internal/models"
)

// buildMovie assembles a frame stack from a per-sample generator.
func buildMovie(t *testing.T, rows, cols, frames int, value func(r, c, f int) float64) *models.Movie {
	t.Helper()
	data := make([]float64, rows*cols*frames)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			for f := 0; f < frames; f++ {
				data[(r*cols+c)*frames+f] = value(r, c, f)
			}
		}
	}
	mov, err := models.NewMovie(rows, cols, frames, data)
	require.NoError(t, err)
	return mov
}

func TestMethodRegistry(t *testing.T) {
	names := MethodNames()
	assert.Equal(t, []string{"sigma", "adaptive", "otsu", "triangle"}, names)
	for _, name := range names {
		fn, ok := methods[name]
		require.True(t, ok, "method %q missing from registry", name)
		require.NotNil(t, fn)
	}
}

func TestEveryMethodReturnsFrameSizedMask(t *testing.T) {
	mov := buildMovie(t, 6, 8, 5, func(r, c, f int) float64 {
		return float64((r*8+c+f)%7) / 7
	})
	for name, fn := range methods {
		m := fn(mov)
		assert.Equal(t, 6, m.Rows, "method %q", name)
		assert.Equal(t, 8, m.Cols, "method %q", name)
	}
}

func TestSigmaThreshold(t *testing.T) {
	// pixel (1,1) spikes once; pixel (0,0) oscillates mildly; the rest are
	// flat
	mov := buildMovie(t, 3, 3, 10, func(r, c, f int) float64 {
		switch {
		case r == 1 && c == 1 && f == 5:
			return 10
		case r == 1 && c == 1:
			return 1
		case r == 0 && c == 0:
			return 1 + float64(f%2)
		default:
			return 1
		}
	})

	m := SigmaThreshold(mov, 2)
	assert.True(t, m.At(1, 1), "the spiking pixel must be included")
	assert.False(t, m.At(0, 0), "mild oscillation stays within two standard deviations")
	assert.False(t, m.At(2, 2), "a flat series never exceeds its own mean")
	assert.Equal(t, 1, m.Count())
}

func TestAdaptiveThreshold(t *testing.T) {
	// a single static bright pixel: only it exceeds its neighborhood mean
	mov := buildMovie(t, 10, 10, 4, func(r, c, f int) float64 {
		if r == 4 && c == 7 {
			return 10
		}
		return 0
	})

	m := AdaptiveThreshold(mov, 3)
	assert.True(t, m.At(4, 7))
	assert.Equal(t, 1, m.Count())
}

func TestAdaptiveThresholdFlatImage(t *testing.T) {
	mov := buildMovie(t, 5, 5, 3, func(r, c, f int) float64 { return 2 })
	m := AdaptiveThreshold(mov, AdaptiveBlock)
	assert.Equal(t, 0, m.Count())
}

func TestOtsuThreshold(t *testing.T) {
	// bimodal image: dim left half, bright right half
	mov := buildMovie(t, 10, 10, 50, func(r, c, f int) float64 {
		if c >= 5 {
			return 0.9
		}
		return 0.1
	})

	m := OtsuThreshold(mov)
	assert.Equal(t, 50, m.Count())
	for r := 0; r < 10; r++ {
		for c := 0; c < 10; c++ {
			assert.Equal(t, c >= 5, m.At(r, c), "pixel (%d,%d)", r, c)
		}
	}
}

func TestOtsuThresholdFlatImage(t *testing.T) {
	mov := buildMovie(t, 4, 4, 3, func(r, c, f int) float64 { return 1 })
	m := OtsuThreshold(mov)
	assert.Equal(t, 0, m.Count())
}

func TestTriangleThreshold(t *testing.T) {
	// skewed histogram: a large dark background with a handful of bright
	// pixels forming the far tail
	mov := buildMovie(t, 20, 20, 5, func(r, c, f int) float64 {
		if r == 0 && c < 10 {
			return 1
		}
		return 0
	})

	m := TriangleThreshold(mov)
	assert.Equal(t, 10, m.Count())
	for c := 0; c < 10; c++ {
		assert.True(t, m.At(0, c), "bright pixel (0,%d)", c)
	}
	assert.False(t, m.At(10, 10))
}

func TestTriangleThresholdFlatImage(t *testing.T) {
	mov := buildMovie(t, 4, 4, 3, func(r, c, f int) float64 { return 5 })
	m := TriangleThreshold(mov)
	assert.Equal(t, 0, m.Count())
}
