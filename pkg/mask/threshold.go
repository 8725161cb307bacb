package mask

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/stradaa/GraFT-analysis/internal/models"
)

// Func derives a boolean pixel mask from a full frame stack. Implementations
// must be pure: they read the movie and return a fresh rows x cols mask.
type Func func(mov *models.Movie) *models.Mask

const (
	// SigmaK is the fixed multiplier applied to the per-pixel standard
	// deviation by the sigma method.
	SigmaK = 2.0

	// AdaptiveBlock is the default neighborhood extent for the adaptive
	// method.
	AdaptiveBlock = 25

	histogramBins = 256
)

// methodOrder fixes the order in which the supported methods are listed in
// diagnostics.
var methodOrder = []string{"sigma", "adaptive", "otsu", "triangle"}

// methods is the named auto-threshold registry. Every entry conforms to Func,
// wrapping the exported algorithms with their default parameters.
var methods = map[string]Func{
	"sigma": func(mov *models.Movie) *models.Mask {
		return SigmaThreshold(mov, SigmaK)
	},
	"adaptive": func(mov *models.Movie) *models.Mask {
		return AdaptiveThreshold(mov, AdaptiveBlock)
	},
	"otsu":     OtsuThreshold,
	"triangle": TriangleThreshold,
}

// MethodNames returns the supported method names in presentation order.
func MethodNames() []string {
	names := make([]string, len(methodOrder))
	copy(names, methodOrder)
	return names
}

// SigmaThreshold includes a pixel when any of its samples exceeds its
// temporal mean by more than k standard deviations. Both statistics are
// computed over the full time axis of the movie.
func SigmaThreshold(mov *models.Movie, k float64) *models.Mask {
	m := models.NewMask(mov.Rows, mov.Cols)
	for p := 0; p < mov.Pixels(); p++ {
		series := mov.Series(p)
		mu := stat.Mean(series, nil)
		sd := stat.StdDev(series, nil)
		limit := mu + k*sd
		for _, v := range series {
			if v > limit {
				m.Bits[p] = true
				break
			}
		}
	}
	return m
}

// AdaptiveThreshold compares each pixel's temporal mean against the mean of
// its block x block spatial neighborhood, so the threshold adapts per region
// rather than globally. The neighborhood is clipped at the frame borders.
func AdaptiveThreshold(mov *models.Movie, block int) *models.Mask {
	if block < 1 {
		block = AdaptiveBlock
	}
	rows, cols := mov.Rows, mov.Cols
	mean := mov.MeanImage()

	// summed-area table with a zero row and column of padding
	stride := cols + 1
	integral := make([]float64, (rows+1)*stride)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			integral[(r+1)*stride+c+1] = mean[r*cols+c] +
				integral[r*stride+c+1] + integral[(r+1)*stride+c] - integral[r*stride+c]
		}
	}

	half := block / 2
	m := models.NewMask(rows, cols)
	for r := 0; r < rows; r++ {
		r0 := max(0, r-half)
		r1 := min(rows, r+half+1)
		for c := 0; c < cols; c++ {
			c0 := max(0, c-half)
			c1 := min(cols, c+half+1)
			sum := integral[r1*stride+c1] - integral[r0*stride+c1] -
				integral[r1*stride+c0] + integral[r0*stride+c0]
			area := float64((r1 - r0) * (c1 - c0))
			if mean[r*cols+c] > sum/area {
				m.Bits[r*cols+c] = true
			}
		}
	}
	return m
}

// OtsuThreshold chooses the global threshold that maximizes the between-class
// variance of the normalized mean-activity histogram, then includes every
// pixel whose normalized mean activity exceeds it.
func OtsuThreshold(mov *models.Movie) *models.Mask {
	norm := normalizedMeanImage(mov)
	hist := intensityHistogram(norm)
	level := otsuLevel(hist)
	thr := (float64(level) + 0.5) / histogramBins

	m := models.NewMask(mov.Rows, mov.Cols)
	for i, v := range norm {
		if v > thr {
			m.Bits[i] = true
		}
	}
	return m
}

// TriangleThreshold derives the threshold from the histogram geometry: a line
// is drawn from the histogram peak to the far empty tail, and the threshold
// is placed at the bin of maximum perpendicular distance from that line. The
// mask selects the pixels on the tail side of the threshold, which suits
// skewed histograms with a weak secondary peak.
func TriangleThreshold(mov *models.Movie) *models.Mask {
	norm := normalizedMeanImage(mov)
	hist := intensityHistogram(norm)
	level, tailRight := triangleLevel(hist)
	thr := (float64(level) + 0.5) / histogramBins

	m := models.NewMask(mov.Rows, mov.Cols)
	for i, v := range norm {
		if tailRight && v > thr {
			m.Bits[i] = true
		}
		if !tailRight && v < thr {
			m.Bits[i] = true
		}
	}
	return m
}

// normalizedMeanImage returns the per-pixel temporal mean rescaled to [0, 1].
// A flat image normalizes to all zeros.
func normalizedMeanImage(mov *models.Movie) []float64 {
	mean := mov.MeanImage()
	lo := floats.Min(mean)
	hi := floats.Max(mean)
	span := hi - lo
	if span == 0 {
		return make([]float64, len(mean))
	}
	norm := make([]float64, len(mean))
	for i, v := range mean {
		norm[i] = (v - lo) / span
	}
	return norm
}

// intensityHistogram bins normalized intensities into histogramBins equal
// bins over [0, 1].
func intensityHistogram(norm []float64) []float64 {
	dividers := make([]float64, histogramBins+1)
	floats.Span(dividers, 0, 1)
	// stat.Histogram half-opens every bin, so nudge the last divider to
	// keep intensity 1.0 inside the top bin
	dividers[histogramBins] = math.Nextafter(1, 2)

	sorted := make([]float64, len(norm))
	copy(sorted, norm)
	sort.Float64s(sorted)
	return stat.Histogram(nil, dividers, sorted, nil)
}

// otsuLevel returns the bin index maximizing the between-class variance.
func otsuLevel(hist []float64) int {
	total := floats.Sum(hist)
	sumAll := 0.0
	for i, h := range hist {
		sumAll += float64(i) * h
	}

	level := 0
	bestVar := -1.0
	wB, sumB := 0.0, 0.0
	for i, h := range hist {
		wB += h
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(i) * h
		mB := sumB / wB
		mF := (sumAll - sumB) / wF
		v := wB * wF * (mB - mF) * (mB - mF)
		if v > bestVar {
			bestVar = v
			level = i
		}
	}
	return level
}

// triangleLevel returns the triangle-method bin index and whether the far
// tail lies to the right of the peak. The tail side determines which side of
// the threshold becomes foreground.
func triangleLevel(hist []float64) (level int, tailRight bool) {
	peak := 0
	for i, h := range hist {
		if h > hist[peak] {
			peak = i
		}
	}
	lo, hi := peak, peak
	for i, h := range hist {
		if h > 0 {
			if i < lo {
				lo = i
			}
			if i > hi {
				hi = i
			}
		}
	}

	tailRight = hi-peak >= peak-lo
	tail := hi
	if !tailRight {
		tail = lo
	}
	if tail == peak {
		return peak, tailRight
	}

	// maximize the perpendicular distance from the line through
	// (peak, hist[peak]) and (tail, hist[tail]); the denominator is
	// constant along the line, so the cross-product magnitude suffices
	dx := float64(tail - peak)
	dy := hist[tail] - hist[peak]
	level = peak
	bestD := -1.0
	step := 1
	if !tailRight {
		step = -1
	}
	for i := peak + step; i != tail+step; i += step {
		d := math.Abs(dx*(hist[i]-hist[peak]) - float64(i-peak)*dy)
		if d > bestD {
			bestD = d
			level = i
		}
	}
	return level, tailRight
}
