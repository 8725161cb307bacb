// Package imgio loads imaging recordings from directories of 2D frames and
// persists resolved masks and masked data matrices.
package imgio

import (
	"encoding/csv"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	// register the frame decoders used by image.Decode
	_ "image/jpeg"

	_ "golang.org/x/image/tiff"

	"gonum.org/v1/gonum/mat"

	"github.com/stradaa/GraFT-analysis/internal/models"
)

// LoadDirectory reads every PNG, JPEG and TIFF frame in dir, sorted
// alphanumerically into time order, and assembles them into a movie. All
// frames must share the same dimensions.
func LoadDirectory(dir string) (*models.Movie, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading frame directory: %w", err)
	}

	var frameFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
			frameFiles = append(frameFiles, entry.Name())
		}
	}
	if len(frameFiles) == 0 {
		return nil, fmt.Errorf("no frame images found in %s", dir)
	}

	// Sort frames alphanumerically so that frame_2 precedes frame_10;
	// the recording's time order depends on it
	sort.Slice(frameFiles, func(i, j int) bool {
		numI, okI := extractNumber(frameFiles[i])
		numJ, okJ := extractNumber(frameFiles[j])
		if okI && okJ && numI != numJ {
			return numI < numJ
		}
		return frameFiles[i] < frameFiles[j]
	})

	var (
		rows, cols int
		data       []float64
	)
	frames := len(frameFiles)
	for t, name := range frameFiles {
		img, err := loadImage(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to load frame %s: %w", name, err)
		}

		bounds := img.Bounds()
		if data == nil {
			rows = bounds.Dy()
			cols = bounds.Dx()
			data = make([]float64, rows*cols*frames)
		} else if bounds.Dy() != rows || bounds.Dx() != cols {
			return nil, fmt.Errorf("frame %s is %dx%d, expected %dx%d",
				name, bounds.Dy(), bounds.Dx(), rows, cols)
		}

		// pixel-major storage: all samples of a pixel are contiguous
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				v := grayValue(img, bounds.Min.X+c, bounds.Min.Y+r)
				data[(r*cols+c)*frames+t] = v
			}
		}
	}

	return models.NewMovie(rows, cols, frames, data)
}

// loadImage opens and decodes a single frame image.
func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	return img, err
}

// grayValue converts a pixel to a luminance value in [0, 1].
func grayValue(img image.Image, x, y int) float64 {
	r, g, b, _ := img.At(x, y).RGBA()
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 65535.0
}

// extractNumber pulls the first run of digits out of a filename so frames
// can be ordered numerically.
func extractNumber(name string) (int, bool) {
	start := -1
	for i, ch := range name {
		if ch >= '0' && ch <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, err := strconv.Atoi(name[start:i])
			return n, err == nil
		}
	}
	if start >= 0 {
		n, err := strconv.Atoi(name[start:])
		return n, err == nil
	}
	return 0, false
}

// SaveMaskPNG writes a mask as a black and white PNG, white marking pixels
// of interest.
func SaveMaskPNG(m *models.Mask, path string) error {
	img := image.NewGray(image.Rect(0, 0, m.Cols, m.Rows))
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			if m.At(r, c) {
				img.SetGray(c, r, color.Gray{Y: 255})
			}
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating mask file: %w", err)
	}
	defer file.Close()

	return png.Encode(file, img)
}

// LoadMaskPNG reads a mask image, treating pixels brighter than mid-gray as
// pixels of interest.
func LoadMaskPNG(path string) (*models.Mask, error) {
	img, err := loadImage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load mask image: %w", err)
	}

	bounds := img.Bounds()
	m := models.NewMask(bounds.Dy(), bounds.Dx())
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			if grayValue(img, bounds.Min.X+c, bounds.Min.Y+r) > 0.5 {
				m.Set(r, c, true)
			}
		}
	}
	return m, nil
}

// WriteMatrixCSV writes a pixel-by-time matrix as CSV, one row per pixel.
func WriteMatrixCSV(d *mat.Dense, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating data file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	rows, cols := d.Dims()
	record := make([]string, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			record[c] = strconv.FormatFloat(d.At(r, c), 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("error writing data row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
