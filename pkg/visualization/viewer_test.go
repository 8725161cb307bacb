package visualization

import (
	"image/color"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/stradaa/GraFT-analysis/internal/models"
)

// testMovie builds a 2x2x2 stack whose mean image spans the full range
func testMovie(t *testing.T) *models.Movie {
	t.Helper()
	data := []float64{
		0, 0, // pixel (0,0), mean 0
		1, 1, // pixel (0,1), mean 1
		0.5, 0.5, // pixel (1,0), mean 0.5
		0.25, 0.25, // pixel (1,1), mean 0.25
	}
	mov, err := models.NewMovie(2, 2, 2, data)
	if err != nil {
		t.Fatalf("NewMovie failed: %v", err)
	}
	return mov
}

// TestNewRendererRequiresGeometry rejects flattened input
func TestNewRendererRequiresGeometry(t *testing.T) {
	flat := models.NewFlatMovie(mat.NewDense(4, 2, nil))
	if _, err := NewRenderer(flat); err == nil {
		t.Errorf("Expected an error for a movie without frame geometry")
	}
}

// TestMeanImage checks dimensions and normalized intensities
func TestMeanImage(t *testing.T) {
	renderer, err := NewRenderer(testMovie(t))
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	img := renderer.MeanImage()
	bounds := img.Bounds()
	if bounds.Dx() != 2 || bounds.Dy() != 2 {
		t.Fatalf("Expected a 2x2 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	dark := color.GrayModel.Convert(img.At(0, 0)).(color.Gray)
	bright := color.GrayModel.Convert(img.At(1, 0)).(color.Gray)
	if dark.Y != 0 {
		t.Errorf("Expected the minimum pixel to render black, got %d", dark.Y)
	}
	if bright.Y != 255 {
		t.Errorf("Expected the maximum pixel to render white, got %d", bright.Y)
	}
}

// TestOverlay checks that masked pixels are tinted and unmasked ones are not
func TestOverlay(t *testing.T) {
	renderer, err := NewRenderer(testMovie(t))
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	m := models.NewMask(2, 2)
	m.Set(0, 1, true)

	img, err := renderer.Overlay(m)
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 2 || bounds.Dy() != 2 {
		t.Fatalf("Expected a 2x2 overlay, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	// the masked pixel picks up color, so its channels diverge
	r, g, b, _ := img.At(1, 0).RGBA()
	if r == g && g == b {
		t.Errorf("Expected the masked pixel to be tinted, got gray (%d,%d,%d)", r, g, b)
	}

	// an unmasked pixel stays gray
	r, g, b, _ = img.At(0, 1).RGBA()
	if r != g || g != b {
		t.Errorf("Expected the unmasked pixel to stay gray, got (%d,%d,%d)", r, g, b)
	}
}

// TestOverlayMaskSizeMismatch rejects masks of the wrong shape
func TestOverlayMaskSizeMismatch(t *testing.T) {
	renderer, err := NewRenderer(testMovie(t))
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	if _, err := renderer.Overlay(models.NewMask(3, 3)); err == nil {
		t.Errorf("Expected an error for a mask that does not match the frame size")
	}
}
