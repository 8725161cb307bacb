// Package visualization renders quick-look previews of a recording and its
// resolved pixel mask.
package visualization

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/stradaa/GraFT-analysis/internal/models"
)

// maskAlpha is the opacity of the mask tint in overlays.
const maskAlpha = 0.55

// Renderer draws previews for a single movie. The movie must carry frame
// geometry.
type Renderer struct {
	mov *models.Movie

	// norm is the temporal-mean image rescaled to [0, 1]
	norm []float64
}

// NewRenderer creates a renderer for the given movie.
func NewRenderer(mov *models.Movie) (*Renderer, error) {
	if !mov.HasGeometry() {
		return nil, fmt.Errorf("rendering requires a full frame stack, got flattened data")
	}

	mean := mov.MeanImage()
	lo, hi := mean[0], mean[0]
	for _, v := range mean {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	norm := make([]float64, len(mean))
	if hi > lo {
		for i, v := range mean {
			norm[i] = (v - lo) / (hi - lo)
		}
	}

	return &Renderer{mov: mov, norm: norm}, nil
}

// MeanImage renders the per-pixel temporal mean as a grayscale image.
func (r *Renderer) MeanImage() image.Image {
	img := image.NewGray(image.Rect(0, 0, r.mov.Cols, r.mov.Rows))
	for row := 0; row < r.mov.Rows; row++ {
		for col := 0; col < r.mov.Cols; col++ {
			v := r.norm[row*r.mov.Cols+col]
			img.SetGray(col, row, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	return img
}

// Overlay renders the mean image with the mask tinted on top. Masked pixels
// are colored on a cold-to-warm ramp by their mean activity.
func (r *Renderer) Overlay(m *models.Mask) (image.Image, error) {
	if m.Rows != r.mov.Rows || m.Cols != r.mov.Cols {
		return nil, fmt.Errorf("mask size %dx%d does not match frame size %dx%d",
			m.Rows, m.Cols, r.mov.Rows, r.mov.Cols)
	}

	dc := gg.NewContext(m.Cols, m.Rows)
	dc.DrawImage(r.MeanImage(), 0, 0)

	cold := colorful.Hsv(220, 0.85, 0.95)
	warm := colorful.Hsv(10, 0.85, 0.95)
	for row := 0; row < m.Rows; row++ {
		for col := 0; col < m.Cols; col++ {
			if !m.At(row, col) {
				continue
			}
			tint := cold.BlendLab(warm, r.norm[row*m.Cols+col]).Clamped()
			dc.SetRGBA(tint.R, tint.G, tint.B, maskAlpha)
			dc.DrawRectangle(float64(col), float64(row), 1, 1)
			dc.Fill()
		}
	}

	return dc.Image(), nil
}

// SaveOverlay renders the overlay and writes it to a PNG file.
func (r *Renderer) SaveOverlay(m *models.Mask, path string) error {
	img, err := r.Overlay(m)
	if err != nil {
		return err
	}
	return gg.SavePNG(path, img)
}
