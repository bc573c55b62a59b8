package pixel

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// FromImage converts a decoded raster image to a luminance grid using
// Y = 0.2989*R + 0.5870*G + 0.1140*B.
func FromImage(img image.Image) *Grid {
	bounds := img.Bounds()
	pixels := make([][]float64, 0, bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := make([]float64, 0, bounds.Dx())
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			row = append(row, 0.2989*float64(r>>8)+0.5870*float64(g>>8)+0.1140*float64(b>>8))
		}
		pixels = append(pixels, row)
	}
	return &Grid{Pixels: pixels}
}

// Load decodes the raster image at path into a luminance grid.
func Load(path string) (*Grid, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return FromImage(img), nil
}

// Save renders the grid as a grayscale image next to the original, using a
// "_filtered" suffix (photo.jpg -> photo_filtered.jpg), and returns the new
// path.
func (g *Grid) Save(originalPath string) (string, error) {
	if err := g.validate(); err != nil {
		return "", err
	}
	out := image.NewGray(image.Rect(0, 0, g.Width(), g.Height()))
	for y, row := range g.Pixels {
		for x, v := range row {
			out.SetGray(x, y, color.Gray{Y: clampByte(v)})
		}
	}
	ext := filepath.Ext(originalPath)
	stem := strings.TrimSuffix(originalPath, ext)
	dest := stem + "_filtered" + ext
	if err := imaging.Save(out, dest); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return dest, nil
}

func clampByte(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
