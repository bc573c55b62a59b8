// Package pixel implements the grayscale filter engine: a decoded image is a
// 2-D grid of intensity samples in [0,255], and every filter transforms the
// grid in place.
package pixel

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// DefaultBlurLevel is the box-blur kernel side used when no level is configured.
const DefaultBlurLevel = 16

var (
	// ErrUnsupportedShape indicates an empty grid or zero-width rows.
	ErrUnsupportedShape = errors.New("unsupported image shape")
	// ErrInvalidKernel indicates a blur level below 1 or larger than the image.
	ErrInvalidKernel = errors.New("invalid blur kernel")
)

// Grid holds a single-channel intensity raster. It is owned exclusively by the
// job processing it and is never shared across jobs.
type Grid struct {
	Pixels [][]float64
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return len(g.Pixels)
}

// Width returns the number of columns of the first row. Rows shrink
// identically, so the first row is representative.
func (g *Grid) Width() int {
	if len(g.Pixels) == 0 {
		return 0
	}
	return len(g.Pixels[0])
}

func (g *Grid) validate() error {
	if g.Height() == 0 || g.Width() == 0 {
		return ErrUnsupportedShape
	}
	return nil
}

// Blur applies a box blur with a square kernel of side level. The output grid
// shrinks to (H-level+1, W-level+1); every output sample is the
// integer-truncated mean of its level×level window. Shrinking at the boundary
// is the documented behavior, not an approximation artifact.
func (g *Grid) Blur(level int) error {
	if err := g.validate(); err != nil {
		return err
	}
	if level < 1 {
		return fmt.Errorf("%w: level %d is below 1", ErrInvalidKernel, level)
	}
	height, width := g.Height(), g.Width()
	if level > height || level > width {
		return fmt.Errorf("%w: level %d exceeds %dx%d image", ErrInvalidKernel, level, height, width)
	}
	kernelArea := float64(level * level)
	result := make([][]float64, 0, height-level+1)
	for i := 0; i <= height-level; i++ {
		row := make([]float64, 0, width-level+1)
		for j := 0; j <= width-level; j++ {
			var sum float64
			for y := i; y < i+level; y++ {
				for x := j; x < j+level; x++ {
					sum += g.Pixels[y][x]
				}
			}
			row = append(row, math.Floor(sum/kernelArea))
		}
		result = append(result, row)
	}
	g.Pixels = result
	return nil
}

// Contour replaces every row with the absolute first difference of its
// neighbors; each row shrinks by exactly one sample.
func (g *Grid) Contour() error {
	if err := g.validate(); err != nil {
		return err
	}
	for i, row := range g.Pixels {
		diff := make([]float64, 0, len(row)-1)
		for j := 1; j < len(row); j++ {
			diff = append(diff, math.Abs(row[j]-row[j-1]))
		}
		g.Pixels[i] = diff
	}
	return nil
}

// SaltAndPepper flips each sample independently: a uniform draw below 0.2
// turns it white, above 0.8 black, anything else is left untouched. randFloat
// must yield values in [0,1); pass nil for the default source.
func (g *Grid) SaltAndPepper(randFloat func() float64) error {
	if err := g.validate(); err != nil {
		return err
	}
	if randFloat == nil {
		randFloat = rand.Float64
	}
	for _, row := range g.Pixels {
		for j := range row {
			r := randFloat()
			if r < 0.2 {
				row[j] = 255
			} else if r > 0.8 {
				row[j] = 0
			}
		}
	}
	return nil
}

// Segment binarizes the grid: samples strictly above 100 become white, the
// rest black.
func (g *Grid) Segment() error {
	if err := g.validate(); err != nil {
		return err
	}
	for _, row := range g.Pixels {
		for j := range row {
			if row[j] > 100 {
				row[j] = 255
			} else {
				row[j] = 0
			}
		}
	}
	return nil
}
