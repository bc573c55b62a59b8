package pixel

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func gridOf(rows ...[]float64) *Grid {
	return &Grid{Pixels: rows}
}

func TestBlurShapeAndValues(t *testing.T) {
	t.Parallel()

	g := gridOf(
		[]float64{1, 2, 3, 4},
		[]float64{5, 6, 7, 8},
		[]float64{9, 10, 11, 12},
		[]float64{13, 14, 15, 16},
	)
	if err := g.Blur(2); err != nil {
		t.Fatalf("blur: %v", err)
	}
	if g.Height() != 3 || g.Width() != 3 {
		t.Fatalf("expected 3x3 output, got %dx%d", g.Height(), g.Width())
	}
	// Each output is floor of the mean of its 2x2 window.
	want := [][]float64{
		{3, 4, 5},
		{7, 8, 9},
		{11, 12, 13},
	}
	for i, row := range want {
		for j, v := range row {
			if g.Pixels[i][j] != v {
				t.Fatalf("pixel (%d,%d): got %v want %v", i, j, g.Pixels[i][j], v)
			}
		}
	}
}

func TestBlurTruncatesMean(t *testing.T) {
	t.Parallel()

	g := gridOf(
		[]float64{1, 2},
		[]float64{2, 2},
	)
	if err := g.Blur(2); err != nil {
		t.Fatalf("blur: %v", err)
	}
	// mean 7/4 = 1.75 truncates to 1
	if g.Pixels[0][0] != 1 {
		t.Fatalf("expected truncated mean 1, got %v", g.Pixels[0][0])
	}
}

func TestBlurRejectsOversizedKernel(t *testing.T) {
	t.Parallel()

	g := gridOf([]float64{1, 2}, []float64{3, 4})
	if err := g.Blur(3); !errors.Is(err, ErrInvalidKernel) {
		t.Fatalf("expected ErrInvalidKernel, got %v", err)
	}
	if err := g.Blur(0); !errors.Is(err, ErrInvalidKernel) {
		t.Fatalf("expected ErrInvalidKernel for level 0, got %v", err)
	}
}

func TestContour(t *testing.T) {
	t.Parallel()

	g := gridOf([]float64{10, 12, 7})
	if err := g.Contour(); err != nil {
		t.Fatalf("contour: %v", err)
	}
	if g.Width() != 2 {
		t.Fatalf("expected row of width 2, got %d", g.Width())
	}
	if g.Pixels[0][0] != 2 || g.Pixels[0][1] != 5 {
		t.Fatalf("unexpected contour row: %v", g.Pixels[0])
	}
}

func TestSegmentThreshold(t *testing.T) {
	t.Parallel()

	g := gridOf([]float64{50, 100, 101, 255})
	if err := g.Segment(); err != nil {
		t.Fatalf("segment: %v", err)
	}
	want := []float64{0, 0, 255, 255}
	for j, v := range want {
		if g.Pixels[0][j] != v {
			t.Fatalf("pixel %d: got %v want %v", j, g.Pixels[0][j], v)
		}
	}
}

func TestSaltAndPepperDistribution(t *testing.T) {
	t.Parallel()

	const side = 100 // 10,000 samples
	pixels := make([][]float64, side)
	for i := range pixels {
		row := make([]float64, side)
		for j := range row {
			row[j] = 128
		}
		pixels[i] = row
	}
	g := &Grid{Pixels: pixels}

	rng := rand.New(rand.NewSource(1))
	if err := g.SaltAndPepper(rng.Float64); err != nil {
		t.Fatalf("salt and pepper: %v", err)
	}

	var white, black, untouched int
	for _, row := range g.Pixels {
		for _, v := range row {
			switch v {
			case 255:
				white++
			case 0:
				black++
			case 128:
				untouched++
			default:
				t.Fatalf("unexpected sample value %v", v)
			}
		}
	}
	total := side * side
	if frac := float64(white) / float64(total); frac < 0.17 || frac > 0.23 {
		t.Fatalf("white fraction %.3f out of tolerance", frac)
	}
	if frac := float64(black) / float64(total); frac < 0.17 || frac > 0.23 {
		t.Fatalf("black fraction %.3f out of tolerance", frac)
	}
	if untouched == 0 {
		t.Fatal("expected untouched samples to retain their value")
	}
}

func TestOpsRejectEmptyGrids(t *testing.T) {
	t.Parallel()

	empty := []*Grid{
		{},
		{Pixels: [][]float64{}},
		{Pixels: [][]float64{{}}},
	}
	for _, g := range empty {
		if err := g.Blur(2); !errors.Is(err, ErrUnsupportedShape) {
			t.Fatalf("blur: expected ErrUnsupportedShape, got %v", err)
		}
		if err := g.Contour(); !errors.Is(err, ErrUnsupportedShape) {
			t.Fatalf("contour: expected ErrUnsupportedShape, got %v", err)
		}
		if err := g.SaltAndPepper(nil); !errors.Is(err, ErrUnsupportedShape) {
			t.Fatalf("salt and pepper: expected ErrUnsupportedShape, got %v", err)
		}
		if err := g.Segment(); !errors.Is(err, ErrUnsupportedShape) {
			t.Fatalf("segment: expected ErrUnsupportedShape, got %v", err)
		}
	}
}

func TestFromImageLuminance(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	g := FromImage(img)
	if g.Height() != 1 || g.Width() != 2 {
		t.Fatalf("unexpected shape %dx%d", g.Height(), g.Width())
	}
	if got := g.Pixels[0][0]; got < 76 || got > 77 {
		t.Fatalf("red luminance: got %v, want ~76.2", got)
	}
	if got := g.Pixels[0][1]; got < 254 || got > 255 {
		t.Fatalf("white luminance: got %v, want ~255", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	g := gridOf(
		[]float64{0, 255},
		[]float64{128, 64},
	)
	dir := t.TempDir()
	dest, err := g.Save(dir + "/photo.png")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if dest != dir+"/photo_filtered.png" {
		t.Fatalf("unexpected output path %s", dest)
	}
	loaded, err := Load(dest)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Height() != 2 || loaded.Width() != 2 {
		t.Fatalf("unexpected shape %dx%d", loaded.Height(), loaded.Width())
	}
}
