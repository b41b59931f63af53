package composite_test

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ktbihow/mockupgen/internal/composite"
)

func opaqueSquare(canvasW, canvasH int, r image.Rectangle, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, canvasW, canvasH))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestTrimWithPaddingFullyTransparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 50, 50))
	_, err := composite.TrimWithPadding(img, 40, 20)
	if !errors.Is(err, composite.ErrFullyTransparent) {
		t.Fatalf("err = %v, want ErrFullyTransparent", err)
	}
}

func TestTrimWithPaddingExpandsAndClamps(t *testing.T) {
	img := opaqueSquare(200, 200, image.Rect(50, 50, 60, 60), color.NRGBA{R: 1, A: 255})

	got, err := composite.TrimWithPadding(img, 40, 20)
	if err != nil {
		t.Fatal(err)
	}
	// bbox (50,50)-(60,60) padded by 40/20 -> (10,30)-(100,80).
	if w, h := got.Bounds().Dx(), got.Bounds().Dy(); w != 90 || h != 50 {
		t.Errorf("trimmed size = %dx%d, want 90x50", w, h)
	}

	// Near the corner the padding must clamp at the canvas edge.
	img2 := opaqueSquare(200, 200, image.Rect(0, 0, 10, 10), color.NRGBA{R: 1, A: 255})
	got2, err := composite.TrimWithPadding(img2, 40, 20)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := got2.Bounds().Dx(), got2.Bounds().Dy(); w != 50 || h != 30 {
		t.Errorf("clamped size = %dx%d, want 50x30", w, h)
	}
}

func TestFitAndPasteScalesToLimitingDimension(t *testing.T) {
	base := opaqueSquare(300, 300, image.Rect(0, 0, 300, 300), color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	design := opaqueSquare(100, 50, image.Rect(0, 0, 100, 50), color.NRGBA{R: 200, A: 255})

	// Target 200x200: scale = min(200/100, 200/50) = 2 -> 200x100, centered
	// horizontally at x=0..200 within the rect, pasted 20px below its top.
	out := composite.FitAndPaste(base, design, image.Rect(0, 0, 200, 200))

	if out.Bounds() != base.Bounds() {
		t.Fatalf("output bounds = %v, want %v", out.Bounds(), base.Bounds())
	}
	if got := out.NRGBAAt(100, 70); got.R != 200 {
		t.Errorf("center of pasted design = %v, want design red", got)
	}
	if got := out.NRGBAAt(100, 10); got.R != 255 {
		t.Errorf("pixel above inset = %v, want base white", got)
	}
	if got := out.NRGBAAt(100, 125); got.R != 255 {
		t.Errorf("pixel below design (y=125) = %v, want base white", got)
	}
	// Base must not be mutated.
	if got := base.NRGBAAt(100, 70); got.R != 255 {
		t.Errorf("base was mutated: %v", got)
	}
}

func TestFitAndPasteCentersHorizontally(t *testing.T) {
	base := opaqueSquare(400, 400, image.Rect(0, 0, 400, 400), color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	design := opaqueSquare(50, 100, image.Rect(0, 0, 50, 100), color.NRGBA{B: 200, A: 255})

	// Target rect at (100,100) size 200x200: scale = min(4, 2) = 2 -> 100x200,
	// centered -> x = 100 + (200-100)/2 = 150.
	out := composite.FitAndPaste(base, design, image.Rect(100, 100, 300, 300))

	if got := out.NRGBAAt(149, 150); got.B == 200 {
		t.Errorf("pixel left of pasted area unexpectedly design-colored")
	}
	if got := out.NRGBAAt(200, 150); got.B != 200 {
		t.Errorf("pixel inside pasted area = %v, want design blue", got)
	}
	if got := out.NRGBAAt(251, 150); got.B == 200 {
		t.Errorf("pixel right of pasted area unexpectedly design-colored")
	}
}

func TestCropClampsToBounds(t *testing.T) {
	img := opaqueSquare(100, 100, image.Rect(0, 0, 100, 100), color.NRGBA{G: 9, A: 255})
	got := composite.Crop(img, image.Rect(80, 80, 150, 150))
	if w, h := got.Bounds().Dx(), got.Bounds().Dy(); w != 20 || h != 20 {
		t.Errorf("crop size = %dx%d, want 20x20", w, h)
	}
}
