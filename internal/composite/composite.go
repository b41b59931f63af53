// Package composite trims, scales and pastes design images onto mockup bases.
package composite

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// ErrFullyTransparent is returned by TrimWithPadding when the image has no
// opaque pixel left. Callers must treat it as a fatal skip for that design,
// not as an empty composite.
var ErrFullyTransparent = errors.New("image is fully transparent")

// pasteInsetY is the fixed vertical offset from the top of the placement
// rectangle at which designs are pasted.
const pasteInsetY = 20

// Clone returns a deep copy of img.
func Clone(img *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}

// Crop copies the given rectangle (clamped to img's bounds) into a new image
// anchored at the origin.
func Crop(img *image.NRGBA, r image.Rectangle) *image.NRGBA {
	r = r.Intersect(img.Bounds())
	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out
}

// TrimWithPadding crops img to the bounding box of its non-transparent
// pixels, expanded by padX/padY and clamped to the image bounds.
func TrimWithPadding(img *image.NRGBA, padX, padY int) (*image.NRGBA, error) {
	bbox, ok := opaqueBounds(img)
	if !ok {
		return nil, ErrFullyTransparent
	}
	padded := image.Rect(bbox.Min.X-padX, bbox.Min.Y-padY, bbox.Max.X+padX, bbox.Max.Y+padY)
	return Crop(img, padded.Intersect(img.Bounds())), nil
}

// opaqueBounds returns the bounding box of pixels with non-zero alpha.
func opaqueBounds(img *image.NRGBA) (image.Rectangle, bool) {
	bounds := img.Bounds()
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X, bounds.Min.Y
	found := false
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[img.PixOffset(bounds.Min.X, y):img.PixOffset(bounds.Max.X, y)]
		for x := 0; x < bounds.Dx(); x++ {
			if row[x*4+3] == 0 {
				continue
			}
			px := bounds.Min.X + x
			if !found {
				found = true
			}
			if px < minX {
				minX = px
			}
			if px+1 > maxX {
				maxX = px + 1
			}
			if y < minY {
				minY = y
			}
			if y+1 > maxY {
				maxY = y + 1
			}
		}
	}
	if !found {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX, maxY), true
}

// FitAndPaste scales design uniformly to fit target (aspect preserved, the
// limiting dimension wins), centers it horizontally within target and pastes
// it pasteInsetY below the target's top onto a copy of base. The design's own
// alpha is the paste mask, so soft edges blend instead of leaving a seam.
// base is never mutated.
func FitAndPaste(base, design *image.NRGBA, target image.Rectangle) *image.NRGBA {
	dw, dh := design.Bounds().Dx(), design.Bounds().Dy()
	out := Clone(base)
	if dw == 0 || dh == 0 {
		return out
	}

	scale := min(float64(target.Dx())/float64(dw), float64(target.Dy())/float64(dh))
	fw, fh := int(float64(dw)*scale), int(float64(dh)*scale)
	if fw < 1 || fh < 1 {
		return out
	}

	resized := Resize(design, fw, fh)

	x := target.Min.X + (target.Dx()-fw)/2
	y := target.Min.Y + pasteInsetY
	dst := image.Rect(x, y, x+fw, y+fh)
	draw.Draw(out, dst, resized, resized.Bounds().Min, draw.Over)
	return out
}

// Resize scales img to w x h with Catmull-Rom resampling.
func Resize(img *image.NRGBA, w, h int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return out
}

// FlattenWhite composites img over an opaque white background, dropping the
// alpha channel for JPEG encoding.
func FlattenWhite(img *image.NRGBA) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, bounds, img, bounds.Min, draw.Over)
	return out
}
