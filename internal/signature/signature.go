// Package signature overlays an attribution watermark onto finished
// composites.
package signature

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ktbihow/mockupgen/internal/composite"
	"github.com/ktbihow/mockupgen/internal/fetch"
)

const (
	maxImageWidth = 280
	marginRight   = 20
	marginBottom  = 50
	textSize      = 100
	textAlpha     = 128
)

// Applicator applies a watermark spec (an image URL, literal text, or
// nothing), anchored bottom-right.
type Applicator struct {
	fetch    *fetch.Client
	fontPath string

	fontOnce sync.Once
	font     *opentype.Font
}

func New(client *fetch.Client, fontPath string) *Applicator {
	return &Applicator{fetch: client, fontPath: fontPath}
}

// Apply draws the watermark onto img in place. An empty spec is a no-op.
func (a *Applicator) Apply(ctx context.Context, img *image.NRGBA, spec string) error {
	if spec == "" {
		return nil
	}
	if strings.HasPrefix(spec, "http://") || strings.HasPrefix(spec, "https://") {
		return a.applyImage(ctx, img, spec)
	}
	return a.applyText(img, spec)
}

func (a *Applicator) applyImage(ctx context.Context, img *image.NRGBA, url string) error {
	wm, err := a.fetch.Image(ctx, url)
	if err != nil {
		return fmt.Errorf("watermark image: %w", err)
	}

	w, h := wm.Bounds().Dx(), wm.Bounds().Dy()
	if w > maxImageWidth {
		scaled := maxImageWidth * h / w
		wm = composite.Resize(wm, maxImageWidth, scaled)
		w, h = maxImageWidth, scaled
	}

	x := img.Bounds().Max.X - w - marginRight
	y := img.Bounds().Max.Y - h - marginBottom
	draw.Draw(img, image.Rect(x, y, x+w, y+h), wm, wm.Bounds().Min, draw.Over)
	return nil
}

func (a *Applicator) applyText(img *image.NRGBA, text string) error {
	face, err := a.face()
	if err != nil {
		return fmt.Errorf("watermark font: %w", err)
	}
	defer face.Close()

	bounds, _ := font.BoundString(face, text)
	textW := (bounds.Max.X - bounds.Min.X).Ceil()
	textH := (bounds.Max.Y - bounds.Min.Y).Ceil()

	// Anchor the glyph bounding box, not the baseline, so the 20/50 margins
	// hold regardless of descenders.
	x := img.Bounds().Max.X - textW - marginRight
	y := img.Bounds().Max.Y - textH - marginBottom

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{A: textAlpha}),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x) - bounds.Min.X,
			Y: fixed.I(y) - bounds.Min.Y,
		},
	}
	d.DrawString(text)
	return nil
}

// face builds a fresh face from the lazily parsed font. Faces are not safe
// for reuse across sizes, but the parsed font is cached for the run.
func (a *Applicator) face() (font.Face, error) {
	a.fontOnce.Do(func() {
		a.font = a.loadFont()
	})
	if a.font == nil {
		return nil, fmt.Errorf("no usable font")
	}
	return opentype.NewFace(a.font, &opentype.FaceOptions{
		Size:    textSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// loadFont prefers the bundled bold font file and falls back to the built-in
// Go Bold face when the asset is missing.
func (a *Applicator) loadFont() *opentype.Font {
	if a.fontPath != "" {
		if data, err := os.ReadFile(a.fontPath); err == nil {
			if fnt, err := opentype.Parse(data); err == nil {
				return fnt
			}
			slog.Warn("bundled font unparsable, using built-in", "path", a.fontPath)
		} else {
			slog.Debug("bundled font unavailable, using built-in", "path", a.fontPath)
		}
	}
	fnt, err := opentype.Parse(gobold.TTF)
	if err != nil {
		slog.Error("built-in font unparsable", "error", err)
		return nil
	}
	return fnt
}
