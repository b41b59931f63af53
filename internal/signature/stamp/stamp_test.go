package stamp_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/ktbihow/mockupgen/internal/signature/stamp"
)

// gradient builds an image with smooth chrominance variation, the friendly
// case for U-plane embedding.
func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x + y) * 255 / (w + h)),
				A: 255,
			})
		}
	}
	return img
}

func TestEmbedDetectRoundTrip(t *testing.T) {
	payload := "0001a1b2c3d4e5f60718293a4b5c6d7e"
	img := gradient(512, 512)

	if err := stamp.Embed(img, payload); err != nil {
		t.Fatal(err)
	}

	got, err := stamp.Detect(img, stamp.PayloadLength)
	if err != nil {
		t.Fatal(err)
	}
	if got != payload {
		t.Errorf("Detect = %s, want %s", got, payload)
	}
}

func TestEmbedRejectsTinyImage(t *testing.T) {
	img := gradient(6, 6)
	if err := stamp.Embed(img, "00112233445566778899aabbccddeeff"); err == nil {
		t.Fatal("expected an error for a 6x6 image")
	}
}

func TestEmbedRejectsUndersizedCarrier(t *testing.T) {
	// 32x32 trims to an 8-block LL subband: too few for 128 bits.
	img := gradient(32, 32)
	if err := stamp.Embed(img, "00112233445566778899aabbccddeeff"); err == nil {
		t.Fatal("expected a capacity error")
	}
}

func TestEmbedRejectsBadHex(t *testing.T) {
	img := gradient(512, 512)
	if err := stamp.Embed(img, "not-hex"); err == nil {
		t.Fatal("expected an error for invalid hex")
	}
}
