// Package stamp embeds an invisible attribution payload into a composite
// using DWT-DCT-SVD quantization of the U chrominance plane: a single-level
// Haar DWT, then per-4x4-block orthonormal DCT, then quantization of the
// leading singular value. Detection reverses the pipeline and votes across
// blocks, so the payload survives JPEG re-compression at typical qualities.
package stamp

import (
	"encoding/hex"
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// embedScale is the quantization step for the leading singular value.
	embedScale = 36.0
	blockSize  = 4

	// PayloadLength is the expected payload size in bytes.
	PayloadLength = 16
)

// Embed writes the hex-encoded payload into img in place. It fails when the
// image is too small to carry every payload bit at least once.
func Embed(img *image.NRGBA, payloadHex string) error {
	bits, err := hexToBits(payloadHex)
	if err != nil {
		return fmt.Errorf("stamp: invalid payload: %w", err)
	}

	h, w, err := usableSize(img, len(bits))
	if err != nil {
		return err
	}

	yp, up, vp := yuvPlanes(img, h, w)
	transformBlocks(up, func(block [][]float64, num int) {
		quantizeLeading(block, bits[num%len(bits)])
	})
	writeYUVPlanes(img, yp, up, vp, h, w)
	return nil
}

// Detect extracts payloadBytes bytes from img and returns them hex-encoded.
func Detect(img *image.NRGBA, payloadBytes int) (string, error) {
	wmLen := payloadBytes * 8
	h, w, err := usableSize(img, wmLen)
	if err != nil {
		return "", err
	}

	_, up, _ := yuvPlanes(img, h, w)

	votes := make([]float64, wmLen)
	counts := make([]int, wmLen)
	transformBlocks(up, func(block [][]float64, num int) {
		votes[num%wmLen] += readLeading(block)
		counts[num%wmLen]++
	})

	bits := make([]int, wmLen)
	for k := range bits {
		if counts[k] > 0 && votes[k]/float64(counts[k])*255 > 127 {
			bits[k] = 1
		}
	}
	return hex.EncodeToString(bitsToBytes(bits)), nil
}

// usableSize trims dimensions to multiples of 4 and checks that the LL
// subband holds at least wmLen 4x4 blocks.
func usableSize(img *image.NRGBA, wmLen int) (h, w int, err error) {
	b := img.Bounds()
	h = b.Dy() / 4 * 4
	w = b.Dx() / 4 * 4
	if h < 8 || w < 8 {
		return 0, 0, fmt.Errorf("stamp: image too small (%dx%d)", b.Dx(), b.Dy())
	}
	blocks := (h / 2 / blockSize) * (w / 2 / blockSize)
	if blocks < wmLen {
		return 0, 0, fmt.Errorf("stamp: image carries %d blocks, payload needs %d", blocks, wmLen)
	}
	return h, w, nil
}

// transformBlocks runs fn over each DCT-transformed 4x4 block of the plane's
// LL subband, in row-major order, then writes the (possibly modified) blocks
// back through the inverse transforms. The plane is updated in place.
func transformBlocks(plane [][]float64, fn func(block [][]float64, num int)) {
	ll, lh, hl, hh := haarSplit(plane)

	num := 0
	for by := 0; by+blockSize <= len(ll); by += blockSize {
		for bx := 0; bx+blockSize <= len(ll[0]); bx += blockSize {
			block := make([][]float64, blockSize)
			for i := range block {
				block[i] = make([]float64, blockSize)
				copy(block[i], ll[by+i][bx:bx+blockSize])
			}

			dct2D(block, false)
			fn(block, num)
			dct2D(block, true)

			for i := range block {
				copy(ll[by+i][bx:bx+blockSize], block[i])
			}
			num++
		}
	}

	haarMerge(plane, ll, lh, hl, hh)
}

// quantizeLeading embeds one bit into the block's leading singular value:
// s0 = (floor(s0/scale) + 0.25 + 0.5*bit) * scale.
func quantizeLeading(block [][]float64, bit int) {
	m := blockDense(block)

	var svd mat.SVD
	svd.Factorize(m, mat.SVDFull)
	s := svd.Values(nil)
	s[0] = (math.Floor(s[0]/embedScale) + 0.25 + 0.5*float64(bit)) * embedScale

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var tmp, rec mat.Dense
	tmp.Mul(&u, mat.NewDiagDense(blockSize, s))
	rec.Mul(&tmp, v.T())

	for i := range block {
		for j := range block[i] {
			block[i][j] = rec.At(i, j)
		}
	}
}

// readLeading returns 1 when the block's leading singular value sits in the
// upper half of its quantization step.
func readLeading(block [][]float64) float64 {
	var svd mat.SVD
	svd.Factorize(blockDense(block), mat.SVDNone)
	s := svd.Values(nil)

	m := math.Mod(s[0], embedScale)
	if m < 0 {
		m += embedScale
	}
	if m > embedScale*0.5 {
		return 1
	}
	return 0
}

func blockDense(block [][]float64) *mat.Dense {
	data := make([]float64, blockSize*blockSize)
	for i, row := range block {
		copy(data[i*blockSize:], row)
	}
	return mat.NewDense(blockSize, blockSize, data)
}
