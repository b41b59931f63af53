package stamp

import (
	"encoding/hex"
	"image"
	"math"
)

// yuvPlanes extracts the first h rows and w columns of img as float64 Y/U/V
// planes using the OpenCV BGR2YUV coefficients (applied to RGB).
func yuvPlanes(img *image.NRGBA, h, w int) (yp, up, vp [][]float64) {
	minX, minY := img.Rect.Min.X, img.Rect.Min.Y
	yp = newPlane(h, w)
	up = newPlane(h, w)
	vp = newPlane(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := img.PixOffset(minX+x, minY+y)
			r := float64(img.Pix[off])
			g := float64(img.Pix[off+1])
			b := float64(img.Pix[off+2])

			yp[y][x] = 0.299*r + 0.587*g + 0.114*b
			up[y][x] = -0.14713*r - 0.28886*g + 0.436*b + 128.0
			vp[y][x] = 0.615*r - 0.51499*g - 0.10001*b + 128.0
		}
	}
	return yp, up, vp
}

// writeYUVPlanes converts the planes back to RGB and writes them over the
// first h rows and w columns of img; alpha and the untrimmed margin are left
// untouched.
func writeYUVPlanes(img *image.NRGBA, yp, up, vp [][]float64, h, w int) {
	minX, minY := img.Rect.Min.X, img.Rect.Min.Y
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			yv, uv, vv := yp[y][x], up[y][x], vp[y][x]

			r := yv + 1.13983*(vv-128.0)
			g := yv - 0.39465*(uv-128.0) - 0.58060*(vv-128.0)
			b := yv + 2.03211*(uv-128.0)

			off := img.PixOffset(minX+x, minY+y)
			img.Pix[off] = clampU8(r)
			img.Pix[off+1] = clampU8(g)
			img.Pix[off+2] = clampU8(b)
		}
	}
}

// haarSplit applies a single-level 2D Haar DWT (rows, then columns) and
// returns the LL, LH, HL, HH subbands, each half the plane's size.
func haarSplit(plane [][]float64) (ll, lh, hl, hh [][]float64) {
	h, w := len(plane), len(plane[0])
	halfH, halfW := h/2, w/2

	work := newPlane(h, w)
	for y := 0; y < h; y++ {
		haar1D(plane[y], work[y])
	}
	col := make([]float64, h)
	out := make([]float64, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = work[y][x]
		}
		haar1D(col, out)
		for y := 0; y < h; y++ {
			work[y][x] = out[y]
		}
	}

	ll = newPlane(halfH, halfW)
	lh = newPlane(halfH, halfW)
	hl = newPlane(halfH, halfW)
	hh = newPlane(halfH, halfW)
	for y := 0; y < halfH; y++ {
		for x := 0; x < halfW; x++ {
			ll[y][x] = work[y][x]
			lh[y][x] = work[y][halfW+x]
			hl[y][x] = work[halfH+y][x]
			hh[y][x] = work[halfH+y][halfW+x]
		}
	}
	return
}

// haarMerge writes the inverse 2D Haar DWT of the subbands into plane.
func haarMerge(plane [][]float64, ll, lh, hl, hh [][]float64) {
	halfH, halfW := len(ll), len(ll[0])
	h, w := halfH*2, halfW*2

	work := newPlane(h, w)
	for y := 0; y < halfH; y++ {
		for x := 0; x < halfW; x++ {
			work[y][x] = ll[y][x]
			work[y][halfW+x] = lh[y][x]
			work[halfH+y][x] = hl[y][x]
			work[halfH+y][halfW+x] = hh[y][x]
		}
	}

	col := make([]float64, h)
	out := make([]float64, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = work[y][x]
		}
		ihaar1D(col, out)
		for y := 0; y < h; y++ {
			work[y][x] = out[y]
		}
	}
	for y := 0; y < h; y++ {
		ihaar1D(work[y], plane[y])
	}
}

// haar1D: dst's first half receives pairwise averages, second half pairwise
// half-differences. len(src) must be even; dst must not alias src.
func haar1D(src, dst []float64) {
	half := len(src) / 2
	for i := 0; i < half; i++ {
		dst[i] = (src[2*i] + src[2*i+1]) / 2
		dst[half+i] = (src[2*i] - src[2*i+1]) / 2
	}
}

func ihaar1D(src, dst []float64) {
	half := len(src) / 2
	for i := 0; i < half; i++ {
		dst[2*i] = src[i] + src[half+i]
		dst[2*i+1] = src[i] - src[half+i]
	}
}

// dct2D applies the orthonormal type-II DCT (or its inverse) to a square
// block in place, rows first, then columns.
func dct2D(block [][]float64, inverse bool) {
	n := len(block)
	tmp := make([]float64, n)
	for y := 0; y < n; y++ {
		dct1D(block[y], tmp, inverse)
		copy(block[y], tmp)
	}
	col := make([]float64, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col[y] = block[y][x]
		}
		dct1D(col, tmp, inverse)
		for y := 0; y < n; y++ {
			block[y][x] = tmp[y]
		}
	}
}

// dct1D computes the orthonormal DCT-II of src into dst (or DCT-III when
// inverse is set). O(n^2) is fine at n=4.
func dct1D(src, dst []float64, inverse bool) {
	n := len(src)
	scale0 := math.Sqrt(1 / float64(n))
	scale := math.Sqrt(2 / float64(n))
	if !inverse {
		for k := 0; k < n; k++ {
			sum := 0.0
			for i := 0; i < n; i++ {
				sum += src[i] * math.Cos(math.Pi*float64(k)*(2*float64(i)+1)/(2*float64(n)))
			}
			if k == 0 {
				dst[k] = scale0 * sum
			} else {
				dst[k] = scale * sum
			}
		}
		return
	}
	for i := 0; i < n; i++ {
		sum := scale0 * src[0]
		for k := 1; k < n; k++ {
			sum += scale * src[k] * math.Cos(math.Pi*float64(k)*(2*float64(i)+1)/(2*float64(n)))
		}
		dst[i] = sum
	}
}

func newPlane(h, w int) [][]float64 {
	p := make([][]float64, h)
	for i := range p {
		p[i] = make([]float64, w)
	}
	return p
}

func clampU8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// hexToBits expands a hex payload to bits, MSB first within each byte.
func hexToBits(s string) ([]int, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	bits := make([]int, len(b)*8)
	for i, byt := range b {
		for j := 0; j < 8; j++ {
			if byt&(1<<uint(7-j)) != 0 {
				bits[i*8+j] = 1
			}
		}
	}
	return bits, nil
}

func bitsToBytes(bits []int) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b != 0 {
			out[i/8] |= 1 << uint(7-(i%8))
		}
	}
	return out
}
