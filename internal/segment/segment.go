// Package segment removes uniform backgrounds from design images.
package segment

import "image"

// tolerance is the per-channel color distance under which a pixel counts as
// background. Each channel is compared independently, strictly below.
const tolerance = 30

// RemoveBackground flood-fills from the top-left pixel and clears every
// 4-connected pixel whose color is within tolerance of that seed, writing
// full transparency in place. Interior regions of the same color that are
// not connected to the seed are left untouched.
func RemoveBackground(img *image.NRGBA) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return
	}

	seedOff := img.PixOffset(bounds.Min.X, bounds.Min.Y)
	seedR := img.Pix[seedOff]
	seedG := img.Pix[seedOff+1]
	seedB := img.Pix[seedOff+2]

	// Flat visited grid and an explicit work list keep memory bounded and
	// avoid recursion depth limits on large images.
	visited := make([]bool, w*h)
	stack := make([]int, 0, 4096)
	stack = append(stack, 0)

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[idx] {
			continue
		}
		visited[idx] = true

		x := idx % w
		y := idx / w
		off := img.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)

		if !within(img.Pix[off], seedR) || !within(img.Pix[off+1], seedG) || !within(img.Pix[off+2], seedB) {
			continue
		}

		img.Pix[off] = 0
		img.Pix[off+1] = 0
		img.Pix[off+2] = 0
		img.Pix[off+3] = 0

		if x+1 < w {
			stack = append(stack, idx+1)
		}
		if x > 0 {
			stack = append(stack, idx-1)
		}
		if y+1 < h {
			stack = append(stack, idx+w)
		}
		if y > 0 {
			stack = append(stack, idx-w)
		}
	}
}

func within(a, b uint8) bool {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d < tolerance
}
