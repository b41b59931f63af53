// Package rules selects the matching rule for a crawled filename and
// classifies design brightness.
package rules

import (
	"errors"
	"image"
	"sort"
	"strings"

	"github.com/ktbihow/mockupgen/internal/config"
)

// ErrSampleOutOfBounds is returned when a rule's sample point lies outside
// the downloaded image.
var ErrSampleOutOfBounds = errors.New("sample point outside image bounds")

// Sort orders rules by descending pattern length so the most specific
// pattern wins; ties keep configured order.
func Sort(rs []config.Rule) {
	sort.SliceStable(rs, func(i, j int) bool {
		return len(rs[i].Pattern) > len(rs[j].Pattern)
	})
}

// Match returns the first rule (in sorted order) whose pattern is a literal
// substring of filename, or nil.
func Match(filename string, rs []config.Rule) *config.Rule {
	for i := range rs {
		if strings.Contains(filename, rs[i].Pattern) {
			return &rs[i]
		}
	}
	return nil
}

// IsLight samples the single pixel at (x, y) and reports whether the average
// of its RGB channels exceeds 128.
func IsLight(img *image.NRGBA, x, y int) (bool, error) {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) {
		return false, ErrSampleOutOfBounds
	}
	off := img.PixOffset(x, y)
	avg := (int(img.Pix[off]) + int(img.Pix[off+1]) + int(img.Pix[off+2])) / 3
	return avg > 128, nil
}
