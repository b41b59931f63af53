package run

import (
	"bytes"
	"image"
	"image/jpeg"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/ktbihow/mockupgen/internal/composite"
	"github.com/ktbihow/mockupgen/internal/config"
)

const jpegQuality = 90

// TitleCleaner strips configured keywords from design titles. Keywords match
// whole words, case-insensitively, with hyphen/space-flexible separators, and
// longer keywords are tried first so "t shirt design" cannot be corrupted by
// a partial "t shirt" hit.
type TitleCleaner struct {
	re *regexp.Regexp
}

func NewTitleCleaner(keywords []string) *TitleCleaner {
	if len(keywords) == 0 {
		return &TitleCleaner{}
	}

	flexible := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		parts := regexp.MustCompile(`[- ]+`).Split(k, -1)
		for i, p := range parts {
			parts[i] = regexp.QuoteMeta(p)
		}
		flexible = append(flexible, strings.Join(parts, `(?:-|\s)?`))
	}
	if len(flexible) == 0 {
		return &TitleCleaner{}
	}
	sort.Slice(flexible, func(i, j int) bool { return len(flexible[i]) > len(flexible[j]) })

	re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(flexible, "|") + `)\b`)
	if err != nil {
		slog.Warn("title keywords unusable, cleaning disabled", "error", err)
		return &TitleCleaner{}
	}
	return &TitleCleaner{re: re}
}

// Clean removes the keywords, converts residual hyphens to spaces and
// collapses the whitespace.
func (t *TitleCleaner) Clean(title string) string {
	if t.re != nil {
		title = t.re.ReplaceAllString(title, "")
	}
	title = strings.ReplaceAll(title, "-", " ")
	return strings.Join(strings.Fields(title), " ")
}

// outputName derives the delivery filename: "{prefix} {cleaned} {suffix}"
// with collapsed spacing and a .jpg extension.
func (c *Controller) outputName(set config.MockupSet, filename string) string {
	base := strings.TrimSuffix(filename, path.Ext(filename))
	title := c.titles.Clean(strings.ReplaceAll(base, "-", " "))

	full := set.TitlePrefix + " " + title + " " + set.TitleSuffix
	return strings.Join(strings.Fields(full), " ") + ".jpg"
}

// encodeJPEG flattens the composite over white and encodes it at delivery
// quality.
func encodeJPEG(img *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, composite.FlattenWhite(img), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
