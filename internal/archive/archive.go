// Package archive accumulates produced composites and flushes them into one
// zip per mockup set.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Entry is one encoded image destined for an archive.
type Entry struct {
	Name string
	Data []byte
}

// Bundle groups entries by mockup-set name, preserving processing order
// within a set and first-seen order across sets.
type Bundle struct {
	groups map[string][]Entry
	order  []string
}

func NewBundle() *Bundle {
	return &Bundle{groups: map[string][]Entry{}}
}

// Add appends an encoded image to the named set's group.
func (b *Bundle) Add(set, filename string, data []byte) {
	if _, ok := b.groups[set]; !ok {
		b.order = append(b.order, set)
	}
	b.groups[set] = append(b.groups[set], Entry{Name: filename, Data: data})
}

// Len returns the number of entries accumulated for a set.
func (b *Bundle) Len(set string) int {
	return len(b.groups[set])
}

// Total returns the number of entries across all sets.
func (b *Bundle) Total() int {
	n := 0
	for _, g := range b.groups {
		n += len(g)
	}
	return n
}

// Flush writes one zip per non-empty group into dir, named
// "{set}.{timestamp}_{count}_images.zip", with flat entries and the
// container's default compression. Failed archives are reported but do not
// block the rest.
func (b *Bundle) Flush(dir string, now time.Time) ([]string, error) {
	var written []string
	var errs []error
	stamp := now.Format("20060102_150405")

	for _, set := range b.order {
		entries := b.groups[set]
		if len(entries) == 0 {
			continue
		}
		name := fmt.Sprintf("%s.%s_%d_images.zip", set, stamp, len(entries))
		path := filepath.Join(dir, name)
		if err := writeZip(path, entries); err != nil {
			slog.Error("archive write failed", "path", path, "error", err)
			errs = append(errs, err)
			continue
		}
		slog.Info("archive written", "name", name, "images", len(entries))
		written = append(written, path)
	}
	return written, errors.Join(errs...)
}

func writeZip(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			f.Close()
			return err
		}
		if _, err := w.Write(e.Data); err != nil {
			f.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
