package cleanup_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ktbihow/mockupgen/internal/cleanup"
)

func TestRemoveArchivesDeletesOnlyZips(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.zip", "b.zip", "keep.txt", "image.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.zip"), 0755); err != nil {
		t.Fatal(err)
	}

	if got := cleanup.RemoveArchives(dir); got != 2 {
		t.Errorf("removed = %d, want 2", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if len(names) != 3 {
		t.Errorf("remaining = %v, want keep.txt, image.jpg and the directory", names)
	}
}

func TestRemoveArchivesMissingDir(t *testing.T) {
	if got := cleanup.RemoveArchives(filepath.Join(t.TempDir(), "absent")); got != 0 {
		t.Errorf("removed = %d, want 0", got)
	}
}
