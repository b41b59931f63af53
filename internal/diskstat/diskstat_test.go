package diskstat_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ktbihow/mockupgen/internal/diskstat"
)

func TestDirSizeSumsNestedFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "a"), bytes.Repeat([]byte("x"), 100), 0644)
	os.WriteFile(filepath.Join(dir, "sub", "b"), bytes.Repeat([]byte("y"), 250), 0644)

	if got := diskstat.DirSize(dir); got != 350 {
		t.Errorf("DirSize = %d, want 350", got)
	}
}

func TestCeilingReached(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "big"), bytes.Repeat([]byte("z"), 2*1024*1024), 0644)

	if !diskstat.CeilingReached(dir, 1) {
		t.Error("2MiB dir with 1MB ceiling: want reached")
	}
	if diskstat.CeilingReached(dir, 10) {
		t.Error("2MiB dir with 10MB ceiling: want not reached")
	}
	if diskstat.CeilingReached(dir, 0) {
		t.Error("ceiling 0 must disable the breaker")
	}
}
