package journal_test

import (
	"testing"

	"github.com/ktbihow/mockupgen/internal/journal"
)

func TestOutcomeRecording(t *testing.T) {
	j, err := journal.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	if j.RunID() == "" {
		t.Error("run id must be assigned")
	}

	j.Outcome("example.com", "https://example.com/a.png", "processed", "")
	j.Outcome("example.com", "https://example.com/b.png", "skipped-no-rule", "")
	j.Outcome("other.com", "https://other.com/c.png", "skipped-download-failure", "status 404")

	n, err := j.OutcomeCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("outcomes = %d, want 3", n)
	}

	j.Finish(2, 1)
}

func TestRunsAreIsolated(t *testing.T) {
	dir := t.TempDir()

	j1, err := journal.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	j1.Outcome("d", "u1", "processed", "")
	j1.Close()

	j2, err := journal.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer j2.Close()

	if j1.RunID() == j2.RunID() {
		t.Error("runs share an id")
	}
	n, err := j2.OutcomeCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("new run sees %d outcomes, want 0", n)
	}
}

func TestNilJournalIsInert(t *testing.T) {
	var j *journal.Journal
	j.Outcome("d", "u", "processed", "")
	j.Finish(0, 0)
	j.Close()
	if j.RunID() != "" {
		t.Error("nil journal must report an empty run id")
	}
	if n, err := j.OutcomeCount(); err != nil || n != 0 {
		t.Errorf("nil journal count = %d, %v", n, err)
	}
}
