package run

import (
	"testing"

	"github.com/ktbihow/mockupgen/internal/config"
)

func TestComputeWindowStopsAtHistory(t *testing.T) {
	all := []string{"u1", "u2", "u3", "u4", "u5"}
	hist := []string{"u3", "u9"}

	got := computeWindow(all, hist, 200)
	if len(got) != 2 || got[0] != "u1" || got[1] != "u2" {
		t.Errorf("window = %v, want [u1 u2]", got)
	}
}

func TestComputeWindowCapsLength(t *testing.T) {
	all := []string{"u1", "u2", "u3", "u4"}

	got := computeWindow(all, nil, 2)
	if len(got) != 2 || got[1] != "u2" {
		t.Errorf("window = %v, want [u1 u2]", got)
	}
}

func TestComputeWindowCapBeforeHistory(t *testing.T) {
	all := []string{"u1", "u2", "u3"}
	got := computeWindow(all, []string{"u3"}, 1)
	if len(got) != 1 || got[0] != "u1" {
		t.Errorf("window = %v, want [u1]", got)
	}
}

func TestComputeWindowHistoryAtFront(t *testing.T) {
	all := []string{"u1", "u2"}
	got := computeWindow(all, []string{"u1"}, 200)
	if len(got) != 0 {
		t.Errorf("window = %v, want empty", got)
	}
}

func TestTitleCleanerRemovesFlexibleKeywords(t *testing.T) {
	c := NewTitleCleaner([]string{"T Shirt", "PNG"})

	if got := c.Clean("cool t shirt design"); got != "cool design" {
		t.Errorf("Clean = %q, want %q", got, "cool design")
	}
	if got := c.Clean("cool t-shirt design"); got != "cool design" {
		t.Errorf("Clean hyphenated = %q, want %q", got, "cool design")
	}
	if got := c.Clean("cool tshirt design"); got != "cool design" {
		t.Errorf("Clean joined = %q, want %q", got, "cool design")
	}
	if got := c.Clean("My PNG File"); got != "My File" {
		t.Errorf("Clean = %q, want %q", got, "My File")
	}
}

func TestTitleCleanerWholeWordsOnly(t *testing.T) {
	c := NewTitleCleaner([]string{"art"})
	if got := c.Clean("smart cart art"); got != "smart cart" {
		t.Errorf("Clean = %q, want %q (no partial-word hits)", got, "smart cart")
	}
}

func TestTitleCleanerWithoutKeywords(t *testing.T) {
	c := NewTitleCleaner(nil)
	if got := c.Clean("plain-name  here"); got != "plain name here" {
		t.Errorf("Clean = %q, want %q", got, "plain name here")
	}
}

func TestOutputName(t *testing.T) {
	ctrl := &Controller{titles: NewTitleCleaner([]string{"Shirt"})}
	set := config.MockupSet{TitlePrefix: "Retro", TitleSuffix: "Gift"}

	got := ctrl.outputName(set, "summer-shirt-vibes-02.png")
	if got != "Retro summer vibes 02 Gift.jpg" {
		t.Errorf("outputName = %q", got)
	}

	got = ctrl.outputName(config.MockupSet{}, "plain-file.jpeg")
	if got != "plain file.jpg" {
		t.Errorf("outputName = %q", got)
	}
}
