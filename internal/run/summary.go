package run

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// WriteSummary writes the human-readable end-of-run report. The timestamp is
// localized to tz (falling back to the host zone when tz is unknown).
func WriteSummary(path, runID, tz string, summaries []DomainSummary) error {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	var b strings.Builder
	b.WriteString("--- Summary of Last Generation ---\n")
	fmt.Fprintf(&b, "Timestamp: %s (%s)\n", time.Now().In(loc).Format("2006-01-02 15:04:05"), loc)
	if runID != "" {
		fmt.Fprintf(&b, "Run: %s\n", runID)
	}
	b.WriteString("\n")

	if len(summaries) == 0 {
		b.WriteString("No new images were processed in this run.\n")
	} else {
		for _, s := range summaries {
			fmt.Fprintf(&b, "Domain: %s\n", s.Domain)
			fmt.Fprintf(&b, "  Processed Images: %d\n", s.Processed)
			fmt.Fprintf(&b, "  Skipped Images: %d\n", s.Skipped)
			fmt.Fprintf(&b, "  Total URLs Found: %d\n\n", s.Total)
		}
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}
