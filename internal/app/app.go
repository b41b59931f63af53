// Package app wires the pipeline together for one run.
package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ktbihow/mockupgen/internal/archive"
	"github.com/ktbihow/mockupgen/internal/cleanup"
	"github.com/ktbihow/mockupgen/internal/config"
	"github.com/ktbihow/mockupgen/internal/fetch"
	"github.com/ktbihow/mockupgen/internal/history"
	"github.com/ktbihow/mockupgen/internal/journal"
	"github.com/ktbihow/mockupgen/internal/run"
	"github.com/ktbihow/mockupgen/internal/signature"
)

// Run executes one full generation pass. Only configuration problems return
// an error; everything downstream degrades to logged skips so the archives
// and history always reflect completed work.
func Run(ctx context.Context, cfg *config.Config) error {
	gen, err := config.LoadGenerator(cfg.ConfigFile)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return err
	}
	if n := cleanup.RemoveArchives(cfg.OutputDir); n > 0 {
		slog.Info("old archives removed", "count", n)
	}

	var jr *journal.Journal
	if cfg.JournalEnabled {
		jr, err = journal.Open(filepath.Join(cfg.RepoRoot, "journal"))
		if err != nil {
			slog.Warn("journal unavailable, continuing without it", "error", err)
			jr = nil
		}
	}
	defer jr.Close()

	client := fetch.New(time.Duration(cfg.FetchTimeoutSecs) * time.Second)
	sig := signature.New(client, cfg.FontPath)
	hist := history.Load(filepath.Join(cfg.RepoRoot, gen.Settings.ProcessedLogFile))
	bundle := archive.NewBundle()

	ctrl := run.New(gen, client, sig, hist, jr, bundle,
		cfg.RepoRoot, cfg.URLListBase, cfg.MaxRepoSizeMB)
	ctrl.Run(ctx)

	if _, err := bundle.Flush(cfg.OutputDir, time.Now()); err != nil {
		slog.Error("some archives were not written", "error", err)
	}

	if err := hist.Save(); err != nil {
		slog.Error("history save failed, next run may reprocess", "error", err)
	}

	summaries := ctrl.Summaries()
	summaryPath := filepath.Join(cfg.RepoRoot, "generate_log.txt")
	if err := run.WriteSummary(summaryPath, jr.RunID(), cfg.SummaryTimeZone, summaries); err != nil {
		slog.Error("summary write failed", "error", err)
	}

	jr.Finish(len(summaries), bundle.Total())
	slog.Info("run complete", "domains", len(summaries), "images", bundle.Total())
	return nil
}
