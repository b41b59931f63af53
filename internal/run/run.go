// Package run drives the incremental mockup-generation pipeline: per domain
// it fetches the candidate URL list, computes the not-yet-processed window,
// pushes each URL through segmentation, compositing and signing, and records
// progress in the history store.
package run

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path"
	"sort"

	"github.com/ktbihow/mockupgen/internal/archive"
	"github.com/ktbihow/mockupgen/internal/composite"
	"github.com/ktbihow/mockupgen/internal/config"
	"github.com/ktbihow/mockupgen/internal/diskstat"
	"github.com/ktbihow/mockupgen/internal/fetch"
	"github.com/ktbihow/mockupgen/internal/history"
	"github.com/ktbihow/mockupgen/internal/journal"
	"github.com/ktbihow/mockupgen/internal/rules"
	"github.com/ktbihow/mockupgen/internal/segment"
	"github.com/ktbihow/mockupgen/internal/signature"
	"github.com/ktbihow/mockupgen/internal/signature/stamp"
)

const (
	trimPadX = 40
	trimPadY = 20
)

// Outcome classifies how a single URL fared.
type Outcome string

const (
	OutcomeProcessed         Outcome = "processed"
	OutcomeSkippedNoRule     Outcome = "skipped-no-rule"
	OutcomeSkippedBrightness Outcome = "skipped-by-brightness"
	OutcomeSkippedNoCoords   Outcome = "skipped-no-crop-coords"
	OutcomeSkippedDownload   Outcome = "skipped-download-failure"
	OutcomeSkippedError      Outcome = "skipped-exception"
)

// DomainSummary is the per-domain counter block for the run report.
type DomainSummary struct {
	Domain    string
	Processed int
	Skipped   int
	Total     int
}

// Controller owns one run. It is not safe for concurrent use and does not
// need to be: the pipeline is a sequential batch.
type Controller struct {
	gen     *config.Generator
	fetch   *fetch.Client
	sig     *signature.Applicator
	hist    *history.Store
	journal *journal.Journal
	bundle  *archive.Bundle
	titles  *TitleCleaner

	repoRoot  string
	listBase  string
	maxSizeMB int

	summaries []DomainSummary
}

func New(gen *config.Generator, client *fetch.Client, sig *signature.Applicator,
	hist *history.Store, jr *journal.Journal, bundle *archive.Bundle,
	repoRoot, listBase string, maxSizeMB int) *Controller {
	return &Controller{
		gen:       gen,
		fetch:     client,
		sig:       sig,
		hist:      hist,
		journal:   jr,
		bundle:    bundle,
		titles:    NewTitleCleaner(gen.Defaults.TitleCleanKeywords),
		repoRoot:  repoRoot,
		listBase:  listBase,
		maxSizeMB: maxSizeMB,
	}
}

// Summaries returns the per-domain counters accumulated so far, in
// processing order.
func (c *Controller) Summaries() []DomainSummary {
	return c.summaries
}

// Run processes every configured domain in name order, halting early when
// the repository size ceiling is reached. Domains skipped by the breaker are
// not recorded as processed and will be retried next run.
func (c *Controller) Run(ctx context.Context) {
	domains := make([]string, 0, len(c.gen.Domains))
	for d := range c.gen.Domains {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	for _, domain := range domains {
		if ctx.Err() != nil {
			slog.Warn("run cancelled", "remaining_from", domain)
			return
		}
		if diskstat.CeilingReached(c.repoRoot, c.maxSizeMB) {
			slog.Warn("repository size ceiling reached, abandoning remaining domains",
				"ceiling_mb", c.maxSizeMB, "next_domain", domain)
			return
		}
		c.runDomain(ctx, domain)
	}
}

func (c *Controller) runDomain(ctx context.Context, domain string) {
	slog.Info("domain started", "domain", domain)

	domainRules := append([]config.Rule(nil), c.gen.Domains[domain]...)
	rules.Sort(domainRules)

	listURL := fmt.Sprintf("%s/%s.txt", c.listBase, domain)
	all, err := c.fetch.Lines(ctx, listURL)
	if err != nil {
		slog.Error("url list fetch failed, skipping domain", "domain", domain, "error", err)
		return
	}

	window := computeWindow(all, c.hist.URLs(domain), c.gen.Settings.MaxURLsPerDomain)
	if len(window) == 0 {
		slog.Info("no new urls", "domain", domain)
		return
	}
	slog.Info("processing window", "domain", domain, "urls", len(window), "candidates", len(all))

	// Mockup assets are memoized per set name for this domain pass only;
	// cross-run caching would risk stale bases.
	cache := map[string]*mockupAssets{}

	var processed, skipped int
	var succeeded []string
	for _, u := range window {
		outcome, detail := c.processURL(ctx, u, domainRules, cache)
		c.journal.Outcome(domain, u, string(outcome), detail)
		if outcome == OutcomeProcessed {
			processed++
			succeeded = append(succeeded, u)
		} else {
			skipped++
		}
	}

	c.summaries = append(c.summaries, DomainSummary{
		Domain:    domain,
		Processed: processed,
		Skipped:   skipped,
		Total:     len(window),
	})
	c.hist.Record(domain, succeeded, c.gen.Settings.HistoryToKeep)
	slog.Info("domain finished", "domain", domain, "processed", processed, "skipped", skipped)
}

// computeWindow walks the fetched list front to back and stops (exclusive)
// at the first URL already in history, independently capping the window at
// max entries; whichever bound triggers first wins. Order is preserved.
func computeWindow(all, hist []string, max int) []string {
	seen := make(map[string]struct{}, len(hist))
	for _, u := range hist {
		seen[u] = struct{}{}
	}

	var window []string
	for i, u := range all {
		if _, ok := seen[u]; ok {
			break
		}
		if i >= max {
			break
		}
		window = append(window, u)
	}
	return window
}

// processURL runs the full pipeline for one URL. Every failure is contained
// here: the worst case for the run is one more skip counter. A URL that
// passes matching and brightness checks counts as processed even when no
// mockup set yields an image.
func (c *Controller) processURL(ctx context.Context, url string, domainRules []config.Rule, cache map[string]*mockupAssets) (out Outcome, detail string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic while processing url", "url", url, "panic", r)
			out, detail = OutcomeSkippedError, fmt.Sprint(r)
		}
	}()

	filename := path.Base(url)
	rule := rules.Match(filename, domainRules)
	if rule == nil || rule.Action == config.ActionSkip {
		return OutcomeSkippedNoRule, ""
	}

	img, err := c.fetch.Image(ctx, url)
	if err != nil {
		slog.Warn("design download failed", "url", url, "error", err)
		return OutcomeSkippedDownload, err.Error()
	}

	if rule.Coords == nil {
		slog.Warn("matched rule has no crop coords", "file", filename, "pattern", rule.Pattern)
		return OutcomeSkippedNoCoords, ""
	}

	light, err := rules.IsLight(img, rule.Coords.X, rule.Coords.Y)
	if err != nil {
		slog.Warn("brightness sample failed", "url", url, "error", err)
		return OutcomeSkippedError, err.Error()
	}
	if (rule.SkipWhite && light) || (rule.SkipBlack && !light) {
		return OutcomeSkippedBrightness, ""
	}

	cropped := composite.Crop(img, image.Rect(
		rule.Coords.X, rule.Coords.Y,
		rule.Coords.X+rule.Coords.W, rule.Coords.Y+rule.Coords.H,
	))

	for _, setName := range rule.MockupSets {
		c.produceMockup(ctx, setName, cropped, light, filename, cache)
	}
	return OutcomeProcessed, ""
}

// produceMockup renders one mockup set for an already cropped design. Any
// failure soft-skips just this set.
func (c *Controller) produceMockup(ctx context.Context, setName string, cropped *image.NRGBA, light bool, filename string, cache map[string]*mockupAssets) {
	assets := c.lookupMockup(ctx, setName, cache)
	if assets == nil {
		return
	}

	base := assets.white
	if !light {
		base = assets.black
	}
	if base == nil {
		return
	}
	if assets.cfg.Coords == nil {
		slog.Warn("mockup set has no placement rect", "set", setName)
		return
	}

	work := composite.Clone(cropped)
	segment.RemoveBackground(work)
	trimmed, err := composite.TrimWithPadding(work, trimPadX, trimPadY)
	if err != nil {
		slog.Warn("design empty after background removal", "file", filename, "set", setName)
		return
	}

	place := image.Rect(
		assets.cfg.Coords.X, assets.cfg.Coords.Y,
		assets.cfg.Coords.X+assets.cfg.Coords.W, assets.cfg.Coords.Y+assets.cfg.Coords.H,
	)
	final := composite.FitAndPaste(base, trimmed, place)

	if err := c.sig.Apply(ctx, final, assets.cfg.WatermarkText); err != nil {
		// The composite still ships, just unsigned.
		slog.Warn("watermark not applied", "set", setName, "error", err)
	}
	if assets.cfg.StampPayload != "" {
		if err := stamp.Embed(final, assets.cfg.StampPayload); err != nil {
			slog.Warn("invisible stamp not applied", "set", setName, "error", err)
		}
	}

	data, err := encodeJPEG(final)
	if err != nil {
		slog.Warn("jpeg encode failed", "file", filename, "set", setName, "error", err)
		return
	}
	c.bundle.Add(setName, c.outputName(assets.cfg, filename), data)
}

type mockupAssets struct {
	cfg   config.MockupSet
	white *image.NRGBA
	black *image.NRGBA
}

// lookupMockup resolves a mockup set's config and base images, fetching each
// base at most once per domain pass. Unknown names and failed fetches are
// cached too, so a bad set costs one warning instead of one per URL.
func (c *Controller) lookupMockup(ctx context.Context, name string, cache map[string]*mockupAssets) *mockupAssets {
	if a, ok := cache[name]; ok {
		return a
	}

	cfg, ok := c.gen.MockupSets[name]
	if !ok {
		slog.Warn("rule references unknown mockup set", "set", name)
		cache[name] = nil
		return nil
	}

	a := &mockupAssets{cfg: cfg}
	if cfg.White != "" {
		if img, err := c.fetch.Image(ctx, cfg.White); err == nil {
			a.white = img
		} else {
			slog.Warn("white base fetch failed", "set", name, "error", err)
		}
	}
	if cfg.Black != "" {
		if img, err := c.fetch.Image(ctx, cfg.Black); err == nil {
			a.black = img
		} else {
			slog.Warn("black base fetch failed", "set", name, "error", err)
		}
	}
	cache[name] = a
	return a
}
