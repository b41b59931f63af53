package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ActionSkip marks a rule whose matches must not be processed.
const ActionSkip = "skip"

// Coords is a crop or placement rectangle. For rules, (X, Y) doubles as the
// brightness sample point.
type Coords struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Rule matches crawled filenames by literal substring. Within a domain the
// longest pattern wins; ties keep configured order.
type Rule struct {
	Pattern    string   `json:"pattern"`
	Action     string   `json:"action"`
	Coords     *Coords  `json:"coords"`
	SkipWhite  bool     `json:"skipWhite"`
	SkipBlack  bool     `json:"skipBlack"`
	MockupSets []string `json:"mockup_sets_to_use"`
}

// MockupSet describes one product-photo template: base image variants, the
// placement rectangle for the design, and the output decorations.
type MockupSet struct {
	White         string  `json:"white"`
	Black         string  `json:"black"`
	Coords        *Coords `json:"coords"`
	WatermarkText string  `json:"watermark_text"`
	TitlePrefix   string  `json:"title_prefix_to_add"`
	TitleSuffix   string  `json:"title_suffix_to_add"`
	StampPayload  string  `json:"stamp_payload"`
}

type Settings struct {
	MaxURLsPerDomain int    `json:"max_urls_per_domain"`
	HistoryToKeep    int    `json:"history_to_keep"`
	ProcessedLogFile string `json:"processed_log_file"`
}

type Defaults struct {
	TitleCleanKeywords []string `json:"title_clean_keywords"`
}

// Generator is the parsed generator config file.
type Generator struct {
	Settings   Settings             `json:"settings"`
	Defaults   Defaults             `json:"defaults"`
	Domains    map[string][]Rule    `json:"domains"`
	MockupSets map[string]MockupSet `json:"mockup_sets"`
}

// LoadGenerator reads and validates the generator config. Any failure here is
// fatal for the run; every later error class degrades locally instead.
func LoadGenerator(path string) (*Generator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var g Generator
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if g.Settings.MaxURLsPerDomain <= 0 {
		g.Settings.MaxURLsPerDomain = 200
	}
	if g.Settings.HistoryToKeep <= 0 {
		g.Settings.HistoryToKeep = 10
	}
	if g.Settings.ProcessedLogFile == "" {
		g.Settings.ProcessedLogFile = "processed_urls.json"
	}

	if err := g.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &g, nil
}

func (g *Generator) validate() error {
	if len(g.Domains) == 0 {
		return fmt.Errorf("no domains configured")
	}
	for domain, rules := range g.Domains {
		if len(rules) == 0 {
			return fmt.Errorf("domain %q has no rules", domain)
		}
		for i, r := range rules {
			if r.Pattern == "" {
				return fmt.Errorf("domain %q rule %d has an empty pattern", domain, i)
			}
		}
	}
	return nil
}
