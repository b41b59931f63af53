package config

import (
	"os"
	"strconv"
)

type Config struct {
	RepoRoot         string
	OutputDir        string
	ConfigFile       string
	LogLevel         string
	FontPath         string
	URLListBase      string
	MaxRepoSizeMB    int
	FetchTimeoutSecs int
	SummaryTimeZone  string
	JournalEnabled   bool
}

func Load() *Config {
	root := envOr("REPO_ROOT", ".")
	return &Config{
		RepoRoot:         root,
		OutputDir:        envOr("OUTPUT_DIR", root+"/generated-zips"),
		ConfigFile:       envOr("CONFIG_FILE", root+"/generator/config.json"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		FontPath:         envOr("FONT_PATH", root+"/generator/verdanab.ttf"),
		URLListBase:      envOr("URL_LIST_BASE", "https://raw.githubusercontent.com/ktbihow/image-crawler/main"),
		MaxRepoSizeMB:    envIntOr("MAX_REPO_SIZE_MB", 900),
		FetchTimeoutSecs: envIntOr("FETCH_TIMEOUT_SECS", 30),
		SummaryTimeZone:  envOr("SUMMARY_TZ", "Asia/Ho_Chi_Minh"),
		JournalEnabled:   envBoolOr("JOURNAL_ENABLED", true),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
