// Package config loads pipeline configuration from the process environment
// and an optional TOML sources file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ekinay/dropin-schedules/internal/scraper"
)

// Default source: the City of Ottawa paginated facility listing.
const defaultFacilityListURL = "https://ottawa.ca/en/recreation-and-parks/recreation-facilities/place-listing"

// Config captures environment driven configuration values for the pipeline.
type Config struct {
	UploadAPIURL string
	UploadAPIKey string

	DeepSeekAPIKey  string
	DeepSeekBaseURL string
	DeepSeekModel   string

	SchedulesFile        string
	InvalidSchedulesFile string
	TableCacheFile       string

	HTTPTimeout     time.Duration
	UploadBatchSize int
	LogLevel        string

	Sources []scraper.Source
}

// Load parses configuration from the current process environment, applying
// defaults for optional values. Upload credentials are optional here; the
// uploader validates them with RequireUploadCredentials before use.
func Load() (Config, error) {
	cfg := Config{
		UploadAPIURL:         os.Getenv("UPLOAD_API_URL"),
		UploadAPIKey:         os.Getenv("UPLOAD_API_KEY"),
		DeepSeekAPIKey:       os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekBaseURL:      "https://api.deepseek.com",
		DeepSeekModel:        "deepseek-chat",
		SchedulesFile:        "schedules.json",
		InvalidSchedulesFile: "invalid_schedules.json",
		TableCacheFile:       "schedules_html_table_cache.json",
		HTTPTimeout:          30 * time.Second,
		UploadBatchSize:      100,
		LogLevel:             "INFO",
		Sources: []scraper.Source{
			{
				Name:   "ottawa-facilities",
				URL:    defaultFacilityListURL,
				Format: scraper.FormatFacilityList,
			},
		},
	}

	invalid := make([]string, 0, 2)

	if v := strings.TrimSpace(os.Getenv("DEEPSEEK_BASE_URL")); v != "" {
		cfg.DeepSeekBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("DEEPSEEK_MODEL")); v != "" {
		cfg.DeepSeekModel = v
	}
	if v := strings.TrimSpace(os.Getenv("DROPIN_SCHEDULES_FILE")); v != "" {
		cfg.SchedulesFile = v
	}
	if v := strings.TrimSpace(os.Getenv("DROPIN_INVALID_SCHEDULES_FILE")); v != "" {
		cfg.InvalidSchedulesFile = v
	}
	if v := strings.TrimSpace(os.Getenv("DROPIN_TABLE_CACHE_FILE")); v != "" {
		cfg.TableCacheFile = v
	}
	if v := strings.TrimSpace(os.Getenv("DROPIN_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}

	if v := strings.TrimSpace(os.Getenv("DROPIN_HTTP_TIMEOUT")); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "DROPIN_HTTP_TIMEOUT")
		} else {
			cfg.HTTPTimeout = timeout
		}
	}

	if v := strings.TrimSpace(os.Getenv("DROPIN_UPLOAD_BATCH_SIZE")); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			invalid = append(invalid, "DROPIN_UPLOAD_BATCH_SIZE")
		} else {
			cfg.UploadBatchSize = size
		}
	}

	if path := strings.TrimSpace(os.Getenv("DROPIN_SOURCES_FILE")); path != "" {
		sources, err := LoadSources(path)
		if err != nil {
			return Config{}, fmt.Errorf("loading sources file: %w", err)
		}
		cfg.Sources = sources
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid configuration values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// RequireUploadCredentials validates that the upload endpoint and API key
// are both configured.
func (c Config) RequireUploadCredentials() error {
	missing := make([]string, 0, 2)
	if strings.TrimSpace(c.UploadAPIURL) == "" {
		missing = append(missing, "UPLOAD_API_URL")
	}
	if strings.TrimSpace(c.UploadAPIKey) == "" {
		missing = append(missing, "UPLOAD_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing configuration values: %s", strings.Join(missing, ", "))
	}
	return nil
}

type sourcesFile struct {
	Source []sourceEntry `toml:"source"`
}

type sourceEntry struct {
	Name   string `toml:"name"`
	URL    string `toml:"url"`
	Format string `toml:"format"`
}

// LoadSources reads a TOML file declaring the source list:
//
//	[[source]]
//	name = "ottawa-facilities"
//	url = "https://ottawa.ca/en/recreation-and-parks/recreation-facilities/place-listing"
//	format = "facility-list"
func LoadSources(path string) ([]scraper.Source, error) {
	var file sourcesFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(file.Source) == 0 {
		return nil, fmt.Errorf("%s declares no sources", path)
	}

	sources := make([]scraper.Source, 0, len(file.Source))
	for i, entry := range file.Source {
		format, err := scraper.ParseFormat(entry.Format)
		if err != nil {
			return nil, fmt.Errorf("source %d (%s): %w", i+1, entry.Name, err)
		}
		if strings.TrimSpace(entry.URL) == "" {
			return nil, fmt.Errorf("source %d (%s): missing url", i+1, entry.Name)
		}
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			name = fmt.Sprintf("source-%d", i+1)
		}
		sources = append(sources, scraper.Source{Name: name, URL: entry.URL, Format: format})
	}
	return sources, nil
}
