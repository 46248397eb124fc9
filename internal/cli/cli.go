package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ekinay/dropin-schedules/internal/cache"
	"github.com/ekinay/dropin-schedules/internal/config"
	"github.com/ekinay/dropin-schedules/internal/interpreter"
	"github.com/ekinay/dropin-schedules/internal/logger"
	"github.com/ekinay/dropin-schedules/internal/schedule"
	"github.com/ekinay/dropin-schedules/internal/scraper"
	"github.com/ekinay/dropin-schedules/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	// ExitPartial reports that a document was produced but one or more
	// sources failed.
	ExitPartial = 2
)

var (
	flagSourcesFile   string
	flagOutput        string
	flagInvalidOutput string
	flagFormat        string
	flagNoInterpreter bool
	flagVerbose       bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dropin-scraper",
		Short: "Scrape municipal drop-in activity schedules into a JSON document",
		Long: `Fetches each configured schedule source, normalizes drop-in activity
slots into uniform records and writes them to a JSON document. Sources that
fail to fetch or parse are reported and skipped; the remaining sources still
produce a document.`,
		RunE:          runScrape,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&flagSourcesFile, "sources", "", "TOML file declaring the source list (default: built-in Ottawa listing)")
	cmd.Flags().StringVar(&flagOutput, "output", "", "Schedule document path (default: schedules.json)")
	cmd.Flags().StringVar(&flagInvalidOutput, "invalid-output", "", "Invalid record report path (default: invalid_schedules.json)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Summary format: text or json")
	cmd.Flags().BoolVar(&flagNoInterpreter, "no-interpreter", false, "Disable the text interpreter even when an API key is configured")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(&cfg)
	if flagSourcesFile != "" {
		sources, err := config.LoadSources(flagSourcesFile)
		if err != nil {
			return err
		}
		cfg.Sources = sources
	}

	format := SummaryFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	interp := buildInterpreter(cfg)
	counters := logger.NewCounters()

	tableCache, err := cache.Load(cfg.TableCacheFile)
	if err != nil {
		logger.Warn("table cache unreadable, starting empty", logger.Fields{"path": cfg.TableCacheFile})
		tableCache = cache.New(cfg.TableCacheFile)
	}

	s := scraper.New(cfg.HTTPTimeout, interp, tableCache, counters)
	doc := schedule.NewDocument()
	var invalid []scraper.InvalidRecord

	for _, src := range cfg.Sources {
		logger.Info("scraping source", logger.Fields{"source": src.Name, "url": src.URL})

		records, inv, err := s.ScrapeSource(src)
		status := schedule.SourceStatus{Name: src.Name, URL: src.URL}
		if err != nil {
			status.Error = err.Error()
			logger.Error("source failed", logger.Fields{"source": src.Name}, err)
		}
		doc.Append(status, records)
		invalid = append(invalid, inv...)
	}

	if err := storage.WriteDocument(cfg.SchedulesFile, doc); err != nil {
		return err
	}
	if err := storage.WriteInvalidRecords(cfg.InvalidSchedulesFile, invalid); err != nil {
		return err
	}
	if err := tableCache.Save(); err != nil {
		logger.Warn("saving table cache failed", logger.Fields{"path": cfg.TableCacheFile})
	}

	summary := NewSummary(doc, len(invalid), counters)
	if err := WriteSummary(os.Stdout, summary, format); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if len(doc.FailedSources()) > 0 {
		os.Exit(ExitPartial)
	}
	return nil
}

func applyFlags(cfg *config.Config) {
	if flagOutput != "" {
		cfg.SchedulesFile = flagOutput
	}
	if flagInvalidOutput != "" {
		cfg.InvalidSchedulesFile = flagInvalidOutput
	}
}

// buildInterpreter wires the DeepSeek client when a key is configured and
// interpretation is not disabled, falling back to the no-op implementation.
func buildInterpreter(cfg config.Config) interpreter.TextInterpreter {
	if flagNoInterpreter || cfg.DeepSeekAPIKey == "" {
		if cfg.DeepSeekAPIKey == "" {
			logger.Info("no DEEPSEEK_API_KEY set, ambiguous tables will be skipped", nil)
		}
		return interpreter.Noop{}
	}
	client, err := interpreter.NewDeepSeekClient(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL, cfg.DeepSeekModel, cfg.HTTPTimeout)
	if err != nil {
		logger.Error("interpreter unavailable", nil, err)
		return interpreter.Noop{}
	}
	return client
}

// Execute runs the CLI
func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
