package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ekinay/dropin-schedules/internal/logger"
	"github.com/ekinay/dropin-schedules/internal/schedule"
)

// SummaryFormat specifies the run summary format
type SummaryFormat string

const (
	FormatText SummaryFormat = "text"
	FormatJSON SummaryFormat = "json"
)

// Summary reports the outcome of one scrape run
type Summary struct {
	RunID          string                  `json:"run_id"`
	GeneratedAt    time.Time               `json:"generated_at"`
	Sources        []schedule.SourceStatus `json:"sources"`
	RecordCount    int                     `json:"record_count"`
	InvalidRecords int                     `json:"invalid_records"`
	FailedSources  []string                `json:"failed_sources,omitempty"`
	Stats          logger.Fields           `json:"stats,omitempty"`
}

// NewSummary builds a Summary from the run's document and counters.
func NewSummary(doc *schedule.Document, invalidCount int, counters *logger.Counters) *Summary {
	return &Summary{
		RunID:          doc.RunID,
		GeneratedAt:    doc.GeneratedAt,
		Sources:        doc.Sources,
		RecordCount:    len(doc.Schedules),
		InvalidRecords: invalidCount,
		FailedSources:  doc.FailedSources(),
		Stats:          counters.Snapshot(),
	}
}

// WriteSummary writes the summary in the specified format
func WriteSummary(w io.Writer, summary *Summary, format SummaryFormat) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	case FormatText:
		return writeText(w, summary)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeText(w io.Writer, summary *Summary) error {
	fmt.Fprintf(w, "Scraped %d records from %d sources.\n", summary.RecordCount, len(summary.Sources))
	for _, src := range summary.Sources {
		if src.Error != "" {
			fmt.Fprintf(w, "  %s: FAILED (%s)\n", src.Name, src.Error)
			continue
		}
		fmt.Fprintf(w, "  %s: %d records\n", src.Name, src.Records)
	}
	if summary.InvalidRecords > 0 {
		fmt.Fprintf(w, "%d records failed validation (see invalid record report).\n", summary.InvalidRecords)
	}
	if len(summary.FailedSources) > 0 {
		fmt.Fprintf(w, "Run completed with failures: %d of %d sources failed.\n",
			len(summary.FailedSources), len(summary.Sources))
	}
	return nil
}
