package schedule

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// SourceStatus records the outcome of scraping a single source.
type SourceStatus struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

// Document is the output of one scrape run: the normalized records plus
// run metadata. Each run produces a fresh document that replaces the
// previous one on disk.
type Document struct {
	RunID       string            `json:"runId"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Sources     []SourceStatus    `json:"sources"`
	Schedules   []*ScheduleRecord `json:"schedules"`
}

// NewDocument creates an empty Document with run metadata populated
func NewDocument() *Document {
	return &Document{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Sources:     make([]SourceStatus, 0),
		Schedules:   make([]*ScheduleRecord, 0),
	}
}

// Append adds records scraped from one source and records its status.
func (d *Document) Append(status SourceStatus, records []*ScheduleRecord) {
	status.Records = len(records)
	d.Sources = append(d.Sources, status)
	d.Schedules = append(d.Schedules, records...)
}

// FailedSources returns the names of sources that did not produce records
// because of a fetch or parse failure.
func (d *Document) FailedSources() []string {
	var failed []string
	for _, s := range d.Sources {
		if s.Error != "" {
			failed = append(failed, s.Name)
		}
	}
	return failed
}

// Sort orders records deterministically so that unchanged source content
// yields an identical schedules array across runs.
func (d *Document) Sort() {
	sort.Slice(d.Schedules, func(i, j int) bool {
		a, b := d.Schedules[i], d.Schedules[j]
		if a.Facility != b.Facility {
			return a.Facility < b.Facility
		}
		if a.Activity != b.Activity {
			return a.Activity < b.Activity
		}
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.EndTime < b.EndTime
	})
}
