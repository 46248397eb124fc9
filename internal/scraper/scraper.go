package scraper

import (
	"io"
	"net/http"
	"time"

	"github.com/ekinay/dropin-schedules/internal/cache"
	"github.com/ekinay/dropin-schedules/internal/interpreter"
	"github.com/ekinay/dropin-schedules/internal/logger"
	"github.com/ekinay/dropin-schedules/internal/schedule"
)

const (
	// UserAgent identifies the scraper to source sites
	UserAgent = "dropin-schedules/1.0 (github.com/ekinay/dropin-schedules)"

	// DefaultTimeout bounds each HTTP request so one unresponsive source
	// cannot stall the run.
	DefaultTimeout = 30 * time.Second
)

// InvalidRecord is a schedule entry that failed validation. Invalid entries
// are kept for diagnosis rather than silently dropped.
type InvalidRecord struct {
	Facility string                  `json:"facility"`
	Source   string                  `json:"source"`
	Reason   string                  `json:"reason"`
	Entry    interpreter.RawSchedule `json:"entry"`
}

// Scraper fetches sources and extracts normalized schedule records
type Scraper struct {
	client   *http.Client
	interp   interpreter.TextInterpreter
	cache    *cache.TableCache
	counters *logger.Counters
}

// New creates a Scraper. A nil interpreter disables text understanding
// (ambiguous tables are flagged and skipped); a nil cache disables
// interpreter result caching.
func New(timeout time.Duration, interp interpreter.TextInterpreter, tableCache *cache.TableCache, counters *logger.Counters) *Scraper {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if interp == nil {
		interp = interpreter.Noop{}
	}
	if counters == nil {
		counters = logger.NewCounters()
	}
	return &Scraper{
		client:   &http.Client{Timeout: timeout},
		interp:   interp,
		cache:    tableCache,
		counters: counters,
	}
}

// Fetch performs one GET and returns the raw body, or a FetchError on
// network failure, timeout, or a non-success status.
func (s *Scraper) Fetch(url string) ([]byte, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	s.counters.Incr("fetch.requests")
	return body, nil
}

// ScrapeSource extracts records from one source using the adapter selected
// by its format. Validation failures go into the invalid list; fetch and
// parse failures are returned as typed errors for the driver to record.
func (s *Scraper) ScrapeSource(src Source) ([]*schedule.ScheduleRecord, []InvalidRecord, error) {
	switch src.Format {
	case FormatFacilityList:
		return s.scrapeFacilityList(src)
	case FormatJSON:
		return s.scrapeJSON(src)
	default:
		return s.scrapeHTML(src)
	}
}

// collect validates raw entries for one facility, splitting them into
// records and invalid entries.
func (s *Scraper) collect(facility string, src Source, raws []interpreter.RawSchedule) ([]*schedule.ScheduleRecord, []InvalidRecord) {
	records := make([]*schedule.ScheduleRecord, 0, len(raws))
	var invalid []InvalidRecord

	for _, raw := range raws {
		s.counters.Incr("records.created")
		rec := &schedule.ScheduleRecord{
			Facility:        facility,
			Activity:        cleanText(raw.Activity),
			DayOfWeek:       raw.DayOfWeek,
			StartTime:       raw.StartTime,
			EndTime:         raw.EndTime,
			PeriodStartDate: raw.PeriodStartDate,
			PeriodEndDate:   raw.PeriodEndDate,
			Source:          src.Name,
		}
		rec.ID = schedule.GenerateID(rec.Facility, rec.Activity, rec.DayOfWeek, rec.StartTime, rec.EndTime)

		if err := rec.Validate(); err != nil {
			s.counters.Incr("records.invalid")
			invalid = append(invalid, InvalidRecord{
				Facility: facility,
				Source:   src.Name,
				Reason:   err.Error(),
				Entry:    raw,
			})
			continue
		}
		s.counters.Incr("records.valid")
		records = append(records, rec)
	}
	return records, invalid
}
