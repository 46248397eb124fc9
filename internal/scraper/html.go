package scraper

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ekinay/dropin-schedules/internal/interpreter"
	"github.com/ekinay/dropin-schedules/internal/schedule"
)

// Pattern for one-line activity blocks:
// "Aquafit — Mon 09:00–10:00 — Main Pool"
var activityBlockPattern = regexp.MustCompile(`^(.+?)\s*[—–-]\s*([A-Za-z]{3,9})\.?\s+(\d{1,2}:\d{2})\s*[—–-]\s*(\d{1,2}:\d{2})\s*[—–-]\s*(.+)$`)

// scrapeHTML extracts records from a single page of activity blocks and
// schedule tables.
func (s *Scraper) scrapeHTML(src Source) ([]*schedule.ScheduleRecord, []InvalidRecord, error) {
	body, err := s.Fetch(src.URL)
	if err != nil {
		return nil, nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil, &ParseError{Source: src.Name, Reason: "parsing HTML", Err: err}
	}

	records, invalid := s.parseActivityBlocks(doc, src)

	// Tables on the page belong to the page's own facility.
	facility := cleanText(doc.Find("h1").First().Text())
	if facility == "" {
		facility = src.Name
	}
	tables := doc.Find("table")
	tables.Each(func(i int, table *goquery.Selection) {
		raws := s.parseTable(table, facility)
		recs, inv := s.collect(facility, src, raws)
		records = append(records, recs...)
		invalid = append(invalid, inv...)
	})

	if len(records) == 0 && len(invalid) == 0 && tables.Length() == 0 {
		return nil, nil, &ParseError{Source: src.Name, Reason: "no activity blocks or schedule tables found"}
	}
	return dedupe(records), invalid, nil
}

// parseActivityBlocks scans text content for one-line activity blocks.
// The trailing segment names the location, which doubles as the facility.
func (s *Scraper) parseActivityBlocks(doc *goquery.Document, src Source) ([]*schedule.ScheduleRecord, []InvalidRecord) {
	var records []*schedule.ScheduleRecord
	var invalid []InvalidRecord
	seen := make(map[string]bool) // nested elements repeat the same text lines

	doc.Find("*").Each(func(i int, sel *goquery.Selection) {
		for _, line := range strings.Split(sel.Text(), "\n") {
			line = cleanText(line)
			if line == "" || seen[line] {
				continue
			}
			seen[line] = true

			m := activityBlockPattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			day, err := schedule.ParseDay(m[2])
			if err != nil {
				continue
			}

			raw := interpreter.RawSchedule{
				Activity:  m[1],
				DayOfWeek: day,
				StartTime: normalizeClock(m[3]),
				EndTime:   normalizeClock(m[4]),
			}
			recs, inv := s.collect(cleanText(m[5]), src, []interpreter.RawSchedule{raw})
			records = append(records, recs...)
			invalid = append(invalid, inv...)
		}
	})
	return records, invalid
}

// dedupe drops repeated records by ID; nested elements repeat text content
// when scanning the whole document.
func dedupe(records []*schedule.ScheduleRecord) []*schedule.ScheduleRecord {
	seen := make(map[string]bool)
	unique := make([]*schedule.ScheduleRecord, 0, len(records))
	for _, rec := range records {
		if !seen[rec.ID] {
			seen[rec.ID] = true
			unique = append(unique, rec)
		}
	}
	return unique
}
