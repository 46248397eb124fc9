package scraper

import (
	"errors"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/ekinay/dropin-schedules/internal/cache"
	"github.com/ekinay/dropin-schedules/internal/interpreter"
	"github.com/ekinay/dropin-schedules/internal/logger"
	"github.com/ekinay/dropin-schedules/internal/schedule"
)

var timeRangePattern = regexp.MustCompile(`(\d{1,2}:\d{2})\s*(?:-|–|—|to)\s*(\d{1,2}:\d{2})`)

// parseTable extracts raw schedule entries from one table. Two positional
// strategies are tried before falling back to the text interpreter:
//
//  1. grid layout: weekday column headers, one activity per row, cells
//     holding time ranges
//  2. row layout: activity / weekday / time range columns
func (s *Scraper) parseTable(table *goquery.Selection, facility string) []interpreter.RawSchedule {
	if raws := parseGridTable(table); len(raws) > 0 {
		s.counters.Incr("tables.fast_path")
		return raws
	}
	if raws := parseRowTable(table); len(raws) > 0 {
		s.counters.Incr("tables.fast_path")
		return raws
	}
	return s.interpretTable(table, facility)
}

// parseGridTable handles tables whose header cells name weekdays and whose
// body cells carry time ranges for the activity in the first column.
func parseGridTable(table *goquery.Selection) []interpreter.RawSchedule {
	// Day columns are only trusted in a real header: a thead row, or th
	// cells in the first row. Plain td rows are left to the row strategy.
	headers := table.Find("thead tr").First().Find("th,td")
	if headers.Length() == 0 {
		headers = table.Find("tr").First().Find("th")
	}

	dayByColumn := make(map[int]int)
	headers.Each(func(col int, cell *goquery.Selection) {
		if day, err := schedule.ParseDay(cleanText(cell.Text())); err == nil {
			dayByColumn[col] = day
		}
	})
	if len(dayByColumn) == 0 {
		return nil
	}

	var raws []interpreter.RawSchedule
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		activity := cleanText(row.Find("th").First().Text())
		offset := 1 // day columns shift left when the activity sits in a th
		if activity == "" {
			activity = cleanText(cells.First().Text())
			offset = 0
		}
		if activity == "" {
			return
		}

		cells.Each(func(col int, cell *goquery.Selection) {
			day, ok := dayByColumn[col+offset]
			if !ok {
				return
			}
			for _, m := range timeRangePattern.FindAllStringSubmatch(cell.Text(), -1) {
				raws = append(raws, interpreter.RawSchedule{
					Activity:  activity,
					DayOfWeek: day,
					StartTime: normalizeClock(m[1]),
					EndTime:   normalizeClock(m[2]),
				})
			}
		})
	})
	return raws
}

// parseRowTable handles tables with one slot per row: activity, weekday,
// time range.
func parseRowTable(table *goquery.Selection) []interpreter.RawSchedule {
	var raws []interpreter.RawSchedule
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		activity := cleanText(cells.Eq(0).Text())
		day, err := schedule.ParseDay(cleanText(cells.Eq(1).Text()))
		if err != nil {
			return
		}
		m := timeRangePattern.FindStringSubmatch(cells.Eq(2).Text())
		if activity == "" || m == nil {
			return
		}
		raws = append(raws, interpreter.RawSchedule{
			Activity:  activity,
			DayOfWeek: day,
			StartTime: normalizeClock(m[1]),
			EndTime:   normalizeClock(m[2]),
		})
	})
	return raws
}

// interpretTable sends an ambiguous table to the text interpreter, caching
// results by table fingerprint so unchanged tables cost no repeat call.
// Interpreter failures flag the table and skip it; they never abort a run.
func (s *Scraper) interpretTable(table *goquery.Selection, facility string) []interpreter.RawSchedule {
	tableHTML, err := goquery.OuterHtml(table)
	if err != nil {
		logger.Error("rendering table HTML", logger.Fields{"facility": facility}, err)
		return nil
	}

	cleaned := interpreter.CleanHTML(tableHTML)
	key := cache.Key(cleaned)
	if s.cache != nil {
		if raws, ok := s.cache.Get(key); ok {
			s.counters.Incr("interpreter.cache_hits")
			return raws
		}
	}

	raws, err := s.interp.ExtractSchedules(tableHTML)
	if err != nil {
		if errors.Is(err, interpreter.ErrUnavailable) {
			logger.Warn("table needs interpretation but no interpreter is configured",
				logger.Fields{"facility": facility})
		} else {
			logger.Error("interpreter failed, skipping table", logger.Fields{"facility": facility}, err)
		}
		s.counters.Incr("tables.skipped")
		return nil
	}
	s.counters.Incr("interpreter.calls")

	if s.cache != nil {
		s.cache.Put(key, raws)
	}
	return raws
}

// normalizeClock zero-pads single digit hours so IDs and output stay stable.
func normalizeClock(clock string) string {
	if len(clock) == 4 { // "9:00"
		return "0" + clock
	}
	return clock
}
