package scraper

import (
	"encoding/json"

	"github.com/ekinay/dropin-schedules/internal/interpreter"
	"github.com/ekinay/dropin-schedules/internal/schedule"
)

// jsonFeedItem is one schedule entry as published by a JSON source.
// The weekday may arrive as a number or a name.
type jsonFeedItem struct {
	Facility        string `json:"facility"`
	Activity        string `json:"activity"`
	DayOfWeek       int    `json:"dayOfWeek"`
	Day             string `json:"day"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	PeriodStartDate string `json:"periodStartDate"`
	PeriodEndDate   string `json:"periodEndDate"`
	AgeCategory     string `json:"ageCategory"`
}

type jsonFeed struct {
	Schedules []jsonFeedItem `json:"schedules"`
}

// scrapeJSON maps a JSON feed's known keys directly onto schedule records.
// Both a bare array and a {"schedules": [...]} wrapper are accepted.
func (s *Scraper) scrapeJSON(src Source) ([]*schedule.ScheduleRecord, []InvalidRecord, error) {
	body, err := s.Fetch(src.URL)
	if err != nil {
		return nil, nil, err
	}

	var items []jsonFeedItem
	var feed jsonFeed
	if err := json.Unmarshal(body, &feed); err == nil && len(feed.Schedules) > 0 {
		items = feed.Schedules
	} else if err := json.Unmarshal(body, &items); err != nil {
		return nil, nil, &ParseError{Source: src.Name, Reason: "decoding JSON feed", Err: err}
	}
	if len(items) == 0 {
		return nil, nil, &ParseError{Source: src.Name, Reason: "feed contains no schedules"}
	}

	var records []*schedule.ScheduleRecord
	var invalid []InvalidRecord
	for _, item := range items {
		day := item.DayOfWeek
		if day == 0 && item.Day != "" {
			if parsed, err := schedule.ParseDay(item.Day); err == nil {
				day = parsed
			}
		}
		facility := cleanText(item.Facility)
		if facility == "" {
			facility = src.Name
		}

		raw := interpreter.RawSchedule{
			Activity:        item.Activity,
			DayOfWeek:       day,
			StartTime:       item.StartTime,
			EndTime:         item.EndTime,
			PeriodStartDate: item.PeriodStartDate,
			PeriodEndDate:   item.PeriodEndDate,
		}
		recs, inv := s.collect(facility, src, []interpreter.RawSchedule{raw})
		for _, rec := range recs {
			rec.AgeCategory = cleanText(item.AgeCategory)
		}
		records = append(records, recs...)
		invalid = append(invalid, inv...)
	}
	return records, invalid, nil
}
