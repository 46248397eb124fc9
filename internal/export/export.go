// Package export converts a schedule document to iCalendar form so the
// scraped schedules can be imported into calendar clients.
package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/ekinay/dropin-schedules/internal/schedule"
)

// ICS renders one weekly recurring VEVENT per schedule record. Each event
// starts at the record's next occurrence and repeats until the end of its
// validity window, when one is known.
func ICS(doc *schedule.Document, now time.Time) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//dropin-schedules//EN")

	for _, rec := range doc.Schedules {
		start, end, err := nextOccurrence(rec, now)
		if err != nil {
			return "", fmt.Errorf("record %s: %w", rec.ID, err)
		}

		event := cal.AddEvent(rec.ID + "@dropin-schedules")
		event.SetDtStampTime(doc.GeneratedAt)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(rec.Activity)
		event.SetLocation(rec.Facility)
		if rec.AgeCategory != "" {
			event.SetDescription(rec.AgeCategory)
		}

		rrule := "FREQ=WEEKLY"
		if until, ok := parseDate(rec.PeriodEndDate); ok {
			rrule += ";UNTIL=" + until.AddDate(0, 0, 1).UTC().Format("20060102T150405Z")
		}
		event.AddRrule(rrule)
	}

	return cal.Serialize(), nil
}

// nextOccurrence finds the first date on or after now (or the period start,
// if later) that falls on the record's weekday, combined with its clock
// times.
func nextOccurrence(rec *schedule.ScheduleRecord, now time.Time) (time.Time, time.Time, error) {
	base := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if from, ok := parseDate(rec.PeriodStartDate); ok && from.After(base) {
		base = from
	}

	target := time.Weekday(rec.DayOfWeek % 7) // 7=Sunday maps to time.Sunday
	for base.Weekday() != target {
		base = base.AddDate(0, 0, 1)
	}

	start, err := atClock(base, rec.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := atClock(base, rec.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func atClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q", clock)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

func parseDate(date string) (time.Time, bool) {
	if date == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
