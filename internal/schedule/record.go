package schedule

import (
	"crypto/sha1"
	"fmt"
	"regexp"
	"strings"
)

// Weekday numbering follows the upload API convention: 1=Monday .. 7=Sunday.
const (
	Monday    = 1
	Tuesday   = 2
	Wednesday = 3
	Thursday  = 4
	Friday    = 5
	Saturday  = 6
	Sunday    = 7
)

var dayNames = map[int]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// ScheduleRecord represents one drop-in activity slot at a facility.
//
// JSON field names match the upload API's expected payload shape.
type ScheduleRecord struct {
	ID              string `json:"id"`
	Facility        string `json:"facility"`
	Activity        string `json:"activity"`
	DayOfWeek       int    `json:"dayOfWeek"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	PeriodStartDate string `json:"periodStartDate,omitempty"`
	PeriodEndDate   string `json:"periodEndDate,omitempty"`
	AgeCategory     string `json:"ageCategory,omitempty"`
	Source          string `json:"source"`
}

// GenerateID creates a deterministic ID for a record based on stable fields
func GenerateID(facility, activity string, day int, start, end string) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s|%s|%d|%s|%s", strings.ToLower(strings.TrimSpace(facility)),
		strings.ToLower(strings.TrimSpace(activity)), day, start, end)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// NewRecord creates a ScheduleRecord with its ID populated
func NewRecord(facility, activity string, day int, start, end, source string) *ScheduleRecord {
	return &ScheduleRecord{
		ID:        GenerateID(facility, activity, day, start, end),
		Facility:  facility,
		Activity:  activity,
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
		Source:    source,
	}
}

var clockPattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// ClockMinutes converts an "HH:MM" clock string to minutes since midnight.
// Returns an error for malformed or out-of-range values.
func ClockMinutes(clock string) (int, error) {
	if !clockPattern.MatchString(clock) {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	var h, m int
	if _, err := fmt.Sscanf(clock, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", clock)
	}
	return h*60 + m, nil
}

// DayName returns the English weekday name for a 1..7 day number,
// or "" if the number is out of range.
func DayName(day int) string {
	return dayNames[day]
}

// ParseDay maps a weekday name ("Mon", "monday") to its 1..7 number.
func ParseDay(name string) (int, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return 0, fmt.Errorf("empty weekday name")
	}
	for day, full := range dayNames {
		lower := strings.ToLower(full)
		if needle == lower || needle == lower[:3] {
			return day, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// Validate checks the record invariants: required fields present, weekday in
// range, well-formed clock times and start strictly before end.
func (r *ScheduleRecord) Validate() error {
	if strings.TrimSpace(r.Facility) == "" {
		return fmt.Errorf("missing facility")
	}
	if strings.TrimSpace(r.Activity) == "" {
		return fmt.Errorf("missing activity")
	}
	if r.DayOfWeek < Monday || r.DayOfWeek > Sunday {
		return fmt.Errorf("dayOfWeek %d out of range 1..7", r.DayOfWeek)
	}
	start, err := ClockMinutes(r.StartTime)
	if err != nil {
		return fmt.Errorf("startTime: %w", err)
	}
	end, err := ClockMinutes(r.EndTime)
	if err != nil {
		return fmt.Errorf("endTime: %w", err)
	}
	if start >= end {
		return fmt.Errorf("startTime %s is not before endTime %s", r.StartTime, r.EndTime)
	}
	return nil
}
