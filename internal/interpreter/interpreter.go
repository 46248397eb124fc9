package interpreter

import "errors"

// ErrUnavailable is returned when no text interpreter is configured.
var ErrUnavailable = errors.New("text interpreter unavailable")

// RawSchedule is one schedule entry as guessed by the interpreter, before
// validation. Field names match the JSON shape the model is asked to emit.
type RawSchedule struct {
	Activity        string `json:"activity"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	PeriodStartDate string `json:"period_start_date,omitempty"`
	PeriodEndDate   string `json:"period_end_date,omitempty"`
	DayOfWeek       int    `json:"day_of_week"`
}

// TextInterpreter extracts structured schedule entries from an HTML table
// that could not be parsed positionally.
type TextInterpreter interface {
	ExtractSchedules(tableHTML string) ([]RawSchedule, error)
}

// Noop is a TextInterpreter that always reports itself unavailable. It is
// used when no API key is configured and in tests.
type Noop struct{}

// ExtractSchedules always returns ErrUnavailable.
func (Noop) ExtractSchedules(string) ([]RawSchedule, error) {
	return nil, ErrUnavailable
}
