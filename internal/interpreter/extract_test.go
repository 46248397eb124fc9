package interpreter

import (
	"strings"
	"testing"
)

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		wantErr  bool
	}{
		{
			name:     "plain array",
			input:    `[{"activity":"Aquafit","start_time":"09:00","end_time":"10:00","day_of_week":1}]`,
			expected: 1,
		},
		{
			name: "fenced array",
			input: "```json\n" +
				`[{"activity":"Aquafit","start_time":"09:00","end_time":"10:00","day_of_week":1},` +
				`{"activity":"Lane swim","start_time":"07:00","end_time":"08:30","day_of_week":3}]` +
				"\n```",
			expected: 2,
		},
		{
			name: "array wrapped in prose",
			input: `Here are the extracted entries:
[{"activity":"Yoga","start_time":"08:30","end_time":"09:30","day_of_week":6}]
Let me know if you need anything else.`,
			expected: 1,
		},
		{
			name:     "bare objects without brackets",
			input:    `{"activity":"Yoga","start_time":"08:30","end_time":"09:30","day_of_week":6}`,
			expected: 1,
		},
		{
			name:    "empty reply",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			input:   "I could not find any schedule data in this table.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedules, err := ExtractJSONArray(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractJSONArray failed: %v", err)
			}
			if len(schedules) != tt.expected {
				t.Errorf("expected %d entries, got %d", tt.expected, len(schedules))
			}
		})
	}
}

func TestExtractJSONArrayFieldMapping(t *testing.T) {
	schedules, err := ExtractJSONArray(`[{
		"activity": "Pickleball",
		"start_time": "13:00",
		"end_time": "15:30",
		"period_start_date": "2026-01-05",
		"period_end_date": "2026-03-20",
		"day_of_week": 4
	}]`)
	if err != nil {
		t.Fatalf("ExtractJSONArray failed: %v", err)
	}

	s := schedules[0]
	if s.Activity != "Pickleball" || s.DayOfWeek != 4 {
		t.Errorf("unexpected entry %+v", s)
	}
	if s.PeriodStartDate != "2026-01-05" || s.PeriodEndDate != "2026-03-20" {
		t.Errorf("expected validity window, got %+v", s)
	}
}

func TestCleanHTML(t *testing.T) {
	html := `<table class="schedule-table" id="main" style="width:100%">
		<tr>  <td>Aquafit</td>  </tr>
	</table>`
	cleaned := CleanHTML(html)

	if strings.Contains(cleaned, "class=") || strings.Contains(cleaned, "style=") {
		t.Errorf("expected presentation attributes to be stripped: %q", cleaned)
	}
	if strings.Contains(cleaned, "\n") {
		t.Errorf("expected whitespace to be collapsed: %q", cleaned)
	}
	if !strings.Contains(cleaned, "Aquafit") {
		t.Errorf("expected content to survive cleaning: %q", cleaned)
	}
}

func TestCleanHTMLTruncates(t *testing.T) {
	html := "<table>" + strings.Repeat("<tr><td>row</td></tr>", 2000) + "</table>"
	cleaned := CleanHTML(html)
	if len(cleaned) > MaxTableLength+3 {
		t.Errorf("expected truncation to %d chars, got %d", MaxTableLength, len(cleaned))
	}
	if !strings.HasSuffix(cleaned, "...") {
		t.Error("expected truncated HTML to end with ellipsis")
	}
}

func TestNoop(t *testing.T) {
	_, err := Noop{}.ExtractSchedules("<table></table>")
	if err != ErrUnavailable {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
