package scraper

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ekinay/dropin-schedules/internal/schedule"
)

func TestScrapeJSONWrappedFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"schedules": [
			{"facility": "Nepean Sportsplex", "activity": "Public skating", "dayOfWeek": 6,
			 "startTime": "13:00", "endTime": "14:30", "ageCategory": "All ages"},
			{"facility": "Nepean Sportsplex", "activity": "Shinny", "day": "Wednesday",
			 "startTime": "07:00", "endTime": "08:00"}
		]}`)
	}))
	defer server.Close()

	s := New(0, nil, nil, nil)
	records, invalid, err := s.ScrapeSource(Source{Name: "sportsplex-feed", URL: server.URL, Format: FormatJSON})
	if err != nil {
		t.Fatalf("ScrapeSource failed: %v", err)
	}
	if len(invalid) != 0 {
		t.Errorf("expected no invalid records, got %v", invalid)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if records[0].AgeCategory != "All ages" {
		t.Errorf("expected age category to carry through, got %q", records[0].AgeCategory)
	}
	if records[1].DayOfWeek != schedule.Wednesday {
		t.Errorf("expected day name to be mapped, got %d", records[1].DayOfWeek)
	}
}

func TestScrapeJSONBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"facility": "Main Pool", "activity": "Aquafit", "dayOfWeek": 1,
			"startTime": "09:00", "endTime": "10:00"}]`)
	}))
	defer server.Close()

	s := New(0, nil, nil, nil)
	records, _, err := s.ScrapeSource(Source{Name: "pool-feed", URL: server.URL, Format: FormatJSON})
	if err != nil {
		t.Fatalf("ScrapeSource failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Activity != "Aquafit" {
		t.Errorf("unexpected activity %q", records[0].Activity)
	}
}

func TestScrapeJSONInvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	}))
	defer server.Close()

	s := New(0, nil, nil, nil)
	_, _, err := s.ScrapeSource(Source{Name: "pool-feed", URL: server.URL, Format: FormatJSON})

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError for non-JSON body, got %v", err)
	}
}

func TestScrapeJSONMissingFacilityFallsBackToSourceName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"activity": "Open gym", "dayOfWeek": 2, "startTime": "18:00", "endTime": "20:00"}]`)
	}))
	defer server.Close()

	s := New(0, nil, nil, nil)
	records, _, err := s.ScrapeSource(Source{Name: "gym-feed", URL: server.URL, Format: FormatJSON})
	if err != nil {
		t.Fatalf("ScrapeSource failed: %v", err)
	}
	if records[0].Facility != "gym-feed" {
		t.Errorf("expected source name fallback, got %q", records[0].Facility)
	}
}
