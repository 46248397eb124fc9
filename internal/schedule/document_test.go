package schedule

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDocumentAppendAndFailedSources(t *testing.T) {
	doc := NewDocument()
	if doc.RunID == "" {
		t.Error("expected run ID to be set")
	}

	records := []*ScheduleRecord{
		NewRecord("Main Pool", "Aquafit", Monday, "09:00", "10:00", "pool-site"),
	}
	doc.Append(SourceStatus{Name: "pool-site", URL: "https://example.com/pool"}, records)
	doc.Append(SourceStatus{Name: "gym-site", URL: "https://example.com/gym", Error: "fetching: status 500"}, nil)

	if len(doc.Schedules) != 1 {
		t.Fatalf("expected 1 record, got %d", len(doc.Schedules))
	}
	if doc.Sources[0].Records != 1 {
		t.Errorf("expected source status to count records, got %d", doc.Sources[0].Records)
	}

	failed := doc.FailedSources()
	if len(failed) != 1 || failed[0] != "gym-site" {
		t.Errorf("FailedSources() = %v, expected [gym-site]", failed)
	}
}

func TestDocumentSortDeterministic(t *testing.T) {
	build := func(order []int) *Document {
		recs := []*ScheduleRecord{
			NewRecord("A Centre", "Swim", Monday, "09:00", "10:00", "s"),
			NewRecord("A Centre", "Swim", Monday, "07:00", "08:00", "s"),
			NewRecord("A Centre", "Basketball", Tuesday, "16:00", "18:00", "s"),
			NewRecord("B Centre", "Swim", Monday, "09:00", "10:00", "s"),
		}
		doc := NewDocument()
		for _, i := range order {
			doc.Schedules = append(doc.Schedules, recs[i])
		}
		return doc
	}

	first := build([]int{0, 1, 2, 3})
	second := build([]int{3, 2, 1, 0})
	first.Sort()
	second.Sort()

	if diff := cmp.Diff(first.Schedules, second.Schedules); diff != "" {
		t.Errorf("sorted order depends on insertion order (-first +second):\n%s", diff)
	}

	got := first.Schedules[0]
	if got.Activity != "Basketball" {
		t.Errorf("expected Basketball first after sort, got %s", got.Activity)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := NewDocument()
	rec := NewRecord("Plant Recreation Centre", "Aquafit", Wednesday, "09:00", "10:00", "ottawa-facilities")
	rec.PeriodStartDate = "2026-01-05"
	rec.PeriodEndDate = "2026-03-20"
	rec.AgeCategory = "Adult"
	doc.Append(SourceStatus{Name: "ottawa-facilities", URL: "https://ottawa.ca"}, []*ScheduleRecord{rec})

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Document
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if diff := cmp.Diff(doc, &decoded); diff != "" {
		t.Errorf("document changed across JSON round trip (-want +got):\n%s", diff)
	}
}
