package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ekinay/dropin-schedules/internal/export"
	"github.com/ekinay/dropin-schedules/internal/schedule"
)

func main() {
	// Build a sample document
	doc := schedule.NewDocument()
	rec := schedule.NewRecord(
		"Plant Recreation Centre",
		"Aquafit",
		schedule.Monday,
		"09:00", "10:00",
		"https://ottawa.ca/en/recreation-and-parks/facilities/place-listing/plant-recreation-centre",
	)
	rec.AgeCategory = "Adult"
	doc.Append(schedule.SourceStatus{Name: "sample", URL: rec.Source}, []*schedule.ScheduleRecord{rec})

	content, err := export.ICS(doc, time.Now().UTC())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating calendar: %v\n", err)
		os.Exit(1)
	}

	filename := "preview-schedule.ics"
	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s\n", filename)
	fmt.Println("\nCalendar content:")
	fmt.Println(content)
}
