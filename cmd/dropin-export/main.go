package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ekinay/dropin-schedules/internal/config"
	"github.com/ekinay/dropin-schedules/internal/export"
	"github.com/ekinay/dropin-schedules/internal/storage"
)

var (
	documentFile = flag.String("document", "", "Schedule document path (default: schedules.json)")
	outputFile   = flag.String("output", "schedules.ics", "iCalendar output path")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *documentFile != "" {
		cfg.SchedulesFile = *documentFile
	}

	doc, err := storage.LoadDocument(cfg.SchedulesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading document: %v\n", err)
		os.Exit(1)
	}

	ics, err := export.ICS(doc, time.Now().UTC())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating calendar: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*outputFile, []byte(ics), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *outputFile, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d events to %s\n", len(doc.Schedules), *outputFile)
}
