package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ekinay/dropin-schedules/internal/config"
	"github.com/ekinay/dropin-schedules/internal/logger"
	"github.com/ekinay/dropin-schedules/internal/storage"
	"github.com/ekinay/dropin-schedules/internal/uploader"
)

var (
	documentFile = flag.String("document", "", "Schedule document path (default: schedules.json)")
	batchSize    = flag.Int("batch-size", 0, "Records per upload request (default: 100)")
	dryRun       = flag.Bool("dry-run", false, "Print records without uploading")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(logger.New(logger.ParseLevel(cfg.LogLevel), os.Stderr))

	if *documentFile != "" {
		cfg.SchedulesFile = *documentFile
	}
	if *batchSize > 0 {
		cfg.UploadBatchSize = *batchSize
	}

	doc, err := storage.LoadDocument(cfg.SchedulesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading document: %v\n", err)
		os.Exit(1)
	}
	if len(doc.Schedules) == 0 {
		fmt.Println("No records to upload")
		return
	}

	var sink uploader.Sink
	if *dryRun {
		sink = uploader.NewDryRun(os.Stdout)
	} else {
		if err := cfg.RequireUploadCredentials(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		client, err := uploader.NewClient(cfg.UploadAPIURL, cfg.UploadAPIKey, cfg.UploadBatchSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		sink = client
	}

	result, err := sink.Upload(doc.Schedules)
	if err != nil {
		var uploadErr *uploader.UploadError
		if errors.As(err, &uploadErr) {
			fmt.Fprintf(os.Stderr, "Upload failed with status %d: %s\n", uploadErr.StatusCode, uploadErr.Body)
		} else {
			fmt.Fprintf(os.Stderr, "Upload failed: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("Uploaded %d of %d records\n", result.Uploaded, len(doc.Schedules))
	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stderr, "Server reported %d record errors:\n  %s\n",
			len(result.Errors), strings.Join(result.Errors, "\n  "))
		os.Exit(1)
	}
}
