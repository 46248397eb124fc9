package uploader

import (
	"fmt"
	"io"

	"github.com/ekinay/dropin-schedules/internal/schedule"
)

// DryRun is a Sink that prints what would be uploaded without making
// any requests.
type DryRun struct {
	out io.Writer
}

// NewDryRun creates a dry-run sink writing to out.
func NewDryRun(out io.Writer) *DryRun {
	return &DryRun{out: out}
}

// Upload prints each record and reports them all as successful.
func (d *DryRun) Upload(records []*schedule.ScheduleRecord) (*Result, error) {
	for i, rec := range records {
		fmt.Fprintf(d.out, "--- Record %d/%d ---\n", i+1, len(records))
		fmt.Fprintf(d.out, "%s: %s, %s %s-%s\n",
			rec.Facility, rec.Activity, schedule.DayName(rec.DayOfWeek), rec.StartTime, rec.EndTime)
	}
	return &Result{Uploaded: len(records)}, nil
}
