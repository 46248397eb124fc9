package uploader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ekinay/dropin-schedules/internal/schedule"
)

func makeRecords(n int) []*schedule.ScheduleRecord {
	records := make([]*schedule.ScheduleRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, schedule.NewRecord(
			"Plant Recreation Centre",
			fmt.Sprintf("Activity %d", i),
			schedule.Monday,
			"09:00", "10:00",
			"https://example.test/plant",
		))
	}
	return records
}

func TestUploadSuccess(t *testing.T) {
	var gotKey, gotContentType string
	var gotPayload batchRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		fmt.Fprint(w, `{"successful": 3, "errors": []}`)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "secret-key", 0)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	result, err := client.Upload(makeRecords(3))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if result.Uploaded != 3 {
		t.Errorf("Uploaded = %d, want 3", result.Uploaded)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if gotKey != "secret-key" {
		t.Errorf("x-api-key = %q, want %q", gotKey, "secret-key")
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if len(gotPayload.Schedules) != 3 {
		t.Errorf("payload carried %d schedules, want 3", len(gotPayload.Schedules))
	}
}

func TestUploadBatches(t *testing.T) {
	var batchSizes []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload batchRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		batchSizes = append(batchSizes, len(payload.Schedules))
		fmt.Fprintf(w, `{"successful": %d, "errors": null}`, len(payload.Schedules))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "secret-key", 2)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	result, err := client.Upload(makeRecords(5))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if result.Uploaded != 5 {
		t.Errorf("Uploaded = %d, want 5", result.Uploaded)
	}
	if diff := cmp.Diff([]int{2, 2, 1}, batchSizes); diff != "" {
		t.Errorf("batch sizes (-want +got):\n%s", diff)
	}
}

func TestUploadUnauthorized(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"invalid key"}`)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "wrong-key", 0)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.Upload(makeRecords(1))
	var uerr *UploadError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UploadError, got %v", err)
	}
	if uerr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", uerr.StatusCode)
	}
	if uerr.Body != `{"error":"invalid key"}` {
		t.Errorf("Body = %q", uerr.Body)
	}
	if requests != 1 {
		t.Errorf("client error was retried %d times, want a single request", requests)
	}
}

func TestUploadRetriesServerErrors(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"successful": 1, "errors": null}`)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "secret-key", 0)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	result, err := client.Upload(makeRecords(1))
	if err != nil {
		t.Fatalf("Upload failed after retry: %v", err)
	}
	if result.Uploaded != 1 {
		t.Errorf("Uploaded = %d, want 1", result.Uploaded)
	}
	if requests != 2 {
		t.Errorf("made %d requests, want 2", requests)
	}
}

func TestUploadCollectsServerReportedErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"successful": 1, "errors": ["duplicate record abc123"]}`)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "secret-key", 0)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	result, err := client.Upload(makeRecords(2))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if diff := cmp.Diff([]string{"duplicate record abc123"}, result.Errors); diff != "" {
		t.Errorf("errors (-want +got):\n%s", diff)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "key", 0); err == nil {
		t.Error("expected error for missing URL")
	}
	if _, err := NewClient("https://api.example.test", "", 0); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want []string
	}{
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"string", "bad record", []string{"bad record"}},
		{"list", []interface{}{"a", "b"}, []string{"a", "b"}},
		{"object", map[string]interface{}{"id": "x"}, []string{fmt.Sprint(map[string]interface{}{"id": "x"})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, normalizeErrors(tt.raw)); diff != "" {
				t.Errorf("normalizeErrors (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDryRun(t *testing.T) {
	var buf bytes.Buffer
	sink := NewDryRun(&buf)

	result, err := sink.Upload(makeRecords(2))
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if result.Uploaded != 2 {
		t.Errorf("Uploaded = %d, want 2", result.Uploaded)
	}
	out := buf.String()
	if !strings.Contains(out, "Plant Recreation Centre") || !strings.Contains(out, "Monday") {
		t.Errorf("dry run output missing record details:\n%s", out)
	}
}
