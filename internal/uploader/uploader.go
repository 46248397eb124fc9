package uploader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ekinay/dropin-schedules/internal/logger"
	"github.com/ekinay/dropin-schedules/internal/schedule"
)

const (
	// DefaultBatchSize matches the upload API's request size limit.
	DefaultBatchSize = 100

	defaultTimeout = 30 * time.Second
	maxRetries     = 3
)

// UploadError reports a non-success response from the upload API.
type UploadError struct {
	StatusCode int
	Body       string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload API error (status %d): %s", e.StatusCode, e.Body)
}

// Result summarizes an upload run.
type Result struct {
	Uploaded int
	Errors   []string
}

// Sink receives schedule records. Implemented by Client and by DryRun.
type Sink interface {
	Upload(records []*schedule.ScheduleRecord) (*Result, error)
}

// Client uploads records to the storage API in batches.
type Client struct {
	apiURL     string
	apiKey     string
	batchSize  int
	httpClient *http.Client
}

// NewClient creates an upload client. Batch size defaults to
// DefaultBatchSize when zero.
func NewClient(apiURL, apiKey string, batchSize int) (*Client, error) {
	if apiURL == "" {
		return nil, fmt.Errorf("upload API URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("upload API key is required")
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Client{
		apiURL:     apiURL,
		apiKey:     apiKey,
		batchSize:  batchSize,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

type batchRequest struct {
	Schedules []*schedule.ScheduleRecord `json:"schedules"`
}

type batchResponse struct {
	Successful int         `json:"successful"`
	Errors     interface{} `json:"errors"`
}

// Upload posts records in batches, accumulating per-record errors reported
// by the server. The first failed batch aborts the run.
func (c *Client) Upload(records []*schedule.ScheduleRecord) (*Result, error) {
	result := &Result{}
	for start := 0; start < len(records); start += c.batchSize {
		end := start + c.batchSize
		if end > len(records) {
			end = len(records)
		}

		resp, err := c.postBatch(records[start:end])
		if err != nil {
			return result, err
		}
		result.Uploaded += resp.Successful
		result.Errors = append(result.Errors, normalizeErrors(resp.Errors)...)

		logger.Info("uploaded batch", logger.Fields{
			"batch_start": start,
			"batch_size":  end - start,
			"successful":  resp.Successful,
		})
	}
	return result, nil
}

// postBatch sends one batch, retrying server errors and network failures
// with exponential backoff.
func (c *Client) postBatch(batch []*schedule.ScheduleRecord) (*batchResponse, error) {
	payload, err := json.Marshal(batchRequest{Schedules: batch})
	if err != nil {
		return nil, fmt.Errorf("marshaling batch: %w", err)
	}

	var resp *batchResponse
	operation := func() error {
		var opErr error
		resp, opErr = c.post(payload)
		return opErr
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) post(payload []byte) (*batchResponse, error) {
	req, err := http.NewRequest("POST", c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting batch: %w", err) // retryable
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case httpResp.StatusCode == http.StatusOK || httpResp.StatusCode == http.StatusCreated:
		var resp batchResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("decoding response: %w", err))
		}
		return &resp, nil
	case httpResp.StatusCode >= 500:
		// retryable
		return nil, &UploadError{StatusCode: httpResp.StatusCode, Body: string(body)}
	default:
		return nil, backoff.Permanent(&UploadError{StatusCode: httpResp.StatusCode, Body: string(body)})
	}
}

// normalizeErrors tolerates the server reporting errors as a list, a bare
// string, or an object.
func normalizeErrors(raw interface{}) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case []interface{}:
		errs := make([]string, 0, len(v))
		for _, item := range v {
			errs = append(errs, fmt.Sprint(item))
		}
		return errs
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return []string{fmt.Sprint(v)}
	}
}
