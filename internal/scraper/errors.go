package scraper

import "fmt"

// FetchError reports a failed HTTP GET: network failure, timeout, or a
// non-success status code.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetching %s: unexpected status code %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports that a source's structure no longer matches
// expectations. It signals upstream schema drift and is surfaced per
// source rather than swallowed.
type ParseError struct {
	Source string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("parsing %s: %s", e.Source, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }
