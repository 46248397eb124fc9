package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ekinay/dropin-schedules/internal/schedule"
	"github.com/ekinay/dropin-schedules/internal/scraper"
)

// WriteError reports a filesystem failure while persisting a document.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// WriteDocument serializes the document to canonical indented JSON and
// atomically replaces any previous document at path.
func WriteDocument(path string, doc *schedule.Document) error {
	doc.Sort()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return writeAtomic(path, append(data, '\n'))
}

// LoadDocument reads a previously written document.
func LoadDocument(path string) (*schedule.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	var doc schedule.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &doc, nil
}

// WriteInvalidRecords persists entries that failed validation so they can
// be diagnosed. Nothing is written when the list is empty.
func WriteInvalidRecords(path string, invalid []scraper.InvalidRecord) error {
	if len(invalid) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(invalid, "", "  ")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return writeAtomic(path, append(data, '\n'))
}

// writeAtomic writes to a temporary file in the destination directory and
// renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
