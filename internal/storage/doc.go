// Package storage persists the schedule document between the scrape and
// upload invocations.
//
// Writes are atomic: the document is written to a temporary file in the
// destination directory and renamed into place, so an interrupted write
// never corrupts the previously written document.
package storage
