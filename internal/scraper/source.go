package scraper

import (
	"fmt"
	"regexp"
	"strings"
)

// Format selects the adapter used to extract records from a source.
type Format string

const (
	// FormatFacilityList is a paginated listing of facility pages, each of
	// which carries its own schedule tables (ottawa.ca place listing).
	FormatFacilityList Format = "facility-list"
	// FormatHTML is a single HTML page of activity blocks and tables.
	FormatHTML Format = "html"
	// FormatJSON is a JSON feed with known schedule keys.
	FormatJSON Format = "json"
)

// ParseFormat maps a format name from configuration to a Format.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatFacilityList:
		return FormatFacilityList, nil
	case FormatHTML, "":
		return FormatHTML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown source format %q", name)
	}
}

// Source describes one endpoint schedules are scraped from.
type Source struct {
	Name   string
	URL    string
	Format Format
}

var spacePattern = regexp.MustCompile(`[\s\x{00a0}]+`)

// cleanText collapses whitespace and non-breaking spaces.
func cleanText(text string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}
