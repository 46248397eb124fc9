package interpreter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// MaxTableLength caps how much cleaned table HTML is sent per request.
const MaxTableLength = 10000

var (
	attrPattern       = regexp.MustCompile(`(class|id|style)="[^"]*"`)
	wsPattern         = regexp.MustCompile(`\s+`)
	tagGapPattern     = regexp.MustCompile(`>\s+<`)
	fencePattern      = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	arrayPattern      = regexp.MustCompile(`(?s)\[\s*\{.*\}\s*\]`)
	objectListPattern = regexp.MustCompile(`(?s)\{.*?\}(?:\s*,\s*\{.*?\})*`)
)

// CleanHTML strips presentation attributes and collapses whitespace so the
// table fits in a prompt, truncating at MaxTableLength.
func CleanHTML(html string) string {
	cleaned := wsPattern.ReplaceAllString(html, " ")
	cleaned = attrPattern.ReplaceAllString(cleaned, "")
	cleaned = tagGapPattern.ReplaceAllString(cleaned, "><")
	if len(cleaned) > MaxTableLength {
		cleaned = cleaned[:MaxTableLength] + "..."
	}
	return cleaned
}

// ExtractJSONArray pulls a JSON array of schedule entries out of a model
// reply, tolerating markdown fences and surrounding prose.
func ExtractJSONArray(text string) ([]RawSchedule, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty reply")
	}

	cleaned := text
	if m := fencePattern.FindStringSubmatch(cleaned); m != nil {
		cleaned = m[1]
	}
	cleaned = strings.TrimSpace(cleaned)

	var schedules []RawSchedule
	if err := json.Unmarshal([]byte(cleaned), &schedules); err == nil {
		return schedules, nil
	}

	// The model sometimes wraps the array in prose or drops the brackets.
	if m := arrayPattern.FindString(cleaned); m != "" {
		if err := json.Unmarshal([]byte(m), &schedules); err == nil {
			return schedules, nil
		}
	}
	if m := objectListPattern.FindString(cleaned); m != "" {
		wrapped := m
		if !strings.HasPrefix(strings.TrimSpace(wrapped), "[") {
			wrapped = "[" + wrapped + "]"
		}
		if err := json.Unmarshal([]byte(wrapped), &schedules); err == nil {
			return schedules, nil
		}
	}

	return nil, fmt.Errorf("no JSON array found in reply")
}
