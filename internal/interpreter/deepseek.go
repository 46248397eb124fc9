package interpreter

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/sling"
)

const promptTemplate = `Extract all schedule entries from this HTML table and return a JSON array.
Each object should have these exact fields:
- activity: string (remove text after * including the *)
- start_time: string in HH:MM format (24-hour)
- end_time: string in HH:MM format (24-hour)
- period_start_date: string in YYYY-MM-DD format
- period_end_date: string in YYYY-MM-DD format
- day_of_week: number (1=Monday, 2=Tuesday, ..., 7=Sunday)

Rules:
- Use %d for missing years
- Use null for unclear values
- Convert day names to numbers (Monday=1, Sunday=7)
- Return only valid JSON array, no explanations
- Only use ASCII characters

HTML table: %s`

// DeepSeekClient is a TextInterpreter backed by the DeepSeek chat
// completions API (OpenAI-compatible).
type DeepSeekClient struct {
	sling *sling.Sling
	model string
}

// NewDeepSeekClient creates a client for the given API key and base URL.
// Model defaults to "deepseek-chat" when empty.
func NewDeepSeekClient(apiKey, baseURL, model string, timeout time.Duration) (*DeepSeekClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if baseURL == "" {
		baseURL = "https://api.deepseek.com"
	}
	if model == "" {
		model = "deepseek-chat"
	}

	base := sling.New().
		Client(&http.Client{Timeout: timeout}).
		Base(strings.TrimSuffix(baseURL, "/") + "/").
		Set("Authorization", "Bearer "+apiKey)

	return &DeepSeekClient{sling: base, model: model}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ExtractSchedules asks the model to convert one HTML table into schedule
// entries. The table is cleaned and truncated before prompting.
func (c *DeepSeekClient) ExtractSchedules(tableHTML string) ([]RawSchedule, error) {
	prompt := fmt.Sprintf(promptTemplate, time.Now().Year(), CleanHTML(tableHTML))

	body := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}

	var success chatResponse
	var failure chatError
	resp, err := c.sling.New().Post("chat/completions").BodyJSON(body).Receive(&success, &failure)
	if err != nil {
		return nil, fmt.Errorf("requesting completion: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if failure.Error.Message != "" {
			return nil, fmt.Errorf("completion API error (status %d): %s", resp.StatusCode, failure.Error.Message)
		}
		return nil, fmt.Errorf("completion API error (status %d)", resp.StatusCode)
	}
	if len(success.Choices) == 0 {
		return nil, fmt.Errorf("completion reply has no choices")
	}

	schedules, err := ExtractJSONArray(success.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("parsing completion reply: %w", err)
	}
	return schedules, nil
}
