package generation

import (
	"encoding/json"
	"errors"
	"strings"
)

// Sentinel is the fixed message the backend returns when it judges the
// submitted preferences unrelated to cars.
const Sentinel = "The provided information is unrelated to automobiles or vehicles. Please provide relevant car-related details."

// Errors surfaced by the submit/decode path.
var (
	// ErrNoData means the response body could not be decoded at either
	// stage. The display layer renders its terminal "No data available"
	// state for it.
	ErrNoData = errors.New("no recommendation data in response")

	// ErrUnrelated means the backend returned the Sentinel rejection.
	ErrUnrelated = errors.New("selection unrelated to automobiles")
)

// envelope is the optional outer wrapper the backend sometimes emits, with
// the real payload double-encoded as a JSON string under "response".
type envelope struct {
	Response string `json:"response"`
}

// Decode converts a raw response body into a Response. The backend is
// observed to answer in two shapes: the payload object directly, or an
// envelope whose "response" field holds the payload as a JSON string, either
// of which may be wrapped in Markdown code fences. Both unwrap stages must
// stay: dropping either silently breaks one of the observed shapes.
func Decode(raw string) (*Response, error) {
	text := stripCodeFences(raw)

	var outer envelope
	if err := json.Unmarshal([]byte(text), &outer); err != nil {
		return nil, ErrNoData
	}
	if outer.Response != "" {
		text = stripCodeFences(outer.Response)
	}

	var resp Response
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, ErrNoData
	}
	return &resp, nil
}

// Unrelated reports whether the raw body carries the Sentinel rejection,
// either enveloped or as the bare message. Checked before navigating to the
// display screen.
func Unrelated(raw string) bool {
	text := stripCodeFences(raw)
	if text == Sentinel {
		return true
	}
	var outer envelope
	if err := json.Unmarshal([]byte(text), &outer); err != nil {
		return false
	}
	return outer.Response == Sentinel
}

// stripCodeFences removes Markdown code fence wrapping, handling ```json and
// bare ``` openers. Text without fences passes through unchanged.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	firstNewline := strings.Index(trimmed, "\n")
	if firstNewline == -1 {
		return trimmed
	}
	lastFence := strings.LastIndex(trimmed, "```")
	if lastFence <= firstNewline {
		return strings.TrimSpace(trimmed[firstNewline+1:])
	}
	return strings.TrimSpace(trimmed[firstNewline+1 : lastFence])
}
