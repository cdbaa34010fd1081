package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Topic is one exam topic. As a parser result it is a single chunk's
// candidate; after Aggregate, Importance is the mean across chunks.
type Topic struct {
	Name        string  `json:"topic"`
	Importance  float64 `json:"importance"`
	Details     string  `json:"details"`
	Occurrences int     `json:"occurrences,omitempty"`
}

// ParseError reports model output that could not be decoded as a topic array.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse topics json: %v (raw: %s)", e.Err, truncate(e.Raw, 200))
}

func (e *ParseError) Unwrap() error { return e.Err }

var errNotArray = errors.New("response is not a JSON array")

// The body is greedy up to the last closing fence so backticks quoted inside
// a details string do not end the block early.
var fencedJSONRe = regexp.MustCompile("(?s)```(?i:json)\\s*(\\[.*\\])\\s*```")

// ParseTopics extracts topics from a raw model response. A fenced json block
// anywhere in the response wins; otherwise the whole trimmed response must be
// a JSON array. Objects with missing or mistyped fields are dropped, so a
// valid array can yield an empty, non-nil slice.
func ParseTopics(raw string) ([]Topic, error) {
	body := strings.TrimSpace(raw)
	if m := fencedJSONRe.FindStringSubmatch(raw); len(m) > 1 {
		body = strings.TrimSpace(m[1])
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil, &ParseError{Raw: body, Err: err}
	}
	if items == nil {
		return nil, &ParseError{Raw: body, Err: errNotArray}
	}

	topics := make([]Topic, 0, len(items))
	for _, item := range items {
		t, ok := decodeTopic(item)
		if !ok || !ValidateTopic(&t) {
			continue
		}
		topics = append(topics, t)
	}
	return topics, nil
}

func decodeTopic(item json.RawMessage) (Topic, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return Topic{}, false
	}

	name, ok := jsonString(fields["topic"])
	if !ok {
		return Topic{}, false
	}
	importance, ok := jsonNumber(fields["importance"])
	if !ok {
		return Topic{}, false
	}
	details, ok := jsonString(fields["details"])
	if !ok {
		return Topic{}, false
	}
	return Topic{Name: name, Importance: importance, Details: details}, true
}

func jsonString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func jsonNumber(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
