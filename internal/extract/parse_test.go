package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestParseTopics_FencedBlock(t *testing.T) {
	raw := "Here are the topics:\n```json\n[{\"topic\":\"Paging\",\"importance\":85,\"details\":\"Page tables.\"}]\n```\nGood luck!"
	topics, err := ParseTopics(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(topics) != 1 {
		t.Fatalf("expected 1 topic, got %d", len(topics))
	}
	if topics[0].Name != "Paging" || topics[0].Importance != 85 || topics[0].Details != "Page tables." {
		t.Errorf("unexpected topic %+v", topics[0])
	}
}

func TestParseTopics_FencedBlockUppercaseTag(t *testing.T) {
	raw := "```JSON\n[{\"topic\":\"Joins\",\"importance\":60,\"details\":\"\"}]\n```"
	topics, err := ParseTopics(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(topics) != 1 || topics[0].Name != "Joins" {
		t.Errorf("unexpected topics %+v", topics)
	}
}

func TestParseTopics_BackticksInsideDetails(t *testing.T) {
	tests := map[string]string{
		"inline fence": "```json\n[{\"topic\":\"Markdown Syntax\",\"importance\":50,\"details\":\"use ``` to fence code\"}]\n```",
		"prose around": "Topics below.\n```json\n[{\"topic\":\"Markdown Syntax\",\"importance\":50,\"details\":\"wrap ```go blocks```\"}]\n```\nDone.",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			topics, err := ParseTopics(raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(topics) != 1 || topics[0].Name != "Markdown Syntax" {
				t.Fatalf("unexpected topics %+v", topics)
			}
			if !strings.Contains(topics[0].Details, "```") {
				t.Errorf("expected details to keep the backticks, got %q", topics[0].Details)
			}
		})
	}
}

func TestParseTopics_BareArray(t *testing.T) {
	raw := "  [{\"topic\":\"Normalization\",\"importance\":70.5,\"details\":\"1NF to BCNF.\"},\n {\"topic\":\"Indexing\",\"importance\":40,\"details\":\"B+ trees.\"}]  "
	topics, err := ParseTopics(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(topics))
	}
	if topics[0].Importance != 70.5 {
		t.Errorf("expected importance 70.5, got %v", topics[0].Importance)
	}
}

func TestParseTopics_ProseIsParseError(t *testing.T) {
	raw := "I could not find any topics in this paper, sorry."
	topics, err := ParseTopics(raw)
	if topics != nil {
		t.Errorf("expected no topics on parse failure, got %+v", topics)
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Raw != raw {
		t.Errorf("expected raw text to be carried, got %q", perr.Raw)
	}
}

func TestParseTopics_MalformedInputs(t *testing.T) {
	inputs := map[string]string{
		"empty":             "",
		"object not array":  `{"topic":"X","importance":1,"details":""}`,
		"null":              "null",
		"truncated":         `[{"topic":"X","importance":1,"details":""`,
		"trailing garbage":  `[] and more`,
		"unterminated fence": "```json\n[{\"topic\":",
	}
	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTopics(raw)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError for %q, got %v", raw, err)
			}
		})
	}
}

func TestParseTopics_DropsInvalidObjects(t *testing.T) {
	raw := `[
		{"topic":"Kept","importance":90,"details":"ok"},
		{"topic":"No importance","details":"missing"},
		{"importance":50,"details":"missing topic"},
		{"topic":"No details","importance":50},
		{"topic":"String score","importance":"90","details":"wrong type"},
		{"topic":"Null score","importance":null,"details":"null"},
		{"topic":42,"importance":10,"details":"numeric name"},
		{"topic":"Out of range","importance":150,"details":"too high"},
		"not an object",
		{"topic":"Also kept","importance":0,"details":""}
	]`
	topics, err := ParseTopics(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("expected 2 kept topics, got %d: %+v", len(topics), topics)
	}
	if topics[0].Name != "Kept" || topics[1].Name != "Also kept" {
		t.Errorf("unexpected kept topics %+v", topics)
	}
}

func TestParseTopics_AllDroppedIsEmptyNotError(t *testing.T) {
	topics, err := ParseTopics(`[{"name":"wrong field"}]`)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if topics == nil || len(topics) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", topics)
	}
}

func TestParseTopics_EmptyArray(t *testing.T) {
	topics, err := ParseTopics("[]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(topics) != 0 {
		t.Errorf("expected 0 topics, got %d", len(topics))
	}
}

func TestParseError_TruncatesRaw(t *testing.T) {
	err := &ParseError{Raw: strings.Repeat("x", 500), Err: errNotArray}
	if len(err.Error()) > 300 {
		t.Errorf("expected truncated error message, got %d chars", len(err.Error()))
	}
	if !errors.Is(err, errNotArray) {
		t.Error("expected ParseError to unwrap to its cause")
	}
}
