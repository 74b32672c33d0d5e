package llm

import (
	"encoding/json"
	"sort"
	"strings"
)

// Analysis is the structured analysis produced by the language-model
// backend. RawResponse is always preserved, even when no structured
// payload could be recovered.
type Analysis struct {
	Summary        string         `json:"summary,omitempty"`
	KeyPoints      []string       `json:"key_points,omitempty"`
	StructuredData map[string]any `json:"structured_data,omitempty"`
	Translation    string         `json:"translation,omitempty"`
	RawResponse    string         `json:"raw_response"`
}

// Hints are document metadata fields the model reported.
type Hints struct {
	Title        string
	Language     string
	DocumentType string
}

// ModelOutput is the parsed form of one model response.
type ModelOutput struct {
	Analysis *Analysis
	Hints    Hints
	Tables   []any
}

// ParsePayload locates the first '{' and the last '}' in a free-form
// response and parses the substring between them. A missing or
// malformed payload yields nil; it is never an error.
func ParsePayload(raw string) map[string]any {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < 0 || start >= end {
		return nil
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return nil
	}
	if err := validatePayload(payload); err != nil {
		return nil
	}
	return payload
}

// ParseModelOutput parses an analysis response into its structured
// parts. The raw response text survives regardless of parse outcome.
func ParseModelOutput(raw string) ModelOutput {
	out := ModelOutput{Analysis: &Analysis{RawResponse: raw}}
	payload := ParsePayload(raw)
	if payload == nil {
		return out
	}

	out.Analysis.Summary = stringField(payload, "summary")
	out.Analysis.KeyPoints = stringList(payload["key_points"])
	if sd, ok := payload["structured_data"].(map[string]any); ok {
		out.Analysis.StructuredData = sd
	}
	out.Analysis.Translation = translationField(payload["translation"])

	out.Hints = Hints{
		Title:        stringField(payload, "title"),
		Language:     stringField(payload, "language"),
		DocumentType: stringField(payload, "document_type"),
	}
	if ts, ok := payload["tables"].([]any); ok {
		out.Tables = ts
	}
	return out
}

func stringField(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return strings.TrimSpace(s)
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, sok := it.(string); sok {
			out = append(out, s)
		}
	}
	return out
}

// translationField accepts either a plain string or a per-section
// dictionary, which is flattened in key order.
func translationField(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if s, ok := t[k].(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, " | ")
	}
	return ""
}
