package domain

import (
	"encoding/json"
	"strings"
)

// ParseKeywords decodes a stored keyword payload into an ordered keyword list.
// Historical writers of this column used several encodings; this is the single
// read-side recovery point for all of them. New writes use EncodeKeywords
// exclusively.
//
// Resolution order:
//  1. canonical JSON array of strings
//  2. bracketed pseudo-array text: [a, "b"]
//  3. comma-separated text
//  4. single bare value
//  5. empty
//
// ParseKeywords never fails; it always returns a (possibly empty) slice.
func ParseKeywords(raw string) []string {
	var decoded []string
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil && decoded != nil {
		return decoded
	}

	text := strings.TrimSpace(raw)
	if text == "null" {
		return []string{}
	}

	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		inner := strings.TrimSuffix(strings.TrimPrefix(text, "["), "]")

		return splitTrimmed(inner, trimQuotes)
	}

	if strings.Contains(text, ",") {
		return splitTrimmed(text, nil)
	}

	if text != "" {
		return []string{text}
	}

	return []string{}
}

// EncodeKeywords serializes keywords in the canonical storage encoding.
func EncodeKeywords(keywords []string) string {
	if keywords == nil {
		keywords = []string{}
	}

	b, err := json.Marshal(keywords)
	if err != nil {
		return "[]"
	}

	return string(b)
}

func splitTrimmed(s string, transform func(string) string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if transform != nil {
			p = transform(p)
		}

		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func trimQuotes(s string) string {
	return strings.Trim(s, `"'`)
}
