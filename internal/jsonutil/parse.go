// Package jsonutil pulls JSON documents out of model responses, which may
// arrive fenced in markdown or wrapped in prose, and checks them against a
// JSON schema before they are decoded.
package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrNoJSON is returned when a response carries no JSON object or array.
var ErrNoJSON = errors.New("no JSON content found")

// StripFences removes a leading ```json (or bare ```) fence and its closing
// fence. Text without an opening fence is returned trimmed.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return text
	}
	end := len(lines)
	for i := len(lines) - 1; i > 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			end = i
			break
		}
	}
	return strings.Join(lines[1:end], "\n")
}

// Extract returns the span from the first { or [ to the last matching
// closer. Nesting is not balanced; prose after the document is dropped.
func Extract(text string) (string, error) {
	text = StripFences(text)
	obj := strings.IndexByte(text, '{')
	arr := strings.IndexByte(text, '[')
	if obj < 0 && arr < 0 {
		return "", ErrNoJSON
	}

	start, closer := obj, byte('}')
	if obj < 0 || (arr >= 0 && arr < obj) {
		start, closer = arr, ']'
	}
	text = text[start:]
	end := strings.LastIndexByte(text, closer)
	if end < 0 {
		return "", fmt.Errorf("no closing %c found", closer)
	}
	return text[:end+1], nil
}

// Validate checks doc against schema. All violations are joined into the
// returned error.
func Validate(schema, doc string) error {
	res, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("document does not match schema: %s", strings.Join(msgs, "; "))
}

// Decode extracts the JSON document from raw, validates it against schema
// when schema is non-empty, and unmarshals it into T.
func Decode[T any](raw, schema string) (T, error) {
	var out T
	doc, err := Extract(raw)
	if err != nil {
		return out, fmt.Errorf("%w (raw length: %d)", err, len(raw))
	}
	if schema != "" {
		if err := Validate(schema, doc); err != nil {
			return out, err
		}
	}
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return out, fmt.Errorf("invalid JSON: %w (text: %s)", err, preview(doc))
	}
	return out, nil
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= 200 {
		return s
	}
	return string(r[:200]) + "..."
}
