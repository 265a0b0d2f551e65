// Package enrich asks a language model for a structured product profile
// and renders profiles (or bare page fields) into copywriter reports.
package enrich

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Profile is the structured product description returned by the model.
type Profile struct {
	FullName       string         `json:"full_name,omitempty"`
	Description    string         `json:"description,omitempty"`
	KeyFeatures    []string       `json:"key_features,omitempty"`
	Advantages     []string       `json:"advantages,omitempty"`
	Specifications Specifications `json:"specifications,omitempty"`
	VisualDetails  *VisualDetails `json:"visual_details,omitempty"`
	TargetAudience string         `json:"target_audience,omitempty"`
	UseCases       []string       `json:"use_cases,omitempty"`
	SEOMeta        *SEOMeta       `json:"seo_meta,omitempty"`
	LSIPhrases     []string       `json:"lsi_phrases,omitempty"`
	SellingPoints  []string       `json:"selling_points,omitempty"`
}

// VisualDetails describes how the product looks.
type VisualDetails struct {
	Color      string `json:"color,omitempty"`
	Material   string `json:"material,omitempty"`
	FormFactor string `json:"form_factor,omitempty"`
}

// SEOMeta holds suggested page metadata.
type SEOMeta struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	H1          string   `json:"h1,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Param is one specification entry.
type Param struct {
	Key   string
	Value string
}

// SpecGroup is a named group of specification entries.
type SpecGroup struct {
	Name   string
	Params []Param
}

// Specifications keeps groups and their entries in the order the model
// wrote them, which a Go map would lose.
type Specifications []SpecGroup

// UnmarshalJSON decodes {"group": {"key": value}} preserving key order.
// Non-string values keep their JSON text.
func (s *Specifications) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	var groups Specifications
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return err
		}
		if err := expectDelim(dec, '{'); err != nil {
			return fmt.Errorf("specifications %q: %w", name, err)
		}
		group := SpecGroup{Name: name}
		for dec.More() {
			key, err := readKey(dec)
			if err != nil {
				return err
			}
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return err
			}
			group.Params = append(group.Params, Param{Key: key, Value: rawText(raw)})
		}
		if err := expectDelim(dec, '}'); err != nil {
			return err
		}
		groups = append(groups, group)
	}
	*s = groups
	return expectDelim(dec, '}')
}

// MarshalJSON writes groups back as nested objects in order.
func (s Specifications) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(&buf, g.Name)
		buf.WriteString(":{")
		for j, p := range g.Params {
			if j > 0 {
				buf.WriteByte(',')
			}
			writeString(&buf, p.Key)
			buf.WriteByte(':')
			writeString(&buf, p.Value)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
}
