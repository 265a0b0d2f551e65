package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// PrintJSON writes v as indented JSON. Cyrillic and HTML characters are
// written as-is.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// PrintText writes s followed by a newline unless it already ends in one.
func PrintText(w io.Writer, s string) error {
	if len(s) > 0 && s[len(s)-1] == '\n' {
		_, err := io.WriteString(w, s)
		return err
	}
	_, err := fmt.Fprintln(w, s)
	return err
}
