package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// PromptFor asks for a value on w and reads one line from r. An empty
// answer, or a read failure, returns def.
func PromptFor(r io.Reader, w io.Writer, label, def string) string {
	if def != "" {
		fmt.Fprintf(w, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(w, "%s: ", label)
	}

	input, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && input == "" {
		if err != io.EOF {
			log.Warn().Err(err).Str("label", label).Msg("Failed to read input, using default")
		}
		return def
	}

	if input = strings.TrimSpace(input); input == "" {
		return def
	}
	return input
}
