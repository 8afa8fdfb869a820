package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user typed "y" or "yes".
	Accepted bool
	// Cancelled is true if reading the answer failed.
	Cancelled bool
}

// ConfirmDelete asks whether to delete the review titled title. Callers must
// only prompt on an interactive terminal; use --yes to skip the prompt.
//
// The prompt defaults to "No" when the user presses Enter without input.
// "y" and "yes" in any case accept; anything else declines.
func ConfirmDelete(writer io.Writer, reader io.Reader, what, title string) PromptResult {
	if title != "" {
		fmt.Fprintf(writer, "? Delete %s %q? [y/N] ", what, title)
	} else {
		fmt.Fprintf(writer, "? Delete this %s? [y/N] ", what)
	}

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if scanner.Err() != nil {
			return PromptResult{Cancelled: true}
		}
		// EOF (Ctrl+D) declines.
		return PromptResult{}
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{}
	}
}
