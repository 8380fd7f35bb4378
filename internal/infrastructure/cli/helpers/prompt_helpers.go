package helpers

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm asks question on out and reads the answer from in. Destructive
// commands default to no; assumeYes (--yes) skips the prompt entirely.
func Confirm(in io.Reader, out io.Writer, question string, assumeYes bool) bool {
	if assumeYes {
		return true
	}
	return AskYesNo(in, out, question, false)
}

// AskYesNo prompts once. An empty answer, or no input at all, selects def.
func AskYesNo(in io.Reader, out io.Writer, question string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(out, "%s [%s]: ", question, hint)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "":
		return def
	case "y", "yes":
		return true
	default:
		return false
	}
}
