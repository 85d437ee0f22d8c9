// Package sanitize cleans raw provider text into literal diagram source.
//
// Providers often wrap code in Markdown fences or quotes even when asked not
// to. The cleanup here is a heuristic over free-form text, not a Markdown
// parser: only fences at the very start and end are removed.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// ```lang followed by a newline, at the start of the text.
	leadingFence = regexp.MustCompile("^```[^\\n]*\\n")
	// ``` alone on the last line.
	trailingFence = regexp.MustCompile("(?:^|\\n)[ \\t]*```$")
)

const (
	// quotes and whitespace are trimmed before fence removal so a quoted
	// fence is still recognised.
	quoteCutset = "\"' \t\r\n"
	// cutset is trimmed from both ends after fences are removed.
	cutset = "`" + quoteCutset
)

// Code strips surrounding fences, quotes and whitespace from raw.
// It is idempotent: Code(Code(s)) == Code(s).
func Code(raw string) string {
	code := raw
	for {
		next := strip(code)
		if next == code {
			return code
		}
		code = next
	}
}

func strip(s string) string {
	s = strings.Trim(s, quoteCutset)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.Trim(s, cutset)
}
