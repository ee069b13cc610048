package tts

import (
	"regexp"
	"strings"
	"unicode"
)

// Regex patterns for narration text cleanup.
const whitespaceRegexPattern = `\s+`

// Punctuation and formatting constants.
const (
	emDash       = "—"
	enDash       = "–"
	figureDash   = "‒"
	ellipsis     = "..."
	ellipsisChar = "…"
)

var whitespacePattern = regexp.MustCompile(whitespaceRegexPattern)

// Typographic characters that trip up synthesis are mapped to their
// plain-text equivalents.
var typographyReplacer = strings.NewReplacer(
	emDash, ", ",
	enDash, "-",
	figureDash, "-",
	ellipsisChar, ellipsis,
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	" ", " ",
)

// prepareText normalizes section text before it is sent to the vendor:
// typographic punctuation becomes plain text, control characters are
// dropped, and whitespace is collapsed. The cleanup is deterministic so
// repeated synthesis of the same section stays cache-compatible.
func prepareText(text string) string {
	if text == "" {
		return text
	}

	cleaned := typographyReplacer.Replace(text)

	cleaned = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}

		return r
	}, cleaned)

	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")

	return strings.TrimSpace(cleaned)
}
