// Package textnorm turns backend text that may still carry JSON-string escapes
// into human-readable text for display and export.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	// entityEscapes are the HTML-safe unicode escapes Go's encoding/json (and
	// most backends) emit for <, > and &.
	entityEscapes = strings.NewReplacer(
		"\\u003c", "<",
		"\\u003e", ">",
		"\\u0026", "&",
	)

	strayEscape = regexp.MustCompile(`(?s)\\(.)`)
	blankRunRe  = regexp.MustCompile(`\n{3,}`)
	fenceInfoRe = regexp.MustCompile(`(?i)^(markdown|md)\s*\n`)
	codeCleaner = strings.NewReplacer(`\n`, "\n", `\"`, `"`)
)

// Normalize applies the escape clean-up rules in order:
//
//  1. literal \n becomes a newline
//  2. literal \t becomes four spaces
//  3. \" becomes "
//  4. the unicode escapes u003c, u003e and u0026 become <, > and &
//  5. a wrapping pair of quote characters is removed, ignoring surrounding whitespace
//  6. any other backslash-escaped character collapses to the bare character
//  7. runs of three or more newlines collapse to two
//  8. leading and trailing whitespace is trimmed
//
// Text without any of these patterns is returned trimmed but otherwise unchanged.
func Normalize(raw string) string {
	s := strings.ReplaceAll(raw, `\n`, "\n")
	s = strings.ReplaceAll(s, `\t`, "    ")
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = entityEscapes.Replace(s)
	s = stripWrappingQuotes(strings.TrimSpace(s))
	s = strayEscape.ReplaceAllString(s, "$1")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// stripWrappingQuotes removes one leading and one trailing quote when the text
// is wrapped in them, which is what a JSON string body looks like once the
// inner escapes are gone. A quote on only one side is legitimate content.
func stripWrappingQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// StripFence returns the content inside a triple-backtick fence when the whole
// text is fenced. A leading "markdown" or "md" info string is dropped too.
func StripFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 6 || !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") {
		return trimmed
	}
	inner := trimmed[3 : len(trimmed)-3]
	inner = fenceInfoRe.ReplaceAllString(inner, "")
	return strings.TrimSpace(inner)
}

// Feedback prepares resume review feedback for rendering: escapes are
// normalized and a surrounding code fence is removed.
func Feedback(raw string) string {
	return StripFence(Normalize(raw))
}

// CleanCode is the lighter clean-up applied to generated source artifacts:
// only literal \n and \" are unescaped so that backslashes inside code
// (regexes, string literals) survive.
func CleanCode(code string) string {
	if code == "" {
		return ""
	}
	return codeCleaner.Replace(code)
}
