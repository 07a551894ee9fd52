package intent

import (
	"regexp"
	"strings"
)

var (
	fileRefRe  = regexp.MustCompile(`@(\w+\.\w+)`)
	filenameRe = regexp.MustCompile(`\b(\w+\.\w+)\b`)
	quotedRe   = regexp.MustCompile(`["']([^"']+)["']`)
	wordRe     = regexp.MustCompile(`^\w+`)
	binaryRe   = regexp.MustCompile(`\b(npm|pip|python3?|node|cargo|go)\b(?:\s+[\w.\-]+)*`)
)

// searchFillers are skipped when picking the search term out of the text
// following a matched search phrase ("find all TODO comments" -> "TODO").
var searchFillers = map[string]bool{
	"a": true, "all": true, "an": true, "for": true, "in": true,
	"instances": true, "me": true, "my": true, "occurrences": true,
	"of": true, "the": true,
}

// extractFilename pulls a target filename out of the raw text. An explicit
// @name.ext reference wins over the first bare name.ext token.
func extractFilename(text string) string {
	if m := fileRefRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := filenameRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// extractSearchTerm returns the search target from the text following the
// matched phrase: a quoted substring if present, otherwise the first
// non-filler word.
func extractSearchTerm(text string, matchEnd int) string {
	if matchEnd >= len(text) {
		return ""
	}
	after := strings.TrimSpace(text[matchEnd:])

	if m := quotedRe.FindStringSubmatch(after); m != nil {
		return m[1]
	}

	for _, word := range strings.Fields(after) {
		token := wordRe.FindString(word)
		if token == "" {
			continue
		}
		if searchFillers[strings.ToLower(token)] {
			continue
		}
		return token
	}
	return ""
}

// extractCommand returns the shell command target for a bash intent.
// Resolution order: a quoted string after the match, a known binary with
// its trailing arguments, then the literal "pwd" for directory questions.
func extractCommand(text, matchedPhrase string, matchEnd int) string {
	if matchEnd < len(text) {
		after := strings.TrimSpace(text[matchEnd:])
		if m := quotedRe.FindStringSubmatch(after); m != nil {
			return m[1]
		}
	}

	if loc := binaryRe.FindStringIndex(strings.ToLower(text)); loc != nil {
		return strings.TrimSpace(text[loc[0]:loc[1]])
	}

	if strings.Contains(matchedPhrase, "pwd") || strings.Contains(matchedPhrase, "directory") {
		return "pwd"
	}
	return ""
}
