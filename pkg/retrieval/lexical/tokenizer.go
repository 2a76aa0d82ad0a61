package lexical

import (
	"regexp"
	"strings"
)

// Tyre sizes like "205/55 R16" or "205/55R16" must survive tokenization as a
// single canonical token, otherwise the most precise queries score worst.
var sizePattern = regexp.MustCompile(`(?i)\b(\d{3})\s*/\s*(\d{2})\s*-?\s*(?:r|zr)\s*-?\s*(\d{2})\b`)

var nonToken = regexp.MustCompile(`[^a-z0-9/]+`)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "have": {}, "i": {}, "in": {},
	"is": {}, "it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {},
	"the": {}, "to": {}, "was": {}, "were": {}, "what": {}, "which": {},
	"will": {}, "with": {}, "you": {}, "your": {}, "me": {}, "my": {},
	"do": {}, "does": {}, "can": {}, "how": {}, "about": {}, "tell": {},
}

// Tokenize lowercases, canonicalizes tyre sizes, strips punctuation and
// drops stopwords. Domain tokens (sizes, model names, "mrp") pass through.
func Tokenize(text string) []string {
	text = strings.ToLower(text)
	text = sizePattern.ReplaceAllString(text, "${1}/${2}r${3}")
	text = nonToken.ReplaceAllString(text, " ")

	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, skip := stopwords[f]; skip {
			continue
		}
		if len(f) < 2 && !strings.ContainsAny(f, "0123456789") {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
