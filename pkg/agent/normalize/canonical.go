package normalize

import (
	"regexp"
	"strings"
)

// Deterministic pre-pass run before the LLM sees the text. Keeping this in
// Go means the highest-volume rewrites work even when the model misbehaves,
// and they are testable offline.

var (
	tyreWord    = regexp.MustCompile(`(?i)\btire(s)?\b`)
	sizeLoose   = regexp.MustCompile(`(?i)\b(\d{3})\s*/\s*(\d{2})\s*-?\s*(?:r|zr)\s*-?\s*(\d{2})\b`)
	mrpWord     = regexp.MustCompile(`(?i)\bmrp\b`)
	spaceRuns   = regexp.MustCompile(`\s+`)
	pincodeWord = regexp.MustCompile(`\b(\d{6})\b`)
)

// Canonicalize applies domain spelling and format fixes: "tire"→"tyre",
// loose size notations → "205/55 R16", "mrp"→"MRP", collapsed whitespace.
func Canonicalize(text string) string {
	text = strings.TrimSpace(text)
	text = tyreWord.ReplaceAllStringFunc(text, func(m string) string {
		if strings.HasSuffix(strings.ToLower(m), "s") {
			return "tyres"
		}
		return "tyre"
	})
	text = sizeLoose.ReplaceAllString(text, "${1}/${2} R${3}")
	text = mrpWord.ReplaceAllString(text, "MRP")
	text = spaceRuns.ReplaceAllString(text, " ")
	return text
}

// ExtractPincode returns the first 6-digit group in the text, if any. Used
// as the explicit-location fast path for dealer lookups.
func ExtractPincode(text string) string {
	if m := pincodeWord.FindString(text); m != "" {
		return m
	}
	return ""
}
