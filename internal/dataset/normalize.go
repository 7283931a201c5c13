package dataset

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalises header and cell text for comparison: lower-case,
// accents stripped, runs of whitespace collapsed to a single space.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))

	// NFKD decomposition followed by dropping combining marks removes
	// accents ("Pérdida" -> "perdida") without touching ASCII.
	decomposed := norm.NFKD.String(text)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
