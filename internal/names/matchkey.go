package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MatchKey canonicalizes a normalized name into the join key used for
// deduplication:
//  1. Folding accented letters to their base form
//  2. Converting to lowercase
//  3. Dropping punctuation (hyphens and slashes separate words)
//  4. Joining the remaining words with underscores
func MatchKey(normalized string) string {
	s := strings.TrimSpace(normalized)
	if s == "" {
		return ""
	}

	// Transformers carry state, so build one per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '/', r == '_':
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), "_")
}
