package catalog

import (
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Filter returns the names that fuzzy-match query, best match first.
// Matching ignores case and diacritics. An empty query returns names as is.
func Filter(names []string, query string) []string {
	query = normalize(strings.TrimSpace(query))
	if query == "" {
		return names
	}

	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = normalize(n)
	}

	matches := fuzzy.Find(query, keys)

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, names[m.Index])
	}

	return out
}

func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}

	return strings.ToLower(out)
}
