package enrich

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"deckgen/internal/domain"
)

// stopwords excluded when deriving a search query from slide text.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "that": {},
	"this": {}, "are": {}, "was": {}, "were": {}, "into": {}, "your": {},
	"their": {}, "about": {}, "over": {}, "under": {}, "between": {},
}

// Queries returns the image searches to attempt for a slide, most specific
// first: the planner's own query, then terms derived from the slide text.
// Search falls through to the next query when one finds nothing acceptable.
func Queries(slide *domain.SlideSpec) []string {
	var queries []string
	if q := strings.TrimSpace(slide.ImageQuery); q != "" {
		queries = append(queries, q)
	}
	if d := DeriveQuery(slide); d != "" && (len(queries) == 0 || d != queries[0]) {
		queries = append(queries, d)
	}
	return queries
}

// DeriveQuery builds search terms from the slide's title and first bullet.
// When no content words survive the stopword filter, the title itself is
// title-cased and used whole.
func DeriveQuery(slide *domain.SlideSpec) string {
	terms := keyTerms(slide.Title, 4)
	if len(slide.Bullets) > 0 {
		terms = append(terms, keyTerms(slide.Bullets[0], 2)...)
	}
	if len(terms) == 0 {
		titler := cases.Title(language.Und)
		return titler.String(strings.TrimSpace(slide.Title))
	}
	return strings.Join(terms, " ")
}

// keyTerms extracts up to n content words, lowercased, in original order.
func keyTerms(text string, n int) []string {
	var terms []string
	for _, word := range strings.Fields(text) {
		word = strings.ToLower(strings.Trim(word, ".,!?:;()\"'"))
		if len(word) < 3 {
			continue
		}
		if _, skip := stopwords[word]; skip {
			continue
		}
		terms = append(terms, word)
		if len(terms) == n {
			break
		}
	}
	return terms
}
