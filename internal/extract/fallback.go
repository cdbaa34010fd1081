package extract

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// FallbackImportance is the placeholder score for locally derived topics.
	FallbackImportance = 50
	// FallbackDetails marks a topic as produced without the completion service.
	FallbackDetails = "Derived locally from keyword frequency; AI analysis was unavailable."
)

var stopwords = func() map[string]struct{} {
	words := strings.Fields(`
		a about above after again against all also am an and any are as at
		be because been before being below between both but by can cannot could
		did do does doing down during each either few for from further had has
		have having he her here hers herself him himself his how however if in
		into is it its itself just least less let like may me might more
		most must my myself neither no nor not now of off on once only or other
		ought our ours ourselves out over own same shall she should since so some
		such than that the their theirs them themselves then there these they
		this those through thus to too under until up upon very was we were what
		when where which while who whom whose why will with within without would
		yes yet you your yours yourself yourselves
		answer answers marks mark question questions page pages part section
		following given write explain describe define discuss briefly short
		long note notes total time hours attempt any compulsory
	`)
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// IsFallback reports whether a topic came from the local analyzer.
func IsFallback(t Topic) bool {
	return t.Details == FallbackDetails
}

// Fallback derives up to n pseudo-topics from word frequency. It makes no
// external calls and never fails; fewer than n topics come back only when the
// text has fewer qualifying distinct words.
func Fallback(text string, n int) []Topic {
	if n <= 0 {
		return []Topic{}
	}

	counts := make(map[string]int)
	var order []string
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	// order is first-occurrence order, so a stable sort keeps that as the tie break.
	slices.SortStableFunc(order, func(a, b string) int {
		return counts[b] - counts[a]
	})
	if len(order) > n {
		order = order[:n]
	}

	topics := make([]Topic, 0, len(order))
	for _, w := range order {
		topics = append(topics, Topic{
			Name:        w,
			Importance:  FallbackImportance,
			Details:     FallbackDetails,
			Occurrences: counts[w],
		})
	}
	return topics
}
