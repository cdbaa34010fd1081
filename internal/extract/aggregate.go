package extract

import (
	"cmp"
	"slices"
)

type group struct {
	topic Topic
	sum   float64
	count int
}

// Aggregate merges per-chunk topic lists by TopicKey. Importance becomes the
// unweighted mean over every contributing candidate, Details the first
// non-empty value, and Name the first spelling seen. The result is sorted by
// importance descending, ties kept in first-seen order, and cut to n entries.
func Aggregate(perChunk [][]Topic, n int) []Topic {
	if n <= 0 {
		return []Topic{}
	}

	index := make(map[string]int)
	var groups []*group
	for _, candidates := range perChunk {
		for _, c := range candidates {
			key := TopicKey(c.Name)
			if key == "" {
				continue
			}
			i, ok := index[key]
			if !ok {
				i = len(groups)
				index[key] = i
				groups = append(groups, &group{topic: Topic{Name: c.Name}})
			}
			g := groups[i]
			g.sum += c.Importance
			g.count++
			if g.topic.Details == "" {
				g.topic.Details = c.Details
			}
		}
	}

	out := make([]Topic, 0, len(groups))
	for _, g := range groups {
		t := g.topic
		t.Importance = g.sum / float64(g.count)
		t.Occurrences = g.count
		out = append(out, t)
	}
	slices.SortStableFunc(out, func(a, b Topic) int {
		return cmp.Compare(b.Importance, a.Importance)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
