package dedup

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/nonprofit-intel/internal/model"
)

// MergePeople combines two records for the same person into a new Person.
// The base record supplies name, match key and primary title:
//   - highest_quality: the higher-confidence record, ties going to a
//   - newest: same as highest_quality until records carry a timestamp
//   - manual: always a
//
// Titles, sources and flags are unioned, the longer biography wins and the
// confidence is the mean of both inputs. Neither input is modified.
func (d *Deduplicator) MergePeople(a, b model.Person) model.Person {
	base, other := a, b
	switch d.strategy {
	case StrategyManual:
	default:
		if b.ConfidenceScore > a.ConfidenceScore {
			base, other = b, a
		}
	}

	primary := base.PrimaryTitle
	if strings.TrimSpace(primary) == "" {
		primary = other.PrimaryTitle
	}

	merged := model.Person{
		Name:            base.Name,
		PrimaryTitle:    primary,
		AllTitles:       orderedUnion(base.AllTitles, []string{base.PrimaryTitle}, other.AllTitles, []string{other.PrimaryTitle}),
		Biography:       longerBiography(base.Biography, other.Biography),
		ConfidenceScore: (a.ConfidenceScore + b.ConfidenceScore) / 2,
		DataSources:     sortedUnion(a.DataSources, b.DataSources),
		QualityFlags:    sortedUnion(a.QualityFlags, b.QualityFlags),
		MatchKey:        base.MatchKey,
	}

	zap.L().Debug("dedup: merged people",
		zap.String("base", base.MatchKey),
		zap.String("other", other.MatchKey),
		zap.String("strategy", d.strategy),
		zap.Float64("confidence", merged.ConfidenceScore),
	)

	return merged
}

// MergeCluster folds the people at the given indices into one record, in
// ascending index order.
func (d *Deduplicator) MergeCluster(people []model.Person, cluster []int) model.Person {
	idx := append([]int(nil), cluster...)
	sort.Ints(idx)

	merged := people[idx[0]]
	for _, i := range idx[1:] {
		merged = d.MergePeople(merged, people[i])
	}
	return merged
}

// longerBiography returns the longer non-empty biography, preferring the
// first on equal length.
func longerBiography(a, b string) string {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if len(b) > len(a) {
		return b
	}
	return a
}

// orderedUnion concatenates lists, dropping blanks and case-insensitive
// repeats while keeping first-seen order.
func orderedUnion(lists ...[]string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, list := range lists {
		for _, s := range list {
			s = strings.TrimSpace(s)
			key := strings.ToLower(s)
			if s == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, s)
		}
	}
	return out
}

// sortedUnion returns the sorted set of non-blank values from both lists.
func sortedUnion(a, b []string) []string {
	set := make(map[string]bool, len(a)+len(b))
	for _, s := range a {
		if s = strings.TrimSpace(s); s != "" {
			set[s] = true
		}
	}
	for _, s := range b {
		if s = strings.TrimSpace(s); s != "" {
			set[s] = true
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
