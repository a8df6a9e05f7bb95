// Package dedup finds and merges person records that refer to the same individual.
package dedup

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/nonprofit-intel/internal/config"
	"github.com/sells-group/nonprofit-intel/internal/model"
	"github.com/sells-group/nonprofit-intel/internal/names"
)

// Merge strategies.
const (
	StrategyHighestQuality = "highest_quality"
	StrategyNewest         = "newest"
	StrategyManual         = "manual"
)

// Fields usable in DedupConfig.ExactMatchFields.
const (
	FieldNormalizedName = "normalized_name"
	FieldMatchKey       = "match_key"
	FieldFirstName      = "first_name"
	FieldLastName       = "last_name"
	FieldPrimaryTitle   = "primary_title"
)

// DefaultConfig returns a config.DedupConfig with sensible defaults.
func DefaultConfig() config.DedupConfig {
	return config.DedupConfig{
		FuzzyThreshold:   0.85,
		ExactMatchFields: []string{FieldNormalizedName},
		MergeStrategy:    StrategyHighestQuality,
	}
}

// Deduplicator detects duplicate people with exact and fuzzy name matching.
// It holds only read-only configuration.
type Deduplicator struct {
	threshold   float64
	exactFields []string
	strategy    string
}

// New creates a Deduplicator. Unknown exact-match fields are dropped; an
// empty field list falls back to normalized_name and a threshold <= 0 falls
// back to 0.85.
func New(cfg config.DedupConfig) *Deduplicator {
	var fields []string
	for _, f := range cfg.ExactMatchFields {
		f = strings.ToLower(strings.TrimSpace(f))
		switch f {
		case FieldNormalizedName, FieldMatchKey, FieldFirstName, FieldLastName, FieldPrimaryTitle:
			fields = append(fields, f)
		default:
			zap.L().Warn("dedup: ignoring unknown exact match field", zap.String("field", f))
		}
	}
	if len(fields) == 0 {
		fields = []string{FieldNormalizedName}
	}

	threshold := cfg.FuzzyThreshold
	if threshold <= 0 {
		threshold = DefaultConfig().FuzzyThreshold
	}

	strategy := cfg.MergeStrategy
	if strategy == "" {
		strategy = StrategyHighestQuality
	}

	return &Deduplicator{
		threshold:   threshold,
		exactFields: fields,
		strategy:    strategy,
	}
}

// edge is a detected match between two people.
type edge struct {
	i, j      int
	matchType model.MatchType
	conf      float64
	conflicts []string
}

// FindPersonDuplicates reports, for every cluster of matching people, one
// DuplicationMatch per non-primary member. The primary is the member with
// the lowest index. Matches are sorted by primary then duplicate index.
func (d *Deduplicator) FindPersonDuplicates(people []model.Person) []model.DuplicationMatch {
	edges := d.buildEdges(people)
	clusters := clusterIndices(len(people), edges)

	byPair := make(map[[2]int]edge, len(edges))
	incident := make(map[int][]edge)
	for _, e := range edges {
		byPair[[2]int{e.i, e.j}] = e
		incident[e.i] = append(incident[e.i], e)
		incident[e.j] = append(incident[e.j], e)
	}

	var matches []model.DuplicationMatch
	for _, members := range clusters {
		primary := members[0]
		inCluster := make(map[int]bool, len(members))
		for _, m := range members {
			inCluster[m] = true
		}

		for _, m := range members[1:] {
			e, ok := byPair[[2]int{primary, m}]
			if !ok {
				e = strongestEdge(incident[m], m, inCluster)
			}
			matches = append(matches, model.DuplicationMatch{
				PrimaryIndex:      primary,
				DuplicateIndex:    m,
				MatchType:         e.matchType,
				Confidence:        e.conf,
				ConflictingFields: e.conflicts,
			})
		}
	}

	zap.L().Debug("dedup: duplicate scan complete",
		zap.Int("people", len(people)),
		zap.Int("edges", len(edges)),
		zap.Int("clusters", len(clusters)),
		zap.Int("duplicates", len(matches)),
	)

	return matches
}

// Clusters groups indices of people that match each other, directly or
// transitively. Each cluster is sorted ascending; singletons are omitted and
// clusters are ordered by their lowest index.
func (d *Deduplicator) Clusters(people []model.Person) [][]int {
	return clusterIndices(len(people), d.buildEdges(people))
}

// buildEdges compares every unordered pair once.
func (d *Deduplicator) buildEdges(people []model.Person) []edge {
	var edges []edge
	for i := 0; i < len(people); i++ {
		for j := i + 1; j < len(people); j++ {
			if e, ok := d.compare(people[i], people[j]); ok {
				e.i, e.j = i, j
				edges = append(edges, e)
			}
		}
	}
	return edges
}

// compare applies the exact rules first, then the fuzzy threshold. A shared
// non-empty match key is always exact, whatever the configured fields.
func (d *Deduplicator) compare(a, b model.Person) (edge, bool) {
	if (a.MatchKey != "" && a.MatchKey == b.MatchKey) || d.exactMatch(a, b) {
		return edge{matchType: model.MatchExact, conf: 1.0}, true
	}

	sim := names.Similarity(a.Name.NormalizedName, b.Name.NormalizedName)
	if sim >= d.threshold {
		return edge{matchType: model.MatchFuzzy, conf: sim, conflicts: conflictingFields(a, b)}, true
	}
	return edge{}, false
}

func (d *Deduplicator) exactMatch(a, b model.Person) bool {
	for _, f := range d.exactFields {
		va, vb := fieldValue(a, f), fieldValue(b, f)
		if va == "" || !strings.EqualFold(va, vb) {
			return false
		}
	}
	return true
}

func fieldValue(p model.Person, field string) string {
	switch field {
	case FieldNormalizedName:
		return strings.TrimSpace(p.Name.NormalizedName)
	case FieldMatchKey:
		return p.MatchKey
	case FieldFirstName:
		return strings.TrimSpace(p.Name.First)
	case FieldLastName:
		return strings.TrimSpace(p.Name.Last)
	case FieldPrimaryTitle:
		return strings.TrimSpace(p.PrimaryTitle)
	default:
		return ""
	}
}

// conflictingFields lists fields where both records have a value and the values differ.
func conflictingFields(a, b model.Person) []string {
	var out []string
	if differs(a.PrimaryTitle, b.PrimaryTitle) {
		out = append(out, FieldPrimaryTitle)
	}
	if differs(a.Biography, b.Biography) {
		out = append(out, "biography")
	}
	return out
}

func differs(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && b != "" && !strings.EqualFold(a, b)
}

// strongestEdge picks the edge attaching m to its cluster: exact beats fuzzy,
// then higher confidence, then the lower partner index.
func strongestEdge(edges []edge, m int, inCluster map[int]bool) edge {
	var best edge
	found := false
	for _, e := range edges {
		other := e.i
		if other == m {
			other = e.j
		}
		if !inCluster[other] {
			continue
		}
		if !found || betterEdge(e, best, m) {
			best, found = e, true
		}
	}
	return best
}

func betterEdge(a, b edge, m int) bool {
	if a.matchType != b.matchType {
		return a.matchType == model.MatchExact
	}
	if a.conf != b.conf {
		return a.conf > b.conf
	}
	return partner(a, m) < partner(b, m)
}

func partner(e edge, m int) int {
	if e.i == m {
		return e.j
	}
	return e.i
}

// clusterIndices unions the edge endpoints and returns the non-singleton sets.
func clusterIndices(n int, edges []edge) [][]int {
	uf := newUnionFind(n)
	for _, e := range edges {
		uf.union(e.i, e.j)
	}

	groups := make(map[int][]int)
	for i := 0; i < n; i++ {
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}

	var clusters [][]int
	for _, members := range groups {
		if len(members) > 1 {
			clusters = append(clusters, members)
		}
	}
	sort.Slice(clusters, func(a, b int) bool {
		return clusters[a][0] < clusters[b][0]
	})
	return clusters
}
