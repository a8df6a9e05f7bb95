package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/nonprofit-intel/internal/model"
)

func TestMergePeople_Strategies(t *testing.T) {
	a := person("jane doe", 0.6)
	a.PrimaryTitle = "Director"
	b := person("jane doe", 0.9)
	b.PrimaryTitle = "Executive Director"

	tests := []struct {
		name      string
		strategy  string
		a, b      model.Person
		wantTitle string
	}{
		{"highest quality picks b", StrategyHighestQuality, a, b, "Executive Director"},
		{"newest behaves like highest quality", StrategyNewest, a, b, "Executive Director"},
		{"manual keeps a", StrategyManual, a, b, "Director"},
		{"tie keeps a", StrategyHighestQuality, a, func() model.Person { c := b; c.ConfidenceScore = 0.6; return c }(), "Director"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.MergeStrategy = tt.strategy
			got := New(cfg).MergePeople(tt.a, tt.b)
			assert.Equal(t, tt.wantTitle, got.PrimaryTitle)
		})
	}
}

func TestMergePeople_Fields(t *testing.T) {
	a := person("jane doe", 0.9)
	a.PrimaryTitle = "Chair"
	a.AllTitles = []string{"Chair", "Trustee"}
	a.Biography = "Short bio."
	a.DataSources = []string{model.SourceWebScraping}
	a.QualityFlags = []string{model.FlagLowQualityScraping}

	b := person("jane doe", 0.5)
	b.PrimaryTitle = ""
	b.AllTitles = []string{"trustee", "Treasurer"}
	b.Biography = "A considerably longer biography."
	b.DataSources = []string{model.SourceBoardMembers, model.SourceWebScraping}

	got := New(DefaultConfig()).MergePeople(a, b)

	assert.Equal(t, "Chair", got.PrimaryTitle)
	assert.Equal(t, []string{"Chair", "Trustee", "Treasurer"}, got.AllTitles)
	assert.Equal(t, "A considerably longer biography.", got.Biography)
	assert.InDelta(t, 0.7, got.ConfidenceScore, 1e-12)
	assert.Equal(t, []string{model.SourceBoardMembers, model.SourceWebScraping}, got.DataSources)
	assert.Equal(t, []string{model.FlagLowQualityScraping}, got.QualityFlags)
	assert.Equal(t, a.MatchKey, got.MatchKey)
}

func TestMergePeople_PrimaryTitleFallback(t *testing.T) {
	a := person("jane doe", 0.9)
	b := person("jane doe", 0.5)
	b.PrimaryTitle = "Secretary"

	got := New(DefaultConfig()).MergePeople(a, b)
	assert.Equal(t, "Secretary", got.PrimaryTitle)
	assert.Equal(t, []string{"Secretary"}, got.AllTitles)
}

func TestMergePeople_DoesNotMutateInputs(t *testing.T) {
	a := person("jane doe", 0.9)
	a.AllTitles = []string{"Chair"}
	a.DataSources = []string{"a"}
	b := person("jane doe", 0.5)
	b.AllTitles = []string{"Treasurer"}
	b.DataSources = []string{"b"}

	_ = New(DefaultConfig()).MergePeople(a, b)

	assert.Equal(t, []string{"Chair"}, a.AllTitles)
	assert.Equal(t, []string{"a"}, a.DataSources)
	assert.Equal(t, []string{"Treasurer"}, b.AllTitles)
	assert.Equal(t, []string{"b"}, b.DataSources)
	assert.Equal(t, 0.9, a.ConfidenceScore)
}

func TestMergeCluster(t *testing.T) {
	people := []model.Person{
		person("jane doe", 0.8),
		person("mark twain", 1.0),
		person("jane doe", 0.4),
	}
	people[0].DataSources = []string{model.SourceBoardMembers}
	people[2].DataSources = []string{model.SourceWebScraping}

	d := New(DefaultConfig())
	clusters := d.Clusters(people)
	require.Equal(t, [][]int{{0, 2}}, clusters)

	// Index order in the cluster does not matter.
	got := d.MergeCluster(people, []int{2, 0})
	assert.InDelta(t, 0.6, got.ConfidenceScore, 1e-12)
	assert.Equal(t, []string{model.SourceBoardMembers, model.SourceWebScraping}, got.DataSources)
	assert.Equal(t, "jane doe", got.Name.NormalizedName)
}

func TestOrderedUnion(t *testing.T) {
	got := orderedUnion([]string{"A", " b ", ""}, []string{"a", "C"}, nil)
	assert.Equal(t, []string{"A", "b", "C"}, got)
}

func TestLongerBiography(t *testing.T) {
	assert.Equal(t, "abc", longerBiography("abc", "xyz"))
	assert.Equal(t, "longer", longerBiography("  ", "longer"))
	assert.Equal(t, "", longerBiography("", ""))
}
