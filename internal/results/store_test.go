package results

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/spigell/resume-screener/internal/screener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ranking(names ...string) *screener.Ranking {
	r := &screener.Ranking{}
	for i, name := range names {
		r.Candidates = append(r.Candidates, screener.Candidate{
			Filename: name,
			Score:    float64(90 - i*10),
			Details:  screener.Details{Skills: []string{"Go"}},
		})
	}
	return r
}

func TestStoreStartsEmpty(t *testing.T) {
	store := New()

	assert.False(t, store.Loaded())
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, store.Get())
}

func TestStoreReplacesWholesale(t *testing.T) {
	store := New()

	store.Set(ranking("a.pdf", "b.pdf"))
	store.Set(ranking("c.pdf"))

	require.True(t, store.Loaded())
	got := store.Get()
	require.Len(t, got, 1)
	assert.Equal(t, "c.pdf", got[0].Filename)
}

func TestStoreEmptyRankingIsStillLoaded(t *testing.T) {
	store := New()
	store.Set(ranking("a.pdf"))
	store.Set(&screener.Ranking{})

	assert.True(t, store.Loaded())
	assert.Equal(t, 0, store.Len())
}

func TestStoreNeverMutatesInPlace(t *testing.T) {
	store := New()
	source := ranking("a.pdf")
	store.Set(source)

	source.Candidates[0].Filename = "changed.pdf"
	source.Candidates[0].Details.Skills[0] = "Rust"

	got := store.Get()
	got[0].Score = 1
	got[0].Details.Skills[0] = "Java"

	again := store.Get()
	assert.Equal(t, "a.pdf", again[0].Filename)
	assert.Equal(t, float64(90), again[0].Score)
	assert.Equal(t, []string{"Go"}, again[0].Details.Skills)
}

func TestStoreDumpToTmpFile(t *testing.T) {
	store := New()
	store.Set(ranking("a.pdf", "b.pdf"))

	name, err := store.DumpToTmpFile()
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(name) })

	data, err := os.ReadFile(name)
	require.NoError(t, err)

	var dumped screener.Ranking
	require.NoError(t, json.Unmarshal(data, &dumped))
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, dumped.Filenames())
}
