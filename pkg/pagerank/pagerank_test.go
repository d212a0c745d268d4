package pagerank

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testGraph(outlinks [][]string) *Graph {
	urls := []string{"http://a.test", "http://b.test", "http://c.test", "http://d.test"}
	urlToID := map[string]int{}
	for i := range outlinks {
		urlToID[urls[i]] = i
	}
	return BuildGraph(outlinks, urlToID)
}

func requireSumsToOne(t *testing.T, ranks []float64) {
	t.Helper()
	sum := 0.0
	for _, r := range ranks {
		require.Greater(t, r, 0.0)
		sum += r
	}
	require.InDelta(t, 1.0, sum, 1e-6)
}

func TestBuildGraphDropsBadEdges(t *testing.T) {
	g := testGraph([][]string{
		{
			"http://b.test",
			"http://b.test",          // duplicate edge
			"http://a.test",          // self-loop
			"http://elsewhere.test/", // outside the corpus
		},
		{},
	})

	require.Equal(t, 2, g.Size())
	require.Equal(t, 1, g.OutDegree(0))
	require.Equal(t, 0, g.OutDegree(1))
}

func TestRankEmptyGraph(t *testing.T) {
	g := BuildGraph(nil, map[string]int{})
	res := g.Rank(0.85, 20, 1e-6)
	require.True(t, res.Converged)
	require.Empty(t, res.Ranks)
}

func TestRankSingleNode(t *testing.T) {
	g := testGraph([][]string{{}})
	res := g.Rank(0.85, 20, 1e-6)
	require.True(t, res.Converged)
	require.Equal(t, []float64{1}, res.Ranks)
}

func TestRankLinkedNodeWins(t *testing.T) {
	// a -> b, b dangling: b absorbs a's authority.
	g := testGraph([][]string{
		{"http://b.test"},
		{},
	})
	res := g.Rank(0.85, 50, 1e-9)
	require.True(t, res.Converged)
	requireSumsToOne(t, res.Ranks)
	require.Greater(t, res.Ranks[1], res.Ranks[0])
}

func TestRankAllDanglingIsUniform(t *testing.T) {
	g := testGraph([][]string{{}, {}, {}})
	res := g.Rank(0.85, 20, 1e-6)
	require.True(t, res.Converged)
	requireSumsToOne(t, res.Ranks)
	for _, r := range res.Ranks {
		require.InDelta(t, 1.0/3.0, r, 1e-9)
	}
}

func TestRankSumInvariant(t *testing.T) {
	g := testGraph([][]string{
		{"http://b.test", "http://c.test"},
		{"http://c.test"},
		{"http://a.test", "http://d.test"},
		{}, // dangling
	})
	res := g.Rank(0.85, 100, 1e-10)
	require.True(t, res.Converged)
	requireSumsToOne(t, res.Ranks)
}

func TestRankHitsIterationCap(t *testing.T) {
	g := testGraph([][]string{
		{"http://b.test"},
		{},
	})
	res := g.Rank(0.85, 1, 1e-15)
	require.False(t, res.Converged)
	require.Equal(t, 1, res.Iterations)

	// One step from the uniform start: base = 0.075 + 0.85*0.5/2,
	// b additionally receives all of a's share.
	require.InDelta(t, 0.425, res.Delta, 1e-12)
	require.InDelta(t, 0.2875, res.Ranks[0], 1e-12)
	require.InDelta(t, 0.7125, res.Ranks[1], 1e-12)
}
