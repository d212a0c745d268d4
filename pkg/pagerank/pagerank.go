// Package pagerank builds the hyperlink graph over corpus documents
// and scores them with power-iteration PageRank.
package pagerank

import (
	"math"
	"sort"
)

// Graph is a directed link graph over dense docIDs. Adjacency lists
// are deduplicated, self-loop free, and sorted; dangling lists the
// docIDs with no surviving out-edges.
type Graph struct {
	n        int
	adj      [][]int
	dangling []int
}

// BuildGraph resolves each document's outbound links against the
// corpus URL set. Links leaving the corpus are dropped, duplicate
// edges collapse, and self-loops are discarded.
func BuildGraph(outlinks [][]string, urlToID map[string]int) *Graph {
	n := len(outlinks)
	adj := make([][]int, n)
	dangling := []int{}

	for u := range outlinks {
		seen := map[int]struct{}{}
		targets := []int{}
		for _, link := range outlinks[u] {
			v, ok := urlToID[link]
			if !ok || v == u {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			targets = append(targets, v)
		}
		sort.Ints(targets)
		adj[u] = targets
		if len(targets) == 0 {
			dangling = append(dangling, u)
		}
	}

	return &Graph{
		n:        n,
		adj:      adj,
		dangling: dangling,
	}
}

func (g *Graph) Size() int {
	return g.n
}

func (g *Graph) OutDegree(u int) int {
	return len(g.adj[u])
}

type Result struct {
	Ranks      []float64
	Iterations int
	Converged  bool
	Delta      float64
}

// Rank runs power iteration:
//
//	next[v] = (1-d)/N + d*(Σ_{u→v} rank[u]/out(u) + danglingMass/N)
//
// Dangling mass is redistributed uniformly every iteration so the
// vector keeps summing to 1. Iteration stops when the L1 delta drops
// below epsilon or after maxIter rounds; Converged reports which.
// Each round writes into a fresh buffer, never the one being read.
func (g *Graph) Rank(damping float64, maxIter int, epsilon float64) Result {
	if g.n == 0 {
		return Result{Converged: true}
	}

	n := float64(g.n)
	rank := make([]float64, g.n)
	next := make([]float64, g.n)
	for i := range rank {
		rank[i] = 1 / n
	}

	var res Result
	for iter := 0; iter < maxIter; iter++ {
		danglingMass := 0.0
		for _, u := range g.dangling {
			danglingMass += rank[u]
		}

		base := (1-damping)/n + damping*danglingMass/n
		for v := range next {
			next[v] = base
		}
		for u, targets := range g.adj {
			if len(targets) == 0 {
				continue
			}
			share := damping * rank[u] / float64(len(targets))
			for _, v := range targets {
				next[v] += share
			}
		}

		delta := 0.0
		for v := range next {
			delta += math.Abs(next[v] - rank[v])
		}
		rank, next = next, rank

		res.Iterations = iter + 1
		res.Delta = delta
		if delta < epsilon {
			res.Converged = true
			break
		}
	}

	// Guard the sum-to-1 invariant against accumulated float drift.
	sum := 0.0
	for _, r := range rank {
		sum += r
	}
	if sum > 0 {
		for i := range rank {
			rank[i] /= sum
		}
	}

	res.Ranks = rank
	return res
}
