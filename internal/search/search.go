// Package search ranks candidates against a live query using fuzzy matching.
package search

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// Match is a candidate that matched the query
type Match[T any] struct {
	Item  T
	Index int // position in the original candidate slice
	Score int
}

// source adapts a candidate slice to fuzzy.Source
type source[T any] struct {
	items  []T
	target func(T) string
}

func (s source[T]) String(i int) string { return s.target(s.items[i]) }
func (s source[T]) Len() int            { return len(s.items) }

// Rank scores every candidate's target string against query. Candidates that
// don't match are dropped; the rest are ordered by descending score, ties
// keeping their original order. An empty query returns every candidate in
// its original order without computing any target string.
func Rank[T any](query string, items []T, target func(T) string) []Match[T] {
	if query == "" {
		out := make([]Match[T], len(items))
		for i, item := range items {
			out[i] = Match[T]{Item: item, Index: i}
		}
		return out
	}

	found := fuzzy.FindFrom(query, source[T]{items: items, target: target})
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Score != found[j].Score {
			return found[i].Score > found[j].Score
		}
		return found[i].Index < found[j].Index
	})

	out := make([]Match[T], len(found))
	for i, m := range found {
		out[i] = Match[T]{Item: items[m.Index], Index: m.Index, Score: m.Score}
	}
	return out
}

// Filter is Rank without the scores
func Filter[T any](query string, items []T, target func(T) string) []T {
	ranked := Rank(query, items, target)
	out := make([]T, len(ranked))
	for i, m := range ranked {
		out[i] = m.Item
	}
	return out
}

// Strings filters plain strings against query
func Strings(query string, items []string) []string {
	return Filter(query, items, func(s string) string { return s })
}
