// Package stats derives the summary figures of the dashboard views from already fetched collections.
// Every function is pure and is recomputed on each load.
package stats

import (
	"math"

	"github.com/trezcool/masomo-dashboard/core"
)

// Filter returns the items matching pred, in order. A nil pred keeps everything.
func Filter[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred == nil || pred(item) {
			out = append(out, item)
		}
	}
	return out
}

func Count[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, item := range items {
		if pred == nil || pred(item) {
			n++
		}
	}
	return n
}

func Sum[T any](items []T, pred func(T) bool, value func(T) float64) float64 {
	var total float64
	for _, item := range items {
		if pred == nil || pred(item) {
			total += value(item)
		}
	}
	return total
}

// GroupCount counts items per key.
func GroupCount[T any, K comparable](items []T, key func(T) K) map[K]int {
	counts := make(map[K]int)
	for _, item := range items {
		counts[key(item)]++
	}
	return counts
}

// Percent returns part/whole as a percentage rounded to one decimal, or 0 when whole is 0.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return Round(part/whole*100, 1)
}

func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// MatchText reports whether any field contains query, ignoring case.
func MatchText(query string, fields ...string) bool {
	query = core.CleanString(query)
	if query == "" {
		return true
	}
	for _, f := range fields {
		if core.ContainsFold(f, query) {
			return true
		}
	}
	return false
}
