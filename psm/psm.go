// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package psm provides summaries
// for collections of sampled partitions.
//
// Cluster labels are arbitrary
// and can change their meaning
// from sample to sample,
// so the summaries are based
// on the co-assignment of item pairs,
// which is invariant to the labeling.
package psm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Similarity returns the posterior similarity matrix
// of a collection of partitions,
// the fraction of the partitions
// in which each pair of items
// is assigned to the same cluster.
//
// All partitions must have the same number of items,
// the items in the same order.
func Similarity(parts [][]int) (*mat.SymDense, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("no partitions")
	}
	n := len(parts[0])
	if n == 0 {
		return nil, fmt.Errorf("empty partition")
	}

	s := mat.NewSymDense(n, nil)
	for k, p := range parts {
		if len(p) != n {
			return nil, fmt.Errorf("partition %d: got %d items, want %d", k, len(p), n)
		}
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				if p[i] == p[j] {
					s.SetSym(i, j, s.At(i, j)+1)
				}
			}
		}
	}

	t := float64(len(parts))
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, s.At(i, j)/t)
		}
	}
	return s, nil
}

// AdjustedRandIndex returns the adjusted Rand index
// between two partitions of the same items,
// the chance corrected fraction
// of item pairs treated in the same way
// by both partitions.
// The index is 1 for equivalent partitions,
// near 0 for independent partitions,
// and can be negative.
func AdjustedRandIndex(a, b []int) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("got %d items, want %d", len(b), len(a))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("empty partition")
	}

	type pair struct {
		a, b int
	}
	cont := make(map[pair]int)
	ca := make(map[int]int)
	cb := make(map[int]int)
	for i := range a {
		cont[pair{a[i], b[i]}]++
		ca[a[i]]++
		cb[b[i]]++
	}

	var sum, sumA, sumB float64
	for _, n := range cont {
		sum += pairs(n)
	}
	for _, n := range ca {
		sumA += pairs(n)
	}
	for _, n := range cb {
		sumB += pairs(n)
	}

	total := pairs(len(a))
	if total == 0 {
		// a single item,
		// any two partitions are equivalent
		return 1, nil
	}
	expect := sumA * sumB / total
	max := (sumA + sumB) / 2
	if max == expect {
		// both partitions are trivial,
		// either a single cluster
		// or all items in their own cluster
		return 1, nil
	}
	return (sum - expect) / (max - expect), nil
}

// Pairs returns the number of unordered pairs
// in a set of n items.
func pairs(n int) float64 {
	return float64(n) * float64(n-1) / 2
}

// Best returns the index of the partition
// that maximizes the average adjusted Rand index
// to all other partitions in the collection,
// and the value of that average.
// On ties,
// the first of the best partitions is returned.
func Best(parts [][]int) (int, float64, error) {
	if len(parts) == 0 {
		return 0, 0, fmt.Errorf("no partitions")
	}
	if len(parts) == 1 {
		return 0, 1, nil
	}

	best := 0
	bestScore := math.Inf(-1)
	for i, p := range parts {
		sum := 0.0
		for j, q := range parts {
			if i == j {
				continue
			}
			r, err := AdjustedRandIndex(p, q)
			if err != nil {
				return 0, 0, fmt.Errorf("partition %d: %v", j, err)
			}
			sum += r
		}
		score := sum / float64(len(parts)-1)
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best, bestScore, nil
}
