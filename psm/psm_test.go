// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package psm_test

import (
	"math"
	"testing"

	"github.com/js-arias/mdi/psm"
)

func TestSimilarity(t *testing.T) {
	parts := [][]int{
		{1, 1, 2},
		{1, 2, 2},
	}
	s, err := psm.Similarity(parts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n, _ := s.Dims()
	if n != 3 {
		t.Fatalf("dims: got %d, want 3", n)
	}

	want := [][]float64{
		{1, 0.5, 0},
		{0.5, 1, 0.5},
		{0, 0.5, 1},
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if g := s.At(i, j); math.Abs(g-want[i][j]) > 1e-10 {
				t.Errorf("similarity (%d,%d): got %.6f, want %.6f", i, j, g, want[i][j])
			}
		}
	}

	// symmetry and range
	for i := 0; i < n; i++ {
		if g := s.At(i, i); g != 1 {
			t.Errorf("diagonal %d: got %.6f, want 1", i, g)
		}
		for j := 0; j < n; j++ {
			if s.At(i, j) != s.At(j, i) {
				t.Errorf("similarity (%d,%d): not symmetric", i, j)
			}
			if g := s.At(i, j); g < 0 || g > 1 {
				t.Errorf("similarity (%d,%d): got %.6f, want a value in [0,1]", i, j, g)
			}
		}
	}
}

func TestSimilarityErrors(t *testing.T) {
	if _, err := psm.Similarity(nil); err == nil {
		t.Errorf("no partitions: expecting error")
	}
	if _, err := psm.Similarity([][]int{{}}); err == nil {
		t.Errorf("empty partition: expecting error")
	}
	if _, err := psm.Similarity([][]int{{1, 2}, {1, 2, 3}}); err == nil {
		t.Errorf("ragged partitions: expecting error")
	}
}

func TestAdjustedRandIndex(t *testing.T) {
	tests := map[string]struct {
		a, b []int
		want float64
	}{
		"equal": {
			a:    []int{1, 1, 2, 2},
			b:    []int{1, 1, 2, 2},
			want: 1,
		},
		"relabeled": {
			a:    []int{1, 1, 2, 2},
			b:    []int{5, 5, 3, 3},
			want: 1,
		},
		"crossed": {
			a:    []int{1, 1, 2, 2},
			b:    []int{1, 2, 1, 2},
			want: -0.5,
		},
		"shifted": {
			a:    []int{1, 1, 1, 2, 2},
			b:    []int{1, 1, 2, 2, 2},
			want: 1.0 / 6,
		},
		"trivial": {
			a:    []int{1, 1, 1},
			b:    []int{2, 2, 2},
			want: 1,
		},
	}

	for name, test := range tests {
		g, err := psm.AdjustedRandIndex(test.a, test.b)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if math.Abs(g-test.want) > 1e-10 {
			t.Errorf("%s: got %.6f, want %.6f", name, g, test.want)
		}

		// the index is symmetric
		r, err := psm.AdjustedRandIndex(test.b, test.a)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if math.Abs(g-r) > 1e-10 {
			t.Errorf("%s: not symmetric: got %.6f and %.6f", name, g, r)
		}
	}

	if _, err := psm.AdjustedRandIndex([]int{1, 2}, []int{1, 2, 3}); err == nil {
		t.Errorf("size mismatch: expecting error")
	}
	if _, err := psm.AdjustedRandIndex(nil, nil); err == nil {
		t.Errorf("empty partitions: expecting error")
	}
}

func TestBest(t *testing.T) {
	parts := [][]int{
		{1, 1, 2, 2},
		{1, 1, 2, 2},
		{1, 2, 1, 2},
	}
	best, score, err := psm.Best(parts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best != 0 {
		t.Errorf("best: got %d, want 0", best)
	}
	if want := 0.25; math.Abs(score-want) > 1e-10 {
		t.Errorf("score: got %.6f, want %.6f", score, want)
	}

	if _, _, err := psm.Best(nil); err == nil {
		t.Errorf("no partitions: expecting error")
	}

	best, score, err = psm.Best([][]int{{1, 2, 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best != 0 || score != 1 {
		t.Errorf("single partition: got %d (%.6f), want 0 (1.0)", best, score)
	}
}
