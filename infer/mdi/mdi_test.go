// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mdi_test

import (
	"fmt"
	"math"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/js-arias/mdi/dataview"
	"github.com/js-arias/mdi/infer/mdi"
	"github.com/js-arias/mdi/labels"
	"github.com/js-arias/mdi/psm"
)

func TestNewErrors(t *testing.T) {
	if _, err := mdi.New(mdi.Param{}); err == nil {
		t.Errorf("undefined data: expecting error")
	}

	rng := rand.New(rand.NewPCG(1, 1))
	truth := makeTruth(10, 2)
	data := dataview.New()
	addGaussView(t, data, "genes", 2, truth, centers(2, 6), rng)

	tests := map[string]mdi.Param{
		"bad iterations": {Data: data, Iterations: -1},
		"bad burn-in":    {Data: data, BurnIn: 1},
		"bad thin":       {Data: data, Thin: -1},
		"bad alpha":      {Data: data, Alpha: -1},
		"bad shape":      {Data: data, PhiShape: -0.5},
		"bad rate":       {Data: data, PhiRate: -0.5},
		"bad step":       {Data: data, Step: -1},
		"no samples":     {Data: data, Iterations: 10, Thin: 100},
	}
	for name, p := range tests {
		if _, err := mdi.New(p); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}

	// a label out of the cluster range
	l := labels.New()
	if err := l.Set("genes", "item 00", 3, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := mdi.New(mdi.Param{Data: data, Labels: l}); err == nil {
		t.Errorf("label out of range: expecting error")
	}
}

func TestRunOnce(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 2))
	truth := makeTruth(10, 2)
	data := dataview.New()
	addGaussView(t, data, "genes", 2, truth, centers(2, 6), rng)

	c, err := mdi.New(mdi.Param{Data: data, Iterations: 10, Seed: 55})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Run(); err == nil {
		t.Errorf("second run: expecting error")
	}
}

func TestDeterminism(t *testing.T) {
	p := mdi.Param{
		Iterations: 200,
		Seed:       99,
	}

	var runs [2][]mdi.Sample
	for i := range runs {
		rng := rand.New(rand.NewPCG(3, 3))
		truth := makeTruth(12, 3)
		data := dataview.New()
		addGaussView(t, data, "genes", 3, truth, centers(3, 6), rng)
		addGaussView(t, data, "proteins", 3, truth, centers(3, 6), rng)

		p.Data = data
		c, err := mdi.New(p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		s, err := c.Run()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		runs[i] = s
	}

	if len(runs[0]) != 200 {
		t.Fatalf("samples: got %d, want 200", len(runs[0]))
	}
	if runs[0][0].Iteration != 1 {
		t.Errorf("first iteration: got %d, want 1", runs[0][0].Iteration)
	}
	if !reflect.DeepEqual(runs[0], runs[1]) {
		t.Errorf("same seed: runs differ")
	}
}

func TestSupervised(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 4))
	truth := makeTruth(12, 2)
	data := dataview.New()
	addGaussView(t, data, "genes", 2, truth, centers(2, 6), rng)

	l := labels.New()
	for i, k := range truth {
		if err := l.Set("genes", itemName(i), k+1, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	c, err := mdi.New(mdi.Param{
		Data:       data,
		Labels:     l,
		Iterations: 300,
		Seed:       100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	samples, err := c.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// with all the items pinned,
	// every sample must reproduce the labels
	for _, s := range samples {
		for n, k := range truth {
			if g := s.Allocations[0][n]; g != k+1 {
				t.Fatalf("iteration %d: item %d: got %d, want %d", s.Iteration, n, g, k+1)
			}
		}
	}
}

func TestFixedItems(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	truth := makeTruth(20, 2)
	data := dataview.New()
	addGaussView(t, data, "genes", 2, truth, centers(2, 6), rng)

	// pin the first four items
	l := labels.New()
	for i := 0; i < 4; i++ {
		if err := l.Set("genes", itemName(i), truth[i]+1, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	c, err := mdi.New(mdi.Param{
		Data:       data,
		Labels:     l,
		Iterations: 300,
		Seed:       101,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	samples, err := c.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, s := range samples {
		for i := 0; i < 4; i++ {
			if g := s.Allocations[0][i]; g != truth[i]+1 {
				t.Fatalf("iteration %d: item %d: got %d, want %d", s.Iteration, i, g, truth[i]+1)
			}
		}
	}
}

func TestWeights(t *testing.T) {
	rng := rand.New(rand.NewPCG(6, 6))
	truth := makeTruth(20, 3)
	data := dataview.New()
	addGaussView(t, data, "genes", 3, truth, centers(3, 6), rng)

	c, err := mdi.New(mdi.Param{Data: data, Iterations: 100, Seed: 102})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w := c.Weights("genes")
	if len(w) != 3 {
		t.Fatalf("weights: got %d values, want 3", len(w))
	}
	sum := 0.0
	for k, v := range w {
		if v < 0 {
			t.Errorf("weight %d: got %.6f, want a non negative value", k, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-10 {
		t.Errorf("weights: got sum %.6f, want 1", sum)
	}

	if w := c.Weights("not-a-view"); w != nil {
		t.Errorf("unknown view: got %v, want nil", w)
	}
}

// TestConcordantViews clusters two views
// generated from the same underlying partition.
// The recovered partition must match the truth
// and the concordance must be clearly positive.
func TestConcordantViews(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	truth := makeTruth(50, 3)
	data := dataview.New()
	addGaussView(t, data, "genes", 3, truth, centers(3, 6), rng)
	addGaussView(t, data, "proteins", 3, truth, centers(3, 6), rng)

	l := labels.New()
	for i, k := range truth {
		if err := l.Set("genes", itemName(i), k+1, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := l.Set("proteins", itemName(i), k+1, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	c, err := mdi.New(mdi.Param{
		Data:       data,
		Labels:     l,
		Iterations: 5_000,
		BurnIn:     0.2,
		Thin:       10,
		Seed:       103,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	samples, err := c.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 400 {
		t.Fatalf("samples: got %d, want 400", len(samples))
	}
	if g := samples[0].Iteration; g != 1_010 {
		t.Errorf("first retained iteration: got %d, want 1010", g)
	}

	testInvariants(t, c, samples)

	parts := make([][]int, len(samples))
	for i, s := range samples {
		parts[i] = s.Allocations[0]
	}
	best, _, err := psm.Best(parts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ari, err := psm.AdjustedRandIndex(parts[best], truth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ari < 0.9 {
		t.Errorf("adjusted Rand index: got %.6f, want > 0.9", ari)
	}

	phi := 0.0
	for _, s := range samples {
		phi += s.Phi[0]
	}
	phi /= float64(len(samples))
	if phi < 2 {
		t.Errorf("concordance: got %.6f, want > 2", phi)
	}
}

// TestIndependentViews clusters two views
// generated from independent partitions.
// The concordance must collapse towards zero.
func TestIndependentViews(t *testing.T) {
	rng := rand.New(rand.NewPCG(8, 8))
	truthA := makeTruth(50, 3)
	truthB := make([]int, 50)
	for i := range truthB {
		truthB[i] = rng.IntN(3)
	}

	data := dataview.New()
	addGaussView(t, data, "genes", 3, truthA, centers(3, 8), rng)
	addGaussView(t, data, "proteins", 3, truthB, centers(3, 8), rng)

	c, err := mdi.New(mdi.Param{
		Data:       data,
		Iterations: 3_000,
		BurnIn:     0.2,
		Thin:       10,
		Seed:       104,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	samples, err := c.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testInvariants(t, c, samples)

	phi := 0.0
	for _, s := range samples {
		phi += s.Phi[0]
	}
	phi /= float64(len(samples))
	if phi > 2 {
		t.Errorf("concordance: got %.6f, want < 2", phi)
	}
}

// TestSingleView clusters a single well separated view
// from a random initialization.
func TestSingleView(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	truth := makeTruth(30, 3)
	data := dataview.New()
	addGaussView(t, data, "genes", 3, truth, centers(3, 8), rng)

	c, err := mdi.New(mdi.Param{
		Data:       data,
		Iterations: 4_000,
		BurnIn:     0.2,
		Thin:       10,
		Seed:       105,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g := len(c.Pairs()); g != 0 {
		t.Errorf("pairs: got %d, want 0", g)
	}
	samples, err := c.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parts := make([][]int, len(samples))
	for i, s := range samples {
		parts[i] = s.Allocations[0]
	}
	best, _, err := psm.Best(parts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ari, err := psm.AdjustedRandIndex(parts[best], truth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ari < 0.9 {
		t.Errorf("adjusted Rand index: got %.6f, want > 0.9", ari)
	}
}

func TestCategoricalView(t *testing.T) {
	rng := rand.New(rand.NewPCG(10, 10))
	truth := makeTruth(40, 2)

	v, err := dataview.NewView("mutations", dataview.Categorical, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// ten features,
	// cluster 0 mostly absent,
	// cluster 1 mostly present
	for i, k := range truth {
		for j := 0; j < 10; j++ {
			p := 0.1
			if k == 1 {
				p = 0.9
			}
			x := 0.0
			if rng.Float64() < p {
				x = 1
			}
			if err := v.Add(itemName(i), fmt.Sprintf("site %02d", j), x); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	}
	data := dataview.New()
	if err := data.Add(v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, err := mdi.New(mdi.Param{
		Data:       data,
		Iterations: 3_000,
		BurnIn:     0.2,
		Thin:       10,
		Seed:       106,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	samples, err := c.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parts := make([][]int, len(samples))
	for i, s := range samples {
		parts[i] = s.Allocations[0]
	}
	best, _, err := psm.Best(parts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ari, err := psm.AdjustedRandIndex(parts[best], truth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ari < 0.8 {
		t.Errorf("adjusted Rand index: got %.6f, want > 0.8", ari)
	}
}

func TestRunChains(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 11))
	truth := makeTruth(12, 2)
	data := dataview.New()
	addGaussView(t, data, "genes", 2, truth, centers(2, 6), rng)
	addGaussView(t, data, "proteins", 2, truth, centers(2, 6), rng)

	p := mdi.Param{
		Data:       data,
		Iterations: 100,
		Seed:       107,
	}
	res := mdi.RunChains(p, 3, 2)
	if len(res) != 3 {
		t.Fatalf("results: got %d, want 3", len(res))
	}
	for i, r := range res {
		if r.Chain != i+1 {
			t.Errorf("result %d: chain: got %d, want %d", i, r.Chain, i+1)
		}
		if want := int64(107 + i); r.Seed != want {
			t.Errorf("result %d: seed: got %d, want %d", i, r.Seed, want)
		}
		if r.Err != nil {
			t.Errorf("result %d: unexpected error: %v", i, r.Err)
			continue
		}
		if len(r.Samples) != 100 {
			t.Errorf("result %d: samples: got %d, want 100", i, len(r.Samples))
		}
	}

	// chains are reproducible
	again := mdi.RunChains(p, 3, 1)
	for i := range res {
		if !reflect.DeepEqual(res[i].Samples, again[i].Samples) {
			t.Errorf("result %d: same seed: runs differ", i)
		}
	}

	// a failed initialization is reported per chain
	bad := mdi.RunChains(mdi.Param{}, 2, 2)
	for i, r := range bad {
		if r.Err == nil {
			t.Errorf("result %d: expecting error", i)
		}
	}
}

// TestInvariants checks the properties
// that must hold for any retained sample.
func testInvariants(t testing.TB, c *mdi.Chain, samples []mdi.Sample) {
	t.Helper()

	views := c.Views()
	items := c.Items()
	pairs := c.Pairs()
	for _, s := range samples {
		if len(s.Allocations) != len(views) {
			t.Fatalf("iteration %d: got %d views, want %d", s.Iteration, len(s.Allocations), len(views))
		}
		for i := range s.Allocations {
			if len(s.Allocations[i]) != len(items) {
				t.Fatalf("iteration %d: view %q: got %d items, want %d", s.Iteration, views[i], len(s.Allocations[i]), len(items))
			}
			for n, k := range s.Allocations[i] {
				if k < 1 || k > 3 {
					t.Fatalf("iteration %d: view %q: item %d: got label %d, want a label in [1,3]", s.Iteration, views[i], n, k)
				}
			}
		}
		if len(s.Phi) != len(pairs) {
			t.Fatalf("iteration %d: got %d concordances, want %d", s.Iteration, len(s.Phi), len(pairs))
		}
		for i, phi := range s.Phi {
			if phi < 0 || math.IsNaN(phi) {
				t.Fatalf("iteration %d: pair %v: got concordance %.6f, want a non negative value", s.Iteration, pairs[i], phi)
			}
		}
		if math.IsNaN(s.LogLike) || math.IsInf(s.LogLike, 0) {
			t.Fatalf("iteration %d: invalid log likelihood", s.Iteration)
		}
	}
}

func itemName(i int) string {
	return fmt.Sprintf("item %02d", i)
}

// MakeTruth returns a partition of n items
// into k clusters
// with near equal sizes.
func makeTruth(n, k int) []int {
	truth := make([]int, n)
	for i := range truth {
		truth[i] = i % k
	}
	return truth
}

// Centers returns well separated cluster centers
// for two features.
func centers(k int, sep float64) [][]float64 {
	c := make([][]float64, k)
	for i := range c {
		c[i] = []float64{float64(i) * sep, float64(k-i) * sep}
	}
	return c
}

// AddGaussView adds a Gaussian view
// with two features
// and unit noise around the cluster centers.
func addGaussView(t testing.TB, data *dataview.Collection, name string, k int, truth []int, centers [][]float64, rng *rand.Rand) {
	t.Helper()

	v, err := dataview.NewView(name, dataview.Gaussian, k)
	if err != nil {
		t.Fatalf("unable to create view: %v", err)
	}
	for i, c := range truth {
		for j, m := range centers[c] {
			val := m + rng.NormFloat64()
			if err := v.Add(itemName(i), fmt.Sprintf("f%d", j), val); err != nil {
				t.Fatalf("unable to add observation: %v", err)
			}
		}
	}
	if err := data.Add(v); err != nil {
		t.Fatalf("unable to add view: %v", err)
	}
}
