// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package simulate generates synthetic data views
// with a known cluster structure,
// used to test and calibrate
// an integrative clustering analysis.
package simulate

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/js-arias/mdi/dataview"
	"github.com/js-arias/mdi/labels"
	"gonum.org/v1/gonum/stat/distuv"
)

// Param is a collection of parameters
// for a simulated dataset.
type Param struct {
	// Items is the number of simulated items.
	Items int

	// Clusters is the number of clusters.
	Clusters int

	// Views is the description
	// of the views to be generated.
	Views []View

	// If Concordant is true,
	// all views share a single underlying partition.
	// Otherwise,
	// each view draws an independent partition.
	Concordant bool

	// Separation is the distance
	// between neighbor cluster centers
	// of a Gaussian view,
	// in units of the noise deviation.
	// Default: 3.
	Separation float64

	// Seed is the seed of the random number generator.
	// If zero,
	// the seed is taken from the current time.
	Seed int64
}

// A View describes a data view to be generated.
type View struct {
	// Name of the view.
	Name string

	// Kind is the measurement kind of the view.
	Kind dataview.Kind

	// Features is the number of features of the view.
	Features int
}

// Data is a simulated dataset:
// the generated data views
// and the true partition of each view.
type Data struct {
	// Views is the collection of generated data views.
	Views *dataview.Collection

	// Truth is the true cluster label
	// of each item in each view.
	Truth *labels.Collection

	// Seed is the seed used by the generator.
	Seed int64
}

// New generates a new simulated dataset.
func New(p Param) (*Data, error) {
	if p.Items < 1 {
		return nil, fmt.Errorf("invalid items value: %d", p.Items)
	}
	if p.Clusters < 1 {
		return nil, fmt.Errorf("invalid clusters value: %d", p.Clusters)
	}
	if p.Items < p.Clusters {
		return nil, fmt.Errorf("got %d items, want at least %d", p.Items, p.Clusters)
	}
	if len(p.Views) == 0 {
		return nil, fmt.Errorf("no views defined")
	}
	for _, vd := range p.Views {
		if vd.Features < 1 {
			return nil, fmt.Errorf("view %q: invalid features value: %d", vd.Name, vd.Features)
		}
	}
	if p.Separation < 0 {
		return nil, fmt.Errorf("invalid separation value: %.6f", p.Separation)
	}
	if p.Separation == 0 {
		p.Separation = 3
	}

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>32+1))

	w := len(strconv.Itoa(p.Items))
	items := make([]string, p.Items)
	for i := range items {
		items[i] = fmt.Sprintf("item %0*d", w, i+1)
	}

	d := &Data{
		Views: dataview.New(),
		Truth: labels.New(),
		Seed:  seed,
	}

	var shared []int
	if p.Concordant {
		shared = partition(p.Items, p.Clusters, rng)
	}
	for _, vd := range p.Views {
		truth := shared
		if truth == nil {
			truth = partition(p.Items, p.Clusters, rng)
		}

		var v *dataview.View
		var err error
		switch vd.Kind {
		case dataview.Gaussian:
			v, err = gaussView(vd, p.Clusters, items, truth, p.Separation, rng)
		case dataview.Categorical:
			v, err = catView(vd, p.Clusters, items, truth, rng)
		default:
			err = fmt.Errorf("view %q: unknown kind %q", vd.Name, vd.Kind)
		}
		if err != nil {
			return nil, err
		}
		if err := d.Views.Add(v); err != nil {
			return nil, err
		}

		for i, it := range items {
			if err := d.Truth.Set(vd.Name, it, truth[i]+1, false); err != nil {
				return nil, err
			}
		}
	}

	return d, nil
}

// Partition assigns items to clusters at random.
// The first items are assigned
// one to each cluster,
// so no cluster is left empty.
func partition(items, clusters int, rng *rand.Rand) []int {
	w := make([]float64, clusters)
	for i := range w {
		w[i] = 1
	}
	cat := distuv.NewCategorical(w, rng)

	p := make([]int, items)
	for i := range p {
		if i < clusters {
			p[i] = i
			continue
		}
		p[i] = int(cat.Rand())
	}
	return p
}

// GaussView generates a continuous view.
// The center of a cluster is placed
// at separation units from its neighbors,
// the same in every feature,
// with unit noise around the center.
func gaussView(vd View, clusters int, items []string, truth []int, sep float64, rng *rand.Rand) (*dataview.View, error) {
	v, err := dataview.NewView(vd.Name, dataview.Gaussian, clusters)
	if err != nil {
		return nil, err
	}

	w := len(strconv.Itoa(vd.Features))
	for j := 0; j < vd.Features; j++ {
		f := fmt.Sprintf("f%0*d", w, j+1)
		for i, it := range items {
			x := sep*float64(truth[i]) + rng.NormFloat64()
			if err := v.Add(it, f, x); err != nil {
				return nil, err
			}
		}
	}
	return v, nil
}

// CatView generates a binary view.
// The frequency of each feature in each cluster
// is drawn from a Jeffreys prior,
// so most features are sharply present
// or sharply absent in a cluster.
func catView(vd View, clusters int, items []string, truth []int, rng *rand.Rand) (*dataview.View, error) {
	v, err := dataview.NewView(vd.Name, dataview.Categorical, clusters)
	if err != nil {
		return nil, err
	}

	beta := distuv.Beta{Alpha: 0.5, Beta: 0.5, Src: rng}
	w := len(strconv.Itoa(vd.Features))
	for j := 0; j < vd.Features; j++ {
		f := fmt.Sprintf("f%0*d", w, j+1)
		freq := make([]float64, clusters)
		for k := range freq {
			freq[k] = beta.Rand()
		}
		for i, it := range items {
			bern := distuv.Bernoulli{P: freq[truth[i]], Src: rng}
			if err := v.Add(it, f, bern.Rand()); err != nil {
				return nil, err
			}
		}
	}
	return v, nil
}
