// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mdi implements multiple dataset integration,
// a Bayesian model for the joint clustering
// of several data views
// measured over a shared set of items.
//
// Each view is modeled as a finite mixture
// with its own components and weights,
// and the views are tied
// by pairwise concordance parameters,
// so the allocation of an item in a view
// raises the probability of the same allocation
// in a concordant view.
//
// The model is sampled with a Markov chain,
// using Gibbs updates for allocations,
// weights,
// and component parameters,
// and Metropolis updates for the concordances.
package mdi

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/js-arias/mdi/dataview"
	"github.com/js-arias/mdi/labels"
	"github.com/js-arias/mdi/mixture"
	"gonum.org/v1/gonum/stat/distuv"
)

// Param is a collection of parameters
// for the initialization of a sampling chain.
// Zero valued parameters are set to their defaults.
type Param struct {
	// Data is the collection of data views to be clustered.
	Data *dataview.Collection

	// Labels is an optional collection of cluster labels
	// used to initialize the chain
	// and to pin items with known assignments.
	Labels *labels.Collection

	// Iterations is the number of iterations of the chain.
	// Default: 10000.
	Iterations int

	// BurnIn is the fraction of the iterations
	// discarded at the start of the chain.
	// Default: 0.
	BurnIn float64

	// Thin is the iteration period
	// used to retain samples.
	// Default: 1.
	Thin int

	// Alpha is the mass parameter
	// of the Dirichlet prior
	// on the component weights.
	// Default: 1.
	Alpha float64

	// PhiShape and PhiRate are the parameters
	// of the gamma prior
	// on the view concordances.
	// Defaults: 1 and 0.2.
	PhiShape float64
	PhiRate  float64

	// Step is the initial size
	// of the concordance proposals.
	// Default: 1.
	Step float64

	// Seed is the seed of the random number generator.
	// If zero,
	// the seed is taken from the current time.
	Seed int64
}

// A Chain is a Markov chain
// over the joint clustering
// of a collection of data views.
type Chain struct {
	items []string
	views []*view
	pairs []*pair
	rng   *rand.Rand

	alpha    float64
	phiShape float64
	phiRate  float64

	it   int
	burn int
	thin int
	seed int64

	done bool
}

// A View is the sampling state
// of a single data view.
type view struct {
	name string
	obs  [][]float64

	comp    []mixture.Component
	weights []float64
	alloc   []int
	fixed   []bool

	// scratch buffers
	score []float64
	post  []float64
	rows  [][]float64
}

// A Pair is the sampling state
// of the concordance
// between two data views.
type pair struct {
	a, b int // view indices
	phi  float64

	step     float64
	try, acc float64
}

// New creates a new sampling chain
// for a collection of data views.
func New(p Param) (*Chain, error) {
	if p.Data == nil {
		return nil, fmt.Errorf("undefined data views")
	}
	names := p.Data.Views()
	if len(names) == 0 {
		return nil, fmt.Errorf("no data views")
	}
	items := p.Data.Items()
	if len(items) == 0 {
		return nil, fmt.Errorf("no items in data views")
	}

	if p.Iterations < 0 {
		return nil, fmt.Errorf("invalid iterations value: %d", p.Iterations)
	}
	if p.Iterations == 0 {
		p.Iterations = 10_000
	}
	if p.BurnIn < 0 || p.BurnIn >= 1 {
		return nil, fmt.Errorf("invalid burn-in value: %.6f", p.BurnIn)
	}
	if p.Thin < 0 {
		return nil, fmt.Errorf("invalid thin value: %d", p.Thin)
	}
	if p.Thin == 0 {
		p.Thin = 1
	}
	if p.Alpha < 0 {
		return nil, fmt.Errorf("invalid alpha value: %.6f", p.Alpha)
	}
	if p.Alpha == 0 {
		p.Alpha = 1
	}
	if p.PhiShape < 0 {
		return nil, fmt.Errorf("invalid shape value: %.6f", p.PhiShape)
	}
	if p.PhiShape == 0 {
		p.PhiShape = 1
	}
	if p.PhiRate < 0 {
		return nil, fmt.Errorf("invalid rate value: %.6f", p.PhiRate)
	}
	if p.PhiRate == 0 {
		p.PhiRate = 0.2
	}
	if p.Step < 0 {
		return nil, fmt.Errorf("invalid step value: %.6f", p.Step)
	}
	if p.Step == 0 {
		p.Step = 1
	}

	burn := int(p.BurnIn * float64(p.Iterations))
	if (p.Iterations-burn)/p.Thin < 1 {
		return nil, fmt.Errorf("burn-in and thinning retain no samples")
	}

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>32+1))

	c := &Chain{
		items:    items,
		views:    make([]*view, 0, len(names)),
		rng:      rng,
		alpha:    p.Alpha,
		phiShape: p.PhiShape,
		phiRate:  p.PhiRate,
		it:       p.Iterations,
		burn:     burn,
		thin:     p.Thin,
		seed:     seed,
	}

	for _, n := range names {
		v, err := newView(p.Data.View(n), items, p.Labels, rng)
		if err != nil {
			return nil, err
		}
		c.views = append(c.views, v)
	}

	prior := distuv.Gamma{Alpha: c.phiShape, Beta: c.phiRate, Src: rng}
	for i := 0; i < len(c.views); i++ {
		for j := i + 1; j < len(c.views); j++ {
			c.pairs = append(c.pairs, &pair{
				a:    i,
				b:    j,
				phi:  prior.Rand(),
				step: p.Step,
			})
		}
	}

	return c, nil
}

// NewView builds the sampling state of a data view,
// with components drawn from their priors
// and allocations taken from the labels,
// or at random for unlabeled items.
func newView(dv *dataview.View, items []string, l *labels.Collection, rng *rand.Rand) (*view, error) {
	obs, err := dv.Matrix(items)
	if err != nil {
		return nil, err
	}
	k := dv.Clusters()

	v := &view{
		name:    dv.Name(),
		obs:     obs,
		comp:    make([]mixture.Component, k),
		weights: make([]float64, k),
		alloc:   make([]int, len(items)),
		fixed:   make([]bool, len(items)),
		score:   make([]float64, k),
		post:    make([]float64, k),
		rows:    make([][]float64, 0, len(items)),
	}

	switch dv.Kind() {
	case dataview.Gaussian:
		prior, err := mixture.EmpiricalNormalGamma(obs)
		if err != nil {
			return nil, fmt.Errorf("view %q: %v", v.name, err)
		}
		for i := range v.comp {
			g, err := mixture.NewGaussian(prior, rng)
			if err != nil {
				return nil, fmt.Errorf("view %q: %v", v.name, err)
			}
			v.comp[i] = g
		}
	case dataview.Categorical:
		for i := range v.comp {
			b, err := mixture.NewBernoulli(mixture.JeffreysBeta(), len(obs[0]), rng)
			if err != nil {
				return nil, fmt.Errorf("view %q: %v", v.name, err)
			}
			v.comp[i] = b
		}
	default:
		return nil, fmt.Errorf("view %q: unknown kind %q", v.name, dv.Kind())
	}

	for i := range v.weights {
		v.weights[i] = 1 / float64(k)
	}

	for n, it := range items {
		if l != nil {
			if lb, ok := l.Label(v.name, it); ok {
				if lb.Value > k {
					return nil, fmt.Errorf("view %q: item %q: got label %d, want a label in [1,%d]", v.name, it, lb.Value, k)
				}
				v.alloc[n] = lb.Value - 1
				v.fixed[n] = lb.Fixed
				continue
			}
		}
		v.alloc[n] = rng.IntN(k)
	}

	return v, nil
}

// Run runs the chain for the configured number of iterations
// and returns the retained samples.
// A chain can only be run once.
func (c *Chain) Run() ([]Sample, error) {
	if c.done {
		return nil, fmt.Errorf("chain already run")
	}
	c.done = true

	var samples []Sample
	for t := 1; t <= c.it; t++ {
		if err := c.step(t <= c.burn); err != nil {
			return nil, fmt.Errorf("iteration %d: %w", t, err)
		}
		if t <= c.burn {
			continue
		}
		if (t-c.burn)%c.thin != 0 {
			continue
		}
		samples = append(samples, c.sample(t))
	}
	return samples, nil
}

// Items returns the items of the chain,
// in the order used by the samples.
func (c *Chain) Items() []string {
	items := make([]string, len(c.items))
	copy(items, c.items)
	return items
}

// Views returns the views of the chain,
// in the order used by the samples.
func (c *Chain) Views() []string {
	vs := make([]string, len(c.views))
	for i, v := range c.views {
		vs[i] = v.name
	}
	return vs
}

// Pairs returns the view pairs of the chain,
// in the order used by the samples.
func (c *Chain) Pairs() [][2]string {
	ps := make([][2]string, len(c.pairs))
	for i, p := range c.pairs {
		ps[i] = [2]string{c.views[p.a].name, c.views[p.b].name}
	}
	return ps
}

// Weights returns the current component weights
// of a view,
// or nil if the view is not in the chain.
func (c *Chain) Weights(name string) []float64 {
	for _, v := range c.views {
		if v.name == name {
			w := make([]float64, len(v.weights))
			copy(w, v.weights)
			return w
		}
	}
	return nil
}

// Seed returns the seed used by the chain.
func (c *Chain) Seed() int64 {
	return c.seed
}

// Acceptance returns the acceptance rate
// of the concordance proposals of each view pair,
// indexed as the pairs of the chain,
// counted after the last step adjustment.
func (c *Chain) Acceptance() []float64 {
	r := make([]float64, len(c.pairs))
	for i, p := range c.pairs {
		if p.try > 0 {
			r[i] = p.acc / p.try
		}
	}
	return r
}

// A Sample is the state of a chain
// retained at a given iteration.
type Sample struct {
	// Iteration number,
	// starting at 1.
	Iteration int

	// Allocations is the cluster assignment
	// of each item in each view,
	// indexed as the views and items of the chain.
	// Cluster labels are numbered from 1.
	Allocations [][]int

	// Phi is the concordance of each view pair,
	// indexed as the pairs of the chain.
	Phi []float64

	// LogLike is the log likelihood of the observations
	// given the sampled allocations
	// and component parameters.
	LogLike float64
}

// Sample retains the current state of the chain.
func (c *Chain) sample(t int) Sample {
	s := Sample{
		Iteration:   t,
		Allocations: make([][]int, len(c.views)),
		Phi:         make([]float64, len(c.pairs)),
		LogLike:     c.logLike(),
	}
	for i, v := range c.views {
		a := make([]int, len(v.alloc))
		for n, k := range v.alloc {
			a[n] = k + 1
		}
		s.Allocations[i] = a
	}
	for i, p := range c.pairs {
		s.Phi[i] = p.phi
	}
	return s
}
