// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mdi

import "math"

const (
	// optimal acceptance rate for a uniform window proposal
	targetAccept = 0.44

	// number of proposals between step adjustments
	tuneEvery = 100

	// bounds for the proposal step
	minStep = 0.001
	maxStep = 100
)

// PhiUpdate resamples the concordance of a view pair
// with a Metropolis step,
// using a multiplier proposal.
func (c *Chain) phiUpdate(p *pair) {
	u := c.rng.Float64()
	factor := math.Exp((u - 0.5) * p.step)
	phi := p.phi * factor

	lp := c.phiLogProb(p, p.phi)
	lpStar := c.phiLogProb(p, phi)

	p.try++
	// the proposal ratio of a multiplier move
	// is the multiplier itself
	if c.rng.Float64() < math.Exp(lpStar-lp)*factor {
		p.phi = phi
		p.acc++
	}
}

// PhiLogProb returns the log probability,
// up to a constant,
// of a concordance value for a view pair,
// given the current allocations and weights:
// the gamma prior,
// a factor for every item
// allocated to the same cluster in both views,
// and the normalization of the allocation prior
// over all the items.
func (c *Chain) phiLogProb(p *pair, phi float64) float64 {
	a := c.views[p.a]
	b := c.views[p.b]

	lp := (c.phiShape-1)*math.Log(phi) - c.phiRate*phi

	agree := 0
	for n, k := range a.alloc {
		if k == b.alloc[n] {
			agree++
		}
	}
	lp += float64(agree) * math.Log1p(phi)

	w := 0.0
	shared := min(len(a.weights), len(b.weights))
	for k := 0; k < shared; k++ {
		w += a.weights[k] * b.weights[k]
	}
	lp -= float64(len(a.alloc)) * math.Log1p(phi*w)

	return lp
}

// TuneStep adjusts the proposal step of a view pair
// towards the target acceptance rate
// and resets the acceptance counters.
func (p *pair) tuneStep() {
	rate := p.acc / p.try
	p.try = 0
	p.acc = 0

	s := math.Pi / 2
	f := math.Tan(s*rate) / math.Tan(s*targetAccept)
	if f < 0.1 {
		f = 0.1
	}
	if f > 10 {
		f = 10
	}

	p.step *= f
	if p.step < minStep {
		p.step = minStep
	}
	if p.step > maxStep {
		p.step = maxStep
	}
}
