// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mixture provides the component families
// used to model the items assigned to a cluster
// of a data view.
//
// Component parameters are updated by Gibbs sampling,
// drawing from the conditional posterior
// given the items assigned to the component,
// so each family is paired with its conjugate prior.
package mixture

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrNumeric is the error used
// when a sampled parameter degenerates
// into an invalid number.
var ErrNumeric = errors.New("numerical error")

// Bounds for sampled parameters
// to keep the log likelihood finite.
const (
	minPrec = 1e-8
	maxPrec = 1e8
	minFreq = 1e-8
	minVar  = 1e-8
)

// A Component is a mixture component,
// the model of the items assigned to a single cluster
// of a data view.
type Component interface {
	// LogProb returns the log probability
	// of an observation row.
	LogProb(x []float64) float64

	// Resample draws new component parameters
	// from the conditional posterior
	// given the observation rows
	// currently assigned to the component.
	// With no observations
	// the parameters are drawn from the prior.
	Resample(obs [][]float64) error
}

// NormalGamma is the conjugate prior
// for the per feature mean and precision
// of a Gaussian component.
type NormalGamma struct {
	Mean  []float64 // location of the mean, per feature
	Kappa float64   // strength of the mean prior, in pseudo-observations
	Shape float64   // shape of the gamma prior on the precision
	Rate  []float64 // rate of the gamma prior on the precision, per feature
}

func (p NormalGamma) validate() error {
	if len(p.Mean) == 0 {
		return fmt.Errorf("undefined prior mean")
	}
	if len(p.Rate) != len(p.Mean) {
		return fmt.Errorf("got %d rate values, want %d", len(p.Rate), len(p.Mean))
	}
	if p.Kappa <= 0 {
		return fmt.Errorf("invalid kappa value: %.6g", p.Kappa)
	}
	if p.Shape <= 0 {
		return fmt.Errorf("invalid shape value: %.6g", p.Shape)
	}
	for j, m := range p.Mean {
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return fmt.Errorf("feature %d: invalid mean value", j)
		}
		if r := p.Rate[j]; r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("feature %d: invalid rate value", j)
		}
	}
	return nil
}

// EmpiricalNormalGamma returns a weakly informative prior
// for a Gaussian component,
// centered on the moments of a full data view.
func EmpiricalNormalGamma(obs [][]float64) (NormalGamma, error) {
	if len(obs) == 0 {
		return NormalGamma{}, fmt.Errorf("no observations")
	}
	nf := len(obs[0])
	if nf == 0 {
		return NormalGamma{}, fmt.Errorf("no features")
	}

	p := NormalGamma{
		Mean:  make([]float64, nf),
		Kappa: 0.01,
		Shape: 2,
		Rate:  make([]float64, nf),
	}
	col := make([]float64, len(obs))
	for j := 0; j < nf; j++ {
		for i, x := range obs {
			col[i] = x[j]
		}
		m := stat.Mean(col, nil)
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return NormalGamma{}, fmt.Errorf("feature %d: invalid mean", j)
		}
		v := stat.Variance(col, nil)
		if math.IsNaN(v) || v < minVar {
			v = minVar
		}
		p.Mean[j] = m
		p.Rate[j] = v
	}
	return p, nil
}

// A Gaussian is a mixture component
// for continuous features,
// with an independent mean and precision
// per feature.
type Gaussian struct {
	prior NormalGamma
	src   rand.Source

	mean []float64
	prec []float64
}

// NewGaussian creates a Gaussian component
// with parameters drawn from the prior.
func NewGaussian(prior NormalGamma, src rand.Source) (*Gaussian, error) {
	if err := prior.validate(); err != nil {
		return nil, fmt.Errorf("gaussian component: %v", err)
	}

	g := &Gaussian{
		prior: prior,
		src:   src,
		mean:  make([]float64, len(prior.Mean)),
		prec:  make([]float64, len(prior.Mean)),
	}
	if err := g.Resample(nil); err != nil {
		return nil, err
	}
	return g, nil
}

// LogProb returns the log probability density
// of an observation row.
func (g *Gaussian) LogProb(x []float64) float64 {
	lp := 0.0
	for j, m := range g.mean {
		d := x[j] - m
		lp += 0.5*math.Log(g.prec[j]/(2*math.Pi)) - 0.5*g.prec[j]*d*d
	}
	return lp
}

// Resample draws new means and precisions
// from the Normal-Gamma posterior
// given the assigned observation rows.
func (g *Gaussian) Resample(obs [][]float64) error {
	n := float64(len(obs))
	for j := range g.mean {
		mean := 0.0
		for _, x := range obs {
			mean += x[j]
		}
		if n > 0 {
			mean /= n
		}
		ss := 0.0
		for _, x := range obs {
			d := x[j] - mean
			ss += d * d
		}

		kappa := g.prior.Kappa + n
		loc := (g.prior.Kappa*g.prior.Mean[j] + n*mean) / kappa
		shape := g.prior.Shape + n/2
		d := mean - g.prior.Mean[j]
		rate := g.prior.Rate[j] + ss/2 + g.prior.Kappa*n*d*d/(2*kappa)
		if math.IsNaN(rate) || rate <= 0 {
			return fmt.Errorf("%w: gaussian component: feature %d: invalid posterior rate", ErrNumeric, j)
		}

		gamma := distuv.Gamma{Alpha: shape, Beta: rate, Src: g.src}
		prec := gamma.Rand()
		if math.IsNaN(prec) {
			return fmt.Errorf("%w: gaussian component: feature %d: invalid precision", ErrNumeric, j)
		}
		if prec < minPrec {
			prec = minPrec
		}
		if prec > maxPrec {
			prec = maxPrec
		}

		normal := distuv.Normal{Mu: loc, Sigma: 1 / math.Sqrt(kappa*prec), Src: g.src}
		m := normal.Rand()
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return fmt.Errorf("%w: gaussian component: feature %d: invalid mean", ErrNumeric, j)
		}

		g.mean[j] = m
		g.prec[j] = prec
	}
	return nil
}

// Mean returns the current mean,
// per feature,
// of the component.
func (g *Gaussian) Mean() []float64 {
	m := make([]float64, len(g.mean))
	copy(m, g.mean)
	return m
}

// Precision returns the current precision,
// per feature,
// of the component.
func (g *Gaussian) Precision() []float64 {
	p := make([]float64, len(g.prec))
	copy(p, g.prec)
	return p
}

// Beta is the conjugate prior
// for the per feature frequencies
// of a Bernoulli component.
type Beta struct {
	A float64 // pseudo-count of present features
	B float64 // pseudo-count of absent features
}

func (p Beta) validate() error {
	if p.A <= 0 || math.IsNaN(p.A) || math.IsInf(p.A, 0) {
		return fmt.Errorf("invalid pseudo-count a: %.6g", p.A)
	}
	if p.B <= 0 || math.IsNaN(p.B) || math.IsInf(p.B, 0) {
		return fmt.Errorf("invalid pseudo-count b: %.6g", p.B)
	}
	return nil
}

// JeffreysBeta returns the Jeffreys prior
// for a Bernoulli component.
func JeffreysBeta() Beta {
	return Beta{A: 0.5, B: 0.5}
}

// A Bernoulli is a mixture component
// for binary features,
// with an independent frequency per feature.
type Bernoulli struct {
	prior Beta
	src   rand.Source

	prob []float64
}

// NewBernoulli creates a Bernoulli component
// for a given number of features,
// with frequencies drawn from the prior.
func NewBernoulli(prior Beta, features int, src rand.Source) (*Bernoulli, error) {
	if err := prior.validate(); err != nil {
		return nil, fmt.Errorf("bernoulli component: %v", err)
	}
	if features < 1 {
		return nil, fmt.Errorf("bernoulli component: got %d features, want at least 1", features)
	}

	b := &Bernoulli{
		prior: prior,
		src:   src,
		prob:  make([]float64, features),
	}
	if err := b.Resample(nil); err != nil {
		return nil, err
	}
	return b, nil
}

// LogProb returns the log probability
// of an observation row
// of binary values.
func (b *Bernoulli) LogProb(x []float64) float64 {
	lp := 0.0
	for j, p := range b.prob {
		if x[j] != 0 {
			lp += math.Log(p)
			continue
		}
		lp += math.Log(1 - p)
	}
	return lp
}

// Resample draws new frequencies
// from the Beta posterior
// given the assigned observation rows.
func (b *Bernoulli) Resample(obs [][]float64) error {
	n := float64(len(obs))
	for j := range b.prob {
		ones := 0.0
		for _, x := range obs {
			if x[j] != 0 {
				ones++
			}
		}

		beta := distuv.Beta{
			Alpha: b.prior.A + ones,
			Beta:  b.prior.B + n - ones,
			Src:   b.src,
		}
		p := beta.Rand()
		if math.IsNaN(p) {
			return fmt.Errorf("%w: bernoulli component: feature %d: invalid frequency", ErrNumeric, j)
		}
		if p < minFreq {
			p = minFreq
		}
		if p > 1-minFreq {
			p = 1 - minFreq
		}
		b.prob[j] = p
	}
	return nil
}

// Prob returns the current frequency,
// per feature,
// of the component.
func (b *Bernoulli) Prob() []float64 {
	p := make([]float64, len(b.prob))
	copy(p, b.prob)
	return p
}
