// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mdi

import (
	"fmt"
	"math"

	"github.com/js-arias/mdi/mixture"
	"gonum.org/v1/gonum/stat/distmv"
)

// Step runs a full iteration of the chain:
// allocations,
// weights,
// and component parameters of each view,
// and the concordance of each view pair.
// During burn-in,
// with tune set,
// the concordance proposals are adjusted
// to keep their acceptance rate.
func (c *Chain) step(tune bool) error {
	for i := range c.views {
		c.allocUpdate(i)
	}
	for _, v := range c.views {
		if err := c.weightUpdate(v); err != nil {
			return err
		}
	}
	for _, v := range c.views {
		if err := v.compUpdate(); err != nil {
			return err
		}
	}
	for _, p := range c.pairs {
		c.phiUpdate(p)
		if tune && p.try >= tuneEvery {
			p.tuneStep()
		}
	}
	return nil
}

// AllocUpdate resamples the cluster assignment
// of every unpinned item of a view
// from its full conditional:
// the component weight,
// the probability of the item observations
// under the component,
// and the concordance with the assignments
// of the item in the other views.
func (c *Chain) allocUpdate(i int) {
	v := c.views[i]
	for n := range v.alloc {
		if v.fixed[n] {
			continue
		}

		x := v.obs[n]
		for k := range v.score {
			v.score[k] = math.Log(v.weights[k]) + v.comp[k].LogProb(x)
		}
		for _, p := range c.pairs {
			var o *view
			switch i {
			case p.a:
				o = c.views[p.b]
			case p.b:
				o = c.views[p.a]
			default:
				continue
			}
			k := o.alloc[n]
			if k < len(v.score) {
				v.score[k] += math.Log1p(p.phi)
			}
		}

		// scale in log space
		// and draw from the cumulative
		max := math.Inf(-1)
		for _, s := range v.score {
			if s > max {
				max = s
			}
		}
		total := 0.0
		for k, s := range v.score {
			p := math.Exp(s - max)
			v.score[k] = p
			total += p
		}

		u := c.rng.Float64() * total
		next := len(v.score) - 1
		cum := 0.0
		for k, p := range v.score {
			cum += p
			if u < cum {
				next = k
				break
			}
		}
		v.alloc[n] = next
	}
}

// WeightUpdate resamples the component weights of a view
// from the Dirichlet posterior
// given the current assignment counts.
func (c *Chain) weightUpdate(v *view) error {
	k := float64(len(v.post))
	for i := range v.post {
		v.post[i] = c.alpha / k
	}
	for _, a := range v.alloc {
		v.post[a]++
	}

	dir := distmv.NewDirichlet(v.post, c.rng)
	dir.Rand(v.weights)
	for _, w := range v.weights {
		if math.IsNaN(w) {
			return fmt.Errorf("%w: view %q: invalid weights", mixture.ErrNumeric, v.name)
		}
	}
	return nil
}

// CompUpdate resamples the parameters
// of every component of a view
// from the posterior given its assigned items.
// Components without items
// draw new parameters from the prior.
func (v *view) compUpdate() error {
	for k, comp := range v.comp {
		v.rows = v.rows[:0]
		for n, a := range v.alloc {
			if a == k {
				v.rows = append(v.rows, v.obs[n])
			}
		}
		if err := comp.Resample(v.rows); err != nil {
			return fmt.Errorf("view %q: component %d: %w", v.name, k+1, err)
		}
	}
	return nil
}

// LogLike returns the log likelihood of the observations
// given the current allocations
// and component parameters.
func (c *Chain) logLike() float64 {
	sum := 0.0
	for _, v := range c.views {
		for n, x := range v.obs {
			k := v.alloc[n]
			sum += math.Log(v.weights[k]) + v.comp[k].LogProb(x)
		}
	}
	return sum
}
