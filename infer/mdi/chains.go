// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mdi

import (
	"runtime"
	"sync"
	"time"
)

// A Result is the output of an independent chain.
type Result struct {
	// Chain is the chain number,
	// starting at 1.
	Chain int

	// Seed is the seed used by the chain.
	Seed int64

	// Samples are the retained samples of the chain.
	Samples []Sample

	// Accept is the acceptance rate
	// of the concordance proposals of each view pair,
	// measured after burn-in.
	Accept []float64

	// Time is the wall clock time
	// taken by the chain.
	Time time.Duration

	// Err is the error that aborted the chain,
	// if any.
	Err error
}

// RunChains runs a number of independent chains
// with the given parameters,
// each chain with its own seed,
// and returns the results of all the chains,
// ordered by chain number.
// A failed chain reports its error in its result
// and does not disturb the other chains.
//
// Use cpu to define the number of chains
// run in parallel.
// The default (zero) uses all available CPU.
func RunChains(p Param, chains, cpu int) []Result {
	if chains < 1 {
		chains = 1
	}
	if cpu < 1 {
		cpu = runtime.NumCPU()
	}

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	res := make([]Result, chains)
	work := make(chan int, chains)
	var wg sync.WaitGroup
	wg.Add(chains)
	for range cpu {
		go func() {
			for i := range work {
				cp := p
				cp.Seed = seed + int64(i)
				res[i] = runChain(i+1, cp)
				wg.Done()
			}
		}()
	}
	for i := range chains {
		work <- i
	}
	close(work)
	wg.Wait()

	return res
}

func runChain(num int, p Param) Result {
	r := Result{
		Chain: num,
		Seed:  p.Seed,
	}
	start := time.Now()

	c, err := New(p)
	if err != nil {
		r.Err = err
		r.Time = time.Since(start)
		return r
	}
	r.Samples, r.Err = c.Run()
	r.Accept = c.Acceptance()
	r.Time = time.Since(start)
	return r
}
