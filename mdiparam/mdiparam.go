// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mdiparam implements reading and writing
// of the parameters used to sample
// an integrative clustering.
package mdiparam

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Param is a keyword to identify
// the type of parameter in an mdiParam file.
type Param string

// Valid parameters
const (
	// Iterations is the number of iterations
	// run by each chain.
	Iterations Param = "iterations"

	// BurnIn is the fraction of the iterations
	// discarded at the start of each chain.
	BurnIn Param = "burnin"

	// Thin is the iteration period
	// used to retain samples.
	Thin Param = "thin"

	// Chains is the number of independent chains.
	Chains Param = "chains"

	// Alpha is the mass parameter
	// of the Dirichlet prior
	// on the component weights.
	Alpha Param = "alpha"

	// PhiShape is the shape parameter
	// of the gamma prior
	// on the view concordance.
	PhiShape Param = "phishape"

	// PhiRate is the rate parameter
	// of the gamma prior
	// on the view concordance.
	PhiRate Param = "phirate"

	// Step is the initial size
	// of the concordance proposals.
	Step Param = "step"

	// Seed is the seed of the random number generator.
	// If zero,
	// the seed will be taken from the current time.
	Seed Param = "seed"
)

// MP represents a collection of sampling parameters
// for an integrative clustering.
type MP struct {
	name string // file name

	// chain schedule
	it     int
	burn   float64
	thin   int
	chains int

	// priors
	alpha    float64
	phiShape float64
	phiRate  float64

	// proposals
	step float64

	seed int64
}

// New creates a new parameter collection
// with default values.
func New(name string) *MP {
	return &MP{
		name:     name,
		it:       10_000,
		burn:     0.2,
		thin:     1,
		chains:   4,
		alpha:    1,
		phiShape: 1,
		phiRate:  0.2,
		step:     1,
	}
}

var header = []string{
	"parameter",
	"value",
}

// Read reads an mdiParam file from a TSV file.
//
// The TSV must contain the following fields:
//
//   - parameter, the name of the parameter
//   - value, the value of the parameter
//
// Here is an example file:
//
//	# mdi sampling parameters
//	parameter	value
//	iterations	10000
//	burnin	0.200000
//	thin	1
//	chains	4
//	alpha	1.000000
//	phishape	1.000000
//	phirate	0.200000
//	step	1.000000
//	seed	0
func Read(name string) (*MP, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tsv := csv.NewReader(f)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("on file %q: header: %v", name, err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("on file %q: expecting field %q", name, h)
		}
	}

	mp := New(name)
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
		}

		f := "parameter"
		p := Param(strings.ToLower(row[fields[f]]))

		f = "value"
		switch p {
		case Iterations:
			v, err := strconv.Atoi(row[fields[f]])
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			if err := mp.SetIterations(v); err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
		case BurnIn:
			v, err := strconv.ParseFloat(row[fields[f]], 64)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			if err := mp.SetBurnIn(v); err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
		case Thin:
			v, err := strconv.Atoi(row[fields[f]])
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			if err := mp.SetThin(v); err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
		case Chains:
			v, err := strconv.Atoi(row[fields[f]])
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			if err := mp.SetChains(v); err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
		case Alpha:
			v, err := strconv.ParseFloat(row[fields[f]], 64)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			if err := mp.SetAlpha(v); err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
		case PhiShape:
			v, err := strconv.ParseFloat(row[fields[f]], 64)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			if err := mp.SetPhiShape(v); err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
		case PhiRate:
			v, err := strconv.ParseFloat(row[fields[f]], 64)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			if err := mp.SetPhiRate(v); err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
		case Step:
			v, err := strconv.ParseFloat(row[fields[f]], 64)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			if err := mp.SetStep(v); err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
		case Seed:
			v, err := strconv.ParseInt(row[fields[f]], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			mp.SetSeed(v)
		}
	}
	return mp, nil
}

// Alpha returns the mass parameter
// of the Dirichlet prior
// on the component weights.
func (mp *MP) Alpha() float64 {
	return mp.alpha
}

// BurnIn returns the fraction of the iterations
// discarded at the start of each chain.
func (mp *MP) BurnIn() float64 {
	return mp.burn
}

// Chains returns the number of independent chains.
func (mp *MP) Chains() int {
	return mp.chains
}

// Iterations returns the number of iterations
// run by each chain.
func (mp *MP) Iterations() int {
	return mp.it
}

// Name returns the name used for a set
// of sampling parameters.
func (mp *MP) Name() string {
	return mp.name
}

// PhiRate returns the rate parameter
// of the gamma prior
// on the view concordance.
func (mp *MP) PhiRate() float64 {
	return mp.phiRate
}

// PhiShape returns the shape parameter
// of the gamma prior
// on the view concordance.
func (mp *MP) PhiShape() float64 {
	return mp.phiShape
}

// Seed returns the seed of the random number generator.
func (mp *MP) Seed() int64 {
	return mp.seed
}

// Step returns the initial size
// of the concordance proposals.
func (mp *MP) Step() float64 {
	return mp.step
}

// Thin returns the iteration period
// used to retain samples.
func (mp *MP) Thin() int {
	return mp.thin
}

// SetAlpha sets the mass parameter
// of the Dirichlet prior
// on the component weights.
func (mp *MP) SetAlpha(a float64) error {
	if a <= 0 {
		return fmt.Errorf("invalid alpha value: %.6f", a)
	}
	mp.alpha = a
	return nil
}

// SetBurnIn sets the fraction of the iterations
// discarded at the start of each chain.
func (mp *MP) SetBurnIn(b float64) error {
	if b < 0 || b >= 1 {
		return fmt.Errorf("invalid burn-in value: %.6f", b)
	}
	mp.burn = b
	return nil
}

// SetChains sets the number of independent chains.
func (mp *MP) SetChains(c int) error {
	if c < 1 {
		return fmt.Errorf("invalid chains value: %d", c)
	}
	mp.chains = c
	return nil
}

// SetIterations sets the number of iterations
// run by each chain.
func (mp *MP) SetIterations(it int) error {
	if it < 1 {
		return fmt.Errorf("invalid iterations value: %d", it)
	}
	mp.it = it
	return nil
}

// SetName sets the name of a parameter collection.
func (mp *MP) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	mp.name = name
}

// SetPhiRate sets the rate parameter
// of the gamma prior
// on the view concordance.
func (mp *MP) SetPhiRate(r float64) error {
	if r <= 0 {
		return fmt.Errorf("invalid rate value: %.6f", r)
	}
	mp.phiRate = r
	return nil
}

// SetPhiShape sets the shape parameter
// of the gamma prior
// on the view concordance.
func (mp *MP) SetPhiShape(s float64) error {
	if s <= 0 {
		return fmt.Errorf("invalid shape value: %.6f", s)
	}
	mp.phiShape = s
	return nil
}

// SetSeed sets the seed of the random number generator.
func (mp *MP) SetSeed(s int64) {
	mp.seed = s
}

// SetStep sets the initial size
// of the concordance proposals.
func (mp *MP) SetStep(s float64) error {
	if s <= 0 {
		return fmt.Errorf("invalid step value: %.6f", s)
	}
	mp.step = s
	return nil
}

// SetThin sets the iteration period
// used to retain samples.
func (mp *MP) SetThin(t int) error {
	if t < 1 {
		return fmt.Errorf("invalid thin value: %d", t)
	}
	mp.thin = t
	return nil
}

// Write writes a parameter collection into a file.
func (mp *MP) Write() (err error) {
	f, err := os.Create(mp.name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# mdi sampling parameters\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("on file %q: while writing header: %v", mp.name, err)
	}

	rows := [][]string{
		{string(Iterations), strconv.Itoa(mp.it)},
		{string(BurnIn), strconv.FormatFloat(mp.burn, 'f', 6, 64)},
		{string(Thin), strconv.Itoa(mp.thin)},
		{string(Chains), strconv.Itoa(mp.chains)},
		{string(Alpha), strconv.FormatFloat(mp.alpha, 'f', 6, 64)},
		{string(PhiShape), strconv.FormatFloat(mp.phiShape, 'f', 6, 64)},
		{string(PhiRate), strconv.FormatFloat(mp.phiRate, 'f', 6, 64)},
		{string(Step), strconv.FormatFloat(mp.step, 'f', 6, 64)},
		{string(Seed), strconv.FormatInt(mp.seed, 10)},
	}
	for _, row := range rows {
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("on file %q: %v", mp.name, err)
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", mp.name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", mp.name, err)
	}
	return nil
}
