// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package trace implements a command to plot
// the sampled concordances of a run.
package trace

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/js-arias/blind"
	"github.com/js-arias/command"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var Command = &command.Command{
	Usage: `trace [--bins <number>] [-o|--output <prefix>]
	<phi-file>`,
	Short: "plot the sampled concordances of a run",
	Long: `
Command trace reads a file with sampled concordances, written by the command
'mdi run', and plots, for each pair of views, the trace of the sampled
values along the iterations, with a line per chain, and a histogram of the
pooled samples.

The argument of the command is the name of the phi file.

Well mixed chains give traces that overlap and move freely around a common
value; a trace stuck on a value, or chains at different levels, indicate
that more iterations, or a longer burn-in, are required.

By default, the histogram uses 20 bins. Use the flag --bins to define a
different number.

The plots will be written to the files '<phi-file>-<views>-trace.png' and
'<phi-file>-<views>-hist.png', one pair of files for each pair of views. If
the flag -o, or --output, is defined, the indicated prefix will be used
instead of the phi file name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var bins int
var output string

func setFlags(c *command.Command) {
	c.Flags().IntVar(&bins, "bins", 20, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting phi file")
	}
	if bins < 1 {
		return c.UsageError("flag --bins must be 1 or greater")
	}

	pd, err := readPhiFile(args[0])
	if err != nil {
		return err
	}

	prefix := args[0]
	if output != "" {
		prefix = output
	}

	for _, pn := range pd.pairs {
		if err := tracePlot(prefix, pn, pd.samples[pn]); err != nil {
			return err
		}
		if err := histPlot(prefix, pn, pd.samples[pn]); err != nil {
			return err
		}
	}
	return nil
}

// A phiSample is a sampled concordance value
// at a given iteration.
type phiSample struct {
	iter int
	phi  float64
}

// A phiData is the content of a phi samples file.
type phiData struct {
	pairs []string

	// pair → chain → samples
	samples map[string]map[int][]phiSample
}

var headerFields = []string{
	"chain",
	"iteration",
	"views",
	"phi",
}

func readPhiFile(name string) (*phiData, error) {
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
		return nil, fmt.Errorf("on file %q: while reading header: %v", name, err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range headerFields {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("on file %q: expecting field %q", name, h)
		}
	}

	pd := &phiData{
		samples: make(map[string]map[int][]phiSample),
	}
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
		}

		f := "chain"
		ch, err := strconv.Atoi(strings.TrimSpace(row[fields[f]]))
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: field %q: %v", name, ln, f, err)
		}

		f = "iteration"
		it, err := strconv.Atoi(strings.TrimSpace(row[fields[f]]))
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: field %q: %v", name, ln, f, err)
		}

		f = "views"
		pn := strings.Join(strings.Fields(strings.ToLower(row[fields[f]])), " ")
		if pn == "" {
			continue
		}

		f = "phi"
		phi, err := strconv.ParseFloat(row[fields[f]], 64)
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: field %q: %v", name, ln, f, err)
		}
		if phi < 0 {
			return nil, fmt.Errorf("on file %q: on row %d: field %q: got %.6f, want 0 or greater", name, ln, f, phi)
		}

		p, ok := pd.samples[pn]
		if !ok {
			p = make(map[int][]phiSample)
			pd.samples[pn] = p
		}
		p[ch] = append(p[ch], phiSample{iter: it, phi: phi})
	}
	if len(pd.samples) == 0 {
		return nil, fmt.Errorf("on file %q: while reading data: %v", name, io.EOF)
	}

	for pn, p := range pd.samples {
		pd.pairs = append(pd.pairs, pn)
		for _, sp := range p {
			slices.SortFunc(sp, func(a, b phiSample) int {
				return cmp.Compare(a.iter, b.iter)
			})
		}
	}
	slices.Sort(pd.pairs)

	return pd, nil
}

func tracePlot(prefix, pair string, samples map[int][]phiSample) error {
	p := plot.New()
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "phi"

	chains := make([]int, 0, len(samples))
	for ch := range samples {
		chains = append(chains, ch)
	}
	slices.Sort(chains)

	for i, ch := range chains {
		sp := samples[ch]
		xys := make(plotter.XYs, len(sp))
		for j, s := range sp {
			xys[j].X = float64(s.iter)
			xys[j].Y = s.phi
		}

		l, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("while building plot: %v", err)
		}
		v := 0.0
		if len(chains) > 1 {
			v = float64(i) / float64(len(chains)-1)
		}
		l.LineStyle.Color = blind.Sequential(blind.RainbowPurpleToRed, v)
		p.Add(l)
	}

	name := fmt.Sprintf("%s-%s-trace.png", prefix, pair)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, name); err != nil {
		return err
	}
	return nil
}

func histPlot(prefix, pair string, samples map[int][]phiSample) error {
	p := plot.New()
	p.X.Label.Text = "phi"
	p.Y.Label.Text = "samples"

	var vals plotter.Values
	for _, sp := range samples {
		for _, s := range sp {
			vals = append(vals, s.phi)
		}
	}

	h, err := plotter.NewHist(vals, bins)
	if err != nil {
		return fmt.Errorf("while building plot: %v", err)
	}
	p.Add(h)

	name := fmt.Sprintf("%s-%s-hist.png", prefix, pair)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, name); err != nil {
		return err
	}
	return nil
}
