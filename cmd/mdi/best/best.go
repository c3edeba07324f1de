// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package best implements a command to report
// the best sampled partition of each data view.
package best

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/mdi/labels"
	"github.com/js-arias/mdi/psm"
)

var Command = &command.Command{
	Usage: `best [--discard <value>] [-o|--output <file>]
	<chain-file>`,
	Short: "report the best sampled partition of each view",
	Long: `
Command best reads a file with sampled cluster assignments, written by the
command 'mdi run', and reports, for each data view, the sampled partition
that maximizes the average adjusted Rand index to all the other retained
samples of the view. Samples of all chains are pooled, so the point estimate
is invariant to the cluster labeling of each sample.

The argument of the command is the name of the chain file.

If the flag --discard is defined, the indicated fraction of the samples of
each chain will be discarded from the start of the chain, as an additional
burn-in.

For each view, the chain, the iteration, and the average adjusted Rand index
of the best partition are printed to the standard output. If there are two
or more views, the adjusted Rand index between the best partitions of each
pair of views is also printed, as a summary of the concordance of the views.

The best partitions will be written as a label file (with all labels
unfixed) to the file '<chain-file>-best.tab'. Use the flag -o, or --output,
to define a different file name. The resulting file can be compared with
other label files, for example the true labels of a simulation, with the
command 'mdi cmp'.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var discard float64
var output string

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&discard, "discard", 0, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting chain file")
	}
	if discard < 0 || discard >= 1 {
		return c.UsageError("flag --discard must be in [0,1)")
	}

	cd, err := readChainFile(args[0])
	if err != nil {
		return err
	}

	coll := labels.New()
	est := make(map[string][]int, len(cd.views))
	for _, vn := range cd.views {
		parts, ids, err := cd.partitions(vn, discard)
		if err != nil {
			return err
		}
		bi, score, err := psm.Best(parts)
		if err != nil {
			return fmt.Errorf("view %q: %v", vn, err)
		}

		fmt.Fprintf(c.Stdout(), "view %q: chain %d: iteration %d: mean ARI %.6f\n", vn, ids[bi].chain, ids[bi].iter, score)

		est[vn] = parts[bi]
		for n, item := range cd.items {
			if err := coll.Set(vn, item, parts[bi][n], false); err != nil {
				return err
			}
		}
	}

	for i, a := range cd.views {
		for _, b := range cd.views[i+1:] {
			r, err := psm.AdjustedRandIndex(est[a], est[b])
			if err != nil {
				return fmt.Errorf("views %s--%s: %v", a, b, err)
			}
			fmt.Fprintf(c.Stdout(), "views %s--%s: ARI %.6f\n", a, b, r)
		}
	}

	name := fmt.Sprintf("%s-best.tab", args[0])
	if output != "" {
		name = output
	}
	if err := writeLabels(name, args[0], coll); err != nil {
		return err
	}
	return nil
}

// A chainData is the content
// of a chain samples file.
type chainData struct {
	items []string
	views []string

	// view → chain → iteration → item → label
	samples map[string]map[int]map[int]map[string]int
}

// A sampleID identifies a retained sample
// by its chain and iteration.
type sampleID struct {
	chain int
	iter  int
}

var headerFields = []string{
	"chain",
	"iteration",
	"view",
	"item",
	"label",
}

func readChainFile(name string) (*chainData, error) {
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

	cd := &chainData{
		samples: make(map[string]map[int]map[int]map[string]int),
	}
	items := make(map[string]bool)
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

		f = "view"
		vn := strings.Join(strings.Fields(strings.ToLower(row[fields[f]])), " ")
		if vn == "" {
			continue
		}

		f = "item"
		item := strings.Join(strings.Fields(row[fields[f]]), " ")
		if item == "" {
			continue
		}

		f = "label"
		l, err := strconv.Atoi(strings.TrimSpace(row[fields[f]]))
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: field %q: %v", name, ln, f, err)
		}
		if l < 1 {
			return nil, fmt.Errorf("on file %q: on row %d: field %q: got label %d, want 1 or greater", name, ln, f, l)
		}

		v, ok := cd.samples[vn]
		if !ok {
			v = make(map[int]map[int]map[string]int)
			cd.samples[vn] = v
		}
		cc, ok := v[ch]
		if !ok {
			cc = make(map[int]map[string]int)
			v[ch] = cc
		}
		s, ok := cc[it]
		if !ok {
			s = make(map[string]int)
			cc[it] = s
		}
		s[item] = l
		items[item] = true
	}
	if len(cd.samples) == 0 {
		return nil, fmt.Errorf("on file %q: while reading data: %v", name, io.EOF)
	}

	for it := range items {
		cd.items = append(cd.items, it)
	}
	slices.Sort(cd.items)
	for vn := range cd.samples {
		cd.views = append(cd.views, vn)
	}
	slices.Sort(cd.views)

	return cd, nil
}

// Partitions returns the sampled partitions of a view,
// with the chain and iteration of each partition,
// ordered by chain and iteration,
// after discarding the indicated fraction
// of the samples of each chain.
func (cd *chainData) partitions(view string, discard float64) ([][]int, []sampleID, error) {
	v := cd.samples[view]

	chains := make([]int, 0, len(v))
	for ch := range v {
		chains = append(chains, ch)
	}
	slices.Sort(chains)

	var parts [][]int
	var ids []sampleID
	for _, ch := range chains {
		cc := v[ch]
		its := make([]int, 0, len(cc))
		for it := range cc {
			its = append(its, it)
		}
		slices.Sort(its)
		its = its[int(discard*float64(len(its))):]

		for _, it := range its {
			s := cc[it]
			p := make([]int, len(cd.items))
			for n, item := range cd.items {
				l, ok := s[item]
				if !ok {
					return nil, nil, fmt.Errorf("view %q: chain %d: iteration %d: item %q: missing label", view, ch, it, item)
				}
				p[n] = l
			}
			parts = append(parts, p)
			ids = append(ids, sampleID{chain: ch, iter: it})
		}
	}
	return parts, ids, nil
}

func writeLabels(name, chainFile string, coll *labels.Collection) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	fmt.Fprintf(f, "# best sampled partitions of chain file %q\n", chainFile)
	fmt.Fprintf(f, "# date: %s\n", time.Now().Format(time.RFC3339))
	if err := coll.TSV(f); err != nil {
		return fmt.Errorf("while writing %q: %v", name, err)
	}
	return nil
}
