// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package psmcmd implements a command to build
// the posterior similarity matrix of each data view
// from a file with sampled cluster assignments.
package psmcmd

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
	"github.com/js-arias/mdi/psm"
)

var Command = &command.Command{
	Usage: `psm [--discard <value>] [-o|--output <file>]
	<chain-file>`,
	Short: "build posterior similarity matrices",
	Long: `
Command psm reads a file with sampled cluster assignments, written by the
command 'mdi run', and builds the posterior similarity matrix of each data
view: the fraction of the retained samples in which each pair of items is
assigned to the same cluster. Samples of all chains are pooled.

The argument of the command is the name of the chain file.

If the flag --discard is defined, the indicated fraction of the samples of
each chain will be discarded from the start of the chain, as an additional
burn-in.

The matrices will be written to the file '<chain-file>-psm.tab', with the
fields view, item, other, and value; both symmetric entries are written. Use
the flag -o, or --output, to define a different file name.
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

	name := fmt.Sprintf("%s-psm.tab", args[0])
	if output != "" {
		name = output
	}
	if err := writePSM(name, args[0], cd); err != nil {
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
// ordered by chain and iteration,
// after discarding the indicated fraction
// of the samples of each chain.
func (cd *chainData) partitions(view string, discard float64) ([][]int, error) {
	v := cd.samples[view]

	chains := make([]int, 0, len(v))
	for ch := range v {
		chains = append(chains, ch)
	}
	slices.Sort(chains)

	var parts [][]int
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
					return nil, fmt.Errorf("view %q: chain %d: iteration %d: item %q: missing label", view, ch, it, item)
				}
				p[n] = l
			}
			parts = append(parts, p)
		}
	}
	return parts, nil
}

func writePSM(name, chainFile string, cd *chainData) (err error) {
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

	fmt.Fprintf(f, "# posterior similarity of chain file %q\n", chainFile)
	fmt.Fprintf(f, "# date: %s\n", time.Now().Format(time.RFC3339))

	tsv := csv.NewWriter(f)
	tsv.Comma = '\t'
	tsv.UseCRLF = true
	if err := tsv.Write([]string{"view", "item", "other", "value"}); err != nil {
		return fmt.Errorf("unable to write header to %q: %v", name, err)
	}

	for _, vn := range cd.views {
		parts, err := cd.partitions(vn, discard)
		if err != nil {
			return err
		}
		m, err := psm.Similarity(parts)
		if err != nil {
			return fmt.Errorf("view %q: %v", vn, err)
		}

		for i, it := range cd.items {
			for j, other := range cd.items {
				row := []string{
					vn,
					it,
					other,
					strconv.FormatFloat(m.At(i, j), 'f', 6, 64),
				}
				if err := tsv.Write(row); err != nil {
					return fmt.Errorf("unable to write data to %q: %v", name, err)
				}
			}
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("unable to write data to %q: %v", name, err)
	}
	return nil
}
