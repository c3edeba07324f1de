// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package run implements a command to run
// the sampling chains of an MDI project.
package run

import (
	"encoding/csv"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/mdi/infer/mdi"
	"github.com/js-arias/mdi/project"
)

var Command = &command.Command{
	Usage: `run [--chains <number>] [--cpu <number>]
	[--seed <value>] [-o|--output <prefix>]
	<project-file>`,
	Short: "run the sampling chains of a project",
	Long: `
Command run reads an MDI project, runs a number of independent sampling
chains over the joint clustering of the data views of the project, and
writes the retained samples.

The argument of the command is the name of the project file. The project
must have a data view file; the cluster labels and the sampling parameters
are used if defined. To change the sampling parameters of a project use the
command 'mdi param'.

The number of chains is read from the sampling parameters; use the flag
--chains to run a different number. Each chain is seeded with the base seed
plus the chain number; use the flag --seed to define a different base seed
for this run.

By default, all available CPUs will be used to run chains in parallel. Set
the --cpu flag to use a different number of CPUs.

For each chain, the seed, the number of retained samples, and the running
time are printed to the standard output. Concordance proposals with an
acceptance rate outside of [0.1,0.9] are reported as a warning, as the
concordance samples might be unreliable. A failed chain is reported and
discarded; its samples are not written.

The sampled cluster assignments will be written to the file
'<project>-chain.tab', with the fields chain, iteration, view, item, and
label. If the project has more than one view, the sampled concordances will
be written to the file '<project>-phi.tab', with the fields chain,
iteration, views, and phi, where views is the pair of view names separated
by "--". If the flag -o, or --output, is defined, the indicated prefix will
be used instead of the project name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var numChains int
var numCPU int
var seed int64
var output string

func setFlags(c *command.Command) {
	c.Flags().IntVar(&numChains, "chains", 0, "")
	c.Flags().IntVar(&numCPU, "cpu", runtime.GOMAXPROCS(0), "")
	c.Flags().Int64Var(&seed, "seed", 0, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	coll, err := p.DataViews()
	if err != nil {
		return err
	}
	l, err := p.ClusterLabels()
	if err != nil {
		return err
	}
	mp, err := p.SampleParams()
	if err != nil {
		return err
	}

	param := mdi.Param{
		Data:       coll,
		Labels:     l,
		Iterations: mp.Iterations(),
		BurnIn:     mp.BurnIn(),
		Thin:       mp.Thin(),
		Alpha:      mp.Alpha(),
		PhiShape:   mp.PhiShape(),
		PhiRate:    mp.PhiRate(),
		Step:       mp.Step(),
		Seed:       mp.Seed(),
	}
	if seed != 0 {
		param.Seed = seed
	}
	chains := mp.Chains()
	if numChains > 0 {
		chains = numChains
	}

	// validate the parameters
	// and fix the order of views,
	// items,
	// and pairs used by the samples
	ch, err := mdi.New(param)
	if err != nil {
		return err
	}
	views := ch.Views()
	items := ch.Items()
	pairs := ch.Pairs()

	res := mdi.RunChains(param, chains, numCPU)
	ok := 0
	for _, r := range res {
		if r.Err != nil {
			fmt.Fprintf(c.Stdout(), "chain %d: error: %v\n", r.Chain, r.Err)
			continue
		}
		ok++
		fmt.Fprintf(c.Stdout(), "chain %d: seed %d: %d samples [%v]\n", r.Chain, r.Seed, len(r.Samples), r.Time)
		for i, a := range r.Accept {
			if a < 0.1 || a > 0.9 {
				fmt.Fprintf(c.Stdout(), "chain %d: views %s--%s: acceptance rate %.3f\n", r.Chain, pairs[i][0], pairs[i][1], a)
			}
		}
	}
	if ok == 0 {
		return fmt.Errorf("project %q: all chains failed", args[0])
	}
	if ok < len(res) {
		fmt.Fprintf(c.Stdout(), "%d of %d chains failed\n", len(res)-ok, len(res))
	}

	prefix := args[0]
	if output != "" {
		prefix = output
	}

	name := fmt.Sprintf("%s-chain.tab", prefix)
	if err := writeChains(name, args[0], views, items, res); err != nil {
		return err
	}

	if len(pairs) > 0 {
		name := fmt.Sprintf("%s-phi.tab", prefix)
		if err := writePhi(name, args[0], pairs, res); err != nil {
			return err
		}
	}
	return nil
}

func writeChains(name, p string, views, items []string, res []mdi.Result) (err error) {
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

	fmt.Fprintf(f, "# sampled cluster assignments of project %q\n", p)
	fmt.Fprintf(f, "# date: %s\n", time.Now().Format(time.RFC3339))

	tsv := csv.NewWriter(f)
	tsv.Comma = '\t'
	tsv.UseCRLF = true
	if err := tsv.Write([]string{"chain", "iteration", "view", "item", "label"}); err != nil {
		return fmt.Errorf("unable to write header to %q: %v", name, err)
	}

	for _, r := range res {
		if r.Err != nil {
			continue
		}
		cv := strconv.Itoa(r.Chain)
		for _, s := range r.Samples {
			it := strconv.Itoa(s.Iteration)
			for vi, vn := range views {
				a := s.Allocations[vi]
				for n, item := range items {
					row := []string{
						cv,
						it,
						vn,
						item,
						strconv.Itoa(a[n]),
					}
					if err := tsv.Write(row); err != nil {
						return fmt.Errorf("unable to write data to %q: %v", name, err)
					}
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

func writePhi(name, p string, pairs [][2]string, res []mdi.Result) (err error) {
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

	fmt.Fprintf(f, "# sampled concordances of project %q\n", p)
	fmt.Fprintf(f, "# date: %s\n", time.Now().Format(time.RFC3339))

	tsv := csv.NewWriter(f)
	tsv.Comma = '\t'
	tsv.UseCRLF = true
	if err := tsv.Write([]string{"chain", "iteration", "views", "phi"}); err != nil {
		return fmt.Errorf("unable to write header to %q: %v", name, err)
	}

	names := make([]string, len(pairs))
	for i, pr := range pairs {
		names[i] = pr[0] + "--" + pr[1]
	}

	for _, r := range res {
		if r.Err != nil {
			continue
		}
		cv := strconv.Itoa(r.Chain)
		for _, s := range r.Samples {
			it := strconv.Itoa(s.Iteration)
			for i, phi := range s.Phi {
				row := []string{
					cv,
					it,
					names[i],
					strconv.FormatFloat(phi, 'f', 6, 64),
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
