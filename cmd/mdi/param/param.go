// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package param implements a command to manage
// the sampling parameters of an MDI project.
package param

import (
	"fmt"
	"io"

	"github.com/js-arias/command"
	"github.com/js-arias/mdi/mdiparam"
	"github.com/js-arias/mdi/project"
)

var Command = &command.Command{
	Usage: `param [--add <param-file>] [--file <file-name>]
	[--iter <value>] [--burn <value>] [--thin <value>]
	[--chains <value>] [--alpha <value>]
	[--phishape <value>] [--phirate <value>]
	[--step <value>] [--seed <value>]
	<project-file>`,
	Short: "manage the sampling parameters",
	Long: `
Command param manages the parameters of the sampler defined for an MDI
project. These parameters define the schedule of each chain, the number of
chains, and the priors of the model.

The argument of the command is the name of the project file.

By default, the command will print the currently defined parameters.

If the flag --add is defined, it will use the indicated file for the
sampling parameters.

By default, any change on the parameters will be stored in the current
parameters file. Use the flag --file to define a new parameters file.

The schedule of a chain is defined with the flag --iter for the number of
iterations (10000 by default); the flag --burn for the fraction of the
iterations discarded at the start of the chain, a value in [0,1) (0.2 by
default); and the flag --thin for the iteration period used to retain
samples (1 by default, all post burn-in iterations are retained). The number
of independent chains is defined with the flag --chains (4 by default).

The flag --alpha defines the mass parameter of the Dirichlet prior on the
component weights of each view (1 by default). The flags --phishape and
--phirate define the gamma prior of the concordance of each pair of views (1
and 0.2 by default). The flag --step defines the initial size of the
concordance proposals (1 by default); during burn-in the step is adjusted
automatically.

The flag --seed defines the seed of the random number generator. If the seed
is 0 (the default), the seed will be taken from the clock at run time.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var addFile string
var paramFile string
var iterations int
var burnIn float64
var thin int
var chains int
var alpha float64
var phiShape float64
var phiRate float64
var step float64
var seed int64

func setFlags(c *command.Command) {
	c.Flags().StringVar(&addFile, "add", "", "")
	c.Flags().StringVar(&paramFile, "file", "", "")
	c.Flags().IntVar(&iterations, "iter", 0, "")
	c.Flags().Float64Var(&burnIn, "burn", -1, "")
	c.Flags().IntVar(&thin, "thin", 0, "")
	c.Flags().IntVar(&chains, "chains", 0, "")
	c.Flags().Float64Var(&alpha, "alpha", 0, "")
	c.Flags().Float64Var(&phiShape, "phishape", 0, "")
	c.Flags().Float64Var(&phiRate, "phirate", 0, "")
	c.Flags().Float64Var(&step, "step", 0, "")
	c.Flags().Int64Var(&seed, "seed", -1, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	mp, err := p.SampleParams()
	if err != nil {
		return err
	}

	if addFile != "" {
		if _, err := mdiparam.Read(addFile); err != nil {
			return err
		}
		p.Add(project.Params, addFile)
		if err := p.Write(); err != nil {
			return err
		}
		return nil
	}

	if paramFile != "" {
		mp.SetName(paramFile)
	}

	ed := false
	if iterations > 0 {
		if err := mp.SetIterations(iterations); err != nil {
			return err
		}
		ed = true
	}
	if burnIn >= 0 {
		if err := mp.SetBurnIn(burnIn); err != nil {
			return err
		}
		ed = true
	}
	if thin > 0 {
		if err := mp.SetThin(thin); err != nil {
			return err
		}
		ed = true
	}
	if chains > 0 {
		if err := mp.SetChains(chains); err != nil {
			return err
		}
		ed = true
	}
	if alpha > 0 {
		if err := mp.SetAlpha(alpha); err != nil {
			return err
		}
		ed = true
	}
	if phiShape > 0 {
		if err := mp.SetPhiShape(phiShape); err != nil {
			return err
		}
		ed = true
	}
	if phiRate > 0 {
		if err := mp.SetPhiRate(phiRate); err != nil {
			return err
		}
		ed = true
	}
	if step > 0 {
		if err := mp.SetStep(step); err != nil {
			return err
		}
		ed = true
	}
	if seed >= 0 {
		mp.SetSeed(seed)
		ed = true
	}
	if ed && mp.Name() == "" {
		mp.SetName("params.tab")
	}

	if p.Path(project.Params) != mp.Name() {
		if err := mp.Write(); err != nil {
			return err
		}
		p.Add(project.Params, mp.Name())
		if err := p.Write(); err != nil {
			return err
		}
		return nil
	}
	if ed {
		if err := mp.Write(); err != nil {
			return err
		}
		return nil
	}

	printParams(c.Stdout(), mp)
	return nil
}

func printParams(w io.Writer, mp *mdiparam.MP) {
	fmt.Fprintf(w, "file:       %s\n", mp.Name())
	fmt.Fprintf(w, "iterations: %d\n", mp.Iterations())
	fmt.Fprintf(w, "burn-in:    %.6f\n", mp.BurnIn())
	fmt.Fprintf(w, "thinning:   %d\n", mp.Thin())
	fmt.Fprintf(w, "chains:     %d\n", mp.Chains())
	fmt.Fprintf(w, "alpha:      %.6f\n", mp.Alpha())
	fmt.Fprintf(w, "phi shape:  %.6f\n", mp.PhiShape())
	fmt.Fprintf(w, "phi rate:   %.6f\n", mp.PhiRate())
	fmt.Fprintf(w, "step:       %.6f\n", mp.Step())
	if s := mp.Seed(); s != 0 {
		fmt.Fprintf(w, "seed:       %d\n", s)
	}
}
