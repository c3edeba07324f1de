// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package sim implements a command to simulate
// data views with a known cluster structure.
package sim

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/mdi/dataview"
	"github.com/js-arias/mdi/project"
	"github.com/js-arias/mdi/simulate"
)

var Command = &command.Command{
	Usage: `sim [-o|--output <prefix>]
	[--items <number>] [--clusters <number>]
	[--gaussian <number>] [--categorical <number>]
	[--features <number>] [--sep <value>]
	[--independent] [--seed <value>]
	<project-file>`,
	Short: "simulate data views",
	Long: `
Command sim creates a collection of data views with a known cluster
structure, and a file with the true cluster labels, to test and calibrate a
joint clustering analysis.

The argument of the command is the name of a project file. If the project
file does not exist, a new project will be created. The generated views will
be stored as the view file of the project; the true labels are stored on
their own file and left out of the project, so they do not influence a run.

By default, 100 items distributed in 3 clusters will be simulated. Use the
flags --items and --clusters to set different numbers.

By default, a single gaussian view with 10 features will be created. The
flags --gaussian and --categorical define the number of views of each kind,
and the flag --features the number of features on each view.

By default, all views share a single underlying partition. If the flag
--independent is defined, each view will draw its own partition, so the
views will be discordant.

In a gaussian view, cluster centers are separated by 3 units of the noise
deviation. Use the flag --sep to define a different separation.

The flag --seed defines the seed of the random number generator. If the seed
is 0 (the default), the seed will be taken from the clock, and reported on
the output files.

The views will be written to the file '<prefix>-views.tab', and the true
labels to '<prefix>-truth.tab', using "sim" as the default prefix. Use the
flag -o, or --output, to set a different prefix.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var output string
var numItems int
var numClusters int
var numGauss int
var numCat int
var numFeatures int
var sepFlag float64
var independent bool
var seed int64

func setFlags(c *command.Command) {
	c.Flags().StringVar(&output, "output", "sim", "")
	c.Flags().StringVar(&output, "o", "sim", "")
	c.Flags().IntVar(&numItems, "items", 100, "")
	c.Flags().IntVar(&numClusters, "clusters", 3, "")
	c.Flags().IntVar(&numGauss, "gaussian", 1, "")
	c.Flags().IntVar(&numCat, "categorical", 0, "")
	c.Flags().IntVar(&numFeatures, "features", 10, "")
	c.Flags().Float64Var(&sepFlag, "sep", 0, "")
	c.Flags().BoolVar(&independent, "independent", false, "")
	c.Flags().Int64Var(&seed, "seed", 0, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if numGauss < 0 || numCat < 0 || numGauss+numCat < 1 {
		return c.UsageError("expecting at least one view")
	}

	p, err := openProject(args[0])
	if err != nil {
		return err
	}

	var views []simulate.View
	for i := 0; i < numGauss; i++ {
		views = append(views, simulate.View{
			Name:     fmt.Sprintf("gauss-%d", i+1),
			Kind:     dataview.Gaussian,
			Features: numFeatures,
		})
	}
	for i := 0; i < numCat; i++ {
		views = append(views, simulate.View{
			Name:     fmt.Sprintf("cat-%d", i+1),
			Kind:     dataview.Categorical,
			Features: numFeatures,
		})
	}

	d, err := simulate.New(simulate.Param{
		Items:      numItems,
		Clusters:   numClusters,
		Views:      views,
		Concordant: !independent,
		Separation: sepFlag,
		Seed:       seed,
	})
	if err != nil {
		return err
	}

	vf := fmt.Sprintf("%s-views.tab", output)
	if err := writeViews(vf, d); err != nil {
		return err
	}
	tf := fmt.Sprintf("%s-truth.tab", output)
	if err := writeTruth(tf, d); err != nil {
		return err
	}

	p.Add(project.Views, vf)
	if err := p.Write(); err != nil {
		return err
	}

	fmt.Fprintf(c.Stdout(), "seed: %d\n", d.Seed)
	return nil
}

func openProject(name string) (*project.Project, error) {
	p, err := project.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p := project.New()
		p.SetName(name)
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable ot open project %q: %v", name, err)
	}
	return p, nil
}

func writeViews(name string, d *simulate.Data) (err error) {
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

	fmt.Fprintf(f, "# simulated data views\n")
	fmt.Fprintf(f, "# seed: %d\n", d.Seed)
	fmt.Fprintf(f, "# date: %s\n", time.Now().Format(time.RFC3339))
	if err := d.Views.TSV(f); err != nil {
		return fmt.Errorf("while writing %q: %v", name, err)
	}
	return nil
}

func writeTruth(name string, d *simulate.Data) (err error) {
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

	fmt.Fprintf(f, "# true cluster labels of simulated data\n")
	fmt.Fprintf(f, "# seed: %d\n", d.Seed)
	fmt.Fprintf(f, "# date: %s\n", time.Now().Format(time.RFC3339))
	if err := d.Truth.TSV(f); err != nil {
		return fmt.Errorf("while writing %q: %v", name, err)
	}
	return nil
}
