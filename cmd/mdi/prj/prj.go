// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prj implements a command to print
// the basic information of a project.
package prj

import (
	"fmt"
	"io"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/mdi/dataview"
	"github.com/js-arias/mdi/labels"
	"github.com/js-arias/mdi/mdiparam"
	"github.com/js-arias/mdi/project"
)

var Command = &command.Command{
	Usage: "prj <project-file>",
	Short: "print information about a project",
	Long: `
Command prj reads an MDI project and prints the information of the different
project elements into the standard output.

The argument of the command is the name of the project file.
	`,
	Run: run,
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	vF := p.Path(project.Views)
	if vF != "" {
		if err := readViews(c.Stdout(), vF); err != nil {
			return err
		}
	}

	lF := p.Path(project.Labels)
	if lF != "" {
		if err := readLabels(c.Stdout(), lF); err != nil {
			return err
		}
	}

	pF := p.Path(project.Params)
	if pF != "" {
		if err := readParams(c.Stdout(), pF); err != nil {
			return err
		}
	}

	return nil
}

func readViews(w io.Writer, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	coll, err := dataview.ReadTSV(f)
	if err != nil {
		return fmt.Errorf("when reading %q: %v", name, err)
	}

	fmt.Fprintf(w, "Data views:\n")
	fmt.Fprintf(w, "\tfile: %s\n", name)
	fmt.Fprintf(w, "\titems: %d\n", len(coll.Items()))
	for _, vn := range coll.Views() {
		v := coll.View(vn)
		fmt.Fprintf(w, "\tview %q: %s, %d clusters, %d features\n", vn, v.Kind(), v.Clusters(), len(v.Features()))
	}
	fmt.Fprintf(w, "\n")

	return nil
}

func readLabels(w io.Writer, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	coll, err := labels.ReadTSV(f)
	if err != nil {
		return fmt.Errorf("when reading %q: %v", name, err)
	}

	fmt.Fprintf(w, "Cluster labels:\n")
	fmt.Fprintf(w, "\tfile: %s\n", name)
	for _, vn := range coll.Views() {
		items := coll.Items(vn)
		fixed := 0
		for _, it := range items {
			if l, _ := coll.Label(vn, it); l.Fixed {
				fixed++
			}
		}
		fmt.Fprintf(w, "\tview %q: %d labels, %d fixed\n", vn, len(items), fixed)
	}
	fmt.Fprintf(w, "\n")

	return nil
}

func readParams(w io.Writer, name string) error {
	mp, err := mdiparam.Read(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Sampling parameters:\n")
	fmt.Fprintf(w, "\tfile: %s\n", name)
	fmt.Fprintf(w, "\titerations: %d\n", mp.Iterations())
	fmt.Fprintf(w, "\tburn-in: %.6f\n", mp.BurnIn())
	fmt.Fprintf(w, "\tthinning: %d\n", mp.Thin())
	fmt.Fprintf(w, "\tchains: %d\n", mp.Chains())
	fmt.Fprintf(w, "\n")

	return nil
}
