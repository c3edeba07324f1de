// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package set implements a command to edit
// the cluster labels of an MDI project.
package set

import (
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/mdi/labels"
	"github.com/js-arias/mdi/project"
)

var Command = &command.Command{
	Usage: `set [--add <label-file>] [-f|--file <file-name>]
	[--view <name>] [--item <name>] [--label <value>] [--fixed]
	<project-file>`,
	Short: "edit the cluster labels of a project",
	Long: `
Command set edits the cluster labels of an MDI project. A label can be used
to initialize the sampler, or, if fixed, to pin an item to a cluster during
the whole sampling.

The argument of the command is the name of the project file.

If the flag --add is defined, the labels of the indicated file will be added
to the project labels. Labels already defined for a view-item pair will be
replaced.

A single label can be set with the flags --view, --item, and --label. If the
flag --fixed is defined, the label will be pinned.

By default, any change will be stored in the current labels file. If the
project does not have a labels file, a new one will be created with the name
'labels.tab'. A different file name can be defined with the flag --file or
-f.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var addFile string
var outFile string
var viewName string
var itemName string
var labelVal int
var fixedFlag bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&addFile, "add", "", "")
	c.Flags().StringVar(&outFile, "file", "", "")
	c.Flags().StringVar(&outFile, "f", "", "")
	c.Flags().StringVar(&viewName, "view", "", "")
	c.Flags().StringVar(&itemName, "item", "", "")
	c.Flags().IntVar(&labelVal, "label", 0, "")
	c.Flags().BoolVar(&fixedFlag, "fixed", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	coll, err := p.ClusterLabels()
	if err != nil {
		return err
	}

	ed := false
	if addFile != "" {
		if err := addLabels(coll, addFile); err != nil {
			return err
		}
		ed = true
	}

	if viewName != "" || itemName != "" || labelVal != 0 {
		if viewName == "" {
			return c.UsageError("expecting view name, flag --view")
		}
		if itemName == "" {
			return c.UsageError("expecting item name, flag --item")
		}
		if labelVal == 0 {
			return c.UsageError("expecting label value, flag --label")
		}
		if err := coll.Set(viewName, itemName, labelVal, fixedFlag); err != nil {
			return err
		}
		ed = true
	}

	if !ed {
		return nil
	}

	lf := p.Path(project.Labels)
	if lf == "" {
		lf = "labels.tab"
	}
	if outFile != "" {
		lf = outFile
	}
	if err := writeLabels(lf, coll); err != nil {
		return err
	}

	if p.Path(project.Labels) != lf {
		p.Add(project.Labels, lf)
		if err := p.Write(); err != nil {
			return err
		}
	}
	return nil
}

func addLabels(coll *labels.Collection, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	nc, err := labels.ReadTSV(f)
	if err != nil {
		return fmt.Errorf("when reading %q: %v", name, err)
	}

	for _, vn := range nc.Views() {
		for _, it := range nc.Items(vn) {
			l, _ := nc.Label(vn, it)
			if err := coll.Set(vn, it, l.Value, l.Fixed); err != nil {
				return fmt.Errorf("when reading %q: %v", name, err)
			}
		}
	}
	return nil
}

func writeLabels(name string, coll *labels.Collection) (err error) {
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

	fmt.Fprintf(f, "# cluster labels\n")
	if err := coll.TSV(f); err != nil {
		return fmt.Errorf("while writing %q: %v", name, err)
	}
	return nil
}
