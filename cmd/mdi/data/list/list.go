// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package list implements a command to print
// the data views of an MDI project.
package list

import (
	"fmt"
	"io"

	"github.com/js-arias/command"
	"github.com/js-arias/mdi/dataview"
	"github.com/js-arias/mdi/project"
)

var Command = &command.Command{
	Usage: `list [--view <name>] [--items] [--features]
	<project-file>`,
	Short: "print a list of the data views of a project",
	Long: `
Command list reads the data views of an MDI project and print the name of
the views, with the measurement kind, the number of mixture components, the
number of items, and the number of features, into the standard output.

The argument of the command is the name of the project file.

If the flag --view is defined, only the indicated view will be reported.

If the flag --items is defined, the names of the items will be printed. If
the flag --features is defined, the names of the features will be printed.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var viewName string
var listItems bool
var listFeatures bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&viewName, "view", "", "")
	c.Flags().BoolVar(&listItems, "items", false, "")
	c.Flags().BoolVar(&listFeatures, "features", false, "")
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

	views := coll.Views()
	if viewName != "" {
		v := coll.View(viewName)
		if v == nil {
			return fmt.Errorf("view %q not in project %q", viewName, args[0])
		}
		views = []string{v.Name()}
	}

	for _, vn := range views {
		printView(c.Stdout(), coll.View(vn))
	}
	return nil
}

func printView(w io.Writer, v *dataview.View) {
	items := v.Items()
	features := v.Features()
	fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", v.Name(), v.Kind(), v.Clusters(), len(items), len(features))

	if listItems {
		for _, it := range items {
			fmt.Fprintf(w, "\t%s\n", it)
		}
	}
	if listFeatures {
		for _, f := range features {
			fmt.Fprintf(w, "\t%s\n", f)
		}
	}
}
