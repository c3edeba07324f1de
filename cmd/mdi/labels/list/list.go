// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package list implements a command to print
// the cluster labels of an MDI project.
package list

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/mdi/project"
)

var Command = &command.Command{
	Usage: "list [--view <name>] [--fixed] <project-file>",
	Short: "print the cluster labels of a project",
	Long: `
Command list reads the cluster labels of an MDI project and print the view,
item, label, and pin status of each label, into the standard output.

The argument of the command is the name of the project file.

If the flag --view is defined, only the labels of the indicated view will be
reported. If the flag --fixed is defined, only pinned labels will be
reported.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var viewName string
var onlyFixed bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&viewName, "view", "", "")
	c.Flags().BoolVar(&onlyFixed, "fixed", false, "")
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

	views := coll.Views()
	if viewName != "" {
		views = []string{viewName}
	}

	for _, vn := range views {
		for _, it := range coll.Items(vn) {
			l, _ := coll.Label(vn, it)
			if onlyFixed && !l.Fixed {
				continue
			}
			fmt.Fprintf(c.Stdout(), "%s\t%s\t%d\t%v\n", vn, it, l.Value, l.Fixed)
		}
	}
	return nil
}
