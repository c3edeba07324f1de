// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package add implements a command to add data views
// to an MDI project.
package add

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/mdi/dataview"
	"github.com/js-arias/mdi/project"
)

var Command = &command.Command{
	Usage: `add [-f|--file <view-file>]
	<project-file> [<view-file>...]`,
	Short: "add data views to an MDI project",
	Long: `
Command add reads one or more tab-delimited files with data views, and add
the views to an MDI project.

The first argument of the command is the name of the project file. If the
project file does not exist, a new project will be created.

One or more view files can be given as arguments. If no file is given the
views will be read from the standard input.

Each view is added as a whole; it is an error to add a view with the name of
a view already stored in the project.

By default the views will be stored in the view file currently defined for
the project. If the project does not have a view file, a new one will be
created with the name 'views.tab'. A different file name can be defined with
the flag --file or -f. If this flag is used, and there is a view file already
defined, then the new file will be created, and used as the view file
(previously defined views will be kept).
	`,
	SetFlags: setFlags,
	Run:      run,
}

var outFile string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&outFile, "file", "", "")
	c.Flags().StringVar(&outFile, "f", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	p, err := openProject(args[0])
	if err != nil {
		return err
	}

	coll, err := addViews(c.Stdin(), p, args[1:])
	if err != nil {
		return err
	}

	vf := p.Path(project.Views)
	if vf == "" {
		vf = "views.tab"
	}
	if outFile != "" {
		vf = outFile
	}
	if err := writeViews(vf, coll); err != nil {
		return err
	}

	if p.Path(project.Views) != vf {
		p.Add(project.Views, vf)
		if err := p.Write(); err != nil {
			return err
		}
	}
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

func addViews(r io.Reader, p *project.Project, files []string) (*dataview.Collection, error) {
	coll := dataview.New()

	vf := p.Path(project.Views)
	if vf != "" {
		var err error
		coll, err = p.DataViews()
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		files = append(files, "-")
	}
	for _, f := range files {
		nc, err := readViews(r, f)
		if err != nil {
			return nil, err
		}
		for _, vn := range nc.Views() {
			if err := coll.Add(nc.View(vn)); err != nil {
				return nil, fmt.Errorf("when reading %q: %v", f, err)
			}
		}
	}
	return coll, nil
}

func readViews(r io.Reader, name string) (*dataview.Collection, error) {
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		name = "stdin"
	}

	c, err := dataview.ReadTSV(r)
	if err != nil {
		return nil, fmt.Errorf("when reading %q: %v", name, err)
	}
	return c, nil
}

func writeViews(name string, coll *dataview.Collection) (err error) {
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

	fmt.Fprintf(f, "# data views\n")
	if err := coll.TSV(f); err != nil {
		return fmt.Errorf("while writing %q: %v", name, err)
	}
	return nil
}
