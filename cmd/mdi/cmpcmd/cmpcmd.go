// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package cmpcmd implements a command to compare
// two label files.
package cmpcmd

import (
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/mdi/labels"
	"github.com/js-arias/mdi/psm"
)

var Command = &command.Command{
	Usage: "cmp --got <label-file> --want <label-file> [--view <name>]",
	Short: "compare two label files",
	Long: `
Command cmp reads two label files and reports the adjusted Rand index
between the partitions of each view, a chance corrected measure of the
agreement of the partitions that is invariant to the cluster labeling. The
index is 1 for equivalent partitions, near 0 for independent partitions, and
can be negative.

The flag --got is required and indicates the file with the partitions to be
evaluated, for example a point estimate written by the command 'mdi best'.
The flag --want is required and indicates the file with the reference
partitions, for example the true labels of a simulation written by the
command 'mdi sim'.

By default, all the views present in both files are compared, using the
items labeled in both files. If the flag --view is defined, only the
indicated view will be compared.

For each view, the number of shared items and the adjusted Rand index are
printed to the standard output.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var gotFile string
var wantFile string
var viewName string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&gotFile, "got", "", "")
	c.Flags().StringVar(&wantFile, "want", "", "")
	c.Flags().StringVar(&viewName, "view", "", "")
}

func run(c *command.Command, args []string) error {
	if gotFile == "" {
		return c.UsageError("expecting got file, flag --got")
	}
	if wantFile == "" {
		return c.UsageError("expecting want file, flag --want")
	}

	got, err := readLabels(gotFile)
	if err != nil {
		return err
	}
	want, err := readLabels(wantFile)
	if err != nil {
		return err
	}

	views := sharedViews(got, want)
	if viewName != "" {
		views = []string{viewName}
	}
	if len(views) == 0 {
		return fmt.Errorf("files %q and %q: no shared views", gotFile, wantFile)
	}

	for _, vn := range views {
		var a, b []int
		for _, it := range want.Items(vn) {
			wl, ok := want.Label(vn, it)
			if !ok {
				continue
			}
			gl, ok := got.Label(vn, it)
			if !ok {
				continue
			}
			a = append(a, gl.Value)
			b = append(b, wl.Value)
		}
		if len(a) < 2 {
			return fmt.Errorf("view %q: got %d shared items, want 2 or more", vn, len(a))
		}

		r, err := psm.AdjustedRandIndex(a, b)
		if err != nil {
			return fmt.Errorf("view %q: %v", vn, err)
		}
		fmt.Fprintf(c.Stdout(), "%s\t%d\t%.6f\n", vn, len(a), r)
	}
	return nil
}

func readLabels(name string) (*labels.Collection, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	coll, err := labels.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("when reading %q: %v", name, err)
	}
	return coll, nil
}

func sharedViews(got, want *labels.Collection) []string {
	in := make(map[string]bool, len(got.Views()))
	for _, vn := range got.Views() {
		in[vn] = true
	}

	var views []string
	for _, vn := range want.Views() {
		if in[vn] {
			views = append(views, vn)
		}
	}
	return views
}
