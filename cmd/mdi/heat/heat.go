// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package heat implements a command to draw
// a posterior similarity matrix as a heat map image.
package heat

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/mdi/labels"
	"github.com/js-arias/mdi/psmimage"
	"gonum.org/v1/gonum/mat"
)

var Command = &command.Command{
	Usage: `heat [--view <name>] [--best <label-file>]
	[--scale <value>] [--gradient <name>]
	[-o|--output <prefix>] <psm-file>`,
	Short: "draw a posterior similarity matrix as a heat map",
	Long: `
Command heat reads a file with posterior similarity matrices, written by the
command 'mdi psm', and draws the matrix of each data view as a heat map
image, in PNG format.

The argument of the command is the name of the PSM file.

By default, all the views of the file will be drawn. If the flag --view is
defined, only the indicated view will be drawn.

By default, items are drawn in alphabetical order. If the flag --best is
defined with a label file, for example a point estimate written by the
command 'mdi best', the items of each view will be ordered by their cluster
label, so well separated clusters appear as blocks along the diagonal.

Each matrix cell is drawn as a square of 4 pixels. Use the flag --scale to
define a different size.

By default, the image uses the iridescent color scheme. The flag --gradient
defines the color scheme of the image. Valid schemes are:

	- iridescent    the iridescent scheme of Paul Tol
	- incandescent  the incandescent scheme of Paul Tol
	- rainbow       the rainbow scheme of Paul Tol,
	                from purple to red
	- gray          a gray scale

The images will be written to the files '<psm-file>-<view>.png'. If the flag
-o, or --output, is defined, the indicated prefix will be used instead of
the PSM file name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var viewName string
var bestFile string
var gradName string
var output string
var scale int

func setFlags(c *command.Command) {
	c.Flags().StringVar(&viewName, "view", "", "")
	c.Flags().StringVar(&bestFile, "best", "", "")
	c.Flags().StringVar(&gradName, "gradient", "iridescent", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().IntVar(&scale, "scale", 4, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting PSM file")
	}

	grad, err := pickGradient(gradName)
	if err != nil {
		return c.UsageError(err.Error())
	}

	pd, err := readPSMFile(args[0])
	if err != nil {
		return err
	}

	views := pd.views
	if viewName != "" {
		vn := strings.Join(strings.Fields(strings.ToLower(viewName)), " ")
		if _, ok := pd.values[vn]; !ok {
			return fmt.Errorf("view %q not in file %q", viewName, args[0])
		}
		views = []string{vn}
	}

	var best *labels.Collection
	if bestFile != "" {
		best, err = readLabels(bestFile)
		if err != nil {
			return err
		}
	}

	prefix := args[0]
	if output != "" {
		prefix = output
	}

	for _, vn := range views {
		m, err := pd.matrix(vn)
		if err != nil {
			return err
		}

		img := &psmimage.Image{
			Matrix:   m,
			Order:    itemOrder(pd.items[vn], best, vn),
			Scale:    scale,
			Gradient: grad,
		}
		img.Format()

		name := fmt.Sprintf("%s-%s.png", prefix, vn)
		if err := writeImage(name, img); err != nil {
			return err
		}
	}
	return nil
}

func pickGradient(name string) (psmimage.Gradienter, error) {
	switch strings.ToLower(name) {
	case "iridescent":
		return psmimage.Iridescent{}, nil
	case "incandescent":
		return psmimage.Incandescent{}, nil
	case "rainbow":
		return psmimage.RainbowPurpleToRed{}, nil
	case "gray":
		return psmimage.LightGrayScale{}, nil
	}
	return nil, fmt.Errorf("invalid gradient %q", name)
}

// A psmData is the content
// of a posterior similarity matrix file.
type psmData struct {
	views []string

	// view → sorted items
	items map[string][]string

	// view → item → other → similarity
	values map[string]map[string]map[string]float64
}

var headerFields = []string{
	"view",
	"item",
	"other",
	"value",
}

func readPSMFile(name string) (*psmData, error) {
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

	pd := &psmData{
		items:  make(map[string][]string),
		values: make(map[string]map[string]map[string]float64),
	}
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
		}

		f := "view"
		vn := strings.Join(strings.Fields(strings.ToLower(row[fields[f]])), " ")
		if vn == "" {
			continue
		}

		f = "item"
		item := strings.Join(strings.Fields(row[fields[f]]), " ")
		if item == "" {
			continue
		}

		f = "other"
		other := strings.Join(strings.Fields(row[fields[f]]), " ")
		if other == "" {
			continue
		}

		f = "value"
		val, err := strconv.ParseFloat(row[fields[f]], 64)
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: field %q: %v", name, ln, f, err)
		}
		if val < 0 || val > 1 {
			return nil, fmt.Errorf("on file %q: on row %d: field %q: got %.6f, want a value in [0,1]", name, ln, f, val)
		}

		v, ok := pd.values[vn]
		if !ok {
			v = make(map[string]map[string]float64)
			pd.values[vn] = v
		}
		o, ok := v[item]
		if !ok {
			o = make(map[string]float64)
			v[item] = o
		}
		o[other] = val
	}
	if len(pd.values) == 0 {
		return nil, fmt.Errorf("on file %q: while reading data: %v", name, io.EOF)
	}

	for vn, v := range pd.values {
		pd.views = append(pd.views, vn)
		its := make(map[string]bool, len(v))
		for it, o := range v {
			its[it] = true
			for other := range o {
				its[other] = true
			}
		}
		items := make([]string, 0, len(its))
		for it := range its {
			items = append(items, it)
		}
		slices.Sort(items)
		pd.items[vn] = items
	}
	slices.Sort(pd.views)

	return pd, nil
}

// Matrix returns the posterior similarity matrix of a view.
func (pd *psmData) matrix(view string) (*mat.SymDense, error) {
	items := pd.items[view]
	v := pd.values[view]

	m := mat.NewSymDense(len(items), nil)
	for i, it := range items {
		for j := i; j < len(items); j++ {
			val, ok := v[it][items[j]]
			if !ok {
				val, ok = v[items[j]][it]
			}
			if !ok {
				return nil, fmt.Errorf("view %q: items %q and %q: missing value", view, it, items[j])
			}
			m.SetSym(i, j, val)
		}
	}
	return m, nil
}

// ItemOrder returns the display order of the items,
// grouping the items by their cluster label
// if a label collection is defined.
func itemOrder(items []string, best *labels.Collection, view string) []int {
	if best == nil {
		return nil
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		la, _ := best.Label(view, items[a])
		lb, _ := best.Label(view, items[b])
		if la.Value != lb.Value {
			return cmp.Compare(la.Value, lb.Value)
		}
		return cmp.Compare(items[a], items[b])
	})
	return order
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

func writeImage(name string, img *psmimage.Image) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if err == nil && e != nil {
			err = e
		}
	}()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("when encoding image file %q: %v", name, err)
	}

	return nil
}
