// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package dataview

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadTSV reads a collection of data views
// from a TSV file.
//
// The TSV file must contain the following fields:
//
//   - view, the name of the data view
//   - type, the measurement kind of the view
//     ("gaussian" or "categorical")
//   - clusters, the number of mixture components of the view
//   - item, the name of the measured item
//   - feature, the name of the measured feature
//   - value, the observed value
//
// The type and clusters fields must be identical
// in all the rows of a view.
//
// Here is an example file:
//
//	view	type	clusters	item	feature	value
//	expression	gaussian	4	patient 1	gene a	0.25
//	expression	gaussian	4	patient 1	gene b	-1.2
//	expression	gaussian	4	patient 2	gene a	3.1
//	expression	gaussian	4	patient 2	gene b	0.04
//	mutation	categorical	4	patient 1	site 1	1
//	mutation	categorical	4	patient 2	site 1	0
func ReadTSV(r io.Reader) (*Collection, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range []string{"view", "type", "clusters", "item", "feature", "value"} {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	c := New()
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := "type"
		kind, err := ParseKind(row[fields[f]])
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}

		f = "clusters"
		k, err := strconv.Atoi(strings.TrimSpace(row[fields[f]]))
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %q: %v", ln, f, row[fields[f]], err)
		}

		f = "view"
		name := row[fields[f]]
		v := c.View(name)
		if v == nil {
			v, err = NewView(name, kind, k)
			if err != nil {
				return nil, fmt.Errorf("on row %d: %v", ln, err)
			}
			if err := c.Add(v); err != nil {
				return nil, fmt.Errorf("on row %d: %v", ln, err)
			}
		}
		if v.Kind() != kind {
			return nil, fmt.Errorf("on row %d: view %q: got type %q, want %q", ln, v.Name(), kind, v.Kind())
		}
		if v.Clusters() != k {
			return nil, fmt.Errorf("on row %d: view %q: got %d clusters, want %d", ln, v.Name(), k, v.Clusters())
		}

		f = "item"
		item := row[fields[f]]

		f = "feature"
		feature := row[fields[f]]

		f = "value"
		val, err := strconv.ParseFloat(row[fields[f]], 64)
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %q: %v", ln, f, row[fields[f]], err)
		}

		if err := v.Add(item, feature, val); err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}
	}
	return c, nil
}

// TSV writes a collection of data views
// as a TSV file.
func (c *Collection) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	// header
	header := []string{"view", "type", "clusters", "item", "feature", "value"}
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for _, n := range c.Views() {
		v := c.views[n]
		features := v.Features()
		for _, it := range v.Items() {
			for _, f := range features {
				val, ok := v.Value(it, f)
				if !ok {
					continue
				}
				row := []string{
					n,
					string(v.Kind()),
					strconv.Itoa(v.Clusters()),
					it,
					f,
					strconv.FormatFloat(val, 'g', -1, 64),
				}
				if err := tab.Write(row); err != nil {
					return fmt.Errorf("when writing data: %v", err)
				}
			}
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}
