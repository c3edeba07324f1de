// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package labels

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadTSV reads a collection of cluster labels
// from a TSV file.
//
// The TSV file must contain the following fields:
//
//   - view, the name of the data view
//   - item, the name of the labeled item
//   - label, the cluster label, numbered from 1
//   - fixed, "true" if the label must be kept
//     unchanged during sampling
//
// Here is an example file:
//
//	view	item	label	fixed
//	expression	patient 1	1	true
//	expression	patient 2	1	false
//	expression	patient 3	2	false
//	mutation	patient 1	2	true
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
	for _, h := range []string{"view", "item", "label", "fixed"} {
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

		f := "view"
		view := row[fields[f]]

		f = "item"
		item := row[fields[f]]

		f = "label"
		l, err := strconv.Atoi(strings.TrimSpace(row[fields[f]]))
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %q: %v", ln, f, row[fields[f]], err)
		}

		f = "fixed"
		fixed, err := strconv.ParseBool(strings.TrimSpace(row[fields[f]]))
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %q: %v", ln, f, row[fields[f]], err)
		}

		if err := c.Set(view, item, l, fixed); err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}
	}
	return c, nil
}

// TSV writes a collection of cluster labels
// as a TSV file.
func (c *Collection) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	// header
	header := []string{"view", "item", "label", "fixed"}
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for _, v := range c.Views() {
		for _, it := range c.Items(v) {
			l, _ := c.Label(v, it)
			row := []string{
				v,
				it,
				strconv.Itoa(l.Value),
				strconv.FormatBool(l.Fixed),
			}
			if err := tab.Write(row); err != nil {
				return fmt.Errorf("when writing data: %v", err)
			}
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}
