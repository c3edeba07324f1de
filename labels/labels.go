// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package labels provides cluster labels
// assigned to the items of a data view.
// Labels are used to initialize a sampler
// and to pin items
// that have a known cluster assignment.
package labels

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// A Label is a cluster assignment for an item.
// Cluster labels are numbered from 1.
// A fixed label is kept unchanged
// during sampling.
type Label struct {
	Value int
	Fixed bool
}

// A Collection is a set of cluster labels
// assigned to items,
// per data view.
type Collection struct {
	views map[string]map[string]Label
}

// New creates a new empty label collection.
func New() *Collection {
	return &Collection{
		views: make(map[string]map[string]Label),
	}
}

// Set sets the label of an item
// in a given view,
// replacing any previous label.
func (c *Collection) Set(view, item string, label int, fixed bool) error {
	view = strings.Join(strings.Fields(strings.ToLower(view)), " ")
	if view == "" {
		return fmt.Errorf("empty view name")
	}
	item = canon(item)
	if item == "" {
		return fmt.Errorf("view %q: empty item name", view)
	}
	if label < 1 {
		return fmt.Errorf("view %q: item %q: got label %d, want 1 or greater", view, item, label)
	}

	its, ok := c.views[view]
	if !ok {
		its = make(map[string]Label)
		c.views[view] = its
	}
	its[item] = Label{Value: label, Fixed: fixed}
	return nil
}

// Label returns the label of an item
// in a given view,
// and false if the item has no label.
func (c *Collection) Label(view, item string) (Label, bool) {
	view = strings.Join(strings.Fields(strings.ToLower(view)), " ")
	item = canon(item)

	its, ok := c.views[view]
	if !ok {
		return Label{}, false
	}
	l, ok := its[item]
	return l, ok
}

// Views returns the views with labeled items.
func (c *Collection) Views() []string {
	vs := make([]string, 0, len(c.views))
	for v := range c.views {
		vs = append(vs, v)
	}
	slices.Sort(vs)
	return vs
}

// Items returns the labeled items of a given view.
func (c *Collection) Items(view string) []string {
	view = strings.Join(strings.Fields(strings.ToLower(view)), " ")
	its, ok := c.views[view]
	if !ok {
		return nil
	}

	items := make([]string, 0, len(its))
	for it := range its {
		items = append(items, it)
	}
	slices.Sort(items)
	return items
}

// Canon returns an item name
// in its canonical form.
func canon(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	name = strings.ToLower(name)
	r, n := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[n:]
}
