// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package dataview provides a collection of data views,
// independent sets of measurements
// made over a shared collection of items,
// to be clustered jointly.
package dataview

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the measurement kind of a data view.
// The kind defines the mixture component family
// used when clustering the view.
type Kind string

const (
	// Gaussian is used for continuous measurements.
	Gaussian Kind = "gaussian"

	// Categorical is used for binary,
	// presence-absence measurements.
	Categorical Kind = "categorical"
)

// ParseKind returns a view kind from a string.
func ParseKind(s string) (Kind, error) {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	switch k := Kind(s); k {
	case Gaussian, Categorical:
		return k, nil
	}
	return "", fmt.Errorf("invalid view kind %q", s)
}

// A View is a set of observations
// of one or more features
// measured on a collection of items.
type View struct {
	name     string
	kind     Kind
	clusters int
	items    map[string]map[string]float64
}

// NewView creates a new empty view
// with the indicated measurement kind
// and the number of mixture components
// used when clustering the view.
func NewView(name string, kind Kind, clusters int) (*View, error) {
	name = strings.Join(strings.Fields(strings.ToLower(name)), " ")
	if name == "" {
		return nil, fmt.Errorf("empty view name")
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, fmt.Errorf("view %q: %v", name, err)
	}
	if clusters < 1 {
		return nil, fmt.Errorf("view %q: got %d clusters, want at least 1", name, clusters)
	}

	return &View{
		name:     name,
		kind:     kind,
		clusters: clusters,
		items:    make(map[string]map[string]float64),
	}, nil
}

// Add adds an observed value
// of a feature
// for a given item.
// In a categorical view
// values must be 0 or 1.
func (v *View) Add(item, feature string, value float64) error {
	item = canon(item)
	if item == "" {
		return fmt.Errorf("view %q: empty item name", v.name)
	}
	feature = strings.Join(strings.Fields(strings.ToLower(feature)), " ")
	if feature == "" {
		return fmt.Errorf("view %q: item %q: empty feature name", v.name, item)
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("view %q: item %q: feature %q: invalid value", v.name, item, feature)
	}
	if v.kind == Categorical && value != 0 && value != 1 {
		return fmt.Errorf("view %q: item %q: feature %q: got %g, want 0 or 1", v.name, item, feature, value)
	}

	obs, ok := v.items[item]
	if !ok {
		obs = make(map[string]float64)
		v.items[item] = obs
	}
	obs[feature] = value
	return nil
}

// Name returns the name of the view.
func (v *View) Name() string {
	return v.name
}

// Kind returns the measurement kind of the view.
func (v *View) Kind() Kind {
	return v.kind
}

// Clusters returns the number of mixture components
// used when clustering the view.
func (v *View) Clusters() int {
	return v.clusters
}

// Items returns the items with observations in the view.
func (v *View) Items() []string {
	items := make([]string, 0, len(v.items))
	for it := range v.items {
		items = append(items, it)
	}
	slices.Sort(items)
	return items
}

// Features returns the features observed in the view.
func (v *View) Features() []string {
	fs := make(map[string]bool)
	for _, obs := range v.items {
		for f := range obs {
			fs[f] = true
		}
	}

	features := make([]string, 0, len(fs))
	for f := range fs {
		features = append(features, f)
	}
	slices.Sort(features)
	return features
}

// Value returns the observed value of a feature
// for a given item,
// and false if the value is not defined.
func (v *View) Value(item, feature string) (float64, bool) {
	item = canon(item)
	if item == "" {
		return 0, false
	}
	feature = strings.Join(strings.Fields(strings.ToLower(feature)), " ")
	if feature == "" {
		return 0, false
	}

	obs, ok := v.items[item]
	if !ok {
		return 0, false
	}
	val, ok := obs[feature]
	return val, ok
}

// Matrix returns the observations of the view
// as a matrix with a row per item,
// in the given item order,
// and a column per feature,
// in sorted order.
// All features must be defined
// for all the indicated items.
func (v *View) Matrix(items []string) ([][]float64, error) {
	features := v.Features()
	if len(features) == 0 {
		return nil, fmt.Errorf("view %q: no observations", v.name)
	}

	m := make([][]float64, len(items))
	for i, it := range items {
		it = canon(it)
		obs, ok := v.items[it]
		if !ok {
			return nil, fmt.Errorf("view %q: item %q: no observations", v.name, it)
		}
		row := make([]float64, len(features))
		for j, f := range features {
			val, ok := obs[f]
			if !ok {
				return nil, fmt.Errorf("view %q: item %q: feature %q: missing value", v.name, it, f)
			}
			row[j] = val
		}
		m[i] = row
	}
	return m, nil
}

// A Collection is a set of data views
// over a shared collection of items.
type Collection struct {
	views map[string]*View
}

// New creates a new empty view collection.
func New() *Collection {
	return &Collection{
		views: make(map[string]*View),
	}
}

// Add adds a view to the collection.
// It is an error to add a view
// with the name of an stored view.
func (c *Collection) Add(v *View) error {
	if v == nil {
		return nil
	}
	if _, dup := c.views[v.name]; dup {
		return fmt.Errorf("view %q already in collection", v.name)
	}
	c.views[v.name] = v
	return nil
}

// View returns a view with a given name,
// or nil if the view is not in the collection.
func (c *Collection) View(name string) *View {
	name = strings.Join(strings.Fields(strings.ToLower(name)), " ")
	if name == "" {
		return nil
	}
	return c.views[name]
}

// Views returns the names of the views in the collection.
func (c *Collection) Views() []string {
	vs := make([]string, 0, len(c.views))
	for n := range c.views {
		vs = append(vs, n)
	}
	slices.Sort(vs)
	return vs
}

// Items returns the items observed in the collection,
// the union of the items of all views.
func (c *Collection) Items() []string {
	its := make(map[string]bool)
	for _, v := range c.views {
		for it := range v.items {
			its[it] = true
		}
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
