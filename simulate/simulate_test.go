// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package simulate_test

import (
	"reflect"
	"testing"

	"github.com/js-arias/mdi/dataview"
	"github.com/js-arias/mdi/simulate"
)

func TestNew(t *testing.T) {
	p := simulate.Param{
		Items:    30,
		Clusters: 3,
		Views: []simulate.View{
			{Name: "expression", Kind: dataview.Gaussian, Features: 4},
			{Name: "mutation", Kind: dataview.Categorical, Features: 6},
		},
		Concordant: true,
		Seed:       1,
	}
	d, err := simulate.New(p)
	if err != nil {
		t.Fatalf("simulate: unexpected error: %v", err)
	}
	if d.Seed != 1 {
		t.Errorf("seed: got %d, want %d", d.Seed, 1)
	}

	vs := d.Views.Views()
	if !reflect.DeepEqual(vs, []string{"expression", "mutation"}) {
		t.Fatalf("views: got %v", vs)
	}
	items := d.Views.Items()
	if len(items) != p.Items {
		t.Fatalf("items: got %d, want %d", len(items), p.Items)
	}

	for _, vd := range p.Views {
		v := d.Views.View(vd.Name)
		if v.Kind() != vd.Kind {
			t.Errorf("view %q: kind: got %q, want %q", vd.Name, v.Kind(), vd.Kind)
		}
		if v.Clusters() != p.Clusters {
			t.Errorf("view %q: clusters: got %d, want %d", vd.Name, v.Clusters(), p.Clusters)
		}
		if f := v.Features(); len(f) != vd.Features {
			t.Errorf("view %q: features: got %d, want %d", vd.Name, len(f), vd.Features)
		}
		if its := v.Items(); len(its) != p.Items {
			t.Errorf("view %q: items: got %d, want %d", vd.Name, len(its), p.Items)
		}
	}

	// in a concordant simulation
	// all views share the true partition
	seen := make(map[int]bool)
	for _, it := range items {
		le, ok := d.Truth.Label("expression", it)
		if !ok {
			t.Fatalf("item %q: no true label", it)
		}
		if le.Value < 1 || le.Value > p.Clusters {
			t.Errorf("item %q: got label %d, want a label in [1,%d]", it, le.Value, p.Clusters)
		}
		if le.Fixed {
			t.Errorf("item %q: true label is fixed", it)
		}
		lm, ok := d.Truth.Label("mutation", it)
		if !ok {
			t.Fatalf("item %q: no true label", it)
		}
		if le.Value != lm.Value {
			t.Errorf("item %q: got labels %d and %d, want a shared partition", it, le.Value, lm.Value)
		}
		seen[le.Value] = true
	}
	if len(seen) != p.Clusters {
		t.Errorf("clusters in partition: got %d, want %d", len(seen), p.Clusters)
	}

	m, err := d.Views.View("mutation").Matrix(items)
	if err != nil {
		t.Fatalf("matrix: unexpected error: %v", err)
	}
	for i, row := range m {
		for j, x := range row {
			if x != 0 && x != 1 {
				t.Errorf("binary view: row %d, column %d: got %g, want 0 or 1", i, j, x)
			}
		}
	}
}

func TestNewIndependent(t *testing.T) {
	p := simulate.Param{
		Items:    50,
		Clusters: 3,
		Views: []simulate.View{
			{Name: "va", Kind: dataview.Gaussian, Features: 2},
			{Name: "vb", Kind: dataview.Gaussian, Features: 2},
		},
		Seed: 11,
	}
	d, err := simulate.New(p)
	if err != nil {
		t.Fatalf("simulate: unexpected error: %v", err)
	}

	diff := 0
	for _, it := range d.Views.Items() {
		la, _ := d.Truth.Label("va", it)
		lb, _ := d.Truth.Label("vb", it)
		if la.Value != lb.Value {
			diff++
		}
	}
	if diff == 0 {
		t.Errorf("independent partitions: all labels are shared")
	}
}

func TestNewDeterminism(t *testing.T) {
	p := simulate.Param{
		Items:    20,
		Clusters: 2,
		Views: []simulate.View{
			{Name: "expression", Kind: dataview.Gaussian, Features: 3},
			{Name: "mutation", Kind: dataview.Categorical, Features: 5},
		},
		Concordant: true,
		Seed:       7,
	}
	d1, err := simulate.New(p)
	if err != nil {
		t.Fatalf("simulate: unexpected error: %v", err)
	}
	d2, err := simulate.New(p)
	if err != nil {
		t.Fatalf("simulate: unexpected error: %v", err)
	}

	items := d1.Views.Items()
	for _, vn := range d1.Views.Views() {
		m1, err := d1.Views.View(vn).Matrix(items)
		if err != nil {
			t.Fatalf("matrix: unexpected error: %v", err)
		}
		m2, err := d2.Views.View(vn).Matrix(items)
		if err != nil {
			t.Fatalf("matrix: unexpected error: %v", err)
		}
		if !reflect.DeepEqual(m1, m2) {
			t.Errorf("view %q: same seed, different data", vn)
		}
		for _, it := range items {
			l1, _ := d1.Truth.Label(vn, it)
			l2, _ := d2.Truth.Label(vn, it)
			if l1 != l2 {
				t.Errorf("view %q: item %q: same seed, different labels", vn, it)
			}
		}
	}
}

func TestNewErrors(t *testing.T) {
	views := []simulate.View{
		{Name: "expression", Kind: dataview.Gaussian, Features: 2},
	}
	tests := map[string]simulate.Param{
		"no items":      {Clusters: 2, Views: views},
		"no clusters":   {Items: 10, Views: views},
		"few items":     {Items: 2, Clusters: 5, Views: views},
		"no views":      {Items: 10, Clusters: 2},
		"no features":   {Items: 10, Clusters: 2, Views: []simulate.View{{Name: "x", Kind: dataview.Gaussian}}},
		"bad kind":      {Items: 10, Clusters: 2, Views: []simulate.View{{Name: "x", Kind: "count", Features: 2}}},
		"bad sep":       {Items: 10, Clusters: 2, Views: views, Separation: -1},
		"repeated name": {Items: 10, Clusters: 2, Views: append(views, views[0])},
	}
	for name, p := range tests {
		if _, err := simulate.New(p); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
