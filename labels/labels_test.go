// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package labels_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/mdi/labels"
)

func TestCollection(t *testing.T) {
	c := newCollection(t)

	testCollection(t, "labels", c)
}

func TestTSV(t *testing.T) {
	c := newCollection(t)

	var w bytes.Buffer
	if err := c.TSV(&w); err != nil {
		t.Fatalf("unable to write TSV data: %v", err)
	}
	t.Logf("output:\n%s\n", w.String())

	r := strings.NewReader(w.String())
	nc, err := labels.ReadTSV(r)
	if err != nil {
		t.Fatalf("unable to read TSV data: %v", err)
	}

	testCollection(t, "tsv", nc)
}

func TestSetErrors(t *testing.T) {
	c := labels.New()

	if err := c.Set("", "patient 1", 1, false); err == nil {
		t.Errorf("empty view: expecting error")
	}
	if err := c.Set("expression", "", 1, false); err == nil {
		t.Errorf("empty item: expecting error")
	}
	if err := c.Set("expression", "patient 1", 0, false); err == nil {
		t.Errorf("zero label: expecting error")
	}
}

func TestReplace(t *testing.T) {
	c := labels.New()
	if err := c.Set("expression", "patient 1", 1, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Set("expression", "patient 1", 3, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l, ok := c.Label("expression", "patient 1")
	if !ok {
		t.Fatalf("label not found")
	}
	want := labels.Label{Value: 3, Fixed: true}
	if l != want {
		t.Errorf("label: got %v, want %v", l, want)
	}
}

func newCollection(t testing.TB) *labels.Collection {
	t.Helper()

	c := labels.New()
	data := []struct {
		view  string
		item  string
		label int
		fixed bool
	}{
		{"expression", "patient 1", 1, true},
		{"expression", "patient 2", 1, false},
		{"expression", "patient 3", 2, false},
		{"mutation", "patient 1", 2, true},
	}
	for _, d := range data {
		if err := c.Set(d.view, d.item, d.label, d.fixed); err != nil {
			t.Fatalf("unable to set label: %v", err)
		}
	}
	return c
}

func testCollection(t testing.TB, name string, c *labels.Collection) {
	t.Helper()

	views := []string{"expression", "mutation"}
	if g := c.Views(); !reflect.DeepEqual(g, views) {
		t.Errorf("%s: views: got %v, want %v", name, g, views)
	}

	items := []string{"Patient 1", "Patient 2", "Patient 3"}
	if g := c.Items("expression"); !reflect.DeepEqual(g, items) {
		t.Errorf("%s: items: got %v, want %v", name, g, items)
	}

	want := map[string]labels.Label{
		"Patient 1": {Value: 1, Fixed: true},
		"Patient 2": {Value: 1, Fixed: false},
		"Patient 3": {Value: 2, Fixed: false},
	}
	for it, w := range want {
		g, ok := c.Label("expression", it)
		if !ok {
			t.Errorf("%s: item %q: label not found", name, it)
			continue
		}
		if g != w {
			t.Errorf("%s: item %q: got %v, want %v", name, it, g, w)
		}
	}

	if _, ok := c.Label("mutation", "patient 2"); ok {
		t.Errorf("%s: unexpected label for %q", name, "patient 2")
	}
}
