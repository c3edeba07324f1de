// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project_test

import (
	"os"
	"reflect"
	"slices"
	"testing"

	"github.com/js-arias/mdi/project"
)

type setPath struct {
	set  project.Dataset
	path string
}

func TestProject(t *testing.T) {
	p := project.New()

	sets := []setPath{
		{project.Views, "views.tab"},
		{project.Labels, "labels.tab"},
		{project.Params, "params.tab"},
	}

	for _, s := range sets {
		p.Add(s.set, s.path)
	}
	testProject(t, p, sets)

	name := "tmp-project-for-test.tab"
	defer os.Remove(name)

	p.SetName(name)
	if err := p.Write(); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	np, err := project.Read(name)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	testProject(t, np, sets)
}

func TestOptionalDatasets(t *testing.T) {
	p := project.New()

	l, err := p.ClusterLabels()
	if err != nil {
		t.Fatalf("labels: unexpected error: %v", err)
	}
	if v := l.Views(); len(v) != 0 {
		t.Errorf("labels: got %v, want an empty collection", v)
	}

	mp, err := p.SampleParams()
	if err != nil {
		t.Fatalf("params: unexpected error: %v", err)
	}
	if g, want := mp.Iterations(), 10_000; g != want {
		t.Errorf("params: iterations: got %d, want %d", g, want)
	}

	if _, err := p.DataViews(); err == nil {
		t.Errorf("views: expecting error")
	}
}

func testProject(t testing.TB, p *project.Project, sets []setPath) {
	t.Helper()

	for _, s := range sets {
		if path := p.Path(s.set); path != s.path {
			t.Errorf("set %s: got path %q, want %q", s.set, path, s.path)
		}
	}
	datasets := make([]project.Dataset, 0, len(sets))
	for _, v := range sets {
		datasets = append(datasets, v.set)
	}
	slices.Sort(datasets)

	if ls := p.Sets(); !reflect.DeepEqual(ls, datasets) {
		t.Errorf("sets: got %v, want %v", ls, datasets)
	}
}
