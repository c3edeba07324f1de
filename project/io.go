// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"
	"os"

	"github.com/js-arias/mdi/dataview"
	"github.com/js-arias/mdi/labels"
	"github.com/js-arias/mdi/mdiparam"
)

// DataViews reads a data view file
// as defined in a project.
func (p *Project) DataViews() (*dataview.Collection, error) {
	name := p.Path(Views)
	if name == "" {
		return nil, fmt.Errorf("data views not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := dataview.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("when reading %q: %v", name, err)
	}
	return c, nil
}

// ClusterLabels reads a label file
// as defined in a project.
// If the project has no label file,
// it returns an empty collection.
func (p *Project) ClusterLabels() (*labels.Collection, error) {
	name := p.Path(Labels)
	if name == "" {
		return labels.New(), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := labels.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("when reading %q: %v", name, err)
	}
	return c, nil
}

// SampleParams reads a sampling parameter file
// as defined in a project.
// If the project has no parameter file,
// it returns the default parameter values.
func (p *Project) SampleParams() (*mdiparam.MP, error) {
	name := p.Path(Params)
	if name == "" {
		return mdiparam.New(""), nil
	}

	mp, err := mdiparam.Read(name)
	if err != nil {
		return nil, fmt.Errorf("when reading %q: %v", name, err)
	}
	return mp, nil
}
