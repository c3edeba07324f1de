// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// MDI is a tool for integrative clustering
// of multiple data views.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/mdi/cmd/mdi/best"
	"github.com/js-arias/mdi/cmd/mdi/cmpcmd"
	"github.com/js-arias/mdi/cmd/mdi/data"
	"github.com/js-arias/mdi/cmd/mdi/heat"
	"github.com/js-arias/mdi/cmd/mdi/labels"
	"github.com/js-arias/mdi/cmd/mdi/param"
	"github.com/js-arias/mdi/cmd/mdi/prj"
	"github.com/js-arias/mdi/cmd/mdi/psmcmd"
	"github.com/js-arias/mdi/cmd/mdi/run"
	"github.com/js-arias/mdi/cmd/mdi/sim"
	"github.com/js-arias/mdi/cmd/mdi/trace"
)

var app = &command.Command{
	Usage: "mdi <command> [<argument>...]",
	Short: "a tool for integrative clustering of multiple data views",
}

func init() {
	app.Add(prj.Command)
	app.Add(data.Command)
	app.Add(labels.Command)
	app.Add(param.Command)
	app.Add(sim.Command)
	app.Add(run.Command)
	app.Add(psmcmd.Command)
	app.Add(best.Command)
	app.Add(cmpcmd.Command)
	app.Add(trace.Command)
	app.Add(heat.Command)
}

func main() {
	app.Main()
}
