// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package data is a metapackage for commands
// that dealt with data view files.
package data

import (
	"github.com/js-arias/command"
	"github.com/js-arias/mdi/cmd/mdi/data/add"
	"github.com/js-arias/mdi/cmd/mdi/data/list"
)

var Command = &command.Command{
	Usage: "data <command> [<argument>...]",
	Short: "commands for data view files",
}

func init() {
	Command.Add(add.Command)
	Command.Add(list.Command)
}
