// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package labels is a metapackage for commands
// that dealt with cluster label files.
package labels

import (
	"github.com/js-arias/command"
	"github.com/js-arias/mdi/cmd/mdi/labels/list"
	"github.com/js-arias/mdi/cmd/mdi/labels/set"
)

var Command = &command.Command{
	Usage: "labels <command> [<argument>...]",
	Short: "commands for cluster label files",
}

func init() {
	Command.Add(list.Command)
	Command.Add(set.Command)
}
