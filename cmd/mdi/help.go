// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(labelFilesGuide)
	app.Add(projectsGuide)
	app.Add(viewFilesGuide)
}

var projectsGuide = &command.Command{
	Usage: "projects",
	Short: "about project files",
	Long: `
MDI requires several files to read and process the data views of a joint
clustering analysis. To reduce the burden of keeping track of many files, a
single project file is used to hold the reference of all files required in
the analysis. This guide explains the structure of the file, but most of the
time, the best and most secure way to edit or view this file is by using mdi
commands.

A project file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# mdi project files
	dataset	path
	views	views.tab
	labels	labels.tab
	params	params.tab

The valid file types are:

- Data views. Defined by the dataset keyword "views". This file contains the
  observations of each data view in the form of a tab-delimited file. The
  recommended way to add data views is by using the command 'mdi data add'.
- Cluster labels. Defined by the dataset keyword "labels". This file contains
  the cluster labels used to initialize the sampler, or to pin items with a
  known cluster, in the form of a tab-delimited file. The recommended way to
  edit the labels is by using the command 'mdi labels set'.
- Sampling parameters. Defined by the dataset keyword "params". This file
  contains the parameters of the sampler in the form of a tab-delimited file.
  The recommended way to edit the parameters is by using the command
  'mdi param'.
	`,
}

var viewFilesGuide = &command.Command{
	Usage: "view-files",
	Short: "about data view files",
	Long: `
In MDI, a data view is an independent set of measurements made over a shared
collection of items, for example, gene expression and mutation data measured
over the same collection of patients. All the views of a project are stored
in a single tab-delimited file.

The recommended way to interact with data views is with the commands in
"mdi data". Type "mdi data" to see the data commands, and
"mdi help data <command>" to learn more about a command.

A data view file is a tab-delimited file with the following columns:

	- view      the name of the data view
	- type      the measurement kind of the view. Can be "gaussian" (for
	            continuous measurements), or "categorical" (for binary,
	            presence-absence measurements).
	- clusters  the number of mixture components used when clustering
	            the view
	- item      the name of the measured item
	- feature   the name of the measured feature
	- value     the observed value. In a categorical view values must be
	            0 or 1.

Here is an example file:

	# data views
	view	type	clusters	item	feature	value
	expression	gaussian	4	patient 1	gene a	0.25
	expression	gaussian	4	patient 1	gene b	-1.2
	expression	gaussian	4	patient 2	gene a	3.1
	expression	gaussian	4	patient 2	gene b	0.04
	mutation	categorical	4	patient 1	site 1	1
	mutation	categorical	4	patient 2	site 1	0

The type and clusters columns must be identical in all the rows of a view,
and all the views must be measured over the same items.

In an MDI project, the file that contains the data views is indicated with
the "views" keyword.
	`,
}

var labelFilesGuide = &command.Command{
	Usage: "label-files",
	Short: "about cluster label files",
	Long: `
In MDI, cluster labels are used in two ways. An unfixed label is a hint used
to initialize the sampler, and can be changed at any iteration. A fixed label
pins the item to a cluster, so the item is never resampled; use fixed labels
for items with a known classification, as in a semi-supervised analysis.

The recommended way to interact with cluster labels is with the commands in
"mdi labels". Type "mdi labels" to see the label commands, and
"mdi help labels <command>" to learn more about a command.

Point estimate files written by the command 'mdi best', and the true label
files written by the command 'mdi sim', are also label files.

A label file is a tab-delimited file with the following columns:

	- view   the name of the data view
	- item   the name of the labeled item
	- label  the cluster label, an integer starting at 1
	- fixed  "true" if the label is pinned

Here is an example file:

	# cluster labels
	view	item	label	fixed
	expression	patient 1	1	true
	expression	patient 2	1	false
	expression	patient 3	2	false
	mutation	patient 1	2	true

In an MDI project, the file that contains the cluster labels is indicated
with the "labels" keyword.
	`,
}
