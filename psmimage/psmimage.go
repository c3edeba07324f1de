// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package psmimage implements a heat map image
// for a posterior similarity matrix.
package psmimage

import (
	"image"
	"image/color"

	"github.com/js-arias/blind"
	"gonum.org/v1/gonum/mat"
)

type Image struct {
	// Matrix is the posterior similarity matrix.
	Matrix *mat.SymDense

	// Order is the display order of the items,
	// a permutation of the matrix indices.
	// If empty,
	// the matrix order is used.
	Order []int

	// Scale is the size in pixels
	// of each matrix cell.
	Scale int

	// A Gradient color scheme
	Gradient Gradienter

	dim int
}

func (i *Image) Format() {
	i.dim = i.Matrix.SymmetricDim()
	if i.Scale < 1 {
		i.Scale = 1
	}
	if len(i.Order) != i.dim {
		i.Order = nil
	}
	if i.Gradient == nil {
		i.Gradient = Iridescent{}
	}
}

func (i *Image) ColorModel() color.Model { return color.RGBAModel }
func (i *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, i.dim*i.Scale, i.dim*i.Scale)
}
func (i *Image) At(x, y int) color.Color {
	r := y / i.Scale
	c := x / i.Scale
	if r < 0 || r >= i.dim || c < 0 || c >= i.dim {
		return color.RGBA{A: 255}
	}
	if i.Order != nil {
		r = i.Order[r]
		c = i.Order[c]
	}
	return i.Gradient.Gradient(i.Matrix.At(r, c))
}

// Gradientes is an interface for types
// that return a color gradient
type Gradienter interface {
	Gradient(v float64) color.Color
}

// HalfGrayScale returns a gray scale
// between 0 (black)
// and 128 (gray).
type HalfGrayScale struct{}

func (h HalfGrayScale) Gradient(v float64) color.Color {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	c := 128 - uint8(v*128)
	return color.RGBA{c, c, c, 255}
}

// LightGrayScale returns a gray scale
// between 0 (black)
// to 200 (light gray).
type LightGrayScale struct{}

func (l LightGrayScale) Gradient(v float64) color.Color {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	c := 200 - uint8(v*200)
	return color.RGBA{c, c, c, 255}
}

// Incandescent is the incandescent color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_incandescent>.
type Incandescent struct{}

func (i Incandescent) Gradient(v float64) color.Color {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	return blind.Sequential(blind.Incandescent, v)
}

// Iridescent is the iridescent color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_iridescent>.
type Iridescent struct{}

func (i Iridescent) Gradient(v float64) color.Color {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	return blind.Sequential(blind.Iridescent, v)
}

// RainbowPurpleToRed is the rainbow color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_rainbow_smooth>
// starting at purple and ending at red.
type RainbowPurpleToRed struct{}

func (r RainbowPurpleToRed) Gradient(v float64) color.Color {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	return blind.Sequential(blind.RainbowPurpleToRed, v)
}
