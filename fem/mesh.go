// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/akva2/IFEM-OpenFrac/sim"
	"github.com/cpmech/gosl/chk"
)

// gaussPt is the abscissa of the two-point Gauss rule on [-1,1]
var gaussPt = 1.0 / math.Sqrt(3.0)

// Mesh is a one-dimensional line mesh with nodes numbered from left to
// right and cells as node index pairs. Each cell carries its refinement
// level relative to the reference (coarsest) grid
type Mesh struct {
	X     []float64 // node coordinates, ascending
	Cells [][2]int  // cells as (left, right) node indices
	Level []int     // refinement level per cell

	ref float64 // spacing of the reference grid
}

// basisSnapshot captures the node coordinates right before a mesh
// refinement, for transferring point data onto the refined mesh
type basisSnapshot struct {
	X []float64
}

// NewMesh returns a uniform mesh of nels cells on [0, length]. level marks
// the refinement depth already built into the spacing, so that the area of
// the reference element reflects the unrefined grid
func NewMesh(length float64, nels, level int) *Mesh {
	if nels < 1 {
		nels = 1
	}
	if level < 0 {
		level = 0
	}
	o := &Mesh{
		X:     make([]float64, nels+1),
		Cells: make([][2]int, nels),
		Level: make([]int, nels),
		ref:   length / float64(nels) * math.Pow(2, float64(level)),
	}
	for i := range o.X {
		o.X[i] = length * float64(i) / float64(nels)
	}
	for i := range o.Cells {
		o.Cells[i] = [2]int{i, i + 1}
		o.Level[i] = level
	}
	return o
}

// NumElems returns the number of cells
func (o *Mesh) NumElems() int { return len(o.Cells) }

// NumNodes returns the number of nodes
func (o *Mesh) NumNodes() int { return len(o.X) }

// RefElemArea returns the area (span) of the reference element
func (o *Mesh) RefElemArea() float64 { return o.ref }

// ElemArea returns the current area (span) of cell eid
func (o *Mesh) ElemArea(eid int) float64 {
	return o.X[o.Cells[eid][1]] - o.X[o.Cells[eid][0]]
}

// SnapshotBasis returns an opaque copy of the node coordinates
func (o *Mesh) SnapshotBasis() sim.Basis {
	return &basisSnapshot{X: append([]float64(nil), o.X...)}
}

// FunctionsForElements returns the basis function ids covering the given
// cells. With one hat function per node, the left-end node serves as the
// representative id of each cell, so ids and cell indices coincide
func (o *Mesh) FunctionsForElements(elems []int) []int {
	return append([]int(nil), elems...)
}

// Refine bisects the cells identified by the given function ids, following
// the convention of FunctionsForElements, and renumbers nodes and cells
// from left to right
func (o *Mesh) Refine(funcs []int) error {
	mark := make([]bool, len(o.Cells))
	for _, e := range funcs {
		if e < 0 || e >= len(o.Cells) {
			return chk.Err("cannot refine mesh: function id %d is out of range", e)
		}
		mark[e] = true
	}
	var X []float64
	var cells [][2]int
	var level []int
	for i, c := range o.Cells {
		x0, x1 := o.X[c[0]], o.X[c[1]]
		n0 := len(X)
		X = append(X, x0)
		if mark[i] {
			X = append(X, 0.5*(x0+x1))
			cells = append(cells, [2]int{n0, n0 + 1}, [2]int{n0 + 1, n0 + 2})
			level = append(level, o.Level[i]+1, o.Level[i]+1)
		} else {
			cells = append(cells, [2]int{n0, n0 + 1})
			level = append(level, o.Level[i])
		}
	}
	X = append(X, o.X[o.Cells[len(o.Cells)-1][1]])
	o.X, o.Cells, o.Level = X, cells, level
	return nil
}

// Dump writes the mesh as plain text: a header line, the node coordinates,
// then the cells with their refinement level
func (o *Mesh) Dump(w io.Writer) (err error) {
	if _, err = fmt.Fprintf(w, "# 1D mesh: %d nodes, %d cells\n", o.NumNodes(), o.NumElems()); err != nil {
		return
	}
	for _, x := range o.X {
		if _, err = fmt.Fprintf(w, "%g\n", x); err != nil {
			return
		}
	}
	for i, c := range o.Cells {
		if _, err = fmt.Fprintf(w, "%d %d %d\n", c[0], c[1], o.Level[i]); err != nil {
			return
		}
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// ipCoordsOf returns the integration point coordinates of the grid spanned
// by the given node coordinates, in ascending order
func ipCoordsOf(x []float64) []float64 {
	out := make([]float64, 0, 2*(len(x)-1))
	for e := 0; e+1 < len(x); e++ {
		h := x[e+1] - x[e]
		xm := 0.5 * (x[e] + x[e+1])
		out = append(out, xm-0.5*h*gaussPt, xm+0.5*h*gaussPt)
	}
	return out
}

// interpLinear evaluates the piecewise-linear interpolant of (xs, vs) at x,
// clamping outside the sampled span. xs must be ascending
func interpLinear(xs, vs []float64, x float64) float64 {
	n := len(xs)
	if x <= xs[0] {
		return vs[0]
	}
	if x >= xs[n-1] {
		return vs[n-1]
	}
	i := sort.SearchFloat64s(xs, x)
	r := (x - xs[i-1]) / (xs[i] - xs[i-1])
	return vs[i-1] + r*(vs[i]-vs[i-1])
}
