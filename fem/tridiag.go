// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// triSys holds a tridiagonal system stored by diagonals. low[i] couples
// row i to i-1 (low[0] is unused) and up[i] couples row i to i+1
// (up[n-1] is unused)
type triSys struct {
	low []float64
	dia []float64
	up  []float64
	cw  []float64 // workspace for the forward sweep
	dw  []float64
}

// newTriSys returns a zeroed n by n tridiagonal system
func newTriSys(n int) *triSys {
	return &triSys{
		low: make([]float64, n),
		dia: make([]float64, n),
		up:  make([]float64, n),
		cw:  make([]float64, n),
		dw:  make([]float64, n),
	}
}

// Clear zeroes all diagonals
func (o *triSys) Clear() {
	for i := range o.dia {
		o.low[i], o.dia[i], o.up[i] = 0, 0, 0
	}
}

// CopyFrom copies the diagonals of another system of the same size
func (o *triSys) CopyFrom(other *triSys) {
	copy(o.low, other.low)
	copy(o.dia, other.dia)
	copy(o.up, other.up)
}

// Solve computes x from A x = b by the Thomas algorithm. b is left intact
func (o *triSys) Solve(x, b []float64) error {
	n := len(o.dia)
	if len(x) != n || len(b) != n {
		return chk.Err("cannot solve tridiagonal system: size mismatch: n=%d len(x)=%d len(b)=%d", n, len(x), len(b))
	}
	if math.Abs(o.dia[0]) < 1e-300 {
		return chk.Err("tridiagonal system is singular at row %d", 0)
	}
	o.cw[0] = o.up[0] / o.dia[0]
	o.dw[0] = b[0] / o.dia[0]
	for i := 1; i < n; i++ {
		m := o.dia[i] - o.low[i]*o.cw[i-1]
		if math.Abs(m) < 1e-300 {
			return chk.Err("tridiagonal system is singular at row %d", i)
		}
		o.cw[i] = o.up[i] / m
		o.dw[i] = (b[i] - o.low[i]*o.dw[i-1]) / m
	}
	x[n-1] = o.dw[n-1]
	for i := n - 2; i >= 0; i-- {
		x[i] = o.dw[i] - o.cw[i]*x[i+1]
	}
	return nil
}

// MulVec computes y = A x
func (o *triSys) MulVec(y, x []float64) {
	n := len(o.dia)
	for i := 0; i < n; i++ {
		y[i] = o.dia[i] * x[i]
		if i > 0 {
			y[i] += o.low[i] * x[i-1]
		}
		if i+1 < n {
			y[i] += o.up[i] * x[i+1]
		}
	}
}
