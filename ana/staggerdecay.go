// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import "math"

// StaggerDecay models the residual of an alternating two-field solve whose
// coupling error contracts by a fixed ratio every cycle:
//
//    r(k) = R0・Ratio^k      0 < Ratio < 1
//
type StaggerDecay struct {
	R0    float64 // residual after the first cycle
	Ratio float64 // contraction ratio per cycle
}

// Residual returns the residual after k cycles
func (o StaggerDecay) Residual(k int) float64 {
	return o.R0 * math.Pow(o.Ratio, float64(k))
}

// CyclesTo returns the smallest cycle count k with r(k) < tol
func (o StaggerDecay) CyclesTo(tol float64) int {
	if o.R0 < tol {
		return 0
	}
	k := math.Log(tol/o.R0) / math.Log(o.Ratio)
	n := int(math.Ceil(k))
	for o.Residual(n) >= tol {
		n++
	}
	return n
}
