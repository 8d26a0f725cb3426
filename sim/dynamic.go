// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import "github.com/cpmech/gosl/chk"

// Dynamic implements the staggering scheme for fracture dynamics: one
// alternating solve of both collaborators per step, no staggering cycles.
// Termination is controlled by the reaction-force stop criterion only
type Dynamic struct {
	Fracture
}

// add scheme to factory
func init() {
	allocators["dynamic"] = func() Stagger { return new(Dynamic) }
}

// SolveStep computes the solution of the current step
func (o *Dynamic) SolveStep(tp *TimeStep, firstS1 bool) (err error) {

	// start the initial step by solving the phase-field first
	if tp.Step == 1 && o.S1.HaveCrackPressure() {
		if st := o.S2.SolveStep(tp, false); st <= Diverged {
			return chk.Err("initial solution of %s failed (%s)", o.S2.Name(), st)
		}
	}

	if err = o.SolveBasic(tp, firstS1); err != nil {
		return
	}

	// residual norms for reporting and the result writer
	_, _, err = o.Res.Calc(tp, false)
	return
}
