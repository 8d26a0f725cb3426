// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"github.com/akva2/IFEM-OpenFrac/inp"
	"github.com/cpmech/gosl/chk"
)

// Miehe implements the fixed-cycle predictor/corrector staggering scheme
// for quasi-static fracture: one elasticity predictor, one phase-field
// solve driven by the updated strain energy density, one elasticity
// corrector, then a fixed number of additional phase/elasticity cycles
type Miehe struct {
	Fracture
	NumCycle int // number of staggering cycles
}

// add scheme to factory
func init() {
	allocators["miehe"] = func() Stagger {
		o := new(Miehe)
		o.NumCycle = 2
		return o
	}
}

// ParseStaggering reads the staggering parameters from the input
func (o *Miehe) ParseStaggering(cd *inp.CoupleData) {
	o.Fracture.ParseStaggering(cd)
	if cd.MaxCycle > 0 {
		o.NumCycle = cd.MaxCycle
	}
}

// SolveStep computes the solution of the current step
func (o *Miehe) SolveStep(tp *TimeStep, firstS1 bool) (err error) {

	if tp.Step == 1 {

		// only solve the elasticity problem in the first step
		// if an initial phase field is given
		if o.S2.HasIC("phasefield") {
			o.diag("\n  Initial phase field...\n")
			o.S2.PostSolve(tp)
			if st := o.S1.SolveStep(tp, true); st <= Diverged {
				return chk.Err("solution of %s failed (%s)", o.S1.Name(), st)
			}
			tp.Time.First = false

		} else if o.S1.HaveCrackPressure() {

			// start the initial step by solving the phase-field first
			if st := o.S2.SolveStep(tp, false); st <= Diverged {
				return chk.Err("initial solution of %s failed (%s)", o.S2.Name(), st)
			}
		}
	}

	if tp.Step > 1 || !o.S2.HasIC("phasefield") {

		// predictor step for the elasticity problem
		tp.Iter = 0
		if st := o.S1.SolveIteration(tp, 1); st <= Diverged {
			return chk.Err("elasticity predictor %s", st)
		}

		// update strain energy density for the predictor step
		if err = o.S1.UpdateStrainEnergyDensity(tp); err != nil {
			return chk.Err("cannot update strain energy density:\n%v", err)
		}

		// solve the phase-field problem
		if st := o.S2.SolveStep(tp, false); st <= Diverged {
			return chk.Err("solution of %s failed (%s)", o.S2.Name(), st)
		}

		// iterate the elasticity problem (corrector step)
		tp.Iter++
		if st := o.S1.SolveIteration(tp, 2); st <= Diverged {
			return chk.Err("elasticity corrector %s", st)
		}

		// the cycle count is the sole control here; no residual test
		// terminates this loop
		for tp.Iter = 1; tp.Iter < o.NumCycle; tp.Iter++ {
			if st := o.S2.SolveStep(tp, false); st <= Diverged {
				return chk.Err("solution of %s failed in cycle %d (%s)", o.S2.Name(), tp.Iter, st)
			}
			if st := o.S1.SolveIteration(tp, 3); st <= Diverged {
				return chk.Err("solution of %s failed in cycle %d (%s)", o.S1.Name(), tp.Iter, st)
			}
		}

		tp.Time.First = false
		o.S1.PostSolve(tp)
		o.S2.PostSolve(tp)
	}

	// residual norms for reporting and the result writer
	_, _, err = o.Res.Calc(tp, false)
	return
}
