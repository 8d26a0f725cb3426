// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"

	"github.com/akva2/IFEM-OpenFrac/inp"
	"github.com/cpmech/gosl/chk"
)

// Qstatic implements the tolerance-driven staggering scheme for
// quasi-static fracture: both collaborators are solved in alternation
// until the combined residual norm falls below CycleTol or MaxCycle
// cycles have been spent
type Qstatic struct {
	Fracture
	MaxCycle int     // maximum number of staggering cycles
	CycleTol float64 // residual norm tolerance for the staggering cycles
}

// add scheme to factory
func init() {
	allocators["qstatic"] = func() Stagger {
		o := new(Qstatic)
		o.MaxCycle = 50
		o.CycleTol = 1e-4
		return o
	}
}

// ParseStaggering reads the staggering parameters from the input
func (o *Qstatic) ParseStaggering(cd *inp.CoupleData) {
	o.Fracture.ParseStaggering(cd)
	if cd.Tol != 0 {
		o.CycleTol = cd.Tol
	}
	if cd.MaxCycle > 0 {
		o.MaxCycle = cd.MaxCycle
	}
}

// SolveStep computes the solution of the current step
func (o *Qstatic) SolveStep(tp *TimeStep, firstS1 bool) (err error) {

	if tp.Step == 1 {

		// only solve the elasticity problem in the first step
		// if an initial phase field is given
		if o.S2.HasIC("phasefield") {
			o.diag("\n  Initial phase field...\n")
			o.S2.PostSolve(tp)

			myTp := *tp // copy to avoid changing the cycle counter
			if st := o.S1.SolveStep(&myTp, true); st <= Diverged {
				return chk.Err("solution of %s failed (%s)", o.S1.Name(), st)
			}

			if st := o.checkConvergence(tp, Running, Converged); st <= Diverged {
				return chk.Err("staggering %s in the first step", st)
			}
			return
		}

		// start the initial step by solving the phase-field first
		if o.S1.HaveCrackPressure() {
			if st := o.S2.SolveStep(tp, false); st <= Diverged {
				return chk.Err("initial solution of %s failed (%s)", o.S2.Name(), st)
			}
		}

	} else {
		// solve the phase-field equation first, if an initial field is given
		firstS1 = !o.S2.HasIC("phasefield")
	}

	return o.SolveStaggered(tp, firstS1, o.MaxCycle, o.checkConvergence)
}

// checkConvergence decides the state of one staggering cycle
func (o *Qstatic) checkConvergence(tp *TimeStep, st1, st2 Status) Status {
	if st1 == Failure || st2 == Failure {
		return Failure
	}
	if st1 == Diverged || st2 == Diverged {
		return Diverged
	}

	rConv, _, err := o.Res.Calc(tp, true)
	if err != nil {
		o.diag(" *** %v\n", err)
		return Failure
	}

	if rConv < math.Abs(o.CycleTol) {
		return Converged
	}
	if tp.Iter < o.MaxCycle {
		return Running
	}
	if o.CycleTol < 0 {
		return Converged // negative tolerance turns the cycle cap into the acceptance criterion
	}

	o.diag(" *** staggering did not converge in %d cycles, bailing..\n", o.MaxCycle)
	return Diverged
}
