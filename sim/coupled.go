// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import "github.com/cpmech/gosl/chk"

// ConvCheck decides the state of one staggering cycle from the time step
// and the statuses of the two sub-solves
type ConvCheck func(tp *TimeStep, st1, st2 Status) Status

// Coupled holds the two collaborators of a coupled simulation and solves
// them in alternation
type Coupled struct {
	S1   SolidSolver // structural collaborator
	S2   PhaseSolver // phase-field collaborator
	Diag DiagSink    // diagnostics sink; may be nil
}

// diag reports a diagnostic message
func (o *Coupled) diag(msg string, prm ...interface{}) {
	if o.Diag != nil {
		o.Diag(msg, prm...)
	}
}

// SetupDependencies wires the field couplings between the collaborators.
// The tensile energy lives on integration points, not nodes; it is one
// global buffer across all patches, hence the explicit aliasing call
// instead of a normal field coupling
func (o *Coupled) SetupDependencies() {
	o.S1.RegisterDependency("phasefield", 1, o.S2)
	o.S2.SetTensileEnergy(o.S1.GetTensileEnergy())
}

// SolveBasic solves both collaborators once, in the given order
func (o *Coupled) SolveBasic(tp *TimeStep, firstS1 bool) (err error) {
	if firstS1 {
		if st := o.S1.SolveStep(tp, false); st <= Diverged {
			return chk.Err("solution of %s failed (%s)", o.S1.Name(), st)
		}
		if st := o.S2.SolveStep(tp, false); st <= Diverged {
			return chk.Err("solution of %s failed (%s)", o.S2.Name(), st)
		}
	} else {
		if st := o.S2.SolveStep(tp, false); st <= Diverged {
			return chk.Err("solution of %s failed (%s)", o.S2.Name(), st)
		}
		if st := o.S1.SolveStep(tp, false); st <= Diverged {
			return chk.Err("solution of %s failed (%s)", o.S1.Name(), st)
		}
	}
	tp.Time.First = false
	o.S1.PostSolve(tp)
	o.S2.PostSolve(tp)
	return
}

// SolveStaggered alternates sub-solves of both collaborators until check
// reports Converged. Diverged or Failure from check aborts the step;
// maxIter > 0 bounds the cycles when check never terminates on its own
func (o *Coupled) SolveStaggered(tp *TimeStep, firstS1 bool, maxIter int, check ConvCheck) (err error) {
	var st1, st2 Status
	for tp.Iter = 0; ; tp.Iter++ {
		if firstS1 {
			st1 = o.S1.SolveStep(tp, false)
			st2 = o.S2.SolveStep(tp, false)
		} else {
			st2 = o.S2.SolveStep(tp, false)
			st1 = o.S1.SolveStep(tp, false)
		}
		st := check(tp, st1, st2)
		if st == Converged {
			tp.Time.First = false
			o.S1.PostSolve(tp)
			o.S2.PostSolve(tp)
			return
		}
		if st <= Diverged {
			return chk.Err("staggering %s after %d cycles", st, tp.Iter+1)
		}
		if maxIter > 0 && tp.Iter > maxIter {
			return chk.Err("staggering did not terminate within %d cycles", maxIter)
		}
	}
}

// AdvanceBase advances both collaborators to the next step
func (o *Coupled) AdvanceBase(tp *TimeStep) (err error) {
	if err = o.S1.AdvanceStep(tp); err != nil {
		return chk.Err("cannot advance %s:\n%v", o.S1.Name(), err)
	}
	if err = o.S2.AdvanceStep(tp); err != nil {
		return chk.Err("cannot advance %s:\n%v", o.S2.Name(), err)
	}
	return
}
