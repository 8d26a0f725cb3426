// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// ResidualCalc computes the combined residual and energy norms of the
// coupled problem. The phase-field residual vector of the last call is kept
// for the result writer. During staggering cycles a 3-point energy history
// is maintained to derive a convergence-angle diagnostic; the angle is
// reported only, never used for control decisions
type ResidualCalc struct {

	// collaborators
	S1   SolidSolver // structural collaborator
	S2   PhaseSolver // phase-field collaborator
	Diag DiagSink    // diagnostics sink; may be nil

	// energy history over the staggering cycles of one step
	E0 float64 // energy norm of initial cycle
	Ec float64 // energy norm of current cycle
	Ep float64 // energy norm of previous cycle

	// results of last call
	LastR    float64   // last combined residual norm
	LastE    float64   // last combined energy norm
	Residual []float64 // residual vector of the phase-field equation
}

// diag reports a diagnostic message
func (o *ResidualCalc) diag(msg string, prm ...interface{}) {
	if o.Diag != nil {
		o.Diag(msg, prm...)
	}
}

// Calc computes the residual and energy norms of both collaborators with
// their current solution states. cycles selects the per-cycle reporting
// format including the energy history update
func (o *ResidualCalc) Calc(tp *TimeStep, cycles bool) (rConv, eConv float64, err error) {

	// residual of the elasticity equation
	if !o.S1.SetMode(RHSOnly) {
		return 0, 0, chk.Err("elasticity solver rejects out-of-balance mode")
	}
	if err = o.S1.AssembleSystem(&tp.Time, o.S1.GetSolutions(), false); err != nil {
		return 0, 0, chk.Err("cannot assemble elasticity residual:\n%v", err)
	}
	r1, err := o.S1.ExtractLoadVec()
	if err != nil {
		return 0, 0, chk.Err("cannot extract elasticity residual:\n%v", err)
	}
	rNorm1 := la.VecNorm(r1)
	eNorm1 := o.S1.ExtractEnergy()

	// residual of the phase-field equation
	if !o.S2.SetMode(IntForces) {
		return 0, 0, chk.Err("phase-field solver rejects internal-forces mode")
	}
	sol2 := [][]float64{o.S2.GetSolution()}
	if err = o.S2.AssembleSystem(&tp.Time, sol2, false); err != nil {
		return 0, 0, chk.Err("cannot assemble phase-field residual:\n%v", err)
	}
	o.Residual, err = o.S2.ExtractLoadVec()
	if err != nil {
		return 0, 0, chk.Err("cannot extract phase-field residual:\n%v", err)
	}
	rNorm2 := la.VecNorm(o.Residual)
	eNorm2 := o.S2.ExtractEnergy()

	rConv = rNorm1 + rNorm2
	eConv = eNorm1 + eNorm2
	o.LastR, o.LastE = rConv, eConv

	// report; within cycles also update the energy history
	if cycles {
		msg := io.Sf("  cycle %d: Res = %g + %g = %g", tp.Iter, rNorm1, rNorm2, rConv)
		if eConv > 0 {
			msg += io.Sf("  E = %g + %g = %g", eNorm1, eNorm2, eConv)
		}
		if tp.Iter == 0 {
			o.E0 = eConv
		} else {
			if tp.Iter > 1 {
				o.Ep = o.Ec
			} else {
				o.Ep = o.E0
			}
			o.Ec = eConv
			if eConv > 0 {
				beta := math.Atan2(float64(tp.Iter)*(o.Ep-o.Ec), o.E0-o.Ec) * 180.0 / math.Pi
				msg += io.Sf("  beta=%g", beta)
			}
		}
		o.diag("%s\n", msg)
	} else {
		msg := io.Sf("  Res = %g + %g = %g", rNorm1, rNorm2, rConv)
		if eConv > 0 {
			msg += io.Sf("\n    E = %g + %g = %g", eNorm1, eNorm2, eConv)
		}
		o.diag("%s\n", msg)
	}
	return
}
