// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sim implements the staggered solution of the coupled
// elasticity / crack phase-field problem
package sim

import (
	"time"

	"github.com/akva2/IFEM-OpenFrac/inp"
	"github.com/akva2/IFEM-OpenFrac/num"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
	"github.com/cpmech/gosl/utl"
)

// Main holds all data for a coupled fracture simulation
type Main struct {
	Sim     *inp.Simulation // simulation data
	Stg     Stagger         // staggering scheme driving each step
	Tp      *TimeStep       // step/cycle counters and time data
	Proc    int             // processor id
	ShowMsg bool            // show messages

	// energy-guarded time stepping
	tHist  []float64 // sampled times
	eHist  []float64 // sampled energy norms
	dHist  []float64 // tangent estimates
	dtPick float64   // damped time increment; 0 = use the input function

	ndump int // mesh dump counter
}

// NewMain returns a new Main structure
//  Input:
//   simfilepath -- simulation (.sim) filename including full path
//   alias       -- word to be appended to simulation key; e.g. when running multiple solutions
//   erasePrev   -- erase previous results files
//   verbose     -- show messages
//   s1          -- the solid mechanics collaborator
//   s2          -- the crack phase-field collaborator
func NewMain(simfilepath, alias string, erasePrev, verbose bool, s1 SolidSolver, s2 PhaseSolver) (o *Main) {

	// new Main object
	o = new(Main)

	// fix erasePrev flag when MPI is on
	if mpi.IsOn() {
		o.Proc = mpi.Rank()
		if o.Proc != 0 {
			erasePrev = false
		}
	}
	o.ShowMsg = verbose && (o.Proc == 0)

	// read input data
	o.Sim = inp.ReadSim(simfilepath, alias, erasePrev, o.Proc == 0)
	if o.Sim == nil {
		chk.Panic("cannot read simulation input data")
	}

	// message
	if o.ShowMsg {
		io.Pf("> Simulation (.sim) file read\n")
	}

	// diagnostics go to stdout on the writing rank only
	var diag DiagSink
	if o.ShowMsg {
		diag = io.Pf
	}

	// allocate staggering scheme with the collaborators wired up
	stg, err := New(o.Sim.Couple.Scheme, s1, s2, simfilepath, diag)
	if err != nil {
		chk.Panic("cannot allocate staggering scheme:\n%v", err)
	}
	o.Stg = stg

	// configure the fracture core
	f := stg.Core()
	f.Proc = o.Proc
	stg.ParseStaggering(&o.Sim.Couple)
	if o.Sim.Couple.EnergFile != "" {
		f.SetEnergyFile(io.Sf("%s/%s", o.Sim.DirOut, o.Sim.Couple.EnergFile))
	}

	// time stepping
	o.Tp = NewTimeStep(o.Sim.Control.DtFunc.F(0, nil))
	return
}

// Run runs the coupled simulation
func (o *Main) Run() (err error) {

	// exit commands
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, err) }()

	// plot functions
	if o.Sim.PlotF != nil {
		if o.Proc == 0 {
			o.Sim.Functions.PlotAll(o.Sim.PlotF, o.Sim.DirOut, o.Sim.Key)
		}
		if o.ShowMsg {
			io.Pf("> Functions plotted\n")
		}
		return
	}

	// collaborators
	f := o.Stg.Core()
	s1, s2 := f.S1, f.S2

	// read model data
	if err = s1.Read(f.infile); err != nil {
		return
	}
	if err = s2.Read(f.infile); err != nil {
		return
	}

	// preprocess
	if err = s1.Preprocess(); err != nil {
		return
	}
	if err = s2.Preprocess(); err != nil {
		return
	}

	// initialise solution vectors and linear systems
	if err = s1.Init(o.Tp); err != nil {
		return
	}
	if err = s2.Init(o.Tp); err != nil {
		return
	}
	if err = s1.InitSystem(); err != nil {
		return
	}
	if err = s2.InitSystem(); err != nil {
		return
	}
	if o.ShowMsg {
		io.Pf("> Collaborators initialised\n")
	}

	// initial mesh refinement
	if o.Sim.Adapt.Nrefinements > 0 {
		if err = f.InitialRefine(o.Sim.Adapt.Beta, o.Sim.Adapt.MinFrac, o.Sim.Adapt.Nrefinements); err != nil {
			return
		}
	}

	// save initial state
	if err = o.Stg.SaveStep(o.Tp); err != nil {
		return
	}

	// message
	if o.ShowMsg {
		io.Pf("> Running staggered solver\n")
	}

	// time loop
	tf := o.Sim.Control.Tf
	eps := 1e-10 * utl.Max(1, tf)
	tout := o.Sim.Control.DtoFunc.F(0, nil)
	for o.Tp.Time.T < tf-eps {

		// stop criterion flagged during the previous save
		if o.Stg.CheckStop() {
			break
		}

		// advance time
		dt := o.Sim.Control.DtFunc.F(o.Tp.Time.T, nil)
		if o.dtPick > 0 {
			dt = o.dtPick
		}
		if dt < o.Sim.Solver.DtMin {
			return chk.Err("time increment %g is smaller than DtMin = %g", dt, o.Sim.Solver.DtMin)
		}
		if o.Tp.Time.T+dt > tf {
			dt = tf - o.Tp.Time.T
		}
		o.Tp.AdvanceDt(dt)

		// advance collaborators
		if err = o.Stg.AdvanceStep(o.Tp); err != nil {
			return
		}

		// message
		if o.ShowMsg {
			io.Pf("\n  step=%d  time=%g  dt=%g\n", o.Tp.Step, o.Tp.Time.T, o.Tp.Time.Dt)
		}

		// solve one step
		if err = o.Stg.SolveStep(o.Tp, o.Sim.Couple.SolidFirst); err != nil {
			return
		}

		// adaptive mesh refinement
		if o.Sim.Adapt.Nrefinements > 0 && o.Sim.Adapt.Cadence > 0 && o.Tp.Step%o.Sim.Adapt.Cadence == 0 {
			f.SaveState()
			nref := f.AdaptMesh(o.Sim.Adapt.Beta, o.Sim.Adapt.MinFrac, o.Sim.Adapt.Nrefinements)
			if nref < 0 {
				return chk.Err("mesh adaptation failed with code %d", nref)
			}
			if nref > 0 {
				if o.Sim.Adapt.Dump && o.Proc == 0 {
					o.ndump++
					fn := io.Sf("%s/%s_mesh_%d.msh", o.Sim.DirOut, o.Sim.Key, o.ndump)
					if err = f.DumpMesh(fn); err != nil {
						return
					}
				}
				// energy samples from the old mesh are not comparable
				o.tHist, o.eHist = nil, nil
			}
		}

		// save results
		if o.Tp.Time.T >= tout-eps {
			if err = o.Stg.SaveStep(o.Tp); err != nil {
				return
			}
			tout = o.Tp.Time.T + o.Sim.Control.DtoFunc.F(o.Tp.Time.T, nil)
		}

		// energy-guarded time stepping
		if o.Sim.Control.DtSafe {
			o.pickDt()
		}
	}
	return
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// pickDt damps the next time increment when the sampled energy history
// develops a minimum inside the latest span
func (o *Main) pickDt() {
	f := o.Stg.Core()
	t := o.Tp.Time.T

	// roll the sample window
	o.tHist = append(o.tHist, t)
	o.eHist = append(o.eHist, f.Res.LastE)
	if len(o.tHist) > 4 {
		o.tHist = o.tHist[1:]
		o.eHist = o.eHist[1:]
	}
	n := len(o.tHist)
	o.dtPick = 0
	if n < 2 {
		return
	}

	// tangent estimates by finite differences
	o.dHist = make([]float64, n)
	for i := 0; i < n; i++ {
		lo, hi := i-1, i+1
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		o.dHist[i] = (o.eHist[hi] - o.eHist[lo]) / (o.tHist[hi] - o.tHist[lo])
	}

	// step only as far as the overshoot past the minimum, bounded to [DtMin, Dt]
	alpha, found := num.CubicMinimum(o.tHist, o.eHist, o.dHist)
	if !found || alpha <= o.tHist[n-2] {
		return
	}
	dt := t - alpha
	if dt < o.Sim.Solver.DtMin {
		dt = o.Sim.Solver.DtMin
	}
	if dt > o.Sim.Control.Dt {
		dt = o.Sim.Control.Dt
	}
	o.dtPick = dt
	if o.ShowMsg {
		io.Pf("  energy minimum near t=%g => dt=%g\n", alpha, dt)
	}
}

// onexit cleans resources and prints the final message with the cpu time
func (o *Main) onexit(cputime time.Time, prevErr error) (err error) {

	// clean resources
	o.Sim.Clean()

	// show final message
	if o.ShowMsg {
		if prevErr == nil {
			io.PfGreen("> Success\n")
			io.Pf("> CPU time = %v\n", time.Now().Sub(cputime))
		} else {
			io.PfRed("> Failed\n")
		}
	}

	// skip if previous error is not nil
	if prevErr != nil {
		err = prevErr
	}
	return
}
