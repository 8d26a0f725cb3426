// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"bytes"
	"math"
	"os"

	"github.com/akva2/IFEM-OpenFrac/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Fracture is the shared core of all staggering schemes: it couples a
// structural collaborator with a crack phase-field collaborator, writes the
// global energy log, evaluates the reaction-force stop criterion and owns
// the state buffers used when refining the mesh
type Fracture struct {
	Coupled
	Res ResidualCalc // residual/energy norms of the coupled problem

	// configuration
	Proc      int    // process rank; rank 0 writes the diagnostics files
	infile    string // input file; re-read by both collaborators on refinement
	energFile string // file name for global energy output; empty = no log

	// stop criterion
	irfStop int     // 1-based reaction force component; 0 = no stop criterion
	stopVal float64 // stop simulation when the reaction falls below this value
	doStop  bool    // re-evaluated after each saved step, consulted at the next step boundary

	// refinement state
	aMin float64     // minimum element area; cached on first use
	sols [][]float64 // solution state to transfer onto refined mesh; phase solution last
	hsol []float64   // history field to transfer onto refined mesh

	nBlock int // result block counter passed through to the collaborators
}

// Core gives access to the shared fracture core
func (o *Fracture) Core() *Fracture { return o }

// ParseStaggering reads the staggering parameters common to all schemes
func (o *Fracture) ParseStaggering(cd *inp.CoupleData) {
	if cd.Stop != nil {
		o.irfStop = cd.Stop.Rcomp
		o.stopVal = cd.Stop.Force
	}
}

// SetEnergyFile assigns the file name for global energy output. The file
// itself is created when the first step is saved
func (o *Fracture) SetEnergyFile(fname string) {
	if fname != "" {
		o.energFile = fname
		o.diag("\tFile for global energy output: %s\n", fname)
	}
}

// CheckStop tells whether the stop criterion has flagged the simulation
// for termination
func (o *Fracture) CheckStop() bool { return o.doStop }

// AdvanceStep advances both collaborators to the next step
func (o *Fracture) AdvanceStep(tp *TimeStep) error {
	return o.AdvanceBase(tp)
}

// SaveStep saves the converged results of one step: appends the global
// energies, forces and reactions to the energy log, evaluates the stop
// criterion and forwards to the collaborators
func (o *Fracture) SaveStep(tp *TimeStep) (err error) {

	RF, _ := o.S1.GetBoundaryReactions()

	if o.energFile != "" && tp.Step > 0 && o.Proc == 0 {

		BF := o.S1.GetBoundaryForce(o.S1.GetSolutions(), tp)

		var buf bytes.Buffer
		if tp.Step == 1 {
			io.Ff(&buf, "#t eps_e external_energy eps+ eps- eps_b |c| eps_d-eps_d(0) eps_d")
			for i := range BF {
				io.Ff(&buf, " load_%c", 'X'+i)
			}
			for i := range RF {
				io.Ff(&buf, " react_%c", 'X'+i)
			}
			io.Ff(&buf, "\n")
		}
		io.Ff(&buf, "%.11e", tp.Time.T)
		n1 := o.S1.GetGlobalNorms()
		for _, v := range n1 {
			io.Ff(&buf, " %g", v)
		}
		n2 := o.S2.GetGlobalNorms()
		io.Ff(&buf, " %g", pick(n2, 1, len(n2) > 2))
		io.Ff(&buf, " %g", pick(n2, len(n2)-2, len(n2) > 1))
		io.Ff(&buf, " %g", pick(n2, len(n2)-1, len(n2) > 0))
		for _, f := range BF {
			io.Ff(&buf, " %g", trunc(f))
		}
		for _, f := range RF {
			io.Ff(&buf, " %g", trunc(f))
		}
		io.Ff(&buf, "\n")

		if err = appendTo(o.energFile, tp.Step == 1, &buf); err != nil {
			return chk.Err("cannot write energy log:\n%v", err)
		}
	}

	// stop criterion
	if tp.Step > 1 && o.irfStop > 0 && o.irfStop <= len(RF) {
		o.doStop = math.Abs(RF[o.irfStop-1]) < o.stopVal
		if o.doStop {
			o.diag("\n >>> Terminating simulation due to stop criterion |RF(%d)| = %g < %g\n",
				o.irfStop, math.Abs(RF[o.irfStop-1]), o.stopVal)
		}
	}

	if err = o.S2.SaveStep(tp, &o.nBlock); err != nil {
		return chk.Err("cannot save %s results:\n%v", o.S2.Name(), err)
	}
	if err = o.S1.SaveStep(tp, &o.nBlock); err != nil {
		return chk.Err("cannot save %s results:\n%v", o.S1.Name(), err)
	}
	return o.S2.SaveResidual(tp, o.Res.Residual, &o.nBlock)
}

// SaveState captures the current solution state of both collaborators plus
// the phase-field history into internal buffers, to be transferred onto the
// refined mesh
func (o *Fracture) SaveState() {
	cur := o.S1.GetSolutions()
	o.sols = make([][]float64, 0, len(cur)+1)
	for _, s := range cur {
		o.sols = append(o.sols, cloneVec(s))
	}
	o.sols = append(o.sols, cloneVec(o.S2.GetSolution()))
	o.hsol = cloneVec(o.S2.GetHistoryField())
}

// DumpMesh dumps the current mesh of the phase-field collaborator to file
func (o *Fracture) DumpMesh(fname string) (err error) {
	f, err := os.Create(fname)
	if err != nil {
		return chk.Err("cannot create mesh dump file:\n%v", err)
	}
	defer f.Close()
	return o.S2.DumpGeometry(f)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// pick returns v[i] if ok, otherwise zero
func pick(v []float64, i int, ok bool) float64 {
	if ok {
		return v[i]
	}
	return 0
}

// trunc zeroes values below the noise floor
func trunc(v float64) float64 {
	if math.Abs(v) <= 1e-16 {
		return 0
	}
	return v
}

// cloneVec returns a copy of a vector
func cloneVec(v []float64) []float64 {
	w := make([]float64, len(v))
	copy(w, v)
	return w
}

// appendTo appends the buffer to fname, truncating first when fresh
func appendTo(fname string, fresh bool, buf *bytes.Buffer) (err error) {
	flags := os.O_CREATE | os.O_APPEND | os.O_WRONLY
	if fresh {
		flags = os.O_CREATE | os.O_TRUNC | os.O_WRONLY
	}
	f, err := os.OpenFile(fname, flags, 0644)
	if err != nil {
		return
	}
	defer f.Close()
	_, err = f.Write(buf.Bytes())
	return
}
