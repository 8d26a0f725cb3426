// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"github.com/akva2/IFEM-OpenFrac/inp"
	"github.com/cpmech/gosl/chk"
)

// Stagger is one staggering scheme driving the coupled solution of one
// time step
type Stagger interface {
	ParseStaggering(cd *inp.CoupleData)          // reads scheme parameters from the input
	SolveStep(tp *TimeStep, firstS1 bool) error  // computes the solution of the current step
	AdvanceStep(tp *TimeStep) error              // advances both collaborators to the next step
	SaveStep(tp *TimeStep) error                 // saves the converged results of one step
	CheckStop() bool                             // whether the stop criterion fired
	Core() *Fracture                             // shared fracture core
}

// allocators holds all available staggering schemes
var allocators = map[string]func() Stagger{}

// New returns a new staggering scheme with the collaborators wired up
func New(kind string, s1 SolidSolver, s2 PhaseSolver, infile string, diag DiagSink) (Stagger, error) {
	alloc, ok := allocators[kind]
	if !ok {
		return nil, chk.Err("staggering scheme %q is not available", kind)
	}
	stg := alloc()
	f := stg.Core()
	f.S1, f.S2, f.Diag = s1, s2, diag
	f.infile = infile
	f.Res = ResidualCalc{S1: s1, S2: s2, Diag: diag}
	f.SetupDependencies()
	return stg, nil
}
