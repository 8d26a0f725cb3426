// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_adapt01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("adapt01. element selection and mesh re-initialisation")

	s1, s2, log := newMockPair()
	stg, err := New("qstatic", s1, s2, "frac.sim", nil)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	f := stg.Core()
	tess := s1.patch.(*mockTess)
	s2.gNorm = 3
	s2.eNorms = [][]float64{
		{0.9, 0.1, 0.5, 0.05, 0.7},
		{9, 9, 9, 9, 9}, // second adaptation finds nothing
	}

	f.SaveState()
	*log = nil

	n := f.AdaptMesh(-1, 0.2, 2)
	if n != 2 {
		tst.Errorf("wrong refinement count: %d\n", n)
		return
	}
	chk.Scalar(tst, "aMin", 1e-17, f.aMin, 1.0/16.0)

	expected := []string{
		"s2.norm(3)",
		"s1.refine", "s2.refine",
		"s1.clear", "s2.clear",
		"s1.read", "s2.read",
		"s1.pre", "s2.pre",
		"s1.init", "s2.init",
		"s1.system", "s2.system",
		"s1.setsols(2)", "s2.setsol",
		"s2.alias",
		"s2.transfer",
	}
	chk.Strings(tst, "call order", *log, expected)

	chk.Ints(tst, "refined functions", s1.lastPrm.Elements, []int{103, 101})
	chk.Ints(tst, "refinement options", s1.lastPrm.Options, []int{10, 1, 2, 0, 1})
	chk.Vector(tst, "restored phase solution", 1e-17, s2.setSol, []float64{0.5, 0.6})
	chk.Vector(tst, "transferred history", 1e-17, s2.gotHsol, []float64{0.9})
	if s2.gotBasis == nil {
		tst.Errorf("history transfer must receive the old basis\n")
	}
	if tess.snaps != 1 {
		tst.Errorf("wrong number of basis snapshots: %d\n", tess.snaps)
	}
	if s2.tens != s1.GetTensileEnergy() {
		tst.Errorf("tensile energy buffer was not re-aliased\n")
	}

	// reference element area is cached after the first adaptation
	if n = f.AdaptMesh(-1, 0.2, 2); n != 0 {
		tst.Errorf("second adaptation must find nothing: %d\n", n)
	}
	if tess.refCalls != 1 {
		tst.Errorf("reference element area must be queried once: %d\n", tess.refCalls)
	}
}

func Test_adapt02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("adapt02. refinement floors and caps")

	// elements already at the minimum area are passed over
	s1, s2, _ := newMockPair()
	stg, err := New("qstatic", s1, s2, "frac.sim", nil)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	f := stg.Core()
	tess := s1.patch.(*mockTess)
	tess.areas[1] = 1.0 / 16.0
	s2.gNorm = 3
	s2.eNorms = [][]float64{{0.9, 0.1, 0.5, 0.05, 0.7}}

	if n := f.AdaptMesh(-1, 0.2, 2); n != 1 {
		tst.Errorf("wrong refinement count: %d\n", n)
		return
	}
	chk.Ints(tst, "refined functions", s1.lastPrm.Elements, []int{103})

	// fixed indicator floor below all indicators: nothing to refine
	s1, s2, log := newMockPair()
	stg, err = New("qstatic", s1, s2, "frac.sim", nil)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	f = stg.Core()
	s2.gNorm = 3
	s2.eNorms = [][]float64{{0.9, 0.1, 0.5, 0.05, 0.7}}
	*log = nil
	if n := f.AdaptMesh(-1, -0.01, 2); n != 0 {
		tst.Errorf("nothing must be refined: %d\n", n)
		return
	}
	chk.Strings(tst, "call order", *log, []string{"s2.norm(3)"})

	// percentage cap on the number of refined elements
	s1, s2, _ = newMockPair()
	stg, err = New("qstatic", s1, s2, "frac.sim", nil)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	f = stg.Core()
	s2.gNorm = 3
	s2.eNorms = [][]float64{{0.9, 0.1, 0.5, 0.05, 0.7}}
	if n := f.AdaptMesh(40, -1.0, 2); n != 2 {
		tst.Errorf("wrong refinement count: %d\n", n)
		return
	}
	chk.Ints(tst, "refined functions", s1.lastPrm.Elements, []int{103, 101})
}

func Test_adapt03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("adapt03. failure codes")

	newCore := func() (*mockSolid, *mockPhase, *Fracture) {
		s1, s2, _ := newMockPair()
		stg, _ := New("qstatic", s1, s2, "frac.sim", nil)
		s2.gNorm = 3
		s2.eNorms = [][]float64{{0.01, 0.01, 0.01, 0.01, 0.01}}
		return s1, s2, stg.Core()
	}

	// missing refinement capability
	s1, s2, f := newCore()
	s1.patch = plainPatch{}
	if n := f.AdaptMesh(-1, 0.2, 2); n != adaptNoCapability {
		tst.Errorf("wrong code for missing capability: %d\n", n)
	}

	// missing refinement indicators
	s1, s2, f = newCore()
	s2.eNorms = nil
	if n := f.AdaptMesh(-1, 0.2, 2); n != adaptNoIndicator {
		tst.Errorf("wrong code for missing indicators: %d\n", n)
	}

	// refinement rejected by a collaborator
	s1, s2, f = newCore()
	s2.refineErr = chk.Err("refine rejected")
	if n := f.AdaptMesh(-1, 0.2, 2); n != adaptRefineFail {
		tst.Errorf("wrong code for refine failure: %d\n", n)
	}

	// re-reading the input fails
	s1, s2, f = newCore()
	s1.readErr = chk.Err("bad file")
	if n := f.AdaptMesh(-1, 0.2, 2); n != adaptReadFail {
		tst.Errorf("wrong code for read failure: %d\n", n)
	}

	// preprocessing fails
	s1, s2, f = newCore()
	s2.preErr = chk.Err("no patches")
	if n := f.AdaptMesh(-1, 0.2, 2); n != adaptPreFail {
		tst.Errorf("wrong code for preprocess failure: %d\n", n)
	}

	// re-initialisation fails
	s1, s2, f = newCore()
	s1.initErr = chk.Err("no state")
	if n := f.AdaptMesh(-1, 0.2, 2); n != adaptInitFail {
		tst.Errorf("wrong code for init failure: %d\n", n)
	}

	// linear system re-initialisation fails
	s1, s2, f = newCore()
	s2.sysErr = chk.Err("no system")
	if n := f.AdaptMesh(-1, 0.2, 2); n != adaptSystemFail {
		tst.Errorf("wrong code for system failure: %d\n", n)
	}
}

func Test_adapt04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("adapt04. initial refinement loop")

	// sufficient refinement was built during input parsing
	s1, s2, log := newMockPair()
	stg, err := New("qstatic", s1, s2, "frac.sim", nil)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	f := stg.Core()
	s2.initRef = 2
	*log = nil
	if err = f.InitialRefine(-1, 0.2, 2); err != nil {
		tst.Errorf("InitialRefine failed: %v\n", err)
		return
	}
	if len(*log) != 0 {
		tst.Errorf("unexpected calls: %v\n", *log)
	}

	// an initial phase field suppresses initial refinement
	s1, s2, log = newMockPair()
	stg, err = New("qstatic", s1, s2, "frac.sim", nil)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	f = stg.Core()
	s2.icPhase = true
	*log = nil
	if err = f.InitialRefine(-1, 0.2, 2); err != nil {
		tst.Errorf("InitialRefine failed: %v\n", err)
		return
	}
	if len(*log) != 0 {
		tst.Errorf("unexpected calls: %v\n", *log)
	}

	// alternate standalone phase solves with adaptations until the grid
	// resolves the crack
	s1, s2, log = newMockPair()
	stg, err = New("qstatic", s1, s2, "frac.sim", nil)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	f = stg.Core()
	s2.gNorm = 3
	s2.eNorms = [][]float64{
		{0.01, 9, 9, 9, 9},
		{9, 0.01, 9, 9, 9},
		{9, 9, 9, 9, 9},
	}
	*log = nil
	if err = f.InitialRefine(-1, -0.02, 2); err != nil {
		tst.Errorf("InitialRefine failed: %v\n", err)
		return
	}
	if n := count(*log, "s2.solve(true)"); n != 3 {
		tst.Errorf("wrong number of phase solves: %d\n", n)
	}
	if n := count(*log, "s1.refine"); n != 2 {
		tst.Errorf("wrong number of refinements: %d\n", n)
	}
	if n := count(*log, "s2.alias"); n != 2 {
		tst.Errorf("tensile energy must be re-aliased per refinement: %d\n", n)
	}

	// failures inside the loop surface as errors
	s1, s2, log = newMockPair()
	stg, err = New("qstatic", s1, s2, "frac.sim", nil)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	f = stg.Core()
	s1.patch = plainPatch{}
	if err = f.InitialRefine(-1, 0.2, 2); err == nil {
		tst.Errorf("InitialRefine must fail on a refinement failure\n")
	}
}
