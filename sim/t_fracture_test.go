// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"os"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_fracture01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fracture01. scheme factory and collaborator wiring")

	s1, s2, log := newMockPair()
	stg, err := New("qstatic", s1, s2, "frac.sim", nil)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	if _, ok := stg.(*Qstatic); !ok {
		tst.Errorf("wrong scheme type: %T\n", stg)
	}
	chk.Strings(tst, "wiring", *log, []string{"s1.dep(phasefield,1,phase)", "s2.alias"})
	if s2.tens != s1.GetTensileEnergy() {
		tst.Errorf("tensile energy buffer must be aliased into the phase solver\n")
	}

	if stg, err = New("miehe", s1, s2, "frac.sim", nil); err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	if _, ok := stg.(*Miehe); !ok {
		tst.Errorf("wrong scheme type: %T\n", stg)
	}

	if stg, err = New("dynamic", s1, s2, "frac.sim", nil); err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	if _, ok := stg.(*Dynamic); !ok {
		tst.Errorf("wrong scheme type: %T\n", stg)
	}

	if stg, err = New("bogus", s1, s2, "frac.sim", nil); err == nil || stg != nil {
		tst.Errorf("unknown schemes must be rejected\n")
	}
}

func Test_fracture02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fracture02. global energy log")

	s1, s2, _ := newMockPair()
	var msgs []string
	diag := func(msg string, prm ...interface{}) { msgs = append(msgs, io.Sf(msg, prm...)) }
	stg, err := New("dynamic", s1, s2, "frac.sim", diag)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	f := stg.Core()

	os.MkdirAll("/tmp/openfrac", 0777)
	fname := "/tmp/openfrac/test_energy.dat"
	os.Remove(fname)
	f.SetEnergyFile(fname)
	chk.Strings(tst, "announcement", msgs, []string{io.Sf("\tFile for global energy output: %s\n", fname)})

	s1.norms = []float64{0.111, 0.222}
	s2.norms = []float64{3, 0.25, 0.9, 0.8}
	s1.bforce = []float64{10, 20}
	s1.react = []float64{-5, 2e-17}

	// the initial state is not logged
	tp := NewTimeStep(0.05)
	if err = stg.SaveStep(tp); err != nil {
		tst.Errorf("SaveStep failed: %v\n", err)
		return
	}
	if _, errStat := os.Stat(fname); errStat == nil {
		tst.Errorf("energy log must not exist before the first step\n")
	}

	tp.AdvanceDt(0.05)
	if err = stg.SaveStep(tp); err != nil {
		tst.Errorf("SaveStep failed: %v\n", err)
		return
	}
	tp.AdvanceDt(0.05)
	s1.react = []float64{-4, 0}
	if err = stg.SaveStep(tp); err != nil {
		tst.Errorf("SaveStep failed: %v\n", err)
		return
	}

	b, err := io.ReadFile(fname)
	if err != nil {
		tst.Errorf("cannot read energy log: %v\n", err)
		return
	}
	chk.Strings(tst, "energy log", strings.Split(string(b), "\n"), []string{
		"#t eps_e external_energy eps+ eps- eps_b |c| eps_d-eps_d(0) eps_d load_X load_Y react_X react_Y",
		"5.00000000000e-02 0.111 0.222 0.25 0.9 0.8 10 20 -5 0",
		"1.00000000000e-01 0.111 0.222 0.25 0.9 0.8 10 20 -4 0",
		"",
	})

	// other ranks must not touch the file
	f.Proc = 1
	tp.AdvanceDt(0.05)
	if err = stg.SaveStep(tp); err != nil {
		tst.Errorf("SaveStep failed: %v\n", err)
		return
	}
	b, err = io.ReadFile(fname)
	if err != nil {
		tst.Errorf("cannot read energy log: %v\n", err)
		return
	}
	if n := len(strings.Split(string(b), "\n")); n != 4 {
		tst.Errorf("rank 1 must not write the energy log (%d lines)\n", n)
	}
}

func Test_fracture03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fracture03. state capture for mesh refinement")

	s1, s2, _ := newMockPair()
	stg, err := New("dynamic", s1, s2, "frac.sim", nil)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	f := stg.Core()
	f.SaveState()

	// the captured state must not alias the live vectors
	s1.sols[0][0] = 99
	s2.sol[1] = 99
	s2.hist[0] = 99
	if len(f.sols) != 2 {
		tst.Errorf("wrong number of captured vectors: %d\n", len(f.sols))
		return
	}
	chk.Vector(tst, "captured solid state", 1e-17, f.sols[0], []float64{1, 2, 3})
	chk.Vector(tst, "captured phase state", 1e-17, f.sols[1], []float64{0.5, 0.6})
	chk.Vector(tst, "captured history", 1e-17, f.hsol, []float64{0.9})
}

func Test_fracture04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fracture04. step advancement and mesh dumps")

	s1, s2, log := newMockPair()
	stg, err := New("dynamic", s1, s2, "frac.sim", nil)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	tp := NewTimeStep(0.1)
	tp.AdvanceDt(0.1)

	s1.advErr = chk.Err("cannot advance")
	*log = nil
	if err = stg.AdvanceStep(tp); err == nil {
		tst.Errorf("advance must fail when the solid collaborator fails\n")
	}
	chk.Strings(tst, "call order", *log, []string{"s1.adv"})

	s1.advErr = nil
	s2.advErr = chk.Err("cannot advance")
	*log = nil
	if err = stg.AdvanceStep(tp); err == nil {
		tst.Errorf("advance must fail when the phase collaborator fails\n")
	}
	chk.Strings(tst, "call order", *log, []string{"s1.adv", "s2.adv"})

	s2.advErr = nil
	*log = nil
	if err = stg.AdvanceStep(tp); err != nil {
		tst.Errorf("AdvanceStep failed: %v\n", err)
		return
	}
	chk.Strings(tst, "call order", *log, []string{"s1.adv", "s2.adv"})

	os.MkdirAll("/tmp/openfrac", 0777)
	fname := "/tmp/openfrac/test_mesh.msh"
	f := stg.Core()
	if err = f.DumpMesh(fname); err != nil {
		tst.Errorf("DumpMesh failed: %v\n", err)
		return
	}
	b, err := io.ReadFile(fname)
	if err != nil {
		tst.Errorf("cannot read mesh dump: %v\n", err)
		return
	}
	chk.String(tst, string(b), "1d mesh\n")
}
