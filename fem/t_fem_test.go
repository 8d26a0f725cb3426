// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akva2/IFEM-OpenFrac/inp"
	"github.com/akva2/IFEM-OpenFrac/sim"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_frac01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("frac01. quasi-static run with adaptive refinement")

	writeInput(tst, "femtest.mat", matBody)
	fn := writeInput(tst, "femtest-qstatic.sim", `{
  "data" : { "matfile":"femtest.mat", "encoder":"json" },
  "functions" : [
    { "name":"ubar",   "type":"lin", "prms":[ { "n":"m", "v":0.01 } ] },
    { "name":"icprof", "type":"lin", "prms":[ { "n":"m", "v":1.0 } ] }
  ],
  "couple" : { "scheme":"qstatic", "tol":1e-5, "max":30, "energfile":"energies.dat" },
  "adapt" : { "beta":-1, "minfrac":0.4, "nrefinements":2, "cadence":1 },
  "control" : { "tf":0.03, "dt":0.01 },
  "bar" : { "l":1.0, "nels":8, "a":1.0, "ubar":"ubar", "icphase":"icprof", "notch":0.5 }
}
`)

	sd := inp.ReadSim(fn, "", false, false)
	s1 := NewElast(sd)
	s2 := NewPhase(sd)
	m := sim.NewMain(fn, "", true, chk.Verbose, s1, s2)
	if err := m.Run(); err != nil {
		tst.Errorf("Run failed: %v\n", err)
		return
	}
	if m.Tp.Step != 3 {
		tst.Errorf("wrong final step number %d\n", m.Tp.Step)
	}

	// energy log with one row per step
	b, err := os.ReadFile(io.Sf("%s/energies.dat", m.Sim.DirOut))
	if err != nil {
		tst.Errorf("cannot read energy log: %v\n", err)
		return
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 4 {
		tst.Errorf("energy log has %d lines\n", len(lines))
		return
	}
	chk.String(tst, lines[0], "#t eps_e external_energy eps+ eps- eps_b |c| eps_d-eps_d(0) eps_d load_X react_X react_Y")
	if !strings.HasPrefix(lines[1], "1.00000000000e-02 ") {
		tst.Errorf("wrong first data row: %q\n", lines[1])
	}

	// both collaborators refined in lockstep
	if s1.msh.NumElems() <= 8 {
		tst.Errorf("mesh was not refined: %d elements\n", s1.msh.NumElems())
	}
	if s1.msh.NumElems() != s2.msh.NumElems() || s1.msh.NumNodes() != s2.msh.NumNodes() {
		tst.Errorf("meshes out of lockstep: %d/%d elements, %d/%d nodes\n",
			s1.msh.NumElems(), s2.msh.NumElems(), s1.msh.NumNodes(), s2.msh.NumNodes())
	}
	if len(s2.GetHistoryField()) != 2*s2.msh.NumElems() {
		tst.Errorf("history buffer out of step with the mesh\n")
	}

	// the seeded flaw survives the transfers and breaks the bar
	maxH := 0.0
	for _, h := range s2.GetHistoryField() {
		if h > maxH {
			maxH = h
		}
	}
	if maxH < 50 {
		tst.Errorf("seeded history %g was lost\n", maxH)
	}
	minC := 1.0
	for _, c := range s2.sol {
		if c < minC {
			minC = c
		}
	}
	if minC > 0.5 {
		tst.Errorf("crack field %g did not develop\n", minC)
	}

	// results blocks for both fields at every output time
	matches, err := filepath.Glob(io.Sf("%s/%s_*.res", m.Sim.DirOut, m.Sim.Key))
	if err != nil {
		tst.Errorf("cannot list results blocks: %v\n", err)
		return
	}
	if len(matches) < 8 {
		tst.Errorf("only %d results blocks were written\n", len(matches))
	}
}

func Test_frac02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("frac02. dynamic run with reaction stop criterion")

	writeInput(tst, "femtest.mat", matBody)
	fn := writeInput(tst, "femtest-dynamic.sim", `{
  "data" : { "matfile":"femtest.mat", "encoder":"gob" },
  "functions" : [
    { "name":"ubar", "type":"lin", "prms":[ { "n":"m", "v":0.01 } ] }
  ],
  "couple" : { "scheme":"dynamic", "energfile":"energies.dat", "stop":{ "rcomp":1, "force":1e9 } },
  "control" : { "tf":0.05, "dt":0.01 },
  "bar" : { "l":1.0, "nels":8, "a":1.0, "ubar":"ubar", "notch":0.5 }
}
`)

	sd := inp.ReadSim(fn, "", false, false)
	s1 := NewElast(sd)
	s2 := NewPhase(sd)
	m := sim.NewMain(fn, "", true, chk.Verbose, s1, s2)
	if err := m.Run(); err != nil {
		tst.Errorf("Run failed: %v\n", err)
		return
	}

	// the monitored reaction stays below the threshold, stopping the run
	if m.Tp.Step != 2 {
		tst.Errorf("stop criterion must halt the run at step 2, got %d\n", m.Tp.Step)
	}
	b, err := os.ReadFile(io.Sf("%s/energies.dat", m.Sim.DirOut))
	if err != nil {
		tst.Errorf("cannot read energy log: %v\n", err)
		return
	}
	if n := len(strings.Split(strings.TrimSpace(string(b)), "\n")); n != 3 {
		tst.Errorf("energy log has %d lines\n", n)
	}

	// initial state block round-trips through the binary encoder
	fnb := io.Sf("%s/%s_%04d_%s.res", m.Sim.DirOut, m.Sim.Key, 0, "phasefield")
	f, err := os.Open(fnb)
	if err != nil {
		tst.Errorf("cannot open results block: %v\n", err)
		return
	}
	defer f.Close()
	var blk ResultBlock
	if err = gob.NewDecoder(f).Decode(&blk); err != nil {
		tst.Errorf("cannot decode results block: %v\n", err)
		return
	}
	chk.String(tst, blk.Name, "phasefield")
	if blk.Step != 0 {
		tst.Errorf("wrong step number %d\n", blk.Step)
	}
	if len(blk.V) != 9 {
		tst.Errorf("wrong number of values %d\n", len(blk.V))
		return
	}
	for i, c := range blk.V {
		chk.Scalar(tst, io.Sf("c0[%d]", i), 1e-17, c, 1.0)
	}
}

func Test_frac03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("frac03. predictor/corrector run on the fixture input")

	fn := "../inp/data/frac-miehe.sim"
	sd := inp.ReadSim(fn, "", false, false)
	s1 := NewElast(sd)
	s2 := NewPhase(sd)
	m := sim.NewMain(fn, "", true, chk.Verbose, s1, s2)
	if err := m.Run(); err != nil {
		tst.Errorf("Run failed: %v\n", err)
		return
	}
	if m.Tp.Step != 5 {
		tst.Errorf("wrong final step number %d\n", m.Tp.Step)
	}
	if s2.msh.NumElems() != 8 {
		tst.Errorf("mesh must stay fixed without adaptivity: %d elements\n", s2.msh.NumElems())
	}
	minC := 1.0
	for _, c := range s2.sol {
		if c < minC {
			minC = c
		}
	}
	if minC > 0.5 {
		tst.Errorf("crack field %g did not develop at the flaw\n", minC)
	}
}
