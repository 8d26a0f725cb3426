// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"os"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_energy01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("energy01. energy log reading")

	if err := os.MkdirAll("/tmp/openfrac", 0777); err != nil {
		tst.Fatalf("cannot create test directory: %v\n", err)
	}
	fn := "/tmp/openfrac/test_energies.dat"
	body := "#t eps_e external_energy eps+ eps- eps_b |c| eps_d-eps_d(0) eps_d load_X react_X react_Y\n" +
		"1.00000000000e-02 0.002625 0.00525 0.002625 0 0 0.577 0 0.05 1.05 -1.05 1.05\n" +
		"2.00000000000e-02 0.0105 0.021 0.0105 0 0 0.55 0.001 0.051 2.1 -2.1 2.1\n"
	if err := os.WriteFile(fn, []byte(body), 0644); err != nil {
		tst.Fatalf("cannot write %s: %v\n", fn, err)
	}

	tab := ReadEnergyLog(fn)
	chk.Strings(tst, "names", tab.Names, []string{
		"t", "eps_e", "external_energy", "eps+", "eps-", "eps_b",
		"|c|", "eps_d-eps_d(0)", "eps_d", "load_X", "react_X", "react_Y",
	})
	if tab.Nrows() != 2 {
		tst.Errorf("wrong number of rows %d\n", tab.Nrows())
		return
	}
	chk.Vector(tst, "t", 1e-17, tab.Col("t"), []float64{0.01, 0.02})
	chk.Vector(tst, "eps_e", 1e-17, tab.Col("eps_e"), []float64{0.002625, 0.0105})
	chk.Vector(tst, "react_X", 1e-17, tab.Col("react_X"), []float64{-1.05, -2.1})
	chk.Vector(tst, "eps_d", 1e-17, tab.Col("eps_d"), []float64{0.05, 0.051})
	if tab.Col("nope") != nil {
		tst.Errorf("missing columns must come back nil\n")
	}

	if chk.Verbose {
		PlotEnergy(tab, "/tmp/openfrac/test_energies.eps")
	}
}

func Test_energy02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("energy02. small value filter")

	chk.Scalar(tst, "tiny", 1e-17, Trunc(1e-17, 1e-16), 0)
	chk.Scalar(tst, "tiny negative", 1e-17, Trunc(-1e-17, 1e-16), 0)
	chk.Scalar(tst, "at threshold", 1e-17, Trunc(1e-16, 1e-16), 0)
	chk.Scalar(tst, "kept", 1e-17, Trunc(2.1, 1e-16), 2.1)
	chk.Scalar(tst, "kept negative", 1e-17, Trunc(-0.5, 1e-16), -0.5)
}
