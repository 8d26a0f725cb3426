// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

package main

import (
	"encoding/json"

	"github.com/akva2/IFEM-OpenFrac/inp"
	"github.com/akva2/IFEM-OpenFrac/mdl/solid"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
	"github.com/cpmech/gosl/utl"
)

type Input struct {
	Dir     string    // directory with .sim file
	SimFn   string    // simulation filename
	MatName string    // material name
	EpsMin  float64   // smallest axial strain
	EpsMax  float64   // largest axial strain
	Npts    int       // number of samples
	Cvals   []float64 // crack values; one stress curve each
	FigEps  bool      // generate .eps instead of .png
	FigProp float64   // proportion of figure
	FigWid  float64   // width of figure

	// derived
	inpfn string
}

func (o *Input) PostProcess() {
	if o.EpsMax <= o.EpsMin {
		o.EpsMin, o.EpsMax = -0.01, 0.01
	}
	if o.Npts < 2 {
		o.Npts = 101
	}
	if len(o.Cvals) == 0 {
		o.Cvals = []float64{1, 0.75, 0.5, 0.25, 0}
	}
	if o.FigProp < 0.1 {
		o.FigProp = 1.0
	}
	if o.FigWid < 10 {
		o.FigWid = 400
	}
}

func (o Input) String() (l string) {
	l = io.ArgsTable("INPUT ARGUMENTS",
		"input filename", "inpfn", o.inpfn,
		"directory with .sim file", "Dir", o.Dir,
		"simulation filename", "SimFn", o.SimFn,
		"material name", "MatName", o.MatName,
		"smallest axial strain", "EpsMin", o.EpsMin,
		"largest axial strain", "EpsMax", o.EpsMax,
		"number of samples", "Npts", o.Npts,
		"crack values", "Cvals", io.Sf("%v", o.Cvals),
		"fig: generate .eps instead of .png", "FigEps", o.FigEps,
		"fig: proportion of figure", "FigProp", o.FigProp,
		"fig: width  of figure", "FigWid", o.FigWid,
	)
	return
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// input data file
	var in Input
	in.inpfn, _ = io.ArgToFilename(0, "data/brittledrv1", ".inp", true)

	// read and parse input data
	b, err := io.ReadFile(in.inpfn)
	if err != nil {
		io.PfRed("cannot read %s\n", in.inpfn)
		return
	}
	err = json.Unmarshal(b, &in)
	if err != nil {
		io.PfRed("cannot parse %s\n", in.inpfn)
		return
	}
	in.PostProcess()

	// print input table
	io.Pf("%v\n", in)

	// load simulation
	sd := inp.ReadSim(in.Dir+"/"+in.SimFn, "", false, false)
	if sd == nil {
		io.PfRed("cannot load simulation\n")
		return
	}

	// get material data
	mat := sd.MatModels.Get(in.MatName)
	if mat == nil {
		io.PfRed("cannot get material\n")
		return
	}
	mdl, ok := mat.Sld.(*solid.Brittle)
	if !ok {
		io.PfRed("material %q does not use a brittle model\n", in.MatName)
		return
	}

	// critical homogeneous state
	sigc, epsc := mdl.CritLoad()
	io.Pf("critical stress = %g at strain = %g\n", sigc, epsc)

	// energy split along the strain range
	eps := utl.LinSpace(in.EpsMin, in.EpsMax, in.Npts)
	psiP := make([]float64, in.Npts)
	psiM := make([]float64, in.Npts)
	for i, e := range eps {
		psiP[i], psiM[i] = mdl.PsiPM1D(e)
	}

	// figure set-up
	if in.FigEps {
		plt.SetForEps(in.FigProp, in.FigWid)
	} else {
		plt.SetForPng(in.FigProp, in.FigWid, 150)
	}

	// stress-strain curves; tension degraded, compression intact
	codes := []string{"b-", "g-", "m-", "c-", "k-", "y-"}
	plt.Subplot(2, 1, 1)
	for j, c := range in.Cvals {
		g := mdl.Degrade(c)
		sig := make([]float64, in.Npts)
		for i, e := range eps {
			s := mdl.Stress1D(e)
			if e >= 0 {
				s *= g
			}
			sig[i] = s
		}
		plt.Plot(eps, sig, io.Sf("'%s', label='c=%g', clip_on=0", codes[j%len(codes)], c))
	}
	plt.Gll("$\\epsilon$", "$\\sigma$", "")

	// energy split
	plt.Subplot(2, 1, 2)
	plt.Plot(eps, psiP, "'r-', label='psi+', clip_on=0")
	plt.Plot(eps, psiM, "'b-', label='psi-', clip_on=0")
	plt.Gll("$\\epsilon$", "energy density", "")

	// save
	ext := ".png"
	if in.FigEps {
		ext = ".eps"
	}
	plt.SaveD("/tmp/openfrac", "drv_"+in.MatName+ext)
}
