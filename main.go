// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"time"

	"github.com/akva2/IFEM-OpenFrac/fem"
	"github.com/akva2/IFEM-OpenFrac/inp"
	"github.com/akva2/IFEM-OpenFrac/out"
	"github.com/akva2/IFEM-OpenFrac/sim"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
	"github.com/cpmech/gosl/utl"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				io.PfRed("\nERROR: %v\n", err)
				io.Pf("See location of error below:\n")
				chk.Verbose = true
				for i := 5; i > 3; i-- {
					chk.CallerInfo(i)
				}
			}
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "frac", ".sim", true)
	verbose := io.ArgToBool(1, true)
	erasePrev := io.ArgToBool(2, true)
	plotEnergy := io.ArgToBool(3, false)
	doprof := io.ArgToInt(4, 0)

	// message
	if mpi.Rank() == 0 && verbose {
		io.PfWhite("\nOpenFrac Version 1.0 -- staggered brittle fracture simulator\n")
		io.Pf("Copyright 2017 The OpenFrac Authors. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n")

		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
			"erase previous results", "erasePrev", erasePrev,
			"plot the energy log at the end", "plotEnergy", plotEnergy,
			"profiling: 0=none 1=CPU 2=MEM", "doprof", doprof,
		))
	}

	// profiling?
	if doprof > 0 {
		defer utl.DoProf(false, doprof)()
	}

	// collaborators
	sd := inp.ReadSim(fnamepath, "", false, false)
	if sd == nil {
		chk.Panic("cannot read simulation input file %q", fnamepath)
	}
	s1 := fem.NewElast(sd)
	s2 := fem.NewPhase(sd)

	// run simulation
	cputime := time.Now()
	m := sim.NewMain(fnamepath, "", erasePrev, verbose, s1, s2)
	if err := m.Run(); err != nil {
		chk.Panic("simulation failed:\n%v", err)
	}
	if mpi.Rank() == 0 && verbose {
		io.Pf("\nelapsed time = %v\n", time.Now().Sub(cputime))
	}

	// energy history figure
	if plotEnergy && mpi.Rank() == 0 && m.Sim.Couple.EnergFile != "" {
		tab := out.ReadEnergyLog(io.Sf("%s/%s", m.Sim.DirOut, m.Sim.Couple.EnergFile))
		fig := io.Sf("%s/%s-energies.eps", m.Sim.DirOut, m.Sim.Key)
		out.PlotEnergy(tab, fig)
		if verbose {
			io.Pf("energy figure saved to %s\n", fig)
		}
	}
}
