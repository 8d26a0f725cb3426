// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON file
package inp

import (
	"encoding/json"
	goio "io"
	"math"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/rnd"
	"github.com/cpmech/gosl/utl"
)

// Data holds global data for simulations
type Data struct {
	Desc    string `json:"desc"`    // description of simulation
	Matfile string `json:"matfile"` // materials file path
	DirOut  string `json:"dirout"`  // directory for output; e.g. /tmp/openfrac
	Encoder string `json:"encoder"` // encoder name; e.g. "gob" "json"
	Ndim    int    `json:"ndim"`    // space dimension; default = 1 (reference bar domain)
	Pstress bool   `json:"pstress"` // plane-stress
	Stat    bool   `json:"stat"`    // activate statistics
}

// CoupleData holds data controlling the staggered solution of the coupled
// elasticity / phase-field problem
type CoupleData struct {

	// input data
	Scheme     string  `json:"scheme"`     // coupling scheme: "dynamic", "qstatic" or "miehe"
	Tol        float64 `json:"tol"`        // staggering cycle tolerance; negative values make the cycle cap act as a fixed count
	MaxCycle   int     `json:"max"`        // cap on staggering cycles per step; for "miehe" this is the fixed cycle count
	SolidFirst bool    `json:"solidfirst"` // solve the solid problem before the phase-field problem within a cycle
	EnergFile  string  `json:"energfile"`  // energy log file name; empty disables the log
	Stop       *StopGc `json:"stop"`      // reaction-force stop criterion
}

// StopGc holds the reaction-force stop criterion: the simulation is flagged
// for termination once the monitored reaction component falls below the
// threshold (fully developed crack)
type StopGc struct {
	Rcomp int     `json:"rcomp"` // 1-based index of the monitored reaction component
	Force float64 `json:"force"` // threshold on the absolute reaction value
}

// AdaptData holds data controlling adaptive mesh refinement
type AdaptData struct {
	Beta         float64 `json:"beta"`         // percentage of elements to refine per adaptation; negative means no cap
	MinFrac      float64 `json:"minfrac"`      // refinement floor: fraction of the global norm if non-negative, otherwise -MinFrac is a fixed value
	Nrefinements int     `json:"nrefinements"` // maximum refinement depth; 0 disables adaptivity
	Cadence      int     `json:"cadence"`      // number of time steps between adaptations
	Dump         bool    `json:"dump"`         // dump refined meshes to files
}

// SolverData holds data for the collaborating field solvers
type SolverData struct {

	// nonlinear sub-solves
	NmaxIt  int     `json:"nmaxit"`  // number of max iterations
	Atol    float64 `json:"atol"`    // absolute tolerance
	Rtol    float64 `json:"rtol"`    // relative tolerance
	FbTol   float64 `json:"fbtol"`   // tolerance for convergence on fb
	FbMin   float64 `json:"fbmin"`   // minimum value of fb
	DvgCtrl bool    `json:"dvgctrl"` // use divergence control
	NdvgMax int     `json:"ndvgmax"` // max number of continued divergence
	ShowR   bool    `json:"showr"`   // show residual

	// transient analyses
	DtMin  float64 `json:"dtmin"`  // minimum value of Dt
	Theta1 float64 `json:"theta1"` // Newmark's method parameter
	Theta2 float64 `json:"theta2"` // Newmark's method parameter

	// constants
	Eps float64 `json:"eps"` // smallest number satisfying 1.0 + ϵ > 1.0

	// derived
	Itol float64 // iterations tolerance
}

// TimeControl holds data for defining the simulation time stepping
type TimeControl struct {
	Tf     float64 `json:"tf"`     // final time
	Dt     float64 `json:"dt"`     // time step size (if constant)
	DtOut  float64 `json:"dtout"`  // time step size for output
	DtFcn  string  `json:"dtfcn"`  // time step size (function name)
	DtoFcn string  `json:"dtofcn"` // time step size for output (function name)
	DtSafe bool    `json:"dtsafe"` // damp the time step when the sampled energy history approaches a minimum

	// derived
	DtFunc  fun.Func // time step function
	DtoFunc fun.Func // output time step function
}

// BarData holds the definition of the reference one-dimensional domain
// shared by the two collaborating solvers
type BarData struct {
	L         float64 `json:"l"`         // length of bar
	Nels      int     `json:"nels"`      // initial number of elements
	A         float64 `json:"a"`         // cross-sectional area
	Ubar      string  `json:"ubar"`      // prescribed end-displacement function name
	Fbar      string  `json:"fbar"`      // end-load function name (used when ubar is empty)
	PresFcn   string  `json:"presfcn"`   // crack-pressure function name; empty means no crack pressure
	IcPhase   string  `json:"icphase"`   // initial phase-field function name, sampled with the node coordinate as argument; empty means no initial condition
	Notch     float64 `json:"notch"`     // position of initial flaw seeding the fracture history; negative means none
	InitLevel int     `json:"initlevel"` // refinement level already built into the initial mesh
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data      Data        `json:"data"`      // global simulation data
	Functions FuncsData   `json:"functions"` // all functions
	PlotF     *PlotFdata  `json:"plotf"`     // plot functions
	Couple    CoupleData  `json:"couple"`    // staggered coupling control
	Adapt     AdaptData   `json:"adapt"`     // adaptive refinement control
	Solver    SolverData  `json:"solver"`    // field solver data
	Bar       BarData     `json:"bar"`       // reference domain definition
	Control   TimeControl `json:"control"`   // time control

	// derived
	DirOut    string // directory to save results
	Key       string // simulation key; e.g. mysim01.sim => mysim01 or mysim01-alias
	EncType   string // encoder type
	Ndim      int    // space dimension
	MatModels *MatDb // materials and models

	// adjustable parameters
	Adjustable   fun.Prms         // adjustable parameters (not dependent)
	AdjRandom    rnd.Variables    // adjustable parameters that are random variables (not dependent)
	AdjDependent fun.Prms         // adjustable parameters that depend on other adjustable parameters
	adjmap       map[int]*fun.Prm // auxiliary map with adjustable (not dependent)
}

// Simulation //////////////////////////////////////////////////////////////////////////////////////

// Clean cleans resources
func (o *Simulation) Clean() {
	if o.MatModels != nil {
		o.MatModels.Clean()
	}
}

// ReadSim reads all simulation data from a .sim JSON file
func ReadSim(simfilepath, alias string, erasePrev, createDirOut bool) *Simulation {

	// new sim
	var o Simulation

	// read file
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		chk.Panic("ReadSim: cannot read simulation file %q", simfilepath)
	}

	// set default values
	o.Solver.SetDefault()
	o.Couple.SetDefault()
	o.Adapt.SetDefault()
	o.Bar.SetDefault()

	// decode
	err = json.Unmarshal(b, &o)
	if err != nil {
		chk.Panic("ReadSim: cannot unmarshal simulation file %q", simfilepath)
	}

	// input directory and filename key
	dir := filepath.Dir(simfilepath)
	fn := filepath.Base(simfilepath)
	dir = os.ExpandEnv(dir)
	fnkey := io.FnKey(fn)
	o.Key = fnkey
	if alias != "" {
		o.Key += "-" + alias
	}

	// output directory
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/openfrac/" + fnkey
	}

	// encoder type
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" {
		o.EncType = "gob"
	}

	// create directory
	if createDirOut {
		err = os.MkdirAll(o.DirOut, 0777)
		if err != nil {
			chk.Panic("cannot create directory for output results (%s): %v", o.DirOut, err)
		}
	}

	// erase previous simulation results
	if erasePrev {
		io.RemoveAll(io.Sf("%s/%s*", o.DirOut, fnkey))
	}

	// space dimension
	o.Ndim = o.Data.Ndim
	if o.Ndim < 1 {
		o.Ndim = 1
	}

	// set solver constants
	o.Solver.PostProcess()

	// check coupling scheme
	switch o.Couple.Scheme {
	case "dynamic", "qstatic", "miehe":
	default:
		chk.Panic("ReadSim: unknown coupling scheme %q", o.Couple.Scheme)
	}

	// fix Tf
	if o.Control.Tf < 1e-14 {
		o.Control.Tf = 1
	}

	// fix Dt
	if o.Control.DtFcn == "" {
		if o.Control.Dt < 1e-14 {
			o.Control.Dt = 1
		}
		o.Control.DtFunc = &fun.Cte{C: o.Control.Dt}
	} else {
		o.Control.DtFunc, err = o.Functions.Get(o.Control.DtFcn)
		if err != nil {
			chk.Panic("%v", err)
		}
		o.Control.Dt = o.Control.DtFunc.F(0, nil)
	}

	// fix DtOut
	if o.Control.DtoFcn == "" {
		if o.Control.DtOut < 1e-14 {
			o.Control.DtOut = o.Control.Dt
			o.Control.DtoFunc = o.Control.DtFunc
		} else {
			if o.Control.DtOut < o.Control.Dt {
				o.Control.DtOut = o.Control.Dt
			}
			o.Control.DtoFunc = &fun.Cte{C: o.Control.DtOut}
		}
	} else {
		o.Control.DtoFunc, err = o.Functions.Get(o.Control.DtoFcn)
		if err != nil {
			chk.Panic("%v", err)
		}
		o.Control.DtOut = o.Control.DtoFunc.F(0, nil)
	}

	// read materials database and initialise models
	o.MatModels = new(MatDb)
	if o.Data.Matfile != "" {
		o.MatModels, err = ReadMat(dir, o.Data.Matfile, o.Ndim, o.Data.Pstress)
		if err != nil {
			chk.Panic("loading materials and initialising models failed:\n%v", err)
		}
	}

	// adjustable and random parameters
	o.adjmap = make(map[int]*fun.Prm)
	for _, mat := range o.MatModels.Materials {
		for _, prm := range mat.Prms {
			o.appendAdjustableParameter(prm)
		}
	}
	for _, fcn := range o.Functions {
		for _, prm := range fcn.Prms {
			o.appendAdjustableParameter(prm)
		}
	}
	err = o.AdjRandom.Init()
	if err != nil {
		chk.Panic("cannot initialise random variables:\n%v", err)
	}

	// connect dependent adjustable parameters
	var ok bool
	for _, prm := range o.AdjDependent {
		prm.Other, ok = o.adjmap[prm.Dep]
		if !ok {
			chk.Panic("cannot find dependency dep=%d of adjustable parameter", prm.Dep)
		}
	}

	// results
	return &o
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// GetInfo returns formatted information
func (o *Simulation) GetInfo(w goio.Writer) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault sets default values
func (o *CoupleData) SetDefault() {
	o.Scheme = "qstatic"
	o.SolidFirst = true
	// Tol and MaxCycle keep their zero values here; each staggering scheme
	// installs its own default and only honours explicit input
}

// SetDefault sets default values
func (o *AdaptData) SetDefault() {
	o.Beta = 10
	o.MinFrac = 0.1
	o.Cadence = 1
}

// SetDefault sets default values
func (o *BarData) SetDefault() {
	o.L = 1
	o.Nels = 10
	o.A = 1
	o.Notch = -1
}

// SetDefault set defaults values
func (o *SolverData) SetDefault() {

	// nonlinear sub-solves
	o.NmaxIt = 20
	o.Atol = 1e-6
	o.Rtol = 1e-6
	o.FbTol = 1e-8
	o.FbMin = 1e-14
	o.NdvgMax = 20

	// transient analyses
	o.DtMin = 1e-8

	// dynamics
	o.Theta1 = 0.5
	o.Theta2 = 0.5

	// constants
	o.Eps = 1e-16
}

// PostProcess performs a post-processing of the just read json file
func (o *SolverData) PostProcess() {
	o.Itol = utl.Max(10.0*o.Eps/o.Rtol, utl.Min(0.01, math.Sqrt(o.Rtol)))
}

// adjustable parameters ///////////////////////////////////////////////////////////////////////////

// PrmAdjust adjusts parameter (random variable or not)
func (o *Simulation) PrmAdjust(adj int, val float64) {
	if prm, ok := o.adjmap[adj]; ok {
		prm.Set(val)
		return
	}
	chk.Panic("cannot adjust parameter %q", adj)
}

// PrmGetAdj gets adjustable parameter (random variable or not)
func (o *Simulation) PrmGetAdj(adj int) (val float64) {
	if prm, ok := o.adjmap[adj]; ok {
		return prm.V
	}
	chk.Panic("cannot get adjustable parameter %q", adj)
	return
}

// appendAdjustableParameter adds prm to lists
func (o *Simulation) appendAdjustableParameter(prm *fun.Prm) {

	// adjustable parameter
	if prm.Adj > 0 {
		o.Adjustable = append(o.Adjustable, prm)
		o.adjmap[prm.Adj] = prm
		if prm.D != "" { // with probability distribution => random variable
			distr := rnd.GetDistribution(prm.D)
			o.AdjRandom = append(o.AdjRandom, &rnd.VarData{
				D: distr, M: prm.V, S: prm.S, Min: prm.Min, Max: prm.Max, Prm: prm,
				Key: io.Sf("adj%d", prm.Adj),
			})
		}
	}

	// adjustable parameter that depend on other adjustable parameters
	if prm.Dep > 0 {
		o.AdjDependent = append(o.AdjDependent, prm)
	}
}
