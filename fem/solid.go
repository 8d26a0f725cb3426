// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/akva2/IFEM-OpenFrac/ele/fracture"
	"github.com/akva2/IFEM-OpenFrac/inp"
	"github.com/akva2/IFEM-OpenFrac/mdl/solid"
	"github.com/akva2/IFEM-OpenFrac/sim"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Elast solves the degraded linear elasticity problem on the bar: the left
// end is fixed and the right end is either displacement controlled (ubar)
// or load controlled (fbar). The raw tangent and load vector are retained
// to recover reactions and the transmitted end force
type Elast struct {

	// input
	Sim *inp.Simulation // simulation input; retained across re-reads

	// configuration
	mdl  *solid.Brittle
	ubar fun.Func // prescribed end displacement; nil under load control
	fbar fun.Func // end load; used when ubar is nil
	pc   fun.Func // crack pressure; nil means no pressurised crack

	// discretization
	msh *Mesh
	itg *fracture.Elasticity

	// dependencies
	deps map[string]sim.FieldProvider

	// linear system
	sys  *triSys   // tangent with boundary conditions imposed
	kraw *triSys   // tangent before boundary conditions; for reactions
	rhs  []float64 // assembled right-hand side
	fraw []float64 // load vector before boundary conditions
	unew []float64
	scr  []float64

	// solution state, newest first
	sols [][]float64
	mode sim.SolutionMode

	// results
	norms     []float64 // eps_e, external energy, eps+, eps-, eps_b
	react     []float64 // reactions at the fixed and the loaded end
	haveReact bool

	// element buffers
	ueL, ceL []float64
}

// NewElast returns an elasticity collaborator for the given input. The
// integrand is created here, before any input processing, so that the
// tensile energy buffer can be aliased when the collaborators are wired up
func NewElast(sd *inp.Simulation) *Elast {
	return &Elast{
		Sim:  sd,
		msh:  NewMesh(sd.Bar.L, sd.Bar.Nels, sd.Bar.InitLevel),
		itg:  fracture.NewElasticity(nil),
		deps: make(map[string]sim.FieldProvider),
		ueL:  make([]float64, 2),
		ceL:  make([]float64, 2),
	}
}

// Name returns the collaborator name
func (o *Elast) Name() string { return "elasticity" }

// SetMode sets the assembly mode
func (o *Elast) SetMode(mode sim.SolutionMode) bool {
	o.mode = mode
	return true
}

// RegisterDependency registers an external field dependency; the crack
// phase field enters the assembly under the name "phasefield"
func (o *Elast) RegisterDependency(field string, ncmp int, src sim.FieldProvider) {
	o.deps[field] = src
}

// HaveCrackPressure tells whether a crack pressure load is configured
func (o *Elast) HaveCrackPressure() bool { return o.pc != nil }

// GetTensileEnergy returns a pointer to the tensile energy buffer; the
// pointer remains valid across mesh refinements
func (o *Elast) GetTensileEnergy() *[]float64 { return o.itg.GetTensileEnergy() }

// GetPatch returns the active discretization
func (o *Elast) GetPatch() sim.Patch { return o.msh }

// GetSolutions returns the solution vectors, newest first
func (o *Elast) GetSolutions() [][]float64 { return o.sols }

// SetSolutions restores the solution vectors, e.g. after a mesh
// refinement; extra trailing entries are ignored
func (o *Elast) SetSolutions(sols [][]float64) {
	for i := range o.sols {
		if i < len(sols) {
			copy(o.sols[i], sols[i])
		}
	}
}

// phaseField returns the crack phase values of the registered dependency,
// or nil when the material is intact
func (o *Elast) phaseField() ([]float64, error) {
	src, ok := o.deps["phasefield"]
	if !ok {
		return nil, nil
	}
	c := src.GetSolution()
	if len(c) != o.msh.NumNodes() {
		return nil, chk.Err("phase-field dependency has %d values for %d nodes", len(c), o.msh.NumNodes())
	}
	return c, nil
}

// AssembleSystem assembles the linear system against the given solution
// state. In the residual modes the out-of-balance at constrained dofs is
// zeroed: those rows are balanced by reactions
func (o *Elast) AssembleSystem(tm *sim.TimeDomain, sols [][]float64, newLHS bool) (err error) {
	if len(sols) < 1 || len(sols[0]) != o.msh.NumNodes() {
		return chk.Err("elasticity: solution state needs %d nodal values", o.msh.NumNodes())
	}
	u := sols[0]
	c, err := o.phaseField()
	if err != nil {
		return
	}
	o.itg.T = tm.T
	o.itg.SetMode(elMode(o.mode))
	for i := range o.rhs {
		o.rhs[i] = 0
	}
	withLHS := o.mode == sim.Static && newLHS
	if withLHS {
		o.sys.Clear()
	}
	loc := func(eid int) [][]float64 {
		n0, n1 := o.msh.Cells[eid][0], o.msh.Cells[eid][1]
		o.ueL[0], o.ueL[1] = u[n0], u[n1]
		if c == nil {
			return [][]float64{o.ueL}
		}
		o.ceL[0], o.ceL[1] = c[n0], c[n1]
		return [][]float64{o.ueL, o.ceL}
	}
	if err = integrate(o.msh, o.Sim.Bar.A, o.itg, loc, o.sys, o.rhs, withLHS); err != nil {
		return
	}
	n := len(o.rhs)

	// end load under load control
	if o.ubar == nil && o.fbar != nil {
		f := o.fbar.F(tm.T, nil)
		if o.mode == sim.IntForces {
			o.rhs[n-1] -= f
		} else {
			o.rhs[n-1] += f
		}
	}

	if o.mode == sim.Static {
		if newLHS {
			o.kraw.CopyFrom(o.sys)
		}
		copy(o.fraw, o.rhs)
		o.applyBCs(tm.T)
		return
	}
	o.rhs[0] = 0
	if o.ubar != nil {
		o.rhs[n-1] = 0
	}
	return
}

// applyBCs imposes the end conditions by row replacement
func (o *Elast) applyBCs(t float64) {
	n := len(o.rhs)
	o.sys.dia[0] = 1
	o.sys.up[0] = 0
	o.rhs[0] = 0
	if o.ubar != nil {
		o.sys.low[n-1] = 0
		o.sys.dia[n-1] = 1
		o.rhs[n-1] = o.ubar.F(t, nil)
	}
}

// ExtractLoadVec returns a copy of the assembled right-hand-side vector
func (o *Elast) ExtractLoadVec() ([]float64, error) {
	return append([]float64(nil), o.rhs...), nil
}

// ExtractEnergy returns the strain energy of the last assembly
func (o *Elast) ExtractEnergy() float64 { return o.itg.Energy() }

// solveOnce assembles and solves the linear system once with the current
// phase field, leaving the new displacements in the current solution
func (o *Elast) solveOnce(tm *sim.TimeDomain) (dNorm, uNorm float64, err error) {
	o.mode = sim.Static
	if err = o.AssembleSystem(tm, o.sols, true); err != nil {
		return
	}
	if err = o.sys.Solve(o.unew, o.rhs); err != nil {
		return
	}
	var d2, u2 float64
	for i, un := range o.unew {
		d := un - o.sols[0][i]
		d2 += d * d
		u2 += un * un
	}
	copy(o.sols[0], o.unew)
	return math.Sqrt(d2), math.Sqrt(u2), nil
}

// SolveStep solves one time step by fixed-point iterations on the
// degraded stiffness
func (o *Elast) SolveStep(tp *sim.TimeStep, standalone bool) sim.Status {
	for it := 0; it < o.Sim.Solver.NmaxIt; it++ {
		dNorm, uNorm, err := o.solveOnce(&tp.Time)
		if err != nil {
			return sim.Failure
		}
		if dNorm <= o.Sim.Solver.Atol+o.Sim.Solver.Rtol*uNorm {
			o.finalise()
			return sim.Converged
		}
	}
	return sim.Diverged
}

// SolveIteration performs a single linear solve with the current phase
// field; all predictor/corrector/cycle stages share it
func (o *Elast) SolveIteration(tp *sim.TimeStep, stage int) sim.Status {
	if _, _, err := o.solveOnce(&tp.Time); err != nil {
		return sim.Failure
	}
	o.finalise()
	return sim.Converged
}

// UpdateStrainEnergyDensity refreshes the tensile energy buffer from the
// current solution by an assembly pass
func (o *Elast) UpdateStrainEnergyDensity(tp *sim.TimeStep) error {
	prev := o.mode
	o.mode = sim.RHSOnly
	err := o.AssembleSystem(&tp.Time, o.sols, false)
	o.mode = prev
	return err
}

// PostSolve refreshes the tangent, reactions and energy norms with the
// final phase field of the step
func (o *Elast) PostSolve(tp *sim.TimeStep) {
	o.mode = sim.Static
	if o.AssembleSystem(&tp.Time, o.sols, true) != nil {
		return
	}
	o.finalise()
}

// AdvanceStep advances the solution state to the next step
func (o *Elast) AdvanceStep(tp *sim.TimeStep) error {
	copy(o.sols[1], o.sols[0])
	return nil
}

// SaveStep saves the displacement field of one step
func (o *Elast) SaveStep(tp *sim.TimeStep, nBlock *int) error {
	return saveBlock(o.Sim, "displacement", tp, o.msh.X, o.sols[0], nBlock)
}

// finalise recovers the end reactions from the raw system and refreshes
// the energy norms
func (o *Elast) finalise() {
	n := len(o.rhs)
	o.kraw.MulVec(o.scr, o.sols[0])
	o.react[0] = o.scr[0] - o.fraw[0]
	o.react[1] = o.scr[n-1] - o.fraw[n-1]
	o.haveReact = true
	o.computeNorms()
}

// computeNorms integrates the global energy norms with the current
// displacements and phase field
func (o *Elast) computeNorms() {
	if o.mdl == nil {
		return
	}
	c, err := o.phaseField()
	if err != nil {
		c = nil
	}
	u := o.sols[0]
	var epsE, epsP, epsM, epsB float64
	p := 0.0
	if o.pc != nil {
		p = o.pc.F(o.itg.T, nil)
	}
	for e := 0; e < o.msh.NumElems(); e++ {
		n0, n1 := o.msh.Cells[e][0], o.msh.Cells[e][1]
		h := o.msh.X[n1] - o.msh.X[n0]
		detw := 0.5 * h * o.Sim.Bar.A
		eps := (u[n1] - u[n0]) / h
		psiP, psiM := o.mdl.PsiPM1D(eps)
		dcdx := 0.0
		if c != nil {
			dcdx = (c[n1] - c[n0]) / h
		}
		for _, xi := range []float64{-gaussPt, gaussPt} {
			cv := 1.0
			if c != nil {
				cv = 0.5*(1.0-xi)*c[n0] + 0.5*(1.0+xi)*c[n1]
			}
			epsE += (o.mdl.Degrade(cv)*psiP + psiM) * detw
			epsP += psiP * detw
			epsM += psiM * detw
			if o.pc != nil && c != nil {
				uip := 0.5*(1.0-xi)*u[n0] + 0.5*(1.0+xi)*u[n1]
				epsB += p * dcdx * uip * detw
			}
		}
	}
	n := len(u)
	o.kraw.MulVec(o.scr, u)
	o.norms[0] = epsE
	o.norms[1] = epsB + o.scr[n-1]*u[n-1]
	o.norms[2] = epsP
	o.norms[3] = epsM
	o.norms[4] = epsB
}

// GetBoundaryForce returns the force transmitted at the loaded end
func (o *Elast) GetBoundaryForce(sols [][]float64, tp *sim.TimeStep) []float64 {
	o.kraw.MulVec(o.scr, sols[0])
	return []float64{o.scr[len(o.scr)-1]}
}

// GetBoundaryReactions returns the end reactions of the last solve
func (o *Elast) GetBoundaryReactions() ([]float64, bool) {
	return o.react, o.haveReact
}

// GetGlobalNorms returns the energy norms of the last solve
func (o *Elast) GetGlobalNorms() []float64 { return o.norms }

// Refine bisects the marked cells and interpolates all given solution
// vectors onto the new grid, in place. The refinement options do not apply
// to the line mesh and are ignored
func (o *Elast) Refine(prm *sim.RefineData, sols [][]float64) error {
	xOld := append([]float64(nil), o.msh.X...)
	if err := o.msh.Refine(prm.Elements); err != nil {
		return err
	}
	for k, s := range sols {
		if len(s) != len(xOld) {
			return chk.Err("elasticity: solution %d has %d values for %d old nodes", k, len(s), len(xOld))
		}
		v := make([]float64, o.msh.NumNodes())
		for i, x := range o.msh.X {
			v[i] = interpLinear(xOld, s, x)
		}
		sols[k] = v
	}
	return nil
}

// ClearProperties clears the data read from the input file. The mesh, the
// dependencies and the integrand survive, so that aliased buffers stay
// valid
func (o *Elast) ClearProperties() {
	o.mdl, o.ubar, o.fbar, o.pc = nil, nil, nil, nil
	o.itg.Mdl, o.itg.Pc = nil, nil
	o.haveReact = false
}

// Read re-reads the input file. The input is parsed once up front and
// retained, so there is nothing left to read here
func (o *Elast) Read(fname string) error { return nil }

// Preprocess resolves the material model and the boundary functions from
// the input and binds them to the integrand
func (o *Elast) Preprocess() (err error) {
	if o.mdl, err = brittleOf(o.Sim); err != nil {
		return
	}
	if o.Sim.Bar.Ubar != "" {
		if o.ubar, err = o.Sim.Functions.Get(o.Sim.Bar.Ubar); err != nil {
			return chk.Err("cannot resolve end-displacement function:\n%v", err)
		}
	}
	if o.Sim.Bar.Fbar != "" {
		if o.fbar, err = o.Sim.Functions.Get(o.Sim.Bar.Fbar); err != nil {
			return chk.Err("cannot resolve end-load function:\n%v", err)
		}
	}
	if o.Sim.Bar.PresFcn != "" {
		if o.pc, err = o.Sim.Functions.Get(o.Sim.Bar.PresFcn); err != nil {
			return chk.Err("cannot resolve crack-pressure function:\n%v", err)
		}
	}
	o.itg.Mdl = o.mdl
	o.itg.Pc = o.pc
	return
}

// Init initialises the solution state for the current mesh
func (o *Elast) Init(tp *sim.TimeStep) error {
	n := o.msh.NumNodes()
	o.sols = [][]float64{make([]float64, n), make([]float64, n)}
	o.norms = make([]float64, 5)
	o.react = make([]float64, 2)
	o.haveReact = false
	return nil
}

// InitSystem initialises the linear system and the integration buffers for
// the current mesh
func (o *Elast) InitSystem() error {
	n := o.msh.NumNodes()
	o.sys = newTriSys(n)
	o.kraw = newTriSys(n)
	o.rhs = make([]float64, n)
	o.fraw = make([]float64, n)
	o.unew = make([]float64, n)
	o.scr = make([]float64, n)
	o.itg.InitIntegration(2*o.msh.NumElems(), o.msh.NumElems())
	return nil
}
