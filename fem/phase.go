// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"io"
	"math"

	"github.com/akva2/IFEM-OpenFrac/ele/fracture"
	"github.com/akva2/IFEM-OpenFrac/inp"
	"github.com/akva2/IFEM-OpenFrac/mdl/solid"
	"github.com/akva2/IFEM-OpenFrac/sim"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Phase solves the crack phase-field evolution on the bar. The equation is
// linear in the crack field for a frozen history, so every step is one
// direct solve; natural boundary conditions hold at both ends
type Phase struct {

	// input
	Sim *inp.Simulation // simulation input; retained across re-reads

	// configuration
	mdl  *solid.Brittle
	icFn fun.Func // initial crack profile; nil means intact

	// discretization
	msh *Mesh
	itg *fracture.PhaseField

	// linear system
	sys  *triSys
	rhs  []float64
	cnew []float64

	// solution state
	sol  []float64
	mode sim.SolutionMode

	// norms of the current solution
	cH1, cNorm  float64
	epsD, epsD0 float64
	have0       bool      // dissipation reference captured
	normsOK     bool      // norms belong to the current mesh
	enorm       []float64 // per-element crack norms; refinement indicator

	// element buffers
	ceL []float64
}

// NewPhase returns a phase-field collaborator for the given input. The
// integrand is created here, before any input processing, so that the
// collaborators can be wired up right away
func NewPhase(sd *inp.Simulation) *Phase {
	return &Phase{
		Sim: sd,
		msh: NewMesh(sd.Bar.L, sd.Bar.Nels, sd.Bar.InitLevel),
		itg: fracture.NewPhaseField(nil),
		ceL: make([]float64, 2),
	}
}

// Name returns the collaborator name
func (o *Phase) Name() string { return "phasefield" }

// GetSolution returns the current crack phase field
func (o *Phase) GetSolution() []float64 { return o.sol }

// SetMode sets the assembly mode
func (o *Phase) SetMode(mode sim.SolutionMode) bool {
	o.mode = mode
	return true
}

// SetTensileEnergy aliases the tensile energy buffer of the structural
// collaborator as the crack driving force
func (o *Phase) SetTensileEnergy(buf *[]float64) {
	o.itg.SetTensileEnergy(buf)
}

// GetHistoryField returns the history field
func (o *Phase) GetHistoryField() []float64 { return o.itg.H }

// GetInitRefine returns the refinement level already built into the mesh
// during input parsing
func (o *Phase) GetInitRefine() int { return o.Sim.Bar.InitLevel }

// HasIC tells whether an initial condition with the given name exists
func (o *Phase) HasIC(name string) bool {
	return name == o.Name() && o.Sim.Bar.IcPhase != ""
}

// AssembleSystem assembles the linear system against the given crack field
func (o *Phase) AssembleSystem(tm *sim.TimeDomain, sols [][]float64, newLHS bool) error {
	if len(sols) < 1 || len(sols[0]) != o.msh.NumNodes() {
		return chk.Err("phasefield: solution state needs %d nodal values", o.msh.NumNodes())
	}
	c := sols[0]
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
		o.ceL[0], o.ceL[1] = c[n0], c[n1]
		return [][]float64{o.ceL}
	}
	return integrate(o.msh, o.Sim.Bar.A, o.itg, loc, o.sys, o.rhs, withLHS)
}

// ExtractLoadVec returns a copy of the assembled right-hand-side vector
func (o *Phase) ExtractLoadVec() ([]float64, error) {
	return append([]float64(nil), o.rhs...), nil
}

// ExtractEnergy returns the crack surface energy of the last assembly
func (o *Phase) ExtractEnergy() float64 { return o.itg.Energy() }

// SolveStep folds the tensile energies into the history field and solves
// the crack evolution with one direct solve
func (o *Phase) SolveStep(tp *sim.TimeStep, standalone bool) sim.Status {
	o.itg.UpdateHistory()
	o.mode = sim.Static
	if o.AssembleSystem(&tp.Time, [][]float64{o.sol}, true) != nil {
		return sim.Failure
	}
	if o.sys.Solve(o.cnew, o.rhs) != nil {
		return sim.Failure
	}
	copy(o.sol, o.cnew)
	o.computeNorms()
	return sim.Converged
}

// PostSolve refreshes the norms of the current crack field
func (o *Phase) PostSolve(tp *sim.TimeStep) {
	o.computeNorms()
}

// AdvanceStep folds the tensile energies of the converged step into the
// history field, rendering the cracking irreversible
func (o *Phase) AdvanceStep(tp *sim.TimeStep) error {
	o.itg.UpdateHistory()
	return nil
}

// SaveStep saves the crack phase field of one step. The dissipation
// reference is captured at the first save carrying valid norms
func (o *Phase) SaveStep(tp *sim.TimeStep, nBlock *int) error {
	if !o.have0 && o.normsOK {
		o.epsD0 = o.epsD
		o.have0 = true
	}
	return saveBlock(o.Sim, "phasefield", tp, o.msh.X, o.sol, nBlock)
}

// SaveResidual saves the residual of the crack evolution equation. A
// residual assembled before the latest mesh refinement is skipped
func (o *Phase) SaveResidual(tp *sim.TimeStep, residual []float64, nBlock *int) error {
	if len(residual) != o.msh.NumNodes() {
		return nil
	}
	return saveBlock(o.Sim, "residual", tp, o.msh.X, residual, nBlock)
}

// SetSolution restores the solution vector, e.g. after a mesh refinement
func (o *Phase) SetSolution(sol []float64) {
	copy(o.sol, sol)
}

// computeNorms integrates the norms of the current crack field: its H1
// seminorm, its global and per-element L2 norms and the dissipated
// fracture energy
func (o *Phase) computeNorms() {
	if o.mdl == nil {
		return
	}
	gc, l0 := o.mdl.Gc, o.mdl.L0
	nel := o.msh.NumElems()
	o.enorm = make([]float64, nel)
	var h1, l2, ed float64
	for e := 0; e < nel; e++ {
		n0, n1 := o.msh.Cells[e][0], o.msh.Cells[e][1]
		h := o.msh.X[n1] - o.msh.X[n0]
		detw := 0.5 * h * o.Sim.Bar.A
		dcdx := (o.sol[n1] - o.sol[n0]) / h
		e2 := 0.0
		for _, xi := range []float64{-gaussPt, gaussPt} {
			c := 0.5*(1.0-xi)*o.sol[n0] + 0.5*(1.0+xi)*o.sol[n1]
			h1 += dcdx * dcdx * detw
			e2 += c * c * detw
			ed += 0.5 * gc * ((1.0-c)*(1.0-c)/l0 + l0*dcdx*dcdx) * detw
		}
		l2 += e2
		o.enorm[e] = math.Sqrt(e2)
	}
	o.cH1 = math.Sqrt(h1)
	o.cNorm = math.Sqrt(l2)
	o.epsD = ed
	o.normsOK = true
}

// GetNorm returns the refinement indicator held in the 3rd norm slot: the
// global crack norm and the per-element crack norms
func (o *Phase) GetNorm(slot int) (float64, []float64) {
	if slot != 3 || !o.normsOK {
		return 0, nil
	}
	return o.cNorm, o.enorm
}

// GetGlobalNorms returns the norms of the last solve
func (o *Phase) GetGlobalNorms() []float64 {
	return []float64{o.cH1, o.cNorm, o.epsD - o.epsD0, o.epsD}
}

// TransferHistory transfers the history field captured before a mesh
// refinement onto the integration points of the refined mesh
func (o *Phase) TransferHistory(hsol []float64, oldBasis sim.Basis) error {
	bs, ok := oldBasis.(*basisSnapshot)
	if !ok {
		return chk.Err("phasefield: unknown basis snapshot of type %T", oldBasis)
	}
	xOld := ipCoordsOf(bs.X)
	if len(hsol) != len(xOld) {
		return chk.Err("phasefield: history has %d values for %d old integration points", len(hsol), len(xOld))
	}
	xNew := ipCoordsOf(o.msh.X)
	if len(o.itg.H) != len(xNew) {
		return chk.Err("phasefield: history buffer has %d values for %d integration points", len(o.itg.H), len(xNew))
	}
	for i, x := range xNew {
		o.itg.H[i] = interpLinear(xOld, hsol, x)
	}
	return nil
}

// Refine bisects the marked cells. The crack field is restored by the
// caller afterwards
func (o *Phase) Refine(prm *sim.RefineData) error {
	return o.msh.Refine(prm.Elements)
}

// ClearProperties clears the data read from the input file. The mesh and
// the integrand survive, so that aliased buffers stay valid
func (o *Phase) ClearProperties() {
	o.mdl, o.icFn = nil, nil
	o.itg.Mdl = nil
}

// Read re-reads the input file. The input is parsed once up front and
// retained, so there is nothing left to read here
func (o *Phase) Read(fname string) error { return nil }

// Preprocess resolves the material model and the initial crack profile
// from the input and binds the model to the integrand
func (o *Phase) Preprocess() (err error) {
	if o.mdl, err = brittleOf(o.Sim); err != nil {
		return
	}
	if o.Sim.Bar.IcPhase != "" {
		if o.icFn, err = o.Sim.Functions.Get(o.Sim.Bar.IcPhase); err != nil {
			return chk.Err("cannot resolve initial phase-field function:\n%v", err)
		}
	}
	o.itg.Mdl = o.mdl
	return
}

// Init initialises the crack field for the current mesh: intact
// everywhere, or sampled from the initial profile with the node
// coordinate as the function argument
func (o *Phase) Init(tp *sim.TimeStep) error {
	n := o.msh.NumNodes()
	o.sol = make([]float64, n)
	for i := range o.sol {
		o.sol[i] = 1.0
	}
	if o.icFn != nil {
		for i, x := range o.msh.X {
			o.sol[i] = o.icFn.F(x, nil)
		}
	}
	o.enorm = nil
	o.normsOK = false
	return nil
}

// InitSystem initialises the linear system and the integration buffers for
// the current mesh and re-seeds the initial flaw
func (o *Phase) InitSystem() error {
	n := o.msh.NumNodes()
	o.sys = newTriSys(n)
	o.rhs = make([]float64, n)
	o.cnew = make([]float64, n)
	o.itg.InitIntegration(2*o.msh.NumElems(), o.msh.NumElems())
	o.seedNotch()
	return nil
}

// seedNotch marks the initial flaw by a large history value at the
// integration points of the cells containing the notch
func (o *Phase) seedNotch() {
	if o.Sim.Bar.Notch < 0 || o.mdl == nil {
		return
	}
	hval := 1e3 * o.mdl.Gc / o.mdl.L0
	for e := 0; e < o.msh.NumElems(); e++ {
		x0 := o.msh.X[o.msh.Cells[e][0]]
		x1 := o.msh.X[o.msh.Cells[e][1]]
		if x0 <= o.Sim.Bar.Notch && o.Sim.Bar.Notch <= x1 {
			o.itg.H[2*e] = hval
			o.itg.H[2*e+1] = hval
		}
	}
}

// DumpGeometry dumps the current mesh as plain text
func (o *Phase) DumpGeometry(w io.Writer) error {
	return o.msh.Dump(w)
}
