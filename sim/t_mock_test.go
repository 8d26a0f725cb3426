// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	goio "io"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// popSt pops the next status from a queue; an empty queue yields Converged
func popSt(q *[]Status) Status {
	if len(*q) == 0 {
		return Converged
	}
	st := (*q)[0]
	*q = (*q)[1:]
	return st
}

// popVec pops the next vector from a queue, falling back to def
func popVec(q *[][]float64, def []float64) []float64 {
	if len(*q) == 0 {
		return def
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v
}

// popF64 pops the next value from a queue; an empty queue yields zero
func popF64(q *[]float64) float64 {
	if len(*q) == 0 {
		return 0
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v
}

// count returns how often entry occurs in log
func count(log []string, entry string) (n int) {
	for _, s := range log {
		if s == entry {
			n++
		}
	}
	return
}

// mockTess is a refinable discretization with externally fixed element areas
type mockTess struct {
	refArea  float64   // reference element area
	areas    []float64 // per-element areas
	refCalls int       // number of RefElemArea queries
	snaps    int       // number of basis snapshots taken
}

func (o *mockTess) NumElems() int { return len(o.areas) }

func (o *mockTess) RefElemArea() float64 {
	o.refCalls++
	return o.refArea
}

func (o *mockTess) ElemArea(eid int) float64 { return o.areas[eid] }

func (o *mockTess) SnapshotBasis() Basis {
	o.snaps++
	return o.snaps
}

func (o *mockTess) FunctionsForElements(elems []int) (fns []int) {
	for _, e := range elems {
		fns = append(fns, e+100)
	}
	return
}

// plainPatch is a discretization without refinement support
type plainPatch struct{}

func (o plainPatch) NumElems() int { return 0 }

// mockSolid is a scripted structural collaborator: statuses, load vectors
// and failures are fed from queues and every call is appended to the shared
// log, so tests can assert the exact call order of the drivers
type mockSolid struct {
	log *[]string // shared call log

	// scripted responses
	steps    []Status    // SolveStep outcomes
	iters    []Status    // SolveIteration outcomes
	loads    [][]float64 // ExtractLoadVec outcomes
	defLoad  []float64   // ExtractLoadVec fallback
	energies []float64   // ExtractEnergy outcomes
	pressure bool        // HaveCrackPressure answer
	mutIter  int         // when > 0, SolveStep sets tp.Iter to this value

	// scripted failures
	asmErr, loadErr, updErr, advErr, saveErr, refineErr error
	readErr, preErr, initErr, sysErr                    error

	// state
	sols    [][]float64 // GetSolutions answer
	tens    []float64   // tensile energy buffer
	bforce  []float64   // GetBoundaryForce answer
	react   []float64   // GetBoundaryReactions answer
	reactOK bool
	norms   []float64 // GetGlobalNorms answer
	patch   Patch

	// captures
	lastSols   [][]float64 // AssembleSystem solution state
	lastNewLHS bool
	setSols    [][]float64 // SetSolutions argument
	lastPrm    *RefineData // Refine argument
}

func (o *mockSolid) put(msg string, prm ...interface{}) {
	*o.log = append(*o.log, io.Sf(msg, prm...))
}

func (o *mockSolid) Name() string { return "elast" }

func (o *mockSolid) SetMode(mode SolutionMode) bool {
	o.put("s1.mode(%s)", mode)
	return true
}

func (o *mockSolid) AssembleSystem(tm *TimeDomain, sols [][]float64, newLHS bool) error {
	o.put("s1.asm")
	o.lastSols, o.lastNewLHS = sols, newLHS
	return o.asmErr
}

func (o *mockSolid) ExtractLoadVec() ([]float64, error) {
	o.put("s1.load")
	if o.loadErr != nil {
		return nil, o.loadErr
	}
	return popVec(&o.loads, o.defLoad), nil
}

func (o *mockSolid) ExtractEnergy() float64 { return popF64(&o.energies) }

func (o *mockSolid) SolveStep(tp *TimeStep, standalone bool) Status {
	o.put("s1.solve(%v)", standalone)
	if o.mutIter > 0 {
		tp.Iter = o.mutIter
	}
	return popSt(&o.steps)
}

func (o *mockSolid) SolveIteration(tp *TimeStep, stage int) Status {
	o.put("s1.it%d", stage)
	return popSt(&o.iters)
}

func (o *mockSolid) UpdateStrainEnergyDensity(tp *TimeStep) error {
	o.put("s1.updegy")
	return o.updErr
}

func (o *mockSolid) PostSolve(tp *TimeStep) { o.put("s1.post") }

func (o *mockSolid) AdvanceStep(tp *TimeStep) error {
	o.put("s1.adv")
	return o.advErr
}

func (o *mockSolid) SaveStep(tp *TimeStep, nBlock *int) error {
	o.put("s1.save")
	return o.saveErr
}

func (o *mockSolid) GetTensileEnergy() *[]float64 { return &o.tens }

func (o *mockSolid) RegisterDependency(field string, ncmp int, src FieldProvider) {
	o.put("s1.dep(%s,%d,%s)", field, ncmp, src.Name())
}

func (o *mockSolid) HaveCrackPressure() bool   { return o.pressure }
func (o *mockSolid) GetSolutions() [][]float64 { return o.sols }

func (o *mockSolid) SetSolutions(sols [][]float64) {
	o.put("s1.setsols(%d)", len(sols))
	o.setSols = sols
}

func (o *mockSolid) GetBoundaryForce(sols [][]float64, tp *TimeStep) []float64 { return o.bforce }
func (o *mockSolid) GetBoundaryReactions() ([]float64, bool)                   { return o.react, o.reactOK }
func (o *mockSolid) GetGlobalNorms() []float64                                 { return o.norms }
func (o *mockSolid) GetPatch() Patch                                           { return o.patch }

func (o *mockSolid) Refine(prm *RefineData, sols [][]float64) error {
	o.put("s1.refine")
	o.lastPrm = prm
	return o.refineErr
}

func (o *mockSolid) ClearProperties() { o.put("s1.clear") }

func (o *mockSolid) Read(fname string) error {
	o.put("s1.read")
	return o.readErr
}

func (o *mockSolid) Preprocess() error {
	o.put("s1.pre")
	return o.preErr
}

func (o *mockSolid) Init(tp *TimeStep) error {
	o.put("s1.init")
	return o.initErr
}

func (o *mockSolid) InitSystem() error {
	o.put("s1.system")
	return o.sysErr
}

// mockPhase is the scripted phase-field collaborator
type mockPhase struct {
	log *[]string // shared call log

	// scripted responses
	steps    []Status    // SolveStep outcomes
	loads    [][]float64 // ExtractLoadVec outcomes
	defLoad  []float64   // ExtractLoadVec fallback
	energies []float64   // ExtractEnergy outcomes
	icPhase  bool        // a "phasefield" initial condition exists
	initRef  int         // GetInitRefine answer
	gNorm    float64     // GetNorm global norm
	eNorms   [][]float64 // GetNorm element norms; the last entry sticks
	badMode  bool        // SetMode answers false

	// scripted failures
	asmErr, loadErr, advErr, saveErr, sresErr, refineErr, histErr error
	readErr, preErr, initErr, sysErr                              error

	// state
	sol   []float64 // GetSolution answer
	hist  []float64 // GetHistoryField answer
	tens  *[]float64
	norms []float64 // GetGlobalNorms answer

	// captures
	lastSols [][]float64 // AssembleSystem solution state
	setSol   []float64   // SetSolution argument
	gotHsol  []float64   // TransferHistory arguments
	gotBasis Basis
	gotRes   []float64 // SaveResidual argument
}

func (o *mockPhase) put(msg string, prm ...interface{}) {
	*o.log = append(*o.log, io.Sf(msg, prm...))
}

func (o *mockPhase) Name() string           { return "phase" }
func (o *mockPhase) GetSolution() []float64 { return o.sol }

func (o *mockPhase) SetMode(mode SolutionMode) bool {
	o.put("s2.mode(%s)", mode)
	return !o.badMode
}

func (o *mockPhase) AssembleSystem(tm *TimeDomain, sols [][]float64, newLHS bool) error {
	o.put("s2.asm")
	o.lastSols = sols
	return o.asmErr
}

func (o *mockPhase) ExtractLoadVec() ([]float64, error) {
	o.put("s2.load")
	if o.loadErr != nil {
		return nil, o.loadErr
	}
	return popVec(&o.loads, o.defLoad), nil
}

func (o *mockPhase) ExtractEnergy() float64 { return popF64(&o.energies) }

func (o *mockPhase) SolveStep(tp *TimeStep, standalone bool) Status {
	o.put("s2.solve(%v)", standalone)
	return popSt(&o.steps)
}

func (o *mockPhase) PostSolve(tp *TimeStep) { o.put("s2.post") }

func (o *mockPhase) AdvanceStep(tp *TimeStep) error {
	o.put("s2.adv")
	return o.advErr
}

func (o *mockPhase) SaveStep(tp *TimeStep, nBlock *int) error {
	o.put("s2.save")
	return o.saveErr
}

func (o *mockPhase) SaveResidual(tp *TimeStep, residual []float64, nBlock *int) error {
	o.put("s2.sres")
	o.gotRes = residual
	return o.sresErr
}

func (o *mockPhase) SetSolution(sol []float64) {
	o.put("s2.setsol")
	o.setSol = sol
}

func (o *mockPhase) GetHistoryField() []float64 { return o.hist }

func (o *mockPhase) TransferHistory(hsol []float64, oldBasis Basis) error {
	o.put("s2.transfer")
	o.gotHsol, o.gotBasis = hsol, oldBasis
	return o.histErr
}

func (o *mockPhase) GetInitRefine() int { return o.initRef }

func (o *mockPhase) HasIC(name string) bool { return name == "phasefield" && o.icPhase }

func (o *mockPhase) SetTensileEnergy(buf *[]float64) {
	o.put("s2.alias")
	o.tens = buf
}

func (o *mockPhase) GetNorm(slot int) (float64, []float64) {
	o.put("s2.norm(%d)", slot)
	if len(o.eNorms) == 0 {
		return o.gNorm, nil
	}
	e := o.eNorms[0]
	if len(o.eNorms) > 1 {
		o.eNorms = o.eNorms[1:]
	}
	return o.gNorm, e
}

func (o *mockPhase) GetGlobalNorms() []float64 { return o.norms }

func (o *mockPhase) Refine(prm *RefineData) error {
	o.put("s2.refine")
	return o.refineErr
}

func (o *mockPhase) ClearProperties() { o.put("s2.clear") }

func (o *mockPhase) Read(fname string) error {
	o.put("s2.read")
	return o.readErr
}

func (o *mockPhase) Preprocess() error {
	o.put("s2.pre")
	return o.preErr
}

func (o *mockPhase) Init(tp *TimeStep) error {
	o.put("s2.init")
	return o.initErr
}

func (o *mockPhase) InitSystem() error {
	o.put("s2.system")
	return o.sysErr
}

func (o *mockPhase) DumpGeometry(w goio.Writer) error {
	_, err := w.Write([]byte("1d mesh\n"))
	return err
}

// newMockPair returns a wired collaborator pair sharing one call log
func newMockPair() (s1 *mockSolid, s2 *mockPhase, log *[]string) {
	log = new([]string)
	s1 = &mockSolid{
		log:     log,
		sols:    [][]float64{{1, 2, 3}},
		tens:    []float64{0, 0},
		reactOK: true,
		patch:   &mockTess{refArea: 1, areas: []float64{1, 1, 1, 1, 1}},
	}
	s2 = &mockPhase{
		log:  log,
		sol:  []float64{0.5, 0.6},
		hist: []float64{0.9},
	}
	return
}
