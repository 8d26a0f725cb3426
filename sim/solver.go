// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import "io"

// DiagSink receives diagnostic messages from the staggering drivers.
// A nil sink silences all diagnostics
type DiagSink func(msg string, prm ...interface{})

// Basis is an opaque snapshot of a discretization basis. It is produced
// right before a mesh refinement and consumed once to transfer the
// phase-field history onto the new mesh
type Basis interface{}

// RefineData collects the input to a mesh refinement request
type RefineData struct {
	Options  []int // pass-through refinement options
	Elements []int // basis function ids covering the elements to refine
}

// NewRefineData returns refinement data with default options
func NewRefineData(elements []int) *RefineData {
	return &RefineData{
		Options:  []int{10, 1, 2, 0, 1},
		Elements: elements,
	}
}

// FieldProvider furnishes a named solution field to another collaborator
type FieldProvider interface {
	Name() string           // collaborator name
	GetSolution() []float64 // current (scalar) solution field
}

// Patch gives access to the active discretization of a collaborator
type Patch interface {
	NumElems() int // number of elements
}

// Adaptive is the capability interface of discretizations supporting mesh
// refinement. The drivers type-assert the solid collaborator's Patch to it;
// a failed assertion means the active discretization cannot be refined
type Adaptive interface {
	Patch
	RefElemArea() float64                      // area of the reference (coarsest) element
	ElemArea(eid int) float64                  // current area of element eid
	SnapshotBasis() Basis                      // snapshot of the basis for history transfer
	FunctionsForElements(elems []int) []int    // basis function ids covering the given elements
}

// SolidSolver is the structural (elasticity) collaborator of the staggered
// fracture drivers. Solutions are kept newest-first: index 0 is the current
// solution vector
type SolidSolver interface {
	Name() string                                                      // collaborator name
	SetMode(mode SolutionMode) bool                                    // sets assembly mode
	AssembleSystem(tm *TimeDomain, sols [][]float64, newLHS bool) error // assembles against given solution state
	ExtractLoadVec() ([]float64, error)                                // extracts assembled right-hand-side vector
	ExtractEnergy() float64                                            // extracts scalar energy of last assembly
	SolveStep(tp *TimeStep, standalone bool) Status                    // solves one full time step
	SolveIteration(tp *TimeStep, stage int) Status                     // solves one iteration; stage 1=predictor 2=corrector 3=cycle
	UpdateStrainEnergyDensity(tp *TimeStep) error                      // updates tensile energy buffer from current solution
	PostSolve(tp *TimeStep)                                            // post-solution hook
	AdvanceStep(tp *TimeStep) error                                    // advances internal state to next step
	SaveStep(tp *TimeStep, nBlock *int) error                          // saves results of one step
	GetTensileEnergy() *[]float64                                      // tensile energy per integration point; pointer stays valid across refinements
	RegisterDependency(field string, ncmp int, src FieldProvider)      // registers an external field dependency
	HaveCrackPressure() bool                                           // whether a crack pressure load is configured
	GetSolutions() [][]float64                                         // newest-first solution vectors
	SetSolutions(sols [][]float64)                                     // restores solution vectors; extra trailing entries are ignored
	GetBoundaryForce(sols [][]float64, tp *TimeStep) []float64         // boundary force components
	GetBoundaryReactions() ([]float64, bool)                           // reaction force components; false if not available
	GetGlobalNorms() []float64                                         // global energy norms for the energy log
	GetPatch() Patch                                                   // active discretization
	Refine(prm *RefineData, sols [][]float64) error                    // refines mesh, resizing the given solution state
	ClearProperties()                                                  // clears data read from the input file
	Read(fname string) error                                           // (re-)reads the input file
	Preprocess() error                                                 // (re-)runs preprocessing
	Init(tp *TimeStep) error                                           // (re-)initialises solution data
	InitSystem() error                                                 // (re-)initialises the linear system
}

// PhaseSolver is the crack phase-field collaborator of the staggered
// fracture drivers
type PhaseSolver interface {
	FieldProvider
	SetMode(mode SolutionMode) bool                                    // sets assembly mode
	AssembleSystem(tm *TimeDomain, sols [][]float64, newLHS bool) error // assembles against given solution state
	ExtractLoadVec() ([]float64, error)                                // extracts assembled right-hand-side vector
	ExtractEnergy() float64                                            // extracts scalar energy of last assembly
	SolveStep(tp *TimeStep, standalone bool) Status                    // solves one time step
	PostSolve(tp *TimeStep)                                            // post-solution hook
	AdvanceStep(tp *TimeStep) error                                    // advances internal state to next step
	SaveStep(tp *TimeStep, nBlock *int) error                          // saves results of one step
	SaveResidual(tp *TimeStep, residual []float64, nBlock *int) error  // saves the phase-field equation residual
	SetSolution(sol []float64)                                         // restores the solution vector
	GetHistoryField() []float64                                        // history field (maximum tensile energy over time)
	TransferHistory(hsol []float64, oldBasis Basis) error              // transfers history onto the refined mesh
	GetInitRefine() int                                                // refinement level already applied while reading input
	HasIC(name string) bool                                            // whether an initial condition with given name exists
	SetTensileEnergy(buf *[]float64)                                   // aliases the solid collaborator's tensile energy buffer
	GetNorm(slot int) (gNorm float64, eNorm []float64)                 // global norm and per-element norms of given slot
	GetGlobalNorms() []float64                                         // global norms for the energy log
	Refine(prm *RefineData) error                                      // refines mesh
	ClearProperties()                                                  // clears data read from the input file
	Read(fname string) error                                           // (re-)reads the input file
	Preprocess() error                                                 // (re-)runs preprocessing
	Init(tp *TimeStep) error                                           // (re-)initialises solution data
	InitSystem() error                                                 // (re-)initialises the linear system
	DumpGeometry(w io.Writer) error                                    // dumps the current mesh as plain text
}
