// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
)

// refinement failure codes returned by AdaptMesh
const (
	adaptNoCapability = -999 // active discretization cannot be refined
	adaptNoIndicator  = -1   // refinement indicators are missing
	adaptRefineFail   = -2   // refine call failed on a collaborator
	adaptReadFail     = -3   // re-reading the input failed
	adaptPreFail      = -4   // re-preprocessing failed
	adaptInitFail     = -5   // re-initialisation failed
	adaptSystemFail   = -6   // linear-system re-initialisation failed
)

// AdaptMesh refines the mesh where the phase-field indicators are low and
// transfers the captured solution state onto the new mesh. It returns the
// number of refined elements, 0 when nothing needs refinement, or a
// negative code identifying the failed stage. The elements considered are
// the beta percent with lowest indicator (beta < 0 means all), bounded by
// the indicator floor eMin and by the minimum admissible element area
func (o *Fracture) AdaptMesh(beta, minFrac float64, nrefinements int) int {

	pch, ok := o.S1.GetPatch().(Adaptive)
	if !ok {
		o.diag(" *** AdaptMesh: active discretization has no refinement support\n")
		return adaptNoCapability
	}

	// minimum element area after nrefinements bisections in each direction
	if o.aMin <= 0 {
		redMax := math.Pow(2.0, float64(nrefinements))
		o.aMin = pch.RefElemArea() / (redMax * redMax)
	}

	// element norms used as refinement criteria
	gNorm, eNorm := o.S2.GetNorm(3)
	if len(eNorm) == 0 {
		o.diag(" *** AdaptMesh: missing refinement indicators, expected as the 3rd element norm\n")
		return adaptNoIndicator
	}

	// sort element indices by indicator value
	idx := sortIdxAsc(eNorm)

	var eMin float64
	if minFrac >= 0 {
		eMin = minFrac * gNorm / math.Sqrt(float64(len(idx)))
	} else {
		eMin = -minFrac
	}
	eMax := len(idx)
	if beta >= 0 {
		eMax = int(float64(len(idx)) * beta / 100.0)
	}
	o.diag("\n  Lowest element: %8d    |c| = %g\n  Highest element:%8d    |c| = %g\n  Minimum |c|-value for refinement: %g\n  Minimum element area: %g\n",
		idx[0], eNorm[idx[0]], idx[len(idx)-1], eNorm[idx[len(idx)-1]], eMin, o.aMin)

	// find the elements to refine
	var elements []int
	for _, eid := range idx {
		if eNorm[eid] > eMin || len(elements) >= eMax {
			break
		}
		if pch.ElemArea(eid) > o.aMin+1e-12 {
			elements = append(elements, eid)
		}
	}
	if len(elements) == 0 {
		return 0
	}
	o.diag("  Elements to refine: %d (|c| = [%g,%g])\n\n",
		len(elements), eNorm[elements[0]], eNorm[elements[len(elements)-1]])

	var oldBasis Basis
	if len(o.hsol) > 0 {
		oldBasis = pch.SnapshotBasis()
	}

	// do the mesh refinement
	prm := NewRefineData(pch.FunctionsForElements(elements))
	if o.S1.Refine(prm, o.sols) != nil || o.S2.Refine(prm) != nil {
		return adaptRefineFail
	}

	// re-initialise the collaborators for the new mesh
	o.S1.ClearProperties()
	o.S2.ClearProperties()
	if o.S1.Read(o.infile) != nil || o.S2.Read(o.infile) != nil {
		return adaptReadFail
	}
	if o.S1.Preprocess() != nil || o.S2.Preprocess() != nil {
		return adaptPreFail
	}
	var tp0 TimeStep
	if o.S1.Init(&tp0) != nil || o.S2.Init(&tp0) != nil {
		return adaptInitFail
	}
	if o.S1.InitSystem() != nil || o.S2.InitSystem() != nil {
		return adaptSystemFail
	}

	// transfer solution variables onto the new mesh
	if len(o.sols) > 0 {
		o.diag("\nTransferring %dx%d solution variables to new mesh for %s\n",
			len(o.sols)-1, len(o.sols[0]), o.S1.Name())
		o.S1.SetSolutions(o.sols)
		o.diag("Transferring %d solution variables to new mesh for %s\n",
			len(o.sols[len(o.sols)-1]), o.S2.Name())
		o.S2.SetSolution(o.sols[len(o.sols)-1])
	}

	// the solid collaborator reallocates its tensile energy buffer on
	// refinement; re-alias it into the phase-field collaborator
	o.S2.SetTensileEnergy(o.S1.GetTensileEnergy())

	if len(o.hsol) > 0 {
		o.diag("Transferring %d history variables to new mesh for %s\n",
			len(o.hsol), o.S2.Name())
		if err := o.S2.TransferHistory(o.hsol, oldBasis); err != nil {
			o.diag(" *** history transfer failed: %v\n", err)
		}
	}
	return len(elements)
}

// InitialRefine refines the mesh on the initial configuration, before the
// time stepping starts, by alternating phase-field solves with mesh
// refinements until the grid resolves the initial crack
func (o *Fracture) InitialRefine(beta, minFrac float64, nrefinements int) error {

	if o.S2.GetInitRefine() >= nrefinements {
		return nil // grid is sufficiently refined during input parsing
	}
	if o.S2.HasIC("phasefield") {
		return nil // no initial refinement when an initial phase field is specified
	}

	var step0 TimeStep
	step0.Time.First = true
	newElements := 1
	for step0.Iter = 0; newElements > 0; step0.Iter++ {
		if st := o.S2.SolveStep(&step0, true); st <= Diverged {
			return chk.Err("initial solution of %s failed (%s)", o.S2.Name(), st)
		}
		newElements = o.AdaptMesh(beta, minFrac, nrefinements)
	}
	if newElements < 0 {
		return chk.Err("initial mesh refinement failed with code %d", newElements)
	}
	return nil
}

// sortIdxAsc returns element indices sorted ascending by indicator value
func sortIdxAsc(eNorm []float64) (idx []int) {
	idx = make([]int, len(eNorm))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return eNorm[idx[a]] < eNorm[idx[b]] })
	return
}
