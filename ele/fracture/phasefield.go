// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracture

import (
	"github.com/akva2/IFEM-OpenFrac/ele"
	"github.com/akva2/IFEM-OpenFrac/mdl/solid"
	"github.com/cpmech/gosl/chk"
)

// PhaseField is the crack evolution integrand. With c=1 intact and c=0
// fully broken, the regularised crack field solves
//
//   (Gc/l0 + 2H)c - Gc*l0*c'' = Gc/l0
//
// where the history field H is the maximum tensile strain energy density
// seen at each integration point. H may only grow, which renders the
// cracking irreversible
type PhaseField struct {

	// configuration
	Mdl *solid.Brittle // material model; carries Gc and l0

	// crack driving force
	src *[]float64 // aliased tensile energy buffer of the elasticity integrand
	H   []float64  // history field per integration point

	// current assembly
	mode ele.Mode
	egy  float64

	// element state
	ce  []float64 // element crack values
	scr *ele.LocalIntegral
}

// NewPhaseField returns a phase-field integrand for given material
func NewPhaseField(m *solid.Brittle) *PhaseField {
	return &PhaseField{Mdl: m}
}

// SetMode selects what EvalInt assembles and re-arms the energy accumulator
func (o *PhaseField) SetMode(mode ele.Mode) {
	o.mode = mode
	o.egy = 0
}

// InitIntegration dimensions the history field for nGp points. The history
// on a refined mesh is recovered afterwards by the owner, from the values
// captured before refinement
func (o *PhaseField) InitIntegration(nGp, nEl int) {
	o.H = make([]float64, nGp)
}

// SetTensileEnergy aliases the tensile energy buffer of the elasticity
// integrand as the crack driving force
func (o *PhaseField) SetTensileEnergy(buf *[]float64) {
	o.src = buf
}

// UpdateHistory folds the current tensile energies into the history field
func (o *PhaseField) UpdateHistory() {
	if o.src == nil {
		return
	}
	for i, p := range *o.src {
		if i >= len(o.H) {
			break
		}
		if p > o.H[i] {
			o.H[i] = p
		}
	}
}

// InitElement loads element-local solution values: loc[0] holds the crack
// phase values
func (o *PhaseField) InitElement(eid int, loc [][]float64) error {
	if len(loc) < 1 {
		return chk.Err("phasefield: element %d: missing crack values", eid)
	}
	o.ce = loc[0]
	if o.scr == nil || len(o.scr.F) != len(o.ce) {
		o.scr = ele.NewLocalIntegral(len(o.ce))
	}
	return nil
}

// EvalInt adds the contribution of one integration point
func (o *PhaseField) EvalInt(elm *ele.LocalIntegral, ip int, fe *ele.FePoint) error {
	if ip < 0 || ip >= len(o.H) {
		return chk.Err("phasefield: integration point %d is out of range", ip)
	}
	H := o.H[ip]
	gc, l0 := o.Mdl.Gc, o.Mdl.L0

	c, dcdx := 0.0, 0.0
	for i, s := range fe.S {
		c += s * o.ce[i]
		dcdx += fe.G[i][0] * o.ce[i]
	}
	o.egy += 0.5 * gc * ((1.0-c)*(1.0-c)/l0 + l0*dcdx*dcdx) * fe.Detw

	tgt := elm
	if o.mode != ele.Static {
		o.scr.Clear()
		tgt = o.scr
	}

	for i := range fe.S {
		for j := range fe.S {
			tgt.K[i][j] += ((gc/l0+2.0*H)*fe.S[i]*fe.S[j] + gc*l0*fe.G[i][0]*fe.G[j][0]) * fe.Detw
		}
		tgt.F[i] += gc / l0 * fe.S[i] * fe.Detw
	}

	if o.mode != ele.Static {
		addResidual(elm, o.scr, o.ce, o.mode == ele.IntForces)
	}
	return nil
}

// Energy returns the crack surface energy accumulated during the last
// assembly
func (o *PhaseField) Energy() float64 { return o.egy }
