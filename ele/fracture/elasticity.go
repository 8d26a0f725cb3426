// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fracture implements the integrands of the coupled
// brittle-fracture problem: degraded elasticity, poroelastic fracture and
// the crack phase-field evolution
package fracture

import (
	"github.com/akva2/IFEM-OpenFrac/ele"
	"github.com/akva2/IFEM-OpenFrac/mdl/solid"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Elasticity is the degraded linear elasticity integrand. The stiffness is
// scaled by g(c) of the crack phase field c wherever the material is in
// tension, and the tensile strain energy density is recorded per
// integration point as the crack driving force of the phase-field
// integrand. An optional crack pressure enters as the body force p*grad(c)
type Elasticity struct {

	// configuration
	Mdl *solid.Brittle // material model
	Pc  fun.Func       // crack pressure; nil means no pressurised crack
	T   float64        // current time; set by the owner before assembly

	// results
	Phi []float64 // tensile energy per integration point

	// current assembly
	mode ele.Mode
	egy  float64

	// element state
	ue  []float64 // element displacement values
	ce  []float64 // element crack values; nil means intact
	scr *ele.LocalIntegral
}

// NewElasticity returns an elasticity integrand for given material
func NewElasticity(m *solid.Brittle) *Elasticity {
	return &Elasticity{Mdl: m}
}

// SetMode selects what EvalInt assembles and re-arms the energy accumulator
func (o *Elasticity) SetMode(mode ele.Mode) {
	o.mode = mode
	o.egy = 0
}

// InitIntegration dimensions the tensile energy buffer for nGp points. The
// buffer is replaced, not resized, so that aliased pointers to the field
// remain valid across mesh refinements
func (o *Elasticity) InitIntegration(nGp, nEl int) {
	o.Phi = make([]float64, nGp)
}

// InitElement loads element-local solution values: loc[0] holds the
// displacement values and loc[1], when present, the crack phase values
func (o *Elasticity) InitElement(eid int, loc [][]float64) error {
	if len(loc) < 1 {
		return chk.Err("elasticity: element %d: missing displacement values", eid)
	}
	o.ue = loc[0]
	o.ce = nil
	if len(loc) > 1 {
		o.ce = loc[1]
	}
	if o.scr == nil || len(o.scr.F) != len(o.ue) {
		o.scr = ele.NewLocalIntegral(len(o.ue))
	}
	return nil
}

// EvalInt adds the contribution of one integration point
func (o *Elasticity) EvalInt(elm *ele.LocalIntegral, ip int, fe *ele.FePoint) error {
	if ip < 0 || ip >= len(o.Phi) {
		return chk.Err("elasticity: integration point %d is out of range", ip)
	}

	// strain, crack value and energy split at this point
	eps := 0.0
	for i, g := range fe.G {
		eps += g[0] * o.ue[i]
	}
	c := 1.0
	if o.ce != nil {
		c = 0.0
		for i, s := range fe.S {
			c += s * o.ce[i]
		}
	}
	psiP, psiM := o.Mdl.PsiPM1D(eps)
	o.Phi[ip] = psiP
	o.egy += (o.Mdl.Degrade(c)*psiP + psiM) * fe.Detw

	// only tensile straining is degraded
	gfac := 1.0
	if eps >= 0 {
		gfac = o.Mdl.Degrade(c)
	}

	tgt := elm
	if o.mode != ele.Static {
		o.scr.Clear()
		tgt = o.scr
	}

	// degraded stiffness
	kfac := gfac * o.Mdl.Stiff1D() * fe.Detw
	for i := range fe.G {
		for j := range fe.G {
			tgt.K[i][j] += kfac * fe.G[i][0] * fe.G[j][0]
		}
	}

	// crack pressure acting as the body force p*grad(c)
	if o.Pc != nil && o.ce != nil {
		dcdx := 0.0
		for i, g := range fe.G {
			dcdx += g[0] * o.ce[i]
		}
		p := o.Pc.F(o.T, nil)
		for i, s := range fe.S {
			tgt.F[i] += p * dcdx * s * fe.Detw
		}
	}

	if o.mode != ele.Static {
		addResidual(elm, o.scr, o.ue, o.mode == ele.IntForces)
	}
	return nil
}

// Energy returns the strain energy accumulated during the last assembly
func (o *Elasticity) Energy() float64 { return o.egy }

// GetTensileEnergy returns a pointer to the tensile energy buffer; the
// pointer remains valid across mesh refinements
func (o *Elasticity) GetTensileEnergy() *[]float64 { return &o.Phi }

// HavePressure tells whether a crack pressure load is configured
func (o *Elasticity) HavePressure() bool { return o.Pc != nil }

// addResidual folds the local integral of one point into the out-of-balance
// vector F - K*x, or its negation when flip is set
func addResidual(elm, scr *ele.LocalIntegral, x []float64, flip bool) {
	for i := range scr.F {
		r := scr.F[i]
		for j, xj := range x {
			r -= scr.K[i][j] * xj
		}
		if flip {
			r = -r
		}
		elm.F[i] += r
	}
}
