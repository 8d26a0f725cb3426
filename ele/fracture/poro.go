// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracture

import (
	"github.com/akva2/IFEM-OpenFrac/ele"
	"github.com/akva2/IFEM-OpenFrac/mdl/porous"
	"github.com/akva2/IFEM-OpenFrac/mdl/solid"
	"github.com/cpmech/gosl/chk"
)

// Poro is the poroelastic fracture integrand: Biot's saturated medium
// whose skeleton stiffness is evaluated by the degraded elasticity
// integrand held internally, and whose permeability is enhanced along open
// cracks by the cubic law. Element dofs are blocked, displacements first,
// then pressures. The mass balance is discretized with backward Euler
type Poro struct {

	// configuration
	El  *Elasticity   // solid-part integrand; evaluates degraded stiffness and tensile energy
	Mdl *porous.Model // poroelastic material
	Dt  float64       // time increment of the current step; set by the owner

	// current assembly
	mode ele.Mode

	// element state
	ue, ueO []float64 // current and previous displacement values
	pe, peO []float64 // current and previous pressure values
	ce      []float64 // crack values; nil means intact
	x       []float64 // blocked solution vector for residual modes
	scr     *ele.LocalIntegral
	full    *ele.LocalIntegral
}

// NewPoro returns a poroelastic fracture integrand for given materials
func NewPoro(m *solid.Brittle, pm *porous.Model) *Poro {
	return &Poro{El: NewElasticity(m), Mdl: pm}
}

// SetMode selects what EvalInt assembles. The internal elasticity
// integrand always runs in static mode; residual modes are evaluated on
// the blocked system
func (o *Poro) SetMode(mode ele.Mode) {
	o.mode = mode
	o.El.SetMode(ele.Static)
}

// InitIntegration forwards to the elasticity integrand
func (o *Poro) InitIntegration(nGp, nEl int) {
	o.El.InitIntegration(nGp, nEl)
}

// InitElement loads element-local solution values: loc[0] and loc[1] hold
// the current and previous displacement values, loc[2] and loc[3] the
// current and previous pressure values and loc[4], when present, the crack
// phase values
func (o *Poro) InitElement(eid int, loc [][]float64) error {
	if len(loc) < 4 {
		return chk.Err("porofracture: element %d: missing solution values", eid)
	}
	o.ue, o.ueO = loc[0], loc[1]
	o.pe, o.peO = loc[2], loc[3]
	o.ce = nil
	elLoc := loc[:1]
	if len(loc) > 4 {
		o.ce = loc[4]
		elLoc = [][]float64{loc[0], loc[4]}
	}
	if err := o.El.InitElement(eid, elLoc); err != nil {
		return err
	}
	nen := len(o.ue)
	if o.scr == nil || len(o.scr.F) != nen {
		o.scr = ele.NewLocalIntegral(nen)
		o.full = ele.NewLocalIntegral(2 * nen)
		o.x = make([]float64, 2*nen)
	}
	return nil
}

// EvalInt adds the contribution of one integration point
func (o *Poro) EvalInt(elm *ele.LocalIntegral, ip int, fe *ele.FePoint) error {
	if o.Dt <= 0 {
		return chk.Err("porofracture: time increment must be set before assembly")
	}

	nen := len(o.ue)
	tgt := elm
	if o.mode != ele.Static {
		o.full.Clear()
		tgt = o.full
	}

	// solid part into the displacement block
	o.scr.Clear()
	if err := o.El.EvalInt(o.scr, ip, fe); err != nil {
		return err
	}
	for i := 0; i < nen; i++ {
		for j := 0; j < nen; j++ {
			tgt.K[i][j] += o.scr.K[i][j]
		}
		tgt.F[i] += o.scr.F[i]
	}

	// effective mobility: Darcy flow through the matrix plus cubic-law
	// flow through the regularised crack opening l0*(1-c)
	c := 1.0
	if o.ce != nil {
		c = 0.0
		for i, s := range fe.S {
			c += s * o.ce[i]
		}
	}
	w := o.El.Mdl.L0 * (1.0 - c)
	mob := o.Mdl.Mobility() + o.Mdl.CrackMobility(w)

	// Biot coupling and mass balance
	al, sto := o.Mdl.Alpha, o.Mdl.Storage()
	for i := 0; i < nen; i++ {
		for j := 0; j < nen; j++ {
			tgt.K[i][nen+j] -= al * fe.S[j] * fe.G[i][0] * fe.Detw
			tgt.K[nen+i][j] += al / o.Dt * fe.S[i] * fe.G[j][0] * fe.Detw
			tgt.K[nen+i][nen+j] += (sto/o.Dt*fe.S[i]*fe.S[j] + mob*fe.G[i][0]*fe.G[j][0]) * fe.Detw
			tgt.F[nen+i] += (al/o.Dt*fe.S[i]*fe.G[j][0]*o.ueO[j] + sto/o.Dt*fe.S[i]*fe.S[j]*o.peO[j]) * fe.Detw
		}
	}

	if o.mode != ele.Static {
		for i := 0; i < nen; i++ {
			o.x[i], o.x[nen+i] = o.ue[i], o.pe[i]
		}
		addResidual(elm, o.full, o.x, o.mode == ele.IntForces)
	}
	return nil
}

// Energy returns the strain energy of the solid part
func (o *Poro) Energy() float64 { return o.El.Energy() }

// GetTensileEnergy forwards to the elasticity integrand
func (o *Poro) GetTensileEnergy() *[]float64 { return o.El.GetTensileEnergy() }
