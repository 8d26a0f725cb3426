// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the reference one-dimensional collaborator pair
// of the staggered fracture drivers: a linear elasticity solver and a
// crack phase-field solver, both discretised with hat functions on an
// adaptively refined line mesh
package fem

import (
	"github.com/akva2/IFEM-OpenFrac/ele"
	"github.com/akva2/IFEM-OpenFrac/inp"
	"github.com/akva2/IFEM-OpenFrac/mdl/solid"
	"github.com/akva2/IFEM-OpenFrac/sim"
	"github.com/cpmech/gosl/chk"
)

// elMode maps a driver solution mode onto the integrand modes
func elMode(m sim.SolutionMode) ele.Mode {
	switch m {
	case sim.RHSOnly:
		return ele.RHSOnly
	case sim.IntForces:
		return ele.IntForces
	}
	return ele.Static
}

// brittleOf resolves the brittle solid model serving the bar: the first
// solid material of the database carrying a brittle model
func brittleOf(sd *inp.Simulation) (*solid.Brittle, error) {
	if sd.MatModels != nil {
		for _, m := range sd.MatModels.Materials {
			if b, ok := m.Sld.(*solid.Brittle); ok {
				return b, nil
			}
		}
	}
	return nil, chk.Err("no solid material with a brittle model found in the materials database")
}

// integrate drives the integration of one weak-form term over the mesh,
// scattering the local integrals into a tridiagonal system and the
// right-hand-side vector. loc furnishes the element-local solution state
func integrate(msh *Mesh, area float64, itg ele.Integrand, loc func(eid int) [][]float64, sys *triSys, rhs []float64, withLHS bool) error {
	elm := ele.NewLocalIntegral(2)
	fe := ele.FePoint{S: make([]float64, 2), G: [][]float64{{0}, {0}}}
	for e := 0; e < msh.NumElems(); e++ {
		if err := itg.InitElement(e, loc(e)); err != nil {
			return err
		}
		elm.Clear()
		n0, n1 := msh.Cells[e][0], msh.Cells[e][1]
		x0, x1 := msh.X[n0], msh.X[n1]
		h := x1 - x0
		fe.G[0][0], fe.G[1][0] = -1/h, 1/h
		fe.Detw = 0.5 * h * area
		for j, xi := range []float64{-gaussPt, gaussPt} {
			fe.S[0], fe.S[1] = 0.5*(1-xi), 0.5*(1+xi)
			fe.X = 0.5*(x0+x1) + 0.5*h*xi
			if err := itg.EvalInt(elm, 2*e+j, &fe); err != nil {
				return err
			}
		}
		rhs[n0] += elm.F[0]
		rhs[n1] += elm.F[1]
		if withLHS {
			sys.dia[n0] += elm.K[0][0]
			sys.up[n0] += elm.K[0][1]
			sys.low[n1] += elm.K[1][0]
			sys.dia[n1] += elm.K[1][1]
		}
	}
	return nil
}
