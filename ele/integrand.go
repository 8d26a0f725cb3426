// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ele defines the contract between collaborators and the
// integrands of their weak forms
package ele

import "github.com/cpmech/gosl/la"

// Mode selects what an integrand assembles. The modes mirror the solution
// modes of the staggering drivers
type Mode int

const (
	Static    Mode = iota // tangent matrix and external loads
	RHSOnly               // out-of-balance vector: external minus internal forces
	IntForces             // internal forces minus external loads
)

// FePoint holds precomputed basis data of one integration point. The
// discretization producing it is owned by the collaborator
type FePoint struct {
	S    []float64   // basis function values
	G    [][]float64 // basis function gradients
	Detw float64     // Jacobian determinant times quadrature weight
	X    float64     // coordinate of the point
}

// LocalIntegral accumulates the element matrix and vector of one element
type LocalIntegral struct {
	K [][]float64 // element matrix
	F []float64   // element vector
}

// NewLocalIntegral returns a zeroed local integral for ndof element dofs
func NewLocalIntegral(ndof int) *LocalIntegral {
	return &LocalIntegral{K: la.MatAlloc(ndof, ndof), F: make([]float64, ndof)}
}

// Clear zeroes the accumulated matrix and vector
func (o *LocalIntegral) Clear() {
	for i := range o.F {
		o.F[i] = 0
		for j := range o.F {
			o.K[i][j] = 0
		}
	}
}

// Integrand is one term of a weak form evaluated at integration points.
// The collaborator owns the discretization: it extracts element-local
// solution values, drives the integration loop and assembles the local
// integrals into its global system
type Integrand interface {

	// assembly control
	SetMode(mode Mode)            // selects what EvalInt assembles and re-arms the energy accumulator
	InitIntegration(nGp, nEl int) // (re-)dimensions per-point buffers for nGp points on nEl elements

	// called per element
	InitElement(eid int, loc [][]float64) error            // loads element-local solution state; layout is integrand-specific
	EvalInt(elm *LocalIntegral, ip int, fe *FePoint) error // adds the contribution of one integration point

	// results
	Energy() float64 // scalar energy accumulated during the last assembly
}
