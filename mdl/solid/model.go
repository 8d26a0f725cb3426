// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package solid implements constitutive models for the solid phase of
// brittle-fracture simulations
package solid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Model defines the interface for solid models
type Model interface {
	Init(ndim int, pstress bool, prms fun.Prms) error // initialises model
	GetPrms() fun.Prms                                // gets (an example) of parameters
	GetRho() float64                                  // returns density
	Clean()                                           // clean resources
}

// Split defines models furnishing a tension/compression split of the strain
// energy density; the tensile part drives the fracture history field
type Split interface {
	PsiPM(eps []float64) (psiP, psiM float64) // tensile and compressive strain energy densities
	Stress(sig, eps []float64) error          // total (undegraded) stress for given strains
}

// Degrader defines models carrying a stiffness degradation function of the
// crack phase field (g(1) = 1 intact, g(0) = residual)
type Degrader interface {
	Degrade(c float64) float64  // degradation factor g(c)
	DegradeD(c float64) float64 // dg/dc
}

// OneD specialises the constitutive response to the one-dimensional domain
type OneD interface {
	Stress1D(eps float64) float64             // axial stress for given axial strain
	PsiPM1D(eps float64) (psiP, psiM float64) // energy split in 1D
	Stiff1D() float64                         // axial stiffness modulus
}

// New returns new solid model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'solid' database", name)
	}
	return allocator(), nil
}

// allocators holds all available solid models; modelname => allocator
var allocators = map[string]func() Model{}
