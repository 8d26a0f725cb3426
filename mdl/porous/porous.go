// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package porous implements a Biot-type model for saturated porous media
// subjected to pressure-driven fracturing
package porous

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Model holds material parameters of a saturated porous medium within
// Biot's poroelasticity. The pore fluid percolates the intact matrix with
// Darcy mobility κ/μ whereas open cracks carry fluid with the cubic-law
// mobility w²/(12μ) for aperture w
type Model struct {

	// parameters
	Alpha float64 // Biot's effective stress coefficient
	M     float64 // Biot's modulus
	Kappa float64 // intrinsic permeability of the matrix
	Mu    float64 // dynamic viscosity of the pore fluid
	Phi0  float64 // initial porosity

	// derived
	mob float64 // Darcy mobility κ/μ
}

// Init initialises this structure
func (o *Model) Init(prms fun.Prms) (err error) {
	o.Alpha = 1.0
	for _, p := range prms {
		switch p.N {
		case "alpha":
			o.Alpha = p.V
		case "M":
			o.M = p.V
		case "kappa":
			o.Kappa = p.V
		case "mu":
			o.Mu = p.V
		case "phi0":
			o.Phi0 = p.V
		default:
			return chk.Err("porous: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.M < 1e-13 {
		return chk.Err("porous: Biot's modulus M must be positive\n")
	}
	if o.Mu < 1e-13 {
		return chk.Err("porous: fluid viscosity mu must be positive\n")
	}
	o.mob = o.Kappa / o.Mu
	return
}

// GetPrms gets (an example) of parameters
func (o Model) GetPrms() fun.Prms {
	return []*fun.Prm{
		&fun.Prm{N: "alpha", V: 0.8},
		&fun.Prm{N: "M", V: 1000},
		&fun.Prm{N: "kappa", V: 1e-12},
		&fun.Prm{N: "mu", V: 1e-3},
		&fun.Prm{N: "phi0", V: 0.2},
	}
}

// Mobility returns the Darcy mobility κ/μ of the intact matrix
func (o Model) Mobility() float64 {
	return o.mob
}

// CrackMobility returns the cubic-law mobility w²/(12μ) of an open
// crack with aperture w
func (o Model) CrackMobility(w float64) float64 {
	if w < 0 {
		w = 0
	}
	return w * w / (12.0 * o.Mu)
}

// Storage returns the storage coefficient 1/M
func (o Model) Storage() float64 {
	return 1.0 / o.M
}
