// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Brittle implements an isotropic linear elastic solid for brittle fracture
// analyses. The strain energy density is split into tensile and compressive
// parts following the volumetric/deviatoric decomposition and the stiffness
// degradation is quadratic in the crack phase field c, with c=1 intact and
// c=0 fully broken:
//   g(c) = (1-kres)*c² + kres
// Strain components follow the Mandel ordering {exx, eyy, ezz, √2·exy, ...}
type Brittle struct {

	// parameters
	E    float64 // Young's modulus
	Nu   float64 // Poisson's coefficient
	Rho  float64 // density
	Gc   float64 // critical energy release rate
	L0   float64 // crack band regularisation length
	Kres float64 // residual stiffness factor

	// derived
	lam  float64 // Lamé's first parameter λ
	mu   float64 // shear modulus μ
	kap  float64 // bulk modulus κ = λ + 2μ/3
	ndim int     // space dimension
	nsig int     // number of stress/strain components
}

// add model to factory
func init() {
	allocators["brittle"] = func() Model { return new(Brittle) }
}

// Clean clean resources
func (o *Brittle) Clean() {
}

// Init initialises model
func (o *Brittle) Init(ndim int, pstress bool, prms fun.Prms) (err error) {
	o.Kres = 1e-10
	for _, p := range prms {
		switch p.N {
		case "E":
			o.E = p.V
		case "nu":
			o.Nu = p.V
		case "rho":
			o.Rho = p.V
		case "gc":
			o.Gc = p.V
		case "l0":
			o.L0 = p.V
		case "kres":
			o.Kres = p.V
		default:
			return chk.Err("brittle: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.E < 1e-13 {
		return chk.Err("brittle: Young's modulus E must be positive\n")
	}
	if o.Nu < 0 || o.Nu >= 0.5 {
		return chk.Err("brittle: Poisson's coefficient nu=%g is out of range\n", o.Nu)
	}
	o.lam = o.E * o.Nu / ((1.0 + o.Nu) * (1.0 - 2.0*o.Nu))
	o.mu = o.E / (2.0 * (1.0 + o.Nu))
	o.kap = o.lam + 2.0*o.mu/3.0
	o.ndim = ndim
	o.nsig = 2 * ndim
	if ndim == 1 {
		o.nsig = 1
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Brittle) GetPrms() fun.Prms {
	return []*fun.Prm{
		&fun.Prm{N: "E", V: 210},
		&fun.Prm{N: "nu", V: 0.3},
		&fun.Prm{N: "rho", V: 1},
		&fun.Prm{N: "gc", V: 2.7e-3},
		&fun.Prm{N: "l0", V: 0.015},
		&fun.Prm{N: "kres", V: 1e-10},
	}
}

// GetRho returns density
func (o Brittle) GetRho() float64 {
	return o.Rho
}

// Stress computes the total (undegraded) stress for given strains
func (o Brittle) Stress(sig, eps []float64) (err error) {
	if len(sig) != o.nsig || len(eps) != o.nsig {
		return chk.Err("brittle: strain vector must have %d components\n", o.nsig)
	}
	if o.nsig == 1 {
		sig[0] = o.E * eps[0]
		return
	}
	tr := eps[0] + eps[1] + eps[2]
	for i := 0; i < o.nsig; i++ {
		sig[i] = 2.0 * o.mu * eps[i]
		if i < 3 {
			sig[i] += o.lam * tr
		}
	}
	return
}

// PsiPM computes the tensile (ψ+) and compressive (ψ-) strain energy
// densities for given strains. ψ+ drives the fracture history field
func (o Brittle) PsiPM(eps []float64) (psiP, psiM float64) {
	if o.nsig == 1 {
		return o.PsiPM1D(eps[0])
	}
	tr := eps[0] + eps[1] + eps[2]
	trP, trM := tr, 0.0
	if tr < 0 {
		trP, trM = 0.0, tr
	}
	devdev := 0.0
	for i := 0; i < o.nsig; i++ {
		d := eps[i]
		if i < 3 {
			d -= tr / 3.0
		}
		devdev += d * d
	}
	psiP = 0.5*o.kap*trP*trP + o.mu*devdev
	psiM = 0.5 * o.kap * trM * trM
	return
}

// Degrade returns the stiffness degradation factor g(c)
func (o Brittle) Degrade(c float64) float64 {
	return (1.0-o.Kres)*c*c + o.Kres
}

// DegradeD returns dg/dc
func (o Brittle) DegradeD(c float64) float64 {
	return 2.0 * (1.0 - o.Kres) * c
}

// Stress1D returns the axial stress for given axial strain
func (o Brittle) Stress1D(eps float64) float64 {
	return o.E * eps
}

// PsiPM1D computes the energy split for an axial strain state. Only
// tensile straining contributes to ψ+
func (o Brittle) PsiPM1D(eps float64) (psiP, psiM float64) {
	w := 0.5 * o.E * eps * eps
	if eps >= 0 {
		return w, 0
	}
	return 0, w
}

// Stiff1D returns the axial stiffness modulus
func (o Brittle) Stiff1D() float64 {
	return o.E
}

// CritLoad returns the homogeneous critical stress and strain for a bar
// under tension; used as a reference solution in 1D analyses
func (o Brittle) CritLoad() (sigc, epsc float64) {
	epsc = math.Sqrt(o.Gc / (3.0 * o.L0 * o.E))
	sigc = 9.0 / 16.0 * o.E * epsc
	return
}
