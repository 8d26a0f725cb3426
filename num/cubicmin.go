// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package num implements small numerical helpers for the fracture drivers.
package num

import "math"

// tolerance for accepting a stationary point of the interpolant
const critTol = 1e-5

// CubicMinimum locates the minimum of the cubic Hermite interpolant through
// the samples f and tangents d given at strictly increasing abscissae x.
// It returns found=true when at least one stationary point of the
// interpolant was detected, together with the abscissa alpha of the
// stationary point of smallest value among those with non-negative second
// derivative. When stationary points exist but none is convex, alpha is
// left at zero and found is still true.
func CubicMinimum(x, f, d []float64) (alpha float64, found bool) {

	// check
	n := len(x)
	if n < 2 || len(f) != n || len(d) != n {
		return
	}

	// scan knot spans
	first := true
	vmin := 0.0
	for i := 0; i < n-1; i++ {

		// span data
		h := x[i+1] - x[i]
		if h <= 0 {
			return 0, false
		}
		f0, f1 := f[i], f[i+1]
		d0, d1 := d[i], d[i+1]

		// derivative of the interpolant w.r.t the local coordinate t ∈ [0,1]
		// is the quadratic q(t) = A t² + B t + C; H'(x) = q(t)/h
		A := 6.0*(f0-f1) + 3.0*h*(d0+d1)
		B := 6.0*(f1-f0) - 4.0*h*d0 - 2.0*h*d1
		C := h * d0

		// candidate locations: span ends, roots of q, vertex of q
		t := []float64{0, 1}
		if math.Abs(A) > 1e-14 {
			if disc := B*B - 4.0*A*C; disc >= 0 {
				sq := math.Sqrt(disc)
				t = append(t, (-B+sq)/(2.0*A), (-B-sq)/(2.0*A))
			}
			t = append(t, -B/(2.0*A))
		} else if math.Abs(B) > 1e-14 {
			t = append(t, -C/B)
		}

		// accept stationary points
		for _, tc := range t {
			if tc < 0 || tc > 1 {
				continue
			}
			q := (A*tc+B)*tc + C
			if math.Abs(q)/h >= critTol {
				continue
			}
			found = true

			// convexity filter and value comparison
			if 2.0*A*tc+B < 0 {
				continue
			}
			v := hermite(tc, h, f0, f1, d0, d1)
			if first || v < vmin {
				first = false
				vmin = v
				alpha = x[i] + tc*h
			}
		}
	}
	return
}

// hermite evaluates the cubic Hermite segment at local coordinate t
func hermite(t, h, f0, f1, d0, d1 float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return f0*(2.0*t3-3.0*t2+1.0) + h*d0*(t3-2.0*t2+t) + f1*(3.0*t2-2.0*t3) + h*d1*(t3-t2)
}
