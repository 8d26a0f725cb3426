// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import "math"

// CubicHermite represents one segment of a cubic Hermite interpolant with
// values (F0,F1) and tangents (D0,D1) prescribed at the span ends (X0,X1).
// The evaluation uses the Hermite basis directly:
//
//    H(t) = F0・h00(t) + h・D0・h10(t) + F1・h01(t) + h・D1・h11(t)
//    t    = (x - X0)/h      h = X1 - X0
//
type CubicHermite struct {
	X0, X1 float64 // span limits
	F0, F1 float64 // end values
	D0, D1 float64 // end tangents
}

// Value evaluates the interpolant at x
func (o CubicHermite) Value(x float64) float64 {
	h := o.X1 - o.X0
	t := (x - o.X0) / h
	t2 := t * t
	t3 := t2 * t
	h00 := 2.0*t3 - 3.0*t2 + 1.0
	h10 := t3 - 2.0*t2 + t
	h01 := -2.0*t3 + 3.0*t2
	h11 := t3 - t2
	return o.F0*h00 + h*o.D0*h10 + o.F1*h01 + h*o.D1*h11
}

// Deriv evaluates the first derivative of the interpolant at x
func (o CubicHermite) Deriv(x float64) float64 {
	h := o.X1 - o.X0
	t := (x - o.X0) / h
	t2 := t * t
	g00 := 6.0*t2 - 6.0*t
	g10 := 3.0*t2 - 4.0*t + 1.0
	g01 := -6.0*t2 + 6.0*t
	g11 := 3.0*t2 - 2.0*t
	return (o.F0*g00 + h*o.D0*g10 + o.F1*g01 + h*o.D1*g11) / h
}

// Deriv2 evaluates the second derivative of the interpolant at x
func (o CubicHermite) Deriv2(x float64) float64 {
	h := o.X1 - o.X0
	t := (x - o.X0) / h
	k00 := 12.0*t - 6.0
	k10 := 6.0*t - 4.0
	k01 := -12.0*t + 6.0
	k11 := 6.0*t - 2.0
	return (o.F0*k00 + h*o.D0*k10 + o.F1*k01 + h*o.D1*k11) / (h * h)
}

// Critical returns the stationary points of the interpolant inside [X0,X1],
// in ascending order. The derivative is quadratic in the local coordinate;
// the roots follow in closed form.
func (o CubicHermite) Critical() (res []float64) {
	h := o.X1 - o.X0
	a := 6.0*(o.F0-o.F1) + 3.0*h*(o.D0+o.D1)
	b := 6.0*(o.F1-o.F0) - 4.0*h*o.D0 - 2.0*h*o.D1
	c := h * o.D0
	keep := func(t float64) {
		if t >= 0 && t <= 1 {
			res = append(res, o.X0+t*h)
		}
	}
	if math.Abs(a) < 1e-14 {
		if math.Abs(b) > 1e-14 {
			keep(-c / b)
		}
		return
	}
	disc := b*b - 4.0*a*c
	if disc < 0 {
		return
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2.0 * a)
	t2 := (-b + sq) / (2.0 * a)
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	keep(t1)
	if t2 != t1 {
		keep(t2)
	}
	return
}
