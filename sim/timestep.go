// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import "github.com/cpmech/gosl/fun"

// TimeDomain holds the time data of one step
type TimeDomain struct {
	T     float64 // current time
	Dt    float64 // time increment of current step
	First bool    // first iteration of a new mesh/configuration
}

// TimeStep holds the step and staggering-cycle counters together with the
// time data. It is owned and advanced by the simulation driver only; the
// staggering schemes mutate Iter and Time.First
type TimeStep struct {
	Step int        // current step number; 0 = initial state
	Iter int        // current staggering cycle within the step
	Time TimeDomain // time data
}

// NewTimeStep returns a time step set before the first step
func NewTimeStep(dt float64) *TimeStep {
	return &TimeStep{Time: TimeDomain{Dt: dt, First: true}}
}

// Advance advances to the next step with increment given by dtFn(t)
func (o *TimeStep) Advance(dtFn fun.Func) {
	o.AdvanceDt(dtFn.F(o.Time.T, nil))
}

// AdvanceDt advances to the next step with a prescribed increment
func (o *TimeStep) AdvanceDt(dt float64) {
	o.Step++
	o.Iter = 0
	o.Time.Dt = dt
	o.Time.T += dt
}
