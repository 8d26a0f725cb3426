// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

// Status represents the outcome of a (sub-)solution attempt. The values are
// ordered: st <= Diverged means fatal or diverged, st >= Running means the
// staggering may continue
type Status int

const (
	Failure Status = iota // unrecoverable error; e.g. assembly failure
	Diverged
	Running
	Converged
)

// String returns a human readable status name
func (o Status) String() string {
	switch o {
	case Failure:
		return "failure"
	case Diverged:
		return "diverged"
	case Running:
		return "running"
	case Converged:
		return "converged"
	}
	return "unknown"
}

// SolutionMode selects what the collaborators assemble
type SolutionMode int

const (
	Static    SolutionMode = iota // full left- and right-hand side
	RHSOnly                       // right-hand-side/load vector with current solution state
	IntForces                     // internal nodal forces from current internal state
)

// String returns a human readable mode name
func (o SolutionMode) String() string {
	switch o {
	case Static:
		return "static"
	case RHSOnly:
		return "rhsonly"
	case IntForces:
		return "intforces"
	}
	return "unknown"
}
