// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements post-processing of coupled fracture results;
// e.g. reading the global energy log and plotting its histories
package out

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
)

// EnergyTable holds the columns of a global energy log
type EnergyTable struct {
	Names []string             // column names in file order
	Cols  map[string][]float64 // columns keyed by name
}

// ReadEnergyLog reads a global energy log written during a simulation.
// The first non-empty line carries the column names; a leading '#' on the
// first name is stripped. It panics on IO or parsing errors
func ReadEnergyLog(path string) (o *EnergyTable) {
	b, err := io.ReadFile(path)
	if err != nil {
		chk.Panic("cannot read energy log:\n%v", err)
	}
	o = new(EnergyTable)
	o.Cols = make(map[string][]float64)
	for _, line := range strings.Split(string(b), "\n") {
		f := strings.Fields(line)
		if len(f) == 0 {
			continue
		}
		if o.Names == nil {
			f[0] = strings.TrimPrefix(f[0], "#")
			o.Names = f
			continue
		}
		if len(f) != len(o.Names) {
			chk.Panic("energy log %s: row %q does not match the %d-column header", path, line, len(o.Names))
		}
		for i, s := range f {
			o.Cols[o.Names[i]] = append(o.Cols[o.Names[i]], io.Atof(s))
		}
	}
	if o.Names == nil {
		chk.Panic("energy log %s has no header line", path)
	}
	return
}

// Col returns the column with the given name; nil if absent
func (o *EnergyTable) Col(name string) []float64 {
	return o.Cols[name]
}

// Nrows returns the number of data rows
func (o *EnergyTable) Nrows() int {
	return len(o.Cols[o.Names[0]])
}

// Trunc zeroes values with magnitude not exceeding tol. The energy log
// carries load and reaction columns filtered this way
func Trunc(v, tol float64) float64 {
	if math.Abs(v) <= tol {
		return 0
	}
	return v
}

// energyKeys are the columns drawn on the energies subplot, when present
var energyKeys = []string{"eps_e", "external_energy", "eps+", "eps-", "eps_d"}

// lineCodes are the line styles cycled over the curves of one subplot
var lineCodes = []string{"b-", "r-", "g-", "m-", "c-", "k-"}

// PlotEnergy draws the energy and boundary-force histories of a table and
// saves the figure to figpath
func PlotEnergy(tab *EnergyTable, figpath string) {
	t := tab.Col("t")
	if len(t) == 0 {
		chk.Panic("energy table has no time column")
	}

	plt.SetForEps(1.2, 450)

	plt.Subplot(2, 1, 1)
	n := 0
	for _, key := range energyKeys {
		if v := tab.Col(key); v != nil {
			plt.Plot(t, v, io.Sf("'%s', label='%s', clip_on=0", lineCodes[n%len(lineCodes)], key))
			n++
		}
	}
	plt.Gll("$t$", "energy", "")

	plt.Subplot(2, 1, 2)
	n = 0
	for _, key := range tab.Names {
		if strings.HasPrefix(key, "load_") || strings.HasPrefix(key, "react_") {
			plt.Plot(t, tab.Col(key), io.Sf("'%s', label='%s', clip_on=0", lineCodes[n%len(lineCodes)], key))
			n++
		}
	}
	plt.Gll("$t$", "force", "")

	dir, fn := filepath.Split(figpath)
	if dir == "" {
		dir = "."
	}
	plt.SaveD(dir, fn)
	plt.Clf()
}
