// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"encoding/gob"
	"encoding/json"
	"os"

	"github.com/akva2/IFEM-OpenFrac/inp"
	"github.com/akva2/IFEM-OpenFrac/sim"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// ResultBlock is one field snapshot written to the output directory
type ResultBlock struct {
	Name string    // field name
	Step int       // time step number
	Time float64   // simulation time
	X    []float64 // node coordinates
	V    []float64 // nodal values
}

// saveBlock encodes one nodal field into DirOut using the simulation's
// encoder and bumps the block counter
func saveBlock(sd *inp.Simulation, name string, tp *sim.TimePoint, x, v []float64, nBlock *int) error {
	blk := ResultBlock{
		Name: name,
		Step: tp.Step,
		Time: tp.T,
		X:    append([]float64(nil), x...),
		V:    append([]float64(nil), v...),
	}
	fn := io.Sf("%s/%s_%04d_%s.res", sd.DirOut, sd.Key, *nBlock, name)
	f, err := os.Create(fn)
	if err != nil {
		return chk.Err("cannot create results file %q: %v", fn, err)
	}
	defer f.Close()
	switch sd.EncType {
	case "gob":
		err = gob.NewEncoder(f).Encode(&blk)
	default:
		err = json.NewEncoder(f).Encode(&blk)
	}
	if err != nil {
		return chk.Err("cannot encode results block %q: %v", fn, err)
	}
	*nBlock++
	return nil
}
