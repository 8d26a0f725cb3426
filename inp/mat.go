// Copyright 2017 The OpenFrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"path/filepath"

	"github.com/akva2/IFEM-OpenFrac/mdl/porous"
	"github.com/akva2/IFEM-OpenFrac/mdl/solid"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
)

// Material holds material data
type Material struct {

	// input
	Name  string   `json:"name"`  // name of material
	Type  string   `json:"type"`  // type of material; e.g. "solid", "porous"
	Model string   `json:"model"` // name of model; e.g. "brittle", "biot"
	Extra string   `json:"extra"` // extra information about this material
	Prms  fun.Prms `json:"prms"`  // prms holds all model parameters for this material

	// derived
	Sld solid.Model   // pointer to actual solid model
	Por *porous.Model // pointer to actual porous model
}

// MatsData holds materials
type MatsData []*Material

// MatDb implements a database of materials
type MatDb struct {

	// input
	Functions FuncsData `json:"functions"` // all functions
	Materials MatsData  `json:"materials"` // all materials

	// derived
	Solids map[string]*Material // subset with materials/models: solids
	Porous map[string]*Material // subset with materials/models: porous materials
}

// Clean cleans resources
func (o *MatDb) Clean() {
	for _, mat := range o.Materials {
		if mat.Sld != nil {
			mat.Sld.Clean()
		}
	}
}

// ReadMat reads all materials data from a .mat JSON file
func ReadMat(dir, fn string, ndim int, pstress bool) (mdb *MatDb, err error) {

	// new database
	mdb = new(MatDb)

	// read file
	b, err := io.ReadFile(filepath.Join(dir, fn))
	if err != nil {
		return nil, err
	}

	// decode
	err = json.Unmarshal(b, mdb)
	if err != nil {
		return
	}

	// subsets
	mdb.Solids = make(map[string]*Material)
	mdb.Porous = make(map[string]*Material)
	for _, m := range mdb.Materials {
		switch m.Type {
		case "solid":
			mdb.Solids[m.Name] = m
			continue
		case "porous":
			mdb.Porous[m.Name] = m
			continue
		default:
			err = chk.Err("material type %q is incorrect; options are \"solid\" and \"porous\"", m.Type)
			return
		}
	}

	// alloc/init: solids
	for _, m := range mdb.Solids {
		m.Sld, err = solid.New(m.Model)
		if err != nil {
			return
		}
		err = m.Sld.Init(ndim, pstress, m.Prms)
		if err != nil {
			return
		}
	}

	// alloc/init: porous
	for _, m := range mdb.Porous {
		m.Por = new(porous.Model)
		err = m.Por.Init(m.Prms)
		if err != nil {
			return
		}
	}
	return
}

// Get returns a material
//  Note: returns nil if not found
func (o MatDb) Get(name string) *Material {
	for _, mat := range o.Materials {
		if mat.Name == name {
			return mat
		}
	}
	return nil
}

// String prints one material
func (o *Material) String() string {
	fun.G_extraindent = "  "
	fun.G_openbrackets = false
	return io.Sf("    {\n      \"name\"  : %q,\n      \"type\"  : %q,\n      \"model\" : %q,\n      \"extra\" : %q,\n      \"prms\"  : [\n%v\n    }", o.Name, o.Type, o.Model, o.Extra, o.Prms)
}

// String prints materials
func (o MatsData) String() string {
	l := "  \"materials\" : [\n"
	for i, m := range o {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("%v", m)
	}
	l += "\n  ]"
	return l
}

// String outputs all materials
func (o MatDb) String() string {
	return io.Sf("{\n%v,\n%v\n}", o.Functions, o.Materials)
}
