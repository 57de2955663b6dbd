// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/finsberg/pulse-adjoint/inp"

	"github.com/cpmech/gosl/chk"
)

// InfoFuncType defines a function that returns information about a certain element type
type InfoFuncType func(sim *inp.Simulation, reg *inp.Region, edat *inp.ElemData) *Info

// AllocatorType defines a function that allocates an element covering one region
type AllocatorType func(sim *inp.Simulation, reg *inp.Region, edat *inp.ElemData) Element

// GetInfo returns information about elements from factory
func GetInfo(reg *inp.Region, edat *inp.ElemData, sim *inp.Simulation) (info *Info, err error) {
	fcn, ok := infofactory[edat.Type]
	if !ok {
		err = chk.Err("cannot get info for element {type=%q, tag=%d}", edat.Type, edat.Tag)
		return
	}
	info = fcn(sim, reg, edat)
	if info == nil {
		err = chk.Err("info for element {type=%q, tag=%d} is not available", edat.Type, edat.Tag)
	}
	return
}

// New returns a new element from factory
func New(reg *inp.Region, edat *inp.ElemData, sim *inp.Simulation) (ele Element, err error) {
	fcn, ok := allocators[edat.Type]
	if !ok {
		err = chk.Err("cannot get allocator for element {type=%q, tag=%d}", edat.Type, edat.Tag)
		return
	}
	ele = fcn(sim, reg, edat)
	if ele == nil {
		err = chk.Err("element {type=%q, tag=%d} is not available", edat.Type, edat.Tag)
	}
	return
}

// SetInfoFunc sets a new callback function to return information about an element
func SetInfoFunc(elementName string, fcn InfoFuncType) {
	if _, ok := infofactory[elementName]; ok {
		chk.Panic("cannot set information function for %q because element name exists already", elementName)
	}
	infofactory[elementName] = fcn
}

// SetAllocator sets a new callback function to allocate an element
func SetAllocator(elementName string, fcn AllocatorType) {
	if _, ok := allocators[elementName]; ok {
		chk.Panic("cannot set allocator function for %q because element name exists already", elementName)
	}
	allocators[elementName] = fcn
}

// infofactory holds all functions that return information about an element
var infofactory = make(map[string]InfoFuncType)

// allocators holds all element allocators
var allocators = make(map[string]AllocatorType)
