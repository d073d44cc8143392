// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package boundary

import (
	"math"

	"github.com/jburguete/chnet1d/inp"
	"github.com/jburguete/chnet1d/mesh"
)

func init() {
	register(inp.BKQH, func() Handler { return ratingHandler{zone: "h"} })
	register(inp.BKQZ, func() Handler { return ratingHandler{zone: "z"} })
}

// ratingHandler implements QH/QZ: discharge is a tabulated function of the
// boundary cell's own local depth or stage, evaluated at the current
// (not predicted) state per
// _examples/original_source/1.3.1/flow_scheme.h's boundary_flow_parameter3.
type ratingHandler struct{ zone string }

func (h ratingHandler) localValue(c *mesh.Cell) float64 {
	if h.zone == "h" {
		return c.H
	}
	return c.Zs
}

func (h ratingHandler) Tmax(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t, g float64, upstream bool) float64 {
	bound := math.Inf(1)
	for _, c := range cellRange(bf, m) {
		qb := ratingLookup(bf.Rating, h.localValue(c))
		if k := tmaxDischarge(c, qb, g); k < bound {
			bound = k
		}
	}
	return bound
}

func (h ratingHandler) ApplyExplicit(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t, dt, g float64, upstream bool) {
	for _, c := range cellRange(bf, m) {
		qb := ratingLookup(bf.Rating, h.localValue(c))
		applyDischarge(c, bf, qb, dt, g, upstream)
	}
}
