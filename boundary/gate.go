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
	register(inp.BKGate, func() Handler { return gateHandler{} })
}

// gateHandler implements a sluice gate: a submerged-orifice discharge
// through the opening plus, once depth exceeds the opening, a weir term
// over its top edge. Grounded on
// _examples/original_source/1.3.1/flow_scheme.h's BOUNDARY_FLOW_TYPE_GATE
// branch of both boundary_flow_tmax and flow_inlet_explicit.
type gateHandler struct{}

func gateDischarge(bf *inp.BoundaryFlow, funcs inp.FuncsData, t, h, g float64) (float64, error) {
	opening, err := evalFunc(funcs, bf.Gate.OpeningFcn, t)
	if err != nil {
		return 0, err
	}
	if opening <= 0 || h <= 0 {
		return 0, nil
	}
	cd := bf.Gate.DischCoef
	if cd <= 0 {
		cd = 0.61
	}
	q := cd / math.Sqrt(1+0.61*opening/h) * opening * bf.Gate.Width * math.Sqrt(2*g*h)
	top := opening + bf.Gate.SillLevel
	if h > top {
		q += bf.Gate.Width * (h - top) * math.Sqrt(g*(h-top))
	}
	return q, nil
}

func (gateHandler) Tmax(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t, g float64, upstream bool) float64 {
	bound := math.Inf(1)
	for _, c := range cellRange(bf, m) {
		qb, err := gateDischarge(bf, funcs, t, c.H, g)
		if err != nil {
			continue
		}
		if k := tmaxDischarge(c, qb, g); k < bound {
			bound = k
		}
	}
	return bound
}

func (gateHandler) ApplyExplicit(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t, dt, g float64, upstream bool) {
	for _, c := range cellRange(bf, m) {
		qb, err := gateDischarge(bf, funcs, t, c.H, g)
		if err != nil {
			continue
		}
		applyDischarge(c, bf, qb, dt, g, upstream)
	}
}
