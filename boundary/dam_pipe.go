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
	register(inp.BKDam, func() Handler { return damHandler{} })
	register(inp.BKPipe, func() Handler { return pipeHandler{} })
}

// damHandler implements a broad-crested weir: volume drains from the
// upstream cell (CellPos) to the downstream cell (CellPos2) at the
// standard weir rate Cd*W*sqrt(g)*head^1.5, head measured above the
// fixed crest level, scaled by the RatingFcn time function. Grounded on
// _examples/original_source/1.3.1/flow_scheme.h's _flow_inner_boundary
// Dam/Pipe branch: a volume transfer between bf->i and bf->i2 clamped by
// the source cell's available volume.
type damHandler struct{}

func damFlow(bf *inp.BoundaryFlow, up *mesh.Cell, funcs inp.FuncsData, t, g float64) (float64, error) {
	crest := bf.Dam.CrestLevel
	mod := 1.0
	if bf.Dam.RatingFcn != "" {
		v, err := evalFunc(funcs, bf.Dam.RatingFcn, t)
		if err != nil {
			return 0, err
		}
		mod = v
	}
	head := up.Zs - crest
	if head <= 0 {
		return 0, nil
	}
	cd := bf.Dam.DischCoef
	if cd <= 0 {
		cd = 0.42
	}
	return mod * cd * bf.Dam.Width * math.Sqrt(g) * math.Pow(head, 1.5), nil
}

func (damHandler) Tmax(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t, g float64, upstream bool) float64 {
	up := &m.Cells[bf.CellPos]
	q, err := damFlow(bf, up, funcs, t, g)
	if err != nil || q <= 0 {
		return math.Inf(1)
	}
	return up.V / q
}

func (damHandler) ApplyExplicit(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t, dt, g float64, upstream bool) {
	up := &m.Cells[bf.CellPos]
	down := &m.Cells[bf.CellPos2]
	q, err := damFlow(bf, up, funcs, t, g)
	if err != nil {
		return
	}
	transferVolume(up, down, q, dt, bf)
}

// pipeHandler implements a constant-bottom-offset transfer driven by the
// head difference between its two ends, using an orifice-style discharge
// law scaled by pipe cross-sectional area.
type pipeHandler struct{}

func pipeFlow(bf *inp.BoundaryFlow, up, down *mesh.Cell, g float64) float64 {
	hUp := up.Zs - bf.Pipe.OffsetIn
	hDown := down.Zs - bf.Pipe.OffsetOut
	head := hUp - hDown
	if head <= 0 {
		return 0
	}
	cd := bf.Pipe.DischCoef
	if cd <= 0 {
		cd = 0.8
	}
	area := math.Pi / 4 * bf.Pipe.Diameter * bf.Pipe.Diameter
	return cd * area * math.Sqrt(2*g*head)
}

func (pipeHandler) Tmax(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t, g float64, upstream bool) float64 {
	up := &m.Cells[bf.CellPos]
	down := &m.Cells[bf.CellPos2]
	q := pipeFlow(bf, up, down, g)
	if q <= 0 {
		return math.Inf(1)
	}
	return up.V / q
}

func (pipeHandler) ApplyExplicit(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t, dt, g float64, upstream bool) {
	up := &m.Cells[bf.CellPos]
	down := &m.Cells[bf.CellPos2]
	q := pipeFlow(bf, up, down, g)
	transferVolume(up, down, q, dt, bf)
}

// transferVolume moves min(up.V, q*dt) from up to down, recording the
// actual rate transferred onto bf.Contribution. iA is a direct volume
// increment (applyIncrements adds it to V unscaled), so the transferred
// volume is added/subtracted without any dx factor.
func transferVolume(up, down *mesh.Cell, q, dt float64, bf *inp.BoundaryFlow) {
	vol := math.Min(up.V, q*dt)
	if vol <= 0 {
		bf.Contribution = 0
		return
	}
	up.IA -= vol
	down.IA += vol
	bf.Contribution = vol / dt
}
