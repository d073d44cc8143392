// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"
	"sync"

	"github.com/jburguete/chnet1d/inp"
	"github.com/jburguete/chnet1d/mesh"
)

// Transport runs stage H once per solute: the node-stage saturation clamp,
// the edge-stage upwind+TVD advection (sharing the flow scheme's sign
// rule), and the per-edge diffusion term, per spec §4.H.
//
// Grounded on _examples/original_source/1.3.1/flow_scheme.h's two-phase
// bound-reservoir clamp and the teacher's per-stage worker-pool dispatch
// already used by Parameters/Decompose/Step/Friction.
func Transport(m *mesh.Mesh, sc Scheme, dt float64) {
	transports := m.System.Transports
	for s := range transports {
		saturationClamp(m.Cells, s, transports[s].Solubility)
		transportEdges(m, sc, dt, s, transports[s])
		if sc.Decomposition != "upwind" {
			applyTransportTVD(m, sc, dt, s)
		}
		saturationClamp(m.Cells, s, transports[s].Solubility)
	}
}

// saturationClamp implements spec §4.H step 1: mass above c_max is pushed
// into the cell's bound reservoir; once b>0, any remaining room below
// c_max pulls mass back out of the reservoir.
func saturationClamp(cells []mesh.Cell, s int, cmax float64) {
	if cmax <= 0 {
		return
	}
	for i := range cells {
		c := &cells[i]
		if len(c.C) <= s {
			continue
		}
		if c.C[s] > cmax {
			excess := (c.C[s] - cmax) * c.V
			c.B_[s] += excess
			c.C[s] = cmax
		} else if c.B_[s] > 0 && c.V > 0 {
			room := (cmax - c.C[s]) * c.V
			back := math.Min(room, c.B_[s])
			c.B_[s] -= back
			c.C[s] += back / c.V
		}
	}
}

// transportEdges dispatches the cell-stage advection+diffusion pass across
// the worker pool, then fixes up the thread-boundary seams sequentially.
func transportEdges(m *mesh.Mesh, sc Scheme, dt float64, s int, tr inp.Transport) {
	var wg sync.WaitGroup
	for t := 0; t+1 < len(m.CellThread); t++ {
		lo, hi := m.CellThread[t], m.CellThread[t+1]
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			transportRange(m, lo, hi, sc, dt, s, tr)
		}(lo, hi)
	}
	wg.Wait()

	for t := 1; t+1 < len(m.CellThread); t++ {
		b := m.CellThread[t]
		l, r := &m.Cells[b-1], &m.Cells[b]
		if l.Channel == r.Channel {
			transportEdge(l, r, sc, dt, s, tr)
		}
	}
}

func transportRange(m *mesh.Mesh, lo, hi int, sc Scheme, dt float64, s int, tr inp.Transport) {
	for i := lo; i+1 < hi; i++ {
		l, r := &m.Cells[i], &m.Cells[i+1]
		if l.Channel != r.Channel {
			continue
		}
		transportEdge(l, r, sc, dt, s, tr)
	}
}

// transportEdge advects solute s across one interior edge, using the same
// upwind/TVD split as the flow scheme's edge() (spec §4.H step 2), and
// adds the diffusive flux of step 3.
func transportEdge(l, r *mesh.Cell, sc Scheme, dt float64, s int, tr inp.Transport) {
	if len(l.C) <= s || len(r.C) <= s {
		return
	}
	if l.A <= l.Amin && r.A <= r.Amin {
		return
	}

	LA, LB := roeAverage(l, r, sc.RoeAverage)
	C2 := LA - LB

	dc := r.C[s] - l.C[s]
	dT := r.Q*r.C[s] - l.Q*l.C[s]

	var dcp, dcm, dTp, dTm float64
	switch {
	case LB >= 0:
		dcp, dTp = dc, dT
	case LA <= 0:
		dcm, dTm = dc, dT
	default:
		dcp = (dT - LB*dc) / C2
		dTp = LA * dcp
		dcm = dc - dcp
		dTm = dT - dTp
	}

	if sc.Decomposition != "upwind" {
		dx := math.Max(0.5*(l.Dx+r.Dx), 1e-12)
		ratio := dt / dx
		l.DCp = 0.5 * ratio * (1 - ratio*LA) * dcp
		l.DCm = 0.5 * ratio * (1 - ratio*LB) * dcm
	}

	ixLR := ix(l, r)
	nu := math.Min(nuOf(l, tr), nuOf(r, tr))
	diffFlux := 0.0
	if ixLR > 0 {
		area := 0.5 * (l.A + r.A)
		diffFlux = nu * area / ixLR * dc
	}

	dm := (dTp + dTm) * dt
	l.C[s] -= cellConcDelta(l, dm)
	r.C[s] += cellConcDelta(r, dm)

	ddiff := diffFlux * dt
	l.C[s] += cellConcDelta(l, ddiff)
	r.C[s] -= cellConcDelta(r, ddiff)
}

// applyTransportTVD runs the second-order TVD correction for one solute
// over every interior edge, sequentially, after transportEdges has
// populated every cell's own unlimited DCp/DCm (spec §4.H step 2). As in
// the flow scheme's applyTVD, each share is limited against the SAME
// field on the adjacent edge (the next edge's own DCp for the p-term,
// the previous edge's own DCm for the m-term), never against the other
// half of its own edge; no original transport_scheme.h source survives
// in the retrieval pack, so this mirrors applyTVD's cross-edge
// comparison without the flow scheme's two-characteristic stencil,
// which a scalar upwind split has no analogue for.
func applyTransportTVD(m *mesh.Mesh, sc Scheme, dt float64, s int) {
	cells := m.Cells
	for i := 0; i+1 < len(cells); i++ {
		l, r := &cells[i], &cells[i+1]
		if l.Channel != r.Channel {
			continue
		}
		if len(l.C) <= s || len(r.C) <= s {
			continue
		}
		if l.A <= l.Amin && r.A <= r.Amin {
			continue
		}

		var nextP float64
		if i+2 < len(cells) && cells[i+2].Channel == r.Channel {
			nextP = r.DCp
		}
		var prevM float64
		if i-1 >= 0 && cells[i-1].Channel == l.Channel {
			prevM = cells[i-1].DCm
		}

		limP := limiter(sc.Limiter, nextP, l.DCp)
		limM := limiter(sc.Limiter, prevM, l.DCm)

		dm := (limP*l.DCp + limM*l.DCm) * dt
		l.C[s] -= cellConcDelta(l, dm)
		r.C[s] += cellConcDelta(r, dm)
	}
}

// nuOf returns a cell's local diffusivity, floored per-edge by the minimum
// of both neighbours (spec §4.H step 3 "the minimum prevents spurious
// upstream transport through very dry neighbours").
func nuOf(c *mesh.Cell, tr inp.Transport) float64 {
	if c.A <= c.Amin {
		return 0
	}
	return tr.Diffusion
}

// cellConcDelta converts a mass increment into a concentration increment
// for one cell, guarding against division by a dry cell's volume.
func cellConcDelta(c *mesh.Cell, dm float64) float64 {
	if c.V <= 0 {
		return 0
	}
	return dm / c.V
}

// ApplyTransportBoundaries implements spec §4.H step 4: an inlet mass flux
// Q*c_in (or, for Pulse boundaries, a pointwise mass injection M(t)
// independent of Q) at every channel-end BoundaryTransport. An outlet
// simply carries its own upstream concentration out with the flow and
// needs no explicit term here, matching the spec's "outlet uses the
// upstream concentration".
func ApplyTransportBoundaries(sys *inp.System, m *mesh.Mesh, funcs inp.FuncsData, t, dt float64) error {
	for _, ch := range sys.Channels {
		for _, bt := range ch.TBoundaries {
			if err := applyOneTransportBoundary(m, funcs, bt, ch, t, dt); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyOneTransportBoundary(m *mesh.Mesh, funcs inp.FuncsData, bt *inp.BoundaryTransport, ch *inp.Channel, t, dt float64) error {
	value := bt.Conc
	if bt.Func != "" {
		fcn, err := funcs.Get(bt.Func)
		if err != nil {
			return err
		}
		value = fcn.F(t, nil)
	}

	upstream := bt.CellPos == ch.CellBegin

	if bt.Pulse {
		n := bt.CellPos2 - bt.CellPos + 1
		if n < 1 {
			n = 1
		}
		for i := bt.CellPos; i <= bt.CellPos2; i++ {
			c := &m.Cells[i]
			if len(c.C) <= bt.Solute || c.V <= 0 {
				continue
			}
			c.C[bt.Solute] += value * dt / float64(n) / c.V
		}
		return nil
	}

	for i := bt.CellPos; i <= bt.CellPos2; i++ {
		c := &m.Cells[i]
		if len(c.C) <= bt.Solute || c.V <= 0 {
			continue
		}
		inflow := (upstream && c.Q > 0) || (!upstream && c.Q < 0)
		if !inflow {
			continue
		}
		dm := c.Q * value * dt
		if !upstream {
			dm = -dm
		}
		c.C[bt.Solute] += dm / c.V
	}
	return nil
}
