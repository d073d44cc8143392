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
	register(inp.BKQ, func() Handler { return dischargeHandler{} })
	register(inp.BKQT, func() Handler { return dischargeHandler{} })
	register(inp.BKH, func() Handler { return stageHandler{zone: "h"} })
	register(inp.BKHT, func() Handler { return stageHandler{zone: "h"} })
	register(inp.BKZ, func() Handler { return stageHandler{zone: "z"} })
	register(inp.BKZT, func() Handler { return stageHandler{zone: "z"} })
	register(inp.BKQ_H, func() Handler { return mixedHandler{zone: "h"} })
	register(inp.BKQ_Z, func() Handler { return mixedHandler{zone: "z"} })
	register(inp.BKQT_HT, func() Handler { return mixedHandler{zone: "h"} })
	register(inp.BKQT_ZT, func() Handler { return mixedHandler{zone: "z"} })
	register(inp.BKSupercritical, func() Handler { return freeHandler{} })
}

// cellRange returns every cell in [bf.CellPos, bf.CellPos2].
func cellRange(bf *inp.BoundaryFlow, m *mesh.Mesh) []*mesh.Cell {
	out := make([]*mesh.Cell, 0, bf.CellPos2-bf.CellPos+1)
	for i := bf.CellPos; i <= bf.CellPos2; i++ {
		out = append(out, &m.Cells[i])
	}
	return out
}

// applyDischarge forces Q toward qb at this cell, clipped to the local
// critical discharge, and folds the corresponding mass flux into IA on
// the side the boundary actually sits (spec §4.I; grounded on
// _examples/original_source/1.3.1/flow_scheme.h's discharge_subcritical
// default branch).
func applyDischarge(c *mesh.Cell, bf *inp.BoundaryFlow, qb, dt, g float64, upstream bool) {
	aPred := c.A + c.IA/c.Dx
	if aPred < c.Amin {
		aPred = c.Amin
	}
	qcr := 0.99 * criticalDischarge(c, aPred, g)
	if qb > qcr {
		qb = qcr
	}
	if qb < -qcr {
		qb = -qcr
	}
	c.IQ = (qb - c.Q) * c.Dx
	if upstream {
		c.IA += qb * dt
	} else {
		c.IA -= qb * dt
	}
	bf.Contribution = qb
}

// applyStage forces A toward the area of target stage zb, leaving the
// cell's momentum to the interior scheme (grounded on the same file's
// area_subcritical default branch, simplified to the non-predictor case).
func applyStage(c *mesh.Cell, bf *inp.BoundaryFlow, zb float64) {
	ab := c.Section.AreaAt(zb)
	c.IA = (ab - c.A) * c.Dx
	bf.Contribution = c.Q + c.IQ/c.Dx
}

func tmaxDischarge(c *mesh.Cell, qb, g float64) float64 {
	a := math.Max(c.A, c.Amin)
	denom := criticalDischarge(c, a, g)/a + math.Abs(qb)/a
	if denom <= 0 {
		return math.Inf(1)
	}
	return c.Dx / denom
}

func tmaxStage(c *mesh.Cell, zb, g float64) float64 {
	a := c.Section.AreaAt(zb)
	if a <= c.Amin {
		return math.Inf(1)
	}
	denom := criticalDischarge(c, a, g)/a + math.Abs(c.Q)/a
	if denom <= 0 {
		return math.Inf(1)
	}
	return c.Dx / denom
}

// dischargeHandler handles Q and QT: a time-tabulated or constant target
// discharge imposed at a channel end.
type dischargeHandler struct{}

func (dischargeHandler) target(bf *inp.BoundaryFlow, funcs inp.FuncsData, t float64) (float64, error) {
	if bf.Func != "" {
		return evalFunc(funcs, bf.Func, t)
	}
	return bf.Value, nil
}

func (h dischargeHandler) Tmax(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t, g float64, upstream bool) float64 {
	qb, err := h.target(bf, funcs, t)
	if err != nil {
		return math.Inf(1)
	}
	bound := math.Inf(1)
	for _, c := range cellRange(bf, m) {
		if k := tmaxDischarge(c, qb, g); k < bound {
			bound = k
		}
	}
	return bound
}

func (h dischargeHandler) ApplyExplicit(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t, dt, g float64, upstream bool) {
	qb, err := h.target(bf, funcs, t)
	if err != nil {
		return
	}
	for _, c := range cellRange(bf, m) {
		applyDischarge(c, bf, qb, dt, g, upstream)
	}
}

// stageHandler handles H/HT (depth) and Z/ZT (absolute level).
type stageHandler struct{ zone string }

func (h stageHandler) target(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t float64) (float64, error) {
	v := bf.Value
	var err error
	if bf.Func != "" {
		v, err = evalFunc(funcs, bf.Func, t)
		if err != nil {
			return 0, err
		}
	}
	if h.zone == "h" {
		c := &m.Cells[bf.CellPos]
		return c.Zmin + v, nil
	}
	return v, nil
}

func (h stageHandler) Tmax(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t, g float64, upstream bool) float64 {
	zb, err := h.target(bf, m, funcs, t)
	if err != nil {
		return math.Inf(1)
	}
	bound := math.Inf(1)
	for _, c := range cellRange(bf, m) {
		if k := tmaxStage(c, zb, g); k < bound {
			bound = k
		}
	}
	return bound
}

func (h stageHandler) ApplyExplicit(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t, dt, g float64, upstream bool) {
	zb, err := h.target(bf, m, funcs, t)
	if err != nil {
		return
	}
	for _, c := range cellRange(bf, m) {
		applyStage(c, bf, zb)
	}
}

// mixedHandler handles Q_H/QT_HT (discharge + depth) and Q_Z/QT_ZT
// (discharge + level): both the flow and the stage are prescribed.
type mixedHandler struct{ zone string }

func (h mixedHandler) targets(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t float64) (qb, zb float64, err error) {
	qb = bf.Value
	if bf.Func != "" {
		if qb, err = evalFunc(funcs, bf.Func, t); err != nil {
			return
		}
	}
	v := bf.Value2
	if bf.Func2 != "" {
		if v, err = evalFunc(funcs, bf.Func2, t); err != nil {
			return
		}
	}
	zb = v
	if h.zone == "h" {
		zb = m.Cells[bf.CellPos].Zmin + v
	}
	return
}

func (h mixedHandler) Tmax(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t, g float64, upstream bool) float64 {
	qb, _, err := h.targets(bf, m, funcs, t)
	if err != nil {
		return math.Inf(1)
	}
	bound := math.Inf(1)
	for _, c := range cellRange(bf, m) {
		if k := tmaxDischarge(c, qb, g); k < bound {
			bound = k
		}
	}
	return bound
}

func (h mixedHandler) ApplyExplicit(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t, dt, g float64, upstream bool) {
	qb, zb, err := h.targets(bf, m, funcs, t)
	if err != nil {
		return
	}
	for _, c := range cellRange(bf, m) {
		ab := c.Section.AreaAt(zb)
		c.IA = (ab - c.A) * c.Dx
		c.IQ = (qb - c.Q) * c.Dx
		bf.Contribution = qb
	}
}

// freeHandler (Supercritical) imposes nothing: the interior scheme alone
// determines the boundary cell's state, matching a supercritical outlet
// where no downstream condition can propagate upstream.
type freeHandler struct{}

func (freeHandler) Tmax(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t, g float64, upstream bool) float64 {
	return math.Inf(1)
}

func (freeHandler) ApplyExplicit(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t, dt, g float64, upstream bool) {
}
