// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"
	"sync"

	"github.com/jburguete/chnet1d/mesh"
)

// Decompose runs stage E (Roe + TVD decomposition) over every interior
// edge of the cell array, accumulating increments into iA/iQ of both
// adjacent cells, per spec §4.E.
//
// Grounded on _examples/original_source/1.3.1/flow_scheme.h's upwind
// split (dQp/dQm/dFp/dFm) and its non-conservative TVD branch, which
// carries a second, separately-limited pair of wave shares (dWAp/dWBp/
// dWAm/dWBm) that are compared against the SAME field on a neighbouring
// edge, never against each other. Decompose therefore runs two passes:
// the parallel pass below computes the base upwind split and each
// edge's own (unlimited) wave shares; a second, sequential pass
// (applyTVD) then limits and applies them against the adjacent edge.
func Decompose(m *mesh.Mesh, sc Scheme, dt float64) {
	var wg sync.WaitGroup
	for t := 0; t+1 < len(m.CellThread); t++ {
		lo, hi := m.CellThread[t], m.CellThread[t+1]
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			decomposeRange(m, lo, hi, sc, dt)
		}(lo, hi)
	}
	wg.Wait()

	// seam fix-up (spec §5): edges straddling a thread boundary were
	// skipped by every worker's half-open range, so Decompose re-visits
	// them sequentially after the join.
	for t := 1; t+1 < len(m.CellThread); t++ {
		b := m.CellThread[t]
		l, r := &m.Cells[b-1], &m.Cells[b]
		if l.Channel == r.Channel {
			edge(l, r, sc, dt)
		}
	}

	if sc.Decomposition != "upwind" {
		applyTVD(m, sc, dt)
	}
}

// decomposeRange handles every edge strictly inside [lo,hi) of the same
// channel; edges at thread boundaries are re-visited sequentially by
// Decompose after the join (spec §5 "seam fix-up").
func decomposeRange(m *mesh.Mesh, lo, hi int, sc Scheme, dt float64) {
	for i := lo; i+1 < hi; i++ {
		l, r := &m.Cells[i], &m.Cells[i+1]
		if l.Channel != r.Channel {
			continue
		}
		edge(l, r, sc, dt)
	}
}

// edge implements spec §4.E steps 1-3, 5 and 6 for one interior edge
// between cells L and R; the TVD correction of step 4 is applied
// separately by applyTVD. An edge whose two cells are both at or below
// Amin contributes no increment.
func edge(l, r *mesh.Cell, sc Scheme, dt float64) {
	if l.A <= l.Amin && r.A <= r.Amin {
		return
	}

	LA, LB := roeAverage(l, r, sc.RoeAverage)
	C2 := LA - LB

	dQ := r.Q - l.Q
	dzs := r.Zs - l.Zs
	gm := cellGravityTerm(l, sc.GravityTerm) // cell-level gravity coefficient, averaged per spec §4.D
	gm = 0.5 * (gm + cellGravityTerm(r, sc.GravityTerm))
	dF := 0.5*gm*(l.A+r.A)*dzs + 0.5*ix(l, r)*(l.Ff+r.Ff)

	var dQp, dQm, dFp, dFm float64
	switch {
	case LB >= 0:
		dQp, dFp = dQ, dF
	case LA <= 0:
		dQm, dFm = dQ, dF
	default:
		dQp = (dF - LB*dQ) / C2
		dFp = LA * dQp
		dQm = dQ - dQp
		dFm = dF - dFp
	}

	dQp, dQm = entropyFix(l.La, r.La, l.Lb, r.Lb, LA, LB, dQ, dQp, dQm)

	// every split term above is a spatial flux; the driver's dt is folded
	// in once, here, at the point the increment actually advances state
	// (grounded on flow_wave_decomposition_upwind's "p->iA -= dt*p->dQm").
	l.IA -= dt * dQp
	l.IQ -= dt * dFp
	r.IA += dt * dQp
	r.IQ += dt * dFp
	l.IA -= dt * dQm
	l.IQ -= dt * dFm
	r.IA += dt * dQm
	r.IQ += dt * dFm

	if sc.Decomposition != "upwind" {
		l.DWAp, l.DWBp, l.DWAm, l.DWBm = waveShares(LA, LB, C2, dF, dQ)
	}
}

func ix(l, r *mesh.Cell) float64 {
	return 0.5 * (l.Dx + r.Dx)
}

// cellGravityTerm returns the per-cell gravity coefficient for the
// configured variant (spec §4.D "gravity gm ... hydrostatic, strong-
// slope, or high-order pressure variants selectable"). The strong-slope
// variant scales the hydrostatic term by 1 + |U|/2, U being the section's
// expansion/contraction loss coefficient; high-order folds in the
// section's own momentum distribution beta as a first correction.
func cellGravityTerm(c *mesh.Cell, mode string) float64 {
	switch mode {
	case "strong-slope":
		return Gravity * (1 + 0.5*math.Abs(c.Section.U))
	case "high-order":
		return Gravity * c.Beta
	default: // hydrostatic
		return Gravity
	}
}

// roeAverage returns the Roe-averaged (or arithmetic-averaged) pair of
// Riemann eigenvalues for the edge, per spec §4.E step 1.
func roeAverage(l, r *mesh.Cell, mode string) (LA, LB float64) {
	if mode == "arithmetic" {
		return 0.5 * (l.La + r.La), 0.5 * (l.Lb + r.Lb)
	}
	sl, sr := math.Sqrt(math.Max(l.A, 0)), math.Sqrt(math.Max(r.A, 0))
	den := sl + sr
	if den <= 0 {
		return 0.5 * (l.La + r.La), 0.5 * (l.Lb + r.Lb)
	}
	LA = (sl*l.La + sr*r.La) / den
	LB = (sl*l.Lb + sr*r.Lb) / den
	return
}

// entropyFix applies a Harten-style diffusion correction independently to
// each characteristic family whenever its eigenvalue changes sign across
// the edge, per the original's per-family treatment (SPEC_FULL.md §6).
func entropyFix(laL, laR, lbL, lbR, LA, LB, dQ, dQp, dQm float64) (float64, float64) {
	if laL < 0 && laR > 0 {
		k := math.Max(laR-LA, LA-laL)
		if k < 0 {
			k = 0
		}
		dQp += 0.5 * k * dQ / math.Max(LA-LB, 1e-12)
	}
	if lbL < 0 && lbR > 0 {
		k := math.Max(lbR-LB, LB-lbL)
		if k < 0 {
			k = 0
		}
		dQm -= 0.5 * k * dQ / math.Max(LA-LB, 1e-12)
	}
	return dQp, dQm
}

// waveShares decomposes the edge's raw jump into its two per-family wave
// amplitudes (dWA for the LA-family, dWB for the LB-family: dWA+dWB=dQ,
// LA*dWA+LB*dWB=dF) and files each into the p (rightward) or m (leftward)
// slot of whichever family currently carries it, mirroring
// _flow_wave_upwind's branch-dependent assignment. These are each edge's
// OWN, still-unlimited shares; applyTVD limits them against a neighbour's
// own share before they are ever added to IA/IQ.
func waveShares(LA, LB, C2, dF, dQ float64) (dWAp, dWBp, dWAm, dWBm float64) {
	dWA := (dF - LB*dQ) / C2
	dWB := (LA*dQ - dF) / C2
	switch {
	case LB >= 0: // both families advect rightward
		dWAp, dWBp = dWA, dWB
	case LA <= 0: // both families advect leftward
		dWAm, dWBm = dWA, dWB
	default: // A-family rightward, B-family leftward
		dWAp = dWA
		dWBm = dWB
	}
	return
}

// applyTVD runs the second-order TVD correction (spec §4.E step 4) over
// every interior edge, sequentially, after the base upwind split has
// populated every cell's own DWAp/DWBp/DWAm/DWBm (spec §4.E step 3).
//
// Each wave share is limited against the SAME field on the adjacent
// edge, never against the other half of its own edge, per
// _examples/original_source/1.3.1/flow_scheme.h's non-conservative TVD
// branch of _flow_wave_decomposition: the p-terms (this edge's
// rightward-moving waves) compare against the NEXT edge's own share,
// already available on r because r is also the left cell of that next
// edge; the m-terms compare against the PREVIOUS edge's own share,
// carried on cells[i-1] for the same reason. The correction is scaled by
// a flat half-step dt2=0.5*dt (_examples/original_source/0.3.1/
// simulate.c's "dt2 = 0.5 * dt;"), not a dt/dx ratio.
func applyTVD(m *mesh.Mesh, sc Scheme, dt float64) {
	dt2 := 0.5 * dt
	cells := m.Cells
	for i := 0; i+1 < len(cells); i++ {
		l, r := &cells[i], &cells[i+1]
		if l.Channel != r.Channel {
			continue
		}
		if l.A <= l.Amin && r.A <= r.Amin {
			continue
		}

		LA, LB := roeAverage(l, r, sc.RoeAverage)

		var nextAp, nextBp float64
		if i+2 < len(cells) && cells[i+2].Channel == r.Channel {
			nextAp, nextBp = r.DWAp, r.DWBp
		}
		var prevAm, prevBm float64
		if i-1 >= 0 && cells[i-1].Channel == l.Channel {
			prevAm, prevBm = cells[i-1].DWAm, cells[i-1].DWBm
		}

		limAp := limiter(sc.Limiter, nextAp, l.DWAp)
		limBp := limiter(sc.Limiter, nextBp, l.DWBp)
		limAm := limiter(sc.Limiter, prevAm, l.DWAm)
		limBm := limiter(sc.Limiter, prevBm, l.DWBm)

		kAp := dt2 * limAp * l.DWAp
		kBp := dt2 * limBp * l.DWBp
		kAm := dt2 * limAm * l.DWAm
		kBm := dt2 * limBm * l.DWBm

		l.IA -= kAp + kBp + kAm + kBm
		r.IA += kAp + kBp + kAm + kBm
		l.IQ -= LA*kAp + LB*kBp + LA*kAm + LB*kBm
		r.IQ += LA*kAp + LB*kBp + LA*kAm + LB*kBm
	}
}

// limiter evaluates the configured flux limiter on the ratio of
// consecutive increments (minmod, van Leer, or superbee).
func limiter(name string, a, b float64) float64 {
	if b == 0 {
		return 0
	}
	ratio := a / b
	switch name {
	case "vanleer":
		if ratio <= 0 {
			return 0
		}
		return 2 * ratio / (1 + ratio)
	case "superbee":
		return math.Max(0, math.Max(math.Min(2*ratio, 1), math.Min(ratio, 2)))
	default: // minmod
		if ratio <= 0 {
			return 0
		}
		return math.Min(ratio, 1)
	}
}
