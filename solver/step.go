// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"
	"sync"

	"github.com/jburguete/chnet1d/mesh"
)

// Step runs stage F: applies the accumulated increments to every cell's
// volume, performs the channel-level dry redistribution sweep, solves
// every junction, then applies the friction integrator (stage G).
func Step(m *mesh.Mesh, sc Scheme, dt float64) {
	var wg sync.WaitGroup
	for t := 0; t+1 < len(m.CellThread); t++ {
		lo, hi := m.CellThread[t], m.CellThread[t+1]
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			applyIncrements(m.Cells[lo:hi])
		}(lo, hi)
	}
	wg.Wait()

	for _, ch := range m.System.Channels {
		dryRedistribute(m.Cells[ch.CellBegin:ch.CellEnd])
	}

	for i := range m.Junctions {
		solveJunction(&m.Junctions[i], m, dt)
	}

	Friction(m, sc, dt)
}

// applyIncrements adds the accumulated iA (already a volume, per
// decomposition.go's dt*dQ folding) to V, and iQ/dx to Q, then
// recomputes A (spec §4.F step 1). Grounded on _part_simulate_step's
// "pv->V += pv->iA;" and _part_simulate_step2's "pv->Q += pv->iQ/pv->dx;"
// — V and Q are accumulated with different dx conventions in the
// original and that asymmetry is preserved here.
func applyIncrements(cells []mesh.Cell) {
	for i := range cells {
		c := &cells[i]
		c.V += c.IA
		if c.Dx > 0 {
			c.Q += c.IQ / c.Dx
		}
		c.PrevIA, c.PrevIQ = c.IA, c.IQ
		c.IA, c.IQ = 0, 0
		c.Dry = c.V < 0
		if c.Dx > 0 {
			c.A = c.V / c.Dx
		}
	}
}

// dryRedistribute scans a single channel's cells left to right, donating
// volume from the wetter neighbour whenever a negative volume is found
// (spec §4.F step 2). It never crosses a junction because it only
// operates within one channel's [CellBegin,CellEnd) range.
func dryRedistribute(cells []mesh.Cell) {
	for i := range cells {
		c := &cells[i]
		if c.V >= 0 {
			continue
		}
		deficit := -c.V
		c.V = 0
		// donate from the wetter of the two neighbours
		for deficit > 1e-15 {
			li, ri := i-1, i+1
			var donor *mesh.Cell
			if li >= 0 && ri < len(cells) {
				if cells[li].V >= cells[ri].V {
					donor = &cells[li]
				} else {
					donor = &cells[ri]
				}
			} else if li >= 0 {
				donor = &cells[li]
			} else if ri < len(cells) {
				donor = &cells[ri]
			} else {
				break
			}
			take := math.Min(deficit, math.Max(donor.V, 0))
			donor.V -= take
			deficit -= take
			if take <= 0 {
				break
			}
		}
	}
}

// solveJunction implements spec §4.F step 3: total node volume is the sum
// of participating cell volumes plus the net inflow over dt, clipped at
// zero; the resulting level is looked up from the precomputed volume
// table and redistributed to every participating cell.
func solveJunction(j *mesh.Junction, m *mesh.Mesh, dt float64) {
	var total float64
	for _, idx := range j.Inlets {
		total += m.Cells[idx].V
		total += dt * m.Cells[idx].Q
	}
	for _, idx := range j.Outlets {
		total += m.Cells[idx].V
		total -= dt * m.Cells[idx].Q
	}
	if total < 0 {
		total = 0
	}

	z := j.LevelAt(total)
	nodeA := j.AreaAt(z)
	if nodeA <= 0 {
		return
	}

	nt := len(m.System.Transports)
	allIdx := append(append([]int{}, j.Inlets...), j.Outlets...)

	massTotal := make([]float64, nt)
	for _, idx := range allIdx {
		c := &m.Cells[idx]
		for s := 0; s < nt; s++ {
			massTotal[s] += c.C[s] * c.V
		}
	}

	for _, idx := range allIdx {
		c := &m.Cells[idx]
		a := c.Section.AreaAt(z)
		c.A = a
		c.V = a * c.Dx
		if total > 0 {
			// m = V*c (spec §4.H): mass is mixed over the node's total
			// VOLUME, not its cross-sectional area at the solved level.
			for s := 0; s < nt; s++ {
				c.C[s] = massTotal[s] / total
			}
		}
	}
}
