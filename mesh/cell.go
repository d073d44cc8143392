// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mesh implements the mesh builder (spec §4.C): partitioning a
// network of channels into one flat array of Cells, discovering and
// linking junctions, and splitting the array across a worker pool.
//
// Grounded on the teacher's fem.Domain construction phase
// (_examples/BookmarkSciencePrrojects-gofem/fem/domain.go): a single
// pass that allocates a flat element/node array from a mesh description,
// then a second pass that wires boundary conditions onto it by index.
package mesh

import "github.com/jburguete/chnet1d/xsec"

// Cell is the full per-cell runtime state consumed by the solver (spec
// §3 "Parameters (per mesh cell)").
type Cell struct {
	// back-references
	Channel int // owning channel index
	Segment int // segment index within the channel
	Section *xsec.Section

	// geometry
	X       float64 // cell-centre axial position
	Dx      float64 // cell length
	IxLeft  float64 // distance to the left neighbour's centre (0 at a channel end)
	IxRight float64 // distance to the right neighbour's centre (0 at a channel end)

	// conserved
	V float64 // volume = A*dx
	A float64 // wetted area, derived from V

	// flow conserved/derived
	Q      float64
	H      float64 // depth
	Zs     float64 // stage
	B      float64 // top width
	P      float64 // wetted perimeter
	R      float64 // hydraulic radius
	K      float64 // pressurised friction integral
	F      float64 // momentum flux beta*u*Q
	Ff     float64 // friction term K*|Q|*Q
	Nu     float64 // diffusivity
	Beta   float64
	DBetaA float64
	La, Lb float64 // Riemann eigenvalues
	Lmax   float64
	Dt     float64

	// wet/dry minima
	Hmin float64
	Zmin float64
	Amin float64

	// per-step accumulators
	IA, IQ         float64
	DWAp, DWBp     float64 // this edge's own pre-limiter TVD wave shares (spec §4.E step 4)
	DWAm, DWBm     float64
	DCp, DCm       float64 // this edge's own pre-limiter transport TVD shares (spec §4.H step 2)
	PrevIA, PrevIQ float64

	// transport: one concentration and one bound-reservoir value per solute
	C []float64
	B_ []float64

	Dry bool
}

// WaveVelocity returns this cell's current gravity-wave celerity, using
// the section's dry-cell fallback (spec §9 Open Question 2).
func (c *Cell) WaveVelocity(g float64) float64 {
	return c.Section.WaveVelocity(g, c.A, c.Amin)
}
