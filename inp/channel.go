// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import "github.com/cpmech/gosl/chk"

// MeshMode selects how a channel's axis is discretised into cells
// (spec §4.C stage 1).
type MeshMode string

// mesh modes
const (
	MeshUniform        MeshMode = "uniform"         // equal-width bands; no half-cells at channel ends
	MeshSectionAligned MeshMode = "section-aligned" // cross sections lie on cell centres
)

// ChannelGeometry is the ordered sequence of CrossSections along a
// channel's axis, together with cumulative arclength X[i].
type ChannelGeometry struct {
	Sections []*CrossSection `json:"sections"` // ordered by increasing arclength
	X        []float64       `json:"-"`        // cumulative arclength, computed by Validate
}

// Validate computes cumulative arclength and checks monotonicity.
func (g *ChannelGeometry) Validate(channelName string) error {
	if len(g.Sections) < 2 {
		return chk.Err("channel %q: needs at least 2 cross sections", channelName)
	}
	g.X = make([]float64, len(g.Sections))
	for i, cs := range g.Sections {
		if len(cs.Profiles) == 0 {
			return chk.Err("channel %q: cross section %d has no profiles", channelName, i)
		}
		if i > 0 {
			dx := cs.X - g.Sections[i-1].X
			if dx <= 0 {
				return chk.Err("channel %q: cross section %d is not downstream of %d (dx=%v)",
					channelName, i, i-1, dx)
			}
		}
		g.X[i] = cs.X
		for _, p := range cs.Profiles {
			if err := p.Validate(channelName); err != nil {
				return err
			}
		}
	}
	return nil
}

// Channel is one reach of the network: a geometry, a target cell size, a
// mesh mode, initial conditions, and the boundary conditions attached to
// it.
type Channel struct {
	Name    string          `json:"name"`
	Geom    ChannelGeometry `json:"geom"`
	CellDx  float64         `json:"celldx"` // target cell size
	Mesh    MeshMode        `json:"mesh"`
	InitQ   InitialFlow     `json:"initflow"`
	InitT   []InitialTransport `json:"inittransport"` // one per solute, same order as System.Transports

	Boundaries  []*BoundaryFlow      `json:"boundaries"`
	TBoundaries []*BoundaryTransport `json:"tboundaries"`

	// derived, set by the mesh builder
	CellBegin, CellEnd int `json:"-"` // [CellBegin,CellEnd) flat index range
}

// Validate checks structural invariants, including the at-most-one
// Junction boundary per channel end rule (spec §3 BoundaryFlow
// invariants).
func (c *Channel) Validate() error {
	if err := c.Geom.Validate(c.Name); err != nil {
		return err
	}
	if c.CellDx <= 0 {
		return chk.Err("channel %q: celldx must be positive", c.Name)
	}
	if c.Mesh == "" {
		c.Mesh = MeshUniform
	}
	nJuncAtEnd := map[bool]int{false: 0, true: 0} // keyed by "is upstream end"
	last := len(c.Geom.Sections) - 1
	for _, b := range c.Boundaries {
		if err := b.Validate(c.Name); err != nil {
			return err
		}
		if b.IsJunction() {
			atUpstream := b.Pos == 0 && b.Pos2 == 0
			atDownstream := b.Pos == last && b.Pos2 == last
			if !atUpstream && !atDownstream {
				return chk.Err("channel %q: Junction boundary must be at a channel end", c.Name)
			}
			if atUpstream {
				nJuncAtEnd[false]++
			}
			if atDownstream {
				nJuncAtEnd[true]++
			}
		}
	}
	if nJuncAtEnd[false] > 1 || nJuncAtEnd[true] > 1 {
		return chk.Err("channel %q: at most one Junction boundary is allowed at each channel end", c.Name)
	}
	return nil
}
