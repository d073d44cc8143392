// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/jburguete/chnet1d/inp"
	"github.com/jburguete/chnet1d/network"
)

// VolumeRow is one breakpoint of a Junction's volume-vs-level table.
type VolumeRow struct {
	Z, V, A, DAdz float64
}

// Junction couples the channel-ends meeting at one node (spec §3
// "Junction").
type Junction struct {
	Inlets  []int // cell indices flowing in
	Outlets []int // cell indices flowing out
	Angle   []float64
	Volume  []VolumeRow
	Mass    []float64 // scratch, length nt+1
	Ends    []network.End
}

// LevelAt inverts the monotone Volume table to recover free-surface z for
// a given total node volume V (spec §4.F stage 3): a binary search for the
// bracketing rows, then linear interpolation in V between them; no
// quadratic inversion is applied.
func (j *Junction) LevelAt(V float64) float64 {
	rows := j.Volume
	n := len(rows)
	if n == 0 {
		return 0
	}
	if V <= rows[0].V {
		return rows[0].Z
	}
	if V >= rows[n-1].V {
		return rows[n-1].Z
	}
	lo, hi := 0, n-1
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if rows[mid].V <= V {
			lo = mid
		} else {
			hi = mid
		}
	}
	r0, r1 := rows[lo], rows[hi]
	if r1.V == r0.V {
		return r0.Z
	}
	k := (V - r0.V) / (r1.V - r0.V)
	return r0.Z + k*(r1.Z-r0.Z)
}

// AreaAt returns the interpolated cross-sectional node area at level z,
// used to convert the node's recovered level back into each participating
// cell's area.
func (j *Junction) AreaAt(z float64) float64 {
	rows := j.Volume
	n := len(rows)
	if n == 0 {
		return 0
	}
	if z <= rows[0].Z {
		return rows[0].A
	}
	if z >= rows[n-1].Z {
		return rows[n-1].A
	}
	lo, hi := 0, n-1
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if rows[mid].Z <= z {
			lo = mid
		} else {
			hi = mid
		}
	}
	r0, r1 := rows[lo], rows[hi]
	if r1.Z == r0.Z {
		return r0.A
	}
	k := (z - r0.Z) / (r1.Z - r0.Z)
	return r0.A + k*(r1.A-r0.A)
}

// discoverJunctions builds the network topology graph from every
// Junction-type BoundaryFlow, merges duplicate end-to-end references, and
// computes each resulting Junction's volume table by a coordinated merge
// of the discretisation levels of every participating section (spec §4.C
// stage 8).
func discoverJunctions(sys *inp.System, m *Mesh) ([]Junction, error) {
	names := make([]string, len(sys.Channels))
	byName := map[string]*inp.Channel{}
	for i, ch := range sys.Channels {
		names[i] = ch.Name
		byName[ch.Name] = ch
	}
	topo, err := network.New(names)
	if err != nil {
		return nil, err
	}

	type ref struct {
		ch        *inp.Channel
		bf        *inp.BoundaryFlow
		upstream  bool
		tributary bool
	}
	var refs []ref
	for _, ch := range sys.Channels {
		for _, bf := range ch.Boundaries {
			if !bf.IsJunction() {
				continue
			}
			target := byName[bf.Junction.Channel]
			if target == nil {
				return nil, chk.Err("mesh: channel %q junction references unknown channel %q", ch.Name, bf.Junction.Channel)
			}
			upstream := bf.Pos == 0
			tributary := bf.Junction.Tributary
			if err := topo.Link(
				network.End{Channel: ch.Name, Upstream: upstream},
				network.End{Channel: bf.Junction.Channel, Upstream: bf.Junction.AtChanEnd},
				tributary,
			); err != nil {
				return nil, err
			}
			refs = append(refs, ref{ch: ch, bf: bf, upstream: upstream, tributary: tributary})
		}
	}

	clusters, err := topo.Junctions()
	if err != nil {
		return nil, err
	}

	junctions := make([]Junction, 0, len(clusters))
	for _, ends := range clusters {
		j := Junction{Ends: ends}
		var sections []*xsecSectionAt
		for _, e := range ends {
			ch := byName[e.Channel]
			cellIdx := ch.CellBegin
			if !e.Upstream {
				cellIdx = ch.CellEnd - 1
			}
			cell := &m.Cells[cellIdx]
			if e.Upstream {
				j.Outlets = append(j.Outlets, cellIdx)
			} else {
				j.Inlets = append(j.Inlets, cellIdx)
			}
			sections = append(sections, &xsecSectionAt{zmin: cell.Zmin, cell: cell})
		}
		j.Volume = buildVolumeTable(sections)
		nt := len(sys.Transports)
		j.Mass = make([]float64, nt+1)
		junctions = append(junctions, j)
	}
	return junctions, nil
}

type xsecSectionAt struct {
	zmin float64
	cell *Cell
}

// buildVolumeTable merges the SP[] z-grids of every participating
// section, advancing the pointer with the smallest current z at each
// step, and accumulates total node volume V = sum(A_k(z)*dx_k) (spec §4.C
// stage 8's "coordinated sweep").
func buildVolumeTable(sections []*xsecSectionAt) []VolumeRow {
	zset := map[float64]bool{}
	for _, s := range sections {
		for _, row := range s.cell.Section.SP {
			zset[row.Z] = true
		}
	}
	zs := make([]float64, 0, len(zset))
	for z := range zset {
		zs = append(zs, z)
	}
	sort.Float64s(zs)

	rows := make([]VolumeRow, len(zs))
	for i, z := range zs {
		var v, a float64
		for _, s := range sections {
			ai := s.cell.Section.AreaAt(z)
			a += ai
			v += ai * s.cell.Dx
		}
		rows[i] = VolumeRow{Z: z, V: v, A: a}
	}
	for i := 1; i < len(rows); i++ {
		dz := rows[i].Z - rows[i-1].Z
		if dz > 0 {
			rows[i-1].DAdz = (rows[i].A - rows[i-1].A) / dz
		}
	}
	if len(rows) > 1 {
		rows[len(rows)-1].DAdz = rows[len(rows)-2].DAdz
	}
	return rows
}
