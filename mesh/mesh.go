// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"math"
	"runtime"

	"github.com/cpmech/gosl/chk"
	"github.com/jburguete/chnet1d/inp"
	"github.com/jburguete/chnet1d/segment"
	"github.com/jburguete/chnet1d/xsec"
)

// Mesh is the flat universe the solver operates on.
type Mesh struct {
	Cells      []Cell
	CellThread []int // nth+1 boundaries: thread k owns [CellThread[k], CellThread[k+1])
	Junctions  []Junction
	System     *inp.System
}

// Build runs the full mesh-construction algorithm of spec §4.C: per
// channel discretisation, flat allocation, boundary index resolution,
// channel-segment interpolation, initial conditions, worker-pool
// partitioning and junction discovery.
//
// Any failure tears down by simply discarding the half-built Mesh value
// (Go's GC reclaims it; there is no manual arena to roll back), matching
// the "no half-initialised mesh escapes" requirement via early return.
func Build(sys *inp.System) (*Mesh, error) {
	m := &Mesh{System: sys}

	builtSections := make(map[*inp.CrossSection]*xsec.Section)
	widthCfg := xsec.SectionWidthConfig{WidthMin: sys.Config.SectionWidthMin}

	for ci, ch := range sys.Channels {
		secs := ch.Geom.Sections
		n := len(secs)
		xs := ch.Geom.X

		for i := 0; i < n; i++ {
			prof := secs[i].ProfileAt(sys.Config.InitialTime)
			sec, err := xsec.Build(prof, widthCfg)
			if err != nil {
				return nil, chk.Err("mesh: channel %q section %q: %v", ch.Name, secs[i].Name, err)
			}
			builtSections[secs[i]] = sec
		}

		bounds, centres := channelDiscretisation(ch, xs)
		ncells := len(centres)
		ch.CellBegin = len(m.Cells)
		for k := 0; k < ncells; k++ {
			xlo, xhi := bounds[k], bounds[k+1]
			xc := centres[k]

			j := locateSegment(xs, xc)
			s1 := builtSections[secs[j]]
			s2 := builtSections[secs[j+1]]
			var sec *xsec.Section
			if xs[j+1] == xs[j] {
				sec = s1
			} else {
				sec = segment.Interpolate(s1, s2, xs[j], xs[j+1], xc)
			}

			cell := Cell{
				Channel: ci,
				Segment: k,
				Section: sec,
				X:       xc,
				Dx:      xhi - xlo,
				Hmin:    sec.Hmin,
				Zmin:    sec.Zmin,
				Amin:    sec.AreaAt(sec.Zmin + sec.Hmin),
			}
			if len(sys.Transports) > 0 {
				cell.C = make([]float64, len(sys.Transports))
				cell.B_ = make([]float64, len(sys.Transports))
			}
			m.Cells = append(m.Cells, cell)
		}
		ch.CellEnd = len(m.Cells)

		for k := ch.CellBegin; k < ch.CellEnd; k++ {
			if k > ch.CellBegin {
				ix := 0.5 * (m.Cells[k-1].Dx + m.Cells[k].Dx)
				m.Cells[k].IxLeft = ix
				m.Cells[k-1].IxRight = ix
			}
		}

		if err := applyInitial(m.Cells[ch.CellBegin:ch.CellEnd], ch); err != nil {
			return nil, err
		}

		for sIdx := range secs {
			secs[sIdx].CellIndex = locateSectionCell(ch, xs[sIdx], m.Cells)
		}
	}

	if err := resolveBoundaries(sys, m); err != nil {
		return nil, err
	}

	m.partition()

	junctions, err := discoverJunctions(sys, m)
	if err != nil {
		return nil, err
	}
	m.Junctions = junctions

	return m, nil
}

// discretisationCount picks the number of cells for a channel from its
// configured target cell size CellDx, at least 1.
func discretisationCount(ch *inp.Channel, xs []float64) int {
	length := xs[len(xs)-1] - xs[0]
	n := int(math.Round(length / ch.CellDx))
	if n < 1 {
		n = 1
	}
	return n
}

// channelDiscretisation returns the cell boundaries and centres for one
// channel, per spec §4.C stage 1's two mesh modes.
//
// Uniform mode keeps the teacher's original behaviour: ncells bands of
// equal width spanning [xs[0], xs[n-1]].
//
// Section-aligned mode (inp.MeshSectionAligned) instead makes every
// CrossSection x-coordinate a cell CENTRE: xs[0] and xs[n-1] are the
// centres of the channel's end half-cells, and any gap between
// consecutive sections wider than CellDx gets extra evenly-spaced
// interior centres so no single cell spans more than roughly CellDx.
// Cell boundaries then fall at the midpoints between consecutive
// centres, with the two end boundaries pinned to xs[0] and xs[n-1]
// themselves — generalising the "half-cells at each end share the end
// CrossSection" convention to every interior section, per stage 3's
// "snap intermediate cell centres to intra-channel CrossSection
// x-coordinates".
func channelDiscretisation(ch *inp.Channel, xs []float64) (bounds, centres []float64) {
	if ch.Mesh != inp.MeshSectionAligned {
		ncells := discretisationCount(ch, xs)
		bounds = make([]float64, ncells+1)
		centres = make([]float64, ncells)
		for k := 0; k <= ncells; k++ {
			bounds[k] = xs[0] + float64(k)*(xs[len(xs)-1]-xs[0])/float64(ncells)
		}
		for k := 0; k < ncells; k++ {
			centres[k] = 0.5 * (bounds[k] + bounds[k+1])
		}
		return bounds, centres
	}

	centres = append(centres, xs[0])
	for j := 0; j+1 < len(xs); j++ {
		gap := xs[j+1] - xs[j]
		if gap <= 0 {
			continue
		}
		nsub := int(math.Round(gap / ch.CellDx))
		if nsub < 1 {
			nsub = 1
		}
		for k := 1; k < nsub; k++ {
			centres = append(centres, xs[j]+float64(k)*gap/float64(nsub))
		}
		centres = append(centres, xs[j+1])
	}

	bounds = make([]float64, len(centres)+1)
	bounds[0] = centres[0]
	for i := 0; i+1 < len(centres); i++ {
		bounds[i+1] = 0.5 * (centres[i] + centres[i+1])
	}
	bounds[len(centres)] = centres[len(centres)-1]
	return bounds, centres
}

// locateSegment returns the index j such that xs[j] <= x <= xs[j+1].
func locateSegment(xs []float64, x float64) int {
	for j := 0; j+1 < len(xs); j++ {
		if x <= xs[j+1] || j+2 == len(xs) {
			return j
		}
	}
	return 0
}

func locateSectionCell(ch *inp.Channel, x float64, cells []Cell) int {
	best := ch.CellBegin
	bestDist := math.Inf(1)
	for k := ch.CellBegin; k < ch.CellEnd; k++ {
		d := math.Abs(cells[k].X - x)
		if d < bestDist {
			bestDist = d
			best = k
		}
	}
	return best
}

func applyInitial(cells []Cell, ch *inp.Channel) error {
	for i := range cells {
		c := &cells[i]
		var h, q float64
		switch ch.InitQ.Kind {
		case inp.InitDry:
			h, q = c.Hmin, 0
		case inp.InitSteady:
			h, q = c.Hmin, 0 // refined later by the driver's steady-state initialiser
		case inp.InitProfile:
			q = interp1(ch.InitQ.X, ch.InitQ.Q, c.X)
			h = interp1(ch.InitQ.X, ch.InitQ.H, c.X)
		default:
			return chk.Err("mesh: channel %q: unknown initial-flow kind %q", ch.Name, ch.InitQ.Kind)
		}
		z := c.Zmin + h
		c.A = c.Section.AreaAt(z)
		c.V = c.A * c.Dx
		c.Q = q
		for s, it := range ch.InitT {
			switch it.Kind {
			case inp.InitDry:
				c.C[s] = 0
			case inp.InitSteady:
				c.C[s] = 0
			case inp.InitProfile:
				c.C[s] = interp1(it.X, it.C, c.X)
			}
		}
	}
	return nil
}

func interp1(xs, ys []float64, x float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	if len(xs) == 1 || x <= xs[0] {
		return ys[0]
	}
	if x >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}
	for i := 0; i+1 < len(xs); i++ {
		if x <= xs[i+1] {
			k := (x - xs[i]) / (xs[i+1] - xs[i])
			return ys[i] + k*(ys[i+1]-ys[i])
		}
	}
	return ys[len(ys)-1]
}

// partition assigns cell ranges to a worker pool of nth = min(cells,
// hardware threads), per spec §4.C stage 7 / §5.
func (m *Mesh) partition() {
	nth := runtime.GOMAXPROCS(0)
	if nth > len(m.Cells) {
		nth = len(m.Cells)
	}
	if nth < 1 {
		nth = 1
	}
	m.CellThread = make([]int, nth+1)
	n := len(m.Cells)
	for k := 0; k <= nth; k++ {
		m.CellThread[k] = k * n / nth
	}
}

func resolveBoundaries(sys *inp.System, m *Mesh) error {
	for _, ch := range sys.Channels {
		xs := ch.Geom.X
		for _, bf := range ch.Boundaries {
			i := ch.CellBegin + clampIndex(bf.Pos, len(xs)-1, ch.CellEnd-ch.CellBegin)
			i2 := i
			if bf.Pos2 != bf.Pos {
				i2 = ch.CellBegin + clampIndex(bf.Pos2, len(xs)-1, ch.CellEnd-ch.CellBegin)
			}
			bf.CellPos, bf.CellPos2 = i, i2
		}
		for _, bt := range ch.TBoundaries {
			i := ch.CellBegin + clampIndex(bt.Pos, len(xs)-1, ch.CellEnd-ch.CellBegin)
			i2 := i
			if bt.Pos2 != bt.Pos {
				i2 = ch.CellBegin + clampIndex(bt.Pos2, len(xs)-1, ch.CellEnd-ch.CellBegin)
			}
			bt.CellPos, bt.CellPos2 = i, i2
			if bt.Solute < 0 || bt.Solute >= len(sys.Transports) {
				return chk.Err("mesh: channel %q: boundary transport solute index %d out of range", ch.Name, bt.Solute)
			}
		}
	}
	return nil
}

func clampIndex(pos, maxSectionIdx, ncells int) int {
	if maxSectionIdx <= 0 {
		return 0
	}
	i := pos * ncells / maxSectionIdx
	if i >= ncells {
		i = ncells - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
