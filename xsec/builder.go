// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xsec

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"
	"github.com/jburguete/chnet1d/friction"
	"github.com/jburguete/chnet1d/inp"
)

// wall is one edge of the transversal polygon, pre-sorted so z1 <= z2.
type wall struct {
	y1, y2 float64
	z1, z2 float64 // z1 <= z2
	r      float64
	tag    inp.FrictionTag
	length float64 // full slant length of the edge
}

// Build turns a validated TransientSection into a Section: the
// piecewise-quadratic geometry table SP[] sampled at every distinct vertex
// elevation (spec §4.A stages 1-2), and the regular-grid friction table
// FP[] integrated with the friction package's kernels (stage 3), followed
// by beta normalisation (stage 4) and the hmin search (stage 5).
//
// Grounded on the single-open-polyline / segment-classification technique
// of _examples/original_source/0.1.4/parameters.h's parameters_node: the
// terrain is treated as a (possibly non-monotone) single-valued function
// of the transversal coordinate y, so compound or multi-channel sections
// arise naturally from local humps without needing polygon-with-islands
// topology.
func Build(ts *inp.TransientSection, cfg SectionWidthConfig) (*Section, error) {
	pts := ts.Points
	walls := make([]wall, 0, len(pts)-1)
	for i := 0; i+1 < len(pts); i++ {
		p0, p1 := pts[i], pts[i+1]
		w := wall{y1: p0.Y, y2: p1.Y, z1: p0.Z, z2: p1.Z, r: p0.R, tag: p0.Type}
		if w.z1 > w.z2 {
			w.y1, w.y2 = w.y2, w.y1
			w.z1, w.z2 = w.z2, w.z1
			w.r = p1.R
			w.tag = p1.Type
		}
		dy := p1.Y - p0.Y
		dz := p1.Z - p0.Z
		w.length = math.Sqrt(dy*dy + dz*dz)
		walls = append(walls, w)
	}

	// breakpoints: all distinct vertex elevations, sorted
	zset := make(map[float64]bool)
	for _, p := range pts {
		zset[p.Z] = true
	}
	zs := make([]float64, 0, len(zset))
	for z := range zset {
		zs = append(zs, z)
	}
	sort.Float64s(zs)
	if len(zs) < 2 {
		return nil, chk.Err("xsec: section has fewer than 2 distinct elevations")
	}

	sp := make([]SectionParameters, len(zs))
	sp[0] = SectionParameters{Z: zs[0]}
	for k := 0; k+1 < len(zs); k++ {
		za, zb := zs[k], zs[k+1]
		b0, db := bandWidthRate(walls, za, zb)
		p0, dp := bandPerimRate(walls, za, zb)
		sp[k].B, sp[k].DBz = b0, db
		sp[k].P, sp[k].DPz = p0, dp
		sp[k+1].Z = zb
	}
	// last row: width/perimeter continue flat (section fully wet above Zmax)
	last := len(sp) - 1
	bTop, _ := bandWidthRate(walls, zs[last], zs[last])
	pTop, _ := bandPerimRate(walls, zs[last], zs[last])
	sp[last].B, sp[last].DBz = bTop, 0
	sp[last].P, sp[last].DPz = pTop, 0

	clampWidths(sp, cfg.WidthMin, ts.Zmin)

	sec := &Section{
		SP:     sp,
		Dz:     ts.Dz,
		Zmin:   ts.Zmin,
		Zmax:   zs[last],
		Zleft:  pts[0].Z,
		Zright: pts[len(pts)-1].Z,
		Hmax:   ts.Hmax,
		Amax:   sp[last].A,
		U:      ts.Contraction,
	}

	if err := sec.buildFrictionTable(walls); err != nil {
		return nil, err
	}
	sec.Hmin = sec.searchHmin()
	if sec.Hmin < sec.Dz {
		sec.Hmin = sec.Dz
	}
	return sec, nil
}

// SectionWidthConfig carries the single global ratio the builder needs from
// System.Config: kappa, the minimum top-width-to-maximum-top-width ratio
// below which a band's top width is clamped up (spec §4.A stage 4
// "B <- max(B, kappa*Bmax)"; System.Config calls it section_width_min, "the
// minimum ratio B/B_max allowed").
type SectionWidthConfig struct {
	WidthMin float64
}

// clampWidths enforces B >= kappa*Bmax on the SP geometry table in place,
// then re-derives each band's slope DBz and its accumulated area/moment
// from the (possibly raised) B values, so the area table stays consistent
// with the widths a caller will actually see through WidthAt.
//
// Grounded on _examples/original_source/1.3.5/section.h's post-friction
// width-clamp sweep ("k1 = sp->B; k2 = width_min*k1; ... if (sp->B>k1)
// k1=sp->B,k2=width_min*k1; else if (sp->B<k2) sp->B=k2;"): kappa tracks
// the running maximum width seen so far and floors every subsequent,
// narrower band at kappa times that running maximum — this is distinct
// from, and unrelated to, the hmin search (searchHmin).
func clampWidths(sp []SectionParameters, kappa, zmin float64) {
	if len(sp) == 0 {
		return
	}
	if kappa > 0 {
		bmax := sp[0].B
		floor := kappa * bmax
		for i := 1; i < len(sp); i++ {
			switch {
			case sp[i].B > bmax:
				bmax = sp[i].B
				floor = kappa * bmax
			case sp[i].B < floor:
				sp[i].B = floor
			}
		}
	}

	last := len(sp) - 1
	for i := 0; i < last; i++ {
		dz := sp[i+1].Z - sp[i].Z
		if dz > 0 {
			sp[i].DBz = (sp[i+1].B - sp[i].B) / dz
		} else {
			sp[i].DBz = 0
		}
	}
	sp[last].DBz = 0

	sp[0].A, sp[0].I = 0, 0
	for i := 0; i < last; i++ {
		za, zb := sp[i].Z, sp[i+1].Z
		dz := zb - za
		b0, b1 := sp[i].B, sp[i].B+sp[i].DBz*dz
		h0, h1 := za-zmin, zb-zmin
		sp[i+1].A = sp[i].A + 0.5*(b0+b1)*dz
		sp[i+1].I = sp[i].I + dz/6*(h0*(2*b0+b1)+h1*(b0+2*b1))
	}
}

// bandWidthRate returns the width B and its constant slope dB/dz valid
// across the band [za,zb], by classifying every wall as fully wet, fully
// dry, or straddling relative to the band.
func bandWidthRate(walls []wall, za, zb float64) (b0, db float64) {
	var bAtA, bAtB float64
	for _, w := range walls {
		bAtA += wetWidth(w, za)
		bAtB += wetWidth(w, zb)
	}
	b0 = bAtA
	if zb > za {
		db = (bAtB - bAtA) / (zb - za)
	}
	return
}

// wetWidth returns the horizontal span of wall w submerged at level z.
func wetWidth(w wall, z float64) float64 {
	dy := math.Abs(w.y2 - w.y1)
	switch {
	case z >= w.z2:
		return dy
	case z <= w.z1:
		return 0
	default:
		if w.z2 == w.z1 {
			return dy
		}
		return dy * (z - w.z1) / (w.z2 - w.z1)
	}
}

// bandPerimRate mirrors bandWidthRate for wetted perimeter (slant length).
func bandPerimRate(walls []wall, za, zb float64) (p0, dp float64) {
	var pAtA, pAtB float64
	for _, w := range walls {
		pAtA += wetPerim(w, za)
		pAtB += wetPerim(w, zb)
	}
	p0 = pAtA
	if zb > za {
		dp = (pAtB - pAtA) / (zb - za)
	}
	return
}

func wetPerim(w wall, z float64) float64 {
	switch {
	case z >= w.z2:
		return w.length
	case z <= w.z1:
		return 0
	default:
		if w.z2 == w.z1 {
			return w.length
		}
		return w.length * (z - w.z1) / (w.z2 - w.z1)
	}
}

// buildFrictionTable samples the regular dz-grid FP[] table, accumulating
// each wall's contribution through its tagged friction.Model (spec §4.A
// stage 3). A wall with r=+Inf (non-friction wall) is skipped entirely, as
// friction.Model.RIntegral/BetaIntegral already return 0 for it; the
// explicit skip here only avoids constructing models needlessly.
func (s *Section) buildFrictionTable(walls []wall) error {
	n := int(math.Ceil((s.Zmax-s.Zmin)/s.Dz)) + 1
	if n < 2 {
		n = 2
	}
	models := map[inp.FrictionTag]friction.Model{}
	get := func(tag inp.FrictionTag) (friction.Model, error) {
		if m, ok := models[tag]; ok {
			return m, nil
		}
		name := "power"
		if tag == inp.FrictionLogarithmic {
			name = "log"
		}
		m, err := friction.New(name)
		if err != nil {
			return nil, err
		}
		if err := m.Init(m.GetPrms(true)); err != nil {
			return nil, err
		}
		models[tag] = m
		return m, nil
	}

	rBetaAt := func(z float64) (r, beta float64, err error) {
		for _, w := range walls {
			if math.IsInf(w.r, 1) || w.r <= 0 {
				continue
			}
			h1 := z - w.z1
			if h1 <= 0 {
				continue
			}
			if h1 > w.z2-w.z1 && w.z2 > w.z1 {
				h1 = w.z2 - w.z1
			}
			mdl, e := get(w.tag)
			if e != nil {
				return 0, 0, e
			}
			r += mdl.RIntegral(w.r, 0, h1)
			beta += mdl.BetaIntegral(w.r, 0, h1)
		}
		return
	}

	s.FP = make([]FrictionParameters, n)
	for i := 0; i < n; i++ {
		z := s.Zmin + float64(i)*s.Dz
		if z > s.Zmax {
			z = s.Zmax
		}
		r, beta, err := rBetaAt(z)
		if err != nil {
			return err
		}
		s.FP[i].R = r
		s.FP[i].Beta = beta
	}

	// dbeta/dA at each z-grid row (spec §4.A stage 4), grounded on
	// msolid/driver.go's num.DerivCen dispatch: beta(z) is differentiated
	// with respect to elevation by central difference, then divided by the
	// top width B = dA/dz to express the derivative with respect to area.
	for i, row := range s.FP {
		z := s.Zmin + float64(i)*s.Dz
		if z > s.Zmax {
			z = s.Zmax
		}
		s.FP[i].DBetaA = num.DerivCen(func(zz float64, args ...interface{}) float64 {
			_, beta, e := rBetaAt(zz)
			if e != nil {
				return row.Beta
			}
			bz := s.WidthAt(zz)
			if bz <= 0 {
				return row.Beta
			}
			return beta
		}, z) / math.Max(s.WidthAt(z), 1e-12)
	}
	return nil
}

// searchHmin locates, by bisection on the FP[] table, the smallest depth
// above Zmin at which the uniform-flow hydraulic radius equals the depth
// itself (spec §4.A stage 5), entirely unrelated to the width clamp of
// stage 4 (clampWidths): hmin marks the shallow-flow threshold where the
// conveyance term FP[].R still tracks depth, not a minimum-width cutoff.
func (s *Section) searchHmin() float64 {
	n := len(s.FP)
	if n == 0 {
		return 0
	}
	rAt := func(h float64) float64 {
		idx := h / s.Dz
		i := int(idx)
		if i >= n-1 {
			return s.FP[n-1].R
		}
		if i < 0 {
			i = 0
		}
		frac := idx - float64(i)
		return s.FP[i].R + frac*(s.FP[i+1].R-s.FP[i].R)
	}
	hi := float64(n-1) * s.Dz

	f := func(h float64) float64 { return rAt(h) - h }

	// f(0) = FP[0].R - 0 >= 0 (R is non-negative); if f never turns
	// negative there is no crossing within the table and hmin falls back
	// to the full table span. Build then floors the result at Dz.
	if f(hi) >= 0 {
		return hi
	}
	lo := 0.0
	for i := 0; i < 60 && hi-lo > 1e-12; i++ {
		mid := 0.5 * (lo + hi)
		if f(mid) >= 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}
