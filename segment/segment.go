// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package segment implements the channel-segment builder (spec §4.B):
// given two endpoint xsec.Sections (possibly with different vertical
// discretisations) it synthesises an interpolated Section at any
// intermediate axial position, by matching normalised height above each
// endpoint's own bottom rather than matching absolute elevation.
//
// Grounded on the xsec builder's table layout (SP/FP share the same row
// shape) and on _examples/original_source/1.3.1's channel-segment merge
// logic referenced by SPEC_FULL.md §6.
package segment

import (
	"math"

	"github.com/jburguete/chnet1d/xsec"
)

// Interpolate returns a Section at axial position x between two endpoint
// sections located at x1 < x < x2, by linear interpolation in
// k = (x-x1)/(x2-x1) of every row of SP and FP, after re-sampling both
// endpoints' tables onto a common normalised-height grid.
func Interpolate(s1, s2 *xsec.Section, x1, x2, x float64) *xsec.Section {
	if x2 == x1 {
		return s1
	}
	k := (x - x1) / (x2 - x1)
	if k <= 0 {
		return s1
	}
	if k >= 1 {
		return s2
	}

	n := len(s1.SP)
	if len(s2.SP) > n {
		n = len(s2.SP)
	}
	sp := make([]xsec.SectionParameters, n)
	for i := 0; i < n; i++ {
		r1 := sampleAtNormalisedHeight(s1, i, n)
		r2 := sampleAtNormalisedHeight(s2, i, n)
		sp[i] = lerpSP(r1, r2, k)
	}

	nf := len(s1.FP)
	if len(s2.FP) > nf {
		nf = len(s2.FP)
	}
	fp := make([]xsec.FrictionParameters, nf)
	dz1, dz2 := s1.Dz, s2.Dz
	dzFine := math.Min(dz1, dz2)
	for i := 0; i < nf; i++ {
		f1 := upsampleFP(s1, i, dzFine, dz1)
		f2 := upsampleFP(s2, i, dzFine, dz2)
		fp[i] = lerpFP(f1, f2, k)
	}

	return &xsec.Section{
		SP:     sp,
		FP:     fp,
		Dz:     dzFine,
		Zmin:   lerpFinite(s1.Zmin, s2.Zmin, k),
		Zmax:   lerpFinite(s1.Zmax, s2.Zmax, k),
		Zleft:  lerpFinite(s1.Zleft, s2.Zleft, k),
		Zright: lerpFinite(s1.Zright, s2.Zright, k),
		Hmin:   lerpFinite(s1.Hmin, s2.Hmin, k),
		Hmax:   lerpFinite(s1.Hmax, s2.Hmax, k),
		Amax:   lerpFinite(s1.Amax, s2.Amax, k),
		U:      lerpFinite(s1.U, s2.U, k),
	}
}

// sampleAtNormalisedHeight picks the SP row of s whose fractional position
// along its own table (i.e. height above its own bottom, normalised by its
// own depth range) matches i/(n-1), the shared normalised-height grid used for
// the merge.
func sampleAtNormalisedHeight(s *xsec.Section, i, n int) xsec.SectionParameters {
	frac := float64(i) / float64(n-1)
	j := int(math.Round(frac * float64(len(s.SP)-1)))
	if j < 0 {
		j = 0
	}
	if j >= len(s.SP) {
		j = len(s.SP) - 1
	}
	return s.SP[j]
}

// upsampleFP picks fp2[round(i*dz1/dz2)] for row i of the finer grid, per
// spec §4.B's upsampling rule for mismatched dz.
func upsampleFP(s *xsec.Section, i int, dzFine, dzCoarse float64) xsec.FrictionParameters {
	j := i
	if dzCoarse > 0 {
		j = int(math.Round(float64(i) * dzFine / dzCoarse))
	}
	if j < 0 {
		j = 0
	}
	if j >= len(s.FP) {
		j = len(s.FP) - 1
	}
	return s.FP[j]
}

func lerpSP(a, b xsec.SectionParameters, k float64) xsec.SectionParameters {
	return xsec.SectionParameters{
		Z:   lerpFinite(a.Z, b.Z, k),
		B:   lerpFinite(a.B, b.B, k),
		DBz: lerpFinite(a.DBz, b.DBz, k),
		P:   lerpFinite(a.P, b.P, k),
		DPz: lerpFinite(a.DPz, b.DPz, k),
		A:   lerpFinite(a.A, b.A, k),
		I:   lerpFinite(a.I, b.I, k),
	}
}

func lerpFP(a, b xsec.FrictionParameters, k float64) xsec.FrictionParameters {
	return xsec.FrictionParameters{
		R:      lerpR(a.R, b.R, k),
		Beta:   lerpFinite(a.Beta, b.Beta, k),
		DBetaA: lerpFinite(a.DBetaA, b.DBetaA, k),
	}
}

// lerpFinite linearly interpolates two finite scalars.
func lerpFinite(a, b, k float64) float64 {
	return a + k*(b-a)
}

// lerpR interpolates a roughness-like scalar: an infinite value on either
// side propagates as infinite (non-friction region), per spec §4.B.
func lerpR(a, b, k float64) float64 {
	if math.IsInf(a, 1) || math.IsInf(b, 1) {
		return math.Inf(1)
	}
	return lerpFinite(a, b, k)
}
