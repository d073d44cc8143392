// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package xsec implements the cross-section builder (spec §4.A): turning
// an irregular polygonal TransientSection into the piecewise-quadratic
// Section tables area(z), wetted-perimeter(z), top-width(z) and the
// composite friction/momentum coefficients integrated across compound
// sections with mixed roughness laws.
//
// Grounded on mreten.BrooksCorey's analytic-closed-form style and on
// _examples/original_source/1.3.5/section.h for the hmin/zmin clamp and
// the dry-cell wave-velocity fallback (see Section.WaveVelocity).
package xsec

import "math"

// SectionParameters is one row of the Section.SP geometry table (spec §3
// "Section (built)"). A is the accumulated wetted area up to Z, I is the
// accumulated first moment of area about the channel invert (zmin); the
// moment about the current free surface zs is recovered on demand as
// (zs-zmin)*A - I (see Section.MomentAboutSurface).
type SectionParameters struct {
	Z       float64 // elevation of this breakpoint
	B, DBz  float64 // top width and its piecewise-constant slope
	P, DPz  float64 // wetted perimeter and its piecewise-constant slope
	A       float64 // accumulated wetted area up to Z
	I       float64 // accumulated first moment of area about zmin up to Z
}

// FrictionParameters is one row of the Section.FP table, sampled on the
// regular z-grid of spacing Dz.
type FrictionParameters struct {
	R      float64 // effective roughness integral (friction conveyance term)
	Beta   float64 // Boussinesq momentum-distribution coefficient
	DBetaA float64 // d(beta)/dA, by finite difference on the z-grid
}

// Section is the product of the cross-section builder.
type Section struct {
	SP []SectionParameters
	FP []FrictionParameters

	Dz                  float64
	Zmin, Zmax          float64
	Zleft, Zright       float64
	Hmin, Hmax          float64
	Amax                float64
	U                   float64 // expansion/contraction loss coefficient, carried from TransientSection.Contraction
	PressurisedAnywhere bool
}

// MomentAboutSurface returns the first moment of the wetted area about the
// current free surface level zs, given the accumulated area A at that
// level and the table row j such that SP[j].Z <= zs < SP[j+1].Z (or the
// last row if zs is at/above Zmax).
func (s *Section) MomentAboutSurface(j int, zs, A float64) float64 {
	return (zs-s.Zmin)*A - s.momentAboutInvert(j, zs)
}

// momentAboutInvert extends the accumulated moment-about-invert table to
// an arbitrary zs inside row j using the exact trapezoid-with-linear-B
// formula (see builder.go's clampWidths for the band-construction
// counterpart).
func (s *Section) momentAboutInvert(j int, zs float64) float64 {
	sp := &s.SP[j]
	h0 := sp.Z - s.Zmin
	h1 := zs - s.Zmin
	b0 := sp.B
	b1 := sp.B + (zs-sp.Z)*sp.DBz
	dz := zs - sp.Z
	if dz <= 0 {
		return sp.I
	}
	return sp.I + dz/6*(h0*(2*b0+b1)+h1*(b0+2*b1))
}

// RowAt returns the index j of the SP row such that SP[j].Z <= z,
// clamped to [0,len(SP)-1].
func (s *Section) RowAt(z float64) int {
	if z <= s.SP[0].Z {
		return 0
	}
	lo, hi := 0, len(s.SP)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.SP[mid].Z <= z {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// AreaAt returns the wetted area at elevation z (z may exceed Zmax: the
// section is then considered pressurised and area is extrapolated at the
// top row's slope).
func (s *Section) AreaAt(z float64) float64 {
	j := s.RowAt(z)
	sp := &s.SP[j]
	dz := z - sp.Z
	if j == len(s.SP)-1 {
		return sp.A + dz*sp.B
	}
	b1 := sp.B + dz*sp.DBz
	return sp.A + 0.5*(sp.B+b1)*dz
}

// WidthAt returns the top width at elevation z.
func (s *Section) WidthAt(z float64) float64 {
	j := s.RowAt(z)
	sp := &s.SP[j]
	if j == len(s.SP)-1 {
		return sp.B
	}
	return sp.B + (z-sp.Z)*sp.DBz
}

// PerimeterAt returns the wetted perimeter at elevation z.
func (s *Section) PerimeterAt(z float64) float64 {
	j := s.RowAt(z)
	sp := &s.SP[j]
	if j == len(s.SP)-1 {
		return sp.P
	}
	return sp.P + (z-sp.Z)*sp.DPz
}

// LevelAt inverts AreaAt: returns z such that AreaAt(z) == A, by locating
// the row via binary search on SP[].A then solving the local quadratic
// (trapezoidal band) or, above Zmax, the linear pressurised extension.
func (s *Section) LevelAt(A float64) float64 {
	n := len(s.SP)
	if A >= s.SP[n-1].A {
		sp := &s.SP[n-1]
		if sp.B <= 0 {
			return sp.Z
		}
		return sp.Z + (A-sp.A)/sp.B
	}
	lo, hi := 0, n-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.SP[mid].A <= A {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	j := lo
	sp := &s.SP[j]
	dA := A - sp.A
	if sp.DBz == 0 || dA == 0 {
		if sp.B <= 0 {
			return sp.Z
		}
		return sp.Z + dA/sp.B
	}
	// solve 0.5*dBz*dz^2 + B*dz - dA = 0 for the positive root
	a := 0.5 * sp.DBz
	b := sp.B
	c := -dA
	disc := b*b - 4*a*c
	if disc < 0 {
		disc = 0
	}
	var dz float64
	if a == 0 {
		dz = -c / b
	} else {
		sq := sqrt(disc)
		dz1 := (-b + sq) / (2 * a)
		dz2 := (-b - sq) / (2 * a)
		dz = dz1
		if dz2 >= 0 && (dz1 < 0 || dz2 < dz1) {
			dz = dz2
		}
	}
	return sp.Z + dz
}

func sqrt(x float64) float64 {
	if x < 0 {
		return 0
	}
	return math.Sqrt(x)
}
