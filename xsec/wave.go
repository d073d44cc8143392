// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xsec

import "math"

// WaveVelocity returns the gravity-wave celerity sqrt(g*A/B) used by the
// CFL time-step estimate, falling back to sqrt(g*hmin) when the cell is
// drier than Amin (spec §9 Open Question 2).
//
// Grounded on _examples/original_source/0.1.4/parameters.h's
// _parameters_wave_velocity: the source switches to p->hmin rather than
// p->A/p->B whenever A is below the dry-cell threshold Amin, to avoid the
// 0/0 indeterminacy of a vanishing top width. That behaviour is preserved
// here rather than substituting a different regularisation.
func (s *Section) WaveVelocity(g, A, Amin float64) float64 {
	if A < Amin {
		return math.Sqrt(g * s.Hmin)
	}
	B := s.WidthAt(s.LevelAt(A))
	if B <= 0 {
		return math.Sqrt(g * s.Hmin)
	}
	return math.Sqrt(g * A / B)
}
