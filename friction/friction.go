// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package friction implements the roughness-integration kernels used by
// the cross-section builder (spec §4.A stage 3) to turn a wall segment's
// roughness tag into closed-form contributions to the friction integral r
// and the Boussinesq momentum moment, integrated band-by-band over the
// regular z-grid of a Section's FrictionParameters table.
//
// Grounded on the mconduct/mreten model-registry idiom: an interface,
// a name -> allocator map populated by each model's init(), and a
// fun.Prms-driven Init/GetPrms pair.
package friction

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Model defines a friction-kernel family: the power-law ("pressure")
// kernel and the logarithmic boundary-layer kernel of spec §4.A stage 3.
type Model interface {
	Init(prms fun.Prms) error      // Init initialises this structure
	GetPrms(example bool) fun.Prms // gets (an example) of parameters

	// RIntegral returns the contribution to the effective roughness
	// integral r accumulated by a wall of roughness coefficient r0 over
	// the trapezoidal depth band [h0,h1] (h measured from the wall's
	// local bed).
	RIntegral(r0, h0, h1 float64) float64

	// BetaIntegral returns the contribution to the raw Boussinesq moment
	// (normalised by A/r^2 afterwards by the cross-section builder) over
	// the same band.
	BetaIntegral(r0, h0, h1 float64) float64

	// LayerThickness returns the logarithmic boundary-layer thickness ell
	// used to decide whether a grid cell is fully above, fully below, or
	// straddles the log-law region (0 for models with no such boundary).
	LayerThickness(r0 float64) float64
}

// New returns a friction model by name ("power" or "log").
func New(name string) (Model, error) {
	alloc, ok := allocators[strings.ToLower(name)]
	if !ok {
		return nil, chk.Err("friction: model %q is not available", name)
	}
	return alloc(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{}

// powIntegral integrates h^gamma dh between h0 and h1 (h1>=h0>=0) analytically.
func powIntegral(gamma, h0, h1 float64) float64 {
	if h1 <= h0 {
		return 0
	}
	if h0 < 0 {
		h0 = 0
	}
	g1 := gamma + 1
	return (math.Pow(h1, g1) - math.Pow(h0, g1)) / g1
}
