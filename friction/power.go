// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package friction

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Power implements the pressure-driven power-law friction kernel:
// r contribution proportional to h^(2b+1), per spec §4.A stage 3's
// "Pressure (power-law)" kernel. b=1/6 recovers Manning's law.
type Power struct {
	b float64 // Manning-type exponent; 1/6 => Manning
}

func init() {
	allocators["power"] = func() Model { return new(Power) }
}

// Init initialises model
func (o *Power) Init(prms fun.Prms) (err error) {
	o.b = 1.0 / 6.0
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "b":
			o.b = p.V
		default:
			return chk.Err("power: parameter named %q is incorrect\n", p.N)
		}
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Power) GetPrms(example bool) fun.Prms {
	return []*fun.Prm{
		{N: "b", V: 1.0 / 6.0},
	}
}

// RIntegral accumulates r0^-2 * h^(2b+1) over [h0,h1]; the coefficient r0
// is the wall's local Manning-type roughness (inverse squared enters the
// friction slope the usual way, folded in by the caller via 1/r0^2).
func (o *Power) RIntegral(r0, h0, h1 float64) float64 {
	if r0 <= 0 || math.IsInf(r0, 1) {
		return 0
	}
	return powIntegral(2*o.b+1, h0, h1) / (r0 * r0)
}

// BetaIntegral accumulates the raw momentum moment over the band using
// the higher power 3*(2b+1) that spec §4.A stage 3 calls for when
// "accumulating beta similarly with the appropriate higher-power kernels".
func (o *Power) BetaIntegral(r0, h0, h1 float64) float64 {
	if r0 <= 0 || math.IsInf(r0, 1) {
		return 0
	}
	return powIntegral(3*(2*o.b+1), h0, h1) / (r0 * r0 * r0)
}

// LayerThickness: the power-law kernel has no logarithmic boundary layer.
func (o *Power) LayerThickness(r0 float64) float64 { return 0 }
