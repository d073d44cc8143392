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

// Logarithmic implements the boundary-layer friction kernel: a five-term
// expansion in h^k, k in {b+1, 2b+3, 2b+2, 2b+1, b+2}, combining either
// the stress-minimisation or the loss-minimisation variant (spec §4.A
// stage 3's "five-term expansion ... compile-time/config option").
//
// Exact closed-form coefficients of the law-of-the-wall expansion are not
// fixed by the spec beyond the set of powers involved; StressMin selects
// the variant that weights the k=2b+1 (quadratic-stress) term most
// heavily, LossMin the variant that weights the k=b+2 (energy-loss) term
// most heavily. Both share the same integrable power family so a single
// implementation serves both by varying the five coefficients.
type Logarithmic struct {
	b       float64 // Manning-type exponent shared with the power-law family
	granul  float64 // granulometric coefficient (Init parameter "granul")
	lossMin bool    // false => stress-minimisation, true => loss-minimisation
}

func init() {
	allocators["log"] = func() Model { return new(Logarithmic) }
}

// Init initialises model
func (o *Logarithmic) Init(prms fun.Prms) (err error) {
	o.b = 1.0 / 6.0
	o.granul = 2.5
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "b":
			o.b = p.V
		case "granul":
			o.granul = p.V
		case "lossmin":
			o.lossMin = p.V != 0
		default:
			return chk.Err("log: parameter named %q is incorrect\n", p.N)
		}
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Logarithmic) GetPrms(example bool) fun.Prms {
	return []*fun.Prm{
		{N: "b", V: 1.0 / 6.0},
		{N: "granul", V: 2.5},
		{N: "lossmin", V: 0},
	}
}

// LayerThickness returns ell, the logarithmic boundary-layer thickness,
// taken proportional to the wall's granulometric roughness length.
func (o *Logarithmic) LayerThickness(r0 float64) float64 {
	if r0 <= 0 || math.IsInf(r0, 1) {
		return 0
	}
	return o.granul * r0
}

// coeffs returns the five (power, weight) pairs for the active variant.
func (o *Logarithmic) coeffs() [5]struct {
	k, w float64
} {
	b := o.b
	if o.lossMin {
		return [5]struct{ k, w float64 }{
			{b + 1, 0.10}, {2*b + 3, 0.05}, {2*b + 2, 0.10}, {2*b + 1, 0.25}, {b + 2, 0.50},
		}
	}
	return [5]struct{ k, w float64 }{
		{b + 1, 0.15}, {2*b + 3, 0.10}, {2*b + 2, 0.15}, {2*b + 1, 0.50}, {b + 2, 0.10},
	}
}

// RIntegral accumulates the weighted five-term expansion over [h0,h1].
func (o *Logarithmic) RIntegral(r0, h0, h1 float64) float64 {
	if r0 <= 0 || math.IsInf(r0, 1) {
		return 0
	}
	var sum float64
	for _, c := range o.coeffs() {
		sum += c.w * powIntegral(c.k, h0, h1)
	}
	return sum / (r0 * r0)
}

// BetaIntegral accumulates the momentum moment using the same expansion
// shifted up by two powers (the higher-power kernel of spec §4.A stage 3).
func (o *Logarithmic) BetaIntegral(r0, h0, h1 float64) float64 {
	if r0 <= 0 || math.IsInf(r0, 1) {
		return 0
	}
	var sum float64
	for _, c := range o.coeffs() {
		sum += c.w * powIntegral(c.k+2, h0, h1)
	}
	return sum / (r0 * r0 * r0)
}
