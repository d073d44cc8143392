// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package boundary implements the per-BoundaryFlow-kind handler of spec
// §4.I: a registry mapping inp.BoundaryKind to a Handler exposing tmax and
// apply_explicit hooks, dispatched once per boundary per step by the
// driver. Junction boundaries are not registered here: they are
// discovered into mesh.Junction by package network/mesh and solved by
// solver.Step's junction pass (spec §4.I "Junctions expose instead mix()
// called by 4.F").
//
// Grounded on the ele/factory.go model-registry idiom already reused by
// package friction: a name -> allocator map populated by each kind's
// init().
package boundary

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/jburguete/chnet1d/inp"
	"github.com/jburguete/chnet1d/mesh"
)

// Handler implements the tmax and apply_explicit hooks of spec §4.I for
// one BoundaryFlow kind. upstream reports whether bf.CellPos is its
// channel's first (upstream, left) cell; it is computed the same way for
// every kind and ignored by inner boundaries (Dam/Pipe).
type Handler interface {
	// Tmax returns the upper bound this boundary imposes on the next
	// time step (+Inf when it imposes none).
	Tmax(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t, g float64, upstream bool) float64

	// ApplyExplicit accumulates this boundary's contribution into the
	// affected cells' IA/IQ (or, for Dam/Pipe, directly transfers V)
	// for the step currently being assembled.
	ApplyExplicit(bf *inp.BoundaryFlow, m *mesh.Mesh, funcs inp.FuncsData, t, dt, g float64, upstream bool)
}

var registry = map[inp.BoundaryKind]func() Handler{}

func register(kind inp.BoundaryKind, alloc func() Handler) {
	registry[kind] = alloc
}

// New looks up the Handler registered for a BoundaryFlow's Kind.
func New(kind inp.BoundaryKind) (Handler, error) {
	alloc, ok := registry[kind]
	if !ok {
		return nil, chk.Err("boundary: no handler registered for kind %q", kind)
	}
	return alloc(), nil
}

// Apply runs the apply_explicit hook of every non-Junction boundary of
// sys. Called once per step by package driver, after the tmax pass
// (TmaxBound) and before decomposition, which adds its own increments on
// top of the ones written here.
func Apply(sys *inp.System, m *mesh.Mesh, funcs inp.FuncsData, t, dt, g float64) error {
	for _, ch := range sys.Channels {
		for _, bf := range ch.Boundaries {
			if bf.IsJunction() {
				continue
			}
			h, err := New(bf.Kind)
			if err != nil {
				return err
			}
			upstream := bf.CellPos == ch.CellBegin
			h.ApplyExplicit(bf, m, funcs, t, dt, g, upstream)
		}
	}
	return nil
}

// TmaxBound returns the smallest boundary-imposed time-step bound across
// every non-Junction boundary of sys.
func TmaxBound(sys *inp.System, m *mesh.Mesh, funcs inp.FuncsData, t, g float64) (float64, error) {
	bound := math.Inf(1)
	for _, ch := range sys.Channels {
		for _, bf := range ch.Boundaries {
			if bf.IsJunction() {
				continue
			}
			h, err := New(bf.Kind)
			if err != nil {
				return 0, err
			}
			upstream := bf.CellPos == ch.CellBegin
			if k := h.Tmax(bf, m, funcs, t, g, upstream); k < bound {
				bound = k
			}
		}
	}
	return bound, nil
}

// evalFunc looks up a named time function and evaluates it at t, falling
// back to 0 for the empty/"zero"/"none" names via FuncsData.Get itself.
func evalFunc(funcs inp.FuncsData, name string, t float64) (float64, error) {
	fcn, err := funcs.Get(name)
	if err != nil {
		return 0, err
	}
	return fcn.F(t, nil), nil
}

// criticalDischarge approximates the Froude=1 discharge for area a, used
// to clip boundary-imposed momentum away from spurious supercritical
// overshoot (spec's original source clips every boundary-driven Q against
// 0.99*section_critical_discharge).
func criticalDischarge(c *mesh.Cell, a, g float64) float64 {
	return a * c.Section.WaveVelocity(g, a, c.Amin)
}

// ratingLookup linearly interpolates a rating curve (discharge as a
// function of local depth or stage).
func ratingLookup(points []inp.RatingPoint, x float64) float64 {
	if len(points) == 0 {
		return 0
	}
	if x <= points[0].X {
		return points[0].Y
	}
	last := len(points) - 1
	if x >= points[last].X {
		return points[last].Y
	}
	for i := 0; i < last; i++ {
		if x <= points[i+1].X {
			k := (x - points[i].X) / (points[i+1].X - points[i].X)
			return points[i].Y + k*(points[i+1].Y-points[i].Y)
		}
	}
	return points[last].Y
}
