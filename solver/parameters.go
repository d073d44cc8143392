// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package solver implements the per-step finite-volume update (spec
// §4.D-H): the parameters stage, the Roe+TVD decomposition stage, the
// step integrator, the semi-implicit friction integrator and the
// transport scheme, run once per time step over the flat cell array
// built by package mesh.
//
// Grounded on the teacher's fem.Solver time-stepping loop
// (_examples/BookmarkSciencePrrojects-gofem/fem/solver.go): a sequence of
// named stages run over a flat element array between driver-level join
// barriers, with shared scalars (here dtmax/fdtmax) updated under a
// single mutex each.
package solver

import (
	"math"
	"sync"

	"github.com/jburguete/chnet1d/inp"
	"github.com/jburguete/chnet1d/mesh"
	"github.com/jburguete/chnet1d/xsec"
)

// Gravity is the acceleration used throughout (m/s^2).
const Gravity = 9.81

// FrictionCFL bounds the explicit friction time-step budget fraction used
// when clamping dtmax (spec §4.D "CFL" paragraph).
const FrictionCFL = 0.5

// Scheme bundles the config-driven variant selectors read once from
// inp.Config (spec §9 "function-pointer dispatch of scheme variants").
type Scheme struct {
	RoeAverage    string
	Decomposition string
	Limiter       string
	Diffusion     string
	GravityTerm   string
	Implicit      float64 // theta
	CFL           float64
	DepthMin      float64
}

// FromConfig builds a Scheme from the system configuration.
func FromConfig(cfg *inp.Config) Scheme {
	return Scheme{
		RoeAverage:    cfg.RoeAverage,
		Decomposition: cfg.Decomposition,
		Limiter:       cfg.Limiter,
		Diffusion:     cfg.Diffusion,
		GravityTerm:   cfg.GravityTerm,
		Implicit:      cfg.Implicit,
		CFL:           cfg.CFL,
		DepthMin:      cfg.DepthMin,
	}
}

// sharedScalars holds the atomically-min/maxed cross-thread scalars of
// spec §5: dtmax, fdtmax, each behind its own mutex held for O(1) work.
type sharedScalars struct {
	mudt  sync.Mutex
	dtmax float64

	mufdt  sync.Mutex
	fdtmax float64

	muover sync.Mutex
	overflowed bool
}

func newShared() *sharedScalars {
	return &sharedScalars{dtmax: 0, fdtmax: math.Inf(1)}
}

func (s *sharedScalars) bumpDtmax(lmaxOverDx float64) {
	s.mudt.Lock()
	if lmaxOverDx > s.dtmax {
		s.dtmax = lmaxOverDx
	}
	s.mudt.Unlock()
}

func (s *sharedScalars) bumpFdtmax(v float64) {
	s.mufdt.Lock()
	if v < s.fdtmax {
		s.fdtmax = v
	}
	s.mufdt.Unlock()
}

func (s *sharedScalars) flagOverflow() {
	s.muover.Lock()
	s.overflowed = true
	s.muover.Unlock()
}

// Parameters runs stage D over the whole cell array, partitioned across
// the mesh's worker pool, and returns the selected time step dt.
func Parameters(m *mesh.Mesh, sc Scheme, tRemaining float64) float64 {
	shared := newShared()
	var wg sync.WaitGroup
	for t := 0; t+1 < len(m.CellThread); t++ {
		lo, hi := m.CellThread[t], m.CellThread[t+1]
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			parametersRange(m.Cells[lo:hi], sc, shared)
		}(lo, hi)
	}
	wg.Wait()

	dtmax := math.Inf(1)
	if shared.dtmax > 0 {
		dtmax = sc.CFL / shared.dtmax
	}
	if f := FrictionCFL * shared.fdtmax; f < dtmax {
		dtmax = f
	}
	if tRemaining < dtmax {
		dtmax = tRemaining
	}
	return dtmax
}

// parametersRange computes section state, wave speed, convective flux,
// friction term and Riemann eigenvalues for every cell in [range), per
// spec §4.D.
func parametersRange(cells []mesh.Cell, sc Scheme, shared *sharedScalars) {
	for i := range cells {
		c := &cells[i]
		c.A = c.V / c.Dx
		if c.A <= c.Amin {
			c.Q = 0
			c.H = c.Hmin
			uc := math.Sqrt(Gravity * c.Hmin)
			c.La, c.Lb = uc, -uc
			c.F, c.Ff = 0, 0
			c.Dt = math.Inf(1)
			continue
		}

		z := c.Section.LevelAt(c.A)
		c.Zs = z
		c.H = z - c.Zmin
		c.B = c.Section.WidthAt(z)
		c.P = c.Section.PerimeterAt(z)
		if c.P > 0 {
			c.R = c.A / c.P
		}

		r, beta, dbetaA := frictionRowAt(c.Section, z)
		c.K = r
		c.Beta = beta
		c.DBetaA = dbetaA

		uc := c.WaveVelocity(Gravity)
		u := 0.0
		if c.A > 0 {
			u = c.Q / c.A
		}
		c.F = c.Beta * u * c.Q
		c.Ff = c.K * math.Abs(c.Q) * c.Q

		disc := uc*uc + (c.Beta*c.Beta-c.Beta+c.A*c.DBetaA)*u*u
		if disc < 0 {
			disc = 0
		}
		sq := math.Sqrt(disc)
		c.La = c.Beta*u + sq
		c.Lb = c.Beta*u - sq

		lmax := math.Max(math.Abs(c.La), math.Abs(c.Lb))
		c.Lmax = lmax
		if c.Dx > 0 {
			shared.bumpDtmax(lmax / c.Dx)
		}
		if c.K > 0 && c.Q != 0 {
			shared.bumpFdtmax(1.0 / (c.K * math.Abs(c.Q)))
		}
		if c.Zs > c.Section.Zmax {
			shared.flagOverflow()
		}
	}
}

// frictionRowAt samples a section's regular-grid friction table at an
// arbitrary elevation by linear interpolation between bracketing rows.
func frictionRowAt(s *xsec.Section, z float64) (r, beta, dbetaA float64) {
	n := len(s.FP)
	if n == 0 {
		return 0, 1, 0
	}
	frac := (z - s.Zmin) / s.Dz
	if frac < 0 {
		frac = 0
	}
	i := int(frac)
	if i >= n-1 {
		return s.FP[n-1].R, s.FP[n-1].Beta, s.FP[n-1].DBetaA
	}
	k := frac - float64(i)
	a, b := s.FP[i], s.FP[i+1]
	r = a.R + k*(b.R-a.R)
	beta = a.Beta + k*(b.Beta-a.Beta)
	dbetaA = a.DBetaA + k*(b.DBetaA-a.DBetaA)
	return
}
