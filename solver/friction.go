// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"
	"sync"

	"github.com/jburguete/chnet1d/mesh"
)

// Friction runs stage G: the semi-implicit friction integrator, applied to
// every cell after the decomposition increments have already moved Q to its
// predicted (pre-friction) value, per spec §4.G.
func Friction(m *mesh.Mesh, sc Scheme, dt float64) {
	var wg sync.WaitGroup
	for t := 0; t+1 < len(m.CellThread); t++ {
		lo, hi := m.CellThread[t], m.CellThread[t+1]
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			frictionRange(m.Cells[lo:hi], sc, dt)
		}(lo, hi)
	}
	wg.Wait()
}

// frictionRange resolves Q_new = Q_pred/(1+theta*dt*K*|Q_new|) for every
// cell in the range. Substituting |Q_new| = sign(Q_pred)*Q_new turns this
// into the quadratic theta*dt*K*sign(Q_pred)*Q_new^2 + Q_new - Q_pred = 0,
// whose numerically stable root is 2*Q_pred/(1+sqrt(1+4*theta*dt*K*|Q_pred|))
// — the sign of Q_new follows that of Q_pred automatically since the
// denominator is always positive, and the root reduces to Q_pred when K=0.
func frictionRange(cells []mesh.Cell, sc Scheme, dt float64) {
	theta := sc.Implicit
	for i := range cells {
		c := &cells[i]
		if c.A <= c.Amin {
			c.Q = 0
			continue
		}
		if c.K <= 0 || dt <= 0 {
			continue
		}
		qp := c.Q
		disc := 1 + 4*theta*dt*c.K*math.Abs(qp)
		c.Q = 2 * qp / (1 + math.Sqrt(disc))
	}
}
