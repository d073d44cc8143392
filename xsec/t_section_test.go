// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xsec

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/jburguete/chnet1d/inp"
)

// trapezoidal(10,2,1) builds a symmetric trapezoidal channel: bed width 2,
// side slopes 1:1, banks rising to z=3.
func trapezoidal(tst *testing.T) *inp.TransientSection {
	ts := &inp.TransientSection{
		Time: 0,
		Points: []inp.SectionPoint{
			{Y: 0, Z: 3, R: 0.03},
			{Y: 2, Z: 0, R: 0.03},
			{Y: 4, Z: 0, R: 0.03},
			{Y: 6, Z: 3, R: 0.03},
		},
		Hmax:        3,
		Contraction: 0,
		Dz:          0.1,
	}
	if err := ts.Validate("trapezoidal"); err != nil {
		tst.Fatalf("validate failed: %v", err)
	}
	return ts
}

func Test_build01(tst *testing.T) {
	chk.PrintTitle("build01")
	ts := trapezoidal(tst)
	sec, err := Build(ts, SectionWidthConfig{WidthMin: 1e-3})
	if err != nil {
		tst.Fatalf("Build failed: %v", err)
	}
	if sec.Zmin != 0 {
		tst.Errorf("Zmin should be 0, got %v", sec.Zmin)
	}
	if sec.WidthAt(0) < 2-1e-9 {
		tst.Errorf("width at bed should be >= 2, got %v", sec.WidthAt(0))
	}
	w3 := sec.WidthAt(3)
	if w3 < 6-1e-9 {
		tst.Errorf("width at z=3 should be 6, got %v", w3)
	}
	a3 := sec.AreaAt(3)
	// trapezoid area: (top+bottom)/2 * height = (6+2)/2*3 = 12
	if a3 < 12-1e-6 || a3 > 12+1e-6 {
		tst.Errorf("area at z=3 should be 12, got %v", a3)
	}
}

func Test_levelAt01(tst *testing.T) {
	chk.PrintTitle("levelAt01")
	ts := trapezoidal(tst)
	sec, err := Build(ts, SectionWidthConfig{WidthMin: 1e-3})
	if err != nil {
		tst.Fatalf("Build failed: %v", err)
	}
	A := sec.AreaAt(1.5)
	z := sec.LevelAt(A)
	if z < 1.5-1e-6 || z > 1.5+1e-6 {
		tst.Errorf("LevelAt should invert AreaAt, got z=%v want 1.5", z)
	}
}

func Test_waveVelocityDry(tst *testing.T) {
	chk.PrintTitle("waveVelocityDry")
	ts := trapezoidal(tst)
	sec, err := Build(ts, SectionWidthConfig{WidthMin: 1e-3})
	if err != nil {
		tst.Fatalf("Build failed: %v", err)
	}
	v := sec.WaveVelocity(9.81, 0, 1e-6)
	want := 9.81 * sec.Hmin
	if v*v < want-1e-6 || v*v > want+1e-6 {
		tst.Errorf("dry wave velocity should fall back to sqrt(g*hmin), got v^2=%v want %v", v*v, want)
	}
}
