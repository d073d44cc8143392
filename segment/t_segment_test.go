// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package segment

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/jburguete/chnet1d/inp"
	"github.com/jburguete/chnet1d/xsec"
)

func rect(tst *testing.T, width, dz float64) *xsec.Section {
	ts := &inp.TransientSection{
		Points: []inp.SectionPoint{
			{Y: 0, Z: 2, R: 0.03},
			{Y: width, Z: 0, R: 0.03},
			{Y: 2 * width, Z: 0, R: 0.03},
			{Y: 3 * width, Z: 2, R: 0.03},
		},
		Hmax: 2,
		Dz:   dz,
	}
	if err := ts.Validate("rect"); err != nil {
		tst.Fatalf("validate: %v", err)
	}
	sec, err := xsec.Build(ts, xsec.SectionWidthConfig{WidthMin: 1e-3})
	if err != nil {
		tst.Fatalf("build: %v", err)
	}
	return sec
}

func Test_interpolate01(tst *testing.T) {
	chk.PrintTitle("interpolate01")
	s1 := rect(tst, 2, 0.1)
	s2 := rect(tst, 4, 0.1)
	mid := Interpolate(s1, s2, 0, 10, 5)
	if mid.Amax <= s1.Amax || mid.Amax >= s2.Amax {
		tst.Errorf("interpolated Amax should lie strictly between endpoints, got %v (s1=%v s2=%v)",
			mid.Amax, s1.Amax, s2.Amax)
	}
}

func Test_interpolateEndpoints(tst *testing.T) {
	chk.PrintTitle("interpolateEndpoints")
	s1 := rect(tst, 2, 0.1)
	s2 := rect(tst, 4, 0.1)
	at1 := Interpolate(s1, s2, 0, 10, 0)
	if at1 != s1 {
		tst.Errorf("interpolation at x1 should return s1 unchanged")
	}
	at2 := Interpolate(s1, s2, 0, 10, 10)
	if at2 != s2 {
		tst.Errorf("interpolation at x2 should return s2 unchanged")
	}
}
