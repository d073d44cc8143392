// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package friction

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_power01(tst *testing.T) {
	chk.PrintTitle("power01")
	mdl, err := New("power")
	if err != nil {
		tst.Errorf("New failed: %v", err)
		return
	}
	err = mdl.Init(mdl.GetPrms(true))
	if err != nil {
		tst.Errorf("Init failed: %v", err)
		return
	}
	r := mdl.RIntegral(0.03, 0, 1.0)
	if r <= 0 {
		tst.Errorf("RIntegral must be positive, got %v", r)
	}
	if mdl.LayerThickness(0.03) != 0 {
		tst.Errorf("power model has no boundary layer")
	}
}

func Test_log01(tst *testing.T) {
	chk.PrintTitle("log01")
	mdl, err := New("log")
	if err != nil {
		tst.Errorf("New failed: %v", err)
		return
	}
	err = mdl.Init(mdl.GetPrms(true))
	if err != nil {
		tst.Errorf("Init failed: %v", err)
		return
	}
	ell := mdl.LayerThickness(0.03)
	if ell <= 0 {
		tst.Errorf("LayerThickness must be positive, got %v", ell)
	}
	r := mdl.RIntegral(0.03, 0, 1.0)
	if r <= 0 {
		tst.Errorf("RIntegral must be positive, got %v", r)
	}
}

func Test_infwall(tst *testing.T) {
	chk.PrintTitle("infwall")
	mdl, _ := New("power")
	mdl.Init(mdl.GetPrms(true))
	r := mdl.RIntegral(posInf(), 0, 1.0)
	if r != 0 {
		tst.Errorf("an infinite-roughness (non-friction) wall must contribute zero, got %v", r)
	}
}

func posInf() float64 {
	var x float64 = 1
	return x / 0
}
