// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package boundary

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/jburguete/chnet1d/inp"
	"github.com/jburguete/chnet1d/mesh"
)

func rectSection(name string, x, width float64) *inp.CrossSection {
	return &inp.CrossSection{
		Name: name,
		X:    x,
		Profiles: []*inp.TransientSection{{
			Points: []inp.SectionPoint{
				{Y: 0, Z: 2, R: 0.03},
				{Y: width, Z: 0, R: 0.03},
				{Y: 2 * width, Z: 0, R: 0.03},
				{Y: 3 * width, Z: 2, R: 0.03},
			},
			Hmax: 2,
			Dz:   0.1,
		}},
	}
}

func dischargeStageSystem(tst *testing.T) *inp.System {
	sys := &inp.System{
		Config: inp.Config{InitialTime: 0, SectionWidthMin: 1e-3, DepthMin: 1e-3},
		Channels: []*inp.Channel{{
			Name: "main",
			Geom: inp.ChannelGeometry{
				Sections: []*inp.CrossSection{
					rectSection("up", 0, 2),
					rectSection("down", 100, 2),
				},
			},
			CellDx: 10,
			InitQ:  inp.InitialFlow{Kind: inp.InitProfile, X: []float64{0, 100}, Q: []float64{0.5, 0.5}, H: []float64{0.8, 0.8}},
			Boundaries: []*inp.BoundaryFlow{
				{Kind: inp.BKQ, Pos: 0, Pos2: 0, Value: 1.0},
				{Kind: inp.BKH, Pos: 1, Pos2: 1, Value: 1.0},
			},
		}},
	}
	if err := sys.Validate(); err != nil {
		tst.Fatalf("validate: %v", err)
	}
	return sys
}

func Test_discharge01(tst *testing.T) {
	chk.PrintTitle("discharge01")
	sys := dischargeStageSystem(tst)
	m, err := mesh.Build(sys)
	if err != nil {
		tst.Fatalf("Build: %v", err)
	}

	funcs := sys.Functions
	bound, err := TmaxBound(sys, m, funcs, 0, 9.81)
	if err != nil {
		tst.Fatalf("TmaxBound: %v", err)
	}
	if bound <= 0 || math.IsNaN(bound) {
		tst.Errorf("expected a finite positive tmax bound, got %v", bound)
	}

	dt := 0.1
	if err := Apply(sys, m, funcs, 0, dt, 9.81); err != nil {
		tst.Fatalf("Apply: %v", err)
	}

	upCell := &m.Cells[0]
	if upCell.IQ == 0 {
		tst.Errorf("expected the upstream Q boundary to set a nonzero IQ, got 0")
	}
	bf := sys.Channels[0].Boundaries[0]
	if bf.Contribution != 1.0 {
		tst.Errorf("expected discharge boundary contribution 1.0, got %v", bf.Contribution)
	}

	downCell := &m.Cells[len(m.Cells)-1]
	if downCell.IA == 0 {
		tst.Errorf("expected the downstream H boundary to set a nonzero IA, got 0")
	}
}

func Test_unknownKind(tst *testing.T) {
	chk.PrintTitle("unknownKind")
	if _, err := New(inp.BoundaryKind("bogus")); err == nil {
		tst.Errorf("expected an error for an unregistered boundary kind")
	}
}

func Test_freeHandler(tst *testing.T) {
	chk.PrintTitle("freeHandler")
	h, err := New(inp.BKSupercritical)
	if err != nil {
		tst.Fatalf("New: %v", err)
	}
	bound := h.Tmax(nil, nil, inp.FuncsData{}, 0, 9.81, true)
	if !math.IsInf(bound, 1) {
		tst.Errorf("expected a supercritical (free) boundary to impose no tmax bound, got %v", bound)
	}
}
