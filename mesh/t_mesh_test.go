// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/jburguete/chnet1d/inp"
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

func singleChannelSystem(tst *testing.T) *inp.System {
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
			InitQ:  inp.InitialFlow{Kind: inp.InitDry},
		}},
	}
	if err := sys.Validate(); err != nil {
		tst.Fatalf("validate: %v", err)
	}
	return sys
}

func Test_build01(tst *testing.T) {
	chk.PrintTitle("build01")
	sys := singleChannelSystem(tst)
	m, err := Build(sys)
	if err != nil {
		tst.Fatalf("Build: %v", err)
	}
	if len(m.Cells) != 10 {
		tst.Errorf("expected 10 cells, got %d", len(m.Cells))
	}
	if len(m.CellThread) < 2 {
		tst.Errorf("expected at least one thread range, got %d entries", len(m.CellThread))
	}
	for i, c := range m.Cells {
		if c.Section == nil {
			tst.Errorf("cell %d missing section", i)
		}
	}
}
