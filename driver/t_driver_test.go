// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"os"
	"path/filepath"
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

func shortRunSystem(tst *testing.T, solutionFile string) *inp.System {
	sys := &inp.System{
		Channels: []*inp.Channel{{
			Name: "main",
			Geom: inp.ChannelGeometry{
				Sections: []*inp.CrossSection{
					rectSection("up", 0, 2),
					rectSection("down", 100, 2),
				},
			},
			CellDx: 20,
			InitQ:  inp.InitialFlow{Kind: inp.InitProfile, X: []float64{0, 100}, Q: []float64{1, 1}, H: []float64{1, 1}},
			Boundaries: []*inp.BoundaryFlow{
				{Kind: inp.BKQ, Pos: 0, Pos2: 0, Value: 1.0},
				{Kind: inp.BKH, Pos: 1, Pos2: 1, Value: 1.0},
			},
		}},
	}
	sys.Config.SetDefault()
	sys.Config.FinalTime = 2.0
	sys.Config.MeasuredInterval = 1.0
	sys.Config.SolutionFile = solutionFile
	sys.Config.PostProcess()
	if err := sys.Validate(); err != nil {
		tst.Fatalf("validate: %v", err)
	}
	return sys
}

func Test_simulate01(tst *testing.T) {
	chk.PrintTitle("simulate01")
	dir := tst.TempDir()
	sol := filepath.Join(dir, "sol.bin")
	sys := shortRunSystem(tst, sol)

	d, err := New(sys)
	if err != nil {
		tst.Fatalf("New: %v", err)
	}
	if err := d.Simulate(); err != nil {
		tst.Fatalf("Simulate: %v", err)
	}
	if d.Time() != sys.Config.FinalTime {
		tst.Errorf("expected the driver to reach final_time %v, stopped at %v", sys.Config.FinalTime, d.Time())
	}

	info, err := os.Stat(sol)
	if err != nil {
		tst.Fatalf("stat solution file: %v", err)
	}
	if info.Size() == 0 {
		tst.Errorf("expected a non-empty solution file")
	}
}

func Test_requestStop(tst *testing.T) {
	chk.PrintTitle("requeststop01")
	dir := tst.TempDir()
	sol := filepath.Join(dir, "sol.bin")
	sys := shortRunSystem(tst, sol)
	sys.Config.FinalTime = 1000 // large enough that RequestStop fires first

	d, err := New(sys)
	if err != nil {
		tst.Fatalf("New: %v", err)
	}
	calls := 0
	d.StopRequested = func() bool {
		calls++
		return calls > 2
	}
	if err := d.Simulate(); err != nil {
		tst.Fatalf("Simulate: %v", err)
	}
	if d.Time() >= sys.Config.FinalTime {
		tst.Errorf("expected RequestStop/StopRequested to cut the run short of final_time")
	}
}
