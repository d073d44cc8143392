// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package outp

import (
	"bufio"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
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

func fixture(tst *testing.T, dir string) (*inp.System, *mesh.Mesh) {
	sys := &inp.System{
		Config: inp.Config{
			InitialTime:     0,
			SectionWidthMin: 1e-3,
			DepthMin:        1e-3,
			SolutionFile:    filepath.Join(dir, "sol.bin"),
			AdvancesFile:    filepath.Join(dir, "adv.txt"),
			PlumesFile:      filepath.Join(dir, "plumes.txt"),
			ContributionsFile: filepath.Join(dir, "contrib.txt"),
		},
		Transports: []inp.Transport{{Name: "salt", Solubility: 100, Diffusion: 0, Danger: 0.5}},
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
			InitT:  []inp.InitialTransport{{Kind: inp.InitDry}},
			Boundaries: []*inp.BoundaryFlow{
				{Kind: inp.BKQ, Pos: 0, Pos2: 0, Value: 1.0},
			},
		}},
	}
	if err := sys.Validate(); err != nil {
		tst.Fatalf("validate: %v", err)
	}
	m, err := mesh.Build(sys)
	if err != nil {
		tst.Fatalf("Build: %v", err)
	}
	return sys, m
}

func Test_snapshot01(tst *testing.T) {
	chk.PrintTitle("snapshot01")
	dir := tst.TempDir()
	sys, m := fixture(tst, dir)

	w, err := New(sys, m)
	if err != nil {
		tst.Fatalf("New: %v", err)
	}

	m.Cells[0].C[0] = 0.75 // above the plume danger threshold

	if err := w.Snapshot(m, 0.0); err != nil {
		tst.Fatalf("Snapshot: %v", err)
	}
	if err := w.LogPlumes(sys, m, 0.0); err != nil {
		tst.Fatalf("LogPlumes: %v", err)
	}
	if err := w.LogContributions(sys, 0.0); err != nil {
		tst.Fatalf("LogContributions: %v", err)
	}
	if err := w.WriteAdvances(); err != nil {
		tst.Fatalf("WriteAdvances: %v", err)
	}
	if err := w.Close(); err != nil {
		tst.Fatalf("Close: %v", err)
	}

	// solution file: one time float64 + ncells*(8+1) float64 fields.
	f, err := os.Open(sys.Config.SolutionFile)
	if err != nil {
		tst.Fatalf("open solution file: %v", err)
	}
	defer f.Close()
	var t float64
	if err := binary.Read(f, binary.LittleEndian, &t); err != nil {
		tst.Fatalf("read time: %v", err)
	}
	if t != 0 {
		tst.Errorf("expected leading time 0, got %v", t)
	}
	row := make([]float64, nVariables+1)
	if err := binary.Read(f, binary.LittleEndian, &row); err != nil {
		tst.Fatalf("read first cell record: %v", err)
	}
	if row[0] != m.Cells[0].X {
		tst.Errorf("expected first field to be cell 0's X (%v), got %v", m.Cells[0].X, row[0])
	}

	plumesBody, err := os.ReadFile(sys.Config.PlumesFile)
	if err != nil {
		tst.Fatalf("read plumes file: %v", err)
	}
	if !strings.Contains(string(plumesBody), "0") {
		tst.Errorf("expected a plumes line, got %q", string(plumesBody))
	}

	contribBody, err := os.ReadFile(sys.Config.ContributionsFile)
	if err != nil {
		tst.Fatalf("read contributions file: %v", err)
	}
	sc := bufio.NewScanner(strings.NewReader(string(contribBody)))
	if !sc.Scan() {
		tst.Fatalf("expected at least one contributions line")
	}
}

func Test_advances_skipsNeverWetted(tst *testing.T) {
	chk.PrintTitle("advances01")
	dir := tst.TempDir()
	sys, m := fixture(tst, dir)

	w, err := New(sys, m)
	if err != nil {
		tst.Fatalf("New: %v", err)
	}
	if err := w.Snapshot(m, 0.0); err != nil {
		tst.Fatalf("Snapshot: %v", err)
	}
	if err := w.WriteAdvances(); err != nil {
		tst.Fatalf("WriteAdvances: %v", err)
	}
	if err := w.Close(); err != nil {
		tst.Fatalf("Close: %v", err)
	}

	body, err := os.ReadFile(sys.Config.AdvancesFile)
	if err != nil {
		tst.Fatalf("read advances file: %v", err)
	}
	// every cell starts dry (InitDry, A==Amin), so no line should appear.
	if strings.TrimSpace(string(body)) != "" {
		tst.Errorf("expected no advances for a never-wetted mesh, got %q", string(body))
	}
}
