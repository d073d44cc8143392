// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package outp writes the four output artifacts of spec §6: the binary
// solution-snapshot file (required) and three optional ASCII diagnostic
// logs (advances, plumes, contributions).
//
// Grounded on _examples/original_source/1.3.14/write.h's write_data/
// write_variables pair (one binary snapshot writer, one ASCII per-row
// writer) and the teacher's io.Pf-based diagnostic output
// (_examples/BookmarkSciencePrrojects-gofem/fem/fem.go's onexit
// messages); the solution file's exact field layout is pinned by
// spec.md §6 rather than the original's column-major Variables struct,
// so it is written directly here rather than translated byte-for-byte.
package outp

import (
	"encoding/binary"
	"math"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/jburguete/chnet1d/inp"
	"github.com/jburguete/chnet1d/mesh"
)

// nVariables is the fixed field count before the per-solute concentrations
// in one solution-file cell record: x, Q, zs, A, B, zb, zmax, beta.
const nVariables = 8

// Writer owns every output artifact configured on a System (spec §6).
// The binary solution file is required; the three ASCII logs are opened
// only when their path is configured.
type Writer struct {
	sol *os.File

	advPath   string
	arrival   []float64
	recession []float64
	x         []float64

	plumes   *os.File
	contribs *os.File
}

// New opens every output file configured on sys (solution_file is
// required; advances/plumes/contributions only if configured) and sizes
// the advances-tracking arrays to m's cell count.
func New(sys *inp.System, m *mesh.Mesh) (*Writer, error) {
	w := &Writer{}

	sol, err := os.Create(sys.Config.SolutionFile)
	if err != nil {
		return nil, chk.Err("outp: cannot create solution file %q: %v", sys.Config.SolutionFile, err)
	}
	w.sol = sol

	if sys.Config.AdvancesFile != "" {
		w.advPath = sys.Config.AdvancesFile
		n := len(m.Cells)
		w.arrival = make([]float64, n)
		w.recession = make([]float64, n)
		w.x = make([]float64, n)
		for i := range w.arrival {
			w.arrival[i] = math.Inf(1)
			w.recession[i] = math.Inf(-1)
			w.x[i] = m.Cells[i].X
		}
	}

	if sys.Config.PlumesFile != "" {
		f, err := os.Create(sys.Config.PlumesFile)
		if err != nil {
			return nil, chk.Err("outp: cannot create plumes file %q: %v", sys.Config.PlumesFile, err)
		}
		w.plumes = f
	}

	if sys.Config.ContributionsFile != "" {
		f, err := os.Create(sys.Config.ContributionsFile)
		if err != nil {
			return nil, chk.Err("outp: cannot create contributions file %q: %v", sys.Config.ContributionsFile, err)
		}
		w.contribs = f
	}

	return w, nil
}

// Close releases every open file.
func (w *Writer) Close() error {
	var first error
	for _, f := range []*os.File{w.sol, w.plumes, w.contribs} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Snapshot appends one record set to the solution file at time t: a
// leading time value, then one record per cell of (x, Q, zs, A, B, zb,
// zmax, beta, c0..c_{nt-1}), fixed-width little-endian float64 -- a raw
// contiguous layout matching spec §6 rather than a Go-specific encoding,
// since any external reader of the file must not need this module's
// types. It also updates the advances-tracking arrays when configured.
func (w *Writer) Snapshot(m *mesh.Mesh, t float64) error {
	if err := binary.Write(w.sol, binary.LittleEndian, t); err != nil {
		return chk.Err("outp: snapshot: cannot write time: %v", err)
	}
	for i := range m.Cells {
		c := &m.Cells[i]
		row := [nVariables]float64{c.X, c.Q, c.Zs, c.A, c.B, c.Zmin, c.Section.Zmax, c.Beta}
		if err := binary.Write(w.sol, binary.LittleEndian, row); err != nil {
			return chk.Err("outp: snapshot: cannot write cell %d: %v", i, err)
		}
		if len(c.C) > 0 {
			if err := binary.Write(w.sol, binary.LittleEndian, c.C); err != nil {
				return chk.Err("outp: snapshot: cannot write cell %d concentrations: %v", i, err)
			}
		}
		if i < len(w.arrival) && c.A > c.Amin {
			if t < w.arrival[i] {
				w.arrival[i] = t
			}
			if t > w.recession[i] {
				w.recession[i] = t
			}
		}
	}
	return nil
}

// WriteAdvances writes the advances file (spec §6): one line per cell,
// `x_i t_arrival t_recession`. A cell never wetted during the run is
// skipped, matching "first/last times the cell was wet" having no value.
func (w *Writer) WriteAdvances() error {
	if w.advPath == "" {
		return nil
	}
	f, err := os.Create(w.advPath)
	if err != nil {
		return chk.Err("outp: cannot create advances file %q: %v", w.advPath, err)
	}
	defer f.Close()
	for i := range w.x {
		if math.IsInf(w.arrival[i], 1) {
			continue
		}
		if _, err := f.WriteString(formatRow(w.x[i], w.arrival[i], w.recession[i])); err != nil {
			return chk.Err("outp: advances: write error: %v", err)
		}
	}
	return nil
}

// LogPlumes appends one line to the plumes file (spec §6): `t x1_start
// x1_end x2_start x2_end ...`, one start/end pair per solute giving the
// axial extent of cells currently at or above that solute's danger
// concentration. A solute with no cell above its threshold this step
// contributes `0 0`.
func (w *Writer) LogPlumes(sys *inp.System, m *mesh.Mesh, t float64) error {
	if w.plumes == nil {
		return nil
	}
	line := formatFloat(t)
	for s, tr := range sys.Transports {
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := range m.Cells {
			c := &m.Cells[i]
			if len(c.C) <= s || c.C[s] < tr.Danger {
				continue
			}
			if c.X < lo {
				lo = c.X
			}
			if c.X > hi {
				hi = c.X
			}
		}
		if math.IsInf(lo, 1) {
			lo, hi = 0, 0
		}
		line += " " + formatFloat(lo) + " " + formatFloat(hi)
	}
	line += "\n"
	_, err := w.plumes.WriteString(line)
	if err != nil {
		return chk.Err("outp: plumes: write error: %v", err)
	}
	return nil
}

// LogContributions appends one line to the contributions file (spec §6):
// `t q0 q1 ...`, one rolling contribution per non-Junction BoundaryFlow in
// channel/declaration order. Each value is the rate the boundary's handler
// recorded, with the sign that handler computed it; the sign is not
// normalised to the flow direction into or out of the domain.
func (w *Writer) LogContributions(sys *inp.System, t float64) error {
	if w.contribs == nil {
		return nil
	}
	line := formatFloat(t)
	for _, ch := range sys.Channels {
		for _, bf := range ch.Boundaries {
			if bf.IsJunction() {
				continue
			}
			line += " " + formatFloat(bf.Contribution)
		}
	}
	line += "\n"
	_, err := w.contribs.WriteString(line)
	if err != nil {
		return chk.Err("outp: contributions: write error: %v", err)
	}
	return nil
}

func formatRow(vals ...float64) string {
	s := ""
	for i, v := range vals {
		if i > 0 {
			s += " "
		}
		s += formatFloat(v)
	}
	return s + "\n"
}

func formatFloat(v float64) string {
	return io.Sf("%g", v)
}
