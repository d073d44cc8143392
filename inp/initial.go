// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

// InitialKind selects how a channel's initial state is obtained.
type InitialKind string

// initial-condition kinds
const (
	InitDry     InitialKind = "dry"
	InitSteady  InitialKind = "steady"
	InitProfile InitialKind = "profile"
)

// InitialFlow is the {dry, steady, profile(x,Q,h)} variant of spec §3.
// Steady triggers the steady-state initialiser (Driver.simulateSteady in package driver).
type InitialFlow struct {
	Kind InitialKind `json:"kind"`

	// profile: arclength-ordered samples, linearly interpolated by the
	// mesh builder onto the cell array
	X []float64 `json:"x,omitempty"`
	Q []float64 `json:"q,omitempty"`
	H []float64 `json:"h,omitempty"`
}

// InitialTransport is the {dry, steady, profile(x,c)} variant of spec §3,
// one per solute.
type InitialTransport struct {
	Kind InitialKind `json:"kind"`
	X    []float64   `json:"x,omitempty"`
	C    []float64   `json:"c,omitempty"`
}

// BoundaryTransport is a solute boundary condition over the same
// [Pos,Pos2] interval convention as BoundaryFlow.
type BoundaryTransport struct {
	Solute int     `json:"solute"` // index into System.Transports
	Pos    int     `json:"pos"`
	Pos2   int     `json:"pos2"`
	Conc   float64 `json:"conc"`           // steady inlet concentration
	Func   string  `json:"func,omitempty"` // time-tabulated inlet concentration or pointwise mass injection M(t)
	Pulse  bool    `json:"pulse"`          // Func gives mass/time instead of concentration

	// resolved at mesh-build time
	CellPos, CellPos2 int `json:"-"`
}
