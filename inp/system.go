// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"math"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Transport holds one passive, solubility-limited solute's definition.
type Transport struct {
	Name       string  `json:"name"`
	Solubility float64 `json:"solubility"` // cmax
	Diffusion  float64 `json:"diffusion"`  // base diffusivity; floored per-edge by min(nuL,nuR)
	Danger     float64 `json:"danger"`     // plume danger-threshold concentration
}

// Config holds the global solver configuration (spec §6 table).
type Config struct {
	InitialTime         float64 `json:"initial_time"`
	ObservationTime     float64 `json:"observation_time"`
	FinalTime           float64 `json:"final_time"`
	MeasuredInterval    float64 `json:"measured_interval"`
	CFL                 float64 `json:"cfl"`
	Implicit            float64 `json:"implicit"` // theta
	SteadyError         float64 `json:"steady_error"`
	MaxSteadyTime       float64 `json:"max_steady_time"`
	SectionWidthMin     float64 `json:"section_width_min"` // kappa: B >= kappa*Bmax
	DepthMin            float64 `json:"depth_min"`
	GranulometricCoef   float64 `json:"granulometric_coefficient"`
	SolutionFile        string  `json:"solution_file"`
	AdvancesFile        string  `json:"advances,omitempty"`
	PlumesFile          string  `json:"plumes,omitempty"`
	ContributionsFile   string  `json:"contributions,omitempty"`

	// scheme-variant selection (spec §9 "function-pointer dispatch");
	// Diffusion, FrictionModel and Parallel are decoded and defaulted but
	// no solver stage reads them
	RoeAverage    string `json:"roe_average"`    // "roe" | "arithmetic"
	Decomposition string `json:"decomposition"`  // "upwind" | "tvd" | "tvd2"
	Limiter       string `json:"limiter"`        // "minmod" | "vanleer" | "superbee"
	Diffusion     string `json:"diffusion_mode"` // "explicit" | "implicit"
	GravityTerm   string `json:"gravity_term"`   // "hydrostatic" | "strong-slope" | "high-order"
	FrictionModel string `json:"friction_model"` // "stress-minimisation" | "loss-minimisation"
	Parallel      string `json:"parallel"`       // "simple" | "parallel"
}

// SetDefault fills the defaults of spec §6's table.
func (c *Config) SetDefault() {
	c.ObservationTime = c.InitialTime
	c.FinalTime = c.InitialTime
	c.CFL = 0.9
	c.Implicit = 0.5
	c.SteadyError = 1e-12
	c.MaxSteadyTime = 0 // 0 means "unbounded" after PostProcess
	c.SectionWidthMin = 1e-3
	c.DepthMin = 1e-3
	c.GranulometricCoef = 2.5
	c.RoeAverage = "roe"
	c.Decomposition = "tvd"
	c.Limiter = "minmod"
	c.Diffusion = "explicit"
	c.GravityTerm = "hydrostatic"
	c.FrictionModel = "stress-minimisation"
	c.Parallel = "parallel"
}

// PostProcess fixes derived defaults that depend on other fields, the way
// inp.SolverData.PostProcess does for gofem.
func (c *Config) PostProcess() {
	if c.MeasuredInterval <= 0 {
		c.MeasuredInterval = c.FinalTime - c.InitialTime
	}
	if c.MaxSteadyTime <= 0 {
		c.MaxSteadyTime = math.Inf(1)
	}
}

// System is the flat universe: channels, transports (solutes) and global
// configuration.
type System struct {
	Desc       string      `json:"desc"`
	Config     Config      `json:"config"`
	Functions  FuncsData   `json:"functions"`
	Channels   []*Channel  `json:"channels"`
	Transports []Transport `json:"transports"`

	// derived bookkeeping
	DirOut string `json:"-"`
	Key    string `json:"-"`
}

// ReadSystem reads a System from a JSON file, the way inp.ReadSim reads a
// gofem .sim file.
func ReadSystem(path string) (sys *System, err error) {
	b, err := io.ReadFile(path)
	if err != nil {
		return nil, chk.Err("ReadSystem: cannot read system file %q: %v", path, err)
	}
	sys = new(System)
	sys.Config.SetDefault()
	err = json.Unmarshal(b, sys)
	if err != nil {
		return nil, chk.Err("ReadSystem: cannot unmarshal system file %q: %v", path, err)
	}
	sys.Config.PostProcess()
	sys.Key = io.FnKey(filepath.Base(path))
	if sys.Config.SolutionFile == "" {
		return nil, chk.Err("ReadSystem: solution_file is required")
	}
	if err = sys.Validate(); err != nil {
		return nil, err
	}
	return sys, nil
}

// Validate validates every channel and cross-references transport indices
// used by BoundaryTransport/InitialTransport against len(Transports).
func (sys *System) Validate() error {
	if len(sys.Channels) == 0 {
		return chk.Err("System: needs at least one channel")
	}
	byName := make(map[string]*Channel, len(sys.Channels))
	for _, c := range sys.Channels {
		if _, dup := byName[c.Name]; dup {
			return chk.Err("System: duplicate channel name %q", c.Name)
		}
		byName[c.Name] = c
	}
	nt := len(sys.Transports)
	for _, c := range sys.Channels {
		if err := c.Validate(); err != nil {
			return err
		}
		if len(c.InitT) != 0 && len(c.InitT) != nt {
			return chk.Err("channel %q: inittransport has %d entries, want %d (one per solute)",
				c.Name, len(c.InitT), nt)
		}
		for _, tb := range c.TBoundaries {
			if tb.Solute < 0 || tb.Solute >= nt {
				return chk.Err("channel %q: boundary transport references unknown solute index %d", c.Name, tb.Solute)
			}
		}
		for _, b := range c.Boundaries {
			if b.IsJunction() {
				other, ok := byName[b.Junction.Channel]
				if !ok {
					return chk.Err("channel %q: Junction references unknown channel %q", c.Name, b.Junction.Channel)
				}
				_ = other
			}
		}
	}
	return nil
}

// ChannelByName looks up a channel by name.
func (sys *System) ChannelByName(name string) *Channel {
	for _, c := range sys.Channels {
		if c.Name == name {
			return c
		}
	}
	return nil
}
