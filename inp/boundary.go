// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import "github.com/cpmech/gosl/chk"

// BoundaryKind enumerates the BoundaryFlow variants of spec §3.
type BoundaryKind string

// boundary kinds
const (
	BKQ             BoundaryKind = "Q"
	BKH             BoundaryKind = "H"
	BKZ             BoundaryKind = "Z"
	BKQT            BoundaryKind = "QT"
	BKHT            BoundaryKind = "HT"
	BKZT            BoundaryKind = "ZT"
	BKQ_H           BoundaryKind = "Q_H"
	BKQ_Z           BoundaryKind = "Q_Z"
	BKQT_HT         BoundaryKind = "QT_HT"
	BKQT_ZT         BoundaryKind = "QT_ZT"
	BKQH            BoundaryKind = "QH"
	BKQZ            BoundaryKind = "QZ"
	BKGate          BoundaryKind = "Gate"
	BKDam           BoundaryKind = "Dam"
	BKPipe          BoundaryKind = "Pipe"
	BKJunction      BoundaryKind = "Junction"
	BKSupercritical BoundaryKind = "Supercritical"
)

// RatingPoint is one (x, y) sample of a rating curve or time series.
type RatingPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GateData describes a sluice gate: time-varying opening over a fixed
// width, combining orifice and weir discharge laws.
type GateData struct {
	Width      float64 `json:"width"`      // fixed gate width
	SillLevel  float64 `json:"sill"`       // bottom of the gate opening
	OpeningFcn string  `json:"openingfcn"` // name of time function giving opening height
	DischCoef  float64 `json:"dischcoef"`  // discharge coefficient
}

// DamData describes a broad-crested weir over a fixed crest level whose
// discharge is scaled by a named time function.
type DamData struct {
	CrestLevel float64 `json:"crest"`     // weir crest level
	Width      float64 `json:"width"`     // weir crest width
	DischCoef  float64 `json:"dischcoef"` // discharge coefficient
	RatingFcn  string  `json:"ratingfcn"` // name of time function scaling the weir discharge
}

// PipeData describes a constant-bottom-offset volumetric transfer between
// the cross sections Pos and Pos2 of the boundary's own channel.
// TargetChan and TargetPos are decoded but not used by the transfer, so
// transfers between different channels are not performed.
type PipeData struct {
	Diameter    float64 `json:"diameter"`
	OffsetIn    float64 `json:"offsetin"`  // bottom offset at the source end
	OffsetOut   float64 `json:"offsetout"` // bottom offset at the target end
	DischCoef   float64 `json:"dischcoef"`
	TargetChan  string  `json:"targetchan"`
	TargetPos   int     `json:"targetpos"`
}

// JunctionLink names the other channel end(s) this BoundaryFlow links to.
// Frontal links join channel-end to channel-end; tributary links tap a
// mid-channel side of the named channel.
type JunctionLink struct {
	Tributary  bool   `json:"tributary"`
	Channel    string `json:"channel"`
	Pos        int    `json:"pos"`
	AtChanEnd  bool   `json:"atchanend"` // true: links to the named channel's upstream end, false: its downstream end (frontal vs tributary is given by Tributary)
}

// BoundaryFlow is a named boundary condition applied over an interval
// [Pos,Pos2] of cross-section indices within one channel.
type BoundaryFlow struct {
	Kind BoundaryKind `json:"kind"`
	Pos  int          `json:"pos"`
	Pos2 int          `json:"pos2"`

	// Q/H/Z steady scalar value, or the Q-part of Q_H/Q_Z
	Value  float64 `json:"value"`
	Value2 float64 `json:"value2"` // the H/Z part of Q_H/Q_Z

	// QT/HT/ZT and the _HT/_ZT combinations: named time functions
	Func  string `json:"func"`
	Func2 string `json:"func2"`

	// QH/QZ: rating curve, discharge as function of local depth or stage
	Rating []RatingPoint `json:"rating"`

	Gate     *GateData     `json:"gate,omitempty"`
	Dam      *DamData      `json:"dam,omitempty"`
	Pipe     *PipeData     `json:"pipe,omitempty"`
	Junction *JunctionLink `json:"junction,omitempty"`

	// resolved at mesh-build time
	CellPos, CellPos2 int `json:"-"`

	// rate recorded by the boundary's handler in the last applied step
	// (discharge, or transferred volume per unit time for Dam/Pipe);
	// logged by outp.LogContributions for every non-Junction boundary
	Contribution float64 `json:"-"`
}

// Validate checks the structural invariants a BoundaryFlow must satisfy
// given its Kind (non-nil payload, sane Pos/Pos2 ordering).
func (b *BoundaryFlow) Validate(channelName string) error {
	if b.Pos2 < b.Pos {
		b.Pos, b.Pos2 = b.Pos2, b.Pos
	}
	switch b.Kind {
	case BKGate:
		if b.Gate == nil {
			return chk.Err("channel %q: Gate boundary missing gate data", channelName)
		}
	case BKDam:
		if b.Dam == nil {
			return chk.Err("channel %q: Dam boundary missing dam data", channelName)
		}
	case BKPipe:
		if b.Pipe == nil {
			return chk.Err("channel %q: Pipe boundary missing pipe data", channelName)
		}
	case BKJunction:
		if b.Junction == nil {
			return chk.Err("channel %q: Junction boundary missing junction link", channelName)
		}
	case BKQH, BKQZ:
		if len(b.Rating) < 2 {
			return chk.Err("channel %q: rating boundary needs at least 2 points", channelName)
		}
	case BKQ, BKH, BKZ, BKQT, BKHT, BKZT, BKQ_H, BKQ_Z, BKQT_HT, BKQT_ZT, BKSupercritical:
		// no further structural requirement
	default:
		return chk.Err("channel %q: unknown boundary kind %q", channelName, b.Kind)
	}
	return nil
}

// IsJunction reports whether this boundary links to another channel.
func (b *BoundaryFlow) IsJunction() bool { return b.Kind == BKJunction }
