// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_junction01(tst *testing.T) {
	chk.PrintTitle("junction01")
	topo, err := New([]string{"main", "trib1", "trib2"})
	if err != nil {
		tst.Fatalf("New: %v", err)
	}
	if err := topo.Link(End{"main", false}, End{"trib1", true}, false); err != nil {
		tst.Fatalf("link: %v", err)
	}
	if err := topo.Link(End{"main", false}, End{"trib2", true}, true); err != nil {
		tst.Fatalf("link: %v", err)
	}
	// duplicate reference from the other side should merge, not error
	if err := topo.Link(End{"trib1", true}, End{"main", false}, false); err != nil {
		tst.Fatalf("duplicate link: %v", err)
	}
	clusters, err := topo.Junctions()
	if err != nil {
		tst.Fatalf("Junctions: %v", err)
	}
	if len(clusters) != 1 {
		tst.Fatalf("expected 1 junction cluster, got %d", len(clusters))
	}
	if len(clusters[0]) != 3 {
		tst.Errorf("expected 3 ends in the junction, got %d", len(clusters[0]))
	}
}

func Test_noJunction(tst *testing.T) {
	chk.PrintTitle("noJunction")
	topo, err := New([]string{"isolated"})
	if err != nil {
		tst.Fatalf("New: %v", err)
	}
	clusters, err := topo.Junctions()
	if err != nil {
		tst.Fatalf("Junctions: %v", err)
	}
	if len(clusters) != 0 {
		tst.Errorf("expected no junction clusters for an unlinked channel, got %d", len(clusters))
	}
}
