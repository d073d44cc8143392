// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package network validates channel-network topology ahead of mesh
// construction (spec §4.C stage 8, §7.3 BadTopology): channel ends are
// vertices and Junction links are edges of a graph, so that duplicate
// Junction references, dangling channel/section references, and frontal-
// vs-tributary classification can be expressed as ordinary graph
// operations instead of hand-rolled bookkeeping.
//
// Grounded on other_examples/d8ee3e9c_katalvlaran-lvlath__core-example_test.go.go
// and the flow-doc example, the only graph library retrieved in the pack.
package network

import (
	"github.com/cpmech/gosl/chk"
	"github.com/katalvlaran/lvlath/core"
)

// End identifies one channel end (Upstream=true is the x=0 end).
type End struct {
	Channel  string
	Upstream bool
}

// Topology wraps an lvlath graph whose vertices are channel ends
// ("chan@up"/"chan@down") and whose edges are Junction links between
// them; tributary links are ordinary edges to the named end, tagged in
// Kinds.
type Topology struct {
	g     *core.Graph
	Kinds map[string]bool // edge ID -> true if tributary, false if frontal
}

func vertexID(channel string, upstream bool) string {
	if upstream {
		return channel + "@up"
	}
	return channel + "@down"
}

// New builds an empty topology graph over the given channel names: one
// vertex per channel end.
func New(channelNames []string) (*Topology, error) {
	g := core.NewGraph(core.WithDirected(false))
	for _, name := range channelNames {
		if err := g.AddVertex(vertexID(name, true)); err != nil {
			return nil, chk.Err("network: cannot add channel %q upstream end: %v", name, err)
		}
		if err := g.AddVertex(vertexID(name, false)); err != nil {
			return nil, chk.Err("network: cannot add channel %q downstream end: %v", name, err)
		}
	}
	return &Topology{g: g, Kinds: make(map[string]bool)}, nil
}

// Link records a Junction reference between two channel ends, tagging it
// frontal (channel-end to channel-end) or tributary (mid-channel side
// tap, represented by linking to the channel's nearer end). Duplicate
// end-to-end references (A references B, B references A) collapse into
// the single edge lvlath already de-duplicates by vertex pair lookup.
func (t *Topology) Link(a, b End, tributary bool) error {
	va, vb := vertexID(a.Channel, a.Upstream), vertexID(b.Channel, b.Upstream)
	if existing, err := t.edgeBetween(va, vb); err == nil && existing != "" {
		return nil // already linked: frontal/tributary duplicate merges
	}
	id, err := t.g.AddEdge(va, vb, 0)
	if err != nil {
		return chk.Err("network: bad topology linking %q and %q: %v", va, vb, err)
	}
	t.Kinds[id] = tributary
	return nil
}

func (t *Topology) edgeBetween(va, vb string) (string, error) {
	neigh, err := t.g.NeighborIDs(va)
	if err != nil {
		return "", err
	}
	for _, n := range neigh {
		if n == vb {
			for _, e := range t.g.Edges() {
				if (e.From == va && e.To == vb) || (e.From == vb && e.To == va) {
					return e.ID, nil
				}
			}
		}
	}
	return "", nil
}

// Junctions groups linked channel ends into connected-component node
// clusters: every maximal set of ends reachable from one another through
// Link edges becomes one Junction (spec §4.C stage 8's duplicate-merge
// rule: "two channel ends referencing each other merge into one
// Junction").
func (t *Topology) Junctions() ([][]End, error) {
	visited := make(map[string]bool)
	var clusters [][]End
	for _, v := range t.g.Vertices() {
		if visited[v] {
			continue
		}
		neigh, err := t.g.NeighborIDs(v)
		if err != nil {
			return nil, chk.Err("network: %v", err)
		}
		if len(neigh) == 0 {
			continue // unreferenced channel end: not a junction
		}
		queue := []string{v}
		visited[v] = true
		var cluster []End
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			cluster = append(cluster, parseVertexID(u))
			adj, err := t.g.NeighborIDs(u)
			if err != nil {
				return nil, chk.Err("network: %v", err)
			}
			for _, w := range adj {
				if !visited[w] {
					visited[w] = true
					queue = append(queue, w)
				}
			}
		}
		clusters = append(clusters, cluster)
	}
	return clusters, nil
}

func parseVertexID(v string) End {
	for i := len(v) - 1; i >= 0; i-- {
		if v[i] == '@' {
			return End{Channel: v[:i], Upstream: v[i+1:] == "up"}
		}
	}
	return End{Channel: v}
}
