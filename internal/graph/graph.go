// Package graph turns a decoded Marshal tree into a lattice graph.
package graph

import (
	"fmt"

	"github.com/zboralski/lattice"

	"rxmarshal/internal/marshal"
	"rxmarshal/internal/resolve"
)

// NodeID names a record in the graph: "r<offset>:<tag>".
func NodeID(r *marshal.Record) string {
	return fmt.Sprintf("r%d:%s", r.Offset, r.Tag)
}

// Build constructs a lattice.Graph from a decoded tree.
// Every record becomes a node and every container gets an edge to each
// child in encoding order. Symlinks and object links get an edge to the
// record they refer to when tbl can resolve them; dangling links are kept
// as leaves. maxNodes > 0 stops adding records once that many are present.
func Build(root *marshal.Record, tbl *resolve.Table, maxNodes int) *lattice.Graph {
	g := &lattice.Graph{}
	in := make(map[*marshal.Record]bool)

	marshal.Walk(root, func(r *marshal.Record, _ int) error {
		if maxNodes > 0 && len(g.Nodes) >= maxNodes {
			return marshal.SkipChildren
		}
		in[r] = true
		g.Nodes = append(g.Nodes, NodeID(r))
		return nil
	})

	marshal.Walk(root, func(r *marshal.Record, _ int) error {
		if !in[r] {
			return marshal.SkipChildren
		}
		for _, c := range r.Children() {
			if in[c] {
				g.Edges = append(g.Edges, lattice.Edge{Caller: NodeID(r), Callee: NodeID(c)})
			}
		}
		if target := linkTarget(r, tbl); target != nil && in[target] {
			g.Edges = append(g.Edges, lattice.Edge{Caller: NodeID(r), Callee: NodeID(target)})
		}
		return nil
	})

	g.Dedup()
	return g
}

func linkTarget(r *marshal.Record, tbl *resolve.Table) *marshal.Record {
	if tbl == nil {
		return nil
	}
	idx, ok := r.LinkIndex()
	if !ok || idx < 0 {
		return nil
	}
	switch r.Tag {
	case marshal.TagSymlink:
		if idx < int64(len(tbl.Symbols)) {
			return tbl.Symbols[idx]
		}
	case marshal.TagLink:
		if idx < int64(len(tbl.Objects)) {
			return tbl.Objects[idx]
		}
	}
	return nil
}
