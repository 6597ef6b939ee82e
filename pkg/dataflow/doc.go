// Package dataflow implements a generic worklist-based fixpoint solver for
// monotone may-analyses over a control flow graph, together with two concrete
// analyses: possibly-reaching definitions (forward) and possibly-reachable
// references (backward).
//
// The engine is parameterized by the Analysis interface: a new analysis is
// added by supplying a direction (NextNodes), a gen-set rule (BuildGen),
// boundary nodes (Boundary/Seed), and a flow equation; the definition index
// and kill-set scaffolding are shared. The graph itself is consumed through
// the read-only CFG interface and is never mutated.
package dataflow
