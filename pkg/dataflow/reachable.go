package dataflow

// ReachableReferences is the backward may-analysis: at every program point,
// which uses of a variable may still observe the value live there, with no
// intervening redefinition. Values flow from exit nodes along control-flow
// predecessors.
type ReachableReferences struct{}

// Name implements Analysis.
func (ReachableReferences) Name() string { return "reachable-references" }

// BuildGen generates the singleton {nid} at every reference node.
func (ReachableReferences) BuildGen(g CFG) (map[int]NodeSet, error) {
	refs, err := AllRefs(g)
	if err != nil {
		return nil, err
	}
	gen := make(map[int]NodeSet, len(refs))
	for _, nid := range refs {
		gen[nid] = NewNodeSet(nid)
	}
	return gen, nil
}

// Boundary returns the Exit-tagged nodes.
func (ReachableReferences) Boundary(g CFG) []int {
	return nodesOfType(g, tagExit)
}

// Seed sets out[exit] to the empty set.
func (ReachableReferences) Seed(st *State, nid int) {
	st.Out[nid] = make(NodeSet)
}

// ApplyFlowEq computes in[n] = gen[n] ∪ (out[n] \ kill[n]).
func (ReachableReferences) ApplyFlowEq(st *State, nid int) {
	in := st.Out[nid].Minus(st.Kill[nid])
	in.Union(st.Gen[nid])
	st.In[nid] = in
}

// NextNodes walks control-flow predecessors.
func (ReachableReferences) NextNodes(g CFG, nid int) []int {
	return g.AnyParents(nid)
}

// CanPropagate reports whether in[nid] \ out[next] is non-empty.
func (ReachableReferences) CanPropagate(st *State, nid, next int) bool {
	return st.In[nid].AddsTo(st.Out[next])
}

// Propagate merges in[nid] into out[next].
func (ReachableReferences) Propagate(st *State, nid, next int) {
	st.Out[next].Union(st.In[nid])
}
