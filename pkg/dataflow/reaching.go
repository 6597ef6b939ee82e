package dataflow

// ReachingDefinitions is the forward may-analysis: at every program point,
// which definitions of a variable may still be in effect with no intervening
// reassignment. Values flow from entry nodes along control-flow successors.
type ReachingDefinitions struct{}

// Name implements Analysis.
func (ReachingDefinitions) Name() string { return "reaching-definitions" }

// BuildGen generates the singleton {nid} at every definition node.
func (ReachingDefinitions) BuildGen(g CFG) (map[int]NodeSet, error) {
	defs, err := AllDefs(g)
	if err != nil {
		return nil, err
	}
	gen := make(map[int]NodeSet, len(defs))
	for _, nid := range defs {
		gen[nid] = NewNodeSet(nid)
	}
	return gen, nil
}

// Boundary returns the Entry-tagged nodes.
func (ReachingDefinitions) Boundary(g CFG) []int {
	return nodesOfType(g, tagEntry)
}

// Seed sets in[entry] to the empty set.
func (ReachingDefinitions) Seed(st *State, nid int) {
	st.In[nid] = make(NodeSet)
}

// ApplyFlowEq computes out[n] = gen[n] ∪ (in[n] \ kill[n]).
func (ReachingDefinitions) ApplyFlowEq(st *State, nid int) {
	out := st.In[nid].Minus(st.Kill[nid])
	out.Union(st.Gen[nid])
	st.Out[nid] = out
}

// NextNodes walks control-flow successors.
func (ReachingDefinitions) NextNodes(g CFG, nid int) []int {
	return g.AnyChildren(nid)
}

// CanPropagate reports whether out[nid] \ in[next] is non-empty.
func (ReachingDefinitions) CanPropagate(st *State, nid, next int) bool {
	return st.Out[nid].AddsTo(st.In[next])
}

// Propagate merges out[nid] into in[next].
func (ReachingDefinitions) Propagate(st *State, nid, next int) {
	st.In[next].Union(st.Out[nid])
}

func nodesOfType(g CFG, tag string) []int {
	var out []int
	for _, nid := range g.NodeIDs() {
		if g.Type(nid) == tag {
			out = append(out, nid)
		}
	}
	return out
}
