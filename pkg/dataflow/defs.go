package dataflow

// BuildDefs builds the whole-program definition index: variable key to the
// set of all nodes that define that variable. It is a property of the graph,
// not of any particular analysis, and is computed once per run.
func BuildDefs(g CFG) (map[VarKey]NodeSet, error) {
	defs, err := AllDefs(g)
	if err != nil {
		return nil, err
	}

	allDefs := make(map[VarKey]NodeSet)
	for _, nid := range defs {
		key := varKey(g, nid)
		if allDefs[key] == nil {
			allDefs[key] = make(NodeSet)
		}
		allDefs[key].Add(nid)
	}
	return allDefs, nil
}

// buildKill computes the kill set for every node with a non-empty gen set:
// each generated node contributes every *other* whole-program definition of
// its variable. The rule is shared by both analyses and applied identically
// whether the generated node is a definition or a reference.
func buildKill(g CFG, gen map[int]NodeSet, allDefs map[VarKey]NodeSet) map[int]NodeSet {
	kill := make(map[int]NodeSet, len(gen))
	for nid, varNids := range gen {
		ks := make(NodeSet)
		for varNid := range varNids {
			ks.Union(allDefs[varKey(g, varNid)].Minus(varNids))
		}
		kill[nid] = ks
	}
	return kill
}
