package dataflow

// Analysis supplies the direction-specific hooks of one dataflow analysis.
// The generic Run driver owns the worklist; an analysis only decides what a
// node generates, where the frontier is seeded, how the local flow equation
// reads and writes the state, and which neighbors a value flows to.
type Analysis interface {
	// Name identifies the analysis in results and logs.
	Name() string

	// BuildGen computes the facts each node contributes independently of
	// incoming flow. For the built-in analyses gen is at most {nid}.
	BuildGen(g CFG) (map[int]NodeSet, error)

	// Boundary returns the nodes seeding the worklist: entry nodes for a
	// forward analysis, exit nodes for a backward one.
	Boundary(g CFG) []int

	// Seed initializes a boundary node's home slot to the empty set.
	Seed(st *State, nid int)

	// ApplyFlowEq recomputes the node's far slot from its near slot and
	// gen/kill.
	ApplyFlowEq(st *State, nid int)

	// NextNodes returns the neighbors a node's value flows to: control-flow
	// successors (forward) or predecessors (backward).
	NextNodes(g CFG, nid int) []int

	// CanPropagate reports whether flowing nid's far slot into next's near
	// slot would add new facts.
	CanPropagate(st *State, nid, next int) bool

	// Propagate merges nid's far slot into next's near slot.
	Propagate(st *State, nid, next int)
}

// State is the per-run dataflow state. In and Out hold one entry per node
// and only grow until fixpoint; Gen and Kill are fixed after setup.
type State struct {
	In   map[int]NodeSet
	Out  map[int]NodeSet
	Gen  map[int]NodeSet
	Kill map[int]NodeSet
}

// Run drives analysis a over graph g to fixpoint and returns the in/out
// value maps, one entry per node.
//
// A graph with no boundary nodes never seeds the worklist and yields
// all-empty maps; that is valid output, not an error. Errors only arise
// during setup, from a malformed graph (a binary node missing an operand).
func Run(g CFG, a Analysis) (*Result, error) {
	st, err := run(g, a)
	if err != nil {
		return nil, err
	}
	return &Result{Analysis: a.Name(), In: st.In, Out: st.Out}, nil
}

func run(g CFG, a Analysis) (*State, error) {
	allDefs, err := BuildDefs(g)
	if err != nil {
		return nil, err
	}
	gen, err := a.BuildGen(g)
	if err != nil {
		return nil, err
	}

	nodeIDs := g.NodeIDs()
	st := &State{
		In:   make(map[int]NodeSet, len(nodeIDs)),
		Out:  make(map[int]NodeSet, len(nodeIDs)),
		Gen:  gen,
		Kill: buildKill(g, gen, allDefs),
	}
	for _, nid := range nodeIDs {
		st.In[nid] = make(NodeSet)
		st.Out[nid] = make(NodeSet)
	}

	// Converge from each boundary node. Every value is a subset of the
	// finite node-id universe and only grows, so the loop terminates.
	visited := make(map[int]bool, len(nodeIDs))
	var worklist []int
	for _, boundary := range a.Boundary(g) {
		a.Seed(st, boundary)
		visited[boundary] = true
		worklist = append(worklist, boundary)

		for len(worklist) > 0 {
			nid := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]

			a.ApplyFlowEq(st, nid)
			for _, next := range a.NextNodes(g, nid) {
				if !visited[next] || a.CanPropagate(st, nid, next) {
					a.Propagate(st, nid, next)
					worklist = append(worklist, next)
					visited[next] = true
				}
			}
		}
	}

	return st, nil
}
