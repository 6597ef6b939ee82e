package dataflow

import (
	"testing"

	"github.com/l3aro/go-dataflow-query/pkg/cfg"
)

// chainGraph builds the minimal 4-step chain
// Entry -> x = ... -> use of x -> Exit
// and returns the graph plus the ids of the definition and use nodes.
func chainGraph(t *testing.T) (g *cfg.Graph, entry, def, use, exit int) {
	t.Helper()
	g = cfg.NewGraph("f")

	entry = g.AddNode(cfg.TypeEntry, "entry")
	def = g.AddNode(cfg.TypeVariable, "x")
	g.SetVar(def, "global", "x")
	use = g.AddNode(cfg.TypeVariable, "x")
	g.SetVar(use, "global", "x")
	exit = g.AddNode(cfg.TypeExit, "exit")

	rhs := g.AddNode(cfg.TypeExpression, "literal")
	binop := g.AddNode(cfg.TypeBinOP, "=")
	g.AddChild(binop, def)
	g.AddChild(binop, rhs)

	g.AddFlowEdge(entry, def)
	g.AddFlowEdge(def, use)
	g.AddFlowEdge(use, exit)
	return g, entry, def, use, exit
}

func TestReachingDefinitionsChain(t *testing.T) {
	g, entry, def, use, exit := chainGraph(t)

	res, err := Run(g, ReachingDefinitions{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.In[entry]) != 0 || len(res.Out[entry]) != 0 {
		t.Errorf("entry: in=%v out=%v, want both empty", res.In[entry].Sorted(), res.Out[entry].Sorted())
	}
	if len(res.In[def]) != 0 {
		t.Errorf("in[def] = %v, want empty", res.In[def].Sorted())
	}
	for _, nid := range []int{def, use, exit} {
		if !res.Out[nid].Equal(NewNodeSet(def)) {
			t.Errorf("out[%d] = %v, want {%d}", nid, res.Out[nid].Sorted(), def)
		}
	}
	if !res.In[use].Equal(NewNodeSet(def)) {
		t.Errorf("in[use] = %v, want {%d}", res.In[use].Sorted(), def)
	}
	if !res.In[exit].Equal(NewNodeSet(def)) {
		t.Errorf("in[exit] = %v, want {%d}", res.In[exit].Sorted(), def)
	}
}

func TestReachableReferencesChain(t *testing.T) {
	g, entry, def, use, exit := chainGraph(t)

	res, err := Run(g, ReachableReferences{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Out[exit]) != 0 || len(res.In[exit]) != 0 {
		t.Errorf("exit: in=%v out=%v, want both empty", res.In[exit].Sorted(), res.Out[exit].Sorted())
	}
	if len(res.Out[use]) != 0 {
		t.Errorf("out[use] = %v, want empty", res.Out[use].Sorted())
	}
	if !res.In[use].Equal(NewNodeSet(use)) {
		t.Errorf("in[use] = %v, want {%d}", res.In[use].Sorted(), use)
	}
	// the use flows backward past the definition: the definition node has no
	// gen here and an empty kill, so the reference survives
	if !res.Out[def].Equal(NewNodeSet(use)) {
		t.Errorf("out[def] = %v, want {%d}", res.Out[def].Sorted(), use)
	}
	if !res.In[def].Equal(NewNodeSet(use)) {
		t.Errorf("in[def] = %v, want {%d}", res.In[def].Sorted(), use)
	}
	if !res.Out[entry].Equal(NewNodeSet(use)) {
		t.Errorf("out[entry] = %v, want {%d}", res.Out[entry].Sorted(), use)
	}
}

// joinGraph builds two definitions of x on separate branches meeting at a
// join node that uses x.
func joinGraph(t *testing.T) (g *cfg.Graph, defA, defB, join int) {
	t.Helper()
	g = cfg.NewGraph("f")

	entry := g.AddNode(cfg.TypeEntry, "entry")
	defA = g.AddNode(cfg.TypeVariable, "x")
	g.SetVar(defA, "f", "x")
	defB = g.AddNode(cfg.TypeVariable, "x")
	g.SetVar(defB, "f", "x")
	join = g.AddNode(cfg.TypeVariable, "x")
	g.SetVar(join, "f", "x")
	exit := g.AddNode(cfg.TypeExit, "exit")

	for _, def := range []int{defA, defB} {
		rhs := g.AddNode(cfg.TypeExpression, "literal")
		binop := g.AddNode(cfg.TypeBinOP, "=")
		g.AddChild(binop, def)
		g.AddChild(binop, rhs)
	}

	g.AddFlowEdge(entry, defA)
	g.AddFlowEdge(entry, defB)
	g.AddFlowEdge(defA, join)
	g.AddFlowEdge(defB, join)
	g.AddFlowEdge(join, exit)
	return g, defA, defB, join
}

func TestReachingDefinitionsJoin(t *testing.T) {
	g, defA, defB, join := joinGraph(t)

	res, err := Run(g, ReachingDefinitions{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// both definitions survive the merge, not just one
	if !res.In[join].Equal(NewNodeSet(defA, defB)) {
		t.Errorf("in[join] = %v, want {%d, %d}", res.In[join].Sorted(), defA, defB)
	}
	// each definition kills the other on its own path
	if !res.Out[defA].Equal(NewNodeSet(defA)) {
		t.Errorf("out[defA] = %v, want {%d}", res.Out[defA].Sorted(), defA)
	}
	if !res.Out[defB].Equal(NewNodeSet(defB)) {
		t.Errorf("out[defB] = %v, want {%d}", res.Out[defB].Sorted(), defB)
	}
}

func TestNoEntryNodeYieldsEmptyMaps(t *testing.T) {
	g := cfg.NewGraph("f")
	a := g.AddNode(cfg.TypeVariable, "x")
	g.SetVar(a, "f", "x")
	b := g.AddNode(cfg.TypeVariable, "x")
	g.SetVar(b, "f", "x")
	g.AddFlowEdge(a, b)

	res, err := Run(g, ReachingDefinitions{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, nid := range g.NodeIDs() {
		if len(res.In[nid]) != 0 || len(res.Out[nid]) != 0 {
			t.Errorf("node %d: in=%v out=%v, want empty", nid, res.In[nid].Sorted(), res.Out[nid].Sorted())
		}
	}
}

func TestCyclicGraphTerminates(t *testing.T) {
	g := cfg.NewGraph("f")
	entry := g.AddNode(cfg.TypeEntry, "entry")
	def := g.AddNode(cfg.TypeVariable, "x")
	g.SetVar(def, "f", "x")
	use := g.AddNode(cfg.TypeVariable, "x")
	g.SetVar(use, "f", "x")
	exit := g.AddNode(cfg.TypeExit, "exit")

	rhs := g.AddNode(cfg.TypeExpression, "literal")
	binop := g.AddNode(cfg.TypeBinOP, "=")
	g.AddChild(binop, def)
	g.AddChild(binop, rhs)

	// entry -> def -> use -> def (loop back edge), use -> exit
	g.AddFlowEdge(entry, def)
	g.AddFlowEdge(def, use)
	g.AddFlowEdge(use, def)
	g.AddFlowEdge(use, exit)

	res, err := Run(g, ReachingDefinitions{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !res.In[exit].Equal(NewNodeSet(def)) {
		t.Errorf("in[exit] = %v, want {%d}", res.In[exit].Sorted(), def)
	}
}

// TestFixpointConsistency re-applies the flow equation after convergence and
// asserts nothing changes.
func TestFixpointConsistency(t *testing.T) {
	g, _, _, _ := joinGraph(t)

	for _, a := range []Analysis{ReachingDefinitions{}, ReachableReferences{}} {
		st, err := run(g, a)
		if err != nil {
			t.Fatalf("%s: run failed: %v", a.Name(), err)
		}

		for _, nid := range g.NodeIDs() {
			oldIn := st.In[nid].Copy()
			oldOut := st.Out[nid].Copy()
			a.ApplyFlowEq(st, nid)
			if !st.In[nid].Equal(oldIn) || !st.Out[nid].Equal(oldOut) {
				t.Errorf("%s: node %d not at fixpoint: in %v -> %v, out %v -> %v",
					a.Name(), nid, oldIn.Sorted(), st.In[nid].Sorted(), oldOut.Sorted(), st.Out[nid].Sorted())
			}
		}
	}
}

func TestMalformedBinaryNodeFailsRun(t *testing.T) {
	g := cfg.NewGraph("f")
	g.AddNode(cfg.TypeEntry, "entry")
	v := g.AddNode(cfg.TypeVariable, "x")
	g.SetVar(v, "f", "x")
	binop := g.AddNode(cfg.TypeBinOP, "=")
	g.AddChild(binop, v) // missing right operand

	if _, err := Run(g, ReachingDefinitions{}); err == nil {
		t.Fatal("Run succeeded on a binary node with one operand, want error")
	}
}
