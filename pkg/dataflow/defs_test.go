package dataflow

import (
	"testing"

	"github.com/l3aro/go-dataflow-query/pkg/cfg"
)

// defGraph builds three definitions of x and one of y.
func defGraph(t *testing.T) (g *cfg.Graph, xDefs [3]int, yDef int) {
	t.Helper()
	g = cfg.NewGraph("f")

	addDef := func(scope, name string) int {
		v := g.AddNode(cfg.TypeVariable, name)
		g.SetVar(v, scope, name)
		rhs := g.AddNode(cfg.TypeExpression, "literal")
		binop := g.AddNode(cfg.TypeBinOP, "=")
		g.AddChild(binop, v)
		g.AddChild(binop, rhs)
		return v
	}

	for i := range xDefs {
		xDefs[i] = addDef("f", "x")
	}
	yDef = addDef("f", "y")
	return g, xDefs, yDef
}

func TestBuildDefsGroupsByVariableKey(t *testing.T) {
	g, xDefs, yDef := defGraph(t)

	allDefs, err := BuildDefs(g)
	if err != nil {
		t.Fatalf("BuildDefs failed: %v", err)
	}

	xKey := VarKey{Scope: "f", Name: "x"}
	if !allDefs[xKey].Equal(NewNodeSet(xDefs[0], xDefs[1], xDefs[2])) {
		t.Errorf("allDefs[x] = %v, want %v", allDefs[xKey].Sorted(), xDefs)
	}
	yKey := VarKey{Scope: "f", Name: "y"}
	if !allDefs[yKey].Equal(NewNodeSet(yDef)) {
		t.Errorf("allDefs[y] = %v, want {%d}", allDefs[yKey].Sorted(), yDef)
	}
}

// TestKillCompleteness checks that every definition kills every other
// whole-program definition of the same variable and never itself, and that
// definitions of other variables are untouched.
func TestKillCompleteness(t *testing.T) {
	g, xDefs, yDef := defGraph(t)

	allDefs, err := BuildDefs(g)
	if err != nil {
		t.Fatalf("BuildDefs failed: %v", err)
	}
	gen, err := ReachingDefinitions{}.BuildGen(g)
	if err != nil {
		t.Fatalf("BuildGen failed: %v", err)
	}
	kill := buildKill(g, gen, allDefs)

	for i, d := range xDefs {
		if kill[d].Has(d) {
			t.Errorf("kill[%d] contains the node itself", d)
		}
		if kill[d].Has(yDef) {
			t.Errorf("kill[%d] contains a definition of another variable", d)
		}
		for j, other := range xDefs {
			if i != j && !kill[d].Has(other) {
				t.Errorf("kill[%d] is missing sibling definition %d", d, other)
			}
		}
	}
	if len(kill[yDef]) != 0 {
		t.Errorf("kill[yDef] = %v, want empty", kill[yDef].Sorted())
	}
}

func TestKillEmptyForNodesWithoutGen(t *testing.T) {
	g, _, _ := defGraph(t)

	allDefs, err := BuildDefs(g)
	if err != nil {
		t.Fatalf("BuildDefs failed: %v", err)
	}
	kill := buildKill(g, map[int]NodeSet{}, allDefs)
	if len(kill) != 0 {
		t.Errorf("kill = %v, want no entries", kill)
	}
}
