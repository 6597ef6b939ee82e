package dataflow

import (
	"testing"

	"github.com/l3aro/go-dataflow-query/pkg/cfg"
)

// findVars returns the ids of variable occurrences with the given image,
// split into definitions and uses.
func findVars(t *testing.T, g *cfg.Graph, name string) (defs, uses []int) {
	t.Helper()
	for _, nid := range g.NodeIDs() {
		if g.Type(nid) != cfg.TypeVariable || g.Image(nid) != name {
			continue
		}
		isDef, err := IsDefinition(g, nid)
		if err != nil {
			t.Fatalf("IsDefinition(%d) failed: %v", nid, err)
		}
		if isDef {
			defs = append(defs, nid)
		} else {
			uses = append(uses, nid)
		}
	}
	return defs, uses
}

func TestReachingDefinitionsOverPythonSource(t *testing.T) {
	src := []byte(`
def compute(a, b):
    x = a + b
    if x:
        y = x
    else:
        y = b
    return y
`)
	g, err := cfg.BuildPython(src, "compute")
	if err != nil {
		t.Fatalf("BuildPython failed: %v", err)
	}

	yDefs, yUses := findVars(t, g, "y")
	if len(yDefs) != 2 {
		t.Fatalf("definitions of y = %v, want 2", yDefs)
	}
	if len(yUses) != 1 {
		t.Fatalf("uses of y = %v, want 1", yUses)
	}

	res, err := Run(g, ReachingDefinitions{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// both branch definitions of y reach the use at the return
	for _, d := range yDefs {
		if !res.In[yUses[0]].Has(d) {
			t.Errorf("in[use of y] = %v, missing definition %d", res.In[yUses[0]].Sorted(), d)
		}
	}

	// the parameter definitions reach the x assignment
	aDefs, _ := findVars(t, g, "a")
	if len(aDefs) != 1 {
		t.Fatalf("definitions of a = %v, want 1", aDefs)
	}
	xDefs, _ := findVars(t, g, "x")
	if len(xDefs) != 1 {
		t.Fatalf("definitions of x = %v, want 1", xDefs)
	}
	if !res.In[xDefs[0]].Has(aDefs[0]) {
		t.Errorf("in[def of x] = %v, missing parameter definition %d", res.In[xDefs[0]].Sorted(), aDefs[0])
	}
}

func TestReachableReferencesOverPythonSource(t *testing.T) {
	src := []byte(`
def double(n):
    m = n + n
    return m
`)
	g, err := cfg.BuildPython(src, "double")
	if err != nil {
		t.Fatalf("BuildPython failed: %v", err)
	}

	mDefs, mUses := findVars(t, g, "m")
	if len(mDefs) != 1 || len(mUses) != 1 {
		t.Fatalf("m occurrences: defs=%v uses=%v, want one each", mDefs, mUses)
	}

	res, err := Run(g, ReachableReferences{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// the return's use of m flows backward to the definition of m
	if !res.Out[mDefs[0]].Has(mUses[0]) {
		t.Errorf("out[def of m] = %v, missing use %d", res.Out[mDefs[0]].Sorted(), mUses[0])
	}
}
