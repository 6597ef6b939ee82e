package dataflow

import (
	"testing"

	"github.com/l3aro/go-dataflow-query/pkg/cfg"
)

func TestIsDefinition(t *testing.T) {
	tests := []struct {
		name  string
		build func(g *cfg.Graph) int // returns the variable node under test
		want  bool
	}{
		{
			name: "formal parameter",
			build: func(g *cfg.Graph) int {
				v := g.AddNode(cfg.TypeVariable, "a")
				g.SetVar(v, "f", "a")
				p := g.AddNode(cfg.TypeFormalParam, "a")
				g.AddChild(v, p)
				return v
			},
			want: true,
		},
		{
			name: "optional parameter",
			build: func(g *cfg.Graph) int {
				v := g.AddNode(cfg.TypeVariable, "a")
				g.SetVar(v, "f", "a")
				p := g.AddNode(cfg.TypeOptionalParam, "a=1")
				g.AddChild(v, p)
				return v
			},
			want: true,
		},
		{
			name: "assignment left-hand side",
			build: func(g *cfg.Graph) int {
				v := g.AddNode(cfg.TypeVariable, "x")
				g.SetVar(v, "f", "x")
				rhs := g.AddNode(cfg.TypeExpression, "literal")
				binop := g.AddNode(cfg.TypeBinOP, "=")
				g.AddChild(binop, v)
				g.AddChild(binop, rhs)
				return v
			},
			want: true,
		},
		{
			name: "assignment right-hand side",
			build: func(g *cfg.Graph) int {
				lhs := g.AddNode(cfg.TypeVariable, "x")
				g.SetVar(lhs, "f", "x")
				v := g.AddNode(cfg.TypeVariable, "y")
				g.SetVar(v, "f", "y")
				binop := g.AddNode(cfg.TypeBinOP, "=")
				g.AddChild(binop, lhs)
				g.AddChild(binop, v)
				return v
			},
			want: false,
		},
		{
			name: "non-assignment binary operator",
			build: func(g *cfg.Graph) int {
				v := g.AddNode(cfg.TypeVariable, "x")
				g.SetVar(v, "f", "x")
				other := g.AddNode(cfg.TypeVariable, "y")
				g.SetVar(other, "f", "y")
				binop := g.AddNode(cfg.TypeBinOP, "+")
				g.AddChild(binop, v)
				g.AddChild(binop, other)
				return v
			},
			want: false,
		},
		{
			name: "member declaration tag carries a qualifier",
			build: func(g *cfg.Graph) int {
				v := g.AddNode(cfg.TypeVariable, "count")
				g.SetVar(v, "Counter", "count")
				decl := g.AddNode("FieldMemberDeclaration", "private int $count")
				g.AddChild(decl, v)
				return v
			},
			want: true,
		},
		{
			name: "global declaration",
			build: func(g *cfg.Graph) int {
				v := g.AddNode(cfg.TypeVariable, "total")
				g.SetVar(v, "global", "total")
				decl := g.AddNode(cfg.TypeGlobal, "global")
				g.AddChild(decl, v)
				return v
			},
			want: true,
		},
		{
			name: "orphan variable with no parent",
			build: func(g *cfg.Graph) int {
				v := g.AddNode(cfg.TypeVariable, "x")
				g.SetVar(v, "f", "x")
				return v
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := cfg.NewGraph("f")
			v := tt.build(g)
			got, err := IsDefinition(g, v)
			if err != nil {
				t.Fatalf("IsDefinition failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsDefinition = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDefinitionMalformedBinaryNode(t *testing.T) {
	g := cfg.NewGraph("f")
	v := g.AddNode(cfg.TypeVariable, "x")
	g.SetVar(v, "f", "x")
	binop := g.AddNode(cfg.TypeBinOP, "=")
	g.AddChild(binop, v) // one operand only

	if _, err := IsDefinition(g, v); err == nil {
		t.Fatal("IsDefinition succeeded on a binary node with one operand, want error")
	}
}

func TestVarEnumerators(t *testing.T) {
	g := cfg.NewGraph("f")
	def := g.AddNode(cfg.TypeVariable, "x")
	g.SetVar(def, "f", "x")
	rhs := g.AddNode(cfg.TypeExpression, "literal")
	binop := g.AddNode(cfg.TypeBinOP, "=")
	g.AddChild(binop, def)
	g.AddChild(binop, rhs)
	use := g.AddNode(cfg.TypeVariable, "x")
	g.SetVar(use, "f", "x")

	vars := AllVars(g)
	if len(vars) != 2 {
		t.Fatalf("AllVars = %v, want 2 nodes", vars)
	}

	defs, err := AllDefs(g)
	if err != nil {
		t.Fatalf("AllDefs failed: %v", err)
	}
	if len(defs) != 1 || defs[0] != def {
		t.Errorf("AllDefs = %v, want [%d]", defs, def)
	}

	refs, err := AllRefs(g)
	if err != nil {
		t.Fatalf("AllRefs failed: %v", err)
	}
	if len(refs) != 1 || refs[0] != use {
		t.Errorf("AllRefs = %v, want [%d]", refs, use)
	}
}
