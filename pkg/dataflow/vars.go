package dataflow

import "strings"

// Node type tags the classifier inspects. The CFG adapter owns the
// vocabulary; the analyses only match on it.
const (
	tagVariable      = "Variable"
	tagBinOP         = "BinOP"
	tagEntry         = "Entry"
	tagExit          = "Exit"
	tagGlobal        = "Global"
	tagFormalParam   = "FormalParameter"
	tagOptionalParam = "OptionalFormalParameter"

	imageAssign = "="

	// Member declarations may carry qualifiers in their tag
	// ("PropertyMemberDeclaration", "FieldMemberDeclaration", ...), so the
	// classifier matches on the substring.
	memberDeclTag = "MemberDeclaration"
)

// IsDefinition reports whether a variable-occurrence node defines its
// variable. A variable node is a definition iff it is a declared parameter,
// the left-hand side of an assignment, a member declaration, or a global
// declaration. Every other variable occurrence is a use.
//
// Malformed graphs degrade to "not a definition" (a variable with no parent,
// no children), except for a binary node missing an operand, which is a
// precondition violation reported to the caller.
func IsDefinition(g CFG, nid int) (bool, error) {
	// Declared parameter: the occurrence wraps a formal-parameter node.
	if children := g.Children(nid); len(children) > 0 {
		switch g.Type(children[0]) {
		case tagFormalParam, tagOptionalParam:
			return true, nil
		}
	}

	for _, parent := range g.Parents(nid) {
		ptype := g.Type(parent)

		// Left-hand side of an assignment-shaped binary node.
		if ptype == tagBinOP && g.Image(parent) == imageAssign {
			left, _, err := g.OpHands(parent)
			if err != nil {
				return false, err
			}
			if left == nid {
				return true, nil
			}
			continue
		}

		if strings.Contains(ptype, memberDeclTag) {
			return true, nil
		}
		if ptype == tagGlobal {
			return true, nil
		}
	}

	return false, nil
}

// AllVars returns every variable-occurrence node in the graph.
func AllVars(g CFG) []int {
	var vars []int
	for _, nid := range g.NodeIDs() {
		if g.Type(nid) == tagVariable {
			vars = append(vars, nid)
		}
	}
	return vars
}

// AllDefs returns every variable node classified as a definition.
func AllDefs(g CFG) ([]int, error) {
	return filterVars(g, true)
}

// AllRefs returns every variable node classified as a use.
func AllRefs(g CFG) ([]int, error) {
	return filterVars(g, false)
}

func filterVars(g CFG, wantDef bool) ([]int, error) {
	var out []int
	for _, nid := range AllVars(g) {
		def, err := IsDefinition(g, nid)
		if err != nil {
			return nil, err
		}
		if def == wantDef {
			out = append(out, nid)
		}
	}
	return out, nil
}
