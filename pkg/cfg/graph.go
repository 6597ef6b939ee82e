// Package cfg builds node-level control flow graphs from source files using
// tree-sitter. Nodes carry a type tag and textual image; structural edges
// describe the program shape and flow edges describe possible execution
// order. The resulting Graph is the input to the dataflow analyses.
package cfg

import "fmt"

// Node type tags produced by the builders.
const (
	TypeEntry         = "Entry"
	TypeExit          = "Exit"
	TypeVariable      = "Variable"
	TypeBinOP         = "BinOP"
	TypeExpression    = "Expression"
	TypeCall          = "Call"
	TypeFormalParam   = "FormalParameter"
	TypeOptionalParam = "OptionalFormalParameter"
	TypeGlobal        = "Global"
	TypePropertyDecl  = "PropertyMemberDeclaration"
	TypeReturn        = "Return"
	TypeCondition     = "Condition"
)

// node is one CFG node. Structural children/parents mirror the syntax tree;
// flowSucc/flowPred are control-flow edges of every kind.
type node struct {
	id       int
	typ      string
	image    string
	line     int
	children []int
	parents  []int
	flowSucc []int
	flowPred []int
	scope    string
	varName  string
}

// Graph is a node-level control flow graph. Node ids are contiguous from 0
// in creation order. The zero value is not usable; call NewGraph.
type Graph struct {
	FunctionName string
	nodes        []*node
}

// NewGraph creates an empty graph for the named function.
func NewGraph(functionName string) *Graph {
	return &Graph{FunctionName: functionName}
}

// AddNode creates a node with the given type tag and image and returns its id.
func (g *Graph) AddNode(typ, image string) int {
	id := len(g.nodes)
	g.nodes = append(g.nodes, &node{id: id, typ: typ, image: image})
	return id
}

// SetVar records the declaring scope and name of a variable node.
func (g *Graph) SetVar(nid int, scope, name string) {
	g.nodes[nid].scope = scope
	g.nodes[nid].varName = name
}

// SetLine records the source line of a node.
func (g *Graph) SetLine(nid, line int) {
	g.nodes[nid].line = line
}

// Line returns the source line of a node, 0 when unknown.
func (g *Graph) Line(nid int) int {
	return g.nodes[nid].line
}

// AddChild appends a structural edge from parent to child.
func (g *Graph) AddChild(parent, child int) {
	g.nodes[parent].children = append(g.nodes[parent].children, child)
	g.nodes[child].parents = append(g.nodes[child].parents, parent)
}

// AddFlowEdge appends a control-flow edge from one node to another.
func (g *Graph) AddFlowEdge(from, to int) {
	g.nodes[from].flowSucc = append(g.nodes[from].flowSucc, to)
	g.nodes[to].flowPred = append(g.nodes[to].flowPred, from)
}

// NodeIDs enumerates every node id.
func (g *Graph) NodeIDs() []int {
	ids := make([]int, len(g.nodes))
	for i := range g.nodes {
		ids[i] = i
	}
	return ids
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Type returns the node's type tag.
func (g *Graph) Type(nid int) string { return g.nodes[nid].typ }

// Image returns the node's textual image.
func (g *Graph) Image(nid int) string { return g.nodes[nid].image }

// Children returns the node's structural children in order.
func (g *Graph) Children(nid int) []int { return g.nodes[nid].children }

// Parents returns the node's structural parents.
func (g *Graph) Parents(nid int) []int { return g.nodes[nid].parents }

// OpHands returns the two operands of a binary-operator node. It fails when
// the node has fewer than two structural children, which indicates a
// malformed graph rather than a recoverable condition.
func (g *Graph) OpHands(nid int) (left, right int, err error) {
	children := g.nodes[nid].children
	if len(children) < 2 {
		return 0, 0, fmt.Errorf("node %d (%s): binary node has %d operand(s), want 2",
			nid, g.nodes[nid].typ, len(children))
	}
	return children[0], children[1], nil
}

// AnyChildren returns all control-flow successors of the node.
func (g *Graph) AnyChildren(nid int) []int { return g.nodes[nid].flowSucc }

// AnyParents returns all control-flow predecessors of the node.
func (g *Graph) AnyParents(nid int) []int { return g.nodes[nid].flowPred }

// VarScope returns the declaring scope of a variable node.
func (g *Graph) VarScope(nid int) string { return g.nodes[nid].scope }

// VarID returns the variable name of a variable node.
func (g *Graph) VarID(nid int) string { return g.nodes[nid].varName }
