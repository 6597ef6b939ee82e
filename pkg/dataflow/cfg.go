package dataflow

// CFG is the read-only view of a control flow graph the analyses consume.
// Node ids are opaque integers, stable for the lifetime of one analysis run.
// Structural edges (Children/Parents) describe the shape of the program;
// flow edges (AnyChildren/AnyParents) describe possible execution order and
// follow every edge kind, branch and fall-through alike.
//
// *cfg.Graph implements this interface.
type CFG interface {
	// NodeIDs enumerates every node id in the graph.
	NodeIDs() []int

	// Type returns the node's type tag, e.g. "Variable", "BinOP", "Entry".
	Type(nid int) string

	// Image returns the node's textual image, e.g. "=" for an assignment
	// operator or the variable name for a variable occurrence.
	Image(nid int) string

	// Children returns the node's direct structural children in order.
	Children(nid int) []int

	// OpHands returns the two operand ids of a binary-operator node. It
	// fails when the node has fewer than two structural children.
	OpHands(nid int) (left, right int, err error)

	// Parents returns the node's structural parents.
	Parents(nid int) []int

	// AnyChildren returns all control-flow successors of the node.
	AnyChildren(nid int) []int

	// AnyParents returns all control-flow predecessors of the node.
	AnyParents(nid int) []int

	// VarScope returns the declaring scope of a variable node.
	VarScope(nid int) string

	// VarID returns the variable name of a variable node.
	VarID(nid int) string
}

// VarKey identifies "the same variable" across all of its occurrences: two
// variable nodes denote the same variable iff their keys are equal.
type VarKey struct {
	Scope string
	Name  string
}

// varKey returns the identity key of a variable-occurrence node.
func varKey(g CFG, nid int) VarKey {
	return VarKey{Scope: g.VarScope(nid), Name: g.VarID(nid)}
}
