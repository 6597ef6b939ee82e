package cfg

import (
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// pythonBuilder lowers one Python function to a node-level CFG.
type pythonBuilder struct {
	content []byte
	graph   *Graph
	scope   string

	// frontier holds the nodes whose outgoing flow edges attach to the next
	// node created; empty after a return statement.
	frontier []int
	// returns collects the dangling ends of return statements, wired to the
	// exit node at the end.
	returns []int
	// globals holds names declared global in this function; their
	// occurrences take the module scope.
	globals map[string]bool
}

// ExtractPython builds the CFG for the named function in a Python file.
func ExtractPython(filePath string, functionName string) (*Graph, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", filePath, err)
	}
	return BuildPython(content, functionName)
}

// BuildPython builds the CFG for the named function in Python source.
func BuildPython(content []byte, functionName string) (*Graph, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree := parser.Parse(nil, content)
	defer tree.Close()

	funcNode := findPythonFunction(tree.RootNode(), content, functionName)
	if funcNode == nil {
		return nil, fmt.Errorf("function %q not found", functionName)
	}
	body := funcNode.ChildByFieldName("body")
	if body == nil {
		return nil, fmt.Errorf("function body not found for %s", functionName)
	}

	b := &pythonBuilder{
		content: content,
		graph:   NewGraph(functionName),
		scope:   functionName,
		globals: make(map[string]bool),
	}

	entry := b.graph.AddNode(TypeEntry, "entry")
	b.graph.SetLine(entry, int(funcNode.StartPoint().Row)+1)
	b.frontier = []int{entry}

	if params := funcNode.ChildByFieldName("parameters"); params != nil {
		b.processParameters(params)
	}
	b.processBlock(body)

	exit := b.graph.AddNode(TypeExit, "exit")
	b.graph.SetLine(exit, int(funcNode.EndPoint().Row)+1)
	b.link(exit)
	for _, r := range b.returns {
		b.graph.AddFlowEdge(r, exit)
	}

	return b.graph, nil
}

// findPythonFunction searches for a function definition node by name.
func findPythonFunction(node *sitter.Node, content []byte, funcName string) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Type() == "function_definition" {
		if name := node.ChildByFieldName("name"); name != nil {
			if string(content[name.StartByte():name.EndByte()]) == funcName {
				return node
			}
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if result := findPythonFunction(node.Child(i), content, funcName); result != nil {
			return result
		}
	}
	return nil
}

func (b *pythonBuilder) text(n *sitter.Node) string {
	return string(b.content[n.StartByte():n.EndByte()])
}

// link attaches a flow edge from every frontier node to nid and makes nid
// the new frontier.
func (b *pythonBuilder) link(nid int) {
	for _, f := range b.frontier {
		b.graph.AddFlowEdge(f, nid)
	}
	b.frontier = []int{nid}
}

// newVariable creates a flow-linked variable occurrence node.
func (b *pythonBuilder) newVariable(name string, line int) int {
	nid := b.graph.AddNode(TypeVariable, name)
	scope := b.scope
	if b.globals[name] {
		scope = "global"
	}
	b.graph.SetVar(nid, scope, name)
	b.graph.SetLine(nid, line)
	b.link(nid)
	return nid
}

// processParameters lowers formal parameters: each becomes a variable node
// wrapping a parameter node, chained after the entry node.
func (b *pythonBuilder) processParameters(params *sitter.Node) {
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		paramType := TypeFormalParam
		var nameNode *sitter.Node

		switch p.Type() {
		case "identifier":
			nameNode = p
		case "typed_parameter":
			nameNode = p.NamedChild(0)
		case "default_parameter", "typed_default_parameter":
			paramType = TypeOptionalParam
			nameNode = p.ChildByFieldName("name")
		default:
			// *args / **kwargs wrappers hold a plain identifier
			nameNode = p.NamedChild(0)
		}
		if nameNode == nil || nameNode.Type() != "identifier" {
			continue
		}

		line := int(p.StartPoint().Row) + 1
		varNid := b.newVariable(b.text(nameNode), line)
		paramNid := b.graph.AddNode(paramType, b.text(p))
		b.graph.SetLine(paramNid, line)
		b.graph.AddChild(varNid, paramNid)
	}
}

func (b *pythonBuilder) processBlock(block *sitter.Node) {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		b.processStatement(block.NamedChild(i))
	}
}

func (b *pythonBuilder) processStatement(stmt *sitter.Node) {
	switch stmt.Type() {
	case "expression_statement":
		for i := 0; i < int(stmt.NamedChildCount()); i++ {
			child := stmt.NamedChild(i)
			switch child.Type() {
			case "assignment":
				b.processAssignment(child, false)
			case "augmented_assignment":
				b.processAssignment(child, true)
			default:
				b.processExpression(child)
			}
		}
	case "if_statement":
		b.processIf(stmt)
	case "while_statement":
		b.processWhile(stmt)
	case "for_statement":
		b.processFor(stmt)
	case "return_statement":
		b.processReturn(stmt)
	case "global_statement":
		b.processGlobal(stmt)
	case "function_definition", "class_definition":
		// nested definitions are separate analysis units
	default:
		// other statements (pass, import, ...) contribute no dataflow facts
		for i := 0; i < int(stmt.NamedChildCount()); i++ {
			child := stmt.NamedChild(i)
			if isPythonExpression(child) {
				b.processExpression(child)
			}
		}
	}
}

func isPythonExpression(n *sitter.Node) bool {
	switch n.Type() {
	case "identifier", "call", "binary_operator", "boolean_operator",
		"comparison_operator", "attribute", "subscript", "parenthesized_expression":
		return true
	}
	return false
}

// processAssignment lowers `target = expr` to a BinOP "=" node whose left
// operand is the target variable, evaluated after the right-hand side.
// Augmented assignments read the target before writing it.
func (b *pythonBuilder) processAssignment(assign *sitter.Node, augmented bool) {
	left := assign.ChildByFieldName("left")
	right := assign.ChildByFieldName("right")
	line := int(assign.StartPoint().Row) + 1

	if augmented && left != nil && left.Type() == "identifier" {
		b.newVariable(b.text(left), line)
	}

	var rightNid int
	if right != nil {
		rightNid = b.processExpression(right)
	} else {
		rightNid = b.graph.AddNode(TypeExpression, "")
		b.graph.SetLine(rightNid, line)
		b.link(rightNid)
	}

	if left == nil || left.Type() != "identifier" {
		// tuple targets etc.: each identifier target becomes a definition
		// with its own assignment node
		if left != nil {
			b.processTargetPattern(left, rightNid, line)
		}
		return
	}

	targetNid := b.newVariable(b.text(left), line)
	binop := b.graph.AddNode(TypeBinOP, "=")
	b.graph.SetLine(binop, line)
	b.graph.AddChild(binop, targetNid)
	b.graph.AddChild(binop, rightNid)
	b.link(binop)
}

// processTargetPattern handles tuple/list assignment targets.
func (b *pythonBuilder) processTargetPattern(pattern *sitter.Node, rightNid, line int) {
	for i := 0; i < int(pattern.NamedChildCount()); i++ {
		target := pattern.NamedChild(i)
		if target.Type() != "identifier" {
			continue
		}
		targetNid := b.newVariable(b.text(target), line)
		binop := b.graph.AddNode(TypeBinOP, "=")
		b.graph.SetLine(binop, line)
		b.graph.AddChild(binop, targetNid)
		b.graph.AddChild(binop, rightNid)
		b.link(binop)
	}
}

// processExpression lowers an expression to flow-linked nodes in evaluation
// order and returns the structural root node of the expression.
func (b *pythonBuilder) processExpression(expr *sitter.Node) int {
	line := int(expr.StartPoint().Row) + 1

	switch expr.Type() {
	case "identifier":
		return b.newVariable(b.text(expr), line)

	case "binary_operator", "boolean_operator", "comparison_operator":
		left := expr.ChildByFieldName("left")
		right := expr.ChildByFieldName("right")
		var hands []int
		if left != nil {
			hands = append(hands, b.processExpression(left))
		}
		if right != nil {
			hands = append(hands, b.processExpression(right))
		}
		op := b.graph.AddNode(TypeBinOP, b.operatorImage(expr))
		b.graph.SetLine(op, line)
		for _, h := range hands {
			b.graph.AddChild(op, h)
		}
		b.link(op)
		return op

	case "call":
		args := expr.ChildByFieldName("arguments")
		var argNids []int
		if args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				argNids = append(argNids, b.processExpression(args.NamedChild(i)))
			}
		}
		fn := expr.ChildByFieldName("function")
		image := ""
		if fn != nil {
			image = b.text(fn)
		}
		call := b.graph.AddNode(TypeCall, image)
		b.graph.SetLine(call, line)
		for _, a := range argNids {
			b.graph.AddChild(call, a)
		}
		b.link(call)
		return call

	case "parenthesized_expression":
		if inner := expr.NamedChild(0); inner != nil {
			return b.processExpression(inner)
		}
	}

	// literals, attributes, subscripts, ...: a generic expression node over
	// whatever sub-expressions they evaluate
	var childNids []int
	for i := 0; i < int(expr.NamedChildCount()); i++ {
		child := expr.NamedChild(i)
		if isPythonExpression(child) {
			childNids = append(childNids, b.processExpression(child))
		}
	}
	nid := b.graph.AddNode(TypeExpression, expr.Type())
	b.graph.SetLine(nid, line)
	for _, c := range childNids {
		b.graph.AddChild(nid, c)
	}
	b.link(nid)
	return nid
}

// operatorImage returns the operator token of a binary expression.
func (b *pythonBuilder) operatorImage(expr *sitter.Node) string {
	if op := expr.ChildByFieldName("operator"); op != nil {
		return b.text(op)
	}
	for i := 0; i < int(expr.ChildCount()); i++ {
		child := expr.Child(i)
		if !child.IsNamed() {
			return b.text(child)
		}
	}
	return ""
}

func (b *pythonBuilder) processIf(stmt *sitter.Node) {
	var merged []int

	if cond := stmt.ChildByFieldName("condition"); cond != nil {
		b.processExpression(cond)
	}
	condFrontier := b.frontier

	if consequence := stmt.ChildByFieldName("consequence"); consequence != nil {
		b.processBlock(consequence)
		merged = append(merged, b.frontier...)
	}

	hasElse := false
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		clause := stmt.NamedChild(i)
		switch clause.Type() {
		case "elif_clause":
			b.frontier = condFrontier
			if c := clause.ChildByFieldName("condition"); c != nil {
				b.processExpression(c)
			}
			condFrontier = b.frontier
			if body := clause.ChildByFieldName("consequence"); body != nil {
				b.processBlock(body)
			}
			merged = append(merged, b.frontier...)
		case "else_clause":
			hasElse = true
			b.frontier = condFrontier
			if body := clause.ChildByFieldName("body"); body != nil {
				b.processBlock(body)
			}
			merged = append(merged, b.frontier...)
		}
	}
	if !hasElse {
		// false path falls through past the statement
		merged = append(merged, condFrontier...)
	}
	b.frontier = merged
}

func (b *pythonBuilder) processWhile(stmt *sitter.Node) {
	condHead := b.graph.Len()
	if cond := stmt.ChildByFieldName("condition"); cond != nil {
		b.processExpression(cond)
	} else {
		nid := b.graph.AddNode(TypeCondition, "while")
		b.graph.SetLine(nid, int(stmt.StartPoint().Row)+1)
		b.link(nid)
	}
	condFrontier := b.frontier

	if body := stmt.ChildByFieldName("body"); body != nil {
		b.processBlock(body)
	}
	// back edge to the first condition node
	for _, f := range b.frontier {
		b.graph.AddFlowEdge(f, condHead)
	}
	b.frontier = condFrontier
}

// processFor lowers `for target in iterable` as an assignment of the
// iterable expression to the target, looped over the body.
func (b *pythonBuilder) processFor(stmt *sitter.Node) {
	head := b.graph.Len()
	line := int(stmt.StartPoint().Row) + 1

	var iterNid int
	if right := stmt.ChildByFieldName("right"); right != nil {
		iterNid = b.processExpression(right)
	} else {
		iterNid = b.graph.AddNode(TypeExpression, "")
		b.graph.SetLine(iterNid, line)
		b.link(iterNid)
	}

	if left := stmt.ChildByFieldName("left"); left != nil {
		if left.Type() == "identifier" {
			targetNid := b.newVariable(b.text(left), line)
			binop := b.graph.AddNode(TypeBinOP, "=")
			b.graph.SetLine(binop, line)
			b.graph.AddChild(binop, targetNid)
			b.graph.AddChild(binop, iterNid)
			b.link(binop)
		} else {
			b.processTargetPattern(left, iterNid, line)
		}
	}
	loopFrontier := b.frontier

	if body := stmt.ChildByFieldName("body"); body != nil {
		b.processBlock(body)
	}
	for _, f := range b.frontier {
		b.graph.AddFlowEdge(f, head)
	}
	b.frontier = loopFrontier
}

func (b *pythonBuilder) processReturn(stmt *sitter.Node) {
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		if isPythonExpression(child) {
			b.processExpression(child)
		}
	}
	ret := b.graph.AddNode(TypeReturn, "return")
	b.graph.SetLine(ret, int(stmt.StartPoint().Row)+1)
	b.link(ret)
	b.returns = append(b.returns, ret)
	b.frontier = nil
}

// processGlobal records declared globals and lowers each name to a variable
// occurrence under a Global-tagged structural parent.
func (b *pythonBuilder) processGlobal(stmt *sitter.Node) {
	line := int(stmt.StartPoint().Row) + 1
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		ident := stmt.NamedChild(i)
		if ident.Type() != "identifier" {
			continue
		}
		name := b.text(ident)
		b.globals[name] = true

		varNid := b.graph.AddNode(TypeVariable, name)
		b.graph.SetVar(varNid, "global", name)
		b.graph.SetLine(varNid, line)
		globalNid := b.graph.AddNode(TypeGlobal, "global")
		b.graph.SetLine(globalNid, line)
		b.graph.AddChild(globalNid, varNid)
		b.link(varNid)
	}
}
