package cfg

import (
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"
)

// phpBuilder lowers one PHP function or method to a node-level CFG.
type phpBuilder struct {
	content []byte
	graph   *Graph
	scope   string

	frontier []int
	returns  []int
	globals  map[string]bool
}

// ExtractPHP builds the CFG for the named function or method in a PHP file.
func ExtractPHP(filePath string, functionName string) (*Graph, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", filePath, err)
	}
	return BuildPHP(content, functionName)
}

// BuildPHP builds the CFG for the named function or method in PHP source.
// For a method, the enclosing class's property declarations become variable
// definitions scoped to the class.
func BuildPHP(content []byte, functionName string) (*Graph, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(php.GetLanguage())
	tree := parser.Parse(nil, content)
	defer tree.Close()

	funcNode, classNode := findPHPFunction(tree.RootNode(), content, functionName, nil)
	if funcNode == nil {
		return nil, fmt.Errorf("function %q not found", functionName)
	}
	body := funcNode.ChildByFieldName("body")
	if body == nil {
		return nil, fmt.Errorf("function body not found for %s", functionName)
	}

	b := &phpBuilder{
		content: content,
		graph:   NewGraph(functionName),
		scope:   functionName,
		globals: make(map[string]bool),
	}

	entry := b.graph.AddNode(TypeEntry, "entry")
	b.graph.SetLine(entry, int(funcNode.StartPoint().Row)+1)
	b.frontier = []int{entry}

	if classNode != nil {
		b.processProperties(classNode)
	}
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

// findPHPFunction searches for a function definition or method declaration
// by name, returning the function node and its enclosing class, if any.
func findPHPFunction(node *sitter.Node, content []byte, funcName string, class *sitter.Node) (*sitter.Node, *sitter.Node) {
	if node == nil {
		return nil, nil
	}
	switch node.Type() {
	case "function_definition", "method_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			if string(content[name.StartByte():name.EndByte()]) == funcName {
				return node, class
			}
		}
	case "class_declaration":
		class = node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if fn, cl := findPHPFunction(node.Child(i), content, funcName, class); fn != nil {
			return fn, cl
		}
	}
	return nil, nil
}

func (b *phpBuilder) text(n *sitter.Node) string {
	return string(b.content[n.StartByte():n.EndByte()])
}

// varName strips the leading $ sigil from a variable_name node.
func (b *phpBuilder) varName(n *sitter.Node) string {
	return strings.TrimPrefix(b.text(n), "$")
}

func (b *phpBuilder) link(nid int) {
	for _, f := range b.frontier {
		b.graph.AddFlowEdge(f, nid)
	}
	b.frontier = []int{nid}
}

func (b *phpBuilder) newVariable(name string, line int, scope string) int {
	nid := b.graph.AddNode(TypeVariable, name)
	if scope == "" {
		scope = b.scope
		if b.globals[name] {
			scope = "global"
		}
	}
	b.graph.SetVar(nid, scope, name)
	b.graph.SetLine(nid, line)
	b.link(nid)
	return nid
}

// processProperties lowers the enclosing class's property declarations:
// each property becomes a class-scoped variable occurrence under a
// PropertyMemberDeclaration structural parent, chained after entry.
func (b *phpBuilder) processProperties(classNode *sitter.Node) {
	className := "class"
	if name := classNode.ChildByFieldName("name"); name != nil {
		className = b.text(name)
	}
	body := classNode.ChildByFieldName("body")
	if body == nil {
		return
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		decl := body.NamedChild(i)
		if decl.Type() != "property_declaration" {
			continue
		}
		line := int(decl.StartPoint().Row) + 1
		declNid := b.graph.AddNode(TypePropertyDecl, b.text(decl))
		b.graph.SetLine(declNid, line)

		for j := 0; j < int(decl.NamedChildCount()); j++ {
			elem := decl.NamedChild(j)
			if elem.Type() != "property_element" {
				continue
			}
			nameNode := firstChildOfType(elem, "variable_name")
			if nameNode == nil {
				continue
			}
			varNid := b.newVariable(b.varName(nameNode), line, className)
			b.graph.AddChild(declNid, varNid)
		}
	}
}

func firstChildOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child.Type() == typ {
			return child
		}
	}
	return nil
}

func (b *phpBuilder) processParameters(params *sitter.Node) {
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "simple_parameter", "property_promotion_parameter", "variadic_parameter":
		default:
			continue
		}
		nameNode := p.ChildByFieldName("name")
		if nameNode == nil {
			nameNode = firstChildOfType(p, "variable_name")
		}
		if nameNode == nil {
			continue
		}

		paramType := TypeFormalParam
		if p.ChildByFieldName("default_value") != nil {
			paramType = TypeOptionalParam
		}

		line := int(p.StartPoint().Row) + 1
		varNid := b.newVariable(b.varName(nameNode), line, "")
		paramNid := b.graph.AddNode(paramType, b.text(p))
		b.graph.SetLine(paramNid, line)
		b.graph.AddChild(varNid, paramNid)
	}
}

func (b *phpBuilder) processBlock(block *sitter.Node) {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		b.processStatement(block.NamedChild(i))
	}
}

func (b *phpBuilder) processStatement(stmt *sitter.Node) {
	switch stmt.Type() {
	case "expression_statement":
		if expr := stmt.NamedChild(0); expr != nil {
			b.processExpression(expr)
		}
	case "compound_statement":
		b.processBlock(stmt)
	case "if_statement":
		b.processIf(stmt)
	case "while_statement":
		b.processWhile(stmt)
	case "return_statement":
		b.processReturn(stmt)
	case "global_declaration":
		b.processGlobal(stmt)
	case "echo_statement":
		for i := 0; i < int(stmt.NamedChildCount()); i++ {
			b.processExpression(stmt.NamedChild(i))
		}
	case "function_definition", "class_declaration":
		// separate analysis units
	default:
		for i := 0; i < int(stmt.NamedChildCount()); i++ {
			b.processExpression(stmt.NamedChild(i))
		}
	}
}

// processExpression lowers an expression to flow-linked nodes in evaluation
// order and returns the structural root node of the expression.
func (b *phpBuilder) processExpression(expr *sitter.Node) int {
	line := int(expr.StartPoint().Row) + 1

	switch expr.Type() {
	case "variable_name":
		return b.newVariable(b.varName(expr), line, "")

	case "assignment_expression", "augmented_assignment_expression":
		return b.processAssignment(expr, expr.Type() == "augmented_assignment_expression")

	case "binary_expression":
		left := expr.ChildByFieldName("left")
		right := expr.ChildByFieldName("right")
		var hands []int
		if left != nil {
			hands = append(hands, b.processExpression(left))
		}
		if right != nil {
			hands = append(hands, b.processExpression(right))
		}
		image := ""
		if op := expr.ChildByFieldName("operator"); op != nil {
			image = b.text(op)
		}
		nid := b.graph.AddNode(TypeBinOP, image)
		b.graph.SetLine(nid, line)
		for _, h := range hands {
			b.graph.AddChild(nid, h)
		}
		b.link(nid)
		return nid

	case "function_call_expression", "member_call_expression":
		var argNids []int
		if args := expr.ChildByFieldName("arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				arg := args.NamedChild(i)
				if inner := arg.NamedChild(0); inner != nil {
					argNids = append(argNids, b.processExpression(inner))
				}
			}
		}
		image := ""
		if fn := expr.ChildByFieldName("function"); fn != nil {
			image = b.text(fn)
		} else if name := expr.ChildByFieldName("name"); name != nil {
			image = b.text(name)
		}
		nid := b.graph.AddNode(TypeCall, image)
		b.graph.SetLine(nid, line)
		for _, a := range argNids {
			b.graph.AddChild(nid, a)
		}
		b.link(nid)
		return nid

	case "parenthesized_expression":
		if inner := expr.NamedChild(0); inner != nil {
			return b.processExpression(inner)
		}
	}

	var childNids []int
	for i := 0; i < int(expr.NamedChildCount()); i++ {
		childNids = append(childNids, b.processExpression(expr.NamedChild(i)))
	}
	nid := b.graph.AddNode(TypeExpression, expr.Type())
	b.graph.SetLine(nid, line)
	for _, c := range childNids {
		b.graph.AddChild(nid, c)
	}
	b.link(nid)
	return nid
}

// processAssignment lowers `$target = expr` to a BinOP "=" node with the
// target variable as left operand.
func (b *phpBuilder) processAssignment(assign *sitter.Node, augmented bool) int {
	left := assign.ChildByFieldName("left")
	right := assign.ChildByFieldName("right")
	line := int(assign.StartPoint().Row) + 1

	if augmented && left != nil && left.Type() == "variable_name" {
		b.newVariable(b.varName(left), line, "")
	}

	var rightNid int
	if right != nil {
		rightNid = b.processExpression(right)
	} else {
		rightNid = b.graph.AddNode(TypeExpression, "")
		b.graph.SetLine(rightNid, line)
		b.link(rightNid)
	}

	if left == nil || left.Type() != "variable_name" {
		// $this->x and friends: not a plain variable target
		if left != nil {
			b.processExpression(left)
		}
		return rightNid
	}

	targetNid := b.newVariable(b.varName(left), line, "")
	binop := b.graph.AddNode(TypeBinOP, "=")
	b.graph.SetLine(binop, line)
	b.graph.AddChild(binop, targetNid)
	b.graph.AddChild(binop, rightNid)
	b.link(binop)
	return binop
}

func (b *phpBuilder) processIf(stmt *sitter.Node) {
	var merged []int

	if cond := stmt.ChildByFieldName("condition"); cond != nil {
		b.processExpression(cond)
	}
	condFrontier := b.frontier

	if body := stmt.ChildByFieldName("body"); body != nil {
		b.processStatement(body)
		merged = append(merged, b.frontier...)
	}

	hasElse := false
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		clause := stmt.NamedChild(i)
		switch clause.Type() {
		case "else_if_clause":
			b.frontier = condFrontier
			if c := clause.ChildByFieldName("condition"); c != nil {
				b.processExpression(c)
			}
			condFrontier = b.frontier
			if body := clause.ChildByFieldName("body"); body != nil {
				b.processStatement(body)
			}
			merged = append(merged, b.frontier...)
		case "else_clause":
			hasElse = true
			b.frontier = condFrontier
			if body := clause.ChildByFieldName("body"); body != nil {
				b.processStatement(body)
			}
			merged = append(merged, b.frontier...)
		}
	}
	if !hasElse {
		merged = append(merged, condFrontier...)
	}
	b.frontier = merged
}

func (b *phpBuilder) processWhile(stmt *sitter.Node) {
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
		b.processStatement(body)
	}
	for _, f := range b.frontier {
		b.graph.AddFlowEdge(f, condHead)
	}
	b.frontier = condFrontier
}

func (b *phpBuilder) processReturn(stmt *sitter.Node) {
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		b.processExpression(stmt.NamedChild(i))
	}
	ret := b.graph.AddNode(TypeReturn, "return")
	b.graph.SetLine(ret, int(stmt.StartPoint().Row)+1)
	b.link(ret)
	b.returns = append(b.returns, ret)
	b.frontier = nil
}

// processGlobal lowers `global $x;`: the occurrence takes the global scope
// and sits under a Global-tagged structural parent.
func (b *phpBuilder) processGlobal(stmt *sitter.Node) {
	line := int(stmt.StartPoint().Row) + 1
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		v := stmt.NamedChild(i)
		if v.Type() != "variable_name" {
			continue
		}
		name := b.varName(v)
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
