package commands

import (
	"fmt"
	"os"

	"github.com/l3aro/go-dataflow-query/internal/scanner"
	"github.com/l3aro/go-dataflow-query/pkg/cfg"
	"github.com/l3aro/go-dataflow-query/pkg/dataflow"
)

// buildGraph reads a source file and builds the flow graph for one of its
// functions. The raw content is returned alongside so callers can derive
// cache keys from it.
func buildGraph(filePath, functionName string) (*cfg.Graph, []byte, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return nil, nil, fmt.Errorf("path is a directory, expected a file: %s", filePath)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading file: %w", err)
	}

	var g *cfg.Graph
	switch scanner.Language(filePath) {
	case "python":
		g, err = cfg.BuildPython(content, functionName)
	case "php":
		g, err = cfg.BuildPHP(content, functionName)
	default:
		return nil, nil, fmt.Errorf("unsupported file type: %s (only .py and .php files supported)", filePath)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("building flow graph: %w", err)
	}
	return g, content, nil
}

// printResult prints one analysis result in human-readable form, one line
// per variable occurrence.
func printResult(g *cfg.Graph, res *dataflow.Result) {
	fmt.Printf("=== %s ===\n", res.Analysis)
	for _, nid := range g.NodeIDs() {
		if g.Type(nid) != cfg.TypeVariable {
			continue
		}
		in, out := res.FactsAt(nid)
		fmt.Printf("  node %d: %s.%s (line %d)\n", nid, g.VarScope(nid), g.VarID(nid), g.Line(nid))
		fmt.Printf("    in:  %s\n", describeNodes(g, in))
		fmt.Printf("    out: %s\n", describeNodes(g, out))
	}
}

// describeNodes renders a node set as variable occurrences with lines.
func describeNodes(g *cfg.Graph, s dataflow.NodeSet) string {
	ids := s.Sorted()
	if len(ids) == 0 {
		return "(none)"
	}
	out := ""
	for i, nid := range ids {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s@%d(node %d)", g.VarID(nid), g.Line(nid), nid)
	}
	return out
}
