package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow-query/pkg/cfg"
)

// cfgCmd represents the cfg command
var cfgCmd = &cobra.Command{
	Use:   "cfg <file> <function>",
	Short: "Dump the control flow graph of a function",
	Long: `Builds the node-level control flow graph for one function of a Python
or PHP source file and prints its nodes, structural edges, and flow edges.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, _, err := buildGraph(args[0], args[1])
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			data, err := json.MarshalIndent(graphDump(g), "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		printGraph(g)
		return nil
	},
}

// graphNode is the JSON shape of one graph node.
type graphNode struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	Image    string `json:"image,omitempty"`
	Scope    string `json:"scope,omitempty"`
	Variable string `json:"variable,omitempty"`
	Line     int    `json:"line,omitempty"`
	Children []int  `json:"children,omitempty"`
	FlowSucc []int  `json:"flow_succ,omitempty"`
}

func graphDump(g *cfg.Graph) []graphNode {
	nodes := make([]graphNode, 0, len(g.NodeIDs()))
	for _, nid := range g.NodeIDs() {
		nodes = append(nodes, graphNode{
			ID:       nid,
			Type:     g.Type(nid),
			Image:    g.Image(nid),
			Scope:    g.VarScope(nid),
			Variable: g.VarID(nid),
			Line:     g.Line(nid),
			Children: g.Children(nid),
			FlowSucc: g.AnyChildren(nid),
		})
	}
	return nodes
}

func printGraph(g *cfg.Graph) {
	fmt.Printf("=== Flow graph (%d nodes) ===\n", len(g.NodeIDs()))
	for _, nid := range g.NodeIDs() {
		fmt.Printf("  %d: %s", nid, g.Type(nid))
		if img := g.Image(nid); img != "" {
			fmt.Printf(" %q", img)
		}
		if name := g.VarID(nid); name != "" {
			fmt.Printf(" var=%s.%s", g.VarScope(nid), name)
		}
		if line := g.Line(nid); line != 0 {
			fmt.Printf(" line=%d", line)
		}
		if children := g.Children(nid); len(children) > 0 {
			fmt.Printf(" children=%v", children)
		}
		if succ := g.AnyChildren(nid); len(succ) > 0 {
			fmt.Printf(" ->%v", succ)
		}
		fmt.Println()
	}
}

func init() {
	cfgCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	RootCmd.AddCommand(cfgCmd)
}
