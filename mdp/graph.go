package mdp

import (
	"fmt"
	"io"
	"strings"
)

// Graph owns every node of one MDP, keyed by name.
type Graph struct {
	nodes map[string]*Node
	// order lists node names by first mention in the input.
	order []string
}

// Stats summarizes the shape of a built graph.
type Stats struct {
	Nodes    int `json:"nodes" yaml:"nodes"`
	Decision int `json:"decision_nodes" yaml:"decision_nodes"`
	Chance   int `json:"chance_nodes" yaml:"chance_nodes"`
	Terminal int `json:"terminal_nodes" yaml:"terminal_nodes"`
}

func newGraph() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// node returns the named node, creating it on first mention.
func (g *Graph) node(name string) *Node {
	if n, ok := g.nodes[name]; ok {
		return n
	}
	n := newNode(name)
	g.nodes[name] = n
	g.order = append(g.order, name)
	return n
}

// Node looks up a node by name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Nodes returns all nodes in first-mention order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.nodes[name])
	}
	return out
}

// DecisionNodes returns the decision nodes in first-mention order.
func (g *Graph) DecisionNodes() []*Node {
	var out []*Node
	for _, name := range g.order {
		if n := g.nodes[name]; n.Decision {
			out = append(out, n)
		}
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// Stats counts nodes by kind.
func (g *Graph) Stats() Stats {
	s := Stats{Nodes: len(g.order)}
	for _, n := range g.nodes {
		switch {
		case n.Decision:
			s.Decision++
		case n.IsTerminal():
			s.Terminal++
		default:
			s.Chance++
		}
	}
	return s
}

// Dump writes one line per node: name, reward, transition probabilities,
// kind (DN for decision, N otherwise) and success rate for decision nodes.
func (g *Graph) Dump(w io.Writer) error {
	for _, n := range g.Nodes() {
		probs := make([]string, 0, len(n.Edges))
		for _, e := range n.Edges {
			probs = append(probs, fmt.Sprintf("%s:%g", e, n.Probs[e]))
		}
		kind, rate := "N", ""
		if n.Decision {
			kind, rate = "DN", fmt.Sprintf("%g", n.SuccessRate)
		}
		if _, err := fmt.Fprintf(w, "%s - %g - {%s} - %s - %s\n",
			n.Name, n.Reward, strings.Join(probs, ", "), kind, rate); err != nil {
			return err
		}
	}
	return nil
}

